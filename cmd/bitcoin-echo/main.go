package main

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/meridianchain/utxocore/pkg/bitcoin"
)

const (
	Name    = "bitcoin-echo"
	Version = "0.2.0-dev"
)

func main() {
	fmt.Printf("%s v%s\n", Name, Version)
	fmt.Println("A Pure Bitcoin Node Implementation")
	fmt.Println("")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			printVersion()
		case "help":
			printHelp()
		case "demo":
			runDemo()
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
		return
	}

	runDemo()
}

func printVersion() {
	fmt.Printf("%s version %s\n", Name, Version)
	fmt.Println("Built with Go")
}

func printHelp() {
	fmt.Printf("Usage: %s [command]\n", Name)
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  help        Show this help message")
	fmt.Println("  version     Show version information")
	fmt.Println("  demo        Exercise the validation core and merkle tree")
	fmt.Println("  (no args)   Same as demo")
}

func runDemo() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	bitcoin.SetLogger(logger)

	demoP2PKH(logger)
	demoMerkleTree(logger)
}

// demoP2PKH exercises spec §8 scenario 1 (P2PKH accept) and scenario 2
// (P2PKH reject with a mismatched key).
func demoP2PKH(logger *zap.Logger) {
	txHash, err := bitcoin.NewHash256FromString(strings.Repeat("00", 32))
	if err != nil {
		logger.Fatal("failed to build sample hash", zap.Error(err))
	}
	outpoint := bitcoin.OutPoint{TxHash: txHash, N: 0}

	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		logger.Fatal("failed to generate keypair", zap.Error(err))
	}
	pk, err := bitcoin.NewPublicKeyFromBytes(pub)
	if err != nil {
		logger.Fatal("failed to wrap public key", zap.Error(err))
	}

	signable, err := bitcoin.SignableOutpointHash(outpoint)
	if err != nil {
		logger.Fatal("failed to compute signable outpoint hash", zap.Error(err))
	}
	sigBytes := ed25519.Sign(priv, []byte(signable))
	sig, err := bitcoin.NewSignatureFromBytes(sigBytes)
	if err != nil {
		logger.Fatal("failed to wrap signature", zap.Error(err))
	}

	address, err := bitcoin.Address(pk, bitcoin.AddressVersionDefault)
	if err != nil {
		logger.Fatal("failed to derive address", zap.Error(err))
	}

	script := bitcoin.Script{Stack: []bitcoin.StackEntry{
		bitcoin.BytesEntry(signable),
		bitcoin.SignatureEntry(sig),
		bitcoin.PubKeyEntry(pk),
		bitcoin.OpEntry(bitcoin.OP_DUP),
		bitcoin.OpEntry(bitcoin.OP_HASH256),
		bitcoin.PubKeyHashEntry(address),
		bitcoin.OpEntry(bitcoin.OP_EQUALVERIFY),
		bitcoin.OpEntry(bitcoin.OP_CHECKSIG),
	}}

	tx := bitcoin.Transaction{
		Inputs: []bitcoin.TxIn{{
			PreviousOut:     &outpoint,
			ScriptSignature: script,
		}},
		Outputs: []bitcoin.TxOut{{
			Value:           bitcoin.NewToken(5),
			ScriptPublicKey: &address,
		}},
		Version: 1,
	}

	view := bitcoin.MapUTXOView(map[bitcoin.OutPoint]bitcoin.TxOut{
		outpoint: {Value: bitcoin.NewToken(5), ScriptPublicKey: &address},
	})

	fmt.Printf("P2PKH accept scenario: tx_is_valid = %t\n", bitcoin.TxIsValid(tx, view))

	_, otherPriv, _ := ed25519.GenerateKey(nil)
	wrongSigBytes := ed25519.Sign(otherPriv, []byte(signable))
	wrongSig, _ := bitcoin.NewSignatureFromBytes(wrongSigBytes)
	tx.Inputs[0].ScriptSignature.Stack[1] = bitcoin.SignatureEntry(wrongSig)

	fmt.Printf("P2PKH reject scenario (wrong key): tx_is_valid = %t\n", bitcoin.TxIsValid(tx, view))
}

// demoMerkleTree builds a tree over five leaves from a small, varied hash
// set (the spec §8 scenario 7 setup) and prints its depth, its root and
// the length of the audit path for leaves[1]. It does not recompute the
// root from that path.
func demoMerkleTree(logger *zap.Logger) {
	leaves := make([]bitcoin.Hash256, 5)
	for i := range leaves {
		h, err := bitcoin.NewHash256FromBytes(append([]byte{byte(i + 1)}, make([]byte, 31)...))
		if err != nil {
			logger.Fatal("failed to build leaf hash", zap.Error(err))
		}
		leaves[i] = h
	}

	tree := bitcoin.NewMerkleTree(leaves)
	fmt.Printf("Merkle tree: depth=%d root=%s\n", tree.Depth, tree.Root.String())

	path := tree.GetAuditPath(leaves[1])
	fmt.Printf("Audit path for leaves[1]: length=%d\n", len(path))
}
