package bitcoin

import (
	"fmt"
)

// MerkleRootAndHash pairs a block's Merkle root with a flat hash over the
// same transaction set: hex(SHA3-256(canonical_serialize(tx_hashes))).
// The flat hash lets a lightweight collaborator compare two blocks'
// transaction sets without recomputing (or trusting) the full tree.
type MerkleRootAndHash struct {
	Root Hash256
	Flat Hash256
}

// BlockHeader is the commitment metadata surrounding a block's
// transaction list (spec §3).
type BlockHeader struct {
	Version              uint32
	Bits                 uint32
	NonceAndMiningTxHash string
	BNum                 uint64
	SeedValue            string
	PreviousHash         *Hash256
	TxsMerkleRootAndHash MerkleRootAndHash
}

// Block is a header plus the ordered list of transaction hashes it
// commits to. The core works purely with hashes here — the full
// Transaction records are looked up externally by the block/transaction
// store (spec §6).
type Block struct {
	Header       BlockHeader
	Transactions []Hash256
}

// BuildHexTxsHash computes the (root, flat) pair for txs and returns a
// BlockHeader.TxsMerkleRootAndHash-shaped value. The root is
// NewMerkleTree(txs).Root; the flat hash is a direct canonical-serializer
// hash over the ordered hex-encoded hash list, independent of any
// padding the Merkle construction performs.
func BuildHexTxsHash(txs []Hash256) (MerkleRootAndHash, error) {
	tree := NewMerkleTree(txs)

	hexes := make([]string, len(txs))
	for i, h := range txs {
		hexes[i] = h.String()
	}
	payload, err := CanonicalSerialize(hexes)
	if err != nil {
		return MerkleRootAndHash{}, err
	}
	flat, err := NewHash256FromString(HexSha3_256(payload))
	if err != nil {
		return MerkleRootAndHash{}, err
	}

	return MerkleRootAndHash{Root: tree.Root, Flat: flat}, nil
}

// NewBlock assembles a Block and computes Bits as the serialized byte
// length of the block (spec §3: "bits is set to the serialized byte
// length of the block").
func NewBlock(header BlockHeader, transactions []Hash256) (Block, error) {
	b := Block{Header: header, Transactions: transactions}
	size, err := b.serializedSize()
	if err != nil {
		return Block{}, err
	}
	b.Header.Bits = uint32(size)
	return b, nil
}

// serializedSize computes the canonical-serialized byte length the Bits
// field reports, by serializing the transaction hash list the same way
// BuildHexTxsHash does plus the header's own scalar fields.
func (b Block) serializedSize() (int, error) {
	hexes := make([]string, len(b.Transactions))
	for i, h := range b.Transactions {
		hexes[i] = h.String()
	}
	payload, err := CanonicalSerialize(hexes)
	if err != nil {
		return 0, err
	}
	// 4 (version) + 8 (b_num) + len(nonce string) + len(seed value) +
	// the serialized transaction hash list.
	size := 4 + 8 + len(b.Header.NonceAndMiningTxHash) + len(b.Header.SeedValue) + len(payload)
	return size, nil
}

// IsFull reports whether the block's Bits (serialized byte length) has
// reached MaxBlockSize.
func (b Block) IsFull() bool {
	return b.Header.Bits >= MaxBlockSize
}

// IsGenesis reports whether this block has no previous-block reference.
func (b Block) IsGenesis() bool {
	return b.Header.PreviousHash == nil
}

// Validate performs the header/body sanity checks that stay within the
// core's scope: it does not check proof-of-work or timestamps (those are
// consensus concerns explicitly out of scope, spec §1), only that the
// block is structurally well-formed and not over-size.
func (b Block) Validate() error {
	if len(b.Transactions) == 0 {
		return fmt.Errorf("block has no transactions")
	}
	if b.IsFull() {
		return fmt.Errorf("block size %d meets or exceeds maximum %d", b.Header.Bits, MaxBlockSize)
	}
	return nil
}
