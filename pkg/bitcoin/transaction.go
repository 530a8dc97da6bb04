package bitcoin

import (
	"fmt"
)

// AssetKind tags the two fungibility classes an Asset may belong to.
type AssetKind int

const (
	AssetToken AssetKind = iota
	AssetReceipt
)

func (k AssetKind) String() string {
	switch k {
	case AssetToken:
		return "Token"
	case AssetReceipt:
		return "Receipt"
	default:
		return "Unknown"
	}
}

// Asset is a tagged amount: a fungible Token or a non-fungible Receipt
// bound to a creation-transaction hash (carried on the enclosing TxOut,
// not here — see TxOut.DrsTxHash). Amounts are unsigned by construction;
// the TOTAL_TOKENS ceiling is enforced at conservation time, not on
// construction, matching spec §3's "enforced at validation time" note.
type Asset struct {
	Kind   AssetKind
	Amount uint64
}

// NewToken constructs a Token asset of the given amount.
func NewToken(amount uint64) Asset {
	return Asset{Kind: AssetToken, Amount: amount}
}

// NewReceipt constructs a Receipt asset of the given amount.
func NewReceipt(amount uint64) Asset {
	return Asset{Kind: AssetReceipt, Amount: amount}
}

// OutPoint names a previous transaction and an output index. Equality is
// structural, so OutPoint is safe to use as a map key directly.
type OutPoint struct {
	TxHash Hash256
	N      uint32
}

// TxOut is a transaction output: a value, an optional address it pays to,
// and — for Receipt outputs only — the hash of the transaction that
// created this receipt class.
type TxOut struct {
	Value           Asset
	ScriptPublicKey *string
	DrsTxHash       *Hash256
}

// CheckWellFormed enforces the Token/Receipt DrsTxHash invariant of spec
// §3: a Receipt output must carry a DrsTxHash (it identifies the
// create-transaction that minted the class); a Token output must not.
func (o TxOut) CheckWellFormed() error {
	switch o.Value.Kind {
	case AssetReceipt:
		if o.DrsTxHash == nil {
			return fmt.Errorf("malformed output: receipt missing drs_tx_hash")
		}
	case AssetToken:
		if o.DrsTxHash != nil {
			return fmt.Errorf("malformed output: token carries a drs_tx_hash")
		}
	default:
		return fmt.Errorf("malformed output: unrecognized asset kind %v", o.Value.Kind)
	}
	return nil
}

// TxIn is a transaction input. PreviousOut is nil for coinbase-like
// inputs; a regular spending input always sets it.
type TxIn struct {
	PreviousOut     *OutPoint
	ScriptSignature Script
}

// DruidExpectation names a counterpart asset a DRUID-tagged transaction
// expects to be matched against, carried alongside the DRUID string
// itself. The core does not interpret these — it only exposes them for
// the external pairing collaborator (spec §9, "DRUID pairing").
type DruidExpectation struct {
	From  string
	Asset Asset
}

// DruidInfo tags a dual-spend "DRUID" transaction. The core exposes the
// Druid string, the participant count, and the raw expectations list but
// does not itself match counterpart transactions — that pairing happens
// outside the core (spec §3, §9). ParticipantCount records how many
// transactions must carry this DRUID before the pairing collaborator
// considers the set complete; the core never checks it, only threads it
// through for that collaborator to read.
type DruidInfo struct {
	Druid            string
	ParticipantCount int
	Expectations     []DruidExpectation
}

// Transaction is the unit the validator and Merkle tree both operate
// over.
type Transaction struct {
	Inputs     []TxIn
	Outputs    []TxOut
	Version    uint32
	DruidInfo  *DruidInfo
}

// UTXOView is the external, read-only lookup the validator consumes. It
// is passed as a plain function value rather than an interface so callers
// never need a global singleton or a stateful object to satisfy the
// contract (spec §9, "Polymorphic dependencies"). The core calls it at
// most twice per input and never retains it beyond the call.
type UTXOView func(OutPoint) (TxOut, bool)

// assetKey identifies one (class, drs) bucket in the conservation
// accounting of spec §4.2 step 3.
type assetKey struct {
	class  AssetKind
	drs    Hash256
	hasDrs bool
}

// TxIsValid is tx_is_valid(tx, utxo_lookup) of spec §4.2: it checks
// output well-formedness, verifies every input's P2PKH spending proof
// against the referenced UTXO, and enforces exact per-class conservation
// between consumed and produced assets.
func TxIsValid(tx Transaction, view UTXOView) bool {
	for i, out := range tx.Outputs {
		if err := out.CheckWellFormed(); err != nil {
			LogMalformedOutput(i, err)
			return false
		}
	}

	insSpent := make(map[assetKey]uint64)
	for _, in := range tx.Inputs {
		prev, ok, err := resolveInput(in, view)
		if err != nil || !ok {
			return false
		}
		insSpent[keyForInput(prev, *in.PreviousOut)] += prev.Value.Amount
	}

	return checkConservationLogged(insSpent, outsSpentOf(tx.Outputs))
}

// TxIsValidParallel is a concurrency-layered variant of TxIsValid: each
// input's spending proof is verified on its own goroutine via
// errgroup.Group, with accumulation deferred to the main goroutine once
// every verification has completed. Per spec §5, this parallel path is a
// performance hint only and must return results byte-identical to the
// serial form — it is defined and tested separately in
// transaction_parallel.go rather than folded into TxIsValid, so the
// serial algorithm remains the one specification of correctness.
func TxIsValidParallel(tx Transaction, view UTXOView) bool {
	return txIsValidParallel(tx, view)
}

func resolveInput(in TxIn, view UTXOView) (TxOut, bool, error) {
	if in.PreviousOut == nil {
		return TxOut{}, false, fmt.Errorf("missing utxo: input has no previous_out")
	}
	prev, ok := view(*in.PreviousOut)
	if !ok {
		LogMissingUTXO(*in.PreviousOut)
		return TxOut{}, false, fmt.Errorf("missing utxo: %v not found", *in.PreviousOut)
	}
	if prev.ScriptPublicKey == nil {
		LogScriptShapeMismatch("consumed output has no script_public_key")
		return TxOut{}, false, fmt.Errorf("missing script-public-key on consumed output")
	}
	signable, err := SignableOutpointHash(*in.PreviousOut)
	if err != nil {
		return TxOut{}, false, err
	}
	if !TxHasValidP2PKHSig(in.ScriptSignature, signable, *prev.ScriptPublicKey) {
		LogInterpreterFailure(OP_CHECKSIG, "p2pkh spending proof did not validate")
		return TxOut{}, false, fmt.Errorf("interpreter failure: invalid p2pkh spending proof")
	}
	return prev, true, nil
}

// keyForOutput buckets a produced output by (asset class, drs_tx_hash) for
// the conservation check of spec §4.2 step 3. A Receipt output always
// carries a DrsTxHash (enforced by CheckWellFormed before conservation
// ever runs), so the bucket is simply the output's own class/DRS pair.
func keyForOutput(out TxOut) assetKey {
	if out.DrsTxHash != nil {
		return assetKey{class: out.Value.Kind, drs: *out.DrsTxHash, hasDrs: true}
	}
	return assetKey{class: out.Value.Kind, hasDrs: false}
}

// keyForInput buckets a consumed output by (asset class, drs_tx_hash) for
// the conservation check of spec §4.2 step 3. CheckWellFormed never ran
// on this output — it validated the *spending* transaction's own outputs,
// not the UTXO being consumed — so a Receipt minted by a create
// transaction and never re-spent through a well-formed output can
// legitimately reach here with DrsTxHash nil. Per spec §4.2 step 2e (and
// original_source's get_drs_tx_hash), such a receipt's class is identified
// by the outpoint's own transaction hash: the hash of the create
// transaction that minted it.
func keyForInput(prev TxOut, spent OutPoint) assetKey {
	if prev.Value.Kind != AssetReceipt {
		return assetKey{class: prev.Value.Kind, hasDrs: false}
	}
	if prev.DrsTxHash != nil {
		return assetKey{class: AssetReceipt, drs: *prev.DrsTxHash, hasDrs: true}
	}
	return assetKey{class: AssetReceipt, drs: spent.TxHash, hasDrs: true}
}

func outsSpentOf(outs []TxOut) map[assetKey]uint64 {
	m := make(map[assetKey]uint64)
	for _, out := range outs {
		m[keyForOutput(out)] += out.Value.Amount
	}
	return m
}

// checkConservation requires that for every (class, drs) present in
// insSpent, the matching bucket in outsSpent carries an identical amount
// in (0, TOTAL_TOKENS], and that the symmetric outputs set carries no
// bucket absent from insSpent (spec §4.2 step 3).
func checkConservation(insSpent, outsSpent map[assetKey]uint64) bool {
	if len(insSpent) != len(outsSpent) {
		return false
	}
	for k, inAmount := range insSpent {
		outAmount, ok := outsSpent[k]
		if !ok {
			return false
		}
		if inAmount != outAmount {
			return false
		}
		if inAmount == 0 || inAmount > TotalTokens {
			return false
		}
	}
	return true
}

// checkConservationLogged wraps checkConservation with a diagnostic log
// on failure, identifying which (class, drs) bucket or count mismatch
// caused the rejection (spec §7, "Conservation failure").
func checkConservationLogged(insSpent, outsSpent map[assetKey]uint64) bool {
	if checkConservation(insSpent, outsSpent) {
		return true
	}
	for k, inAmount := range insSpent {
		outAmount := outsSpent[k]
		if inAmount != outAmount || inAmount == 0 || inAmount > TotalTokens {
			LogConservationFailure(k.class, k.drs, k.hasDrs, inAmount, outAmount)
		}
	}
	return false
}
