package bitcoin

import (
	"fmt"
)

// UTXOSet is a reference, in-memory implementation of the external
// collaborator described in spec §6: something that can answer
// OutPoint -> TxOut lookups. It is not part of the validation core
// itself — TxIsValid and TxIsValidParallel never touch it directly —
// but it is the natural way to hand the core a UTXOView closure (spec
// §9, "pass the UTXO view ... as plain function values").
type UTXOSet struct {
	outputs map[string]TxOut
}

// NewUTXOSet creates an empty UTXO set.
func NewUTXOSet() *UTXOSet {
	return &UTXOSet{outputs: make(map[string]TxOut)}
}

func (s *UTXOSet) key(op OutPoint) string {
	return fmt.Sprintf("%s:%d", op.TxHash.String(), op.N)
}

// Add inserts or overwrites the output at op.
func (s *UTXOSet) Add(op OutPoint, out TxOut) {
	s.outputs[s.key(op)] = out
}

// Remove deletes the output at op, reporting whether it was present.
func (s *UTXOSet) Remove(op OutPoint) bool {
	key := s.key(op)
	if _, ok := s.outputs[key]; !ok {
		return false
	}
	delete(s.outputs, key)
	return true
}

// Find looks up the output at op.
func (s *UTXOSet) Find(op OutPoint) (TxOut, bool) {
	out, ok := s.outputs[s.key(op)]
	return out, ok
}

// Size returns the number of tracked outputs.
func (s *UTXOSet) Size() int {
	return len(s.outputs)
}

// View returns the UTXOView function value backed by this set, suitable
// for passing directly to TxIsValid. The returned closure captures s by
// reference but never mutates it, honoring the core's read-only contract
// for the UTXO view (spec §5).
func (s *UTXOSet) View() UTXOView {
	return func(op OutPoint) (TxOut, bool) {
		return s.Find(op)
	}
}

// MapUTXOView adapts a plain map keyed by OutPoint into a UTXOView, for
// callers (tests, the demo CLI) that already have outputs in map form
// and don't need UTXOSet's Add/Remove bookkeeping.
func MapUTXOView(outputs map[OutPoint]TxOut) UTXOView {
	return func(op OutPoint) (TxOut, bool) {
		out, ok := outputs[op]
		return out, ok
	}
}
