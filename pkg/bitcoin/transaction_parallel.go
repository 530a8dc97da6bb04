package bitcoin

import (
	"golang.org/x/sync/errgroup"
)

// txIsValidParallel verifies every input's spending proof concurrently
// via errgroup.Group, then applies the exact same well-formedness and
// conservation checks TxIsValid does, serially, over the accumulated
// results. Per spec §5, any parallelism added here is a performance hint:
// the accumulation step below is deliberately identical in structure and
// iteration order to TxIsValid's, so the two functions are byte-identical
// on output for every input — only the per-input verification work is
// farmed out.
func txIsValidParallel(tx Transaction, view UTXOView) bool {
	for _, out := range tx.Outputs {
		if err := out.CheckWellFormed(); err != nil {
			return false
		}
	}

	prevOuts := make([]TxOut, len(tx.Inputs))
	spentPoints := make([]OutPoint, len(tx.Inputs))
	var g errgroup.Group
	for i, in := range tx.Inputs {
		i, in := i, in
		g.Go(func() error {
			prev, ok, err := resolveInput(in, view)
			if err != nil || !ok {
				if err == nil {
					err = errInvalidInput
				}
				return err
			}
			prevOuts[i] = prev
			spentPoints[i] = *in.PreviousOut
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false
	}

	insSpent := make(map[assetKey]uint64)
	for i, prev := range prevOuts {
		insSpent[keyForInput(prev, spentPoints[i])] += prev.Value.Amount
	}

	return checkConservation(insSpent, outsSpentOf(tx.Outputs))
}

var errInvalidInput = &validationError{"input failed spending-proof verification"}

// validationError is a plain sentinel used only to propagate a
// true/false outcome through errgroup.Group.Wait; it is never surfaced
// to a caller of TxIsValidParallel, which returns bool like the serial
// form (spec §7: "The core reports validation outcomes as booleans").
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }
