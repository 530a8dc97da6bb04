package bitcoin

import (
	"strconv"

	"go.uber.org/zap"
)

// logger is the package-wide structured logger. It defaults to a no-op
// logger so that importing this package never prints anything unless a
// caller opts in via SetLogger — the validation core itself has no I/O
// (spec §5), so logging is strictly a diagnostic aid layered on top, not
// part of the core's contract.
var logger = zap.NewNop()

// SetLogger installs l as the package-wide structured logger used by the
// Log* helpers below. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

// LogMalformedOutput records a Token/Receipt drs_tx_hash invariant
// violation (spec §7, "Malformed output").
func LogMalformedOutput(index int, err error) {
	logger.Warn("malformed output",
		zap.Int("output_index", index),
		zap.Error(err),
	)
}

// LogMissingUTXO records an input whose previous_out was not found in
// the supplied UTXO view (spec §7, "Missing UTXO").
func LogMissingUTXO(op OutPoint) {
	logger.Warn("missing utxo",
		zap.String("outpoint", op.String()),
	)
}

// LogScriptShapeMismatch records an input script that did not match any
// recognized pattern (spec §7, "Script shape mismatch"). TxIsValid also
// uses it for a consumed output that has no script_public_key.
func LogScriptShapeMismatch(reason string) {
	logger.Warn("script shape mismatch", zap.String("reason", reason))
}

// LogInterpreterFailure records an opcode-level failure: operand
// arity/type mismatch, a failed equality check, a failed signature
// verification, or an unmet multisig threshold (spec §7, "Interpreter
// failure").
func LogInterpreterFailure(op OpCode, reason string) {
	logger.Warn("interpreter failure",
		zap.String("op", op.String()),
		zap.String("reason", reason),
	)
}

// LogConservationFailure records a per-class input/output total
// mismatch, an out-of-range amount, or a zero amount (spec §7,
// "Conservation failure").
func LogConservationFailure(class AssetKind, drs Hash256, hasDrs bool, insAmount, outsAmount uint64) {
	fields := []zap.Field{
		zap.String("class", class.String()),
		zap.Uint64("ins_amount", insAmount),
		zap.Uint64("outs_amount", outsAmount),
	}
	if hasDrs {
		fields = append(fields, zap.String("drs_tx_hash", drs.String()))
	}
	logger.Warn("conservation failure", fields...)
}

// String renders an OutPoint as "hash:n" for log fields and error
// messages.
func (op OutPoint) String() string {
	return op.TxHash.String() + ":" + strconv.FormatUint(uint64(op.N), 10)
}
