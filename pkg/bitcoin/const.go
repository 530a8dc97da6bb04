package bitcoin

// Protocol-wide constants. These form the module's configuration
// surface (spec §6): none of them are read from a file or environment
// at runtime, so a config library has no role to play here.
const (
	// MaxBlockSize is the serialized byte length at or above which a
	// Block.IsFull reports true.
	MaxBlockSize = 4 * 1024 * 1024

	// TotalTokens bounds any single (class, drs) amount an input or
	// output may carry.
	TotalTokens = 21_000_000_00000000

	// LeafNodeLimit is the Merkle tree size below which GetAuditPath
	// uses a linear scan for the leaf index instead of an auxiliary
	// index.
	LeafNodeLimit = 512

	// DDisplayPlaces scales a raw integer amount down to its display
	// form (FormatForDisplay).
	DDisplayPlaces = 100_000_000

	// NetworkVersion is the current block-header version tag.
	NetworkVersion = 2

	// NetworkVersionV0 and NetworkVersionTemp select legacy
	// canonical-serialization modes for address derivation and
	// OP_HASH256 variants, reproducing byte layouts from earlier
	// protocol releases.
	NetworkVersionV0   = 0
	NetworkVersionTemp = 1
)
