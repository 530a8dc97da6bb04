package bitcoin

import "fmt"

// FormatForDisplay scales a raw integer amount down by DDisplayPlaces and
// renders it with 8 fractional digits, the presentation form a wallet or
// explorer shows a user in place of the raw on-chain integer (spec §6,
// "D_DISPLAY_PLACES (display scaling)").
func FormatForDisplay(amount uint64) string {
	whole := amount / DDisplayPlaces
	frac := amount % DDisplayPlaces
	return fmt.Sprintf("%d.%08d", whole, frac)
}
