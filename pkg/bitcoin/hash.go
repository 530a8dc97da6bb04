package bitcoin

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Hash256 represents a 256-bit SHA3-256 hash (32 bytes), exchanged as
// a lowercase 64-character hex string.
type Hash256 [32]byte

// ZeroHash is the all-zero hash. The constructors below return it
// alongside an error.
var ZeroHash = Hash256{}

// NewHash256FromBytes creates a Hash256 from exactly 32 raw bytes.
func NewHash256FromBytes(b []byte) (Hash256, error) {
	if len(b) != 32 {
		return ZeroHash, fmt.Errorf("invalid hash length: expected 32 bytes, got %d", len(b))
	}
	var hash Hash256
	copy(hash[:], b)
	return hash, nil
}

// NewHash256FromString decodes a 64-character lowercase hex string
// into a Hash256.
func NewHash256FromString(s string) (Hash256, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid hex string: %w", err)
	}
	return NewHash256FromBytes(b)
}

// String returns the hash as a lowercase hex string.
func (h Hash256) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns the hash as a byte slice.
func (h Hash256) Bytes() []byte {
	return h[:]
}

// IsZero returns true if the hash is all zeros.
func (h Hash256) IsZero() bool {
	return h == ZeroHash
}

// Sha3_256 computes the SHA3-256 digest of data.
func Sha3_256(data []byte) Hash256 {
	return Hash256(sha3.Sum256(data))
}

// HexSha3_256 computes the lowercase hex encoding of the SHA3-256
// digest of data. This is the `hex(SHA3-256(...))` idiom used
// throughout the spec: OP_HASH256, signable outpoint/asset hashes,
// and Merkle node hashing all reduce to this one call.
func HexSha3_256(data []byte) string {
	digest := sha3.Sum256(data)
	return hex.EncodeToString(digest[:])
}
