package bitcoin

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// PublicKeySize and SignatureSize mirror the Ed25519 primitive exactly: a
// 32-byte public key and a 64-byte detached signature.
const (
	PublicKeySize = ed25519.PublicKeySize
	SignatureSize = ed25519.SignatureSize
)

// PublicKey is a fixed-size Ed25519 public key, used both as a stack entry
// and as the payload the canonical serializer hashes for address
// derivation.
type PublicKey [PublicKeySize]byte

// NewPublicKeyFromBytes builds a PublicKey from exactly 32 raw bytes.
func NewPublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeySize {
		return pk, fmt.Errorf("invalid public key length: expected %d bytes, got %d", PublicKeySize, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// Bytes returns the public key as a byte slice.
func (pk PublicKey) Bytes() []byte {
	return pk[:]
}

// String returns the public key as lowercase hex.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

// Signature is a fixed-size Ed25519 detached signature.
type Signature [SignatureSize]byte

// NewSignatureFromBytes builds a Signature from exactly 64 raw bytes.
func NewSignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != SignatureSize {
		return sig, fmt.Errorf("invalid signature length: expected %d bytes, got %d", SignatureSize, len(b))
	}
	copy(sig[:], b)
	return sig, nil
}

// Bytes returns the signature as a byte slice.
func (sig Signature) Bytes() []byte {
	return sig[:]
}

// VerifyDetached reports whether sig is a valid Ed25519 detached signature
// over msg under pk. This is the sole primitive OP_CHECKSIG and
// OP_CHECKMULTISIG reduce to; a malformed key or signature size is a
// verification failure, never a panic or an error return, because the
// interpreter contract requires totality (spec §4.1: "any malformed stack
// state yields false, never an unchecked failure").
func VerifyDetached(pk PublicKey, msg []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pk[:]), msg, sig[:])
}

// AddressVersion selects among the byte layouts used to derive an address
// (a public-key hash) from a public key. Three modes exist so that inputs
// signed under historical address formats can still be validated; they
// must reproduce prior releases' bytes exactly. The non-default variants
// reuse the NetworkVersionV0 / NetworkVersionTemp constants (spec §6) as
// their tag values, since they name the same legacy generations of the
// wire format.
type AddressVersion int

const (
	// AddressVersionDefault is the current address derivation: plain
	// hex(SHA3-256(canonical_serialize(pub_key))).
	AddressVersionDefault AddressVersion = -1
	// AddressVersionV0 is the legacy byte layout selected by
	// OP_HASH256_V0.
	AddressVersionV0 AddressVersion = NetworkVersionV0
	// AddressVersionTemp is the interim legacy byte layout selected by
	// OP_HASH256_TEMP, distinct from V0.
	AddressVersionTemp AddressVersion = NetworkVersionTemp
)

// Address derives the hex public-key-hash address for pk under the given
// version. version == AddressVersionDefault reproduces the plain
// canonical-serializer path; V0 and Temp reproduce two distinct historical
// byte layouts so that OP_HASH256_V0/_TEMP can validate inputs signed
// against older address formats.
func Address(pk PublicKey, version AddressVersion) (string, error) {
	payload, err := addressPayload(pk, version)
	if err != nil {
		return "", err
	}
	return HexSha3_256(payload), nil
}

// addressPayload returns the exact bytes hashed to produce an address
// under the given version. AddressVersionDefault feeds the ordinary
// canonical serialization of the public key (tagged, length-prefixed,
// as every other canonical value is). The legacy variants drop the tag
// and length prefix entirely and hash the raw 32-byte key instead,
// reproducing the flatter byte layout earlier protocol releases used
// before the canonical serializer grew per-value tags.
func addressPayload(pk PublicKey, version AddressVersion) ([]byte, error) {
	switch version {
	case AddressVersionDefault:
		return CanonicalSerialize(pk)
	case AddressVersionV0:
		return pk.Bytes(), nil
	case AddressVersionTemp:
		// The TEMP layout additionally prefixes a single marker byte
		// distinguishing it from the V0 layout, reproducing the
		// interim format's on-disk shape.
		buf := make([]byte, 0, PublicKeySize+1)
		buf = append(buf, 0x01)
		buf = append(buf, pk.Bytes()...)
		return buf, nil
	default:
		return nil, fmt.Errorf("address: unrecognized address version %v", version)
	}
}
