package bitcoin

import (
	"crypto/rand"
	"testing"
)

// GenRandomHash builds a Hash256 over 32 random bytes, mirroring the
// original source's gen_random_hash test helper: a quick way to build a
// synthetic leaf or outpoint hash without hand-writing 64-char hex
// literals.
func GenRandomHash(t *testing.T) Hash256 {
	t.Helper()
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("failed to read random bytes: %v", err)
	}
	h, err := NewHash256FromBytes(Sha3_256(b).Bytes())
	if err != nil {
		t.Fatalf("failed to build random hash: %v", err)
	}
	return h
}

func TestGenRandomHash_Distinct(t *testing.T) {
	a := GenRandomHash(t)
	b := GenRandomHash(t)
	if a == b {
		t.Error("two calls to GenRandomHash should not collide")
	}
}
