package bitcoin

import (
	"crypto/ed25519"
	"testing"
)

func genKeypair(t *testing.T) (PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("failed to generate keypair: %v", err)
	}
	pk, err := NewPublicKeyFromBytes(pub)
	if err != nil {
		t.Fatalf("failed to wrap public key: %v", err)
	}
	return pk, priv
}

func signWith(t *testing.T, priv ed25519.PrivateKey, msg string) Signature {
	t.Helper()
	sig, err := NewSignatureFromBytes(ed25519.Sign(priv, []byte(msg)))
	if err != nil {
		t.Fatalf("failed to wrap signature: %v", err)
	}
	return sig
}

func TestInterpret_EmptyScriptSucceeds(t *testing.T) {
	if !Interpret(Script{}) {
		t.Error("an empty script should interpret to true")
	}
}

func TestInterpret_ConstantsOnlyPushAndSucceed(t *testing.T) {
	pk, _ := genKeypair(t)
	script := Script{Stack: []StackEntry{
		NumEntry(7),
		BytesEntry("hello"),
		PubKeyEntry(pk),
	}}
	if !Interpret(script) {
		t.Error("pushing only constants should succeed")
	}
}

func TestInterpret_DupFailsOnEmptyStack(t *testing.T) {
	script := Script{Stack: []StackEntry{OpEntry(OP_DUP)}}
	if Interpret(script) {
		t.Error("OP_DUP on an empty stack should fail")
	}
}

func TestInterpret_EqualVerify(t *testing.T) {
	equal := Script{Stack: []StackEntry{BytesEntry("x"), BytesEntry("x"), OpEntry(OP_EQUALVERIFY)}}
	if !Interpret(equal) {
		t.Error("OP_EQUALVERIFY should succeed on equal entries")
	}

	unequal := Script{Stack: []StackEntry{BytesEntry("x"), BytesEntry("y"), OpEntry(OP_EQUALVERIFY)}}
	if Interpret(unequal) {
		t.Error("OP_EQUALVERIFY should fail on unequal entries")
	}
}

func TestInterpret_EqualVerifyInsufficientOperands(t *testing.T) {
	script := Script{Stack: []StackEntry{BytesEntry("x"), OpEntry(OP_EQUALVERIFY)}}
	if Interpret(script) {
		t.Error("OP_EQUALVERIFY with one operand should fail")
	}
}

func TestInterpret_HashAddressRoundTrip(t *testing.T) {
	pk, _ := genKeypair(t)
	address, err := Address(pk, AddressVersionDefault)
	if err != nil {
		t.Fatalf("Address failed: %v", err)
	}

	script := Script{Stack: []StackEntry{
		PubKeyEntry(pk),
		OpEntry(OP_HASH256),
		PubKeyHashEntry(address),
		OpEntry(OP_EQUALVERIFY),
	}}
	if !Interpret(script) {
		t.Error("OP_HASH256 of pk followed by OP_EQUALVERIFY against its own address should succeed")
	}
}

func TestInterpret_HashVersionVariantsDiffer(t *testing.T) {
	pk, _ := genKeypair(t)
	defaultAddr, err := Address(pk, AddressVersionDefault)
	if err != nil {
		t.Fatalf("Address failed: %v", err)
	}
	v0Addr, err := Address(pk, AddressVersionV0)
	if err != nil {
		t.Fatalf("Address failed: %v", err)
	}
	tempAddr, err := Address(pk, AddressVersionTemp)
	if err != nil {
		t.Fatalf("Address failed: %v", err)
	}

	if defaultAddr == v0Addr || defaultAddr == tempAddr || v0Addr == tempAddr {
		t.Error("the three address versions must produce distinct byte layouts")
	}

	script := Script{Stack: []StackEntry{
		PubKeyEntry(pk),
		OpEntry(OP_HASH256_V0),
		PubKeyHashEntry(v0Addr),
		OpEntry(OP_EQUALVERIFY),
	}}
	if !Interpret(script) {
		t.Error("OP_HASH256_V0 should match Address(pk, AddressVersionV0)")
	}
}

func TestInterpret_CheckSig(t *testing.T) {
	pk, priv := genKeypair(t)
	msg := "message to sign"
	sig := signWith(t, priv, msg)

	valid := Script{Stack: []StackEntry{BytesEntry(msg), SignatureEntry(sig), PubKeyEntry(pk), OpEntry(OP_CHECKSIG)}}
	if !Interpret(valid) {
		t.Error("OP_CHECKSIG should succeed for a correctly signed message")
	}

	_, otherPriv := genKeypair(t)
	wrongSig := signWith(t, otherPriv, msg)
	invalid := Script{Stack: []StackEntry{BytesEntry(msg), SignatureEntry(wrongSig), PubKeyEntry(pk), OpEntry(OP_CHECKSIG)}}
	if Interpret(invalid) {
		t.Error("OP_CHECKSIG should fail for a signature from a different key")
	}
}

func TestInterpret_CheckMultisig2of3(t *testing.T) {
	pk1, priv1 := genKeypair(t)
	pk2, priv2 := genKeypair(t)
	pk3, _ := genKeypair(t)
	msg := "abcdef"

	sig1 := signWith(t, priv1, msg)
	sig2 := signWith(t, priv2, msg)

	script := Script{Stack: []StackEntry{
		BytesEntry(msg),
		SignatureEntry(sig1),
		SignatureEntry(sig2),
		PubKeyEntry(pk1),
		PubKeyEntry(pk2),
		PubKeyEntry(pk3),
		NumEntry(3),
		NumEntry(2),
		OpEntry(OP_CHECKMULTISIG),
	}}
	if !Interpret(script) {
		t.Error("2-of-3 multisig with two valid signatures should succeed")
	}
}

func TestInterpret_CheckMultisigFailsUnderThreshold(t *testing.T) {
	pk1, priv1 := genKeypair(t)
	pk2, _ := genKeypair(t)
	pk3, _ := genKeypair(t)
	msg := "abcdef"

	sig1 := signWith(t, priv1, msg)

	script := Script{Stack: []StackEntry{
		BytesEntry(msg),
		SignatureEntry(sig1),
		PubKeyEntry(pk1),
		PubKeyEntry(pk2),
		PubKeyEntry(pk3),
		NumEntry(3),
		NumEntry(2),
		OpEntry(OP_CHECKMULTISIG),
	}}
	if Interpret(script) {
		t.Error("removing signatures below threshold m should fail")
	}
}

func TestInterpret_CheckMultisigRejectsMGreaterThanN(t *testing.T) {
	pk1, priv1 := genKeypair(t)
	msg := "abcdef"
	sig1 := signWith(t, priv1, msg)

	script := Script{Stack: []StackEntry{
		BytesEntry(msg),
		SignatureEntry(sig1),
		PubKeyEntry(pk1),
		NumEntry(1),
		NumEntry(2),
		OpEntry(OP_CHECKMULTISIG),
	}}
	if Interpret(script) {
		t.Error("m > n should always fail")
	}
}

func TestInterpret_OpCreateHasNoStackEffect(t *testing.T) {
	script := Script{Stack: []StackEntry{OpEntry(OP_CREATE)}}
	if !Interpret(script) {
		t.Error("OP_CREATE alone should interpret to true")
	}
}

func TestInterpret_ShortCircuitsOnFirstFailure(t *testing.T) {
	// OP_DUP on an empty stack fails; evaluation stops there and the
	// trailing OP_CHECKSIG is never reached.
	script := Script{Stack: []StackEntry{OpEntry(OP_DUP), OpEntry(OP_CHECKSIG)}}
	if Interpret(script) {
		t.Error("interpretation should stop at the first failing opcode")
	}
}

func TestStackEntry_Equal(t *testing.T) {
	pk, _ := genKeypair(t)
	cases := []struct {
		name string
		a, b StackEntry
		want bool
	}{
		{"equal nums", NumEntry(3), NumEntry(3), true},
		{"different nums", NumEntry(3), NumEntry(4), false},
		{"equal bytes", BytesEntry("a"), BytesEntry("a"), true},
		{"different kinds", NumEntry(3), BytesEntry("3"), false},
		{"equal pubkeys", PubKeyEntry(pk), PubKeyEntry(pk), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal() = %v, want %v", got, tc.want)
			}
		})
	}
}
