package bitcoin

import (
	"fmt"
)

// OpCode is the closed set of opcodes the interpreter understands. Unlike a
// general-purpose script language, this set only supports the patterns
// enumerated in the script auxiliary validators (scriptvalidate.go); there
// is no flow control, arithmetic, or general-purpose hashing.
type OpCode int

const (
	OP_DUP OpCode = iota
	OP_HASH256
	OP_HASH256_V0
	OP_HASH256_TEMP
	OP_EQUALVERIFY
	OP_CHECKSIG
	OP_CHECKMULTISIG
	OP_CREATE
)

func (op OpCode) String() string {
	switch op {
	case OP_DUP:
		return "OP_DUP"
	case OP_HASH256:
		return "OP_HASH256"
	case OP_HASH256_V0:
		return "OP_HASH256_V0"
	case OP_HASH256_TEMP:
		return "OP_HASH256_TEMP"
	case OP_EQUALVERIFY:
		return "OP_EQUALVERIFY"
	case OP_CHECKSIG:
		return "OP_CHECKSIG"
	case OP_CHECKMULTISIG:
		return "OP_CHECKMULTISIG"
	case OP_CREATE:
		return "OP_CREATE"
	default:
		return fmt.Sprintf("OP_UNKNOWN(%d)", int(op))
	}
}

// StackEntryKind tags the variant held by a StackEntry. Go has no native
// sum type, so the interpreter's typed stack is modeled as a discriminated
// struct: every opcode's arity/type check switches on Kind and is therefore
// total and mechanically exhaustive, the same guarantee a `match` over a
// Rust enum would give the original implementation (spec §9, "Dynamic
// stack typing").
type StackEntryKind int

const (
	EntryOp StackEntryKind = iota
	EntryNum
	EntryBytes
	EntryPubKey
	EntryPubKeyHash
	EntrySignature
)

// StackEntry is one element of a Script or of the interpreter's runtime
// stack. Only the field matching Kind is meaningful; the others are zero.
type StackEntry struct {
	Kind StackEntryKind
	Op   OpCode
	Num  uint64
	// Bytes backs both the Bytes and PubKeyHash variants. PubKeyHash
	// additionally carries the lowercase hex-address invariant; Bytes
	// carries an opaque byte string (hex-encoded where the value is
	// itself a hash, unconstrained otherwise).
	Bytes     string
	PubKey    PublicKey
	Signature Signature
}

func OpEntry(op OpCode) StackEntry          { return StackEntry{Kind: EntryOp, Op: op} }
func NumEntry(n uint64) StackEntry          { return StackEntry{Kind: EntryNum, Num: n} }
func BytesEntry(b string) StackEntry        { return StackEntry{Kind: EntryBytes, Bytes: b} }
func PubKeyEntry(pk PublicKey) StackEntry   { return StackEntry{Kind: EntryPubKey, PubKey: pk} }
func PubKeyHashEntry(h string) StackEntry   { return StackEntry{Kind: EntryPubKeyHash, Bytes: h} }
func SignatureEntry(s Signature) StackEntry { return StackEntry{Kind: EntrySignature, Signature: s} }

// Equal reports structural equality between two stack entries, the
// operation OP_EQUALVERIFY performs.
func (e StackEntry) Equal(other StackEntry) bool {
	if e.Kind != other.Kind {
		return false
	}
	switch e.Kind {
	case EntryOp:
		return e.Op == other.Op
	case EntryNum:
		return e.Num == other.Num
	case EntryBytes, EntryPubKeyHash:
		return e.Bytes == other.Bytes
	case EntryPubKey:
		return e.PubKey == other.PubKey
	case EntrySignature:
		return e.Signature == other.Signature
	default:
		return false
	}
}

// Script is an ordered sequence of stack entries, consumed left to right.
type Script struct {
	Stack []StackEntry
}

// interpreterEngine runs a Script over a local, typed stack. It mirrors the
// teacher's ScriptEngine: a program counter walking a flat instruction
// sequence, dispatched through a single executeOp switch, with every
// failure returning a bool rather than propagating an error — the
// interpreter is total (spec §4.1).
type interpreterEngine struct {
	stack []StackEntry
}

// Interpret evaluates script over a local, empty stack and reports whether
// it succeeded. Every entry that is not a recognized opcode is pushed as a
// constant (public keys, signatures, numbers, byte strings, and pubkey
// hashes alike); an opcode pops a fixed number of typed operands and
// pushes its result, and any type mismatch, arity mismatch, or
// verification failure short-circuits evaluation and returns false.
func Interpret(script Script) bool {
	eng := &interpreterEngine{stack: make([]StackEntry, 0, len(script.Stack))}
	for _, entry := range script.Stack {
		if entry.Kind != EntryOp {
			eng.push(entry)
			continue
		}
		if !eng.executeOp(entry.Op) {
			return false
		}
	}
	return true
}

func (eng *interpreterEngine) push(e StackEntry) {
	eng.stack = append(eng.stack, e)
}

// pop removes and returns the top stack entry, reporting false if the
// stack was empty.
func (eng *interpreterEngine) pop() (StackEntry, bool) {
	n := len(eng.stack)
	if n == 0 {
		return StackEntry{}, false
	}
	top := eng.stack[n-1]
	eng.stack = eng.stack[:n-1]
	return top, true
}

func (eng *interpreterEngine) peekKind() (StackEntryKind, bool) {
	n := len(eng.stack)
	if n == 0 {
		return 0, false
	}
	return eng.stack[n-1].Kind, true
}

func (eng *interpreterEngine) executeOp(op OpCode) bool {
	switch op {
	case OP_DUP:
		return eng.execDup()
	case OP_HASH256:
		return eng.execHash256(AddressVersionDefault)
	case OP_HASH256_V0:
		return eng.execHash256(AddressVersionV0)
	case OP_HASH256_TEMP:
		return eng.execHash256(AddressVersionTemp)
	case OP_EQUALVERIFY:
		return eng.execEqualVerify()
	case OP_CHECKSIG:
		return eng.execCheckSig()
	case OP_CHECKMULTISIG:
		return eng.execCheckMultisig()
	case OP_CREATE:
		// No stack effect; OP_CREATE marks a script's positional role
		// in the asset-creation pattern, validated by the pattern
		// matcher rather than the interpreter itself.
		return true
	default:
		return false
	}
}

func (eng *interpreterEngine) execDup() bool {
	n := len(eng.stack)
	if n < 1 {
		return false
	}
	eng.push(eng.stack[n-1])
	return true
}

// execHash256 pops a value v and pushes PubKeyHash(hex(SHA3-256(v)))
// serialized under the given address version. A PubKey operand is hashed
// as Address(pk, version); a Bytes or PubKeyHash operand is hashed as its
// canonical string serialization. Any other operand kind fails.
func (eng *interpreterEngine) execHash256(version AddressVersion) bool {
	v, ok := eng.pop()
	if !ok {
		return false
	}
	digest, err := hashStackEntry(v, version)
	if err != nil {
		return false
	}
	eng.push(PubKeyHashEntry(digest))
	return true
}

func hashStackEntry(v StackEntry, version AddressVersion) (string, error) {
	switch v.Kind {
	case EntryPubKey:
		return Address(v.PubKey, version)
	case EntryBytes, EntryPubKeyHash:
		payload, err := CanonicalSerialize(v.Bytes)
		if err != nil {
			return "", err
		}
		return HexSha3_256(payload), nil
	default:
		return "", fmt.Errorf("OP_HASH256: unsupported operand kind %v", v.Kind)
	}
}

func (eng *interpreterEngine) execEqualVerify() bool {
	a, ok := eng.pop()
	if !ok {
		return false
	}
	b, ok := eng.pop()
	if !ok {
		return false
	}
	return a.Equal(b)
}

// execCheckSig pops pub_key, sig, bytes (in that order, matching the
// P2PKH stack shape where PubKey was pushed last) and succeeds iff sig
// Ed25519-verifies over bytes under pub_key.
func (eng *interpreterEngine) execCheckSig() bool {
	pubKeyEntry, ok := eng.pop()
	if !ok || pubKeyEntry.Kind != EntryPubKey {
		return false
	}
	sigEntry, ok := eng.pop()
	if !ok || sigEntry.Kind != EntrySignature {
		return false
	}
	msgEntry, ok := eng.pop()
	if !ok || msgEntry.Kind != EntryBytes {
		return false
	}
	return VerifyDetached(pubKeyEntry.PubKey, []byte(msgEntry.Bytes), sigEntry.Signature)
}

// execCheckMultisig implements the M-of-N multisig gate for the
// [ Bytes(msg), Signature…, PubKey…, Num(n), Num(m), OP_CHECKMULTISIG ]
// shape: pop m (the threshold, pushed last), then n; pop that many PubKey
// entries while the top remains a PubKey; then pop Signature entries while
// the top remains a Signature; pop the message; succeed iff at least m
// signatures each verify against a distinct key from the key set, tried in
// order with the first match winning per signature.
func (eng *interpreterEngine) execCheckMultisig() bool {
	mEntry, ok := eng.pop()
	if !ok || mEntry.Kind != EntryNum {
		return false
	}
	m := mEntry.Num

	nEntry, ok := eng.pop()
	if !ok || nEntry.Kind != EntryNum {
		return false
	}
	n := nEntry.Num
	if m > n {
		return false
	}

	var keys []PublicKey
	for uint64(len(keys)) < n {
		kind, ok := eng.peekKind()
		if !ok || kind != EntryPubKey {
			break
		}
		entry, _ := eng.pop()
		keys = append(keys, entry.PubKey)
	}
	if uint64(len(keys)) < n {
		return false
	}

	var sigs []Signature
	for {
		kind, ok := eng.peekKind()
		if !ok || kind != EntrySignature {
			break
		}
		entry, _ := eng.pop()
		sigs = append(sigs, entry.Signature)
	}

	msgEntry, ok := eng.pop()
	if !ok || msgEntry.Kind != EntryBytes {
		return false
	}
	msg := []byte(msgEntry.Bytes)

	used := make([]bool, len(keys))
	matched := uint64(0)
	for _, sig := range sigs {
		for i, key := range keys {
			if used[i] {
				continue
			}
			if VerifyDetached(key, msg, sig) {
				used[i] = true
				matched++
				break
			}
		}
	}
	return matched >= m
}
