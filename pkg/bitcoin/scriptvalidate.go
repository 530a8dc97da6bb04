package bitcoin

// This file holds the higher-level pattern matchers of spec §4.3: each
// recognizes one exact StackEntry shape before ever invoking the
// interpreter, and rejects any deviation — including extra trailing
// entries — as a validation failure (spec §4.1, "Accepted script
// shapes").

// hash256Variant reports whether op is one of the three OP_HASH256
// variants and, if so, which address version it selects.
func hash256Variant(op OpCode) (AddressVersion, bool) {
	switch op {
	case OP_HASH256:
		return AddressVersionDefault, true
	case OP_HASH256_V0:
		return AddressVersionV0, true
	case OP_HASH256_TEMP:
		return AddressVersionTemp, true
	default:
		return 0, false
	}
}

// TxHasValidP2PKHSig recognizes the P2PKH input shape:
//
//	[Bytes(b), Signature(s), PubKey(pk), OP_DUP, OP_HASH256{,_V0,_TEMP}, PubKeyHash(h), OP_EQUALVERIFY, OP_CHECKSIG]
//
// and additionally gates on b == signable and h == pkHash before running
// the interpreter (spec §4.1 pattern 1, §4.2 step 2d).
func TxHasValidP2PKHSig(script Script, signable string, pkHash string) bool {
	entries := script.Stack
	if len(entries) != 8 {
		return false
	}
	bEntry, sigEntry, pkEntry := entries[0], entries[1], entries[2]
	dupOp, hashOp, hashEntry, eqOp, sigOp := entries[3], entries[4], entries[5], entries[6], entries[7]

	if bEntry.Kind != EntryBytes || sigEntry.Kind != EntrySignature || pkEntry.Kind != EntryPubKey {
		return false
	}
	if dupOp.Kind != EntryOp || dupOp.Op != OP_DUP {
		return false
	}
	if hashOp.Kind != EntryOp {
		return false
	}
	if _, ok := hash256Variant(hashOp.Op); !ok {
		return false
	}
	if hashEntry.Kind != EntryPubKeyHash {
		return false
	}
	if eqOp.Kind != EntryOp || eqOp.Op != OP_EQUALVERIFY {
		return false
	}
	if sigOp.Kind != EntryOp || sigOp.Op != OP_CHECKSIG {
		return false
	}

	if bEntry.Bytes != signable {
		return false
	}
	if hashEntry.Bytes != pkHash {
		return false
	}

	return Interpret(script)
}

// MemberMultisigIsValid recognizes the single-member multisig
// (membership proof) shape:
//
//	[ …constants…, Bytes(msg), Signature(s), PubKey(pk), OP_CHECKSIG ]
//
// and is true iff the final OP_CHECKSIG succeeds (spec §4.1 pattern 2,
// §4.3).
func MemberMultisigIsValid(script Script) bool {
	entries := script.Stack
	n := len(entries)
	if n < 4 {
		return false
	}
	if entries[n-1].Kind != EntryOp || entries[n-1].Op != OP_CHECKSIG {
		return false
	}
	if entries[n-2].Kind != EntryPubKey {
		return false
	}
	if entries[n-3].Kind != EntrySignature {
		return false
	}
	if entries[n-4].Kind != EntryBytes {
		return false
	}
	return Interpret(script)
}

// TxHasValidMultisigValidation recognizes the M-of-N multisig validation
// shape:
//
//	[ Bytes(msg), Signature…, PubKey…, Num(n), Num(m), OP_CHECKMULTISIG ]
//
// (spec §4.1 pattern 3, §4.3).
func TxHasValidMultisigValidation(script Script) bool {
	entries := script.Stack
	n := len(entries)
	if n < 4 {
		return false
	}
	if entries[0].Kind != EntryBytes {
		return false
	}
	if entries[n-1].Kind != EntryOp || entries[n-1].Op != OP_CHECKMULTISIG {
		return false
	}
	if entries[n-2].Kind != EntryNum {
		return false
	}
	if entries[n-3].Kind != EntryNum {
		return false
	}

	sawPubKey := false
	for i := 1; i < n-3; i++ {
		switch entries[i].Kind {
		case EntrySignature:
			if sawPubKey {
				return false
			}
		case EntryPubKey:
			sawPubKey = true
		default:
			return false
		}
	}

	return Interpret(script)
}

// TxHasValidCreateScript recognizes the asset-creation shape:
//
//	[ OP_CREATE, Num(_), Bytes(asset_hash), Signature(_), PubKey(_), OP_CHECKSIG ]
//
// and requires both that the embedded Bytes equals
// signable_asset_hash(asset) and that the full script interprets to true
// (spec §4.1 pattern 4, §4.3).
func TxHasValidCreateScript(script Script, asset Asset) bool {
	entries := script.Stack
	if len(entries) != 6 {
		return false
	}
	createOp, numEntry, hashEntry, sigEntry, pkEntry, checkOp := entries[0], entries[1], entries[2], entries[3], entries[4], entries[5]

	if createOp.Kind != EntryOp || createOp.Op != OP_CREATE {
		return false
	}
	if numEntry.Kind != EntryNum {
		return false
	}
	if hashEntry.Kind != EntryBytes {
		return false
	}
	if sigEntry.Kind != EntrySignature {
		return false
	}
	if pkEntry.Kind != EntryPubKey {
		return false
	}
	if checkOp.Kind != EntryOp || checkOp.Op != OP_CHECKSIG {
		return false
	}

	expected, err := SignableAssetHash(asset)
	if err != nil {
		return false
	}
	if hashEntry.Bytes != expected {
		return false
	}

	return Interpret(script)
}

// TxSanctionFilter reports whether all of inputs may be spent according
// to sanctionList: it is false iff any input's previous_out.TxHash
// appears in the list (spec §4.3).
func TxSanctionFilter(inputs []TxIn, sanctionList []Hash256) bool {
	sanctioned := make(map[Hash256]bool, len(sanctionList))
	for _, h := range sanctionList {
		sanctioned[h] = true
	}
	for _, in := range inputs {
		if in.PreviousOut == nil {
			continue
		}
		if sanctioned[in.PreviousOut.TxHash] {
			return false
		}
	}
	return true
}
