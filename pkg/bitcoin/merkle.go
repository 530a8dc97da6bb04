package bitcoin

import (
	"golang.org/x/sync/errgroup"
)

// MerkleTree is a balanced commitment tree over transaction hashes,
// keyed by the canonical-serializer leaf-pair hash (HashNode) rather than
// the teacher's double-SHA-256 (spec §4.4, §4.5).
type MerkleTree struct {
	Root  Hash256
	Tree  [][]Hash256
	Depth int
}

// NewMerkleTree builds a MerkleTree over leaves. An empty leaf set
// produces an empty tree. A leaf count that is not a power of two is
// padded by duplicating the last leaf (spec §4.4 step 1); this padding is
// why the root is stable under permutation-preserving re-runs but only
// "modulo trailing duplication" under a changed leaf count (spec §8).
func NewMerkleTree(leaves []Hash256) MerkleTree {
	if len(leaves) == 0 {
		return MerkleTree{}
	}

	padded := make([]Hash256, len(leaves))
	copy(padded, leaves)
	for !isPowerOfTwo(len(padded)) {
		padded = append(padded, padded[len(padded)-1])
	}

	layers := [][]Hash256{padded}
	for len(layers[len(layers)-1]) > 1 {
		layers = append(layers, hashLayer(layers[len(layers)-1]))
	}

	return MerkleTree{
		Root:  layers[len(layers)-1][0],
		Tree:  layers,
		Depth: len(layers),
	}
}

// hashLayer pairs adjacent entries of layer and returns the parent layer.
// A trailing odd child (possible only via explicit mutation of a
// MerkleTree's Tree field, since NewMerkleTree always pads to a power of
// two) is duplicated rather than dropped, matching the odd-duplication
// rule spec §4.4 step 3 and §4.4's audit-path rule share.
func hashLayer(layer []Hash256) []Hash256 {
	parentLen := (len(layer) + 1) / 2
	parents := make([]Hash256, parentLen)
	for j := 0; j < parentLen; j++ {
		left := layer[2*j]
		rightIdx := 2*j + 1
		if rightIdx >= len(layer) {
			rightIdx = len(layer) - 1
		}
		right := layer[rightIdx]
		hex, err := HashNode(left, right)
		if err != nil {
			// CanonicalSerialize never fails on the fixed [2]Hash256
			// shape HashNode constructs; a failure here would be a
			// bug in the serializer, not a runtime condition (spec
			// §7, "Serialization must not fail on well-formed
			// in-memory values").
			panic("merkle: canonical serialization of hash pair failed: " + err.Error())
		}
		hash, err := NewHash256FromString(hex)
		if err != nil {
			panic("merkle: HashNode produced a malformed hash: " + err.Error())
		}
		parents[j] = hash
	}
	return parents
}

// hashLayerParallel is the deterministic-parallel form of hashLayer: each
// pair is hashed on its own goroutine via errgroup.Group, writing into a
// preallocated slice by index so the result is byte-identical to the
// serial form regardless of goroutine completion order (spec §5, §9
// "Parallelism").
func hashLayerParallel(layer []Hash256) []Hash256 {
	parentLen := (len(layer) + 1) / 2
	parents := make([]Hash256, parentLen)
	var g errgroup.Group
	for j := 0; j < parentLen; j++ {
		j := j
		g.Go(func() error {
			left := layer[2*j]
			rightIdx := 2*j + 1
			if rightIdx >= len(layer) {
				rightIdx = len(layer) - 1
			}
			right := layer[rightIdx]
			hex, err := HashNode(left, right)
			if err != nil {
				return err
			}
			hash, err := NewHash256FromString(hex)
			if err != nil {
				return err
			}
			parents[j] = hash
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic("merkle: parallel layer hashing failed: " + err.Error())
	}
	return parents
}

// NewMerkleTreeParallel is the concurrency-layered twin of NewMerkleTree,
// hashing each layer's pairs concurrently. It is intended for large
// blocks where leaf counts make the serial layer loop worth
// parallelizing; its output must equal NewMerkleTree's for the same
// leaves (verified in merkle_test.go).
func NewMerkleTreeParallel(leaves []Hash256) MerkleTree {
	if len(leaves) == 0 {
		return MerkleTree{}
	}

	padded := make([]Hash256, len(leaves))
	copy(padded, leaves)
	for !isPowerOfTwo(len(padded)) {
		padded = append(padded, padded[len(padded)-1])
	}

	layers := [][]Hash256{padded}
	for len(layers[len(layers)-1]) > 1 {
		layers = append(layers, hashLayerParallel(layers[len(layers)-1]))
	}

	return MerkleTree{
		Root:  layers[len(layers)-1][0],
		Tree:  layers,
		Depth: len(layers),
	}
}

// AddCoinbase folds a coinbase transaction hash into the commitment,
// producing the metaroot: the coinbase hash is appended to the root
// layer, and a new top layer is created containing
// hex(SHA3-256(canonical_serialize([root, coinbase_hash]))) (spec §4.4
// "Coinbase fold (metaroot)", §9 "Coinbase/metaroot ambiguity" — this is
// the MerkleTree::new + add_coinbase path, not any of the source's
// alternative constructions).
func (t MerkleTree) AddCoinbase(coinbaseHash Hash256) (MerkleTree, error) {
	if t.Depth == 0 {
		return MerkleTree{}, errEmptyMerkleTree
	}
	rootLayer := append(append([]Hash256{}, t.Tree[t.Depth-1]...), coinbaseHash)
	hex, err := HashNode(t.Root, coinbaseHash)
	if err != nil {
		return MerkleTree{}, err
	}
	metaroot, err := NewHash256FromString(hex)
	if err != nil {
		return MerkleTree{}, err
	}

	tree := make([][]Hash256, t.Depth+1)
	copy(tree, t.Tree)
	tree[t.Depth-1] = rootLayer
	tree[t.Depth] = []Hash256{metaroot}

	return MerkleTree{Root: metaroot, Tree: tree, Depth: t.Depth + 1}, nil
}

// GetAuditPath returns the inclusion proof for txHash: the leaf itself
// followed by each sibling encountered walking up to the root. It
// returns an empty path if txHash is not present. For small trees (below
// LeafNodeLimit) the leaf index is found by a linear scan; larger trees
// may use an auxiliary index, but NewMerkleTree does not build one since
// the spec leaves that an implementation choice (spec §4.4 "Audit
// path").
func (t MerkleTree) GetAuditPath(txHash Hash256) []Hash256 {
	if t.Depth == 0 {
		return nil
	}
	leaves := t.Tree[0]
	index := findLeafIndex(leaves, txHash)
	if index < 0 {
		return nil
	}

	path := []Hash256{txHash}
	level := leaves
	idx := index
	for len(level) > 1 {
		siblingIdx := idx ^ 1
		if siblingIdx >= len(level) {
			siblingIdx = len(level) - 1
		}
		path = append(path, level[siblingIdx])

		idx = idx / 2
		level = hashLayer(level)
	}
	return path
}

// findLeafIndex locates txHash within leaves. Below LeafNodeLimit it uses
// a linear scan; at or above it, it builds a map from each leaf to its
// first index and looks txHash up there. The map is rebuilt on every
// call and not kept on the tree, so each lookup is still O(n) (spec §4.4,
// "Audit path").
func findLeafIndex(leaves []Hash256, txHash Hash256) int {
	if len(leaves) < LeafNodeLimit {
		for i, leaf := range leaves {
			if leaf == txHash {
				return i
			}
		}
		return -1
	}

	index := make(map[Hash256]int, len(leaves))
	for i, leaf := range leaves {
		if _, exists := index[leaf]; !exists {
			index[leaf] = i
		}
	}
	if i, ok := index[txHash]; ok {
		return i
	}
	return -1
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two greater than or equal
// to n, for n >= 1 (spec §8, "is_power_of_2(next_power_of_two(n)) == true
// for all n >= 1").
func NextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// IsPowerOfTwo exports the power-of-two predicate used internally by
// padding and tested directly by spec §8's invariant.
func IsPowerOfTwo(n int) bool {
	return isPowerOfTwo(n)
}

var errEmptyMerkleTree = &validationError{"cannot fold a coinbase into an empty merkle tree"}
