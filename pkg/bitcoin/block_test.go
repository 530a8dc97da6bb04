package bitcoin

import (
	"strings"
	"testing"
)

func TestBuildHexTxsHash(t *testing.T) {
	txs := []Hash256{leafHash(t, 1), leafHash(t, 2), leafHash(t, 3)}

	got, err := BuildHexTxsHash(txs)
	if err != nil {
		t.Fatalf("BuildHexTxsHash failed: %v", err)
	}

	want := NewMerkleTree(txs).Root
	if got.Root != want {
		t.Errorf("root = %s, want %s", got.Root, want)
	}

	again, err := BuildHexTxsHash(txs)
	if err != nil {
		t.Fatalf("BuildHexTxsHash failed: %v", err)
	}
	if again.Flat != got.Flat {
		t.Error("flat hash should be deterministic for the same ordered tx hash list")
	}

	reordered := []Hash256{txs[1], txs[0], txs[2]}
	reorderedHash, err := BuildHexTxsHash(reordered)
	if err != nil {
		t.Fatalf("BuildHexTxsHash failed: %v", err)
	}
	if reorderedHash.Flat == got.Flat {
		t.Error("flat hash should change when transaction order changes")
	}
}

func TestNewBlock_SetsBits(t *testing.T) {
	txs := []Hash256{leafHash(t, 1), leafHash(t, 2)}
	merkle, err := BuildHexTxsHash(txs)
	if err != nil {
		t.Fatalf("BuildHexTxsHash failed: %v", err)
	}

	header := BlockHeader{
		Version:              NetworkVersion,
		NonceAndMiningTxHash: strings.Repeat("ab", 32),
		BNum:                 1,
		SeedValue:            "seed",
		TxsMerkleRootAndHash: merkle,
	}

	block, err := NewBlock(header, txs)
	if err != nil {
		t.Fatalf("NewBlock failed: %v", err)
	}
	if block.Header.Bits == 0 {
		t.Error("Bits should be set to a non-zero serialized size")
	}
}

func TestBlock_IsGenesis(t *testing.T) {
	txs := []Hash256{leafHash(t, 1)}
	merkle, err := BuildHexTxsHash(txs)
	if err != nil {
		t.Fatalf("BuildHexTxsHash failed: %v", err)
	}

	genesis, err := NewBlock(BlockHeader{TxsMerkleRootAndHash: merkle}, txs)
	if err != nil {
		t.Fatalf("NewBlock failed: %v", err)
	}
	if !genesis.IsGenesis() {
		t.Error("a block with no PreviousHash should be a genesis block")
	}

	prev := leafHash(t, 99)
	child, err := NewBlock(BlockHeader{PreviousHash: &prev, TxsMerkleRootAndHash: merkle}, txs)
	if err != nil {
		t.Fatalf("NewBlock failed: %v", err)
	}
	if child.IsGenesis() {
		t.Error("a block with a PreviousHash should not be a genesis block")
	}
}

func TestBlock_IsFull(t *testing.T) {
	block := Block{Header: BlockHeader{Bits: MaxBlockSize}}
	if !block.IsFull() {
		t.Error("a block whose Bits meets MaxBlockSize should be full")
	}

	block.Header.Bits = MaxBlockSize - 1
	if block.IsFull() {
		t.Error("a block below MaxBlockSize should not be full")
	}
}

func TestBlock_Validate(t *testing.T) {
	txs := []Hash256{leafHash(t, 1)}
	merkle, err := BuildHexTxsHash(txs)
	if err != nil {
		t.Fatalf("BuildHexTxsHash failed: %v", err)
	}

	valid, err := NewBlock(BlockHeader{TxsMerkleRootAndHash: merkle}, txs)
	if err != nil {
		t.Fatalf("NewBlock failed: %v", err)
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("a well-formed block should validate, got %v", err)
	}

	empty := Block{Header: BlockHeader{TxsMerkleRootAndHash: merkle}}
	if err := empty.Validate(); err == nil {
		t.Error("a block with no transactions should fail validation")
	}

	full := Block{Header: BlockHeader{Bits: MaxBlockSize, TxsMerkleRootAndHash: merkle}, Transactions: txs}
	if err := full.Validate(); err == nil {
		t.Error("a block at or above MaxBlockSize should fail validation")
	}
}
