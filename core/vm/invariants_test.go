package vm

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
)

// TestMemoryExpansionOverflow_SaturatesToOutOfGas checks that an offset/size
// pair whose byte count cannot be represented is treated as an
// out-of-gas failure, never a panic or a wrapped/negative cost.
func TestMemoryExpansionOverflow_SaturatesToOutOfGas(t *testing.T) {
	evm, _ := newTestEvm(Cancun)

	// PUSH32 a huge offset, MLOAD: the offset+32 read cannot be represented,
	// so no memory-expansion cost can be computed for it.
	code := []byte{byte(PUSH32)}
	huge := make([]byte, 32)
	for i := range huge {
		huge[i] = 0xFF
	}
	code = append(code, huge...)
	code = append(code, byte(MLOAD))

	fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 1_000_000, false, 0)
	_, err := Run(evm, fr)
	if err != ErrOutOfGas && err != ErrGasUintOverflow {
		t.Fatalf("err = %v, want an out-of-gas class error", err)
	}
}

// TestMcopy_ZeroLength charges exactly the base 3 gas with no memory
// expansion when length is 0, regardless of offsets.
func TestMcopy_ZeroLength(t *testing.T) {
	evm, _ := newTestEvm(Cancun)

	code := []byte{
		byte(PUSH1), 0x00, // length
		byte(PUSH1), 0x20, // src offset
		byte(PUSH1), 0x00, // dest offset
		byte(MCOPY),
		byte(STOP),
	}
	fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 100, false, 0)
	if _, err := Run(evm, fr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	consumed := uint64(100) - fr.Gas()
	want := GasVerylow*3 + GasVerylow // three PUSH1 operands plus MCOPY's own base cost
	if consumed != want {
		t.Fatalf("gas consumed = %d, want %d (no memory expansion charged)", consumed, want)
	}
}

// TestPush0_PreShanghaiIsInvalid checks PUSH0 is rejected as an unknown
// opcode before Shanghai and succeeds (pushing a zero word) from Shanghai on.
func TestPush0_PreShanghaiIsInvalid(t *testing.T) {
	evm, _ := newTestEvm(London)
	code := []byte{byte(PUSH0), byte(STOP)}
	fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 100, false, 0)
	if _, err := Run(evm, fr); err != ErrInvalidOpcode {
		t.Fatalf("err = %v, want ErrInvalidOpcode pre-Shanghai", err)
	}
}

func TestPush0_PostShanghaiPushesZero(t *testing.T) {
	evm, _ := newTestEvm(Shanghai)
	code := []byte{byte(PUSH0), byte(STOP)}
	fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 100, false, 0)
	if _, err := Run(evm, fr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fr.Stack.Peek().IsZero() {
		t.Fatalf("expected zero word on stack")
	}
}

// TestDup16_BoundaryDepth checks DUP16 succeeds with exactly 16 items on the
// stack and fails with only 15.
func TestDup16_BoundaryDepth(t *testing.T) {
	push16 := func() []byte {
		var code []byte
		for i := 0; i < 16; i++ {
			code = append(code, byte(PUSH1), 0x01)
		}
		return code
	}

	t.Run("exactly 16 items", func(t *testing.T) {
		evm, _ := newTestEvm(Cancun)
		code := append(push16(), byte(DUP16), byte(STOP))
		fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 1000, false, 0)
		if _, err := Run(evm, fr); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fr.Stack.Len() != 17 {
			t.Fatalf("stack depth = %d, want 17", fr.Stack.Len())
		}
	})

	t.Run("only 15 items", func(t *testing.T) {
		evm, _ := newTestEvm(Cancun)
		var code []byte
		for i := 0; i < 15; i++ {
			code = append(code, byte(PUSH1), 0x01)
		}
		code = append(code, byte(DUP16), byte(STOP))
		fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 1000, false, 0)
		if _, err := Run(evm, fr); err != ErrStackUnderflow {
			t.Fatalf("err = %v, want ErrStackUnderflow", err)
		}
	})
}

// TestBlockhash_WindowBoundary checks BLOCKHASH returns zero for a block
// number more than 256 blocks back, or at/after the current block, and
// the real ancestor hash for the most recent in-window block.
func TestBlockhash_WindowBoundary(t *testing.T) {
	evm, _ := newTestEvm(Cancun)
	evm.Context.BlockNumber = 500
	evm.Context.GetHash = func(n uint64) types.Hash {
		return types.Hash{31: byte(n)}
	}

	run := func(n uint64) *uint256.Int {
		code := []byte{byte(PUSH2)}
		// two immediate bytes, so block numbers above 255 (e.g. 500) encode intact
		code = append(code, byte(n>>8), byte(n), byte(BLOCKHASH), byte(STOP))
		fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 1000, false, 0)
		if _, err := Run(evm, fr); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return fr.Stack.Peek()
	}

	if got := run(243); !got.IsZero() { // 500-256 = 244 is the oldest in-window block
		t.Fatalf("block 243 (outside window) = %s, want 0", got.Hex())
	}
	if got := run(500); !got.IsZero() { // current block is never in-window
		t.Fatalf("block 500 (current) = %s, want 0", got.Hex())
	}
	got := run(244)
	want := new(uint256.Int).SetBytes((types.Hash{31: 244})[:])
	if !got.Eq(want) {
		t.Fatalf("block 244 (oldest in-window) = %s, want %s", got.Hex(), want.Hex())
	}
}

// TestCalldataload_PastEndReadsZero checks reading calldata at or beyond its
// length yields a zero word rather than an error or garbage.
func TestCalldataload_PastEndReadsZero(t *testing.T) {
	evm, _ := newTestEvm(Cancun)
	code := []byte{byte(PUSH1), 0x00, byte(CALLDATALOAD), byte(STOP)}
	fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 100, false, 0)
	fr.Input = nil // empty calldata

	if _, err := Run(evm, fr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fr.Stack.Peek().IsZero() {
		t.Fatalf("expected zero word reading past empty calldata")
	}
}

// TestKeccak256_EmptySlice checks KECCAK256 of a zero-length range produces
// the well-known empty-input hash and charges only the base cost.
func TestKeccak256_EmptySlice(t *testing.T) {
	evm, _ := newTestEvm(Cancun)
	code := []byte{byte(PUSH1), 0x00, byte(PUSH1), 0x00, byte(KECCAK256), byte(STOP)}
	fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 100, false, 0)

	if _, err := Run(evm, fr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const emptyKeccak256 = "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	got := fr.Stack.Peek().Hex()
	if got != emptyKeccak256 {
		t.Fatalf("hash = %s, want %s (the empty-input Keccak256)", got, emptyKeccak256)
	}
	consumed := uint64(100) - fr.Gas()
	if consumed != GasVerylow*2+Keccak256Gas {
		t.Fatalf("gas consumed = %d, want %d", consumed, GasVerylow*2+Keccak256Gas)
	}
}

// TestAccessList_SnapshotRevert checks that warming an address inside a
// reverted scope un-warms it, since access-list state is part of the
// journal unwound on REVERT.
func TestAccessList_SnapshotRevert(t *testing.T) {
	evm, _ := newTestEvm(Berlin)
	addr := types.HexToAddress("0x00000000000000000000000000000000000009")

	snap := evm.AccessList.Snapshot()
	evm.AccessList.TouchAddress(addr)
	if !evm.AccessList.ContainsAddress(addr) {
		t.Fatalf("expected addr to be warm after TouchAddress")
	}
	evm.AccessList.RevertToSnapshot(snap)
	if evm.AccessList.ContainsAddress(addr) {
		t.Fatalf("expected addr to be cold again after revert")
	}
}
