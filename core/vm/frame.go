package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
)

// Frame is one call-depth's worth of EVM execution: the bytecode being run,
// its jumpdest bitmap, the program counter, the operand stack, memory, a
// gas meter, and the immutable parameters of the call that created
// it. A Frame exclusively owns its stack, memory, pc, gas meter and output;
// nothing outside the frame mutates them. Shared chain/account/log state
// lives on the Evm that drives the Frame.
type Frame struct {
	Caller types.Address
	Address types.Address // code's executing address (storage/balance context)
	Code    []byte
	CodeHash types.Hash
	Input   []byte
	Value   *uint256.Int

	Stack  *Stack
	Memory *Memory
	memExp memExpander

	pc  uint64
	gas uint64 // signed in spirit: consume() fails rather than underflowing

	Static bool // propagated from STATICCALL ancestry; forbids state-mutating ops

	depth int // call-stack depth: 1 for the frame of a top-level Evm.Call, 0 for a frame run directly with Run

	returnData []byte // most recent sub-call's return data, visible to RETURNDATA*
	output     []byte // this frame's own RETURN/REVERT payload once it halts

	stopped  bool
	reverted bool

	jumpdests []bool // lazily computed jumpdest bitmap
}

// NewFrame constructs a Frame ready to execute code.
func NewFrame(caller, address types.Address, code []byte, codeHash types.Hash, input []byte, value *uint256.Int, gas uint64, static bool, depth int) *Frame {
	if value == nil {
		value = new(uint256.Int)
	}
	return &Frame{
		Caller:   caller,
		Address:  address,
		Code:     code,
		CodeHash: codeHash,
		Input:    input,
		Value:    value,
		Stack:    NewStack(),
		Memory:   NewMemory(),
		gas:      gas,
		Static:   static,
		depth:    depth,
	}
}

// Gas returns the frame's remaining gas.
func (f *Frame) Gas() uint64 { return f.gas }

// PC returns the current program counter.
func (f *Frame) PC() uint64 { return f.pc }

// Depth returns the call-stack depth this frame was created with (see the
// depth field).
func (f *Frame) Depth() int { return f.depth }

// Stopped reports whether the frame halted normally (STOP/RETURN or fell off
// the end of the code).
func (f *Frame) Stopped() bool { return f.stopped }

// Reverted reports whether the frame halted via REVERT.
func (f *Frame) Reverted() bool { return f.reverted }

// Output returns the frame's RETURN/REVERT payload, or nil if it produced
// none.
func (f *Frame) Output() []byte { return f.output }

// ReturnData returns the return-data buffer visible to RETURNDATASIZE and
// RETURNDATACOPY: the output of the most recently completed sub-call.
func (f *Frame) ReturnData() []byte { return f.returnData }

// SetReturnData replaces the return-data buffer. Called by the CALL-family
// and CREATE/CREATE2 handlers after the sub-call returns; for CREATE/CREATE2
// the buffer is empty on success and holds the init code's REVERT output on
// failure.
func (f *Frame) SetReturnData(data []byte) { f.returnData = data }

// GetOp returns the opcode at position n, or STOP if n is past the end of
// the code (bytecode is implicitly STOP-padded).
func (f *Frame) GetOp(n uint64) OpCode {
	if n < uint64(len(f.Code)) {
		return OpCode(f.Code[n])
	}
	return STOP
}

// consume attempts to deduct gas from the meter. It fails with ErrOutOfGas
// iff doing so would take the meter below zero; the meter is never observed
// negative by calling code.
func (f *Frame) consume(gas uint64) error {
	if f.gas < gas {
		return ErrOutOfGas
	}
	f.gas -= gas
	return nil
}

// refundGas adds gas back to the meter, e.g. unused gas returned by a
// sub-call.
func (f *Frame) refundGas(gas uint64) { f.gas += gas }

// jumpdestBitmap lazily computes (and caches) the set of valid JUMPDEST
// offsets via a single left-to-right pass over the code that skips PUSH-N
// immediate bytes, so a JUMPDEST byte inside push data is never considered
// a valid destination.
func (f *Frame) jumpdestBitmap() []bool {
	if f.jumpdests != nil {
		return f.jumpdests
	}
	bitmap := make([]bool, len(f.Code))
	for i := 0; i < len(f.Code); {
		op := OpCode(f.Code[i])
		if op == JUMPDEST {
			bitmap[i] = true
			i++
			continue
		}
		if op.IsPush() {
			i += int(op-PUSH1) + 2
			continue
		}
		i++
	}
	f.jumpdests = bitmap
	return bitmap
}

// ValidJumpdest reports whether dest is an in-bounds JUMPDEST opcode that is
// not embedded in PUSH immediate data.
func (f *Frame) ValidJumpdest(dest uint64) bool {
	bitmap := f.jumpdestBitmap()
	if dest >= uint64(len(bitmap)) {
		return false
	}
	return bitmap[dest]
}
