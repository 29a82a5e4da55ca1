package vm

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
)

// TestInterpreter_AddWrapping exercises PUSH1 1, PUSH32 2^256-1, ADD, STOP:
// the ADD wraps mod 2^256 to 0, consuming exactly 3+3+3=9 gas.
func TestInterpreter_AddWrapping(t *testing.T) {
	code := []byte{byte(PUSH1), 0x01, byte(PUSH32)}
	for i := 0; i < 32; i++ {
		code = append(code, 0xFF)
	}
	code = append(code, byte(ADD), byte(STOP))

	evm, _ := newTestEvm(Cancun)
	fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 100, false, 0)

	output, err := Run(evm, fr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != nil {
		t.Fatalf("expected nil output for STOP, got %x", output)
	}
	if fr.Gas() != 91 {
		t.Fatalf("gas left = %d, want 91 (9 consumed of 100)", fr.Gas())
	}
	top := fr.Stack.Peek()
	if !top.IsZero() {
		t.Fatalf("stack top = %s, want 0", top.Hex())
	}
}

// TestInterpreter_JumpToJumpdest exercises PUSH1 4, JUMP, STOP, JUMPDEST,
// STOP: JUMP lands on the JUMPDEST at offset 4, consuming 3+8+1=12 gas and
// halting at pc=5.
func TestInterpreter_JumpToJumpdest(t *testing.T) {
	code := []byte{byte(PUSH1), 0x04, byte(JUMP), byte(STOP), byte(JUMPDEST), byte(STOP)}

	evm, _ := newTestEvm(Cancun)
	fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 100, false, 0)

	_, err := Run(evm, fr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fr.PC() != 5 {
		t.Fatalf("pc = %d, want 5", fr.PC())
	}
	if fr.Gas() != 88 {
		t.Fatalf("gas left = %d, want 88 (12 consumed of 100)", fr.Gas())
	}
}

// TestInterpreter_InvalidJump replaces the jump target with 3 (the STOP
// opcode's offset, not a JUMPDEST) and expects ErrInvalidJump.
func TestInterpreter_InvalidJump(t *testing.T) {
	code := []byte{byte(PUSH1), 0x03, byte(JUMP), byte(STOP), byte(JUMPDEST), byte(STOP)}

	evm, _ := newTestEvm(Cancun)
	fr := NewFrame(types.Address{}, types.Address{}, code, types.Hash{}, nil, new(uint256.Int), 100, false, 0)

	_, err := Run(evm, fr)
	if err != ErrInvalidJump {
		t.Fatalf("err = %v, want ErrInvalidJump", err)
	}
}

// TestInterpreter_StaticRevertOnLog exercises a STATICCALL into a contract
// that executes LOG0 at offset 0 length 0: the child halts with
// ErrWriteProtection, the parent sees success=false, and no log is appended.
func TestInterpreter_StaticRevertOnLog(t *testing.T) {
	evm, host := newTestEvm(Cancun)

	callee := types.HexToAddress("0x00000000000000000000000000000000000002")
	calleeCode := []byte{byte(PUSH1), 0x00, byte(PUSH1), 0x00, byte(LOG0), byte(STOP)}
	host.SetCode(callee, calleeCode)

	caller := types.HexToAddress("0x00000000000000000000000000000000000001")
	result := evm.Call(CallKindStaticCall, caller, callee, callee, nil, 100000, nil, true)

	if result.Success {
		t.Fatalf("expected success=false")
	}
	if len(evm.Logs()) != 0 {
		t.Fatalf("expected no logs appended, got %d", len(evm.Logs()))
	}
}
