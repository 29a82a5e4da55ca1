package vm

import "github.com/evmts/xvi-sub001/internal/evmlog"

var interpLog = evmlog.Default().Module("interpreter")

// Run drives fr's fetch-decode-execute loop until it halts: normally via
// STOP/RETURN/REVERT, by running off the end of the code (implicit STOP), or
// by an error. It returns the frame's output (nil for STOP/implicit STOP,
// the RETURN/REVERT payload otherwise) and, for REVERT, ErrExecutionReverted
// so the caller preserves unspent gas and output; every other error consumes
// all remaining gas in spirit (the caller treats any non-revert error as a
// total failure of the frame, gas_left=0).
func Run(evm *Evm, fr *Frame) ([]byte, error) {
	for {
		op := fr.GetOp(fr.pc)

		entry := mainJumpTable.lookup(op, evm.Fork)
		if entry == nil {
			interpLog.Debug("invalid opcode", "op", op, "pc", fr.pc, "fork", evm.Fork)
			fr.gas = 0
			return nil, ErrInvalidOpcode
		}

		if evm.Tracer != nil {
			evm.Tracer.CaptureState(fr.pc, op, fr.gas, fr)
		}

		output, err := entry.execute(&fr.pc, evm, fr)
		if err != nil {
			if err == ErrExecutionReverted {
				fr.reverted = true
				fr.output = output
				return output, err
			}
			fr.gas = 0
			return nil, err
		}

		switch op {
		case STOP:
			fr.stopped = true
			return nil, nil
		case RETURN:
			fr.stopped = true
			fr.output = output
			return output, nil
		case SELFDESTRUCT:
			return nil, nil
		case JUMP, JUMPI:
			// The handler already set pc to an absolute jump target, or
			// self-advanced it one step on a not-taken JUMPI; either way the
			// interpreter must not add another increment.
		default:
			// PUSH1..PUSH32 advance pc past their immediate bytes themselves
			// (landing on the last immediate byte) and still need this final
			// step to reach the next opcode, same as every fixed-width op.
			fr.pc++
		}
	}
}
