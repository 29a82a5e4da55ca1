package vm

import "errors"

// Execution errors a Frame handler may return. These halt the current frame;
// a sub-call converts them into success=false with gas_left=0 for the caller,
// except ErrExecutionReverted which preserves output and unspent gas.
var (
	ErrOutOfGas                = errors.New("vm: out of gas")
	ErrStackUnderflow          = errors.New("vm: stack underflow")
	ErrStackOverflow           = errors.New("vm: stack overflow")
	ErrInvalidJump             = errors.New("vm: invalid jump destination")
	ErrInvalidOpcode           = errors.New("vm: invalid opcode")
	ErrWriteProtection         = errors.New("vm: write protection (static call)")
	ErrOutOfBounds             = errors.New("vm: memory or return-data access out of bounds")
	ErrExecutionReverted       = errors.New("vm: execution reverted")
	ErrDepthLimit              = errors.New("vm: call depth exceeds 1024")
	ErrInsufficientBalance     = errors.New("vm: insufficient balance for transfer")
	ErrContractAddrCollision   = errors.New("vm: contract address collision")
	ErrMaxInitCodeSizeExceeded = errors.New("vm: max init code size exceeded")
	ErrMaxCodeSizeExceeded     = errors.New("vm: max code size exceeded")
	ErrInvalidCodeEntry        = errors.New("vm: invalid code entry point (0xEF prefix)")
	ErrGasUintOverflow         = errors.New("vm: gas computation overflow")
)

// StaticCallViolation is a synonym for ErrWriteProtection retained for
// callers that want the more descriptive name.
var ErrStaticCallViolation = ErrWriteProtection
