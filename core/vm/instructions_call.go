package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
)

func opCall(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return doCall(evm, fr, CallKindCall, true)
}

func opCallCode(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return doCall(evm, fr, CallKindCallCode, true)
}

func opDelegateCall(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return doCall(evm, fr, CallKindDelegateCall, false)
}

func opStaticCall(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return doCall(evm, fr, CallKindStaticCall, false)
}

// doCall implements the common body of the CALL family: pop operands, charge
// the common memory-expansion and access-surcharge gas, apply the 63/64 rule,
// dispatch to the Evm, and push the success flag. hasValue selects whether a
// value operand is popped from the stack (CALL/CALLCODE only).
func doCall(evm *Evm, fr *Frame, kind CallKind, hasValue bool) ([]byte, error) {
	gasArg, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	addrWord, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	addr := types.AddressFromWord(&addrWord)

	var value *uint256.Int
	if hasValue {
		v, err := fr.Stack.Pop()
		if err != nil {
			return nil, err
		}
		value = &v
	} else {
		value = new(uint256.Int)
	}

	if kind == CallKindCall && fr.Static && !value.IsZero() {
		return nil, ErrWriteProtection
	}

	inOffset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	inSize, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	outOffset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	outSize, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}

	memGas, words, ok := callMemExpansionGas(fr, &inOffset, &inSize, &outOffset, &outSize)
	if !ok {
		return nil, ErrGasUintOverflow
	}

	extraGas := evm.callAccessGas(addr)
	if kind == CallKindCall || kind == CallKindCallCode {
		if !value.IsZero() {
			extraGas += CallValueTransferGas
			if kind == CallKindCall && !evm.Host.AccountExists(addr) && !evm.Host.IsPrecompile(addr) {
				extraGas += CallNewAccountGas
			}
		}
	}

	if err := fr.consume(extraGas + memGas); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)

	available := fr.gas
	if evm.Fork.IsAtLeast(TangerineWhistle) {
		available -= available / CallGasFractionDivisor
	}
	forwarded := available
	if gasArg.IsUint64() && gasArg.Uint64() < forwarded {
		forwarded = gasArg.Uint64()
	}
	if err := fr.consume(forwarded); err != nil {
		return nil, err
	}

	callGas := forwarded
	if (kind == CallKindCall || kind == CallKindCallCode) && !value.IsZero() {
		callGas += CallStipend
	}

	input := fr.Memory.Get(inOffset.Uint64(), inSize.Uint64())

	static := fr.Static || kind == CallKindStaticCall

	var result CallResult
	switch kind {
	case CallKindCall:
		result = evm.Call(kind, fr.Address, addr, addr, input, callGas, value, static)
	case CallKindCallCode:
		result = evm.Call(kind, fr.Address, addr, fr.Address, input, callGas, value, static)
	case CallKindDelegateCall:
		result = evm.callDelegate(fr, addr, input, callGas)
	case CallKindStaticCall:
		result = evm.Call(kind, fr.Address, addr, addr, input, callGas, nil, true)
	}

	fr.refundGas(result.RemainingGas)
	fr.SetReturnData(result.ReturnData)

	if result.ReturnData != nil && outSize.Sign() > 0 {
		n := outSize.Uint64()
		if uint64(len(result.ReturnData)) < n {
			n = uint64(len(result.ReturnData))
		}
		fr.Memory.Set(outOffset.Uint64(), n, result.ReturnData[:n])
	}

	var success uint256.Int
	if result.Success {
		success.SetOne()
	}
	if err := fr.Stack.Push(&success); err != nil {
		return nil, err
	}
	return nil, nil
}

// callMemExpansionGas computes the combined memory-expansion cost of a CALL
// family opcode's input and output regions: both must be measured against
// the frame's memory size before either is committed, since a no-op region
// (size 0) never grows memory regardless of its offset.
func callMemExpansionGas(fr *Frame, inOffset, inSize, outOffset, outSize *uint256.Int) (gas, words uint64, ok bool) {
	inEnd, ok1 := regionEnd(inOffset, inSize)
	outEnd, ok2 := regionEnd(outOffset, outSize)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	need := inEnd
	if outEnd > need {
		need = outEnd
	}
	return fr.memExp.delta(need)
}
