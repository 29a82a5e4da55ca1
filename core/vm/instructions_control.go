package vm

func opJump(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	dest, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	if err := fr.consume(GasMid); err != nil {
		return nil, err
	}
	if !dest.IsUint64() || !fr.ValidJumpdest(dest.Uint64()) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	dest, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	cond, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	if err := fr.consume(GasHigh); err != nil {
		return nil, err
	}
	if cond.IsZero() {
		*pc++
		return nil, nil
	}
	if !dest.IsUint64() || !fr.ValidJumpdest(dest.Uint64()) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64()
	return nil, nil
}

func opReturn(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	offset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	size, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	memGas, words, ok := memExpansionGas(fr, &offset, &size)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	if err := fr.consume(memGas); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)
	return fr.Memory.Get(offset.Uint64(), size.Uint64()), nil
}

func opRevert(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	offset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	size, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	memGas, words, ok := memExpansionGas(fr, &offset, &size)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	if err := fr.consume(memGas); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)
	return fr.Memory.Get(offset.Uint64(), size.Uint64()), ErrExecutionReverted
}

func opInvalid(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return nil, ErrInvalidOpcode
}
