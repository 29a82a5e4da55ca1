package vm

import "github.com/holiman/uint256"

func opPop(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if _, err := fr.Stack.Pop(); err != nil {
		return nil, err
	}
	return nil, fr.consume(GasBase)
}

func opMload(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	offset := fr.Stack.Peek()
	size := uint256.NewInt(32)
	memGas, words, ok := memExpansionGas(fr, offset, size)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	if err := fr.consume(memGas + GasVerylow); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)
	data := fr.Memory.Get(offset.Uint64(), 32)
	offset.SetBytes(data)
	return nil, nil
}

func opMstore(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	offset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	val, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	size := uint256.NewInt(32)
	memGas, words, ok := memExpansionGas(fr, &offset, size)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	if err := fr.consume(memGas + GasVerylow); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)
	return nil, fr.Memory.Set32(offset.Uint64(), &val)
}

func opMstore8(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	offset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	val, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	size := uint256.NewInt(1)
	memGas, words, ok := memExpansionGas(fr, &offset, size)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	if err := fr.consume(memGas + GasVerylow); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)
	return nil, fr.Memory.SetByte(offset.Uint64(), byte(val.Uint64()))
}

func opMsize(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	v := new(uint256.Int).SetUint64(uint64(fr.Memory.Len()))
	return nil, fr.Stack.Push(v)
}

func opMcopy(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	dst, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	src, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	size, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}

	dstGas, dstWords, ok := memExpansionGas(fr, &dst, &size)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	srcGas, srcWords, ok := memExpansionGas(fr, &src, &size)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	words := dstWords
	if srcWords > words {
		words = srcWords
	}
	memGas := dstGas
	if srcGas > memGas {
		memGas = srcGas
	}
	wordLen := toWordSize(size.Uint64())
	gas := GasVerylow + McopyGas*wordLen + memGas
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)
	if size.IsZero() {
		return nil, nil
	}
	return nil, fr.Memory.Copy(dst.Uint64(), src.Uint64(), size.Uint64())
}

func opPc(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int).SetUint64(*pc))
}

func opGas(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int).SetUint64(fr.gas))
}

func opJumpdest(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return nil, fr.consume(GasJumpDest)
}

func opStop(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return nil, nil
}

func opPush0(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasPush0); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int))
}

// makePush returns a handler that pushes `size` bytes of immediate code as a
// big-endian word, zero-padded if the code ends before size bytes are
// available, then advances pc past the immediate.
func makePush(size uint64) executionFunc {
	return func(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
		if err := fr.consume(GasVerylow); err != nil {
			return nil, err
		}
		start := *pc + 1
		codeLen := uint64(len(fr.Code))
		var data []byte
		if start >= codeLen {
			data = make([]byte, size)
		} else {
			end := start + size
			if end > codeLen {
				data = make([]byte, size)
				copy(data, fr.Code[start:codeLen])
			} else {
				data = fr.Code[start:end]
			}
		}
		v := new(uint256.Int).SetBytes(data)
		if err := fr.Stack.Push(v); err != nil {
			return nil, err
		}
		*pc += size
		return nil, nil
	}
}

// makeDup returns a handler that duplicates the nth stack item (1-indexed
// from the top) and pushes the copy.
func makeDup(n int) executionFunc {
	return func(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
		if err := fr.Stack.Require(n); err != nil {
			return nil, err
		}
		if err := fr.consume(GasVerylow); err != nil {
			return nil, err
		}
		return nil, fr.Stack.Dup(n)
	}
}

// makeSwap returns a handler that swaps the top stack item with the nth item
// below it (n>=1).
func makeSwap(n int) executionFunc {
	return func(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
		if err := fr.Stack.Require(n + 1); err != nil {
			return nil, err
		}
		if err := fr.consume(GasVerylow); err != nil {
			return nil, err
		}
		fr.Stack.Swap(n)
		return nil, nil
	}
}
