package vm

import (
	"github.com/evmts/xvi-sub001/crypto"
)

func opLt(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIsZero(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	th, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	val := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	val.Byte(&th)
	return nil, nil
}

func opSHL(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	shift, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	value := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSHR(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	shift, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	value := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSAR(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	shift, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	value := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil, nil
	}
	n := uint(shift.Uint64())
	value.SRsh(value, n)
	return nil, nil
}

func opKeccak256(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	offset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	size := fr.Stack.Peek()

	memGas, words, ok := memExpansionGas(fr, &offset, size)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	wordLen := toWordSize(size.Uint64())
	gas := memGas + Keccak256Gas + Keccak256WordGas*wordLen
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)

	data := fr.Memory.Get(offset.Uint64(), size.Uint64())
	hash := crypto.Keccak256(data)
	size.SetBytes(hash)
	return nil, nil
}
