package vm

import "github.com/holiman/uint256"

// executionFunc is the signature for opcode handlers. A handler pops its own
// operands, charges its own gas (constant plus any dynamic component) against
// the frame's meter, and pushes its result — in that order, so a stack
// underflow is always observed before a gas charge, and a gas charge is
// always observed before the value it paid for is pushed.
type executionFunc func(pc *uint64, evm *Evm, fr *Frame) ([]byte, error)

func opAdd(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	y.Add(&x, y)
	return nil, nil
}

func opSub(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	y.Sub(&x, y)
	return nil, nil
}

func opMul(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasLow); err != nil {
		return nil, err
	}
	y.Mul(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasLow); err != nil {
		return nil, err
	}
	y.Div(&x, y) // uint256.Div already returns 0 for division by zero
	return nil, nil
}

func opSdiv(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasLow); err != nil {
		return nil, err
	}
	y.SDiv(&x, y) // handles MinInt256/-1 wraparound and zero divisor per EVM semantics
	return nil, nil
}

func opMod(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasLow); err != nil {
		return nil, err
	}
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y := fr.Stack.Peek()
	if err := fr.consume(GasLow); err != nil {
		return nil, err
	}
	y.SMod(&x, y)
	return nil, nil
}

func opAddmod(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	z := fr.Stack.Peek()
	if err := fr.consume(GasMid); err != nil {
		return nil, err
	}
	z.AddMod(&x, &y, z) // 512-bit intermediate handled internally
	return nil, nil
}

func opMulmod(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	y, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	z := fr.Stack.Peek()
	if err := fr.consume(GasMid); err != nil {
		return nil, err
	}
	z.MulMod(&x, &y, z)
	return nil, nil
}

// expByteLen returns the number of bytes needed to represent exponent,
// i.e. its BitLen rounded up to a byte, used for EIP-160 EXP gas pricing.
func expByteLen(exponent *uint256.Int) uint64 {
	bits := exponent.BitLen()
	return uint64((bits + 7) / 8)
}

func opExp(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	base, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	exponent := fr.Stack.Peek()

	byteGas := ExpByteGasFrontier
	if evm.Fork.IsAtLeast(SpuriousDragon) {
		byteGas = ExpByteGasEIP160
	}
	gas := ExpGas + byteGas*expByteLen(exponent)
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	back, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	num := fr.Stack.Peek()
	if err := fr.consume(GasLow); err != nil {
		return nil, err
	}
	if back.LtUint64(31) {
		num.ExtendSign(num, &back)
	}
	return nil, nil
}
