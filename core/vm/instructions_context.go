package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
)

func opAddress(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	w := fr.Address.Word()
	return nil, fr.Stack.Push(&w)
}

func opOrigin(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	w := evm.TxContext.Origin.Word()
	return nil, fr.Stack.Push(&w)
}

func opCaller(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	w := fr.Caller.Word()
	return nil, fr.Stack.Push(&w)
}

func opCallValue(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(fr.Value)
}

func opCalldataLoad(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	x := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	data := make([]byte, 32)
	if x.IsUint64() {
		offset := x.Uint64()
		if offset < uint64(len(fr.Input)) {
			copy(data, fr.Input[offset:])
		}
	}
	x.SetBytes(data)
	return nil, nil
}

func opCalldataSize(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int).SetUint64(uint64(len(fr.Input))))
}

func opCalldataCopy(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return copyToMemory(fr, fr.Input)
}

func opCodeSize(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int).SetUint64(uint64(len(fr.Code))))
}

func opCodeCopy(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return copyToMemory(fr, fr.Code)
}

// copyToMemory implements the common shape of *COPY opcodes that pop
// (memOffset, dataOffset, length), copy length bytes from src (zero-padded
// past its end) into memory at memOffset, and charge
// VeryLow + 3*ceil(length/32) + memory expansion.
func copyToMemory(fr *Frame, src []byte) ([]byte, error) {
	memOffset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	dataOffset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	length, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}

	memGas, words, ok := memExpansionGas(fr, &memOffset, &length)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	wordLen := toWordSize(length.Uint64())
	gas := GasVerylow + CopyGas*wordLen + memGas
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)

	l := length.Uint64()
	if l == 0 {
		return nil, nil
	}
	data := make([]byte, l)
	if dataOffset.IsUint64() {
		if dOff := dataOffset.Uint64(); dOff < uint64(len(src)) {
			copy(data, src[dOff:])
		}
	}
	return nil, fr.Memory.Set(memOffset.Uint64(), l, data)
}

func opReturndataSize(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int).SetUint64(uint64(len(fr.ReturnData()))))
}

func opReturndataCopy(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	memOffset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	dataOffset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	length, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}

	memGas, words, ok := memExpansionGas(fr, &memOffset, &length)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	wordLen := toWordSize(length.Uint64())
	gas := GasVerylow + CopyGas*wordLen + memGas
	if err := fr.consume(gas); err != nil {
		return nil, err
	}

	l := length.Uint64()
	rd := fr.ReturnData()
	if !dataOffset.IsUint64() {
		return nil, ErrOutOfBounds
	}
	dOff := dataOffset.Uint64()
	end := dOff + l
	if end < dOff || end > uint64(len(rd)) {
		return nil, ErrOutOfBounds
	}
	commitMemExpansion(fr, words, memGas)
	if l == 0 {
		return nil, nil
	}
	data := make([]byte, l)
	copy(data, rd[dOff:end])
	return nil, fr.Memory.Set(memOffset.Uint64(), l, data)
}

func opGasPrice(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	v := new(uint256.Int)
	if evm.TxContext.GasPrice != nil {
		v.Set(evm.TxContext.GasPrice)
	}
	return nil, fr.Stack.Push(v)
}

func opExtcodesize(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	slot := fr.Stack.Peek()
	addr := types.AddressFromWord(slot)
	gas := evm.accountAccessGas(addr)
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	slot.SetUint64(uint64(evm.Host.GetCodeSize(addr)))
	return nil, nil
}

func opExtcodehash(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	slot := fr.Stack.Peek()
	addr := types.AddressFromWord(slot)
	gas := evm.accountAccessGas(addr)
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	if !evm.Host.AccountExists(addr) || evm.Host.Empty(addr) {
		slot.Clear()
		return nil, nil
	}
	hash := evm.Host.GetCodeHash(addr)
	slot.SetBytes(hash[:])
	return nil, nil
}

func opExtcodecopy(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	addrWord, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	memOffset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	codeOffset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	length, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}

	addr := types.AddressFromWord(&addrWord)
	accessGas := evm.accountAccessGas(addr)
	memGas, words, ok := memExpansionGas(fr, &memOffset, &length)
	if !ok {
		return nil, ErrGasUintOverflow
	}
	wordLen := toWordSize(length.Uint64())
	gas := accessGas + CopyGas*wordLen + memGas
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)

	l := length.Uint64()
	if l == 0 {
		return nil, nil
	}
	code := evm.Host.GetCode(addr)
	data := make([]byte, l)
	if codeOffset.IsUint64() {
		if cOff := codeOffset.Uint64(); cOff < uint64(len(code)) {
			copy(data, code[cOff:])
		}
	}
	return nil, fr.Memory.Set(memOffset.Uint64(), l, data)
}

func opBalance(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	slot := fr.Stack.Peek()
	addr := types.AddressFromWord(slot)
	gas := evm.balanceAccessGas(addr)
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	slot.Set(evm.Host.GetBalance(addr))
	return nil, nil
}

func opSelfBalance(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasLow); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(evm.Host.GetBalance(fr.Address))
}

func opChainID(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int).SetUint64(evm.ChainID))
}

func opBaseFee(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	v := new(uint256.Int)
	if evm.Context.BaseFee != nil {
		v.Set(evm.Context.BaseFee)
	}
	return nil, fr.Stack.Push(v)
}

func opBlobHash(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	idx := fr.Stack.Peek()
	if err := fr.consume(GasVerylow); err != nil {
		return nil, err
	}
	if idx.IsUint64() {
		if i := idx.Uint64(); i < uint64(len(evm.TxContext.BlobHashes)) {
			h := evm.TxContext.BlobHashes[i]
			idx.SetBytes(h[:])
			return nil, nil
		}
	}
	idx.Clear()
	return nil, nil
}

func opBlobBaseFee(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	v := new(uint256.Int)
	if evm.Context.BlobBaseFee != nil {
		v.Set(evm.Context.BlobBaseFee)
	}
	return nil, fr.Stack.Push(v)
}

func opCoinbase(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	w := evm.Context.Coinbase.Word()
	return nil, fr.Stack.Push(&w)
}

func opTimestamp(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int).SetUint64(evm.Context.Time))
}

func opNumber(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int).SetUint64(evm.Context.BlockNumber))
}

// opPrevRandao implements DIFFICULTY pre-Merge and PREVRANDAO from Merge
// onward; both share opcode 0x44.
func opPrevRandao(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	v := new(uint256.Int)
	if evm.Fork.IsAtLeast(Merge) {
		if evm.Context.Random != nil {
			v.Set(evm.Context.Random)
		}
	} else if evm.Context.Difficulty != nil {
		v.Set(evm.Context.Difficulty)
	}
	return nil, fr.Stack.Push(v)
}

func opGasLimit(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if err := fr.consume(GasBase); err != nil {
		return nil, err
	}
	return nil, fr.Stack.Push(new(uint256.Int).SetUint64(evm.Context.GasLimit))
}

// opBlockhash returns the hash of one of the 256 most recent complete
// blocks, or zero outside that window.
func opBlockhash(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	num := fr.Stack.Peek()
	if err := fr.consume(GasExt); err != nil {
		return nil, err
	}
	upper := evm.Context.BlockNumber
	var lower uint64
	if upper > 256 {
		lower = upper - 256
	}
	if num.IsUint64() {
		n := num.Uint64()
		if n >= lower && n < upper && evm.Context.GetHash != nil {
			h := evm.Context.GetHash(n)
			num.SetBytes(h[:])
			return nil, nil
		}
	}
	num.Clear()
	return nil, nil
}
