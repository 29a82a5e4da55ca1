package vm

import "github.com/evmts/xvi-sub001/core/types"

// makeLog returns the handler for LOG0..LOGn (n topics). LOG is forbidden in
// a static context; gas is 375 + 375*n + 8*length + memory expansion.
func makeLog(n int) executionFunc {
	return func(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
		if fr.Static {
			return nil, ErrWriteProtection
		}
		offset, err := fr.Stack.Pop()
		if err != nil {
			return nil, err
		}
		size, err := fr.Stack.Pop()
		if err != nil {
			return nil, err
		}
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			w, err := fr.Stack.Pop()
			if err != nil {
				return nil, err
			}
			topics[i] = types.BytesToHash(w.Bytes())
		}

		memGas, words, ok := memExpansionGas(fr, &offset, &size)
		if !ok {
			return nil, ErrGasUintOverflow
		}
		gas := LogGas + LogTopicGas*uint64(n) + LogDataGas*size.Uint64() + memGas
		if err := fr.consume(gas); err != nil {
			return nil, err
		}
		commitMemExpansion(fr, words, memGas)

		data := fr.Memory.Get(offset.Uint64(), size.Uint64())
		evm.AddLog(types.Log{
			Address: fr.Address,
			Topics:  topics,
			Data:    data,
		})
		return nil, nil
	}
}
