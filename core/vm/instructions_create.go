package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
)

func opCreate(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return doCreate(evm, fr, false)
}

func opCreate2(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	return doCreate(evm, fr, true)
}

// doCreate implements the shared CREATE/CREATE2 body: pop operands, charge
// the base cost, init-code word cost (EIP-3860 from Shanghai), CREATE2's
// extra hashing cost, and memory expansion, apply the 63/64 rule to the gas
// forwarded to init-code execution, and push either the new address or zero.
func doCreate(evm *Evm, fr *Frame, isCreate2 bool) ([]byte, error) {
	if fr.Static {
		return nil, ErrWriteProtection
	}

	value, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	offset, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	size, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	var salt uint256.Int
	if isCreate2 {
		salt, err = fr.Stack.Pop()
		if err != nil {
			return nil, err
		}
	}

	memGas, words, ok := memExpansionGas(fr, &offset, &size)
	if !ok {
		return nil, ErrGasUintOverflow
	}

	length := size.Uint64()
	if evm.Fork.IsAtLeast(Shanghai) && length > MaxInitCodeSize {
		return nil, ErrMaxInitCodeSizeExceeded
	}

	wordLen := toWordSize(length)
	gas := CreateGas + memGas
	if evm.Fork.IsAtLeast(Shanghai) {
		gas += InitCodeWordGas * wordLen
	}
	if isCreate2 {
		gas += Create2WordGas * wordLen
	}
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	commitMemExpansion(fr, words, memGas)

	initCode := fr.Memory.Get(offset.Uint64(), length)

	available := fr.gas
	if evm.Fork.IsAtLeast(TangerineWhistle) {
		available -= available / CallGasFractionDivisor
	}
	if err := fr.consume(available); err != nil {
		return nil, err
	}

	var result CreateResult
	if isCreate2 {
		result = evm.Create2(fr.Address, initCode, available, &value, &salt, fr.Static)
	} else {
		result = evm.Create(fr.Address, initCode, available, &value, fr.Static)
	}

	fr.refundGas(result.RemainingGas)
	fr.SetReturnData(result.ReturnData)

	var out uint256.Int
	if result.Success {
		out = result.Address.Word()
	}
	if err := fr.Stack.Push(&out); err != nil {
		return nil, err
	}
	return nil, nil
}

// opSelfdestruct implements SELFDESTRUCT. Gas is charged before the static
// check, so a static-context SELFDESTRUCT still pays to warm the beneficiary
// before failing.
func opSelfdestruct(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	beneficiaryWord, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	beneficiary := types.AddressFromWord(&beneficiaryWord)

	gas := SelfdestructGas
	if evm.Fork.IsAtLeast(Berlin) {
		// SELFDESTRUCT adds the full ColdAccountAccessCost on a cold
		// beneficiary on top of SelfdestructGas, not the
		// AddressAccessCost delta other opcodes add on top of an
		// already-baked-in WarmStorageReadCost, so it can't share that
		// helper here.
		if !evm.AccessList.TouchAddress(beneficiary) {
			gas += ColdAccountAccessCost
		}
	}
	balance := evm.Host.GetBalance(fr.Address)
	if evm.Fork.IsAtLeast(TangerineWhistle) && !balance.IsZero() && !evm.Host.AccountExists(beneficiary) {
		gas += CallNewAccountGas
	}
	if err := fr.consume(gas); err != nil {
		return nil, err
	}

	if fr.Static {
		return nil, ErrWriteProtection
	}

	selfBeneficiary := beneficiary == fr.Address
	if !selfBeneficiary {
		// The balance transfer happens unconditionally, even under EIP-6780
		// when the account survives the call: only code/storage removal is
		// gated on same-tx creation, never the balance move itself.
		evm.Host.SetBalance(beneficiary, new(uint256.Int).Add(evm.Host.GetBalance(beneficiary), balance))
		evm.Host.SetBalance(fr.Address, new(uint256.Int))
	}

	alreadyDestructed := evm.HasSelfdestructed(fr.Address)
	evm.MarkSelfdestructed(fr.Address)

	if evm.Fork.IsAtLeast(Cancun) {
		// EIP-6780: the account's balance is zeroed and its code cleared
		// only when it was created earlier in this transaction. Its storage
		// is not cleared here; the account is only recorded in the
		// selfdestructed set.
		if evm.CreatedThisTx(fr.Address) {
			evm.Host.SetBalance(fr.Address, new(uint256.Int))
			evm.Host.SetCode(fr.Address, nil)
		}
	} else {
		evm.Host.SetBalance(fr.Address, new(uint256.Int))
		if !evm.Fork.IsAtLeast(London) && !alreadyDestructed {
			evm.addRefund(SelfdestructRefundGas)
		}
	}

	fr.stopped = true
	return nil, nil
}
