package vm

import "github.com/evmts/xvi-sub001/core/types"

func opSload(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	loc := fr.Stack.Peek()
	key := types.BytesToHash(loc.Bytes())
	gas := evm.sloadGas(fr, fr.Address, key)
	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	val := evm.Host.StorageGet(fr.Address, key)
	loc.SetBytes(val[:])
	return nil, nil
}

// opSstore implements the full EIP-2200/2929/3529 net-metering decision
// table. Ordering matters: the static check happens before anything else
// (SSTORE is forbidden in a static context outright), then the EIP-2200
// gas-remaining sentry, then the cold-access surcharge (EIP-2929, charged
// only on an address/slot's first touch this transaction; the warm mark is
// always applied), then the no-op/set/reset/dirty-slot cases, each of which
// may also adjust the refund counter.
func opSstore(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if fr.Static {
		return nil, ErrWriteProtection
	}

	locWord, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	valWord, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}

	if evm.Fork.IsAtLeast(Istanbul) && fr.gas <= SstoreSentryGasEIP2200 {
		return nil, ErrOutOfGas
	}

	key := types.BytesToHash(locWord.Bytes())
	newVal := types.BytesToHash(valWord.Bytes())

	var coldSurcharge uint64
	if evm.Fork.IsAtLeast(Berlin) {
		_, slotWarm := evm.AccessList.TouchSlot(fr.Address, key)
		if !slotWarm {
			coldSurcharge = ColdSloadCost
		}
	}

	current := evm.Host.StorageGet(fr.Address, key)

	if !evm.Fork.IsAtLeast(Istanbul) {
		// Pre-Istanbul legacy flat SSTORE pricing (no net metering).
		var gas uint64
		switch {
		case current.IsZero() && !newVal.IsZero():
			gas = SstoreSetGasLegacy
		case !current.IsZero() && newVal.IsZero():
			gas = SstoreClearGasLegacy
			evm.addRefund(SstoreClearRefundPre3529)
		default:
			gas = SstoreResetGasLegacy
		}
		if err := fr.consume(gas); err != nil {
			return nil, err
		}
		evm.Host.StorageSet(fr.Address, key, newVal)
		return nil, nil
	}

	original := evm.Host.GetCommittedStorage(fr.Address, key)

	var gas uint64
	switch {
	case current == newVal:
		// No-op: charge the warm-read cost (plus any cold surcharge).
		gas = WarmStorageReadCost + coldSurcharge
	case original == current:
		if original.IsZero() {
			gas = SstoreSetGas + coldSurcharge
		} else {
			gas = SstoreResetGas + coldSurcharge
			if newVal.IsZero() {
				evm.addRefund(sstoreClearRefund(evm.Fork))
			}
		}
	default:
		gas = WarmStorageReadCost + coldSurcharge
		// Dirty-slot refund adjustment: undo any refund granted when the
		// slot was first dirtied, and grant one if restoring to original.
		if !original.IsZero() {
			if current.IsZero() {
				evm.subRefund(sstoreClearRefund(evm.Fork))
			} else if newVal.IsZero() {
				evm.addRefund(sstoreClearRefund(evm.Fork))
			}
		}
		if newVal == original {
			if original.IsZero() {
				evm.addRefund(SstoreSetGas - WarmStorageReadCost)
			} else {
				evm.addRefund(SstoreResetGas - WarmStorageReadCost)
			}
		}
	}

	if err := fr.consume(gas); err != nil {
		return nil, err
	}
	evm.Host.StorageSet(fr.Address, key, newVal)
	return nil, nil
}

// sstoreClearRefund returns the EIP-3529-adjusted (London+) or legacy
// clear-to-zero refund.
func sstoreClearRefund(fork Fork) uint64 {
	if fork.IsAtLeast(London) {
		return SstoreClearRefund
	}
	return SstoreClearRefundPre3529
}

// opTload implements TLOAD (EIP-1153): a flat 100 gas read from the
// per-transaction transient storage map, which is never warm/cold tracked
// and never refunded.
func opTload(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	loc := fr.Stack.Peek()
	if err := fr.consume(GasTload); err != nil {
		return nil, err
	}
	key := types.BytesToHash(loc.Bytes())
	val := evm.TransientStorageGet(fr.Address, key)
	loc.SetBytes(val[:])
	return nil, nil
}

// opTstore implements TSTORE (EIP-1153): flat 100 gas, forbidden in a static
// context, no access-list or refund interaction.
func opTstore(pc *uint64, evm *Evm, fr *Frame) ([]byte, error) {
	if fr.Static {
		return nil, ErrWriteProtection
	}
	locWord, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	valWord, err := fr.Stack.Pop()
	if err != nil {
		return nil, err
	}
	if err := fr.consume(GasTstore); err != nil {
		return nil, err
	}
	key := types.BytesToHash(locWord.Bytes())
	val := types.BytesToHash(valWord.Bytes())
	evm.TransientStorageSet(fr.Address, key, val)
	return nil, nil
}
