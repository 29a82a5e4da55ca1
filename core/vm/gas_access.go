package vm

import "github.com/evmts/xvi-sub001/core/types"

// accountAccessGas returns the gas to charge for BALANCE, EXTCODESIZE,
// EXTCODEHASH, and the per-opcode portion of EXTCODECOPY, warming addr as a
// side effect from Berlin onward. Pre-Berlin the cost is flat and tracked by
// fork vintage; from Berlin onward warm/cold EIP-2929 accounting applies.
func (evm *Evm) accountAccessGas(addr types.Address) uint64 {
	if evm.Fork.IsAtLeast(Berlin) {
		return WarmStorageReadCost + evm.AccessList.AddressAccessCost(addr)
	}
	if evm.Fork.IsAtLeast(TangerineWhistle) {
		return AccountAccessGasTangerine
	}
	return AccountAccessGasFrontier
}

// balanceAccessGas returns the gas to charge for BALANCE specifically,
// which priced differently from the other account-access opcodes between
// Tangerine Whistle and Berlin.
func (evm *Evm) balanceAccessGas(addr types.Address) uint64 {
	if evm.Fork.IsAtLeast(Berlin) {
		return WarmStorageReadCost + evm.AccessList.AddressAccessCost(addr)
	}
	if evm.Fork.IsAtLeast(Istanbul) {
		return BalanceGasIstanbul
	}
	if evm.Fork.IsAtLeast(TangerineWhistle) {
		return BalanceGasTangerine
	}
	return AccountAccessGasFrontier
}

// sloadGas returns the gas to charge for SLOAD, warming addr+slot as a side
// effect from Berlin onward.
func (evm *Evm) sloadGas(fr *Frame, addr types.Address, slot types.Hash) uint64 {
	if evm.Fork.IsAtLeast(Berlin) {
		return WarmStorageReadCost + evm.AccessList.SlotAccessCost(addr, slot)
	}
	if evm.Fork.IsAtLeast(Istanbul) {
		return SloadGasIstanbul
	}
	return SloadGasFrontier
}

// callAccessGas returns the extra_gas surcharge the CALL family accumulates
// for touching the target address, mirroring accountAccessGas but using the
// CALL-specific pre-Berlin constants (700 from Tangerine Whistle, 40 before).
func (evm *Evm) callAccessGas(addr types.Address) uint64 {
	if evm.Fork.IsAtLeast(Berlin) {
		return WarmStorageReadCost + evm.AccessList.AddressAccessCost(addr)
	}
	if evm.Fork.IsAtLeast(TangerineWhistle) {
		return CallGasEIP150
	}
	return CallGasFrontier
}
