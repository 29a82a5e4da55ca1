package vm

// access_list.go implements EIP-2929 warm/cold access tracking with
// journaling for snapshot/revert. An address or slot warmed after a snapshot
// turns cold again when that snapshot is reverted (as happens for a failed
// or reverted sub-call); entries added by PrePopulate are never undone.

import (
	"github.com/evmts/xvi-sub001/core/types"
)

// AccessTuple is one entry of an externally supplied (EIP-2930) access list:
// an address plus the storage slots to pre-warm for it.
type AccessTuple struct {
	Address     types.Address
	StorageKeys []types.Hash
}

// AccessList tracks EIP-2929 warm/cold status for addresses and storage
// slots for the lifetime of one transaction. It journals every warming so a
// snapshot/revert can unwind exactly the entries added since the snapshot.
type AccessList struct {
	addresses   map[types.Address]int
	slots       map[types.Address]map[types.Hash]int
	journal     []accessListChange
	snapshotIDs []int
}

type accessListChangeKind uint8

const (
	changeAddAddress accessListChangeKind = iota
	changeAddSlot
)

type accessListChange struct {
	kind    accessListChangeKind
	address types.Address
	slot    types.Hash
}

// NewAccessList creates an empty AccessList.
func NewAccessList() *AccessList {
	return &AccessList{
		addresses: make(map[types.Address]int),
		slots:     make(map[types.Address]map[types.Hash]int),
	}
}

// PrePopulate warms the origin, the call target (nil for contract creation),
// every precompile address, and the caller-supplied access list, exactly
// once, before any opcode executes. These entries are unwindable by nothing
// short of a fresh AccessList: they use journal index -1.
func (al *AccessList) PrePopulate(origin types.Address, to *types.Address, precompiles []types.Address, tuples []AccessTuple) {
	al.addAddressNoJournal(origin)
	if to != nil {
		al.addAddressNoJournal(*to)
	}
	for _, p := range precompiles {
		al.addAddressNoJournal(p)
	}
	for _, t := range tuples {
		al.addAddressNoJournal(t.Address)
		for _, key := range t.StorageKeys {
			al.addSlotNoJournal(t.Address, key)
		}
	}
}

func (al *AccessList) addAddressNoJournal(addr types.Address) {
	if _, ok := al.addresses[addr]; !ok {
		al.addresses[addr] = -1
	}
}

func (al *AccessList) addSlotNoJournal(addr types.Address, slot types.Hash) {
	al.addAddressNoJournal(addr)
	slots, ok := al.slots[addr]
	if !ok {
		slots = make(map[types.Hash]int)
		al.slots[addr] = slots
	}
	if _, ok := slots[slot]; !ok {
		slots[slot] = -1
	}
}

// ContainsAddress reports whether addr is currently warm.
func (al *AccessList) ContainsAddress(addr types.Address) bool {
	_, ok := al.addresses[addr]
	return ok
}

// ContainsSlot reports whether addr is warm and whether slot is warm.
func (al *AccessList) ContainsSlot(addr types.Address, slot types.Hash) (addrWarm, slotWarm bool) {
	_, addrWarm = al.addresses[addr]
	if !addrWarm {
		return false, false
	}
	slots, ok := al.slots[addr]
	if !ok {
		return true, false
	}
	_, slotWarm = slots[slot]
	return true, slotWarm
}

// TouchAddress warms addr if cold. Returns whether it was already warm.
func (al *AccessList) TouchAddress(addr types.Address) (wasWarm bool) {
	if _, ok := al.addresses[addr]; ok {
		return true
	}
	al.addresses[addr] = len(al.journal)
	al.journal = append(al.journal, accessListChange{kind: changeAddAddress, address: addr})
	return false
}

// TouchSlot warms addr and slot if cold. Returns their warmth before this call.
func (al *AccessList) TouchSlot(addr types.Address, slot types.Hash) (addrWasWarm, slotWasWarm bool) {
	addrWasWarm = al.TouchAddress(addr)

	slots, ok := al.slots[addr]
	if !ok {
		slots = make(map[types.Hash]int)
		al.slots[addr] = slots
	}
	if _, ok := slots[slot]; ok {
		return addrWasWarm, true
	}
	slots[slot] = len(al.journal)
	al.journal = append(al.journal, accessListChange{kind: changeAddSlot, address: addr, slot: slot})
	return addrWasWarm, false
}

// Snapshot records the current journal length and returns an id usable with
// RevertToSnapshot.
func (al *AccessList) Snapshot() int {
	id := len(al.snapshotIDs)
	al.snapshotIDs = append(al.snapshotIDs, len(al.journal))
	return id
}

// RevertToSnapshot undoes every warming recorded after snapshot id.
// Pre-populated entries (journal index -1) are never undone.
func (al *AccessList) RevertToSnapshot(id int) {
	if id < 0 || id >= len(al.snapshotIDs) {
		return
	}
	journalLen := al.snapshotIDs[id]
	for i := len(al.journal) - 1; i >= journalLen; i-- {
		change := al.journal[i]
		switch change.kind {
		case changeAddSlot:
			if slots := al.slots[change.address]; slots != nil {
				if idx, ok := slots[change.slot]; ok && idx >= journalLen {
					delete(slots, change.slot)
				}
			}
		case changeAddAddress:
			if idx, ok := al.addresses[change.address]; ok && idx >= journalLen {
				delete(al.addresses, change.address)
			}
		}
	}
	al.journal = al.journal[:journalLen]
	al.snapshotIDs = al.snapshotIDs[:id]
}

// AddressAccessCost warms addr and returns the EIP-2929 surcharge to add on
// top of the opcode's warm constant gas: 0 if already warm, otherwise
// ColdAccountAccessCost-WarmStorageReadCost.
func (al *AccessList) AddressAccessCost(addr types.Address) uint64 {
	if al.TouchAddress(addr) {
		return 0
	}
	return ColdAccountAccessCost - WarmStorageReadCost
}

// SlotAccessCost warms addr+slot and returns the EIP-2929 surcharge: 0 if the
// slot was already warm, otherwise ColdSloadCost-WarmStorageReadCost.
func (al *AccessList) SlotAccessCost(addr types.Address, slot types.Hash) uint64 {
	_, slotWarm := al.TouchSlot(addr, slot)
	if slotWarm {
		return 0
	}
	return ColdSloadCost - WarmStorageReadCost
}
