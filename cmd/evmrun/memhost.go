package main

import (
	"github.com/holiman/uint256"

	"github.com/evmts/xvi-sub001/core/types"
	"github.com/evmts/xvi-sub001/core/vm"
	"github.com/evmts/xvi-sub001/crypto"
)

// account holds one address's in-memory state.
type account struct {
	balance *uint256.Int
	nonce   uint64
	code    []byte
	storage map[types.Hash]types.Hash
}

// journalEntry undoes one mutation on RevertToSnapshot.
type journalEntry func(*memHost)

// memHost is a minimal in-memory vm.Host: no trie, no persistence, just a
// map of accounts and an undo journal, enough to drive one transaction
// through the interpreter. Grounded in the Host interface's own contract
// rather than any on-disk state layer, which is explicitly out of scope.
type memHost struct {
	accounts    map[types.Address]*account
	committed   map[types.Address]map[types.Hash]types.Hash
	blockHashes map[uint64]types.Hash
	precompiles *vm.PrecompileSet
	journal     []journalEntry
}

func newMemHost() *memHost {
	return &memHost{
		accounts:    make(map[types.Address]*account),
		committed:   make(map[types.Address]map[types.Hash]types.Hash),
		blockHashes: make(map[uint64]types.Hash),
		precompiles: vm.NewPrecompileSet(),
	}
}

func (h *memHost) acct(addr types.Address) *account {
	a, ok := h.accounts[addr]
	if !ok {
		a = &account{balance: new(uint256.Int), storage: make(map[types.Hash]types.Hash)}
		h.accounts[addr] = a
	}
	return a
}

func (h *memHost) GetBalance(addr types.Address) *uint256.Int { return new(uint256.Int).Set(h.acct(addr).balance) }
func (h *memHost) GetNonce(addr types.Address) uint64          { return h.acct(addr).nonce }
func (h *memHost) GetCode(addr types.Address) []byte           { return h.acct(addr).code }
func (h *memHost) GetCodeSize(addr types.Address) int          { return len(h.acct(addr).code) }

func (h *memHost) GetCodeHash(addr types.Address) types.Hash {
	code := h.acct(addr).code
	if len(code) == 0 {
		return types.EmptyCodeHash
	}
	return types.BytesToHash(crypto.Keccak256(code))
}

func (h *memHost) StorageGet(addr types.Address, key types.Hash) types.Hash {
	return h.acct(addr).storage[key]
}

func (h *memHost) StorageSet(addr types.Address, key, value types.Hash) {
	a := h.acct(addr)
	prev := a.storage[key]
	h.journal = append(h.journal, func(hh *memHost) { hh.acct(addr).storage[key] = prev })
	a.storage[key] = value
}

func (h *memHost) GetCommittedStorage(addr types.Address, key types.Hash) types.Hash {
	slots, ok := h.committed[addr]
	if !ok {
		return types.Hash{}
	}
	return slots[key]
}

func (h *memHost) SetBalance(addr types.Address, amount *uint256.Int) {
	a := h.acct(addr)
	prev := new(uint256.Int).Set(a.balance)
	h.journal = append(h.journal, func(hh *memHost) { hh.acct(addr).balance = prev })
	a.balance = new(uint256.Int).Set(amount)
}

func (h *memHost) SetNonce(addr types.Address, nonce uint64) {
	a := h.acct(addr)
	prev := a.nonce
	h.journal = append(h.journal, func(hh *memHost) { hh.acct(addr).nonce = prev })
	a.nonce = nonce
}

func (h *memHost) SetCode(addr types.Address, code []byte) {
	a := h.acct(addr)
	prev := a.code
	h.journal = append(h.journal, func(hh *memHost) { hh.acct(addr).code = prev })
	a.code = code
}

func (h *memHost) AccountExists(addr types.Address) bool {
	a, ok := h.accounts[addr]
	return ok && (a.nonce != 0 || len(a.code) != 0 || !a.balance.IsZero())
}

func (h *memHost) Empty(addr types.Address) bool {
	a, ok := h.accounts[addr]
	if !ok {
		return true
	}
	return a.nonce == 0 && a.balance.IsZero() && len(a.code) == 0
}

func (h *memHost) GetBlockHash(number uint64) types.Hash { return h.blockHashes[number] }

func (h *memHost) Snapshot() int { return len(h.journal) }

func (h *memHost) RevertToSnapshot(id int) {
	for i := len(h.journal) - 1; i >= id; i-- {
		h.journal[i](h)
	}
	h.journal = h.journal[:id]
}

func (h *memHost) IsPrecompile(addr types.Address) bool { return h.precompiles.IsPrecompile(addr) }

func (h *memHost) RunPrecompile(addr types.Address, input []byte, gas uint64) ([]byte, uint64, error) {
	return h.precompiles.Run(addr, input, gas)
}
