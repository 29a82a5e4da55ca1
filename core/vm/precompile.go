package vm

import "github.com/evmts/xvi-sub001/core/types"

// PrecompileFunc runs one precompiled contract's logic, returning its output
// and remaining gas or an error if gas ran out or input was malformed.
type PrecompileFunc func(input []byte, gas uint64) (ret []byte, remainingGas uint64, err error)

// PrecompileSet is a minimal Host-side helper mapping addresses 0x01..0x0a
// (and beyond, for forks that add more) to their implementations. The core
// itself never implements precompile bodies — ECRECOVER, SHA256, and the
// rest are host concerns — but a Host implementation can embed PrecompileSet
// to satisfy IsPrecompile/RunPrecompile with a plain address-keyed table.
type PrecompileSet struct {
	funcs map[types.Address]PrecompileFunc
}

// NewPrecompileSet returns an empty set; callers register addresses with Set.
func NewPrecompileSet() *PrecompileSet {
	return &PrecompileSet{funcs: make(map[types.Address]PrecompileFunc)}
}

// Set registers fn as the implementation for addr.
func (p *PrecompileSet) Set(addr types.Address, fn PrecompileFunc) {
	p.funcs[addr] = fn
}

// IsPrecompile reports whether addr has a registered implementation.
func (p *PrecompileSet) IsPrecompile(addr types.Address) bool {
	_, ok := p.funcs[addr]
	return ok
}

// Run invokes addr's implementation, or returns an error if none is
// registered.
func (p *PrecompileSet) Run(addr types.Address, input []byte, gas uint64) ([]byte, uint64, error) {
	fn, ok := p.funcs[addr]
	if !ok {
		return nil, 0, ErrInvalidOpcode
	}
	return fn(input, gas)
}
