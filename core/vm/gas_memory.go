package vm

import (
	"math"

	"github.com/holiman/uint256"
)

// memoryGasPerWord is the linear coefficient of the memory expansion formula.
const memoryGasPerWord = 3

// toWordSize rounds a byte size up to the nearest 32-byte word count.
// Saturates to the maximum representable word count instead of overflowing.
func toWordSize(size uint64) uint64 {
	if size > math.MaxUint64-31 {
		return math.MaxUint64/32 + 1
	}
	return (size + 31) / 32
}

// memoryGasCost returns the Yellow Paper quadratic cost for a memory
// of the given size in 32-byte words: C(w) = 3w + floor(w^2/512).
// Returns (cost, true), or (0, false) on overflow — callers must translate
// an overflow into an out-of-gas failure (the gas-exhausting sentinel),
// never propagate it as a panic or silently wrap.
func memoryGasCost(words uint64) (uint64, bool) {
	if words == 0 {
		return 0, true
	}
	if words > math.MaxUint64/words {
		return 0, false
	}
	quadratic := (words * words) / 512
	linear := words * memoryGasPerWord
	total := linear + quadratic
	if total < linear {
		return 0, false
	}
	return total, true
}

// memExpander tracks memory expansion state for one Frame so expansion cost
// is always computed incrementally against the last charged size.
type memExpander struct {
	words uint64
	cost  uint64
}

// delta returns the incremental gas required to grow memory to at least
// newSize bytes, and the new word count memory would occupy. It does not
// mutate the expander or the Frame's Memory; the caller charges gas and
// calls commit once the charge succeeds.
func (e *memExpander) delta(newSize uint64) (gas uint64, words uint64, ok bool) {
	if newSize == 0 {
		return 0, e.words, true
	}
	newWords := toWordSize(newSize)
	if newWords <= e.words {
		return 0, e.words, true
	}
	newCost, ok := memoryGasCost(newWords)
	if !ok {
		return 0, 0, false
	}
	if newCost < e.cost {
		return 0, 0, false
	}
	return newCost - e.cost, newWords, true
}

// commit records that words/cost have been charged and the Memory resized.
func (e *memExpander) commit(words, cost uint64) {
	e.words = words
	e.cost = cost
}

// sizeBytes returns the byte-aligned size backing the current word count.
func (e *memExpander) sizeBytes() uint64 { return e.words * 32 }

// regionEnd returns the byte offset one past [offset, offset+size), and false
// if offset/size cannot be represented as a plain uint64 end without
// overflow — which must be treated as a gas-exhausting sentinel, never a
// panic. A zero size always succeeds with end 0, regardless of how large
// offset is, since a zero-length region never touches memory.
func regionEnd(offset, size *uint256.Int) (end uint64, ok bool) {
	if size.IsZero() {
		return 0, true
	}
	if !offset.IsUint64() || !size.IsUint64() {
		return 0, false
	}
	o, s := offset.Uint64(), size.Uint64()
	end = o + s
	if end < o {
		return 0, false
	}
	return end, true
}

// memExpansionGas returns the incremental gas to expand a frame's memory to
// cover [offset, offset+size), without mutating any state. Call
// commitMemExpansion after the charge succeeds to apply it.
func memExpansionGas(fr *Frame, offset, size *uint256.Int) (gas, words uint64, ok bool) {
	if size.IsZero() {
		return 0, fr.memExp.words, true
	}
	end, ok := regionEnd(offset, size)
	if !ok {
		return 0, 0, false
	}
	return fr.memExp.delta(end)
}

// commitMemExpansion records a successful expansion charge and grows the
// frame's backing memory store to match.
func commitMemExpansion(fr *Frame, words, gas uint64) {
	fr.memExp.commit(words, fr.memExp.cost+gas)
	fr.Memory.Resize(words * 32)
}
