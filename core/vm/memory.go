package vm

import "github.com/holiman/uint256"

// Memory implements the EVM's byte-addressable, word-aligned memory region.
// A Frame owns its Memory exclusively. Reads of never-written locations
// observe zero; the backing store only grows, it never shrinks mid-frame.
type Memory struct {
	store []byte
}

// NewMemory returns a new empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Len returns the current size of memory in bytes (always a multiple of 32,
// except for the initial empty state).
func (m *Memory) Len() int { return len(m.store) }

// Resize grows memory to exactly size bytes if it is currently smaller.
// The caller must have already charged the expansion gas returned by the
// memory-expansion cost formula; Resize itself never charges gas. size must
// already be word-aligned.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	grown := make([]byte, size)
	copy(grown, m.store)
	m.store = grown
}

// Set copies value into memory at [offset, offset+size). The region must lie
// within the current backing store; the caller resizes first.
func (m *Memory) Set(offset, size uint64, value []byte) error {
	if size == 0 {
		return nil
	}
	if offset+size > uint64(len(m.store)) || offset+size < offset {
		return ErrOutOfBounds
	}
	copy(m.store[offset:offset+size], value)
	return nil
}

// Set32 writes a 256-bit word at offset, big-endian, zero-padded. The region
// must lie within the current backing store.
func (m *Memory) Set32(offset uint64, val *uint256.Int) error {
	if offset+32 > uint64(len(m.store)) || offset+32 < offset {
		return ErrOutOfBounds
	}
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
	return nil
}

// SetByte writes a single byte at offset (MSTORE8).
func (m *Memory) SetByte(offset uint64, b byte) error {
	if offset >= uint64(len(m.store)) {
		return ErrOutOfBounds
	}
	m.store[offset] = b
	return nil
}

// Get returns a copy of memory at [offset, offset+size). Bytes beyond the
// backing store (but within a size the caller already validated via the
// charged expansion) read as zero.
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	out := make([]byte, size)
	if offset >= uint64(len(m.store)) {
		return out
	}
	end := offset + size
	if end > uint64(len(m.store)) {
		end = uint64(len(m.store))
	}
	copy(out, m.store[offset:end])
	return out
}

// GetPtr returns a direct slice reference to memory at [offset, offset+size).
// The region must already be within the backing store (resized by the
// caller). The returned slice aliases Memory's storage and must not be
// retained past the current opcode.
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// Copy performs an MCOPY-style copy within memory, safe for overlapping
// regions (Go's copy uses memmove semantics). Both regions must already be
// within the backing store.
func (m *Memory) Copy(dst, src, size uint64) error {
	if size == 0 {
		return nil
	}
	n := uint64(len(m.store))
	if dst+size > n || src+size > n || dst+size < dst || src+size < src {
		return ErrOutOfBounds
	}
	copy(m.store[dst:dst+size], m.store[src:src+size])
	return nil
}

// Data returns the full backing slice.
func (m *Memory) Data() []byte { return m.store }
