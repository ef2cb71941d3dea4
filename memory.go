package soproxabi

import "github.com/wippyai/soprox-abi/errors"

// Memory is a byte-addressable region, typically wasm linear memory.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// MemorySizer provides the current size of a memory region in bytes.
type MemorySizer interface {
	Size() uint32
}

// Buffer is a Memory backed by a byte slice. It does not grow.
type Buffer []byte

func (b Buffer) Read(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(b)) {
		return nil, errors.OutOfBounds(errors.PhaseRuntime, offset, length, b.Size())
	}
	out := make([]byte, length)
	copy(out, b[offset:end])
	return out, nil
}

func (b Buffer) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(b)) {
		return errors.OutOfBounds(errors.PhaseRuntime, offset, uint32(len(data)), b.Size())
	}
	copy(b[offset:end], data)
	return nil
}

func (b Buffer) Size() uint32 {
	return uint32(len(b))
}
