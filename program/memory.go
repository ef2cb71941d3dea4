package program

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/soprox-abi/errors"
)

const pageSize = 65536

// Memory wraps a guest's linear memory. It implements soproxabi.Memory and
// soproxabi.MemorySizer.
type Memory struct {
	mem api.Memory
}

func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseRuntime, offset, length, m.mem.Size())
	}
	return data, nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseRuntime, offset, uint32(len(data)), m.mem.Size())
	}
	return nil
}

func (m *Memory) Size() uint32 {
	return m.mem.Size()
}

// ensure grows memory until it holds at least size bytes.
func (m *Memory) ensure(size uint64) error {
	have := uint64(m.mem.Size())
	if size <= have {
		return nil
	}
	pages := (size - have + pageSize - 1) / pageSize
	if pages > 1<<16 {
		return allocationError(size)
	}
	if _, ok := m.mem.Grow(uint32(pages)); !ok {
		return allocationError(size)
	}
	return nil
}
