package codec

import (
	soproxabi "github.com/wippyai/soprox-abi"
	"github.com/wippyai/soprox-abi/errors"
)

// EncodeToMemory encodes values and writes them at addr. Nothing is written
// when encoding fails.
func (l *Layout) EncodeToMemory(values map[string]any, addr uint32, mem soproxabi.Memory) error {
	buf, err := l.Encode(values)
	if err != nil {
		return err
	}
	if err := mem.Write(addr, buf); err != nil {
		return errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			Value(addr).
			Cause(err).
			Detail("write %d bytes at %d", len(buf), addr).
			Build()
	}
	return nil
}

// DecodeFromMemory reads Space bytes at addr and decodes them.
func (l *Layout) DecodeFromMemory(addr uint32, mem soproxabi.Memory) (map[string]any, error) {
	buf, err := mem.Read(addr, uint32(l.root.Space))
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Value(addr).
			Cause(err).
			Detail("read %d bytes at %d", l.root.Space, addr).
			Build()
	}
	return l.Decode(buf)
}
