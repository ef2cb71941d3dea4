package codec

import (
	"fmt"
	"sync"

	"github.com/wippyai/soprox-abi/codec/internal/abi"
	"github.com/wippyai/soprox-abi/errors"
	"github.com/wippyai/soprox-abi/internal/types"
)

// InstructionSet dispatches instruction data on a leading u8 selector. Every
// member layout declares the selector as its first field.
type InstructionSet struct {
	byName map[string]instruction
	byTag  map[uint8]instruction
	names  []string
	mu     sync.RWMutex
}

type instruction struct {
	layout *Layout
	name   string
	tag    uint8
}

func NewInstructionSet() *InstructionSet {
	return &InstructionSet{
		byName: make(map[string]instruction),
		byTag:  make(map[uint8]instruction),
	}
}

// Add registers layout under name and tag.
func (s *InstructionSet) Add(name string, tag uint8, layout *Layout) error {
	root := layout.Root()
	if len(root.Fields) == 0 || root.Fields[0].Type.Kind != types.KindU8 {
		return errors.New(errors.PhaseCompile, errors.KindSchemaSyntax).
			Path(name).
			Detail("instruction layout must start with a u8 selector").
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byName[name]; dup {
		return errors.DuplicateField(errors.PhaseCompile, []string{name}, name)
	}
	if prev, dup := s.byTag[tag]; dup {
		return errors.New(errors.PhaseCompile, errors.KindDuplicateField).
			Path(name).
			Value(tag).
			Detail("tag %d already used by %q", tag, prev.name).
			Build()
	}
	in := instruction{layout: layout, name: name, tag: tag}
	s.byName[name] = in
	s.byTag[tag] = in
	s.names = append(s.names, name)
	return nil
}

// MustAdd is like Add but panics on error.
func (s *InstructionSet) MustAdd(name string, tag uint8, layout *Layout) *InstructionSet {
	if err := s.Add(name, tag, layout); err != nil {
		panic(err)
	}
	return s
}

// Names lists registered instructions in registration order.
func (s *InstructionSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

// Layout returns the layout registered under name.
func (s *InstructionSet) Layout(name string) (*Layout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.byName[name]
	return in.layout, ok
}

// Encode fills the selector with the instruction's tag and encodes values.
// A caller-supplied selector must equal the tag.
func (s *InstructionSet) Encode(name string, values map[string]any) ([]byte, error) {
	s.mu.RLock()
	in, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound(errors.PhaseEncode, "instruction", name)
	}

	selector := in.layout.Root().Fields[0].Key
	merged := make(map[string]any, len(values)+1)
	for k, v := range values {
		merged[k] = v
	}
	if v, present := values[selector]; present && v != nil {
		tag, _, ok := abi.CoerceUnsigned(v, 255)
		if !ok || uint8(tag) != in.tag {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Path(selector).
				Value(v).
				Detail("selector %v does not match tag %d of %q", v, in.tag, name).
				Build()
		}
	}
	merged[selector] = in.tag
	return in.layout.Encode(merged)
}

// Decode dispatches on data[0] and decodes the whole buffer with the
// matching layout, returning the instruction name and its values.
func (s *InstructionSet) Decode(data []byte) (string, map[string]any, error) {
	if len(data) == 0 {
		return "", nil, errors.BufferTooShort(errors.PhaseDecode, nil, 1, 0)
	}
	s.mu.RLock()
	in, ok := s.byTag[data[0]]
	s.mu.RUnlock()
	if !ok {
		return "", nil, errors.NotFound(errors.PhaseDecode, "instruction tag", fmt.Sprint(data[0]))
	}
	values, err := in.layout.Decode(data)
	if err != nil {
		return "", nil, errors.WithPrefix(err, in.name)
	}
	return in.name, values, nil
}
