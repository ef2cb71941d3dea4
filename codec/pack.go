package codec

import (
	"github.com/wippyai/soprox-abi/codec/internal/abi"
	"github.com/wippyai/soprox-abi/errors"
)

// Item is one value to pack, with the node that encodes it.
type Item struct {
	Value any
	Type  *Node
}

// Slot names one value to unpack.
type Slot struct {
	Type *Node
	Key  string
}

// Pack encodes each item and concatenates the results in order. There is
// no header or padding between items.
func Pack(items ...Item) ([]byte, error) {
	total := 0
	for i, it := range items {
		if it.Type == nil {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Path(errors.Index(i)).
				Detail("item has no type").
				Build()
		}
		var ok bool
		if total, ok = abi.SafeAdd(total, it.Type.Space); !ok {
			return nil, errors.AllocationFailed(errors.PhaseEncode, 0)
		}
	}
	out := make([]byte, total)
	off := 0
	for i, it := range items {
		if err := EncodeTo(out[off:], it.Type, it.Value); err != nil {
			return nil, errors.WithPrefix(err, errors.Index(i))
		}
		off += it.Type.Space
	}
	return out, nil
}

// Unpack decodes consecutive slots from the front of data into a mapping.
// It fails with buffer_too_short when data is shorter than the slots need.
// Bytes past the last slot are ignored.
func Unpack(data []byte, slots ...Slot) (map[string]any, error) {
	out := make(map[string]any, len(slots))
	off := 0
	for _, s := range slots {
		if s.Type == nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
				Path(s.Key).
				Detail("slot has no type").
				Build()
		}
		if _, dup := out[s.Key]; dup {
			return nil, errors.DuplicateField(errors.PhaseDecode, []string{s.Key}, s.Key)
		}
		end := off + s.Type.Space
		if end > len(data) {
			return nil, errors.BufferTooShort(errors.PhaseDecode, []string{s.Key}, end, len(data))
		}
		v, err := decodeFrom(data[off:end], s.Type)
		if err != nil {
			return nil, errors.WithPrefix(err, s.Key)
		}
		out[s.Key] = v
		off = end
	}
	return out, nil
}
