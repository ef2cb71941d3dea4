package codec

import (
	"reflect"

	"github.com/wippyai/soprox-abi/codec/internal/abi"
	"github.com/wippyai/soprox-abi/errors"
	"github.com/wippyai/soprox-abi/internal/types"
)

// Encode encodes v against n and returns exactly n.Space bytes.
//
// Accepted values: bool; any Go integer or integral float for integer
// kinds; string for char; address.Address, [32]byte, a 32-byte slice or
// base58 text for identifier; any slice or array for arrays and tuples;
// map[string]any (or any string-keyed map) for structs. A nil scalar, or a
// scalar key missing from a struct map, encodes as the default value.
func Encode(n *Node, v any) ([]byte, error) {
	out := make([]byte, n.Space)
	if err := EncodeTo(out, n, v); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeTo encodes v into dst, which must hold at least n.Space bytes.
// Bytes of dst that belong to absent scalars are zeroed.
func EncodeTo(dst []byte, n *Node, v any) error {
	if len(dst) < n.Space {
		return errors.BufferTooShort(errors.PhaseEncode, nil, n.Space, len(dst))
	}
	dst = dst[:n.Space]
	clear(dst)
	if n.Kind == types.KindStruct && v == nil {
		v = map[string]any{}
	}
	if err := encodeInto(dst, n, v); err != nil {
		clear(dst)
		return err
	}
	return nil
}

func encodeInto(dst []byte, n *Node, v any) error {
	switch n.Kind {
	case types.KindArray:
		return encodeArray(dst, n, v)
	case types.KindTuple:
		return encodeTuple(dst, n, v)
	case types.KindStruct:
		return encodeStruct(dst, n, v)
	default:
		return encodeScalar(dst[:n.Width], n, v)
	}
}

func encodeArray(dst []byte, n *Node, v any) error {
	list, err := listOf(v, n)
	if err != nil {
		return err
	}
	if list.Len() != n.Len {
		return errors.LengthMismatch(errors.PhaseEncode, nil, list.Len(), n.Len)
	}
	w := n.Elem.Space
	for i := 0; i < n.Len; i++ {
		if err := encodeScalar(dst[i*w:(i+1)*w], n.Elem, list.Index(i)); err != nil {
			return errors.WithPrefix(err, errors.Index(i))
		}
	}
	return nil
}

func encodeTuple(dst []byte, n *Node, v any) error {
	list, err := listOf(v, n)
	if err != nil {
		return err
	}
	if list.Len() != len(n.Elems) {
		return errors.LengthMismatch(errors.PhaseEncode, nil, list.Len(), len(n.Elems))
	}
	off := 0
	for i, e := range n.Elems {
		if err := encodeScalar(dst[off:off+e.Space], e, list.Index(i)); err != nil {
			return errors.WithPrefix(err, errors.Index(i))
		}
		off += e.Space
	}
	return nil
}

func encodeStruct(dst []byte, n *Node, v any) error {
	m, err := mapOf(v, n)
	if err != nil {
		return err
	}
	for _, f := range n.Fields {
		val, present := m.Get(f.Key)
		if !present || val == nil {
			if f.Type.Kind.IsScalar() {
				continue
			}
			return errors.FieldMissing(errors.PhaseEncode, []string{f.Key}, f.Key)
		}
		if err := encodeInto(dst[f.Offset:f.Offset+f.Type.Space], f.Type, val); err != nil {
			return errors.WithPrefix(err, f.Key)
		}
	}
	return nil
}

// list gives indexed access to []any or any reflected slice or array.
type list struct {
	items []any
	rv    reflect.Value
}

func (l list) Len() int {
	if l.items != nil {
		return len(l.items)
	}
	return l.rv.Len()
}

func (l list) Index(i int) any {
	if l.items != nil {
		return l.items[i]
	}
	return l.rv.Index(i).Interface()
}

func listOf(v any, n *Node) (list, error) {
	if items, ok := v.([]any); ok {
		if items == nil {
			items = []any{}
		}
		return list{items: items}, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return list{items: []any{}}, nil
		}
		return list{rv: rv}, nil
	}
	return list{}, errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), n.String())
}

// record gives keyed access to map[string]any or any string-keyed map.
type record struct {
	m  map[string]any
	rv reflect.Value
}

func (r record) Get(key string) (any, bool) {
	if r.m != nil {
		v, ok := r.m[key]
		return v, ok
	}
	mv := r.rv.MapIndex(reflect.ValueOf(key).Convert(r.rv.Type().Key()))
	if !mv.IsValid() {
		return nil, false
	}
	return mv.Interface(), true
}

func mapOf(v any, n *Node) (record, error) {
	if m, ok := v.(map[string]any); ok {
		if m == nil {
			m = map[string]any{}
		}
		return record{m: m}, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		return record{rv: rv}, nil
	}
	return record{}, errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), n.String())
}
