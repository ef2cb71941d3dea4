package codec

import (
	"github.com/wippyai/soprox-abi/errors"
	"github.com/wippyai/soprox-abi/internal/types"
)

// Decode decodes data against n. Struct nodes require len(data) == n.Space
// and fail with buffer_size_mismatch otherwise. Other nodes read the first
// n.Space bytes and fail with buffer_too_short when fewer are available.
//
// Decoded values use canonical Go types: bool, string, uint8..uint64,
// int8..int64, address.Address, []any for arrays and tuples, and
// map[string]any for structs.
func Decode(n *Node, data []byte) (any, error) {
	if n.Kind == types.KindStruct {
		if len(data) != n.Space {
			return nil, errors.BufferSizeMismatch(errors.PhaseDecode, n.Space, len(data))
		}
	} else if len(data) < n.Space {
		return nil, errors.BufferTooShort(errors.PhaseDecode, nil, n.Space, len(data))
	}
	return decodeFrom(data[:n.Space], n)
}

func decodeFrom(src []byte, n *Node) (any, error) {
	switch n.Kind {
	case types.KindArray:
		return decodeArray(src, n)
	case types.KindTuple:
		return decodeTuple(src, n)
	case types.KindStruct:
		return decodeStruct(src, n)
	default:
		return decodeScalar(src, n)
	}
}

func decodeArray(src []byte, n *Node) ([]any, error) {
	out := make([]any, n.Len)
	w := n.Elem.Space
	for i := range out {
		v, err := decodeScalar(src[i*w:(i+1)*w], n.Elem)
		if err != nil {
			return nil, errors.WithPrefix(err, errors.Index(i))
		}
		out[i] = v
	}
	return out, nil
}

func decodeTuple(src []byte, n *Node) ([]any, error) {
	out := make([]any, len(n.Elems))
	off := 0
	for i, e := range n.Elems {
		v, err := decodeScalar(src[off:off+e.Space], e)
		if err != nil {
			return nil, errors.WithPrefix(err, errors.Index(i))
		}
		out[i] = v
		off += e.Space
	}
	return out, nil
}

func decodeStruct(src []byte, n *Node) (map[string]any, error) {
	out := make(map[string]any, len(n.Fields))
	for _, f := range n.Fields {
		v, err := decodeFrom(src[f.Offset:f.Offset+f.Type.Space], f.Type)
		if err != nil {
			return nil, errors.WithPrefix(err, f.Key)
		}
		out[f.Key] = v
	}
	return out, nil
}

// Zero returns the value that all-zero bytes decode to for n: scalar
// defaults, lists of defaults, and nested maps.
func Zero(n *Node) any {
	switch n.Kind {
	case types.KindArray:
		out := make([]any, n.Len)
		for i := range out {
			out[i] = scalarDefault(n.Elem)
		}
		return out
	case types.KindTuple:
		out := make([]any, len(n.Elems))
		for i, e := range n.Elems {
			out[i] = scalarDefault(e)
		}
		return out
	case types.KindStruct:
		out := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			out[f.Key] = Zero(f.Type)
		}
		return out
	default:
		return scalarDefault(n)
	}
}
