package codec

import (
	"github.com/wippyai/soprox-abi/errors"
	"github.com/wippyai/soprox-abi/internal/types"
	"github.com/wippyai/soprox-abi/schema"
)

// Layout is a compiled struct schema. It is immutable and safe for
// concurrent use.
type Layout struct {
	root   *Node
	schema schema.Schema
	fields []FieldInfo
}

// FieldInfo describes one field of a layout, nested members included.
// Offset is absolute from the start of the encoded record.
type FieldInfo struct {
	Path   string
	Type   string
	Offset int
	Space  int
	Depth  int
	Kind   Kind
}

func newLayout(root *Node, s schema.Schema) *Layout {
	l := &Layout{root: root, schema: s}
	l.fields = flatten(nil, root, "", 0, 0)
	return l
}

func flatten(out []FieldInfo, n *Node, prefix string, base, depth int) []FieldInfo {
	for _, f := range n.Fields {
		path := f.Key
		if prefix != "" {
			path = prefix + "." + f.Key
		}
		out = append(out, FieldInfo{
			Path:   path,
			Type:   f.Type.String(),
			Offset: base + f.Offset,
			Space:  f.Type.Space,
			Depth:  depth,
			Kind:   f.Type.Kind,
		})
		if f.Type.Kind == types.KindStruct {
			out = flatten(out, f.Type, path, base+f.Offset, depth+1)
		}
	}
	return out
}

// Space is the total byte span of an encoded record.
func (l *Layout) Space() int {
	return l.root.Space
}

// Root returns the compiled struct node.
func (l *Layout) Root() *Node {
	return l.root
}

// Schema returns the schema the layout was compiled from.
func (l *Layout) Schema() schema.Schema {
	return l.schema
}

// Fields lists every field in declaration order, depth first.
func (l *Layout) Fields() []FieldInfo {
	out := make([]FieldInfo, len(l.fields))
	copy(out, l.fields)
	return out
}

// Lookup resolves a field path to its node and absolute offset.
func (l *Layout) Lookup(path ...string) (*Node, int, error) {
	n, off := l.root, 0
	for i, key := range path {
		if n.Kind != types.KindStruct {
			return nil, 0, errors.NotFound(errors.PhaseDecode, "field", errors.FormatPath(path[:i+1]))
		}
		f, ok := n.Field(key)
		if !ok {
			return nil, 0, errors.NotFound(errors.PhaseDecode, "field", errors.FormatPath(path[:i+1]))
		}
		n, off = f.Type, off+f.Offset
	}
	return n, off, nil
}

// Zero returns the default value mapping. Encoding it yields all zero bytes.
func (l *Layout) Zero() map[string]any {
	return Zero(l.root).(map[string]any)
}

// Encode encodes values into a new buffer of exactly Space bytes.
func (l *Layout) Encode(values map[string]any) ([]byte, error) {
	out := make([]byte, l.root.Space)
	if err := l.EncodeTo(out, values); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeTo encodes values into dst[:Space].
func (l *Layout) EncodeTo(dst []byte, values map[string]any) error {
	if values == nil {
		values = map[string]any{}
	}
	return EncodeTo(dst, l.root, values)
}

// Decode decodes a buffer of exactly Space bytes.
func (l *Layout) Decode(data []byte) (map[string]any, error) {
	if len(data) != l.root.Space {
		return nil, errors.BufferSizeMismatch(errors.PhaseDecode, l.root.Space, len(data))
	}
	return decodeStruct(data, l.root)
}

// DecodeField decodes a single field of an encoded record without decoding
// the rest. data must still be exactly Space bytes.
func (l *Layout) DecodeField(data []byte, path ...string) (any, error) {
	if len(data) != l.root.Space {
		return nil, errors.BufferSizeMismatch(errors.PhaseDecode, l.root.Space, len(data))
	}
	n, off, err := l.Lookup(path...)
	if err != nil {
		return nil, err
	}
	v, err := decodeFrom(data[off:off+n.Space], n)
	if err != nil {
		return nil, errors.WithPrefix(err, path...)
	}
	return v, nil
}

func (l *Layout) String() string {
	return l.root.String()
}
