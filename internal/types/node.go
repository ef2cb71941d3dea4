package types

import (
	"strconv"
	"strings"
)

// Node is a compiled, immutable layout. Width is set for scalars, Elem and
// Len for arrays, Elems for tuples and Fields for structs. Space is the
// total byte span.
type Node struct {
	Elem   *Node
	Elems  []*Node
	Fields []Field
	Width  int
	Len    int
	Space  int
	Kind   Kind
}

// Field is one member of a struct node. Offset is relative to the start
// of the enclosing struct.
type Field struct {
	Type   *Node
	Key    string
	Offset int
}

// NewScalar builds a scalar node. A non-positive width takes the kind's default.
func NewScalar(kind Kind, width int) *Node {
	if width <= 0 {
		width = kind.Width()
	}
	return &Node{Kind: kind, Width: width, Space: width}
}

func NewArray(elem *Node, n int) *Node {
	return &Node{Kind: KindArray, Elem: elem, Len: n, Space: elem.Space * n}
}

func NewTuple(elems []*Node) *Node {
	space := 0
	for _, e := range elems {
		space += e.Space
	}
	return &Node{Kind: KindTuple, Elems: elems, Len: len(elems), Space: space}
}

// NewStruct lays fields out back to back in declaration order.
func NewStruct(fields []Field) *Node {
	off := 0
	for i := range fields {
		fields[i].Offset = off
		off += fields[i].Type.Space
	}
	return &Node{Kind: KindStruct, Fields: fields, Space: off}
}

// Field returns the struct member with the given key.
func (n *Node) Field(key string) (Field, bool) {
	for _, f := range n.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Depth is the struct nesting depth, 0 for non-struct nodes.
func (n *Node) Depth() int {
	if n.Kind != KindStruct {
		return 0
	}
	d := 0
	for _, f := range n.Fields {
		if fd := f.Type.Depth(); fd > d {
			d = fd
		}
	}
	return d + 1
}

// String renders the node in descriptor syntax.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Kind {
	case KindChar:
		b.WriteString("char")
		if n.Width != DefaultCharWidth {
			b.WriteByte('(')
			b.WriteString(strconv.Itoa(n.Width))
			b.WriteByte(')')
		}
	case KindArray:
		b.WriteByte('[')
		n.Elem.write(b)
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(n.Len))
		b.WriteByte(']')
	case KindTuple:
		b.WriteByte('(')
		for i, e := range n.Elems {
			if i > 0 {
				b.WriteByte(';')
			}
			e.write(b)
		}
		b.WriteByte(')')
	case KindStruct:
		b.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(f.Key)
			b.WriteByte(':')
			f.Type.write(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString(n.Kind.String())
	}
}
