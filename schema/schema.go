// Package schema describes record layouts before compilation.
//
// A Schema is an ordered list of fields. Each field carries exactly one Type:
// a Scalar, an Array of one scalar, a Tuple of scalars, or a nested Struct.
// Schemas are usually written once, either in Go:
//
//	token := schema.New(
//		schema.Of("total_supply", "u64"),
//		schema.Of("decimals", "u8"),
//		schema.Field{Key: "initialized", Type: schema.Bool},
//	)
//
// or as YAML documents (see Load). The codec package compiles a Schema into
// an immutable layout.
package schema

import (
	"strconv"
	"strings"

	"github.com/wippyai/soprox-abi/internal/types"
)

// Type is one of Scalar, Array, Tuple or Struct.
type Type interface {
	String() string
	isType()
}

// Scalar names a fixed-width primitive. Width is only meaningful for char,
// where zero selects the default 4-byte window.
type Scalar struct {
	Name  string
	Width int
}

// Array is a fixed-length run of one scalar type.
type Array struct {
	Elem Scalar
	Len  int
}

// Tuple is an ordered list of scalar types.
type Tuple struct {
	Elems []Scalar
}

// Struct is a nested record.
type Struct struct {
	Fields Schema
}

func (Scalar) isType() {}
func (Array) isType()  {}
func (Tuple) isType()  {}
func (Struct) isType() {}

// Predeclared scalars.
var (
	Bool       = Scalar{Name: "bool"}
	U8         = Scalar{Name: "u8"}
	U16        = Scalar{Name: "u16"}
	U32        = Scalar{Name: "u32"}
	U64        = Scalar{Name: "u64"}
	I8         = Scalar{Name: "i8"}
	I16        = Scalar{Name: "i16"}
	I32        = Scalar{Name: "i32"}
	I64        = Scalar{Name: "i64"}
	Identifier = Scalar{Name: "identifier"}
)

// Char returns a text scalar with a window of w bytes.
func Char(w int) Scalar {
	return Scalar{Name: "char", Width: w}
}

// ArrayOf returns an array of n elements.
func ArrayOf(elem Scalar, n int) Array {
	return Array{Elem: elem, Len: n}
}

// TupleOf returns a tuple of the given scalars.
func TupleOf(elems ...Scalar) Tuple {
	return Tuple{Elems: elems}
}

func (s Scalar) String() string {
	if s.Name == "char" && s.Width > 0 && s.Width != types.DefaultCharWidth {
		return "char(" + strconv.Itoa(s.Width) + ")"
	}
	return s.Name
}

func (a Array) String() string {
	return "[" + a.Elem.String() + ";" + strconv.Itoa(a.Len) + "]"
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ";") + ")"
}

func (s Struct) String() string {
	return s.Fields.String()
}

// Field is a keyed member of a schema.
type Field struct {
	Type Type
	Key  string
}

// Schema is an ordered list of fields.
type Schema []Field

// New builds a schema from fields.
func New(fields ...Field) Schema {
	return Schema(fields)
}

// Of builds a field from a descriptor string and panics if it does not parse.
func Of(key, desc string) Field {
	return Field{Key: key, Type: MustParse(desc)}
}

// Nested builds a struct field.
func Nested(key string, fields ...Field) Field {
	return Field{Key: key, Type: Struct{Fields: fields}}
}

// Keys returns the top-level field keys in order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}

func (s Schema) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(f.Key)
		b.WriteByte(':')
		if f.Type == nil {
			b.WriteString("?")
			continue
		}
		b.WriteString(f.Type.String())
	}
	b.WriteByte('}')
	return b.String()
}
