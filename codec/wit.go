package codec

import (
	"fmt"
	"strings"
	"unicode"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/soprox-abi/internal/types"
)

// WITType maps a node onto the closest WIT type. Text becomes string,
// identifiers become list<u8>, arrays become list<T>, tuples become
// tuple<...> and structs become anonymous records.
func WITType(n *Node) wit.Type {
	return witType(n, "")
}

// WITRecord returns the layout as a named WIT record. Nested structs become
// records named after their parent and key.
func (l *Layout) WITRecord(name string) *wit.TypeDef {
	return witType(l.root, kebab(name)).(*wit.TypeDef)
}

func witType(n *Node, name string) wit.Type {
	switch n.Kind {
	case types.KindBool:
		return wit.Bool{}
	case types.KindU8:
		return wit.U8{}
	case types.KindI8:
		return wit.S8{}
	case types.KindU16:
		return wit.U16{}
	case types.KindI16:
		return wit.S16{}
	case types.KindU32:
		return wit.U32{}
	case types.KindI32:
		return wit.S32{}
	case types.KindU64:
		return wit.U64{}
	case types.KindI64:
		return wit.S64{}
	case types.KindChar:
		return wit.String{}
	case types.KindIdentifier:
		return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	case types.KindArray:
		return &wit.TypeDef{Kind: &wit.List{Type: witType(n.Elem, "")}}
	case types.KindTuple:
		elems := make([]wit.Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = witType(e, "")
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: elems}}
	default:
		fields := make([]wit.Field, len(n.Fields))
		for i, f := range n.Fields {
			child := ""
			if name != "" {
				child = name + "-" + kebab(f.Key)
			}
			fields[i] = wit.Field{Name: kebab(f.Key), Type: witType(f.Type, child)}
		}
		td := &wit.TypeDef{Kind: &wit.Record{Fields: fields}}
		if name != "" {
			td.Name = &name
		}
		return td
	}
}

// FormatWIT renders a record type definition and the named records it
// references, dependencies first.
func FormatWIT(td *wit.TypeDef) string {
	var b strings.Builder
	seen := make(map[*wit.TypeDef]bool)
	writeRecords(&b, td, seen)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeRecords(b *strings.Builder, td *wit.TypeDef, seen map[*wit.TypeDef]bool) {
	rec, ok := td.Kind.(*wit.Record)
	if !ok || seen[td] {
		return
	}
	seen[td] = true
	for _, f := range rec.Fields {
		if child, ok := f.Type.(*wit.TypeDef); ok && child.Name != nil {
			writeRecords(b, child, seen)
		}
	}
	name := "anonymous"
	if td.Name != nil {
		name = *td.Name
	}
	fmt.Fprintf(b, "record %s {\n", name)
	for _, f := range rec.Fields {
		fmt.Fprintf(b, "    %s: %s,\n", f.Name, witTypeString(f.Type))
	}
	b.WriteString("}\n")
}

func witTypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		switch k := v.Kind.(type) {
		case *wit.List:
			return "list<" + witTypeString(k.Type) + ">"
		case *wit.Tuple:
			parts := make([]string, len(k.Types))
			for i, e := range k.Types {
				parts[i] = witTypeString(e)
			}
			return "tuple<" + strings.Join(parts, ", ") + ">"
		case *wit.Record:
			return "record"
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// kebab converts snake_case or camelCase keys to WIT identifiers.
func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == ' ' || r == '.':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
