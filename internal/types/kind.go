package types

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindChar
	KindIdentifier
	KindArray
	KindTuple
	KindStruct
)

const (
	// DefaultCharWidth is the text window used by a bare "char".
	DefaultCharWidth = 4
	IdentifierWidth  = 32
)

var kindNames = [...]string{
	KindBool:       "bool",
	KindU8:         "u8",
	KindI8:         "i8",
	KindU16:        "u16",
	KindI16:        "i16",
	KindU32:        "u32",
	KindI32:        "i32",
	KindU64:        "u64",
	KindI64:        "i64",
	KindChar:       "char",
	KindIdentifier: "identifier",
	KindArray:      "array",
	KindTuple:      "tuple",
	KindStruct:     "struct",
}

var kindWidths = [...]int{
	KindBool:       1,
	KindU8:         1,
	KindI8:         1,
	KindU16:        2,
	KindI16:        2,
	KindU32:        4,
	KindI32:        4,
	KindU64:        8,
	KindI64:        8,
	KindChar:       DefaultCharWidth,
	KindIdentifier: IdentifierWidth,
}

// scalarNames is the closed registry of scalar type names, aliases included.
var scalarNames = map[string]Kind{
	"bool":       KindBool,
	"u8":         KindU8,
	"i8":         KindI8,
	"u16":        KindU16,
	"i16":        KindI16,
	"u32":        KindU32,
	"i32":        KindI32,
	"u64":        KindU64,
	"i64":        KindI64,
	"char":       KindChar,
	"identifier": KindIdentifier,
	"pub":        KindIdentifier,
	"pubkey":     KindIdentifier,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsScalar() bool {
	return k <= KindIdentifier
}

func (k Kind) IsInteger() bool {
	return k >= KindU8 && k <= KindI64
}

func (k Kind) IsSigned() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	}
	return false
}

// Width returns the default byte width of a scalar kind, 0 for composites.
func (k Kind) Width() int {
	if int(k) < len(kindWidths) {
		return kindWidths[k]
	}
	return 0
}

// LookupScalar resolves a scalar name or alias.
func LookupScalar(name string) (Kind, bool) {
	k, ok := scalarNames[name]
	return k, ok
}

// ScalarNames lists the canonical scalar names in declaration order.
func ScalarNames() []string {
	names := make([]string, 0, int(KindIdentifier)+1)
	for k := KindBool; k <= KindIdentifier; k++ {
		names = append(names, k.String())
	}
	return names
}
