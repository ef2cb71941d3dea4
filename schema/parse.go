package schema

import (
	"strconv"
	"strings"

	"github.com/wippyai/soprox-abi/errors"
	"github.com/wippyai/soprox-abi/internal/types"
)

// Parse reads a type descriptor:
//
//	u64            scalar
//	char(16)       text window of 16 bytes
//	[u8;3]         array of 3 u8
//	(u8;i16;bool)  tuple
//
// Whitespace around tokens is ignored. Malformed input fails with a
// schema_syntax error; an unregistered scalar name fails with unknown_type.
func Parse(desc string) (Type, error) {
	s := strings.TrimSpace(desc)
	switch {
	case s == "":
		return nil, errors.SchemaSyntax(desc, 0, "empty type descriptor")
	case s[0] == '[':
		return parseArray(desc, s)
	case s[0] == '(':
		return parseTuple(desc, s)
	default:
		return parseScalar(desc, s)
	}
}

// MustParse is like Parse but panics on error.
func MustParse(desc string) Type {
	t, err := Parse(desc)
	if err != nil {
		panic(err)
	}
	return t
}

func parseArray(desc, s string) (Type, error) {
	if s[len(s)-1] != ']' {
		return nil, errors.SchemaSyntax(desc, len(desc), "array descriptor must end with ']'")
	}
	elemText, lenText, ok := strings.Cut(s[1:len(s)-1], ";")
	if !ok {
		return nil, errors.SchemaSyntax(desc, 1, "array descriptor needs '[elem;N]'")
	}
	if strings.Contains(lenText, ";") {
		return nil, errors.SchemaSyntax(desc, strings.LastIndex(desc, ";"), "array descriptor has more than one ';'")
	}
	elem, err := parseScalar(desc, strings.TrimSpace(elemText))
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(lenText))
	if err != nil || n <= 0 {
		return nil, errors.SchemaSyntax(desc, strings.Index(desc, ";")+1, "array length must be a positive integer")
	}
	return Array{Elem: elem, Len: n}, nil
}

func parseTuple(desc, s string) (Type, error) {
	if s[len(s)-1] != ')' {
		return nil, errors.SchemaSyntax(desc, len(desc), "tuple descriptor must end with ')'")
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, errors.SchemaSyntax(desc, 1, "tuple descriptor needs at least one element")
	}
	parts := strings.Split(body, ";")
	elems := make([]Scalar, 0, len(parts))
	for _, p := range parts {
		elem, err := parseScalar(desc, strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return Tuple{Elems: elems}, nil
}

func parseScalar(desc, s string) (Scalar, error) {
	if s == "" {
		return Scalar{}, errors.SchemaSyntax(desc, 0, "empty element type")
	}
	if rest, ok := strings.CutPrefix(s, "char"); ok && strings.HasPrefix(strings.TrimSpace(rest), "(") {
		return parseChar(desc, rest)
	}
	if i := strings.IndexAny(s, "[]();"); i >= 0 {
		return Scalar{}, errors.SchemaSyntax(desc, i, "composite types cannot be nested")
	}
	kind, ok := types.LookupScalar(s)
	if !ok {
		return Scalar{}, errors.UnknownType(s)
	}
	return Scalar{Name: kind.String()}, nil
}

// parseChar reads the "(N)" suffix of char(N).
func parseChar(desc, rest string) (Scalar, error) {
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '(' || rest[len(rest)-1] != ')' {
		return Scalar{}, errors.SchemaSyntax(desc, 4, "char width must be written char(N)")
	}
	w, err := strconv.Atoi(strings.TrimSpace(rest[1 : len(rest)-1]))
	if err != nil || w <= 0 {
		return Scalar{}, errors.SchemaSyntax(desc, 5, "char width must be a positive integer")
	}
	return Char(w), nil
}
