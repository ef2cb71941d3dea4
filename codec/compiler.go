package codec

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/soprox-abi/codec/internal/abi"
	"github.com/wippyai/soprox-abi/errors"
	"github.com/wippyai/soprox-abi/internal/types"
	"github.com/wippyai/soprox-abi/schema"
)

// Compiler turns schemas into layouts. Nodes compiled from descriptor
// strings are cached, so repeated Type calls share one Node.
type Compiler struct {
	cache sync.Map // descriptor -> *Node
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

var defaultCompiler = NewCompiler()

// Compile compiles s with the package default compiler.
func Compile(s schema.Schema) (*Layout, error) {
	return defaultCompiler.Compile(s)
}

// MustCompile is like Compile but panics on error.
func MustCompile(s schema.Schema) *Layout {
	l, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Type compiles a single descriptor with the package default compiler.
func Type(desc string) (*Node, error) {
	return defaultCompiler.Type(desc)
}

// MustType is like Type but panics on error.
func MustType(desc string) *Node {
	n, err := Type(desc)
	if err != nil {
		panic(err)
	}
	return n
}

// Compile validates s and computes its layout. Keys must be non-empty and
// unique within each level; every descriptor must resolve to known types.
func (c *Compiler) Compile(s schema.Schema) (*Layout, error) {
	root, err := c.compileStruct(s)
	if err != nil {
		return nil, err
	}
	l := newLayout(root, s)
	Logger().Debug("compiled schema",
		zap.Int("space", root.Space),
		zap.Int("fields", len(l.fields)),
		zap.Int("depth", root.Depth()),
	)
	return l, nil
}

// Type parses and compiles one descriptor such as "u64" or "[u8;32]".
func (c *Compiler) Type(desc string) (*Node, error) {
	if cached, ok := c.cache.Load(desc); ok {
		Logger().Debug("descriptor cache hit", zap.String("desc", desc))
		return cached.(*Node), nil
	}
	t, err := schema.Parse(desc)
	if err != nil {
		return nil, err
	}
	n, err := c.Node(t)
	if err != nil {
		return nil, err
	}
	actual, _ := c.cache.LoadOrStore(desc, n)
	return actual.(*Node), nil
}

// Node compiles any schema type.
func (c *Compiler) Node(t schema.Type) (*Node, error) {
	switch v := t.(type) {
	case schema.Scalar:
		return compileScalar(v)
	case schema.Array:
		return c.compileArray(v)
	case schema.Tuple:
		return c.compileTuple(v)
	case schema.Struct:
		return c.compileStruct(v.Fields)
	case nil:
		return nil, errors.New(errors.PhaseCompile, errors.KindSchemaSyntax).
			Detail("field has no type").
			Build()
	default:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnknownType).
			GoType(abi.TypeName(t)).
			Detail("unsupported schema type").
			Build()
	}
}

func compileScalar(s schema.Scalar) (*Node, error) {
	kind, ok := types.LookupScalar(s.Name)
	if !ok {
		return nil, errors.UnknownType(s.Name)
	}
	switch {
	case s.Width < 0:
		return nil, errors.New(errors.PhaseCompile, errors.KindSchemaSyntax).
			Type(s.Name).
			Detail("negative width %d", s.Width).
			Build()
	case kind != types.KindChar && s.Width != 0 && s.Width != kind.Width():
		return nil, errors.New(errors.PhaseCompile, errors.KindSchemaSyntax).
			Type(s.Name).
			Detail("%s has fixed width %d", s.Name, kind.Width()).
			Build()
	}
	return types.NewScalar(kind, s.Width), nil
}

func (c *Compiler) compileArray(a schema.Array) (*Node, error) {
	if a.Len <= 0 {
		return nil, errors.New(errors.PhaseCompile, errors.KindSchemaSyntax).
			Type(a.String()).
			Detail("array length must be positive").
			Build()
	}
	elem, err := compileScalar(a.Elem)
	if err != nil {
		return nil, err
	}
	if _, ok := abi.SafeMul(elem.Space, a.Len); !ok {
		return nil, errors.OutOfRange(errors.PhaseCompile, nil, a.Len, a.String())
	}
	return types.NewArray(elem, a.Len), nil
}

func (c *Compiler) compileTuple(t schema.Tuple) (*Node, error) {
	if len(t.Elems) == 0 {
		return nil, errors.New(errors.PhaseCompile, errors.KindSchemaSyntax).
			Detail("tuple needs at least one element").
			Build()
	}
	elems := make([]*Node, len(t.Elems))
	for i, e := range t.Elems {
		n, err := compileScalar(e)
		if err != nil {
			return nil, errors.WithPrefix(err, errors.Index(i))
		}
		elems[i] = n
	}
	return types.NewTuple(elems), nil
}

func (c *Compiler) compileStruct(s schema.Schema) (*Node, error) {
	fields := make([]types.Field, 0, len(s))
	seen := make(map[string]struct{}, len(s))
	space := 0
	for _, f := range s {
		if f.Key == "" {
			return nil, errors.New(errors.PhaseCompile, errors.KindSchemaSyntax).
				Detail("field key must not be empty").
				Build()
		}
		if _, dup := seen[f.Key]; dup {
			return nil, errors.DuplicateField(errors.PhaseCompile, []string{f.Key}, f.Key)
		}
		seen[f.Key] = struct{}{}

		n, err := c.Node(f.Type)
		if err != nil {
			return nil, errors.WithPrefix(err, f.Key)
		}
		total, ok := abi.SafeAdd(space, n.Space)
		if !ok {
			return nil, errors.OutOfRange(errors.PhaseCompile, []string{f.Key}, space, "struct")
		}
		space = total
		fields = append(fields, types.Field{Key: f.Key, Type: n})
	}
	return types.NewStruct(fields), nil
}
