package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/soprox-abi/errors"
)

// DefaultName is the name given to a document that holds a single bare schema.
const DefaultName = "default"

// UnmarshalYAML accepts three field forms:
//
//	{key: amount, type: u64}               explicit
//	{key: meta, schema: [...]}             nested ("serialization" is an alias of "schema")
//	{amount: u64} or {meta: [...]}         shorthand, one entry only
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return syntaxAt(value, "field must be a mapping")
	}
	if len(value.Content) == 2 && !isAttr(value.Content[0].Value) {
		return f.shorthand(value.Content[0], value.Content[1])
	}

	var typ string
	var keyNode, nested *yaml.Node
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		switch k.Value {
		case "key":
			keyNode = v
		case "type":
			if v.Kind != yaml.ScalarNode {
				return syntaxAt(v, "type must be a string")
			}
			typ = v.Value
		case "schema", "serialization":
			if nested != nil {
				return syntaxAt(k, "field has both schema and serialization")
			}
			nested = v
		default:
			return syntaxAt(k, fmt.Sprintf("unknown field attribute %q", k.Value))
		}
	}
	if keyNode == nil || keyNode.Kind != yaml.ScalarNode || keyNode.Value == "" {
		return syntaxAt(value, "field needs a non-empty key")
	}
	f.Key = keyNode.Value

	if nested != nil {
		if typ != "" && typ != "struct" {
			return syntaxAt(value, fmt.Sprintf("field %q has both type %q and a nested schema", f.Key, typ))
		}
		return f.decodeNested(nested)
	}
	if typ == "" || typ == "struct" {
		return syntaxAt(value, fmt.Sprintf("field %q needs a type or a nested schema", f.Key))
	}
	return f.decodeType(value, typ)
}

func (f *Field) shorthand(k, v *yaml.Node) error {
	if k.Kind != yaml.ScalarNode || k.Value == "" {
		return syntaxAt(k, "field needs a non-empty key")
	}
	f.Key = k.Value
	switch v.Kind {
	case yaml.ScalarNode:
		return f.decodeType(v, v.Value)
	case yaml.SequenceNode:
		return f.decodeNested(v)
	default:
		return syntaxAt(v, fmt.Sprintf("field %q must map to a type or a field list", f.Key))
	}
}

func (f *Field) decodeType(at *yaml.Node, desc string) error {
	t, err := Parse(desc)
	if err != nil {
		return atLine(errors.WithPrefix(err, f.Key), at)
	}
	f.Type = t
	return nil
}

func (f *Field) decodeNested(n *yaml.Node) error {
	var s Schema
	if err := n.Decode(&s); err != nil {
		return errors.WithPrefix(err, f.Key)
	}
	f.Type = Struct{Fields: s}
	return nil
}

// MarshalYAML writes the explicit field form.
func (f Field) MarshalYAML() (any, error) {
	if st, ok := f.Type.(Struct); ok {
		return struct {
			Key    string `yaml:"key"`
			Schema Schema `yaml:"schema"`
		}{f.Key, st.Fields}, nil
	}
	typ := ""
	if f.Type != nil {
		typ = f.Type.String()
	}
	return struct {
		Key  string `yaml:"key"`
		Type string `yaml:"type"`
	}{f.Key, typ}, nil
}

// UnmarshalYAML requires a sequence of fields.
func (s *Schema) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return syntaxAt(value, "schema must be a list of fields")
	}
	out := make(Schema, 0, len(value.Content))
	for _, item := range value.Content {
		var f Field
		if err := item.Decode(&f); err != nil {
			return err
		}
		out = append(out, f)
	}
	*s = out
	return nil
}

// Document is a set of named schemas in declaration order.
type Document struct {
	schemas map[string]Schema
	Names   []string
}

// Lookup returns the schema declared under name.
func (d *Document) Lookup(name string) (Schema, bool) {
	s, ok := d.schemas[name]
	return s, ok
}

// Get is like Lookup but returns a not_found error.
func (d *Document) Get(name string) (Schema, error) {
	s, ok := d.schemas[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseParse, "schema", name)
	}
	return s, nil
}

// Len returns the number of schemas in the document.
func (d *Document) Len() int {
	return len(d.Names)
}

// UnmarshalYAML accepts a mapping of name to field list, or one bare field
// list stored under DefaultName.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	d.schemas = make(map[string]Schema)
	d.Names = nil

	switch value.Kind {
	case yaml.SequenceNode:
		var s Schema
		if err := value.Decode(&s); err != nil {
			return err
		}
		d.add(DefaultName, s)
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			k, v := value.Content[i], value.Content[i+1]
			if _, dup := d.schemas[k.Value]; dup {
				return syntaxAt(k, fmt.Sprintf("schema %q declared twice", k.Value))
			}
			var s Schema
			if err := v.Decode(&s); err != nil {
				return errors.WithPrefix(err, k.Value)
			}
			d.add(k.Value, s)
		}
		return nil
	default:
		return syntaxAt(value, "document must be a mapping of schemas or a field list")
	}
}

func (d *Document) add(name string, s Schema) {
	d.schemas[name] = s
	d.Names = append(d.Names, name)
}

// Load parses a YAML or JSON schema document.
func Load(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, wrapYAML(err)
	}
	if d.schemas == nil {
		return nil, errors.SchemaSyntax("", 0, "empty schema document")
	}
	return &d, nil
}

// LoadFile reads and parses a schema document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindNotFound, err, "read schema document")
	}
	return Load(data)
}

// LoadSchema parses a single field list.
func LoadSchema(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, wrapYAML(err)
	}
	return s, nil
}

func wrapYAML(err error) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.Wrap(errors.PhaseParse, errors.KindSchemaSyntax, err, "decode schema document")
}

func syntaxAt(n *yaml.Node, detail string) error {
	return errors.New(errors.PhaseParse, errors.KindSchemaSyntax).
		Detail("line %d: %s", n.Line, detail).
		Build()
}

func atLine(err error, n *yaml.Node) error {
	if e, ok := err.(*errors.Error); ok {
		e.Detail = fmt.Sprintf("line %d: %s", n.Line, e.Detail)
	}
	return err
}

func isAttr(k string) bool {
	switch k {
	case "key", "type", "schema", "serialization":
		return true
	}
	return false
}
