package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/soprox-abi/address"
	"github.com/wippyai/soprox-abi/codec"
)

// renderYAML prints decoded values with struct fields in layout order.
func renderYAML(n *codec.Node, v any) (string, error) {
	node, err := yamlNode(n, v)
	if err != nil {
		return "", err
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func yamlNode(n *codec.Node, v any) (*yaml.Node, error) {
	switch n.Kind {
	case codec.KindStruct:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("struct value is %T", v)
		}
		out := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range n.Fields {
			val, err := yamlNode(f.Type, m[f.Key])
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Key}, val)
		}
		return out, nil
	case codec.KindArray, codec.KindTuple:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("list value is %T", v)
		}
		out := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for i, item := range items {
			elem := n.Elem
			if n.Kind == codec.KindTuple {
				elem = n.Elems[i]
			}
			val, err := yamlNode(elem, item)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, val)
		}
		return out, nil
	case codec.KindIdentifier:
		if a, ok := v.(address.Address); ok {
			v = a.String()
		}
	}
	out := &yaml.Node{}
	if err := out.Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}
