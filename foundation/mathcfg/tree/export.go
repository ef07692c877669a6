// File: export.go
// Title: Parse Tree Export
// Description: JSON and YAML encodings of parse trees for the CLI, the
//              WebSocket service and external renderers. Each node becomes
//              {symbol, value?, children?}.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19

package tree

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// exportNode is the serialized shape of a node
type exportNode struct {
	Symbol   string        `json:"symbol" yaml:"symbol"`
	Value    *uint32       `json:"value,omitempty" yaml:"value,omitempty"`
	Children []*exportNode `json:"children,omitempty" yaml:"children,omitempty"`
}

func toExport(n *Node) *exportNode {
	out := &exportNode{Symbol: n.Symbol.Kind.String()}
	if n.Symbol.Kind == KindNumber {
		v := n.Symbol.Value
		out.Value = &v
	}
	if len(n.Children) > 0 {
		out.Children = make([]*exportNode, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = toExport(c)
		}
	}
	return out
}

// MarshalJSON implements json.Marshaler
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toExport(n))
}

// MarshalYAML implements yaml.Marshaler
func (n *Node) MarshalYAML() (interface{}, error) {
	return toExport(n), nil
}

// ToYAML encodes the tree as a YAML document
func ToYAML(n *Node) ([]byte, error) {
	return yaml.Marshal(n)
}

// ToJSON encodes the tree as indented JSON
func ToJSON(n *Node) ([]byte, error) {
	return json.MarshalIndent(n, "", "  ")
}
