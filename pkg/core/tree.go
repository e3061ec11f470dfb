package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// typeKey is the discriminant used by the JSON form of a Tag. The name is
// shared with Markdoc so that renderers written against Markdoc trees can
// consume the output unchanged.
const typeKey = "$$mdtype"

type tagJSON struct {
	Type       string     `json:"$$mdtype"`
	Name       string     `json:"name"`
	Attributes Attributes `json:"attributes"`
	Children   []Node     `json:"children"`
}

// MarshalJSON encodes the tag with its "$$mdtype" discriminant.
func (t *Tag) MarshalJSON() ([]byte, error) {
	attrs := t.Attributes
	if attrs == nil {
		attrs = Attributes{}
	}
	children := t.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(tagJSON{Type: "Tag", Name: t.Name, Attributes: attrs, Children: children})
}

// MarshalJSON encodes Null as JSON null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalTree encodes a renderable tree as JSON.
func MarshalTree(n Node) ([]byte, error) {
	if n == nil {
		n = Null{}
	}
	return json.Marshal(n)
}

// UnmarshalTree decodes the JSON produced by MarshalTree.
func UnmarshalTree(data []byte) (Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	return nodeOf(raw)
}

func nodeOf(v any) (Node, error) {
	m, ok := v.(map[string]any)
	if !ok || m[typeKey] != "Tag" {
		return ScalarOf(v)
	}

	name, ok := m["name"].(string)
	if !ok {
		return nil, errors.New("invalid tree: tag without name")
	}
	tag := &Tag{Name: name}

	if rawAttrs, ok := m["attributes"].(map[string]any); ok && len(rawAttrs) > 0 {
		tag.Attributes = make(Attributes, len(rawAttrs))
		for k, item := range rawAttrs {
			s, err := ScalarOf(item)
			if err != nil {
				return nil, fmt.Errorf("invalid tree: tag %q attribute %q: %w", name, k, err)
			}
			tag.Attributes[k] = s
		}
	}

	if rawChildren, ok := m["children"].([]any); ok && len(rawChildren) > 0 {
		tag.Children = make([]Node, len(rawChildren))
		for i, item := range rawChildren {
			child, err := nodeOf(item)
			if err != nil {
				return nil, err
			}
			tag.Children[i] = child
		}
	}
	return tag, nil
}
