// Package typed decodes document attributes into user-defined structs.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/marl/pkg/core"
)

// Document wraps a compiled core.Result with typed attributes.
type Document[T any] struct {
	Title string
	Tags  []string
	Body  string
	Data  T         // Decoded frontmatter, title and tags included
	Tree  core.Node // The renderable tree
}

// Compiler is the part of core.Service that typed documents need.
type Compiler interface {
	Compile(text string) (core.Result, error)
}

// Service compiles documents and decodes their attributes into T.
type Service[T any] struct {
	compiler Compiler
}

// NewService creates a new typed wrapper around a compiler.
func NewService[T any](compiler Compiler) *Service[T] {
	return &Service[T]{compiler: compiler}
}

// Compile compiles text and decodes its attributes.
func (s *Service[T]) Compile(text string) (*Document[T], error) {
	res, err := s.compiler.Compile(text)
	if err != nil {
		return nil, err
	}
	return FromResult[T](res)
}

// FromResult decodes the attributes of an already compiled document.
func FromResult[T any](res core.Result) (*Document[T], error) {
	data, err := Decode[T](res.Document.Attributes)
	if err != nil {
		return nil, err
	}
	return &Document[T]{
		Title: res.Document.Attributes.Title,
		Tags:  res.Document.Attributes.Tags,
		Body:  res.Document.Body,
		Data:  data,
		Tree:  res.Tree,
	}, nil
}

// Decode converts document attributes into T using their JSON field names.
// "title" and "tags" are always present.
func Decode[T any](attrs core.DocumentAttributes) (T, error) {
	var out T

	payload := make(map[string]any, len(attrs.Extra)+2)
	for k, v := range attrs.Extra {
		payload[k] = core.Value(v)
	}
	payload["title"] = attrs.Title
	payload["tags"] = attrs.Tags

	// 1. Marshal attributes to JSON
	data, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("failed to marshal attributes: %w", err)
	}

	// 2. Unmarshal into the typed struct
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode attributes into %T: %w", out, err)
	}
	return out, nil
}
