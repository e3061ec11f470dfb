package marl

import (
	"github.com/aretw0/marl/pkg/typed"
)

// TypedDocument is a compiled document whose attributes are decoded into T.
type TypedDocument[T any] = typed.Document[T]

// TypedService compiles documents and decodes their front matter into T.
type TypedService[T any] = typed.Service[T]

// NewTypedService creates a type-safe wrapper around a compiler.
// T is the struct the front matter, title and tags are decoded into.
func NewTypedService[T any](c *Compiler) *TypedService[T] {
	return typed.NewService[T](c)
}
