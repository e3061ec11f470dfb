package core

import "sort"

// ChildTransformer transforms a sequence of child nodes. It is handed to every
// TransformFunc so that a transform can wrap recursively transformed children.
type ChildTransformer func(children []Node) []Node

// TransformFunc converts an AST tag into a renderable node.
type TransformFunc func(tag *Tag, children ChildTransformer) Node

// DefaultTransform keeps the tag name and attributes and transforms the children.
func DefaultTransform(tag *Tag, children ChildTransformer) Node {
	return &Tag{
		Name:       tag.Name,
		Attributes: tag.Attributes.Clone(),
		Children:   children(tag.Children),
	}
}

// Registry maps tag names to transforms. It is built once and handed to a
// Transformer; the Transformer never inspects tag names itself.
type Registry map[string]TransformFunc

// NewRegistry returns an empty registry.
func NewRegistry() Registry {
	return make(Registry)
}

// Register binds fn to a tag name, replacing any previous binding.
func (r Registry) Register(name string, fn TransformFunc) Registry {
	r[name] = fn
	return r
}

// Resolve returns the transform for name, or DefaultTransform.
func (r Registry) Resolve(name string) TransformFunc {
	if fn, ok := r[name]; ok && fn != nil {
		return fn
	}
	return DefaultTransform
}

// Names returns the registered tag names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transformer walks an AST and produces a renderable tree.
// It does not mutate its input and is safe for concurrent use as long as the
// registry is not modified while transforming.
type Transformer struct {
	registry Registry
}

// NewTransformer creates a Transformer over the given registry.
// A nil registry resolves every tag to DefaultTransform.
func NewTransformer(registry Registry) *Transformer {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Transformer{registry: registry}
}

// Transform converts n into its renderable form. Scalars are returned unchanged.
func (t *Transformer) Transform(n Node) Node {
	switch v := n.(type) {
	case *Tag:
		if v == nil {
			return Null{}
		}
		out := t.registry.Resolve(v.Name)(v, t.Children)
		if out == nil {
			return Null{}
		}
		return out
	case Null, Bool, Number, String, Array, Object:
		return v
	case nil:
		return Null{}
	default:
		return n
	}
}

// Children transforms each node in order.
func (t *Transformer) Children(children []Node) []Node {
	if children == nil {
		return nil
	}
	out := make([]Node, len(children))
	for i, c := range children {
		out[i] = t.Transform(c)
	}
	return out
}
