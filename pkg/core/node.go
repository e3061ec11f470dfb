package core

import (
	"fmt"
	"sort"
	"time"
)

// Node is a member of the document tree: either a *Tag or a Scalar.
// The set of implementations is closed; consumers switch over the variants.
type Node interface {
	node()
}

// Scalar is a leaf value: Null, Bool, Number, String, Array or Object.
type Scalar interface {
	Node
	scalar()
}

// Tag is a named node with attributes and ordered children.
type Tag struct {
	Name       string
	Attributes Attributes
	Children   []Node
}

// Null is the absent scalar.
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Number is a numeric scalar.
type Number float64

// String is a text scalar. Inline text in the tree is always a String.
type String string

// Array is an ordered sequence of scalars.
type Array []Scalar

// Object is a string-keyed mapping of scalars.
type Object map[string]Scalar

func (*Tag) node()   {}
func (Null) node()   {}
func (Bool) node()   {}
func (Number) node() {}
func (String) node() {}
func (Array) node()  {}
func (Object) node() {}

func (Null) scalar()   {}
func (Bool) scalar()   {}
func (Number) scalar() {}
func (String) scalar() {}
func (Array) scalar()  {}
func (Object) scalar() {}

// NewTag creates a tag. A nil attribute map is replaced by an empty one.
func NewTag(name string, attrs Attributes, children ...Node) *Tag {
	if attrs == nil {
		attrs = Attributes{}
	}
	return &Tag{Name: name, Attributes: attrs, Children: children}
}

// Attributes maps attribute names to scalar values.
type Attributes map[string]Scalar

// Has reports whether the attribute is present and not Null.
func (a Attributes) Has(name string) bool {
	v, ok := a[name]
	if !ok {
		return false
	}
	_, isNull := v.(Null)
	return !isNull
}

// String returns the attribute as a string, if it is one.
func (a Attributes) String(name string) (string, bool) {
	s, ok := a[name].(String)
	return string(s), ok
}

// Number returns the attribute as a float64, if it is numeric.
func (a Attributes) Number(name string) (float64, bool) {
	n, ok := a[name].(Number)
	return float64(n), ok
}

// Bool returns the attribute as a bool, if it is one.
func (a Attributes) Bool(name string) (bool, bool) {
	b, ok := a[name].(Bool)
	return bool(b), ok
}

// Clone returns a shallow copy of the map. Cloning nil yields nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Keys returns the attribute names in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Strings converts a string slice into an Array of String scalars.
func Strings(values []string) Array {
	arr := make(Array, len(values))
	for i, v := range values {
		arr[i] = String(v)
	}
	return arr
}

// ScalarOf converts a decoded Go value (as produced by yaml.v3 or encoding/json)
// into a Scalar.
func ScalarOf(v any) (Scalar, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Scalar:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case time.Time:
		return String(val.Format(time.RFC3339)), nil
	case []string:
		return Strings(val), nil
	case []any:
		arr := make(Array, len(val))
		for i, item := range val {
			s, err := ScalarOf(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = s
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, item := range val {
			s, err := ScalarOf(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			obj[k] = s
		}
		return obj, nil
	case map[any]any:
		obj := make(Object, len(val))
		for k, item := range val {
			s, err := ScalarOf(item)
			if err != nil {
				return nil, fmt.Errorf("key %v: %w", k, err)
			}
			obj[fmt.Sprint(k)] = s
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported scalar type %T", v)
	}
}

// Value converts a Scalar back into a plain Go value.
func Value(s Scalar) any {
	switch v := s.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(v)
	case Number:
		return float64(v)
	case String:
		return string(v)
	case Array:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Value(item)
		}
		return out
	case Object:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Value(item)
		}
		return out
	default:
		panic(fmt.Sprintf("core: unknown scalar %T", s))
	}
}

// Text concatenates every String leaf under n in document order.
func Text(n Node) string {
	var out []byte
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Tag:
			for _, c := range v.Children {
				walk(c)
			}
		case String:
			out = append(out, string(v)...)
		case Null, Bool, Number, Array, Object:
		}
	}
	walk(n)
	return string(out)
}
