package core

import (
	"fmt"
	"slices"
	"sort"
)

// AttributeType is the expected kind of an attribute value.
type AttributeType int

const (
	TypeAny AttributeType = iota
	TypeString
	TypeNumber
	TypeBool
	TypeArray
	TypeObject
)

func (t AttributeType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "any"
	}
}

func (t AttributeType) accepts(s Scalar) bool {
	switch s.(type) {
	case String:
		return t == TypeAny || t == TypeString
	case Number:
		return t == TypeAny || t == TypeNumber
	case Bool:
		return t == TypeAny || t == TypeBool
	case Array:
		return t == TypeAny || t == TypeArray
	case Object:
		return t == TypeAny || t == TypeObject
	case Null:
		return false
	default:
		return false
	}
}

// Attribute declares one attribute of a tag schema.
type Attribute struct {
	Type     AttributeType
	Required bool
	// Default is applied when the attribute is absent or Null.
	Default Scalar
	// Matches restricts string values to an allowed set when non-empty.
	Matches []string
}

// Schema describes the attributes a tag accepts.
type Schema struct {
	Attributes map[string]Attribute
}

// Validate checks raw against the schema and returns the normalized attributes.
// On failure the error is a *ValidationFailure naming every failing field, in
// sorted field order. Attributes not declared by the schema are dropped.
func (s Schema) Validate(tag string, raw Attributes) (Attributes, error) {
	out := make(Attributes, len(s.Attributes))
	var fields []FieldError

	names := make([]string, 0, len(s.Attributes))
	for name := range s.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := s.Attributes[name]
		if !raw.Has(name) {
			switch {
			case def.Default != nil:
				out[name] = def.Default
			case def.Required:
				fields = append(fields, FieldError{Field: name, Message: "missing required attribute"})
			}
			continue
		}

		value := raw[name]
		if !def.Type.accepts(value) {
			fields = append(fields, FieldError{
				Field:   name,
				Message: fmt.Sprintf("expected %s, got %s", def.Type, kindOf(value)),
			})
			continue
		}
		if len(def.Matches) > 0 {
			str, _ := value.(String)
			if !slices.Contains(def.Matches, string(str)) {
				fields = append(fields, FieldError{
					Field:   name,
					Message: fmt.Sprintf("%q is not one of %v", string(str), def.Matches),
				})
				continue
			}
		}
		out[name] = value
	}

	if len(fields) > 0 {
		return nil, &ValidationFailure{Tag: tag, Fields: fields}
	}
	return out, nil
}

func kindOf(s Scalar) string {
	switch s.(type) {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("%T", s)
	}
}
