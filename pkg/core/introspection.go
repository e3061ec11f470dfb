package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	ParserType string   `json:"parser_type"`
	Transforms []string `json:"transforms"`
	Compiled   int64    `json:"compiled"`
	Failed     int64    `json:"failed"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	parserType := "unknown"
	if s.parser != nil {
		parserType = "parser"
		if comp, ok := s.parser.(introspection.Component); ok {
			parserType = comp.ComponentType()
		}
	}

	return ServiceState{
		ParserType: parserType,
		Transforms: s.registry.Names(),
		Compiled:   s.compiled.Load(),
		Failed:     s.failed.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
