package highlight

import (
	"github.com/aretw0/introspection"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	Languages []string `json:"languages"`
	Aliases   int      `json:"aliases"`
	Style     string   `json:"style"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	return EngineState{
		Languages: e.Languages(),
		Aliases:   len(e.canonical) - len(e.languages),
		Style:     e.style,
	}
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "highlighter"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
