package platform

import (
	"log/slog"

	"github.com/yuin/goldmark"

	"github.com/aretw0/marl/pkg/adapters/highlight"
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/render"
)

// options holds the internal configuration for the compiler.
type options struct {
	logger      *slog.Logger
	highlighter core.Highlighter
	transforms  map[string]core.TransformFunc
	grammars    []highlight.Option
	extensions  []goldmark.Extender
	components  []render.Option
	style       string
}

// Option defines a functional option for configuring the compiler.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		transforms: make(map[string]core.TransformFunc),
		style:      highlight.DefaultStyle,
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHighlighter replaces the built-in chroma engine used by the fence transform.
func WithHighlighter(h core.Highlighter) Option {
	return func(o *options) {
		o.highlighter = h
	}
}

// WithTransform registers a transform for a tag name. Registering "fence"
// replaces the built-in fence transform.
func WithTransform(name string, fn core.TransformFunc) Option {
	return func(o *options) {
		o.transforms[name] = fn
	}
}

// WithGrammar adds a language to the highlight engine, backed by a chroma lexer.
func WithGrammar(id, lexerName string, aliases ...string) Option {
	return func(o *options) {
		o.grammars = append(o.grammars, highlight.WithGrammar(id, lexerName, aliases...))
	}
}

// WithStyle selects the chroma style used for generated CSS.
func WithStyle(name string) Option {
	return func(o *options) {
		o.style = name
	}
}

// WithMarkdownExtensions adds goldmark extensions to the parser.
func WithMarkdownExtensions(ext ...goldmark.Extender) Option {
	return func(o *options) {
		o.extensions = append(o.extensions, ext...)
	}
}

// WithComponent overrides how the HTML renderer writes a tag.
func WithComponent(name string, c render.Component) Option {
	return func(o *options) {
		o.components = append(o.components, render.WithComponent(name, c))
	}
}

// WithUnsafeHTML lets raw HTML through the renderer without sanitizing.
func WithUnsafeHTML(unsafe bool) Option {
	return func(o *options) {
		o.components = append(o.components, render.WithUnsafeHTML(unsafe))
	}
}
