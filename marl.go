package marl

import (
	"log/slog"

	"github.com/yuin/goldmark"

	"github.com/aretw0/marl/internal/platform"
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/render"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Compiler is the process-wide compiler built by New.
type Compiler = platform.Compiler

// Result is a compiled document and its renderable tree.
type Result = core.Result

// --- Configuration ---

// Option defines a functional option for configuring the compiler.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithHighlighter replaces the built-in highlight engine for fences.
func WithHighlighter(h core.Highlighter) Option {
	return platform.WithHighlighter(h)
}

// WithTransform registers a transform for a tag name.
func WithTransform(name string, fn core.TransformFunc) Option {
	return platform.WithTransform(name, fn)
}

// WithGrammar adds a highlight grammar backed by a chroma lexer.
func WithGrammar(id, lexerName string, aliases ...string) Option {
	return platform.WithGrammar(id, lexerName, aliases...)
}

// WithStyle selects the chroma style used for generated CSS.
func WithStyle(name string) Option {
	return platform.WithStyle(name)
}

// WithMarkdownExtensions adds goldmark extensions to the parser.
func WithMarkdownExtensions(ext ...goldmark.Extender) Option {
	return platform.WithMarkdownExtensions(ext...)
}

// WithComponent overrides how the HTML renderer writes a tag.
func WithComponent(name string, c render.Component) Option {
	return platform.WithComponent(name, c)
}

// WithUnsafeHTML disables sanitizing of raw HTML in rendered output.
func WithUnsafeHTML(unsafe bool) Option {
	return platform.WithUnsafeHTML(unsafe)
}

// --- Factory ---

// New creates a Compiler. Call it once and share the result.
func New(opts ...Option) (*Compiler, error) {
	return platform.New(opts...)
}
