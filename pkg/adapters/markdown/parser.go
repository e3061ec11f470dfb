// Package markdown implements core.Parser with goldmark.
//
// The adapter owns the parts goldmark knows nothing about: YAML front matter,
// the "#tag #tag" / "# Title" header convention, and the conversion of
// goldmark's AST into the core Tag/Scalar tree.
package markdown

import (
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/aretw0/marl/pkg/core"
)

// Parser converts Markdown text into a core.Document.
// It is safe for concurrent use.
type Parser struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*options)

type options struct {
	extensions []goldmark.Extender
	headingIDs bool
	logger     *slog.Logger
}

// WithExtensions adds goldmark extensions on top of GFM.
func WithExtensions(ext ...goldmark.Extender) Option {
	return func(o *options) {
		o.extensions = append(o.extensions, ext...)
	}
}

// WithHeadingIDs enables or disables generated "id" attributes on headings.
// Enabled by default.
func WithHeadingIDs(enabled bool) Option {
	return func(o *options) {
		o.headingIDs = enabled
	}
}

// WithLogger sets the logger for the parser.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewParser creates a Parser with GitHub Flavored Markdown enabled.
func NewParser(opts ...Option) *Parser {
	o := &options{headingIDs: true}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	var parserOpts []parser.Option
	if o.headingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	md := goldmark.New(
		goldmark.WithExtensions(append([]goldmark.Extender{extension.GFM}, o.extensions...)...),
		goldmark.WithParserOptions(parserOpts...),
	)
	return &Parser{md: md, logger: o.logger}
}

// Parse implements core.Parser. Errors are *core.ParseError.
func (p *Parser) Parse(input string) (core.Document, error) {
	input = strings.ReplaceAll(input, "\r\n", "\n")

	h, err := parseHeader(input)
	if err != nil {
		return core.Document{}, err
	}
	attrs, err := h.attributes()
	if err != nil {
		return core.Document{}, err
	}

	src := []byte(h.body)
	root := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	c := converter{src: src}
	children := c.children(root)

	rootAttrs := attrs.Extra.Clone()
	rootAttrs["title"] = core.String(attrs.Title)
	rootAttrs["tags"] = core.Strings(attrs.Tags)

	p.logger.Debug("document parsed",
		"title", attrs.Title,
		"tags", len(attrs.Tags),
		"body_line", h.bodyLine,
		"blocks", len(children))

	return core.Document{
		Attributes: attrs,
		Body:       h.body,
		Root:       &core.Tag{Name: "document", Attributes: rootAttrs, Children: children},
	}, nil
}

// ComponentType implements introspection.Component.
func (p *Parser) ComponentType() string {
	return "goldmark"
}

var _ core.Parser = (*Parser)(nil)
