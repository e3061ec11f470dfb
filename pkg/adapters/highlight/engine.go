// Package highlight implements core.Highlighter on top of chroma lexers.
//
// An Engine owns a read-only table of grammars built once by New. Lookups and
// tokenization never mutate the engine, so one Engine is shared by every
// goroutine of the process.
package highlight

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/aretw0/marl/pkg/core"
)

// Plain is the grammar that is always registered. It emits the input as a
// single text token.
const Plain = "plain"

// DefaultStyle is the chroma style used by WriteCSS when none is given.
const DefaultStyle = "github"

// grammar is one entry of the default table: a language id, the chroma lexer
// that implements it and the ids that resolve to it.
type grammar struct {
	id      string
	lexer   string
	aliases []string
}

var defaultGrammars = []grammar{
	{id: "shell", lexer: "bash", aliases: []string{"sh", "bash", "zsh", "console"}},
	{id: "css", lexer: "css"},
	{id: "scss", lexer: "scss"},
	{id: "diff", lexer: "diff", aliases: []string{"patch"}},
	{id: "graphql", lexer: "graphql", aliases: []string{"gql"}},
	{id: "http", lexer: "http"},
	{id: "js", lexer: "javascript", aliases: []string{"javascript", "mjs", "cjs"}},
	{id: "jsx", lexer: "react"},
	{id: "ts", lexer: "typescript", aliases: []string{"typescript"}},
	{id: "json", lexer: "json", aliases: []string{"jsonc"}},
	{id: "md", lexer: "markdown", aliases: []string{"markdown"}},
	{id: "ruby", lexer: "ruby", aliases: []string{"rb"}},
	{id: "sql", lexer: "sql"},
	{id: "yaml", lexer: "yaml", aliases: []string{"yml"}},
	{id: "html", lexer: "html", aliases: []string{"htm"}},
	{id: "xml", lexer: "xml", aliases: []string{"svg"}},
	{id: "go", lexer: "go", aliases: []string{"golang"}},
	{id: "python", lexer: "python", aliases: []string{"py"}},
	{id: "rust", lexer: "rust", aliases: []string{"rs"}},
	{id: "toml", lexer: "toml"},
	{id: "dockerfile", lexer: "docker", aliases: []string{"docker"}},
	{id: "c", lexer: "c", aliases: []string{"h"}},
	{id: "java", lexer: "java"},
	{id: "php", lexer: "php"},
}

// Engine tokenizes code with a fixed set of grammars.
type Engine struct {
	grammars  map[string]chroma.Lexer // every id and alias, lowercased
	canonical map[string]string       // id or alias -> id
	languages []string
	style     string
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	extra    []grammar
	lexers   map[string]chroma.Lexer
	style    string
	logger   *slog.Logger
	defaults bool
}

// WithGrammar registers a language id backed by the named chroma lexer.
func WithGrammar(id, lexerName string, aliases ...string) Option {
	return func(o *options) {
		o.extra = append(o.extra, grammar{id: id, lexer: lexerName, aliases: aliases})
	}
}

// WithLexer registers a language id backed by a custom chroma lexer.
func WithLexer(id string, lexer chroma.Lexer) Option {
	return func(o *options) {
		o.lexers[id] = lexer
	}
}

// WithoutDefaults starts from an empty table, leaving only Plain and the
// grammars added with WithGrammar or WithLexer.
func WithoutDefaults() Option {
	return func(o *options) {
		o.defaults = false
	}
}

// WithStyle sets the chroma style used by WriteCSS.
func WithStyle(name string) Option {
	return func(o *options) {
		o.style = name
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New builds an Engine. Default grammars whose lexer is missing from chroma
// are skipped; grammars requested with WithGrammar must resolve.
func New(opts ...Option) (*Engine, error) {
	o := &options{
		lexers:   make(map[string]chroma.Lexer),
		style:    DefaultStyle,
		defaults: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		grammars:  make(map[string]chroma.Lexer),
		canonical: map[string]string{Plain: Plain},
		languages: []string{Plain},
		style:     o.style,
		logger:    o.logger,
	}

	if o.defaults {
		for _, g := range defaultGrammars {
			lexer := lexers.Get(g.lexer)
			if lexer == nil {
				e.logger.Debug("grammar unavailable", "language", g.id, "lexer", g.lexer)
				continue
			}
			e.register(g.id, lexer, g.aliases)
		}
	}

	for _, g := range o.extra {
		lexer := lexers.Get(g.lexer)
		if lexer == nil {
			return nil, fmt.Errorf("unknown lexer %q for language %q", g.lexer, g.id)
		}
		e.register(g.id, lexer, g.aliases)
	}
	for id, lexer := range o.lexers {
		if lexer == nil {
			return nil, fmt.Errorf("nil lexer for language %q", id)
		}
		e.register(id, lexer, nil)
	}

	sort.Strings(e.languages)
	e.logger.Debug("highlight engine ready", "languages", len(e.languages))
	return e, nil
}

func (e *Engine) register(id string, lexer chroma.Lexer, aliases []string) {
	id = normalizeID(id)
	if id == Plain {
		return
	}
	if _, exists := e.grammars[id]; !exists {
		e.languages = append(e.languages, id)
	}
	lexer = chroma.Coalesce(lexer)
	e.grammars[id] = lexer
	e.canonical[id] = id
	for _, alias := range aliases {
		alias = normalizeID(alias)
		if alias == Plain || alias == "" {
			continue
		}
		e.grammars[alias] = lexer
		e.canonical[alias] = id
	}
}

// Languages returns the registered language ids, Plain included, sorted.
// Aliases are not listed.
func (e *Engine) Languages() []string {
	out := make([]string, len(e.languages))
	copy(out, e.languages)
	return out
}

// Has reports whether the language id or alias is registered.
func (e *Engine) Has(language string) bool {
	id := normalizeID(language)
	if id == "" {
		return true
	}
	_, ok := e.canonical[id]
	return ok
}

// Highlight tokenizes code with the grammar registered for language.
// An empty language is treated as Plain. Unknown languages yield a
// *core.GrammarError; a grammar that cannot reproduce its input yields an
// error wrapping core.ErrTokenize.
func (e *Engine) Highlight(code, language string) (core.Highlighted, error) {
	id := normalizeID(language)
	if id == "" || id == Plain {
		return plain(code), nil
	}

	lexer, ok := e.grammars[id]
	if !ok {
		return core.Highlighted{}, &core.GrammarError{Language: language}
	}

	tokens, err := tokenize(lexer, code)
	if err != nil {
		return core.Highlighted{}, fmt.Errorf("%s: %w", e.canonical[id], err)
	}
	return core.Highlighted{
		Language: e.canonical[id],
		Tokens:   tokens,
		Markup:   Markup(tokens),
	}, nil
}

// WriteCSS writes the stylesheet matching the classes emitted by Markup.
// An empty style name selects the engine style; unknown names fall back to
// chroma's default style.
func (e *Engine) WriteCSS(w io.Writer, style string) error {
	if style == "" {
		style = e.style
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	return formatter.WriteCSS(w, styles.Get(style))
}

// Styles lists the names accepted by WriteCSS.
func Styles() []string {
	return styles.Names()
}

func plain(code string) core.Highlighted {
	var tokens []core.Token
	if code != "" {
		tokens = []core.Token{{Type: chroma.Text.String(), Text: code}}
	}
	return core.Highlighted{
		Language: Plain,
		Tokens:   tokens,
		Markup:   html.EscapeString(code),
	}
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

var _ core.Highlighter = (*Engine)(nil)
