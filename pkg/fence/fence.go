// Package fence turns fenced code blocks into highlighted "Fence" tags.
//
// The transform never fails: invalid attributes and unknown languages degrade
// to escaped, unhighlighted content so that one bad block cannot break the
// rendering of a whole document.
package fence

import (
	"errors"
	"html"
	"log/slog"
	"strings"

	"github.com/aretw0/marl/pkg/core"
)

const (
	// TagName is the AST tag produced by the parser for fenced code blocks.
	TagName = "fence"
	// RenderName is the renderable tag emitted by the transform.
	RenderName = "Fence"
	// Plain is the language used when none is given or highlighting fails.
	Plain = "plain"
)

// Schema validates fence attributes.
var Schema = core.Schema{
	Attributes: map[string]core.Attribute{
		"content":  {Type: core.TypeString, Required: true},
		"language": {Type: core.TypeString, Default: core.String(Plain)},
		"path":     {Type: core.TypeString},
	},
}

var synonyms = map[string]string{
	"":       Plain,
	"tsx":    "ts",
	"dotenv": Plain,
	"erb":    "html",
	"mdx":    "md",
}

// NormalizeLanguage folds case, trims whitespace and maps synonyms.
func NormalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if canonical, ok := synonyms[language]; ok {
		return canonical
	}
	return language
}

// Result is the outcome of Highlight.
type Result struct {
	// Language is the grammar that produced Markup.
	Language string
	Tokens   []core.Token
	Markup   string
	// Highlighted is false when both the requested and the plain grammar
	// failed and Markup is the escaped source.
	Highlighted bool
}

// Highlight runs h in two steps: the requested language, then Plain when the
// language has no grammar or fails to tokenize. If Plain fails too, the escaped
// source is returned. It never returns an error.
func Highlight(h core.Highlighter, content, language string) Result {
	if h != nil {
		if out, err := h.Highlight(content, language); err == nil {
			return resultOf(out)
		}
		if out, err := h.Highlight(content, Plain); err == nil {
			return resultOf(out)
		}
	}
	return Result{
		Language: Plain,
		Tokens:   plainTokens(content),
		Markup:   html.EscapeString(content),
	}
}

func resultOf(h core.Highlighted) Result {
	return Result{Language: h.Language, Tokens: h.Tokens, Markup: h.Markup, Highlighted: true}
}

func plainTokens(content string) []core.Token {
	if content == "" {
		return nil
	}
	return []core.Token{{Type: "Text", Text: content}}
}

// Transform builds the fence TransformFunc.
type Transform struct {
	highlighter core.Highlighter
	logger      *slog.Logger
}

// New creates a fence transform backed by h. A nil logger discards output.
func New(h core.Highlighter, logger *slog.Logger) *Transform {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transform{highlighter: h, logger: logger}
}

// Register binds the transform to TagName in r.
func (t *Transform) Register(r core.Registry) core.Registry {
	return r.Register(TagName, t.Func)
}

// Func implements core.TransformFunc. Fences are leaves, so children are not
// visited.
func (t *Transform) Func(tag *core.Tag, _ core.ChildTransformer) core.Node {
	attrs, err := Schema.Validate(tag.Name, tag.Attributes)
	if err != nil {
		var failure *core.ValidationFailure
		if errors.As(err, &failure) {
			t.logger.Warn("invalid fence attributes, rendering unhighlighted", "error", failure)
		}
		return t.fallback(tag.Attributes)
	}

	content, _ := attrs.String("content")
	requested, _ := attrs.String("language")
	language := NormalizeLanguage(requested)

	result := Highlight(t.highlighter, content, language)
	switch {
	case !result.Highlighted:
		t.logger.Warn("highlighting failed, rendering unhighlighted", "language", language)
	case result.Language == Plain && language != Plain:
		t.logger.Debug("no grammar for language, used plain", "language", language)
	}

	out := core.Attributes{
		"language": core.String(language),
		"content":  core.String(result.Markup),
	}
	if path, ok := attrs.String("path"); ok && path != "" {
		out["path"] = core.String(path)
	}
	return core.NewTag(RenderName, out)
}

// fallback keeps whatever string attributes are usable and escapes the content.
func (t *Transform) fallback(raw core.Attributes) core.Node {
	content, _ := raw.String("content")
	out := core.Attributes{
		"language": core.String(Plain),
		"content":  core.String(html.EscapeString(content)),
	}
	if path, ok := raw.String("path"); ok && path != "" {
		out["path"] = core.String(path)
	}
	return core.NewTag(RenderName, out)
}
