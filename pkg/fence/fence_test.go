package fence_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl/pkg/adapters/highlight"
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/fence"
)

// failingHighlighter rejects every language, plain included.
type failingHighlighter struct {
	calls []string
}

func (f *failingHighlighter) Highlight(code, language string) (core.Highlighted, error) {
	f.calls = append(f.calls, language)
	return core.Highlighted{}, errors.New("boom")
}

func newEngine(t *testing.T) *highlight.Engine {
	t.Helper()
	e, err := highlight.New()
	require.NoError(t, err)
	return e
}

func fenceTag(attrs core.Attributes) *core.Tag {
	return core.NewTag(fence.TagName, attrs)
}

func TestNormalizeLanguage(t *testing.T) {
	tests := map[string]string{
		"":        "plain",
		"   ":     "plain",
		"tsx":     "ts",
		"TSX":     "ts",
		" tsx ":   "ts",
		"dotenv":  "plain",
		"erb":     "html",
		"mdx":     "md",
		"Go":      "go",
		"klingon": "klingon",
	}
	for in, want := range tests {
		assert.Equal(t, want, fence.NormalizeLanguage(in), "NormalizeLanguage(%q)", in)
	}
}

func TestSchema(t *testing.T) {
	attrs, err := fence.Schema.Validate("fence", core.Attributes{"content": core.String("x")})
	require.NoError(t, err)
	assert.Equal(t, core.String("plain"), attrs["language"])

	_, err = fence.Schema.Validate("fence", core.Attributes{"language": core.String("go")})
	var failure *core.ValidationFailure
	require.True(t, errors.As(err, &failure))
	require.Len(t, failure.Fields, 1)
	assert.Equal(t, "content", failure.Fields[0].Field)

	_, err = fence.Schema.Validate("fence", core.Attributes{"content": core.Number(1), "path": core.Bool(true)})
	require.True(t, errors.As(err, &failure))
	assert.Len(t, failure.Fields, 2)
}

func TestHighlight_FallbackTotality(t *testing.T) {
	e := newEngine(t)
	content := "a < b && c"

	plain := fence.Highlight(e, content, "plain")
	unknown := fence.Highlight(e, content, "klingon")

	assert.True(t, unknown.Highlighted)
	assert.Equal(t, plain, unknown)
	assert.Equal(t, "a &lt; b &amp;&amp; c", unknown.Markup)
}

func TestHighlight_SynonymsMatchCanonical(t *testing.T) {
	e := newEngine(t)
	content := "const x = <div />"

	assert.Equal(t,
		fence.Highlight(e, content, "ts"),
		fence.Highlight(e, content, fence.NormalizeLanguage("tsx")))
	assert.Equal(t,
		fence.Highlight(e, content, "plain"),
		fence.Highlight(e, content, fence.NormalizeLanguage("")))
}

func TestHighlight_InvalidUTF8FallsBackToPlain(t *testing.T) {
	e := newEngine(t)
	code := "\xff\xfe <bad>"

	res := fence.Highlight(e, code, "go")
	assert.True(t, res.Highlighted)
	assert.Equal(t, "plain", res.Language)
	assert.Equal(t, fence.Highlight(e, code, "plain"), res)
	require.Len(t, res.Tokens, 1)
	assert.Equal(t, code, res.Tokens[0].Text)
}

func TestHighlight_NeverFails(t *testing.T) {
	f := &failingHighlighter{}
	res := fence.Highlight(f, "<x>", "go")
	assert.Equal(t, []string{"go", "plain"}, f.calls)
	assert.False(t, res.Highlighted)
	assert.Equal(t, "plain", res.Language)
	assert.Equal(t, "&lt;x&gt;", res.Markup)
	require.Len(t, res.Tokens, 1)
	assert.Equal(t, "<x>", res.Tokens[0].Text)

	res = fence.Highlight(nil, "", "go")
	assert.False(t, res.Highlighted)
	assert.Empty(t, res.Tokens)
	assert.Empty(t, res.Markup)
}

func TestTransform_Valid(t *testing.T) {
	e := newEngine(t)
	tr := fence.New(e, nil)

	out := tr.Func(fenceTag(core.Attributes{
		"content":  core.String("package main\n"),
		"language": core.String("Go"),
		"path":     core.String("main.go"),
	}), nil)

	tag, ok := out.(*core.Tag)
	require.True(t, ok)
	assert.Equal(t, "Fence", tag.Name)
	assert.Equal(t, core.String("go"), tag.Attributes["language"])
	assert.Equal(t, core.String("main.go"), tag.Attributes["path"])

	content, _ := tag.Attributes.String("content")
	assert.Equal(t, fence.Highlight(e, "package main\n", "go").Markup, content)
	assert.Empty(t, tag.Children)
}

func TestTransform_UnknownLanguageKeepsRequestedName(t *testing.T) {
	tr := fence.New(newEngine(t), nil)

	tag := tr.Func(fenceTag(core.Attributes{
		"content":  core.String("<b>"),
		"language": core.String("klingon"),
	}), nil).(*core.Tag)

	assert.Equal(t, core.String("klingon"), tag.Attributes["language"])
	assert.Equal(t, core.String("&lt;b&gt;"), tag.Attributes["content"])
	assert.False(t, tag.Attributes.Has("path"))
}

func TestTransform_InvalidAttributes(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	tr := fence.New(newEngine(t), logger)

	tests := []struct {
		name  string
		attrs core.Attributes
		want  core.Attributes
	}{
		{
			name:  "missing content",
			attrs: core.Attributes{"language": core.String("go")},
			want:  core.Attributes{"language": core.String("plain"), "content": core.String("")},
		},
		{
			name:  "wrong language type",
			attrs: core.Attributes{"content": core.String("<x>"), "language": core.Number(3), "path": core.String("a.go")},
			want: core.Attributes{
				"language": core.String("plain"),
				"content":  core.String("&lt;x&gt;"),
				"path":     core.String("a.go"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logs.Reset()
			var out core.Node
			require.NotPanics(t, func() {
				out = tr.Func(fenceTag(tc.attrs), nil)
			})
			assert.Equal(t, core.NewTag("Fence", tc.want), out)
			assert.Contains(t, logs.String(), "level=WARN")
		})
	}
}

func TestTransform_Register(t *testing.T) {
	tr := fence.New(newEngine(t), nil)
	registry := tr.Register(core.NewRegistry())
	assert.Equal(t, []string{"fence"}, registry.Names())

	transformer := core.NewTransformer(registry)
	root := core.NewTag("document", nil,
		core.NewTag("paragraph", nil, core.String("hi")),
		fenceTag(core.Attributes{"content": core.String("x = 1"), "language": core.String("python")}),
	)

	out := transformer.Transform(root).(*core.Tag)
	require.Len(t, out.Children, 2)
	assert.Equal(t, "paragraph", out.Children[0].(*core.Tag).Name)
	assert.Equal(t, "Fence", out.Children[1].(*core.Tag).Name)
	assert.Equal(t, "fence", root.Children[1].(*core.Tag).Name, "input must not be mutated")
}
