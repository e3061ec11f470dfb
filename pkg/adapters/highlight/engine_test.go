package highlight_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl/pkg/adapters/highlight"
	"github.com/aretw0/marl/pkg/core"
)

func newEngine(t *testing.T, opts ...highlight.Option) *highlight.Engine {
	t.Helper()
	e, err := highlight.New(opts...)
	require.NoError(t, err)
	return e
}

func join(tokens []core.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

var samples = map[string]string{
	"go":         "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n",
	"ts":         "const x: number = 1;\nexport default x",
	"js":         "const add = (a, b) => a + b; // sum",
	"json":       `{"a": [1, 2, true, null]}`,
	"yaml":       "key: value\nlist:\n  - a\n",
	"shell":      "$ echo \"hello\" | grep h\n",
	"css":        "body { color: #fff; }",
	"html":       "<p class=\"x\">Hi &amp; bye</p>",
	"sql":        "SELECT * FROM t WHERE id = 1;",
	"python":     "def f(x):\n    return x * 2",
	"ruby":       "def hello\n  puts 'hi'\nend",
	"diff":       "--- a\n+++ b\n@@ -1 +1 @@\n-old\n+new\n",
	"rust":       "fn main() { let v = vec![1]; }",
	"md":         "# Title\n\n- item\n",
	"dockerfile": "FROM golang:1.22\nRUN go build ./...",
}

func TestHighlight_RoundTrip(t *testing.T) {
	e := newEngine(t)

	for lang, code := range samples {
		t.Run(lang, func(t *testing.T) {
			variants := []string{code, code + "\n", strings.ReplaceAll(code, "\n", "\r\n"), ""}
			for _, input := range variants {
				h, err := e.Highlight(input, lang)
				require.NoError(t, err)
				assert.Equal(t, input, join(h.Tokens), "tokens must reproduce the input")
				assert.Equal(t, lang, h.Language)
			}
		})
	}
}

func TestHighlight_InvalidUTF8(t *testing.T) {
	e := newEngine(t)
	code := "\xff\xfe bad utf8"

	for _, lang := range e.Languages() {
		if lang == "plain" {
			continue
		}
		_, err := e.Highlight(code, lang)
		assert.ErrorIs(t, err, core.ErrTokenize, lang)
		assert.NotErrorIs(t, err, core.ErrNoGrammar, lang)
	}

	h, err := e.Highlight(code, "plain")
	require.NoError(t, err)
	assert.Equal(t, code, join(h.Tokens))
}

func TestHighlight_Plain(t *testing.T) {
	e := newEngine(t)

	h, err := e.Highlight("<b>a & b</b>", "plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", h.Language)
	require.Len(t, h.Tokens, 1)
	assert.Equal(t, "<b>a & b</b>", h.Tokens[0].Text)
	assert.Equal(t, "&lt;b&gt;a &amp; b&lt;/b&gt;", h.Markup)

	h, err = e.Highlight("x", "")
	require.NoError(t, err)
	assert.Equal(t, "plain", h.Language)

	h, err = e.Highlight("", "plain")
	require.NoError(t, err)
	assert.Empty(t, h.Tokens)
	assert.Empty(t, h.Markup)
}

func TestHighlight_UnknownLanguage(t *testing.T) {
	e := newEngine(t)

	_, err := e.Highlight("x", "klingon")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoGrammar)

	var gerr *core.GrammarError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "klingon", gerr.Language)
}

func TestHighlight_Aliases(t *testing.T) {
	e := newEngine(t)

	tests := map[string]string{
		"sh":         "shell",
		"bash":       "shell",
		"ZSH":        "shell",
		"javascript": "js",
		"yml":        "yaml",
		" Go ":       "go",
		"py":         "python",
	}
	for alias, id := range tests {
		h, err := e.Highlight("x", alias)
		require.NoError(t, err, alias)
		assert.Equal(t, id, h.Language, alias)
		assert.True(t, e.Has(alias))
	}
	assert.False(t, e.Has("tsx"), "synonyms are resolved by the fence, not the engine")
}

func TestHighlight_Markup(t *testing.T) {
	e := newEngine(t)

	h, err := e.Highlight("package main", "go")
	require.NoError(t, err)
	assert.Contains(t, h.Markup, `<span class="kn">package</span>`)

	for _, tok := range h.Tokens {
		assert.NotEmpty(t, tok.Type)
	}

	h, err = e.Highlight(`x := "<tag>"`, "go")
	require.NoError(t, err)
	assert.NotContains(t, h.Markup, "<tag>")
	assert.Contains(t, h.Markup, "&lt;tag&gt;")
}

func TestNew_Options(t *testing.T) {
	e := newEngine(t,
		highlight.WithoutDefaults(),
		highlight.WithGrammar("hcl", "terraform", "tf"),
		highlight.WithLexer("lua", lexers.Get("lua")),
		highlight.WithStyle("monokai"),
	)
	assert.Equal(t, []string{"hcl", "lua", "plain"}, e.Languages())
	assert.True(t, e.Has("tf"))
	assert.False(t, e.Has("go"))

	_, err := e.Highlight("x", "go")
	assert.ErrorIs(t, err, core.ErrNoGrammar)

	state := e.State().(highlight.EngineState)
	assert.Equal(t, "monokai", state.Style)
	assert.Equal(t, 1, state.Aliases)
	assert.Equal(t, "highlighter", e.ComponentType())
}

func TestNew_UnknownLexer(t *testing.T) {
	_, err := highlight.New(highlight.WithGrammar("nope", "no-such-lexer"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-lexer")
}

func TestNew_PlainCannotBeReplaced(t *testing.T) {
	e := newEngine(t, highlight.WithGrammar("plain", "go"))

	h, err := e.Highlight("func f()", "plain")
	require.NoError(t, err)
	require.Len(t, h.Tokens, 1)
	assert.Equal(t, "plain", h.Language)
}

func TestWriteCSS(t *testing.T) {
	e := newEngine(t)

	var buf bytes.Buffer
	require.NoError(t, e.WriteCSS(&buf, ""))
	assert.Contains(t, buf.String(), ".chroma")

	assert.Contains(t, highlight.Styles(), "github")
}

func TestHighlight_Concurrent(t *testing.T) {
	e := newEngine(t)
	code := samples["go"]

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lang := []string{"go", "ts", "plain", "yaml"}[i%4]
			h, err := e.Highlight(code, lang)
			assert.NoError(t, err)
			assert.Equal(t, code, join(h.Tokens))
		}(i)
	}
	wg.Wait()
}
