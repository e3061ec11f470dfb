package highlight

import (
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"

	"github.com/aretw0/marl/pkg/core"
)

// tokenize runs lexer over code and guarantees that the token texts
// concatenate to exactly code.
func tokenize(lexer chroma.Lexer, code string) (tokens []core.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = fmt.Errorf("%w: %v", core.ErrTokenize, r)
		}
	}()

	// EnsureLF is left off: rewriting \r\n would break the round trip.
	it, err := lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTokenize, err)
	}

	var joined strings.Builder
	for _, t := range it.Tokens() {
		if t.Value == "" {
			continue
		}
		tokens = append(tokens, core.Token{
			Type:  t.Type.String(),
			Class: classOf(t.Type),
			Text:  t.Value,
		})
		joined.WriteString(t.Value)
	}

	switch got := joined.String(); got {
	case code:
		return tokens, nil
	case code + "\n":
		// Lexers configured with EnsureNL append a newline to the input.
		return trimTrailingNewline(tokens), nil
	default:
		return nil, fmt.Errorf("%w: tokens cover %d bytes of %d", core.ErrTokenize, len(got), len(code))
	}
}

func trimTrailingNewline(tokens []core.Token) []core.Token {
	last := len(tokens) - 1
	if last < 0 {
		return tokens
	}
	text := strings.TrimSuffix(tokens[last].Text, "\n")
	if text == "" {
		return tokens[:last]
	}
	tokens[last].Text = text
	return tokens
}

// classOf returns chroma's short CSS class for a token type, walking up to the
// sub-category and category when the exact type has none.
func classOf(t chroma.TokenType) string {
	if class, ok := chroma.StandardTypes[t]; ok {
		return class
	}
	if class, ok := chroma.StandardTypes[t.SubCategory()]; ok {
		return class
	}
	return chroma.StandardTypes[t.Category()]
}

// Markup renders tokens as escaped HTML. Tokens with a class are wrapped in a
// span; plain text is emitted bare.
func Markup(tokens []core.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		text := html.EscapeString(t.Text)
		if t.Class == "" {
			b.WriteString(text)
			continue
		}
		b.WriteString(`<span class="`)
		b.WriteString(t.Class)
		b.WriteString(`">`)
		b.WriteString(text)
		b.WriteString(`</span>`)
	}
	return b.String()
}
