package core

// Parser turns raw Markdown text into a Document.
// Implementations must be pure and safe for concurrent use.
type Parser interface {
	Parse(text string) (Document, error)
}

// Token is a span of source text tagged with a syntactic category.
type Token struct {
	// Type is the category name, e.g. "Keyword" or "LiteralString".
	Type string
	// Class is the short CSS class for the category, empty for plain text.
	Class string
	Text  string
}

// Highlighted is the output of a Highlighter for one code block.
type Highlighted struct {
	// Language is the grammar that produced the tokens.
	Language string
	Tokens   []Token
	// Markup is the escaped HTML rendering of Tokens.
	Markup string
}

// Highlighter tokenizes source code in a language.
//
// Highlight returns an error matching ErrNoGrammar when the language is not
// registered. The "plain" language must always succeed.
type Highlighter interface {
	Highlight(code, language string) (Highlighted, error)
}
