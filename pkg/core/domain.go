package core

// DocumentAttributes are the header values of a document: the title and tags
// from the "# Title" / "#tag #tag" convention, plus any front matter keys.
type DocumentAttributes struct {
	Title string
	Tags  []string
	Extra Attributes
}

// Document is the result of parsing raw Markdown text.
type Document struct {
	Attributes DocumentAttributes
	Body       string
	// Root is the AST: a "document" tag whose attributes mirror Attributes.
	Root *Tag
}

// Result is a compiled document: the parsed input and its renderable tree.
type Result struct {
	Document Document
	Tree     Node
}

// EventType represents the type of change to a source file.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a watched source file.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Path
}
