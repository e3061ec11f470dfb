package core

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrEmptyDocument = errors.New("document is empty")
	ErrFrontmatter   = errors.New("invalid frontmatter")
	ErrNoGrammar     = errors.New("no grammar registered for language")
	ErrTokenize      = errors.New("tokenization failed")
)

// ParseError is returned when a document cannot be turned into an AST.
// It is the only error that crosses the Service boundary.
type ParseError struct {
	Line int // 1-based, 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldError describes one attribute that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationFailure collects every failing attribute of a tag.
type ValidationFailure struct {
	Tag    string
	Fields []FieldError
}

func (e *ValidationFailure) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("invalid attributes on %q: %s", e.Tag, strings.Join(parts, "; "))
}

// GrammarError signals that a highlighter has no grammar for Language.
// It matches ErrNoGrammar with errors.Is.
type GrammarError struct {
	Language string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNoGrammar, e.Language)
}

func (e *GrammarError) Is(target error) bool {
	return target == ErrNoGrammar
}
