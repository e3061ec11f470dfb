package core

import (
	"errors"
	"log/slog"
	"sync/atomic"
)

// Service compiles Markdown documents into renderable trees.
type Service struct {
	parser      Parser
	registry    Registry
	transformer *Transformer
	logger      *slog.Logger

	compiled atomic.Int64
	failed   atomic.Int64
}

// NewService creates a new Service. The registry is consulted for every tag
// of every document; it must not be modified after the Service is created.
func NewService(parser Parser, registry Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		parser:      parser,
		registry:    registry,
		transformer: NewTransformer(registry),
		logger:      logger,
	}
}

// Parse converts raw text into a Document. Failures are always *ParseError.
func (s *Service) Parse(text string) (Document, error) {
	if s.parser == nil {
		return Document{}, &ParseError{Err: errors.New("no parser configured")}
	}
	doc, err := s.parser.Parse(text)
	if err != nil {
		var perr *ParseError
		if !errors.As(err, &perr) {
			err = &ParseError{Err: err}
		}
		return Document{}, err
	}
	return doc, nil
}

// Transform converts an AST into a renderable tree.
func (s *Service) Transform(n Node) Node {
	return s.transformer.Transform(n)
}

// Compile parses and transforms text in one step.
func (s *Service) Compile(text string) (Result, error) {
	doc, err := s.Parse(text)
	if err != nil {
		s.failed.Add(1)
		s.logger.Debug("parse failed", "error", err)
		return Result{}, err
	}
	tree := s.Transform(doc.Root)
	s.compiled.Add(1)
	s.logger.Debug("document compiled", "title", doc.Attributes.Title, "tags", doc.Attributes.Tags)
	return Result{Document: doc, Tree: tree}, nil
}
