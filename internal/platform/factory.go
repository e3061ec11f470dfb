package platform

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/marl/pkg/adapters/highlight"
	"github.com/aretw0/marl/pkg/adapters/markdown"
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/fence"
	"github.com/aretw0/marl/pkg/render"
)

// Compiler bundles the domain service with the adapters built for it.
// It is created once per process and shared by every caller.
type Compiler struct {
	*core.Service
	Engine   *highlight.Engine
	Renderer *render.Renderer
	logger   *slog.Logger
}

// New wires the parser, highlight engine, transform registry and renderer.
//
//	c, err := marl.New(marl.WithLogger(logger))
//	res, err := c.Compile(text)
func New(opts ...Option) (*Compiler, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	engineOpts := append([]highlight.Option{
		highlight.WithLogger(o.logger),
		highlight.WithStyle(o.style),
	}, o.grammars...)
	engine, err := highlight.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build highlight engine: %w", err)
	}

	var h core.Highlighter = engine
	if o.highlighter != nil {
		h = o.highlighter
	}

	registry := core.NewRegistry()
	fence.New(h, o.logger).Register(registry)
	for name, fn := range o.transforms {
		registry.Register(name, fn)
	}

	parser := markdown.NewParser(
		markdown.WithLogger(o.logger),
		markdown.WithExtensions(o.extensions...),
	)

	o.logger.Debug("compiler ready",
		"languages", len(engine.Languages()),
		"transforms", registry.Names())

	return &Compiler{
		Service:  core.NewService(parser, registry, o.logger),
		Engine:   engine,
		Renderer: render.New(o.components...),
		logger:   o.logger,
	}, nil
}

// RenderHTML compiles text and writes its HTML to w.
func (c *Compiler) RenderHTML(w io.Writer, text string) (core.Result, error) {
	res, err := c.Compile(text)
	if err != nil {
		return core.Result{}, err
	}
	if err := c.Renderer.Render(w, res.Tree); err != nil {
		return res, fmt.Errorf("failed to render: %w", err)
	}
	return res, nil
}

// WriteCSS writes the stylesheet for highlighted fences.
func (c *Compiler) WriteCSS(w io.Writer, style string) error {
	return c.Engine.WriteCSS(w, style)
}
