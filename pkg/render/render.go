// Package render writes a renderable tree as HTML.
//
// It is one possible presentation layer for marl trees: every tag name can be
// overridden with a Component, and the rest map onto plain HTML elements.
package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/aretw0/marl/pkg/core"
)

// Component renders one tag. children writes the tag's rendered children.
type Component func(w io.Writer, tag *core.Tag, children func() error) error

// Renderer walks a tree and writes HTML. It is safe for concurrent use once
// built.
type Renderer struct {
	components map[string]Component
	policy     *bluemonday.Policy
	unsafe     bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithComponent overrides the rendering of a tag name.
func WithComponent(name string, c Component) Option {
	return func(r *Renderer) {
		r.components[name] = c
	}
}

// WithUnsafeHTML writes raw HTML nodes without sanitizing them.
func WithUnsafeHTML(unsafe bool) Option {
	return func(r *Renderer) {
		r.unsafe = unsafe
	}
}

// WithPolicy replaces the bluemonday policy applied to raw HTML nodes.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(r *Renderer) {
		r.policy = p
	}
}

// New creates a Renderer with the default Fence component.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		components: map[string]Component{"Fence": Fence},
		policy:     bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes n as HTML.
func (r *Renderer) Render(w io.Writer, n core.Node) error {
	bw := bufio.NewWriter(w)
	if err := r.node(bw, n); err != nil {
		return err
	}
	return bw.Flush()
}

func (r *Renderer) node(w io.Writer, n core.Node) error {
	switch v := n.(type) {
	case *core.Tag:
		if v == nil {
			return nil
		}
		return r.tag(w, v)
	case core.String:
		_, err := io.WriteString(w, html.EscapeString(string(v)))
		return err
	case core.Number:
		_, err := io.WriteString(w, strconv.FormatFloat(float64(v), 'f', -1, 64))
		return err
	case core.Bool:
		_, err := io.WriteString(w, strconv.FormatBool(bool(v)))
		return err
	case core.Array:
		for _, item := range v {
			if err := r.node(w, item); err != nil {
				return err
			}
		}
		return nil
	case core.Null, core.Object, nil:
		return nil
	default:
		return fmt.Errorf("render: unknown node %T", n)
	}
}

func (r *Renderer) children(w io.Writer, tag *core.Tag) func() error {
	return func() error {
		for _, c := range tag.Children {
			if err := r.node(w, c); err != nil {
				return err
			}
		}
		return nil
	}
}

func (r *Renderer) tag(w io.Writer, tag *core.Tag) error {
	if c, ok := r.components[tag.Name]; ok {
		return c(w, tag, r.children(w, tag))
	}

	switch tag.Name {
	case "document":
		return r.children(w, tag)()
	case "html":
		content, _ := tag.Attributes.String("content")
		if !r.unsafe {
			content = r.policy.Sanitize(content)
		}
		_, err := io.WriteString(w, content)
		return err
	case "code":
		content, _ := tag.Attributes.String("content")
		_, err := fmt.Fprintf(w, "<code>%s</code>", html.EscapeString(content))
		return err
	case "fence":
		// Untransformed fence: no highlighter was registered.
		content, _ := tag.Attributes.String("content")
		_, err := fmt.Fprintf(w, "<pre><code>%s</code></pre>\n", html.EscapeString(content))
		return err
	case "softbreak":
		_, err := io.WriteString(w, "\n")
		return err
	case "hardbreak":
		_, err := io.WriteString(w, "<br>\n")
		return err
	case "hr":
		_, err := io.WriteString(w, "<hr>\n")
		return err
	case "image":
		return r.void(w, "img", imageAttrs(tag.Attributes, r.unsafe))
	case "item":
		return r.item(w, tag)
	}

	name, attrs := element(tag, r.unsafe)
	if err := r.open(w, name, attrs); err != nil {
		return err
	}
	if err := r.children(w, tag)(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</%s>%s", name, blockBreak(name))
	return err
}

func (r *Renderer) item(w io.Writer, tag *core.Tag) error {
	if _, err := io.WriteString(w, "<li>"); err != nil {
		return err
	}
	if checked, ok := tag.Attributes.Bool("checked"); ok {
		box := `<input type="checkbox" disabled> `
		if checked {
			box = `<input type="checkbox" checked disabled> `
		}
		if _, err := io.WriteString(w, box); err != nil {
			return err
		}
	}
	if err := r.children(w, tag)(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</li>\n")
	return err
}

func (r *Renderer) open(w io.Writer, name string, attrs [][2]string) error {
	if _, err := io.WriteString(w, "<"+name); err != nil {
		return err
	}
	for _, a := range attrs {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a[0], html.EscapeString(a[1])); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">")
	return err
}

func (r *Renderer) void(w io.Writer, name string, attrs [][2]string) error {
	return r.open(w, name, attrs)
}
