package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/aretw0/marl/pkg/core"
)

// converter maps goldmark nodes onto core tags. Text becomes String children;
// adjacent strings are merged.
type converter struct {
	src []byte
}

func (c converter) children(n ast.Node) []core.Node {
	var out []core.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		for _, converted := range c.convert(child) {
			if s, ok := converted.(core.String); ok && len(out) > 0 {
				if prev, ok := out[len(out)-1].(core.String); ok {
					out[len(out)-1] = prev + s
					continue
				}
			}
			out = append(out, converted)
		}
	}
	return out
}

func (c converter) tag(name string, attrs core.Attributes, n ast.Node) []core.Node {
	return []core.Node{&core.Tag{Name: name, Attributes: attrs, Children: c.children(n)}}
}

func (c converter) convert(n ast.Node) []core.Node {
	switch v := n.(type) {
	// Blocks
	case *ast.Heading:
		attrs := core.Attributes{"level": core.Number(v.Level)}
		if id, ok := v.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				attrs["id"] = core.String(b)
			}
		}
		return c.tag("heading", attrs, v)
	case *ast.Paragraph:
		return c.tag("paragraph", nil, v)
	case *ast.TextBlock:
		return c.children(v)
	case *ast.Blockquote:
		return c.tag("blockquote", nil, v)
	case *ast.List:
		attrs := core.Attributes{"ordered": core.Bool(v.IsOrdered())}
		if v.IsOrdered() && v.Start != 1 {
			attrs["start"] = core.Number(v.Start)
		}
		return c.tag("list", attrs, v)
	case *ast.ListItem:
		var attrs core.Attributes
		if checkbox := taskCheckBox(v); checkbox != nil {
			attrs = core.Attributes{"checked": core.Bool(checkbox.IsChecked)}
		}
		return c.tag("item", attrs, v)
	case *ast.ThematicBreak:
		return []core.Node{&core.Tag{Name: "hr"}}
	case *ast.FencedCodeBlock:
		return []core.Node{c.fence(v)}
	case *ast.CodeBlock:
		return []core.Node{&core.Tag{Name: "fence", Attributes: core.Attributes{
			"content": core.String(c.lines(v)),
		}}}
	case *ast.HTMLBlock:
		content := c.lines(v)
		if v.HasClosure() {
			content += string(v.ClosureLine.Value(c.src))
		}
		return []core.Node{&core.Tag{Name: "html", Attributes: core.Attributes{"content": core.String(content)}}}
	case *extast.Table:
		return []core.Node{c.table(v)}

	// Inlines
	case *ast.Text:
		out := []core.Node{core.String(v.Segment.Value(c.src))}
		switch {
		case v.HardLineBreak():
			out = append(out, &core.Tag{Name: "hardbreak"})
		case v.SoftLineBreak():
			out = append(out, &core.Tag{Name: "softbreak"})
		}
		return out
	case *ast.String:
		return []core.Node{core.String(v.Value)}
	case *ast.CodeSpan:
		return []core.Node{&core.Tag{Name: "code", Attributes: core.Attributes{
			"content": core.String(c.inlineText(v)),
		}}}
	case *ast.Emphasis:
		name := "em"
		if v.Level >= 2 {
			name = "strong"
		}
		return c.tag(name, nil, v)
	case *extast.Strikethrough:
		return c.tag("s", nil, v)
	case *ast.Link:
		attrs := core.Attributes{"href": core.String(v.Destination)}
		if len(v.Title) > 0 {
			attrs["title"] = core.String(v.Title)
		}
		return c.tag("link", attrs, v)
	case *ast.AutoLink:
		href := string(v.URL(c.src))
		if v.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		return []core.Node{&core.Tag{
			Name:       "link",
			Attributes: core.Attributes{"href": core.String(href)},
			Children:   []core.Node{core.String(v.Label(c.src))},
		}}
	case *ast.Image:
		attrs := core.Attributes{
			"src": core.String(v.Destination),
			"alt": core.String(c.inlineText(v)),
		}
		if len(v.Title) > 0 {
			attrs["title"] = core.String(v.Title)
		}
		return []core.Node{&core.Tag{Name: "image", Attributes: attrs}}
	case *ast.RawHTML:
		var b bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			segment := v.Segments.At(i)
			b.Write(segment.Value(c.src))
		}
		return []core.Node{&core.Tag{Name: "html", Attributes: core.Attributes{
			"content": core.String(b.String()),
			"inline":  core.Bool(true),
		}}}
	case *extast.TaskCheckBox:
		// Recorded on the enclosing item.
		return nil

	default:
		return c.tag(strings.ToLower(n.Kind().String()), nil, n)
	}
}

func (c converter) lines(n ast.Node) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(c.src))
	}
	return b.String()
}

// inlineText flattens the text of inline children, as used for code spans and
// image alt text.
func (c converter) inlineText(n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch v := child.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(c.src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		default:
			b.WriteString(c.inlineText(child))
		}
	}
	return b.String()
}

func (c converter) fence(n *ast.FencedCodeBlock) *core.Tag {
	attrs := core.Attributes{"content": core.String(c.lines(n))}
	if n.Info != nil {
		for k, v := range parseInfo(string(n.Info.Segment.Value(c.src))) {
			attrs[k] = v
		}
	}
	return &core.Tag{Name: "fence", Attributes: attrs}
}

var infoAttr = regexp.MustCompile(`([A-Za-z_][\w-]*)=(?:"([^"]*)"|'([^']*)'|(\S+))`)

// parseInfo reads a fence info string: the language first, then key=value
// pairs, optionally wrapped in "{% ... %}", e.g.
//
//	ts {% path="src/app.ts" %}
func parseInfo(info string) core.Attributes {
	attrs := core.Attributes{}
	info = strings.TrimSpace(info)
	if info == "" {
		return attrs
	}

	rest := info
	if first := strings.Fields(info)[0]; !strings.ContainsAny(first, "={") {
		attrs["language"] = core.String(first)
		rest = strings.TrimSpace(info[len(first):])
	}

	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "{%"), "%}")
	for _, m := range infoAttr.FindAllStringSubmatch(rest, -1) {
		value := m[2] + m[3] + m[4]
		if _, bare := attrs["language"]; bare && m[1] == "language" {
			continue
		}
		attrs[m[1]] = core.String(value)
	}
	return attrs
}

func (c converter) table(n *extast.Table) *core.Tag {
	var head, body []core.Node
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		switch r := row.(type) {
		case *extast.TableHeader:
			head = append(head, &core.Tag{Name: "tr", Children: c.cells(r, "th")})
		case *extast.TableRow:
			body = append(body, &core.Tag{Name: "tr", Children: c.cells(r, "td")})
		}
	}

	table := &core.Tag{Name: "table"}
	if len(head) > 0 {
		table.Children = append(table.Children, &core.Tag{Name: "thead", Children: head})
	}
	if len(body) > 0 {
		table.Children = append(table.Children, &core.Tag{Name: "tbody", Children: body})
	}
	return table
}

func (c converter) cells(row ast.Node, name string) []core.Node {
	var cells []core.Node
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		tc, ok := cell.(*extast.TableCell)
		if !ok {
			continue
		}
		var attrs core.Attributes
		if tc.Alignment != extast.AlignNone {
			attrs = core.Attributes{"align": core.String(tc.Alignment.String())}
		}
		cells = append(cells, &core.Tag{Name: name, Attributes: attrs, Children: c.children(tc)})
	}
	return cells
}

func taskCheckBox(item *ast.ListItem) *extast.TaskCheckBox {
	block := item.FirstChild()
	if block == nil {
		return nil
	}
	checkbox, _ := block.FirstChild().(*extast.TaskCheckBox)
	return checkbox
}
