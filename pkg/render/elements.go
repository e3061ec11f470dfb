package render

import (
	"fmt"
	"html"
	"io"
	"strconv"

	"github.com/yuin/goldmark/util"

	"github.com/aretw0/marl/pkg/core"
)

var elements = map[string]string{
	"paragraph":  "p",
	"blockquote": "blockquote",
	"em":         "em",
	"strong":     "strong",
	"s":          "s",
	"link":       "a",
	"table":      "table",
	"thead":      "thead",
	"tbody":      "tbody",
	"tr":         "tr",
	"th":         "th",
	"td":         "td",
}

var blocks = map[string]bool{
	"p": true, "blockquote": true, "ul": true, "ol": true, "table": true,
	"thead": true, "tbody": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func blockBreak(name string) string {
	if blocks[name] {
		return "\n"
	}
	return ""
}

// safeURL reports whether url may be written into an href or src. Unless
// unsafe is set, script-capable schemes such as javascript: are rejected.
func safeURL(url string, unsafe bool) bool {
	return unsafe || !util.IsDangerousURL([]byte(url))
}

// element maps a tag onto an HTML element name and attribute list. Unknown
// tag names are rendered as a div carrying the name as its class.
func element(tag *core.Tag, unsafe bool) (string, [][2]string) {
	attrs := tag.Attributes
	switch tag.Name {
	case "heading":
		level, ok := attrs.Number("level")
		if !ok || level < 1 || level > 6 {
			level = 1
		}
		name := "h" + strconv.Itoa(int(level))
		if id, ok := attrs.String("id"); ok && id != "" {
			return name, [][2]string{{"id", id}}
		}
		return name, nil
	case "list":
		if ordered, _ := attrs.Bool("ordered"); ordered {
			if start, ok := attrs.Number("start"); ok {
				return "ol", [][2]string{{"start", strconv.Itoa(int(start))}}
			}
			return "ol", nil
		}
		return "ul", nil
	case "link":
		out := [][2]string{}
		if href, ok := attrs.String("href"); ok && safeURL(href, unsafe) {
			out = append(out, [2]string{"href", href})
		}
		if title, ok := attrs.String("title"); ok {
			out = append(out, [2]string{"title", title})
		}
		return "a", out
	case "th", "td":
		if align, ok := attrs.String("align"); ok {
			return tag.Name, [][2]string{{"style", "text-align: " + align}}
		}
		return tag.Name, nil
	}

	if name, ok := elements[tag.Name]; ok {
		return name, nil
	}
	return "div", [][2]string{{"class", tag.Name}}
}

func imageAttrs(attrs core.Attributes, unsafe bool) [][2]string {
	var out [][2]string
	for _, key := range []string{"src", "alt", "title"} {
		if v, ok := attrs.String(key); ok {
			if key == "src" && !safeURL(v, unsafe) {
				continue
			}
			out = append(out, [2]string{key, v})
		}
	}
	return out
}

// Fence renders a highlighted "Fence" tag: an optional file name header and
// a pre block whose class names the language. The content attribute is
// already escaped markup.
func Fence(w io.Writer, tag *core.Tag, _ func() error) error {
	language, _ := tag.Attributes.String("language")
	content, _ := tag.Attributes.String("content")

	if _, err := io.WriteString(w, `<figure class="fence">`); err != nil {
		return err
	}
	if path, ok := tag.Attributes.String("path"); ok && path != "" {
		if _, err := fmt.Fprintf(w, "<figcaption>%s</figcaption>", html.EscapeString(path)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, `<pre class="chroma language-%s"><code>%s</code></pre></figure>`+"\n",
		html.EscapeString(language), content)
	return err
}
