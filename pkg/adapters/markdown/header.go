package markdown

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/marl/pkg/core"
)

// header holds everything found before the Markdown body.
type header struct {
	title       string
	tags        []string
	frontmatter map[string]any
	body        string
	// bodyLine is the 1-based line of the original text where body starts.
	bodyLine int
}

// splitFrontmatter strips a leading YAML block delimited by "---" lines.
// It returns the remaining lines and the number of lines consumed.
func splitFrontmatter(lines []string) (map[string]any, []string, int, error) {
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return nil, lines, 0, nil
	}

	for i := 1; i < len(lines); i++ {
		closing := strings.TrimRight(lines[i], " \t")
		if closing != "---" && closing != "..." {
			continue
		}

		meta := make(map[string]any)
		raw := strings.Join(lines[1:i], "\n")
		if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, nil, 0, &core.ParseError{
				Line: 2,
				Err:  fmt.Errorf("%w: %v", core.ErrFrontmatter, err),
			}
		}
		return meta, lines[i+1:], i + 1, nil
	}

	return nil, nil, 0, &core.ParseError{
		Line: 1,
		Err:  fmt.Errorf("%w: started but no closing delimiter found", core.ErrFrontmatter),
	}
}

// parseHeader extracts front matter and the title/tags convention:
//
//	# Title
//
// or
//
//	#tag #other
//	# Title
func parseHeader(text string) (header, error) {
	if strings.TrimSpace(text) == "" {
		return header{}, &core.ParseError{Err: core.ErrEmptyDocument}
	}

	lines := strings.Split(text, "\n")
	meta, lines, consumed, err := splitFrontmatter(lines)
	if err != nil {
		return header{}, err
	}

	h := header{frontmatter: meta}
	i := skipBlank(lines, 0)
	if i < len(lines) && isTagLine(lines[i]) {
		h.tags = parseTags(lines[i])
		i = skipBlank(lines, i+1)
	}
	if i < len(lines) && isTitleLine(lines[i]) {
		h.title = headingText(lines[i])
		i++
	}

	start := skipBlank(lines, i)
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	h.body = strings.Join(lines[start:end], "\n")
	h.bodyLine = consumed + start + 1
	return h, nil
}

func skipBlank(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return i
}

// isTitleLine matches a level-one ATX heading.
func isTitleLine(line string) bool {
	return strings.HasPrefix(line, "# ") || strings.HasPrefix(line, "#\t")
}

// headingText returns the content of an ATX heading line without its opening
// and optional closing "#" sequences.
func headingText(line string) string {
	text := strings.TrimSpace(strings.TrimLeft(line, "#"))
	closed := strings.TrimRight(text, "#")
	if closed == "" {
		return ""
	}
	if strings.HasSuffix(closed, " ") || strings.HasSuffix(closed, "\t") {
		return strings.TrimSpace(closed)
	}
	return text
}

// isTagLine matches a line made only of hashtags, e.g. "#foo #bar" or "#foo#bar".
func isTagLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if len(f) < 2 || f[0] != '#' || f[1] == '#' {
			return false
		}
	}
	return true
}

func parseTags(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == '#' || unicode.IsSpace(r)
	})
	return appendUnique(nil, fields...)
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if v == "" {
			continue
		}
		seen := false
		for _, existing := range list {
			if existing == v {
				seen = true
				break
			}
		}
		if !seen {
			list = append(list, v)
		}
	}
	return list
}

// attributes merges the header with front matter. The header wins for the
// title; tags from both sources are kept, front matter first.
func (h header) attributes() (core.DocumentAttributes, error) {
	attrs := core.DocumentAttributes{Title: h.title, Extra: core.Attributes{}}

	for key, value := range h.frontmatter {
		switch key {
		case "title":
			if attrs.Title == "" {
				attrs.Title = fmt.Sprint(value)
			}
		case "tags":
			tags, err := tagsOf(value)
			if err != nil {
				return attrs, &core.ParseError{Line: 2, Err: fmt.Errorf("%w: tags: %v", core.ErrFrontmatter, err)}
			}
			attrs.Tags = appendUnique(attrs.Tags, tags...)
		default:
			s, err := core.ScalarOf(value)
			if err != nil {
				return attrs, &core.ParseError{Line: 2, Err: fmt.Errorf("%w: %s: %v", core.ErrFrontmatter, key, err)}
			}
			attrs.Extra[key] = s
		}
	}

	attrs.Tags = appendUnique(attrs.Tags, h.tags...)
	if attrs.Tags == nil {
		attrs.Tags = []string{}
	}
	return attrs, nil
}

func tagsOf(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		var tags []string
		for _, t := range strings.Split(v, ",") {
			tags = append(tags, strings.TrimPrefix(strings.TrimSpace(t), "#"))
		}
		return tags, nil
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New("expected a list of strings")
			}
			tags = append(tags, strings.TrimPrefix(s, "#"))
		}
		return tags, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}
