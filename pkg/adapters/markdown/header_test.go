package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/marl/pkg/core"
)

func TestIsTagLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"#foo #bar", true},
		{"#foo#bar", true},
		{"  #foo  ", true},
		{"# Title", false},
		{"## Section", false},
		{"#foo bar", false},
		{"#", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, isTagLine(tc.line), "isTagLine(%q)", tc.line)
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"foo", "bar"}, parseTags("#foo #bar"))
	assert.Equal(t, []string{"foo", "bar"}, parseTags("#foo#bar #foo"))
}

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name string
		info string
		want core.Attributes
	}{
		{"empty", "", core.Attributes{}},
		{"language only", "ts", core.Attributes{"language": core.String("ts")}},
		{"key value", `ts path="src/app.ts"`, core.Attributes{
			"language": core.String("ts"),
			"path":     core.String("src/app.ts"),
		}},
		{"markdoc annotation", `rb {% path='app/models/user.rb' %}`, core.Attributes{
			"language": core.String("rb"),
			"path":     core.String("app/models/user.rb"),
		}},
		{"annotation without language", `{% path=main.go %}`, core.Attributes{
			"path": core.String("main.go"),
		}},
		{"language cannot be overridden", `go language=rust`, core.Attributes{
			"language": core.String("go"),
		}},
		{"language in annotation", `{% language="ts" path="a.ts" %}`, core.Attributes{
			"language": core.String("ts"),
			"path":     core.String("a.ts"),
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseInfo(tc.info))
		})
	}
}

func TestHeadingText(t *testing.T) {
	tests := map[string]string{
		"# Title":          "Title",
		"# Title #":        "Title",
		"# Title ###   ":   "Title",
		"#\tTabbed\t#":     "Tabbed",
		"# C#":             "C#",
		"# Issue #42":      "Issue #42",
		"# #":              "",
		"#   spaced out  ": "spaced out",
	}
	for line, want := range tests {
		assert.Equal(t, want, headingText(line), "headingText(%q)", line)
	}
}

func TestParseHeader_BodyTrimming(t *testing.T) {
	h, err := parseHeader("\n\n# T\n\n\n  indented body\n\nmore\n\n\n")
	assert.NoError(t, err)
	assert.Equal(t, "T", h.title)
	assert.Equal(t, "  indented body\n\nmore", h.body)
	assert.Equal(t, 6, h.bodyLine)
}
