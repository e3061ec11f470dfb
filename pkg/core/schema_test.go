package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl/pkg/core"
)

var codeSchema = core.Schema{
	Attributes: map[string]core.Attribute{
		"content":  {Type: core.TypeString, Required: true},
		"language": {Type: core.TypeString, Default: core.String("plain")},
		"path":     {Type: core.TypeString},
		"theme":    {Type: core.TypeString, Matches: []string{"light", "dark"}},
	},
}

func TestSchemaValidate(t *testing.T) {
	t.Run("defaults applied, optional absent", func(t *testing.T) {
		out, err := codeSchema.Validate("fence", core.Attributes{"content": core.String("let x = 1;")})
		require.NoError(t, err)
		assert.Equal(t, core.Attributes{
			"content":  core.String("let x = 1;"),
			"language": core.String("plain"),
		}, out)
	})

	t.Run("unknown attributes dropped", func(t *testing.T) {
		out, err := codeSchema.Validate("fence", core.Attributes{
			"content": core.String(""),
			"extra":   core.Bool(true),
		})
		require.NoError(t, err)
		assert.NotContains(t, out, "extra")
		assert.Equal(t, core.String(""), out["content"], "empty content is valid")
	})

	t.Run("every failing field is reported", func(t *testing.T) {
		_, err := codeSchema.Validate("fence", core.Attributes{
			"language": core.Number(3),
			"theme":    core.String("neon"),
		})
		require.Error(t, err)

		var failure *core.ValidationFailure
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, "fence", failure.Tag)
		assert.Equal(t, []core.FieldError{
			{Field: "content", Message: "missing required attribute"},
			{Field: "language", Message: "expected string, got number"},
			{Field: "theme", Message: `"neon" is not one of [light dark]`},
		}, failure.Fields)
		assert.Contains(t, err.Error(), "content: missing required attribute")
		assert.Contains(t, err.Error(), "theme:")
	})

	t.Run("null is treated as absent", func(t *testing.T) {
		out, err := codeSchema.Validate("fence", core.Attributes{
			"content":  core.String("x"),
			"language": core.Null{},
		})
		require.NoError(t, err)
		assert.Equal(t, core.String("plain"), out["language"])
	})

	t.Run("deterministic", func(t *testing.T) {
		raw := core.Attributes{"language": core.Bool(false)}
		_, first := codeSchema.Validate("fence", raw)
		_, second := codeSchema.Validate("fence", raw)
		assert.Equal(t, first.Error(), second.Error())
	})
}
