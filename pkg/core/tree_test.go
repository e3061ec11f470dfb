package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl/pkg/core"
)

func TestMarshalTree(t *testing.T) {
	tree := core.NewTag("Fence", core.Attributes{
		"language": core.String("ts"),
		"content":  core.String("<span>x</span>"),
	})

	data, err := core.MarshalTree(tree)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"$$mdtype": "Tag",
		"name": "Fence",
		"attributes": {"language": "ts", "content": "<span>x</span>"},
		"children": []
	}`, string(data))
}

func TestMarshalTree_Scalars(t *testing.T) {
	tree := &core.Tag{
		Name:       "item",
		Attributes: core.Attributes{"checked": core.Bool(false), "meta": core.Null{}},
		Children:   []core.Node{core.String("a"), core.Number(2), core.Null{}},
	}
	data, err := core.MarshalTree(tree)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"$$mdtype": "Tag",
		"name": "item",
		"attributes": {"checked": false, "meta": null},
		"children": ["a", 2, null]
	}`, string(data))
}

func TestUnmarshalTree(t *testing.T) {
	tree := sampleAST()
	data, err := core.MarshalTree(tree)
	require.NoError(t, err)

	decoded, err := core.UnmarshalTree(data)
	require.NoError(t, err)
	assert.Equal(t, tree, decoded)
}

func TestUnmarshalTree_Invalid(t *testing.T) {
	_, err := core.UnmarshalTree([]byte(`{"$$mdtype":"Tag"}`))
	assert.Error(t, err)

	_, err = core.UnmarshalTree([]byte(`not json`))
	assert.Error(t, err)

	n, err := core.UnmarshalTree([]byte(`{"plain":"object"}`))
	require.NoError(t, err)
	assert.Equal(t, core.Object{"plain": core.String("object")}, n)
}
