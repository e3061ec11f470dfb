package core_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl/pkg/core"
)

func sampleAST() *core.Tag {
	return core.NewTag("document", core.Attributes{"title": core.String("Doc")},
		core.NewTag("heading", core.Attributes{"level": core.Number(1)}, core.String("Title")),
		&core.Tag{Name: "paragraph", Children: []core.Node{
			core.String("Some "),
			&core.Tag{Name: "em", Children: []core.Node{core.String("body")}},
			&core.Tag{Name: "softbreak"},
			core.String("text."),
		}},
		&core.Tag{Name: "list", Attributes: core.Attributes{"ordered": core.Bool(false)}, Children: []core.Node{
			&core.Tag{Name: "item", Children: []core.Node{core.String("one")}},
		}},
	)
}

func TestTransformer_DefaultIsIdentity(t *testing.T) {
	ast := sampleAST()
	tree := core.NewTransformer(nil).Transform(ast)

	assert.Equal(t, ast, tree)
	assert.NotSame(t, ast, tree, "default transform builds a new tree")
}

func TestTransformer_ScalarsPassThrough(t *testing.T) {
	tr := core.NewTransformer(core.NewRegistry())
	for _, s := range []core.Node{
		core.Null{}, core.Bool(true), core.Number(3), core.String("x"),
		core.Array{core.String("a")}, core.Object{"k": core.Number(1)},
	} {
		assert.Equal(t, s, tr.Transform(s))
	}
	assert.Equal(t, core.Null{}, tr.Transform(nil))
}

func TestTransformer_RegisteredTransformIsUsed(t *testing.T) {
	registry := core.NewRegistry().Register("em", func(tag *core.Tag, children core.ChildTransformer) core.Node {
		return core.NewTag("Emphasis", core.Attributes{"tone": core.String("loud")}, children(tag.Children)...)
	})

	tree := core.NewTransformer(registry).Transform(sampleAST())

	doc := tree.(*core.Tag)
	para := doc.Children[1].(*core.Tag)
	em := para.Children[1].(*core.Tag)
	assert.Equal(t, "Emphasis", em.Name)
	assert.Equal(t, core.String("loud"), em.Attributes["tone"])
	assert.Equal(t, []core.Node{core.String("body")}, em.Children)

	// Siblings still use the default transform.
	assert.Equal(t, "heading", doc.Children[0].(*core.Tag).Name)
}

func TestTransformer_WrapsTransformedChildren(t *testing.T) {
	upper := func(tag *core.Tag, children core.ChildTransformer) core.Node {
		return core.String(strings.ToUpper(core.Text(tag)))
	}
	section := func(tag *core.Tag, children core.ChildTransformer) core.Node {
		return core.NewTag("Section", nil, children(tag.Children)...)
	}
	registry := core.NewRegistry().Register("item", upper).Register("list", section)

	tree := core.NewTransformer(registry).Transform(sampleAST())

	list := tree.(*core.Tag).Children[2].(*core.Tag)
	assert.Equal(t, "Section", list.Name)
	assert.Equal(t, []core.Node{core.String("ONE")}, list.Children)
}

func TestTransformer_DoesNotMutateInput(t *testing.T) {
	ast := sampleAST()
	before := sampleAST()

	registry := core.NewRegistry().Register("heading", func(tag *core.Tag, children core.ChildTransformer) core.Node {
		out := core.DefaultTransform(tag, children).(*core.Tag)
		out.Attributes["id"] = core.String("title")
		return out
	})
	core.NewTransformer(registry).Transform(ast)

	assert.Equal(t, before, ast)
}

func TestTransformer_NilResultBecomesNull(t *testing.T) {
	registry := core.NewRegistry().Register("softbreak", func(*core.Tag, core.ChildTransformer) core.Node {
		return nil
	})
	tree := core.NewTransformer(registry).Transform(sampleAST())
	para := tree.(*core.Tag).Children[1].(*core.Tag)
	assert.Equal(t, core.Null{}, para.Children[2])
}

func TestTransformer_Concurrent(t *testing.T) {
	tr := core.NewTransformer(core.NewRegistry())
	ast := sampleAST()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, ast, tr.Transform(ast))
		}()
	}
	wg.Wait()
}

func TestRegistry(t *testing.T) {
	r := core.NewRegistry()
	require.NotNil(t, r.Resolve("anything"))

	called := false
	r.Register("b", func(*core.Tag, core.ChildTransformer) core.Node { called = true; return core.Null{} })
	r.Register("a", core.DefaultTransform)
	assert.Equal(t, []string{"a", "b"}, r.Names())

	r.Resolve("b")(&core.Tag{Name: "b"}, nil)
	assert.True(t, called)
}
