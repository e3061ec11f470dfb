// Package marl is the Composition Root for the marl compiler.
//
// It connects the core transformation logic (Domain Layer) with the parser,
// highlighter and renderer adapters using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// marl compiles Markdown into a neutral "renderable tree" of tags and scalars.
// The tree knows nothing about HTTP, storage or UI frameworks; a presentation
// layer walks it and decides how each tag looks. Custom tags are resolved from
// an injected transform table, so new block types never touch the walker.
//
// Features:
//
//   - **Header Conventions**: YAML frontmatter, "# Title" and "#tag #tag" headers.
//   - **Pluggable Transforms**: register a TransformFunc per tag name.
//   - **Highlighted Fences**: code blocks tokenized by a grammar table built once per process.
//   - **Graceful Fallback**: bad fence attributes or unknown languages render as plain text.
//   - **Neutral Output**: JSON trees compatible with Markdoc renderers, or HTML via pkg/render.
//
// Usage:
//
//	// Build once, at process start
//	c, err := marl.New(
//		marl.WithLogger(logger),
//		marl.WithGrammar("elixir", "elixir", "ex"),
//	)
//
//	// Compile a document
//	res, err := c.Compile(text)
//	fmt.Println(res.Document.Attributes.Title)
package marl
