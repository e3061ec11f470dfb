package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/marl"
	"github.com/aretw0/marl/pkg/adapters/fs"
	"github.com/aretw0/marl/pkg/core"
)

var (
	renderFormat string
	renderOut    string
	renderRoot   string
)

var renderCmd = &cobra.Command{
	Use:   "render [patterns...]",
	Short: "Render Markdown files",
	Long: `Render Markdown files matching the given glob patterns (doublestar syntax,
e.g. "posts/**/*.md"). Use "-" to read a single document from stdin.

Output is HTML by default, or the renderable tree with --format json.
With --out, one file per input is written below the output directory;
otherwise everything goes to stdout.`,
	Run: func(cmd *cobra.Command, args []string) {
		if renderFormat != "html" && renderFormat != "json" {
			fatal("Error", fmt.Errorf("unknown format %q (want html or json)", renderFormat))
		}

		c := newCompiler()

		if len(args) == 1 && args[0] == "-" {
			data, err := readAll(os.Stdin)
			if err != nil {
				fatal("Error reading stdin", err)
			}
			out, err := renderDocument(c, data)
			if err != nil {
				fatal("Error rendering stdin", err)
			}
			fmt.Print(out)
			return
		}

		source := fs.NewSource(fs.Config{Root: renderRoot, Logger: slog.Default()})
		paths, err := source.Expand(args...)
		if err != nil {
			fatal("Error expanding patterns", err)
		}
		if len(paths) == 0 {
			slog.Warn("no files matched", "patterns", args)
			return
		}

		failed := 0
		for _, path := range paths {
			if err := renderFile(c, source, path); err != nil {
				failed++
				slog.Error("render failed", "path", path, "error", err)
			}
		}
		if failed > 0 {
			fatal("Error", fmt.Errorf("%d of %d documents failed", failed, len(paths)))
		}
	},
}

func renderFile(c *marl.Compiler, source *fs.Source, path string) error {
	text, err := source.Read(path)
	if err != nil {
		return err
	}
	out, err := renderDocument(c, text)
	if err != nil {
		return err
	}

	if renderOut == "" {
		fmt.Print(out)
		return nil
	}

	rel, err := filepath.Rel(source.Root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	target := filepath.Join(renderOut, strings.TrimSuffix(rel, filepath.Ext(rel))+"."+renderFormat)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	slog.Info("rendered", "source", path, "target", target)
	return nil
}

// renderDocument compiles text in the selected format.
func renderDocument(c *marl.Compiler, text string) (string, error) {
	if renderFormat == "json" {
		res, err := c.Compile(text)
		if err != nil {
			return "", err
		}
		return encodeResult(res)
	}

	var buf bytes.Buffer
	if _, err := c.RenderHTML(&buf, text); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeResult(res core.Result) (string, error) {
	tree, err := core.MarshalTree(res.Tree)
	if err != nil {
		return "", fmt.Errorf("failed to encode tree: %w", err)
	}
	payload := struct {
		Title string          `json:"title"`
		Tags  []string        `json:"tags"`
		Tree  json.RawMessage `json:"tree"`
	}{
		Title: res.Document.Attributes.Title,
		Tags:  res.Document.Attributes.Tags,
		Tree:  tree,
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return buf.String(), nil
}

func readAll(f *os.File) (string, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "Output format: html or json")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write one file per document into this directory")
	renderCmd.Flags().StringVar(&renderRoot, "root", ".", "Directory patterns are resolved against")
}
