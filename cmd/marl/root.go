package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/marl"
)

var (
	verbose    bool
	style      string
	unsafeHTML bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marl",
	Short: "Compile Markdown into renderable trees with highlighted code fences",
	Long: `marl parses Markdown (with frontmatter and "# Title" / "#tag" headers),
transforms code fences into syntax-highlighted blocks and writes the result
as a neutral JSON tree or as HTML.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&style, "style", "github", "Chroma style for generated CSS")
	rootCmd.PersistentFlags().BoolVar(&unsafeHTML, "unsafe-html", false, "Do not sanitize raw HTML in Markdown")
}

// newCompiler builds the process-wide compiler from the persistent flags.
func newCompiler() *marl.Compiler {
	c, err := marl.New(
		marl.WithLogger(slog.Default()),
		marl.WithStyle(style),
		marl.WithUnsafeHTML(unsafeHTML),
	)
	if err != nil {
		fatal("Error initializing compiler", err)
	}
	return c
}
