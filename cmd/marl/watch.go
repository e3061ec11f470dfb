package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/marl/pkg/adapters/fs"
	"github.com/aretw0/marl/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Re-render documents whenever they change",
	Long: `Watch the root directory and re-render every changed document matching
the pattern (default "**/*.{md,markdown,mdoc}") into the --out directory.
Intended as a live preview while editing.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if renderOut == "" {
			fatal("Error", fmt.Errorf("--out is required for watch"))
		}
		pattern := fs.DefaultPattern
		if len(args) == 1 {
			pattern = args[0]
		}

		c := newCompiler()
		source := fs.NewSource(fs.Config{
			Root:   renderRoot,
			Logger: slog.Default(),
			ErrorHandler: func(err error) {
				slog.Warn("watch error", "error", err)
			},
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := source.Watch(ctx, pattern)
		if err != nil {
			fatal("Error starting watcher", err)
		}
		slog.Info("watching", "root", source.Root, "pattern", pattern, "out", renderOut)

		done := make(chan struct{})
		lifecycle.Go(ctx, func(ctx context.Context) error {
			defer close(done)
			for e := range events {
				switch e.Type {
				case core.EventDelete:
					removeOutput(source, e.Path)
				default:
					if err := renderFile(c, source, e.Path); err != nil {
						slog.Error("render failed", "path", e.Path, "error", err)
					}
				}
			}
			return nil
		}, lifecycle.WithErrorHandler(func(err error) {
			slog.Error("watch loop panic", "error", err)
		}))

		<-done
		slog.Info("watch stopped")
	},
}

func removeOutput(source *fs.Source, path string) {
	rel, err := filepath.Rel(source.Root, path)
	if err != nil {
		return
	}
	target := filepath.Join(renderOut, strings.TrimSuffix(rel, filepath.Ext(rel))+"."+renderFormat)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove output", "target", target, "error", err)
		return
	}
	slog.Info("removed", "target", target)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "Output format: html or json")
	watchCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Directory to write rendered documents into")
	watchCmd.Flags().StringVar(&renderRoot, "root", ".", "Directory to watch")
}
