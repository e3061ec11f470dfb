// Package fs reads Markdown sources from the local filesystem and watches
// them for changes.
package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/marl/pkg/core"
)

// DefaultPattern selects every Markdown file below the root.
const DefaultPattern = "**/*.{md,markdown,mdoc}"

// Config holds the Source configuration.
type Config struct {
	Root   string
	Logger *slog.Logger
	// ErrorHandler receives non-fatal watcher errors. Optional.
	ErrorHandler func(error)
}

// Source resolves patterns to files under Root.
type Source struct {
	Root   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
}

// NewSource creates a Source rooted at config.Root (the working directory when empty).
func NewSource(config Config) *Source {
	if config.Root == "" {
		config.Root = "."
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Source{Root: config.Root, config: config}
}

// Expand resolves doublestar patterns relative to Root and returns the
// matching regular files as paths joined with Root, sorted and deduplicated.
// A pattern naming an existing file is returned as is.
func (s *Source) Expand(patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}

	fsys := os.DirFS(s.Root)
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimPrefix(pattern, "./"))
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
		}
		s.config.Logger.Debug("pattern expanded", "pattern", pattern, "matches", len(matches))

		for _, m := range matches {
			if isHidden(m) {
				continue
			}
			path := filepath.Join(s.Root, filepath.FromSlash(m))
			if !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

// Read returns the content of a source file.
func (s *Source) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Watch emits an event for every change to a file matching pattern. The
// channel is closed once ctx is cancelled and the watcher has shut down.
func (s *Source) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// recursiveAdd registers Root and every non-hidden directory below it.
func (s *Source) recursiveAdd(watcher interface{ Add(string) error }) error {
	return filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != s.Root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// relative returns path relative to Root in slash form.
func (s *Source) relative(path string) (string, error) {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (s *Source) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

// isHidden reports whether any element of a slash path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
		if part == "node_modules" {
			return true
		}
	}
	return false
}
