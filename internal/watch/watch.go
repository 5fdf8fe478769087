// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch resolves books dropped into a directory. Each newly created
// file's name stem (extension stripped) is treated as a resolution query,
// which suits ebook files named after their title and author.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/bookdex/internal/importer"
)

// Watcher resolves file-creation events in a drop directory.
type Watcher struct {
	Dir      string
	Resolver importer.Resolver
}

// Run watches the drop directory until ctx is cancelled. Resolution
// failures are logged and never stop the watch loop.
func (wa *Watcher) Run(ctx context.Context, w io.Writer) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(wa.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", wa.Dir, err)
	}
	fmt.Fprintf(w, "watching: %s\n", wa.Dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			wa.handleEvent(ctx, event, w)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "watch error: %v\n", err)
		}
	}
}

// handleEvent resolves one creation event. Split out from the fsnotify loop
// so it can be tested without real filesystem events.
func (wa *Watcher) handleEvent(ctx context.Context, event fsnotify.Event, w io.Writer) {
	if !event.Has(fsnotify.Create) {
		return
	}
	query := queryFromPath(event.Name)
	if query == "" {
		return
	}

	fmt.Fprintf(w, "new file: %s\n", filepath.Base(event.Name))
	if _, _, err := wa.Resolver.Resolve(ctx, query, w); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", query, err)
	}
}

// queryFromPath turns a dropped file path into a query. Hidden files and
// editor temp files are ignored.
func queryFromPath(path string) string {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") {
		return ""
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(stem)
}
