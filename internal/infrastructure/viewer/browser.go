// Package viewer shows downloaded files with the desktop's default handler.
package viewer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"

	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/ports"
)

// Browser writes each blob to a temp file, opens it and removes the file
// after ReleaseDelay. The delay is a fixed timer, not tied to the viewer
// closing. Drain must run before the process exits so no file outlives it.
type Browser struct {
	dir          string
	releaseDelay time.Duration
	open         func(path string) error
	afterFunc    func(d time.Duration, f func()) *time.Timer
	log          zerolog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

var _ ports.Viewer = (*Browser)(nil)

// NewBrowser returns a viewer that writes into dir (os.TempDir when empty).
func NewBrowser(dir string, releaseDelay time.Duration, log zerolog.Logger) *Browser {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Browser{
		dir:          dir,
		releaseDelay: releaseDelay,
		open:         browser.OpenFile,
		afterFunc:    time.AfterFunc,
		log:          log,
		pending:      make(map[string]*time.Timer),
	}
}

// Open writes blob and hands it to the desktop. It returns the temp path.
func (b *Browser) Open(_ context.Context, blob *domain.Blob) (string, error) {
	if blob == nil || len(blob.Data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}

	f, err := os.CreateTemp(b.dir, "stationery-*-"+safeName(blob.Filename))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(blob.Data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	if err := b.open(path); err != nil {
		b.remove(path)
		return "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}

	b.mu.Lock()
	b.wg.Add(1)
	b.pending[path] = b.afterFunc(b.releaseDelay, func() { b.release(path) })
	b.mu.Unlock()

	b.log.Debug().Str("path", path).Dur("release_after", b.releaseDelay).Msg("file opened")
	return path, nil
}

// ReleaseDelay is how long an opened file stays on disk.
func (b *Browser) ReleaseDelay() time.Duration { return b.releaseDelay }

// Pending reports how many opened files have not been released yet.
func (b *Browser) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Drain blocks until every scheduled release has run. If ctx ends first the
// remaining files are removed at once.
func (b *Browser) Drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
	}

	b.mu.Lock()
	paths := make([]string, 0, len(b.pending))
	for path, t := range b.pending {
		if t != nil {
			t.Stop()
		}
		paths = append(paths, path)
	}
	b.mu.Unlock()

	for _, path := range paths {
		b.release(path)
	}
	<-done
}

// release removes path once, whether the timer or Drain gets there first.
func (b *Browser) release(path string) {
	b.mu.Lock()
	_, ok := b.pending[path]
	delete(b.pending, path)
	b.mu.Unlock()
	if !ok {
		return
	}
	b.remove(path)
	b.wg.Done()
}

func (b *Browser) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		b.log.Warn().Err(err).Str("path", path).Msg("release temp file")
	}
}

// safeName keeps the extension so the desktop picks the right handler.
func safeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "file"
	}
	return strings.ReplaceAll(name, "*", "_")
}
