package viewer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

func TestBrowser_OpenWritesAndSchedulesRelease(t *testing.T) {
	b := NewBrowser(t.TempDir(), 30*time.Second, zerolog.Nop())

	var opened string
	var delay time.Duration
	var release func()
	b.open = func(path string) error { opened = path; return nil }
	b.afterFunc = func(d time.Duration, f func()) *time.Timer {
		delay, release = d, f
		return nil
	}

	path, err := b.Open(context.Background(), &domain.Blob{Filename: "thesis.pdf", Data: []byte("%PDF")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != path || !strings.HasSuffix(path, "thesis.pdf") {
		t.Fatalf("unexpected path %q (opened %q)", path, opened)
	}
	if raw, _ := os.ReadFile(path); string(raw) != "%PDF" {
		t.Fatalf("unexpected file contents %q", raw)
	}
	if delay != 30*time.Second {
		t.Fatalf("unexpected release delay %v", delay)
	}

	release()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp file removed, stat err = %v", err)
	}
}

func TestBrowser_OpenFailureRemovesAtOnce(t *testing.T) {
	dir := t.TempDir()
	b := NewBrowser(dir, time.Hour, zerolog.Nop())
	b.open = func(string) error { return errors.New("no display") }

	if _, err := b.Open(context.Background(), &domain.Blob{Filename: "x.pdf", Data: []byte("x")}); err == nil {
		t.Fatalf("expected open error")
	}
	if left, _ := os.ReadDir(dir); len(left) != 0 {
		t.Fatalf("expected no temp file, found %d", len(left))
	}
	if b.Pending() != 0 {
		t.Fatalf("nothing should be pending, got %d", b.Pending())
	}
}

func TestBrowser_DrainWaitsForRelease(t *testing.T) {
	dir := t.TempDir()
	b := NewBrowser(dir, 20*time.Millisecond, zerolog.Nop())
	b.open = func(string) error { return nil }

	for _, name := range []string{"a.pdf", "b.pdf"} {
		if _, err := b.Open(context.Background(), &domain.Blob{Filename: name, Data: []byte("x")}); err != nil {
			t.Fatalf("Open %s: %v", name, err)
		}
	}
	if b.Pending() != 2 {
		t.Fatalf("expected 2 pending, got %d", b.Pending())
	}

	start := time.Now()
	b.Drain(context.Background())
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("Drain returned before the release delay")
	}
	if left, _ := os.ReadDir(dir); len(left) != 0 {
		t.Fatalf("expected temp files released, found %d", len(left))
	}
}

func TestBrowser_DrainCancelledRemovesNow(t *testing.T) {
	dir := t.TempDir()
	b := NewBrowser(dir, time.Hour, zerolog.Nop())
	b.open = func(string) error { return nil }

	path, err := b.Open(context.Background(), &domain.Blob{Filename: "c.pdf", Data: []byte("x")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		b.Drain(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Drain did not honour ctx")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed, stat err = %v", filepath.Base(path), err)
	}
	if b.Pending() != 0 {
		t.Fatalf("nothing should be pending, got %d", b.Pending())
	}
}

func TestBrowser_RejectsEmptyBlob(t *testing.T) {
	b := NewBrowser(t.TempDir(), time.Second, zerolog.Nop())
	if _, err := b.Open(context.Background(), &domain.Blob{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
