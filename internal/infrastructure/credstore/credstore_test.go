package credstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/pkg/config"
)

func roundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if v, err := s.Get(ctx, domain.KeyAccessToken); err != nil || v != "" {
		t.Fatalf("expected empty value, got %q, %v", v, err)
	}
	if err := s.Set(ctx, domain.KeyAccessToken, "A1"); err != nil {
		t.Fatalf("set access: %v", err)
	}
	if err := s.Set(ctx, domain.KeyRefreshToken, "R1"); err != nil {
		t.Fatalf("set refresh: %v", err)
	}
	if v, _ := s.Get(ctx, domain.KeyAccessToken); v != "A1" {
		t.Fatalf("expected A1, got %q", v)
	}
	if err := s.Delete(ctx, domain.KeyAccessToken, domain.KeyRefreshToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, k := range []string{domain.KeyAccessToken, domain.KeyRefreshToken} {
		if v, _ := s.Get(ctx, k); v != "" {
			t.Fatalf("expected %s to be cleared, got %q", k, v)
		}
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	roundTrip(t, NewMemory())
}

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")
	roundTrip(t, NewFile(path, "default"))
}

func TestFile_PermissionsAndProfiles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	day := NewFile(path, "day")
	night := NewFile(path, "night")

	if err := day.Set(ctx, domain.KeyAccessToken, "D1"); err != nil {
		t.Fatalf("set day: %v", err)
	}
	if err := night.Set(ctx, domain.KeyAccessToken, "N1"); err != nil {
		t.Fatalf("set night: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}

	if v, _ := day.Get(ctx, domain.KeyAccessToken); v != "D1" {
		t.Fatalf("day profile saw %q", v)
	}
	if err := night.Delete(ctx, domain.KeyAccessToken); err != nil {
		t.Fatalf("delete night: %v", err)
	}
	if v, _ := day.Get(ctx, domain.KeyAccessToken); v != "D1" {
		t.Fatalf("deleting night cleared day: %q", v)
	}

	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "night") {
		t.Fatalf("expected empty profile to be dropped, got:\n%s", raw)
	}
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	if err := os.WriteFile(path, []byte("profiles: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path, "default").Get(context.Background(), domain.KeyAccessToken); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Credentials.Backend = config.BackendMemory
	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("expected *Memory, got %T", s)
	}

	cfg.Credentials.Backend = config.BackendFile
	cfg.Credentials.File = filepath.Join(t.TempDir(), "c.yaml")
	cfg.Credentials.Profile = "default"
	s, err = Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if _, ok := s.(*File); !ok {
		t.Fatalf("expected *File, got %T", s)
	}

	cfg.Credentials.Backend = "etcd"
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}
