package credstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// fileDocument is the on-disk layout: one section per profile.
//
//	profiles:
//	  default:
//	    access_token: ...
//	    refresh_token: ...
type fileDocument struct {
	Profiles map[string]map[string]string `yaml:"profiles"`
}

// File persists credentials in a YAML file readable only by the owner.
// Every call re-reads the file so concurrent CLI invocations see each
// other's writes.
type File struct {
	mu      sync.Mutex
	path    string
	profile string
}

func NewFile(path, profile string) *File {
	return &File{path: path, profile: profile}
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", err
	}
	return doc.Profiles[f.profile][key], nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	if doc.Profiles[f.profile] == nil {
		doc.Profiles[f.profile] = make(map[string]string)
	}
	doc.Profiles[f.profile][key] = value
	return f.write(doc)
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	section := doc.Profiles[f.profile]
	if len(section) == 0 {
		return nil
	}
	for _, k := range keys {
		delete(section, k)
	}
	if len(section) == 0 {
		delete(doc.Profiles, f.profile)
	}
	return f.write(doc)
}

// Ping reports whether the credential directory is usable.
func (f *File) Ping(context.Context) error {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func (f *File) Close() error { return nil }

func (f *File) read() (*fileDocument, error) {
	doc := &fileDocument{Profiles: map[string]map[string]string{}}
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if err := yaml.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", f.path, err)
	}
	if doc.Profiles == nil {
		doc.Profiles = map[string]map[string]string{}
	}
	return doc, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (f *File) write(doc *fileDocument) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
