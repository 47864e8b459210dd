// Package fsstore keeps graph snapshots as graph files in a directory, one
// file per snapshot named after it.
package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/nodemachine/internal/fsutil"
	"github.com/specialistvlad/nodemachine/internal/graphfile"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/snapshotstore"
)

// Store is a directory-backed snapshotstore.Store.
type Store struct {
	dir string
	ext string
}

var _ snapshotstore.Store = (*Store)(nil)

// New creates a store writing snapshots into dir with the given extension
// (".hcl", ".json", ".yaml" or ".yml"). Snapshots with any other recognized
// extension found in dir are still listed and loaded.
func New(dir, ext string) (*Store, error) {
	if _, err := graphfile.FormatOf("snapshot" + ext); err != nil {
		return nil, err
	}
	return &Store{dir: dir, ext: ext}, nil
}

// Save writes nodes to <dir>/<name><ext>.
func (s *Store) Save(_ context.Context, name string, nodes node.Map) error {
	if err := snapshotstore.ValidateName(name); err != nil {
		return err
	}
	return graphfile.Save(filepath.Join(s.dir, name+s.ext), nodes)
}

// Load reads the snapshot file for name, preferring the store's own extension.
func (s *Store) Load(_ context.Context, name string) (node.Map, error) {
	path, err := s.find(name)
	if err != nil {
		return nil, err
	}
	return graphfile.Load(path)
}

// List returns the names of the snapshot files directly inside the directory.
func (s *Store) List(_ context.Context) ([]string, error) {
	files, err := fsutil.FindFilesByExtension(s.dir, s.extensions()...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots in %s: %w", s.dir, err)
	}

	var names []string
	for _, f := range files {
		if filepath.Dir(f) != filepath.Clean(s.dir) {
			continue
		}
		base := filepath.Base(f)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes the snapshot file for name.
func (s *Store) Delete(_ context.Context, name string) error {
	path, err := s.find(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete snapshot '%s': %w", name, err)
	}
	return nil
}

func (s *Store) find(name string) (string, error) {
	if err := snapshotstore.ValidateName(name); err != nil {
		return "", err
	}
	for _, ext := range s.extensions() {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: '%s' in %s", snapshotstore.ErrNotFound, name, s.dir)
}

// extensions returns every recognized extension with the store's own first.
func (s *Store) extensions() []string {
	exts := []string{s.ext}
	for _, ext := range slices.Sorted(maps.Keys(graphfile.Extensions)) {
		if ext != s.ext {
			exts = append(exts, ext)
		}
	}
	return exts
}
