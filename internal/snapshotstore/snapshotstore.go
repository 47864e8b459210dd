// Package snapshotstore defines where named graph snapshots are kept between
// editing sessions. A snapshot is the exported node map of a graph.
//
// Implementations live in subpackages: fsstore keeps one graph file per
// snapshot in a directory, redisstore keeps one key per snapshot.
package snapshotstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/nodemachine/internal/node"
)

// ErrNotFound is returned by Load and Delete for unknown snapshot names.
var ErrNotFound = errors.New("snapshot not found")

// Store persists named graph snapshots.
type Store interface {
	// Save stores nodes under name, replacing any previous snapshot.
	Save(ctx context.Context, name string, nodes node.Map) error
	// Load returns the snapshot stored under name, or ErrNotFound.
	Load(ctx context.Context, name string) (node.Map, error)
	// List returns the names of all snapshots in lexical order.
	List(ctx context.Context) ([]string, error)
	// Delete removes a snapshot, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
}

// ValidateName rejects snapshot names that cannot be mapped safely onto a
// file name or a key suffix.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("snapshot name must not be empty")
	case strings.ContainsAny(name, `/\*?[]`) || name == "." || name == "..":
		return fmt.Errorf("invalid snapshot name '%s'", name)
	}
	return nil
}
