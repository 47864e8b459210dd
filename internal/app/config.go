package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/nodemachine/internal/pinid"
)

// DefaultSnapshotDir is where snapshots are kept when no redis URL is set.
const DefaultSnapshotDir = ".nodemachine"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath string // graph file to evaluate
	OutPath   string // export target, format by extension

	Session     string // snapshot name
	SnapshotDir string
	RedisURL    string

	RendererURL       string
	RendererNamespace string

	// Sets are data overrides applied, with output invalidation, after the
	// graph is loaded.
	Sets []DataSet

	LogFormat string
	LogLevel  string
}

// DataSet overrides one data key of one node.
type DataSet struct {
	NodeID string
	Key    string
	Value  any
}

// ParseDataSet parses `<node>.<key>=<value>`. Values that parse as numbers or
// booleans are stored as float64 or bool, anything else as a string.
func ParseDataSet(s string) (DataSet, error) {
	target, raw, ok := strings.Cut(s, "=")
	if !ok {
		return DataSet{}, fmt.Errorf("invalid set '%s': expected <node>%s<key>=<value>", s, pinid.Separator)
	}
	addr, err := pinid.Parse(target)
	if err != nil {
		return DataSet{}, fmt.Errorf("invalid set '%s': %w", s, err)
	}

	var value any = raw
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		value = f
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}
	return DataSet{NodeID: addr.Node, Key: addr.Pin, Value: value}, nil
}

// NewConfig validates cfg and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" && cfg.Session == "" {
		return nil, errors.New("a graph path or a session name is required")
	}
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = DefaultSnapshotDir
	}
	return &cfg, nil
}
