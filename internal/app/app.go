package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/nodemachine/internal/ctxlog"
	"github.com/specialistvlad/nodemachine/internal/eventbridge"
	"github.com/specialistvlad/nodemachine/internal/graph"
	"github.com/specialistvlad/nodemachine/internal/graphfile"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/registry"
	"github.com/specialistvlad/nodemachine/internal/snapshotstore"
	"github.com/specialistvlad/nodemachine/internal/snapshotstore/fsstore"
	"github.com/specialistvlad/nodemachine/internal/snapshotstore/redisstore"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Without explicit modules the core node types are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.RegisterModules(modules...)
	logger.Debug("All node type modules registered.", "count", len(modules), "types", reg.Types())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run loads the graph, applies data overrides, prints the rendering of every
// node in id order and writes the requested exports. Nodes that fail to
// evaluate are reported and make Run return an error once every node has
// been printed.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	var store snapshotstore.Store
	if cfg.Session != "" {
		s, closeStore, err := a.openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		store = s
	}

	nodes, err := a.load(ctx, cfg, store)
	if err != nil {
		return err
	}

	g := graph.New(ctx, a.registry)

	if cfg.RendererURL != "" {
		emitter, err := eventbridge.Dial(ctx, eventbridge.DialOptions{URL: cfg.RendererURL, Namespace: cfg.RendererNamespace})
		if err != nil {
			return fmt.Errorf("failed to connect to renderer: %w", err)
		}
		defer emitter.Close()
		detach := eventbridge.New(ctx, emitter, "").Attach(g)
		defer detach()
	}

	dropped := g.Restore(nodes)
	a.logger.Info("Graph loaded.", "nodes", len(g.GetNodes()), "connections", len(g.GetConnections()), "dropped", len(dropped))

	for _, set := range cfg.Sets {
		n, ok := g.Node(set.NodeID)
		if !ok {
			return fmt.Errorf("cannot set '%s' on unknown node '%s'", set.Key, set.NodeID)
		}
		data := maps.Clone(n.Data)
		if data == nil {
			data = map[string]any{}
		}
		data[set.Key] = set.Value
		g.UpdateNode(set.NodeID, node.Patch{Data: data}, graph.UpdateOptions{InvalidateOutput: true})
		a.logger.Debug("Applied data override.", "node_id", set.NodeID, "key", set.Key)
	}

	evalErr := a.printAll(g)

	if cfg.OutPath != "" {
		if err := graphfile.Save(cfg.OutPath, g.Export()); err != nil {
			return err
		}
		a.logger.Info("Graph exported.", "path", cfg.OutPath)
	}
	if store != nil && (cfg.GraphPath != "" || len(cfg.Sets) > 0) {
		if err := store.Save(ctx, cfg.Session, g.Export()); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		a.logger.Info("Session saved.", "session", cfg.Session)
	}

	a.logger.Debug("App.Run method finished.")
	return evalErr
}

// load reads the graph file when one is given, and the session snapshot
// otherwise.
func (a *App) load(ctx context.Context, cfg *Config, store snapshotstore.Store) (node.Map, error) {
	if cfg.GraphPath != "" {
		nodes, err := graphfile.Load(cfg.GraphPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph: %w", err)
		}
		return nodes, nil
	}
	nodes, err := store.Load(ctx, cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return nodes, nil
}

func (a *App) openStore(ctx context.Context, cfg *Config) (snapshotstore.Store, func(), error) {
	if cfg.RedisURL != "" {
		s, err := redisstore.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	s, err := fsstore.New(cfg.SnapshotDir, ".hcl")
	if err != nil {
		return nil, nil, err
	}
	return s, func() {}, nil
}

// printAll writes one block per node: a header line followed by the output
// of the type's render hook, or the raw outputs for types without one.
func (a *App) printAll(g *graph.Manager) error {
	nodes := g.GetNodes()
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(nodes)) {
		n := nodes[id]
		fmt.Fprintf(a.outW, "%s [%s]\n", id, n.Type)

		rendered, err := g.Render(n)
		if err != nil {
			fmt.Fprintf(a.outW, "  error: %v\n", err)
			a.logger.Error("Node evaluation failed.", "node_id", id, "error", err)
			errs = append(errs, fmt.Errorf("node '%s': %w", id, err))
			continue
		}
		if rendered == nil {
			out, _ := g.Resolve(n)
			rendered = formatOutputs(out)
		}
		fmt.Fprintf(a.outW, "  %v\n", rendered)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d node(s) failed to evaluate: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

func formatOutputs(out node.Outputs) string {
	if len(out) == 0 {
		return "(no output)"
	}
	s := ""
	for i, k := range slices.Sorted(maps.Keys(out)) {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%v", k, out[k])
	}
	return s
}
