package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/nodemachine/internal/app"
)

// Environment variables providing flag defaults.
const (
	EnvRedisURL    = "NODEMACHINE_REDIS_URL"
	EnvRendererURL = "NODEMACHINE_RENDERER_URL"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// LoadEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nodemachine", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
NodeMachine - evaluates node graphs built in a visual dataflow editor.

Usage:
  nodemachine [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a graph file (.hcl, .json, .yaml or .yml).

Environment:
  `+EnvRedisURL+`     default for -redis-url
  `+EnvRendererURL+`  default for -renderer-url

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph file.")
	gFlag := flagSet.String("g", "", "Path to the graph file (shorthand).")
	outFlag := flagSet.String("out", "", "Export the evaluated graph to this path. The format follows the extension.")
	sessionFlag := flagSet.String("session", "", "Snapshot name. Loaded when no graph path is given, saved otherwise.")
	snapshotDirFlag := flagSet.String("snapshot-dir", app.DefaultSnapshotDir, "Directory for snapshots when no redis URL is set.")
	redisFlag := flagSet.String("redis-url", os.Getenv(EnvRedisURL), "Redis URL for snapshots.")
	rendererFlag := flagSet.String("renderer-url", os.Getenv(EnvRendererURL), "Socket.io URL of a renderer that receives graph events.")
	namespaceFlag := flagSet.String("renderer-namespace", "/", "Socket.io namespace of the renderer.")
	logFormatFlag := flagSet.String("log-format", "auto", "Log output format. Options: 'text', 'json' or 'auto'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	var sets []app.DataSet
	flagSet.Func("set", "Override node data as <node>.<key>=<value>. Repeatable.", func(s string) error {
		set, err := app.ParseDataSet(s)
		if err != nil {
			return err
		}
		sets = append(sets, set)
		return nil
	})

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" && *sessionFlag == "" {
		slog.Debug("No graph path or session provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "text", "json", "auto":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text', 'json' or 'auto'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GraphPath:         path,
		OutPath:           *outFlag,
		Session:           *sessionFlag,
		SnapshotDir:       *snapshotDirFlag,
		RedisURL:          *redisFlag,
		RendererURL:       *rendererFlag,
		RendererNamespace: *namespaceFlag,
		Sets:              sets,
		LogFormat:         logFormat,
		LogLevel:          logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
