package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/gosemchunk/internal/config"
	"github.com/dshills/gosemchunk/internal/logging"
	"github.com/dshills/gosemchunk/internal/mcp"
	"github.com/dshills/gosemchunk/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const usage = `Usage:
  semchunk [flags] [files...]   Chunk files (or stdin) to JSON lines
  semchunk serve [flags]        Run the MCP server on stdio
  semchunk --version            Print version information

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "semchunk: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-version", "version":
			printVersion(stdout)
			return nil
		case "serve":
			return serve(ctx, args[1:], stdin, stdout, stderr)
		}
	}
	return chunkFiles(ctx, args, stdin, stdout, stderr)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "semchunk\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Build Mode: %s\n", storage.BuildMode)
	fmt.Fprintf(w, "SQLite Driver: %s\n", storage.DriverName)
}

// options holds command line flags; they override the loaded config
type options struct {
	configPath string
	tokenizer  string
	size       int
	overlap    float64
	workers    int
	dbPath     string
	logLevel   string
	textOnly   bool

	fs *flag.FlagSet
}

func parseFlags(name string, args []string, stderr io.Writer) (*options, error) {
	opts := &options{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	fs := opts.fs
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.tokenizer, "tokenizer", "", "tokenizer name (words, chars, cl100k_base, gpt-4o, ...)")
	fs.IntVar(&opts.size, "size", 0, "maximum tokens per chunk")
	fs.Float64Var(&opts.overlap, "overlap", 0, "overlap: below 1 a ratio of size, otherwise tokens")
	fs.IntVar(&opts.workers, "workers", 0, "concurrent workers")
	fs.StringVar(&opts.dbPath, "db", "", "SQLite database to store chunks in")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&opts.textOnly, "text", false, "print one JSON array of chunk texts per input")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// loadConfig loads the config file and environment, then applies flags
// that were given explicitly
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tokenizer":
			cfg.Tokenizer = o.tokenizer
		case "size":
			cfg.ChunkSize = o.size
		case "overlap":
			cfg.SetOverlap(o.overlap)
		case "workers":
			cfg.Workers = o.workers
		case "db":
			cfg.DBPath = o.dbPath
		case "log-level":
			cfg.LogLevel = o.logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup parses flags and builds the config and logger shared by both commands
func setup(name string, args []string, stderr io.Writer) (*options, *config.Config, *zap.Logger, error) {
	opts, err := parseFlags(name, args, stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := logging.Build(cfg.LogLevel, cfg.LogOutput)
	if err != nil {
		return nil, nil, nil, err
	}
	return opts, cfg, logger, nil
}

// openStorage opens the configured database, or returns nil when none is set
func openStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	path, err := cfg.ResolvedDBPath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened database", zap.String("path", path), zap.String("build_mode", storage.BuildMode))
	return store, nil
}

func serve(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	_, cfg, logger, err := setup("semchunk serve", args, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg, store, logger)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	logger.Info("semchunk MCP server starting", zap.String("version", version))
	if err := server.Listen(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
