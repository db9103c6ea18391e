// Package main is the entry point for the textblob command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/textblob/internal/blob"
	"github.com/dshills/textblob/internal/config"
	"github.com/dshills/textblob/internal/demo"
	"github.com/dshills/textblob/internal/logging"
	"github.com/dshills/textblob/internal/script"
	"github.com/dshills/textblob/internal/snapshot"
	"github.com/dshills/textblob/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errHelp signals that usage or version output was requested.
var errHelp = errors.New("help requested")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// options holds parsed command-line flags.
type options struct {
	configPath string
	logLevel   string
	format     string
	query      string
	scriptPath string
	watch      bool
	count      int
}

// execute runs the command and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stdout, stderr)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Output = stderr
	logger := logging.New(logCfg)

	app := &application{cfg: cfg, logger: logger, out: stdout}
	if opts.scriptPath != "" {
		err = app.runScript(ctx, opts.scriptPath, opts.watch)
	} else {
		err = app.runDemo()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stdout, stderr io.Writer) (options, error) {
	var opts options
	var showVersion bool
	var showHelp bool

	fs := flag.NewFlagSet("textblob", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"), "Path to configuration file (TOML or YAML)")
	fs.StringVar(&opts.configPath, "c", os.Getenv(config.EnvPrefix+"CONFIG"), "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.format, "format", "", "Output format (text, lines, both, json, yaml)")
	fs.StringVar(&opts.query, "query", "", "JSON path evaluated against the json rendering")
	fs.StringVar(&opts.scriptPath, "script", "", "Lua script to run against an empty chain")
	fs.BoolVar(&opts.watch, "watch", false, "Re-run the script whenever it changes and print the blob diff")
	fs.IntVar(&opts.count, "count", -1, "Number of numbered blobs in the demo")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "textblob - linked text blob chains\n\n")
		fmt.Fprintf(stderr, "Usage: textblob [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  textblob                          Run the numbered blob demo\n")
		fmt.Fprintf(stderr, "  textblob -format json             Print the demo chain as JSON\n")
		fmt.Fprintf(stderr, "  textblob -query 'entries.#.text'  Query the JSON rendering\n")
		fmt.Fprintf(stderr, "  textblob -script edit.lua -watch  Re-run a script on save\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if showHelp {
		fs.Usage()
		return opts, errHelp
	}

	if showVersion {
		fmt.Fprintf(stdout, "textblob %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errHelp
	}

	if opts.logLevel != "" && !logging.ValidLevel(opts.logLevel) {
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
	}
	if opts.watch && opts.scriptPath == "" {
		return opts, errors.New("-watch requires -script")
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return opts, nil
}

// loadConfig layers flag overrides on top of the loaded configuration.
func loadConfig(opts options) (config.Config, error) {
	var loadOpts []config.LoadOption
	if opts.configPath != "" {
		loadOpts = append(loadOpts, config.WithFile(opts.configPath))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return config.Config{}, err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.query != "" {
		cfg.Output.Query = opts.query
	}
	if opts.count >= 0 {
		cfg.Demo.Count = opts.count
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// application carries what a single command invocation needs.
type application struct {
	cfg    config.Config
	logger *logging.Logger
	out    io.Writer
}

// newChain creates a chain with room for capacity blobs before it grows.
func (a *application) newChain(capacity int) *blob.Chain {
	return blob.New(
		blob.WithMaxBlobs(a.cfg.Chain.MaxBlobs),
		blob.WithCapacity(capacity),
		blob.WithLogger(a.logger.WithComponent("chain")),
	)
}

func (a *application) runDemo() error {
	c := a.newChain(a.cfg.Demo.Count)
	opts := demo.Options{
		Count:  a.cfg.Demo.Count,
		Stride: a.cfg.Demo.Stride,
		Phase:  a.cfg.Demo.Phase,
		Reach:  a.cfg.Demo.Reach,
	}

	a.logger.Info("running demo with %d blobs", opts.Count)
	if _, err := demo.Run(c, opts); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	a.logger.Info("demo finished with %d blobs", c.Len())

	return a.emit(c)
}

// emit prints c in the configured format, or the query result when a query
// is configured.
func (a *application) emit(c *blob.Chain) error {
	if a.cfg.Output.Query != "" {
		doc, err := snapshot.EncodeJSON(snapshot.Take(c))
		if err != nil {
			return err
		}
		result, err := snapshot.Query(doc, a.cfg.Output.Query)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, result)
		return err
	}

	format, err := snapshot.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return err
	}
	return snapshot.Render(a.out, c, format)
}

// runScript runs the Lua script at path against a fresh chain. With watch set
// it keeps re-running the script after each change until ctx is done.
func (a *application) runScript(ctx context.Context, path string, watch bool) error {
	if !watch {
		_, err := a.runScriptOnce(ctx, path)
		return err
	}

	w, err := watcher.New(path,
		watcher.WithDebounce(time.Duration(a.cfg.Script.WatchDebounceMs)*time.Millisecond),
		watcher.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	a.logger.Info("watching %s", w.Path())

	var previous *snapshot.Snapshot
	return w.Run(ctx, func(ctx context.Context) error {
		c, err := a.runScriptOnce(ctx, path)
		if err != nil {
			return err
		}
		current := snapshot.Take(c)
		if previous != nil {
			if err := a.writeDiff(*previous, current); err != nil {
				return err
			}
		}
		previous = &current
		return nil
	})
}

// writeDiff prints the blob lines that changed between two runs.
func (a *application) writeDiff(before, after snapshot.Snapshot) error {
	d, err := snapshot.Diff(before, after)
	if err != nil || d == "" {
		return err
	}
	_, err = io.WriteString(a.out, d)
	return err
}

func (a *application) runScriptOnce(ctx context.Context, path string) (*blob.Chain, error) {
	if a.cfg.Script.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.cfg.Script.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	c := a.newChain(0)
	state := script.NewState(script.WithOperationLimit(a.cfg.Script.OperationLimit))
	defer state.Close()
	script.Bind(state, c, a.out)

	a.logger.Info("running script %s", path)
	if err := state.DoFile(ctx, path); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	a.logger.Info("script finished with %d blobs after %d chain operations",
		c.Len(), state.Sandbox().Operations())

	if a.cfg.Output.Query != "" {
		return c, a.emit(c)
	}
	return c, nil
}
