// Command consty generates constant conversions for annotated enumerations.
//
// Usage:
//
//	consty [flags] [packages]
//
// Without packages the patterns from the config file are used ("./..."
// by default). It is meant to run from a go:generate directive:
//
//	//go:generate go run github.com/pablor21/consty/cmd/consty .
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

	"github.com/davecgh/go-spew/spew"

	"github.com/pablor21/consty"
	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/config"
	"github.com/pablor21/consty/logger"
	"github.com/pablor21/consty/types"
	"github.com/pablor21/consty/watch"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	config    string
	dir       string
	manifests []string
	watch     bool
	dump      bool
	verbose   bool
	dryRun    bool
	strict    bool
	version   bool
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	fs := flag.NewFlagSet("consty", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.config, "config", "", "config file (default: consty.yml, consty.yaml or consty.json in -dir)")
	fs.StringVar(&o.dir, "dir", "", "directory to run in (default: working directory)")
	fs.Func("manifest", "YAML manifest glob, may be repeated", func(s string) error {
		o.manifests = append(o.manifests, s)
		return nil
	})
	fs.BoolVar(&o.watch, "watch", false, "regenerate when sources change")
	fs.BoolVar(&o.dump, "dump", false, "print extracted schemas")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.BoolVar(&o.dryRun, "dry-run", false, "render files without writing them")
	fs.BoolVar(&o.strict, "strict", false, "treat annotation warnings as errors")
	fs.BoolVar(&o.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return o, fs.Args(), nil
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(o *options, packages []string) (*config.Config, error) {
	dir, err := filepath.Abs(o.dir)
	if err != nil {
		return nil, err
	}

	path := o.config
	if path == "" {
		path, _ = config.FindConfigFile(dir)
	}

	cfg := config.NewDefaultConfig()
	if path != "" {
		if cfg, err = config.LoadConfigFile(path); err != nil {
			return nil, err
		}
	}
	if o.config == "" || o.dir != "" {
		cfg.ConfigDir = dir
	}

	override := &config.Config{
		Scanning: config.ScanningConfig{Packages: packages, Manifests: o.manifests},
		Output:   config.OutputConfig{DryRun: o.dryRun},
	}
	if o.strict {
		override.Validation.Mode = annotations.ValidationModeStrict
	}
	if o.verbose {
		override.SetLevel(logger.LogLevelDebug)
	}
	cfg = config.Merge(cfg, override)
	if o.watch {
		if cfg.Watcher == nil {
			cfg.Watcher = &config.WatcherConfig{}
		}
		cfg.Watcher.Enabled = true
	}
	// manifests given on the command line replace scanning the packages
	if len(o.manifests) > 0 && len(packages) == 0 {
		cfg.Scanning.Packages = nil
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, packages, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}
	if o.version {
		fmt.Fprintf(stdout, "consty %s\n", consty.GetVersion())
		return exitOK
	}

	cfg, err := loadConfig(o, packages)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger.SetOutput(stderr)
	logger.SetupLogger(cfg.Level())
	log := logger.NewDefaultLogger()
	pctx := types.NewProcessContext(cfg, log)

	generate := func(ctx context.Context) error {
		res, err := consty.Generate(ctx, pctx)
		if o.dump && res != nil {
			dump(stdout, res)
		}
		return err
	}

	watching := cfg.Watcher != nil && cfg.Watcher.Enabled
	if err := generate(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		if !watching {
			return exitError
		}
	}
	if !watching {
		return exitOK
	}

	w, err := watch.New(cfg.Dir(), cfg.Watcher, generate,
		watch.WithLogger(log),
		watch.WithSkipFiles(cfg.OutputFilename()),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	log.Info("watching for changes", "dir", cfg.Dir())
	if err := w.Run(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	return exitOK
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func dump(w io.Writer, res *types.ProcessResult) {
	for _, s := range res.Schemas() {
		dumper.Fdump(w, s)
	}
	for _, e := range res.Failed() {
		fmt.Fprintf(w, "# %s: %v\n", e.Decl.Name, e.Err)
	}
}
