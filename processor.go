package consty

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/config"
	"github.com/pablor21/consty/decl"
	"github.com/pablor21/consty/gen"
	"github.com/pablor21/consty/logger"
	"github.com/pablor21/consty/parser"
	"github.com/pablor21/consty/schema"
	"github.com/pablor21/consty/types"
	"github.com/pablor21/consty/utils"
)

// ErrValidation is returned when strict annotation validation found errors.
var ErrValidation = errors.New("consty: annotation validation failed")

// Process processes Go packages with default configuration
func Process() (*types.ProcessResult, error) {
	return ProcessWithConfig(config.NewDefaultConfig())
}

// ProcessWithConfig processes Go packages with the provided configuration
func ProcessWithConfig(cfg *config.Config) (*types.ProcessResult, error) {
	return ProcessWithContext(newContext(cfg))
}

func newContext(cfg *config.Config) *types.ProcessContext {
	logger.SetupLogger(cfg.Level())
	return types.NewProcessContext(cfg, logger.NewDefaultLogger())
}

// ProcessWithContext loads every declaration the config names, extracts
// schemas and prepares the generated files without writing them.
// A declaration that fails extraction is skipped; the others still
// produce code and the returned error joins every failure.
func ProcessWithContext(ctx *types.ProcessContext) (*types.ProcessResult, error) {
	if ctx.Validator != nil {
		ctx.Validator.Reset()
	}
	if ctx.ModulePath == "" {
		ctx.ModuleDir, ctx.ModulePath = findModule(ctx.Config.Dir())
	}
	entries, err := loadDeclarations(ctx)
	if err != nil {
		return nil, err
	}

	res := types.NewProcessResult()
	opts := append(ctx.Config.ExtractOptions(), schema.WithWarnings(func(location, message string) {
		ctx.Logger.Warn(message, "at", location)
	}))
	defs := annotations.GetCoreAnnotations()
	consty := defs.MustSpec(annotations.NameConsty)

	for _, e := range entries {
		s, err := schema.Extract(e.Decl, opts...)
		if err != nil {
			ctx.Logger.Error(err.Error())
			e.Err = err
			res.Add(e)
			continue
		}
		e.Schema = s

		e.Derives = gen.AllDerives()
		if ann, n := annotations.Find(e.Decl.Annotations, consty); n > 0 {
			var unknown []string
			e.Derives, unknown = gen.ParseDerives(ann, defs)
			for _, u := range unknown {
				ctx.Logger.Warn(fmt.Sprintf("unknown generator %q ignored", u), "at", e.Decl.Location())
			}
		}
		ctx.Logger.Debug("extracted", "enum", s.Name, "kind", s.Kind.String(), "type", s.Type.Text, "variants", len(s.Variants))
		res.Add(e)
	}

	res.BuildFiles(ctx.Config.OutputFilename(), ctx.Config.Naming)

	err = res.Err()
	if ctx.Validator != nil {
		ctx.Validator.LogErrors(ctx.Logger)
		res.Diagnostics = ctx.Validator.GetErrors()
		if ctx.Validator.Mode() == annotations.ValidationModeStrict && ctx.Validator.HasErrors() {
			err = errors.Join(err, ErrValidation)
		}
	}
	return res, err
}

// Generate processes and writes the generated files. Files for valid
// declarations are written even when other declarations failed.
func Generate(ctx context.Context, pctx *types.ProcessContext) (*types.ProcessResult, error) {
	res, perr := ProcessWithContext(pctx)
	if res == nil {
		return nil, perr
	}
	w := gen.NewWriter(GetVersion(), gen.WithLogger(pctx.Logger), gen.WithDryRun(pctx.Config.Output.DryRun))
	if err := w.WriteAll(ctx, res.Files); err != nil {
		return res, errors.Join(perr, err)
	}
	m := w.Metrics()
	pctx.Logger.Info(fmt.Sprintf("consty: %d enums, %d files written, %d unchanged", len(res.Schemas()), m.FilesWritten, m.FilesUnchanged))
	return res, perr
}

// loadDeclarations collects declarations from Go packages and manifests.
func loadDeclarations(ctx *types.ProcessContext) ([]*types.Entry, error) {
	cfg := ctx.Config
	dir := cfg.Dir()
	var entries []*types.Entry

	if len(cfg.Scanning.Packages) > 0 {
		ctx.Logger.Debug("loading packages", "module", ctx.ModulePath, "patterns", cfg.Scanning.Packages)
		p := parser.NewParser(
			parser.WithLogger(ctx.Logger),
			parser.WithValidator(ctx.Validator),
			parser.WithSkipFiles(cfg.OutputFilename()),
		)
		decls, err := p.Load(dir, cfg.Scanning.Packages...)
		if err != nil {
			return nil, fmt.Errorf("failed to load packages: %w", err)
		}
		for _, d := range decls {
			entries = append(entries, &types.Entry{Decl: d})
		}
	}

	if len(cfg.Scanning.Manifests) > 0 {
		paths, err := utils.ExpandGlobs(utils.ResolvePatterns(dir, cfg.Scanning.Manifests)...)
		if err != nil {
			return nil, fmt.Errorf("expand manifests: %w", err)
		}
		for _, path := range paths {
			m, err := decl.LoadManifest(path)
			if err != nil {
				return nil, err
			}
			for _, d := range m.Declarations() {
				if ctx.Validator != nil {
					ctx.Validator.Validate(d.Annotations, annotations.AnnotationValidOnEnum, d.Location())
					for _, v := range d.Variants {
						ctx.Validator.Validate(v.Annotations, annotations.AnnotationValidOnEnumValue, d.Location()+"."+v.Name)
					}
				}
				if d.Dir == "" {
					d.Dir = filepath.Dir(path)
				}
				d.PackagePath = ctx.ImportPath(d.Dir, d.PackagePath)
				entries = append(entries, &types.Entry{Decl: d, Output: m.Output})
			}
		}
	}

	return entries, nil
}

// findModule locates the go.mod governing dir and returns its directory
// and module path.
func findModule(dir string) (root, modulePath string) {
	for {
		content, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			return dir, modfile.ModulePath(content)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}
