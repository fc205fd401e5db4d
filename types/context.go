package types

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/config"
	"github.com/pablor21/consty/logger"
)

type ProcessContext struct {
	Config *config.Config
	Logger logger.Logger
	// ModulePath and ModuleDir describe the go.mod governing the config
	// directory. Both are empty outside a module.
	ModulePath string
	ModuleDir  string
	// Validator collects annotation findings; nil when validation is disabled.
	Validator *annotations.Validator
}

// NewProcessContext builds a context for cfg, creating the validator the
// config asks for.
func NewProcessContext(cfg *config.Config, log logger.Logger) *ProcessContext {
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	ctx := &ProcessContext{Config: cfg, Logger: log}
	if mode := cfg.ValidationMode(); mode != annotations.ValidationModeDisabled {
		ctx.Validator = annotations.NewValidator(mode, annotations.GetCoreAnnotations())
	}
	return ctx
}

// ImportPath returns the import path of the package in dir, or fallback
// when dir is not inside the module.
func (c *ProcessContext) ImportPath(dir, fallback string) string {
	if c.ModulePath == "" || c.ModuleDir == "" {
		return fallback
	}
	rel, err := filepath.Rel(c.ModuleDir, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fallback
	}
	if rel == "." {
		return c.ModulePath
	}
	return path.Join(c.ModulePath, filepath.ToSlash(rel))
}
