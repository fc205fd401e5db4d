package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/gen"
	"github.com/pablor21/consty/logger"
	"github.com/pablor21/consty/schema"
	"github.com/pablor21/consty/utils"
)

//go:embed config.yml
var defaultConfigFile embed.FS

// FileNames are the project config files looked up, in order.
var FileNames = []string{"consty.yml", "consty.yaml", "consty.json"}

type Config struct {
	Scanning   ScanningConfig   `json:"scanning" yaml:"scanning"`
	Output     OutputConfig     `json:"output" yaml:"output"`
	Naming     gen.Names        `json:"naming" yaml:"naming"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
	Watcher    *WatcherConfig   `json:"watcher,omitempty" yaml:"watcher,omitempty"`
	LogLevel   *logger.LogLevel `json:"logLevel" yaml:"logLevel"`

	// ConfigDir is the directory of the loaded config file; relative
	// paths are resolved against it.
	ConfigDir string `json:"-" yaml:"-"`
}

type ScanningConfig struct {
	// Packages are go/packages patterns or file globs.
	Packages []string `json:"packages" yaml:"packages"`
	// Manifests are globs of YAML declaration manifests.
	Manifests []string `json:"manifests" yaml:"manifests"`
}

type OutputConfig struct {
	Filename string `json:"filename" yaml:"filename"`
	DryRun   bool   `json:"dry_run" yaml:"dry_run"`
}

// DuplicateValues selects what happens to a variant with several @constVal.
type DuplicateValues string

const (
	DuplicateValuesFirst  DuplicateValues = "first"
	DuplicateValuesReject DuplicateValues = "reject"
)

type ValidationConfig struct {
	Mode            annotations.ValidationMode `json:"mode" yaml:"mode"`
	DuplicateValues DuplicateValues            `json:"duplicate_values" yaml:"duplicate_values"`
}

// WatcherConfig holds file watcher configuration
type WatcherConfig struct {
	Enabled         bool     `json:"enabled" yaml:"enabled"`
	DebounceMs      int      `json:"debounce_ms" yaml:"debounce_ms"`
	AdditionalPaths []string `json:"additional_paths,omitempty" yaml:"additional_paths,omitempty"`
	IgnorePatterns  []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
}

func NewDefaultConfig() *Config {
	// parse default config from embedded file
	config, err := LoadConfigFromFS(defaultConfigFile, "config.yml")
	if err != nil {
		panic("failed to load default config: " + err.Error())
	}
	return config
}

func LoadConfigFromFS(fs embed.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfigFromYAML(data)
}

func LoadConfigFromYAML(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse yaml config: %w", err)
	}
	return &config, nil
}

func LoadConfigFromJSON(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse json config: %w", err)
	}
	return &config, nil
}

// LoadConfigFile reads a YAML or JSON file, picked by extension, and
// merges it over the defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var file *Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		file, err = LoadConfigFromJSON(data)
	} else {
		file, err = LoadConfigFromYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	file.ConfigDir = abs

	cfg := Merge(NewDefaultConfig(), file)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FindConfigFile returns the first of FileNames present in dir.
func FindConfigFile(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if utils.FileExists(path) {
			return path, true
		}
	}
	return "", false
}

// Merge returns base with every field set in override applied on top.
func Merge(base, override *Config) *Config {
	result := *base
	result.Scanning.Packages = append([]string{}, base.Scanning.Packages...)
	result.Scanning.Manifests = append([]string{}, base.Scanning.Manifests...)
	if base.Watcher != nil {
		w := *base.Watcher
		result.Watcher = &w
	}
	if override == nil {
		return &result
	}

	if len(override.Scanning.Packages) > 0 {
		result.Scanning.Packages = append([]string{}, override.Scanning.Packages...)
	}
	if len(override.Scanning.Manifests) > 0 {
		result.Scanning.Manifests = append([]string{}, override.Scanning.Manifests...)
	}
	if override.Output.Filename != "" {
		result.Output.Filename = override.Output.Filename
	}
	if override.Output.DryRun {
		result.Output.DryRun = true
	}

	n := override.Naming
	if n.Method != "" {
		result.Naming.Method = n.Method
	}
	if n.FromFunc != "" {
		result.Naming.FromFunc = n.FromFunc
	}
	if n.ErrorType != "" {
		result.Naming.ErrorType = n.ErrorType
	}
	if n.String != "" {
		result.Naming.String = n.String
	}
	if n.ConstPrefix != "" {
		result.Naming.ConstPrefix = n.ConstPrefix
	}

	if override.Validation.Mode != "" {
		result.Validation.Mode = override.Validation.Mode
	}
	if override.Validation.DuplicateValues != "" {
		result.Validation.DuplicateValues = override.Validation.DuplicateValues
	}
	if override.Watcher != nil {
		w := *override.Watcher
		if w.DebounceMs == 0 && result.Watcher != nil {
			w.DebounceMs = result.Watcher.DebounceMs
		}
		if len(w.IgnorePatterns) == 0 && result.Watcher != nil {
			w.IgnorePatterns = result.Watcher.IgnorePatterns
		}
		result.Watcher = &w
	}
	if override.LogLevel != nil {
		result.LogLevel = override.LogLevel
	}
	if override.ConfigDir != "" {
		result.ConfigDir = override.ConfigDir
	}
	return &result
}

// Validate rejects values the rest of consty cannot act on.
func (c *Config) Validate() error {
	switch c.Validation.Mode {
	case "", annotations.ValidationModeDisabled, annotations.ValidationModeLax, annotations.ValidationModeStrict:
	default:
		return fmt.Errorf("unknown validation mode %q", c.Validation.Mode)
	}
	switch c.Validation.DuplicateValues {
	case "", DuplicateValuesFirst, DuplicateValuesReject:
	default:
		return fmt.Errorf("unknown duplicate_values policy %q", c.Validation.DuplicateValues)
	}
	if c.Watcher != nil && c.Watcher.DebounceMs < 0 {
		return fmt.Errorf("watcher.debounce_ms must not be negative")
	}
	if strings.ContainsAny(c.Output.Filename, `/\`) {
		return fmt.Errorf("output.filename %q must be a file name, not a path", c.Output.Filename)
	}
	return nil
}

// Dir is the directory package patterns and manifests are relative to.
func (c *Config) Dir() string {
	if c.ConfigDir != "" {
		return c.ConfigDir
	}
	wd, _ := os.Getwd()
	return wd
}

// OutputFilename returns the generated file name.
func (c *Config) OutputFilename() string {
	if c.Output.Filename == "" {
		return gen.DefaultFilename
	}
	return c.Output.Filename
}

// Level returns the configured log level.
func (c *Config) Level() logger.LogLevel {
	return utils.DerefPtr(c.LogLevel, logger.LogLevelInfo)
}

// SetLevel overrides the log level.
func (c *Config) SetLevel(l logger.LogLevel) {
	c.LogLevel = utils.Ptr(l)
}

// ValidationMode returns the annotation validation mode.
func (c *Config) ValidationMode() annotations.ValidationMode {
	if c.Validation.Mode == "" {
		return annotations.ValidationModeLax
	}
	return c.Validation.Mode
}

// ExtractOptions translates the config into schema extraction options.
func (c *Config) ExtractOptions() []schema.Option {
	policy := schema.DuplicateFirstWins
	if c.Validation.DuplicateValues == DuplicateValuesReject ||
		(c.Validation.DuplicateValues == "" && c.ValidationMode() == annotations.ValidationModeStrict) {
		policy = schema.DuplicateReject
	}
	return []schema.Option{schema.WithDuplicatePolicy(policy)}
}
