package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode is what the source front end needs from go/packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// Ptr returns a pointer to the given value
func Ptr[T any](v T) *T {
	return &v
}

// DerefPtr returns the value pointed to by ptr, or defaultValue if ptr is nil
func DerefPtr[T any](ptr *T, defaultValue T) T {
	if ptr != nil {
		return *ptr
	}
	return defaultValue
}

// EnsureDir makes sure a directory exists
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ExpandGlobs expands patterns with negations. The result is sorted.
// Example:
//
//	"./enums/*.yml", "!./enums/draft.yml"
func ExpandGlobs(patterns ...string) ([]string, error) {
	include := []string{}
	exclude := []string{}

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "!") {
			exclude = append(exclude, strings.TrimPrefix(p, "!"))
		} else {
			include = append(include, p)
		}
	}

	results := map[string]struct{}{}

	for _, pattern := range include {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			results[m] = struct{}{}
		}
	}

	for _, pattern := range exclude {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			delete(results, m)
		}
	}

	out := make([]string, 0, len(results))
	for k := range results {
		out = append(out, k)
	}
	sort.Strings(out)

	return out, nil
}

// UniqueDirs converts file paths to their sorted, unique directories.
func UniqueDirs(files []string) []string {
	dirs := map[string]struct{}{}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		dir := f
		if !info.IsDir() {
			dir = filepath.Dir(f)
		}
		dirs[dir] = struct{}{}
	}

	out := make([]string, 0, len(dirs))
	for d := range dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// LoadPackages loads Go packages relative to dir. Patterns are import paths
// ("./...", "example.com/x") or file globs with exclusions ("./enums/*.go").
// An empty dir means the working directory.
func LoadPackages(dir string, patterns ...string) ([]*packages.Package, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	if !allPatternsAreImportPaths(patterns) {
		var err error
		patterns, err = patternDirs(dir, patterns)
		if err != nil {
			return nil, err
		}
	}

	cfg := &packages.Config{Mode: LoadMode, Dir: dir, Tests: false}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	return pkgs, nil
}

// allPatternsAreImportPaths checks if all patterns look like Go import paths
// or package patterns understood by go/packages.
func allPatternsAreImportPaths(patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if strings.HasPrefix(pattern, "!") {
			return false
		}
		if strings.HasSuffix(pattern, ".go") ||
			(strings.Contains(pattern, "*") && !strings.HasSuffix(pattern, "/...")) {
			return false
		}
	}
	return true
}

// ResolvePatterns makes relative globs, negated or not, relative to base.
// Blank patterns are dropped.
func ResolvePatterns(base string, patterns []string) []string {
	abs := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		neg := strings.HasPrefix(p, "!")
		p = strings.TrimSpace(strings.TrimPrefix(p, "!"))
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		if neg {
			p = "!" + p
		}
		abs = append(abs, p)
	}
	return abs
}

// patternDirs turns file globs into absolute package directories.
func patternDirs(base string, patterns []string) ([]string, error) {
	files, err := ExpandGlobs(ResolvePatterns(base, patterns)...)
	if err != nil {
		return nil, err
	}
	dirs := UniqueDirs(files)
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no directories found from patterns %v", patterns)
	}
	return dirs, nil
}

// GetPackageFullPath attempts to get the full import path for a package
// If pkg.PkgPath is empty or just the package name, it tries to construct it
func GetPackageFullPath(pkg *packages.Package) string {
	if pkg.PkgPath != "" && pkg.PkgPath != pkg.Name {
		return pkg.PkgPath
	}

	if pkg.Module != nil {
		for _, file := range pkg.GoFiles {
			relPath, err := filepath.Rel(pkg.Module.Dir, filepath.Dir(file))
			if err == nil && relPath != "." {
				return pkg.Module.Path + "/" + filepath.ToSlash(relPath)
			}
		}
		return pkg.Module.Path
	}

	return pkg.Name
}

// PackageDir returns the directory holding pkg's Go files.
func PackageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}
	if len(pkg.CompiledGoFiles) > 0 {
		return filepath.Dir(pkg.CompiledGoFiles[0])
	}
	return ""
}
