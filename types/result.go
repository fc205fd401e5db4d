package types

import (
	"errors"
	"path/filepath"

	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/decl"
	"github.com/pablor21/consty/gen"
	"github.com/pablor21/consty/schema"
)

// Entry is the outcome for one declaration.
type Entry struct {
	Decl    *decl.Declaration
	Schema  *schema.EnumSchema // nil when Err is set
	Derives gen.DeriveSet
	Err     error
	// Output overrides the generated file path, as manifests may.
	Output string
}

type ProcessResult struct {
	Entries     []*Entry
	Files       []*gen.GeneratedFile
	Diagnostics []annotations.ValidationError
}

func NewProcessResult() *ProcessResult {
	return &ProcessResult{}
}

// Add records an entry.
func (pr *ProcessResult) Add(e *Entry) {
	pr.Entries = append(pr.Entries, e)
}

// Schemas returns the schemas of successful entries in order.
func (pr *ProcessResult) Schemas() []*schema.EnumSchema {
	var out []*schema.EnumSchema
	for _, e := range pr.Entries {
		if e.Err == nil && e.Schema != nil {
			out = append(out, e.Schema)
		}
	}
	return out
}

// Failed returns the entries that could not be extracted.
func (pr *ProcessResult) Failed() []*Entry {
	var out []*Entry
	for _, e := range pr.Entries {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// Err joins the errors of every failed entry, or returns nil.
func (pr *ProcessResult) Err() error {
	var errs []error
	for _, e := range pr.Failed() {
		errs = append(errs, e.Err)
	}
	return errors.Join(errs...)
}

// BuildFiles groups successful entries into one generated file per
// output path, keeping declaration order inside each file.
func (pr *ProcessResult) BuildFiles(filename string, names gen.Names) []*gen.GeneratedFile {
	byPath := map[string]*gen.GeneratedFile{}
	var files []*gen.GeneratedFile

	for _, e := range pr.Entries {
		if e.Err != nil || e.Schema == nil || e.Derives.Empty() {
			continue
		}
		path := e.Output
		if path == "" {
			path = filepath.Join(e.Decl.Dir, filename)
		}
		f, ok := byPath[path]
		if !ok {
			f = &gen.GeneratedFile{Path: path, Package: e.Decl.Package}
			byPath[path] = f
			files = append(files, f)
		}
		f.Enums = append(f.Enums, e.Schema.Name)
		f.Fragments = append(f.Fragments, gen.Generate(e.Schema, e.Derives, names)...)
	}

	pr.Files = files
	return files
}
