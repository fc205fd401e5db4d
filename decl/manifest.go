package decl

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pablor21/consty/annotations"
	"gopkg.in/yaml.v3"
)

// Manifest describes declarations without Go source, one output file per manifest.
//
//	package: codes
//	output: ./codes/consty_gen.go
//	enums:
//	  - name: StatusCode
//	    annotations: ["@consty", "@constType(uint32)"]
//	    variants:
//	      - name: Success
//	        annotations: ["@constVal(200)"]
type Manifest struct {
	Package string         `yaml:"package"`
	Output  string         `yaml:"output"`
	Enums   []manifestEnum `yaml:"enums"`

	// Path is the file the manifest was read from, if any.
	Path string `yaml:"-"`
}

type manifestEnum struct {
	Name        string            `yaml:"name"`
	Kind        Kind              `yaml:"kind"`
	Generics    Generics          `yaml:"generics"`
	Annotations []string          `yaml:"annotations"`
	Variants    []manifestVariant `yaml:"variants"`
}

type manifestVariant struct {
	Name         string     `yaml:"name"`
	Fields       *FieldList `yaml:"fields"`
	Discriminant string     `yaml:"discriminant"`
	Annotations  []string   `yaml:"annotations"`
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Package == "" {
		return nil, fmt.Errorf("decode manifest: missing package name")
	}
	return &m, nil
}

// LoadManifest reads and decodes a manifest file. A relative output is
// resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	if m.Output != "" && !filepath.IsAbs(m.Output) {
		m.Output = filepath.Join(filepath.Dir(path), m.Output)
	}
	return m, nil
}

// Declarations converts the manifest entries. Kind defaults to enum.
func (m *Manifest) Declarations() []*Declaration {
	dir := ""
	if m.Output != "" {
		dir = filepath.Dir(m.Output)
	}

	out := make([]*Declaration, 0, len(m.Enums))
	for _, e := range m.Enums {
		d := &Declaration{
			Name:        e.Name,
			Kind:        e.Kind,
			Package:     m.Package,
			PackagePath: m.Package,
			Dir:         dir,
			Generics:    e.Generics,
			Annotations: annotations.ParseLines(e.Annotations),
		}
		if d.Kind == "" {
			d.Kind = KindEnum
		}
		for _, v := range e.Variants {
			d.Variants = append(d.Variants, Variant{
				Name:         v.Name,
				Fields:       v.Fields,
				Discriminant: v.Discriminant,
				Annotations:  annotations.ParseLines(v.Annotations),
			})
		}
		out = append(out, d)
	}
	return out
}
