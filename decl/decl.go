// Package decl holds the raw declarations front ends hand to the schema extractor.
//
// A Declaration is deliberately looser than what consty accepts: it can
// describe structs, generic types and payload-carrying variants so that the
// extractor, not the front end, decides what is rejected and why.
package decl

import (
	"fmt"
	"go/token"

	"github.com/pablor21/consty/annotations"
)

// Kind is the syntactic shape of a declaration.
type Kind string

const (
	KindEnum      Kind = "enum"
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindAlias     Kind = "alias"
	KindOther     Kind = "other"
)

// FieldStyle tells how a variant's payload was written.
type FieldStyle string

const (
	FieldsUnit       FieldStyle = "unit"
	FieldsNamed      FieldStyle = "named"
	FieldsPositional FieldStyle = "positional"
)

// Field is one payload element of a variant.
type Field struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Type string `yaml:"type" json:"type"`
}

// FieldList is the payload of a variant.
type FieldList struct {
	Style  FieldStyle `yaml:"style" json:"style"`
	Fields []Field    `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Empty reports whether the list carries no element, whatever its style.
func (f *FieldList) Empty() bool {
	return f == nil || len(f.Fields) == 0
}

// Generics describes the parameter lists of a declaration.
type Generics struct {
	TypeParams  []string `yaml:"typeParams,omitempty" json:"typeParams,omitempty"`
	Lifetimes   []string `yaml:"lifetimes,omitempty" json:"lifetimes,omitempty"`
	Constraints []string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// IsGeneric reports whether any parameter or constraint is present.
func (g Generics) IsGeneric() bool {
	return len(g.TypeParams) > 0 || len(g.Lifetimes) > 0 || len(g.Constraints) > 0
}

// Variant is one member of an enumeration in declaration order.
type Variant struct {
	Name        string                   `yaml:"name" json:"name"`
	Fields      *FieldList               `yaml:"fields,omitempty" json:"fields,omitempty"`
	Annotations []annotations.Annotation `yaml:"-" json:"-"`
	Position    token.Position           `yaml:"-" json:"-"`

	// Discriminant is the exact value of the variant constant when the
	// front end knows it. Variants sharing a discriminant are aliases.
	Discriminant string `yaml:"discriminant,omitempty" json:"discriminant,omitempty"`
}

// Declaration is a named type together with its annotations and variants.
type Declaration struct {
	Name        string                   `yaml:"name" json:"name"`
	Kind        Kind                     `yaml:"kind" json:"kind"`
	Package     string                   `yaml:"-" json:"package,omitempty"`
	PackagePath string                   `yaml:"-" json:"packagePath,omitempty"`
	Dir         string                   `yaml:"-" json:"dir,omitempty"`
	Generics    Generics                 `yaml:"generics,omitempty" json:"generics,omitempty"`
	Variants    []Variant                `yaml:"variants" json:"variants"`
	Annotations []annotations.Annotation `yaml:"-" json:"-"`
	Position    token.Position           `yaml:"-" json:"-"`

	// ResolveType lets a front end with type information refine a parsed
	// representation type; it reports whether values of the type may be
	// declared as constants. Nil means syntactic guessing.
	ResolveType func(typeExpr string) (constant bool, ok bool) `yaml:"-" json:"-"`
}

// Location formats the declaration position for diagnostics.
func (d *Declaration) Location() string {
	if d.Position.IsValid() {
		return fmt.Sprintf("%s: %s", d.Position, d.Name)
	}
	if d.PackagePath != "" {
		return d.PackagePath + "." + d.Name
	}
	return d.Name
}
