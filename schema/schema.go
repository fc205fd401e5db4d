// Package schema validates raw declarations into immutable enum schemas.
package schema

import (
	"fmt"

	"github.com/pablor21/consty/syntax"
)

// Kind selects where variant values come from. Exactly one applies to a schema.
type Kind int

const (
	// Discriminant values are the variant constants themselves, converted to the representation type.
	Discriminant Kind = iota + 1
	// Associated values are explicit constant expressions, one per variant.
	Associated
)

func (k Kind) String() string {
	switch k {
	case Discriminant:
		return "discriminant"
	case Associated:
		return "associated"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ValueSource is either the variant's discriminant or an explicit expression.
type ValueSource struct {
	Kind Kind
	Expr syntax.ConstExpr // set when Kind is Associated
}

// IsExplicit reports whether the value is an explicit constant expression.
func (v ValueSource) IsExplicit() bool { return v.Kind == Associated }

// VariantSpec is one validated variant.
type VariantSpec struct {
	Name    string
	Ordinal int
	Value   ValueSource
	// AliasOf names the earlier variant with the same discriminant.
	AliasOf string
}

// IsAlias reports whether v shares its discriminant with an earlier variant.
func (v VariantSpec) IsAlias() bool { return v.AliasOf != "" }

// EnumSchema is the validated description generators work from.
// Variants is non-empty, has unique names and keeps declaration order.
type EnumSchema struct {
	Name     string
	Package  string
	Type     syntax.TypeRef
	Kind     Kind
	Variants []VariantSpec
}

// Variant returns the variant named name.
func (s *EnumSchema) Variant(name string) (VariantSpec, bool) {
	for _, v := range s.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return VariantSpec{}, false
}
