package schema

import (
	"fmt"

	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/decl"
	"github.com/pablor21/consty/syntax"
)

// DuplicatePolicy decides what happens when a variant carries more than one @constVal.
type DuplicatePolicy int

const (
	// DuplicateFirstWins keeps the first annotation and reports a warning.
	DuplicateFirstWins DuplicatePolicy = iota
	// DuplicateReject fails extraction.
	DuplicateReject
)

type options struct {
	duplicates DuplicatePolicy
	warn       func(location, message string)
	defs       annotations.Definitions
}

// Option configures Extract.
type Option func(*options)

// WithDuplicatePolicy sets the duplicate @constVal policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) { o.duplicates = p }
}

// WithWarnings registers a callback for non-fatal findings.
func WithWarnings(fn func(location, message string)) Option {
	return func(o *options) { o.warn = fn }
}

// Extract validates d and builds its schema. Rules are checked in a fixed
// order and the first violation is returned; no partial schema escapes.
func Extract(d *decl.Declaration, opts ...Option) (*EnumSchema, error) {
	o := &options{defs: annotations.GetCoreAnnotations()}
	for _, opt := range opts {
		opt(o)
	}
	where := d.Location()

	if d.Kind != decl.KindEnum {
		return nil, newError(where, RuleNotEnum, fmt.Sprintf("%s is a %s, only enumerations are supported", d.Name, kindName(d.Kind)))
	}
	if len(d.Variants) == 0 {
		return nil, newError(where, RuleNoVariants, "enumeration must have at least one variant")
	}
	if d.Generics.IsGeneric() {
		return nil, newError(where, RuleGeneric, "generic enumerations are not supported")
	}

	seen := make(map[string]struct{}, len(d.Variants))
	for _, v := range d.Variants {
		if !v.Fields.Empty() {
			err := newError(where, RuleVariantFields, "only fieldless variants are allowed")
			err.Variant = v.Name
			return nil, err
		}
		if _, dup := seen[v.Name]; dup {
			err := newError(where, RuleDuplicateVariant, "variant is declared more than once")
			err.Variant = v.Name
			return nil, err
		}
		seen[v.Name] = struct{}{}
	}

	typ, kind, err := o.representation(d, where)
	if err != nil {
		return nil, err
	}

	s := &EnumSchema{
		Name:     d.Name,
		Package:  d.Package,
		Type:     typ,
		Kind:     kind,
		Variants: make([]VariantSpec, 0, len(d.Variants)),
	}
	first := map[string]string{}
	for i, v := range d.Variants {
		value, err := o.value(kind, v, where)
		if err != nil {
			return nil, err
		}
		spec := VariantSpec{Name: v.Name, Ordinal: i, Value: value}
		if v.Discriminant != "" {
			if name, ok := first[v.Discriminant]; ok {
				spec.AliasOf = name
				if o.warn != nil {
					o.warn(where+" variant "+v.Name, fmt.Sprintf("alias of %s; Const returns the value of %s", name, name))
				}
			} else {
				first[v.Discriminant] = v.Name
			}
		}
		s.Variants = append(s.Variants, spec)
	}
	return s, nil
}

// representation resolves the representation type. @constType is checked
// first and wins over @repr when both are present.
func (o *options) representation(d *decl.Declaration, where string) (syntax.TypeRef, Kind, error) {
	candidates := []struct {
		name string
		kind Kind
	}{
		{annotations.NameConstType, Associated},
		{annotations.NameRepr, Discriminant},
	}

	for _, c := range candidates {
		ann, n := annotations.Find(d.Annotations, o.defs.MustSpec(c.name))
		if n == 0 {
			continue
		}
		ref, err := syntax.ParseTypeRef(ann.Args)
		if err != nil {
			return syntax.TypeRef{}, 0, &Error{
				Decl:    where,
				Rule:    RuleBadType,
				Message: fmt.Sprintf("failed to parse type from @%s(...)", ann.Name),
				Cause:   err,
			}
		}
		if d.ResolveType != nil {
			if constant, ok := d.ResolveType(ref.Text); ok {
				ref.Constant = constant
			}
		}
		return ref, c.kind, nil
	}

	return syntax.TypeRef{}, 0, newError(where, RuleMissingRepr,
		fmt.Sprintf("missing either @%s(...) or @%s(...) to specify the constant type", annotations.NameConstType, annotations.NameRepr))
}

func (o *options) value(kind Kind, v decl.Variant, where string) (ValueSource, error) {
	switch kind {
	case Discriminant:
		return ValueSource{Kind: Discriminant}, nil
	case Associated:
		ann, n := annotations.Find(v.Annotations, o.defs.MustSpec(annotations.NameConstVal))
		if n == 0 {
			return ValueSource{}, &Error{
				Decl:    where,
				Variant: v.Name,
				Rule:    RuleMissingValue,
				Message: fmt.Sprintf("missing associated constant value, add @%s(...)", annotations.NameConstVal),
			}
		}
		if n > 1 {
			msg := fmt.Sprintf("%d @%s annotations, only the first is used", n, annotations.NameConstVal)
			if o.duplicates == DuplicateReject {
				return ValueSource{}, &Error{Decl: where, Variant: v.Name, Rule: RuleDuplicateValue, Message: msg}
			}
			if o.warn != nil {
				o.warn(where+" variant "+v.Name, msg)
			}
		}
		expr, err := syntax.ParseConstExpr(ann.Args)
		if err != nil {
			return ValueSource{}, &Error{
				Decl:    where,
				Variant: v.Name,
				Rule:    RuleBadValue,
				Message: fmt.Sprintf("failed to parse constant value from @%s(...)", ann.Name),
				Cause:   err,
			}
		}
		return ValueSource{Kind: Associated, Expr: expr}, nil
	}
	panic(fmt.Sprintf("schema: unhandled kind %v", kind))
}

func kindName(k decl.Kind) string {
	if k == "" {
		return "declaration of unknown kind"
	}
	return string(k)
}
