package gen

import (
	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/schema"
)

// DeriveSet selects the generators run for one enumeration.
type DeriveSet struct {
	Forward bool
	Inverse bool
	Render  bool
}

// AllDerives selects every generator.
func AllDerives() DeriveSet { return DeriveSet{Forward: true, Inverse: true, Render: true} }

// Empty reports whether no generator is selected.
func (d DeriveSet) Empty() bool { return !d.Forward && !d.Inverse && !d.Render }

// Generators lists the selected generators in emission order.
func (d DeriveSet) Generators() []Generator {
	var out []Generator
	if d.Forward {
		out = append(out, GeneratorForward)
	}
	if d.Inverse {
		out = append(out, GeneratorInverse)
	}
	if d.Render {
		out = append(out, GeneratorRender)
	}
	return out
}

// ParseDerives reads the generator flags of a @consty annotation. No
// argument selects everything. Render needs the forward method, so it implies
// Forward. Flags the annotation spec does not know are returned in unknown.
func ParseDerives(ann annotations.Annotation, defs annotations.Definitions) (set DeriveSet, unknown []string) {
	if len(ann.Params) == 0 {
		return AllDerives(), nil
	}
	spec := defs.MustSpec(annotations.NameConsty)
	for _, flag := range ann.Flags() {
		p := spec.GetParam(flag)
		if p == nil {
			unknown = append(unknown, flag)
			continue
		}
		switch p.Name {
		case annotations.DeriveInto:
			set.Forward = true
		case annotations.DeriveTryFrom:
			set.Inverse = true
		case annotations.DeriveDisplay:
			set.Render = true
			set.Forward = true
		}
	}
	return set, unknown
}

// Generate runs the selected generators over s in emission order.
func Generate(s *schema.EnumSchema, set DeriveSet, names Names) []*Fragment {
	var out []*Fragment
	for _, g := range set.Generators() {
		switch g {
		case GeneratorForward:
			out = append(out, Forward(s, names))
		case GeneratorInverse:
			out = append(out, Inverse(s, names))
		case GeneratorRender:
			out = append(out, Render(s, names))
		}
	}
	return out
}
