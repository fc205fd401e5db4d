package annotations

import "strings"

// Names of the annotations consty understands.
const (
	NameConsty    = "consty"
	NameConstType = "constType"
	NameRepr      = "repr"
	NameConstVal  = "constVal"
)

// Derive flags accepted by @consty.
const (
	DeriveInto    = "into"
	DeriveTryFrom = "tryFrom"
	DeriveDisplay = "display"
)

// Definitions contains the annotation specifications consty validates against
type Definitions struct {
	Annotations []AnnotationSpec `json:"annotations"`
}

// GetAnnotationSpecByName finds an annotation specification by name or alias
func (d Definitions) GetAnnotationSpecByName(name string) *AnnotationSpec {
	for i := range d.Annotations {
		if d.Annotations[i].Matches(name) {
			return &d.Annotations[i]
		}
	}
	return nil
}

// MustSpec is like GetAnnotationSpecByName but panics for unknown names.
// It is meant for the fixed names declared in this package.
func (d Definitions) MustSpec(name string) *AnnotationSpec {
	spec := d.GetAnnotationSpecByName(name)
	if spec == nil {
		panic("annotations: unknown annotation " + name)
	}
	return spec
}

// GetCoreAnnotations returns the annotations recognised on enum types and their constants
func GetCoreAnnotations() Definitions {
	return Definitions{Annotations: []AnnotationSpec{
		{
			Name:        NameConsty,
			Description: "Requests generation for the annotated type. Flags select the generators; none means all.",
			ValidOn:     []AnnotationValidOn{AnnotationValidOnEnum},
			Params: []AnnotationParam{
				{Name: DeriveInto, Aliases: []string{"forward"}, Description: "total variant to constant mapping"},
				{Name: DeriveTryFrom, Aliases: []string{"inverse", "try_from"}, Description: "partial constant to variant mapping"},
				{Name: DeriveDisplay, Aliases: []string{"render", "string"}, Description: "String method built on the forward mapping"},
			},
		},
		{
			Name:        NameConstType,
			Aliases:     []string{"const_ty", "constTy"},
			Description: "Representation type of explicitly associated constants",
			ValidOn:     []AnnotationValidOn{AnnotationValidOnEnum},
			RequiresArg: true,
		},
		{
			Name:        NameRepr,
			Description: "Representation type of ordinal (discriminant) values",
			ValidOn:     []AnnotationValidOn{AnnotationValidOnEnum},
			RequiresArg: true,
		},
		{
			Name:        NameConstVal,
			Aliases:     []string{"const_val"},
			Description: "Constant expression associated with a variant",
			ValidOn:     []AnnotationValidOn{AnnotationValidOnEnumValue},
			RequiresArg: true,
		},
	}}
}

// NormalizeAnnotationName normalizes annotation names for comparison (case-insensitive)
func NormalizeAnnotationName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
