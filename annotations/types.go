// Package annotations defines the annotations consty reads from Go comments and manifests.
package annotations

// Annotation represents a parsed annotation (@name(params))
type Annotation struct {
	Name    string            // e.g., "constType", "constVal"
	Params  map[string]string // key-value parameters
	Args    string            // raw text between the outer parentheses
	HasArgs bool              // whether the annotation was written with parentheses
	RawText string            // original text
	Line    int               // 1-based line within the comment group, 0 if unknown
}

// AnnotationValidOn represents where an annotation can be used
type AnnotationValidOn string

const (
	AnnotationValidOnEnum      AnnotationValidOn = "enum"
	AnnotationValidOnEnumValue AnnotationValidOn = "enumValue"
	AnnotationValidOnAll       AnnotationValidOn = "all"
)

// AnnotationParam defines a parameter for an annotation specification
type AnnotationParam struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Aliases     []string `yaml:"aliases" json:"aliases"`
	IsDefault   bool     `yaml:"isDefault" json:"isDefault"`
}

// AnnotationSpec defines the specification for an annotation
type AnnotationSpec struct {
	// Annotation name, for example: "constType"
	Name string `yaml:"name" json:"name"`
	// Known flag/keyed parameters; empty means the argument is free-form
	Params []AnnotationParam `yaml:"params" json:"params"`
	// Where the annotation is valid on
	ValidOn     []AnnotationValidOn `yaml:"validOn" json:"validOn"`
	Aliases     []string            `yaml:"aliases" json:"aliases"`
	Description string              `yaml:"description" json:"description"`
	Multiple    bool                `yaml:"multiple" json:"multiple"`         // Indicates if this annotation can be used multiple times per target
	RequiresArg bool                `yaml:"requiresArg" json:"requiresArg"` // Indicates if the annotation needs a parenthesised argument
}

// IsValidOn reports whether the annotation may be placed on target.
func (a *AnnotationSpec) IsValidOn(target AnnotationValidOn) bool {
	if len(a.ValidOn) == 0 {
		return true
	}
	for _, v := range a.ValidOn {
		if v == target || v == AnnotationValidOnAll {
			return true
		}
	}
	return false
}

// Matches reports whether name refers to this spec, directly or by alias.
func (a *AnnotationSpec) Matches(name string) bool {
	name = NormalizeAnnotationName(name)
	if NormalizeAnnotationName(a.Name) == name {
		return true
	}
	for _, alias := range a.Aliases {
		if NormalizeAnnotationName(alias) == name {
			return true
		}
	}
	return false
}

// GetParam returns the parameter spec named name, or nil.
func (a *AnnotationSpec) GetParam(name string) *AnnotationParam {
	name = NormalizeAnnotationName(name)
	for i := range a.Params {
		if NormalizeAnnotationName(a.Params[i].Name) == name {
			return &a.Params[i]
		}
		for _, alias := range a.Params[i].Aliases {
			if NormalizeAnnotationName(alias) == name {
				return &a.Params[i]
			}
		}
	}
	return nil
}
