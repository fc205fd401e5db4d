package annotations

import (
	"fmt"
	"strings"
)

// ValidationMode defines the strictness of validation
type ValidationMode string

const (
	ValidationModeDisabled ValidationMode = "disabled"
	ValidationModeLax      ValidationMode = "lax"
	ValidationModeStrict   ValidationMode = "strict"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a validation finding
type ValidationError struct {
	Location string // Where the error occurred (e.g., "Punctuation.Plus @constVal")
	Message  string
	Severity string // "error" or "warning"
}

func (e ValidationError) String() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Location, e.Message)
}

// Sink receives validation findings when they are logged.
type Sink interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Validator checks consty annotations for placement, arity and known flags.
// Annotations that belong to other tools are never reported.
type Validator struct {
	mode   ValidationMode
	defs   Definitions
	errors []ValidationError
}

// NewValidator creates a new validator
func NewValidator(mode ValidationMode, defs Definitions) *Validator {
	if mode == "" {
		mode = ValidationModeLax
	}
	return &Validator{mode: mode, defs: defs}
}

// Mode returns the validation mode in use.
func (v *Validator) Mode() ValidationMode { return v.mode }

// Validate checks every annotation attached to one target.
func (v *Validator) Validate(anns []Annotation, target AnnotationValidOn, location string) {
	if v.mode == ValidationModeDisabled {
		return
	}

	seen := make(map[string]int)
	for _, ann := range anns {
		spec := v.defs.GetAnnotationSpecByName(ann.Name)
		if spec == nil {
			continue
		}
		where := fmt.Sprintf("%s @%s", location, ann.Name)

		if !spec.IsValidOn(target) {
			v.addError(where, fmt.Sprintf("@%s is not valid on %s and is ignored", ann.Name, target), SeverityWarning)
			continue
		}
		if spec.RequiresArg && strings.TrimSpace(ann.Args) == "" {
			v.addError(where, fmt.Sprintf("@%s requires an argument", ann.Name), v.severity())
		}
		if len(spec.Params) > 0 {
			for _, flag := range splitTopLevel(ann.Args) {
				flag = strings.TrimSpace(flag)
				if i := strings.IndexAny(flag, ":="); i >= 0 {
					flag = strings.TrimSpace(flag[:i])
				}
				if flag != "" && spec.GetParam(flag) == nil {
					v.addError(where, fmt.Sprintf("unknown parameter '%s' in @%s", flag, ann.Name), v.severity())
				}
			}
		}

		seen[spec.Name]++
		if seen[spec.Name] == 2 && !spec.Multiple {
			v.addError(where, fmt.Sprintf("@%s is repeated; only the first occurrence is used", ann.Name), v.severity())
		}
	}
}

func (v *Validator) severity() string {
	if v.mode == ValidationModeStrict {
		return SeverityError
	}
	return SeverityWarning
}

// AddError adds a validation error (public method for external validators)
func (v *Validator) AddError(location, message, severity string) {
	v.addError(location, message, severity)
}

func (v *Validator) addError(location, message, severity string) {
	v.errors = append(v.errors, ValidationError{
		Location: location,
		Message:  message,
		Severity: severity,
	})
}

// Reset drops every recorded finding.
func (v *Validator) Reset() {
	v.errors = nil
}

// GetErrors returns all validation findings
func (v *Validator) GetErrors() []ValidationError {
	return v.errors
}

// HasErrors returns true if there are any errors
func (v *Validator) HasErrors() bool {
	for _, err := range v.errors {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if there are any warnings
func (v *Validator) HasWarnings() bool {
	for _, err := range v.errors {
		if err.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// LogErrors logs all validation errors and warnings
func (v *Validator) LogErrors(sink Sink) {
	if sink == nil {
		return
	}
	for _, err := range v.errors {
		if err.Severity == SeverityError {
			sink.Error(err.Message, "location", err.Location)
		} else {
			sink.Warn(err.Message, "location", err.Location)
		}
	}
}
