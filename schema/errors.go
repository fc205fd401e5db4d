package schema

import (
	"errors"
	"strings"
)

// Rule identifies the extraction rule a declaration violated.
type Rule string

const (
	RuleNotEnum          Rule = "not-enum"
	RuleNoVariants       Rule = "no-variants"
	RuleGeneric          Rule = "generic"
	RuleVariantFields    Rule = "variant-fields"
	RuleDuplicateVariant Rule = "duplicate-variant"
	RuleMissingRepr      Rule = "missing-representation"
	RuleBadType          Rule = "bad-type"
	RuleMissingValue     Rule = "missing-value"
	RuleBadValue         Rule = "bad-value"
	RuleDuplicateValue   Rule = "duplicate-value"
)

// ErrInvalidSchema matches every extraction error.
var ErrInvalidSchema = errors.New("consty: invalid schema")

// Per-rule sentinels for errors.Is.
var (
	ErrNotEnum          = &Error{Rule: RuleNotEnum}
	ErrNoVariants       = &Error{Rule: RuleNoVariants}
	ErrGeneric          = &Error{Rule: RuleGeneric}
	ErrVariantFields    = &Error{Rule: RuleVariantFields}
	ErrDuplicateVariant = &Error{Rule: RuleDuplicateVariant}
	ErrMissingRepr      = &Error{Rule: RuleMissingRepr}
	ErrBadType          = &Error{Rule: RuleBadType}
	ErrMissingValue     = &Error{Rule: RuleMissingValue}
	ErrBadValue         = &Error{Rule: RuleBadValue}
	ErrDuplicateValue   = &Error{Rule: RuleDuplicateValue}
)

// Error reports why a declaration could not become a schema.
type Error struct {
	Decl    string // declaration location or name
	Variant string // offending variant, if any
	Rule    Rule
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("consty: ")
	if e.Decl != "" {
		b.WriteString(e.Decl)
	} else {
		b.WriteString("schema error")
	}
	if e.Variant != "" {
		b.WriteString(" variant ")
		b.WriteString(e.Variant)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Rule != "" {
		b.WriteString(" [")
		b.WriteString(string(e.Rule))
		b.WriteString("]")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches ErrInvalidSchema and the sentinel of the same rule.
func (e *Error) Is(target error) bool {
	if target == ErrInvalidSchema {
		return true
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Decl == "" && t.Variant == "" && t.Rule == e.Rule
}

func newError(decl string, rule Rule, message string) *Error {
	return &Error{Decl: decl, Rule: rule, Message: message}
}
