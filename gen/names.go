package gen

import "strings"

// EnumPlaceholder is replaced by the enumeration name in name patterns.
const EnumPlaceholder = "{Enum}"

// Names holds the identifiers generated code uses. Patterns may contain
// EnumPlaceholder.
type Names struct {
	Method      string `json:"method" yaml:"method"`
	FromFunc    string `json:"from_func" yaml:"from_func"`
	ErrorType   string `json:"error_type" yaml:"error_type"`
	String      string `json:"string" yaml:"string"`
	ConstPrefix string `json:"const_prefix" yaml:"const_prefix"`
}

// DefaultNames returns the naming used when nothing is configured.
func DefaultNames() Names {
	return Names{
		Method:      "Const",
		FromFunc:    EnumPlaceholder + "FromConst",
		ErrorType:   EnumPlaceholder + "ConstError",
		String:      "String",
		ConstPrefix: "c",
	}
}

// WithDefaults fills empty fields from DefaultNames.
func (n Names) WithDefaults() Names {
	d := DefaultNames()
	if n.Method == "" {
		n.Method = d.Method
	}
	if n.FromFunc == "" {
		n.FromFunc = d.FromFunc
	}
	if n.ErrorType == "" {
		n.ErrorType = d.ErrorType
	}
	if n.String == "" {
		n.String = d.String
	}
	if n.ConstPrefix == "" {
		n.ConstPrefix = d.ConstPrefix
	}
	return n
}

func expand(pattern, enum string) string {
	return strings.ReplaceAll(pattern, EnumPlaceholder, enum)
}

// MethodName is the forward mapping method for enum.
func (n Names) MethodName(enum string) string { return expand(n.WithDefaults().Method, enum) }

// FromFuncName is the inverse mapping function for enum.
func (n Names) FromFuncName(enum string) string { return expand(n.WithDefaults().FromFunc, enum) }

// ErrorTypeName is the inverse mapping error type for enum.
func (n Names) ErrorTypeName(enum string) string { return expand(n.WithDefaults().ErrorType, enum) }

// StringName is the render method for enum.
func (n Names) StringName(enum string) string { return expand(n.WithDefaults().String, enum) }
