package annotations

import "strings"

// GetParamValue returns the value of an annotation parameter by name.
// It first checks for the exact parameter name, then checks aliases.
func (a *Annotation) GetParamValue(name string, aliases ...string) (string, bool) {
	if val, ok := a.Params[name]; ok {
		return val, true
	}
	for _, alias := range aliases {
		if val, ok := a.Params[alias]; ok {
			return val, true
		}
	}
	return "", false
}

// GetParamBool returns a boolean parameter value. Accepted true values (case-insensitive):
// "true", "1", "yes", "on". Returns (false, false) if absent or unparsable.
func (a *Annotation) GetParamBool(name string, aliases ...string) (bool, bool) {
	raw, ok := a.GetParamValue(name, aliases...)
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

// Flags returns the names of all boolean flags set on the annotation, in
// the order they appear in Args.
func (a *Annotation) Flags() []string {
	var flags []string
	for _, part := range splitTopLevel(a.Args) {
		key := strings.TrimSpace(part)
		if i := strings.IndexAny(key, ":="); i >= 0 {
			key = strings.TrimSpace(key[:i])
		}
		if isBooleanFlag(key) {
			if v, ok := a.GetParamBool(key); ok && v {
				flags = append(flags, key)
			}
		}
	}
	return flags
}

// Find returns the first annotation matching spec, and how many matched.
func Find(anns []Annotation, spec *AnnotationSpec) (Annotation, int) {
	var first Annotation
	count := 0
	for _, ann := range anns {
		if spec.Matches(ann.Name) {
			if count == 0 {
				first = ann
			}
			count++
		}
	}
	return first, count
}

// Has reports whether any annotation matches spec.
func Has(anns []Annotation, spec *AnnotationSpec) bool {
	_, n := Find(anns, spec)
	return n > 0
}
