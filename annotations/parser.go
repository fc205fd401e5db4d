package annotations

import (
	"go/ast"
	"strings"
)

// ParseAnnotations extracts annotations from comment groups. Nil groups are skipped.
func ParseAnnotations(comments []*ast.CommentGroup) []Annotation {
	var lines []string

	for _, cg := range comments {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			text := strings.TrimSpace(c.Text)
			text = strings.TrimPrefix(text, "//")
			text = strings.TrimPrefix(text, "/*")
			text = strings.TrimSuffix(text, "*/")
			lines = append(lines, strings.Split(text, "\n")...)
		}
	}

	return ParseLines(lines)
}

// ParseLines extracts annotations from plain text lines, as found in manifests.
func ParseLines(lines []string) []Annotation {
	var annotations []Annotation

	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)

		if !strings.HasPrefix(line, "@") {
			continue
		}
		ann := parseAnnotation(line)
		if ann.Name != "" {
			ann.Line = i + 1
			annotations = append(annotations, ann)
		}
	}

	return annotations
}

// parseAnnotation parses single annotation: @name or @name(args) or @name key="value"
func parseAnnotation(line string) Annotation {
	ann := Annotation{
		RawText: line,
		Params:  make(map[string]string),
	}

	line = strings.TrimPrefix(line, "@")
	parenIdx := strings.Index(line, "(")
	spaceIdx := strings.IndexAny(line, " \t")

	// Format 1: @name(args); the raw span is kept verbatim for expressions
	if parenIdx != -1 && (spaceIdx == -1 || parenIdx < spaceIdx) {
		ann.Name = strings.TrimSpace(line[:parenIdx])
		args := line[parenIdx+1:]
		if endIdx := strings.LastIndex(args, ")"); endIdx != -1 {
			args = args[:endIdx]
		}
		ann.Args = strings.TrimSpace(args)
		ann.HasArgs = true
		ann.Params = parseParamsParentheses(ann.Args)
		return ann
	}

	// Format 2: @name key="value" key2="value2" (space-separated)
	// or Format 3: @name (no parameters)
	parts := splitAnnotationParts(line)
	if len(parts) == 0 {
		return ann
	}

	ann.Name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		ann.Params = parseParamsSpaceSeparated(parts[1:])
	}

	return ann
}

// splitTopLevel splits s on commas that are outside quotes and brackets.
func splitTopLevel(s string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)
	depth := 0

	for _, ch := range s {
		switch {
		case ch == '"' || ch == '\'' || ch == '`':
			if !inQuotes {
				inQuotes = true
				quoteChar = ch
			} else if ch == quoteChar {
				inQuotes = false
			}
		case inQuotes:
		case ch == '[' || ch == '{' || ch == '(':
			depth++
		case ch == ']' || ch == '}' || ch == ')':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(ch)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// parseParamsParentheses parses key:value pairs and flags from parentheses format: (key:value, flag)
func parseParamsParentheses(s string) map[string]string {
	params := make(map[string]string)

	positionalIdx := 0
	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		sepIdx := -1
		for i, ch := range part {
			if (ch == ':' || ch == '=') && !isInQuotes(part, i) {
				sepIdx = i
				break
			}
		}

		if sepIdx == -1 || !isBooleanFlag(strings.TrimSpace(part[:sepIdx])) {
			wasQuoted := (strings.HasPrefix(part, `"`) && strings.HasSuffix(part, `"`)) ||
				(strings.HasPrefix(part, `'`) && strings.HasSuffix(part, `'`))
			value := strings.Trim(part, `"'`)

			if !wasQuoted && isBooleanFlag(value) {
				params[value] = "true"
				continue
			}
			if positionalIdx == 0 {
				params[""] = value
			} else {
				params[""] = params[""] + "," + value
			}
			positionalIdx++
			continue
		}

		key := strings.TrimSpace(part[:sepIdx])
		value := strings.TrimSpace(part[sepIdx+1:])
		params[key] = strings.Trim(value, `"'`)
	}

	return params
}

// splitAnnotationParts splits annotation line into parts, respecting quotes
func splitAnnotationParts(line string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, ch := range line {
		if ch == '"' || ch == '\'' {
			if !inQuotes {
				inQuotes = true
				quoteChar = ch
			} else if ch == quoteChar {
				inQuotes = false
			}
			current.WriteRune(ch)
		} else if (ch == ' ' || ch == '\t') && !inQuotes {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		} else {
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// parseParamsSpaceSeparated parses space-separated key="value" pairs
func parseParamsSpaceSeparated(parts []string) map[string]string {
	params := make(map[string]string)

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		sepIdx := -1
		for i, ch := range part {
			if (ch == '=' || ch == ':') && !isInQuotes(part, i) {
				sepIdx = i
				break
			}
		}

		if sepIdx == -1 {
			params[part] = "true"
			continue
		}

		key := strings.TrimSpace(part[:sepIdx])
		value := strings.TrimSpace(part[sepIdx+1:])
		params[key] = strings.Trim(value, `"'`)
	}

	return params
}

// isInQuotes checks if a character at given index is inside quotes
func isInQuotes(s string, idx int) bool {
	inQuotes := false
	quoteChar := rune(0)

	for i, ch := range s {
		if i >= idx {
			break
		}
		if ch == '"' || ch == '\'' {
			if !inQuotes {
				inQuotes = true
				quoteChar = ch
			} else if ch == quoteChar {
				inQuotes = false
			}
		}
	}

	return inQuotes
}

// isBooleanFlag checks if a string looks like a boolean flag (simple identifier)
func isBooleanFlag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for i, ch := range s {
		isLetter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		isDigit := ch >= '0' && ch <= '9'
		if i == 0 && isDigit {
			return false
		}
		if !isLetter && !isDigit && ch != '_' && ch != '-' {
			return false
		}
	}
	return true
}
