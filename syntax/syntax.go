// Package syntax turns annotation argument spans into Go expressions.
//
// It is the only place that understands Go expression syntax. Everything
// downstream treats ConstExpr and TypeRef as opaque: consty never evaluates
// a constant expression, it hands the text back to the Go compiler inside
// the generated file.
package syntax

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"strings"
)

var (
	// ErrEmpty is returned when an annotation carries no argument span.
	ErrEmpty = errors.New("empty expression")
	// ErrNotType is returned when a span parses but is not a type expression.
	ErrNotType = errors.New("not a type expression")
)

// ConstExpr is a parsed constant expression attached to a variant.
type ConstExpr struct {
	Text string
	Expr ast.Expr `json:"-" yaml:"-"`
}

// String returns the normalised source text.
func (c ConstExpr) String() string { return c.Text }

// TypeRef is a parsed representation type.
type TypeRef struct {
	Text string
	Expr ast.Expr `json:"-" yaml:"-"`
	// Constant reports whether values of the type can be declared as Go
	// constants. Front ends with type information may overwrite it.
	Constant bool
}

// String returns the normalised source text.
func (t TypeRef) String() string { return t.Text }

// IsRune reports whether the type is the predeclared rune type.
func (t TypeRef) IsRune() bool { return t.Text == "rune" }

// ParseConstExpr parses span as a Go expression.
func ParseConstExpr(span string) (ConstExpr, error) {
	expr, text, err := parse(span)
	if err != nil {
		return ConstExpr{}, err
	}
	return ConstExpr{Text: text, Expr: expr}, nil
}

// ParseTypeRef parses span as a Go type expression.
func ParseTypeRef(span string) (TypeRef, error) {
	expr, text, err := parse(span)
	if err != nil {
		return TypeRef{}, err
	}
	if !isTypeExpr(expr) {
		return TypeRef{}, fmt.Errorf("%w: %q", ErrNotType, text)
	}
	return TypeRef{Text: text, Expr: expr, Constant: isConstantType(expr)}, nil
}

func parse(span string) (ast.Expr, string, error) {
	text := strings.TrimSpace(span)
	if text == "" {
		return nil, "", ErrEmpty
	}
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return nil, "", fmt.Errorf("parse %q: %w", text, err)
	}
	return expr, text, nil
}

func isTypeExpr(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name != "_" && t.Name != "nil" && t.Name != "iota" && t.Name != "true" && t.Name != "false"
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	case *ast.ParenExpr:
		return isTypeExpr(t.X)
	case *ast.StarExpr:
		return isTypeExpr(t.X)
	case *ast.ArrayType:
		return isTypeExpr(t.Elt)
	case *ast.MapType:
		return isTypeExpr(t.Key) && isTypeExpr(t.Value)
	case *ast.StructType, *ast.InterfaceType, *ast.FuncType, *ast.ChanType:
		return true
	case *ast.IndexExpr:
		return isTypeExpr(t.X) && isTypeExpr(t.Index)
	case *ast.IndexListExpr:
		if !isTypeExpr(t.X) {
			return false
		}
		for _, idx := range t.Indices {
			if !isTypeExpr(idx) {
				return false
			}
		}
		return true
	}
	return false
}

// constantBasics are the predeclared types whose values may be constants.
var constantBasics = map[string]bool{
	"bool": true, "string": true, "rune": true, "byte": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// isConstantType is the syntactic fallback used when no type information
// is available: only predeclared basic types are assumed constant.
func isConstantType(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return constantBasics[t.Name]
	case *ast.ParenExpr:
		return isConstantType(t.X)
	}
	return false
}
