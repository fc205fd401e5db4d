// Package gen turns enum schemas into Go code.
//
// Generators build a small code-fragment tree (Fragment) that describes
// what to emit without committing to a printer. Code lowers a fragment to
// jennifer statements and NewFile assembles one generated file per Go
// package. Generators are pure: the same schema always yields the same
// fragment and nothing is shared between calls.
package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"
)

// Fragment is the output of one generator for one enumeration.
type Fragment struct {
	Enum      string
	Generator Generator
	Decls     []Decl
}

// Generator names a code generator.
type Generator string

const (
	GeneratorForward Generator = "forward"
	GeneratorInverse Generator = "inverse"
	GeneratorRender  Generator = "render"
)

// Decl is a top-level declaration: *FuncDecl or *StructDecl.
type Decl interface{ decl() }

// Param is a named, typed receiver, parameter or field.
type Param struct {
	Name string
	Type string
}

// FuncDecl is a function or method.
type FuncDecl struct {
	Doc      string
	Receiver *Param
	Name     string
	Params   []Param
	Results  []string
	Body     []Stmt
}

// StructDecl is a struct type declaration.
type StructDecl struct {
	Doc    string
	Name   string
	Fields []Param
}

func (*FuncDecl) decl()   {}
func (*StructDecl) decl() {}

// Stmt is a statement inside a function body.
type Stmt interface{ stmt() }

// NamedConst binds a local name to a variant's value.
type NamedConst struct {
	Name    string
	Variant string
	Type    string
	Value   Expr
}

// ConstBlock declares named values. Var is set when the type cannot hold
// constants, in which case a var block is emitted instead.
type ConstBlock struct {
	Var    bool
	Consts []NamedConst
}

// Dispatch is a switch. A nil Tag gives a tagless switch whose arm
// matches are boolean conditions checked top to bottom.
type Dispatch struct {
	Tag  Expr
	Arms []Arm
}

// Arm is one case of a Dispatch.
type Arm struct {
	Variant string
	Match   Expr
	Body    *Return
}

// Return returns Values.
type Return struct {
	Values []Expr
}

// Panic aborts with Message.
type Panic struct {
	Message string
}

func (*ConstBlock) stmt() {}
func (*Dispatch) stmt()   {}
func (*Return) stmt()     {}
func (*Panic) stmt()      {}

// Expr is an expression.
type Expr interface{ expr() }

type (
	// Ident is a plain identifier.
	Ident string
	// Source is a Go expression kept as source text.
	Source string
	// Lit is a string literal.
	Lit string
	// Nil is the nil literal.
	Nil struct{}
	// Zero is the zero value of Type.
	Zero struct{ Type string }
	// Convert is Type(X).
	Convert struct {
		Type string
		X    Expr
	}
	// Equal is X == Y.
	Equal struct{ X, Y Expr }
	// Selector is X.Sel.
	Selector struct {
		X   Expr
		Sel string
	}
	// Call calls Fun, or Pkg.Fun when Pkg is an import path.
	Call struct {
		Pkg  string
		Fun  Expr
		Args []Expr
	}
	// AddrOf is &Type{Field: Value}.
	AddrOf struct {
		Type  string
		Field string
		Value Expr
	}
)

func (Ident) expr()    {}
func (Source) expr()   {}
func (Lit) expr()      {}
func (Nil) expr()      {}
func (Zero) expr()     {}
func (Convert) expr()  {}
func (Equal) expr()    {}
func (Selector) expr() {}
func (Call) expr()     {}
func (AddrOf) expr()   {}

// Funcs returns the function declarations of f in order.
func (f *Fragment) Funcs() []*FuncDecl {
	var out []*FuncDecl
	for _, d := range f.Decls {
		if fn, ok := d.(*FuncDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Func returns the function or method called name.
func (f *Fragment) Func(name string) (*FuncDecl, bool) {
	for _, fn := range f.Funcs() {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// Consts returns the first ConstBlock of fn, or nil.
func (fn *FuncDecl) Consts() *ConstBlock {
	for _, s := range fn.Body {
		if b, ok := s.(*ConstBlock); ok {
			return b
		}
	}
	return nil
}

// Dispatch returns the first Dispatch of fn, or nil.
func (fn *FuncDecl) Dispatch() *Dispatch {
	for _, s := range fn.Body {
		if d, ok := s.(*Dispatch); ok {
			return d
		}
	}
	return nil
}

// Code lowers f to jennifer statements, one per declaration.
func (f *Fragment) Code() []jen.Code {
	out := make([]jen.Code, 0, len(f.Decls)*2)
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *FuncDecl:
			out = append(out, lowerFunc(d))
		case *StructDecl:
			out = append(out, lowerStruct(d))
		}
	}
	return out
}

func lowerFunc(fn *FuncDecl) jen.Code {
	s := jen.Func()
	if fn.Receiver != nil {
		s.Params(jen.Id(fn.Receiver.Name).Add(typ(fn.Receiver.Type)))
	}
	s.Id(fn.Name).Params(params(fn.Params)...)
	switch len(fn.Results) {
	case 0:
	case 1:
		s.Add(typ(fn.Results[0]))
	default:
		results := make([]jen.Code, len(fn.Results))
		for i, r := range fn.Results {
			results[i] = typ(r)
		}
		s.Params(results...)
	}
	body := make([]jen.Code, 0, len(fn.Body))
	for _, st := range fn.Body {
		body = append(body, lowerStmt(st))
	}
	return withDoc(fn.Doc, s.Block(body...))
}

func lowerStruct(d *StructDecl) jen.Code {
	return withDoc(d.Doc, jen.Type().Id(d.Name).Struct(params(d.Fields)...))
}

func withDoc(doc string, s *jen.Statement) jen.Code {
	if doc == "" {
		return s
	}
	return jen.Comment(doc).Line().Add(s)
}

func params(ps []Param) []jen.Code {
	out := make([]jen.Code, len(ps))
	for i, p := range ps {
		out[i] = jen.Id(p.Name).Add(typ(p.Type))
	}
	return out
}

func lowerStmt(st Stmt) jen.Code {
	switch st := st.(type) {
	case *ConstBlock:
		defs := make([]jen.Code, len(st.Consts))
		for i, c := range st.Consts {
			defs[i] = jen.Id(c.Name).Add(typ(c.Type)).Op("=").Add(lowerExpr(c.Value))
		}
		if st.Var {
			return jen.Var().Defs(defs...)
		}
		return jen.Const().Defs(defs...)
	case *Dispatch:
		arms := make([]jen.Code, len(st.Arms))
		for i, a := range st.Arms {
			arms[i] = jen.Case(lowerExpr(a.Match)).Block(lowerStmt(a.Body))
		}
		if st.Tag == nil {
			return jen.Switch().Block(arms...)
		}
		return jen.Switch(lowerExpr(st.Tag)).Block(arms...)
	case *Return:
		vals := make([]jen.Code, len(st.Values))
		for i, v := range st.Values {
			vals[i] = lowerExpr(v)
		}
		return jen.Return(vals...)
	case *Panic:
		return jen.Panic(jen.Lit(st.Message))
	}
	return jen.Null()
}

func lowerExpr(e Expr) *jen.Statement {
	switch e := e.(type) {
	case Ident:
		return jen.Id(string(e))
	case Source:
		// Id renders its argument verbatim.
		return jen.Id(string(e))
	case Lit:
		return jen.Lit(string(e))
	case Nil:
		return jen.Nil()
	case Zero:
		return jen.Op("*").New(jen.Id(e.Type))
	case Convert:
		return conv(e.Type).Call(lowerExpr(e.X))
	case Equal:
		return lowerExpr(e.X).Op("==").Add(lowerExpr(e.Y))
	case Selector:
		return lowerExpr(e.X).Dot(e.Sel)
	case Call:
		args := make([]jen.Code, len(e.Args))
		for i, a := range e.Args {
			args[i] = lowerExpr(a)
		}
		if e.Pkg != "" {
			name, _ := e.Fun.(Ident)
			return jen.Qual(e.Pkg, string(name)).Call(args...)
		}
		return lowerExpr(e.Fun).Call(args...)
	case AddrOf:
		return jen.Op("&").Id(e.Type).Values(jen.Dict{jen.Id(e.Field): lowerExpr(e.Value)})
	}
	return jen.Null()
}

// typ renders a type written as source text.
func typ(text string) *jen.Statement { return jen.Id(text) }

// conv renders a conversion target; types that would bind wrongly are
// parenthesised.
func conv(text string) *jen.Statement {
	if strings.HasPrefix(text, "*") || strings.HasPrefix(text, "<-") || strings.HasPrefix(text, "func") {
		return jen.Parens(jen.Id(text))
	}
	return jen.Id(text)
}
