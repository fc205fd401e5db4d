package gen

import (
	"fmt"

	"github.com/pablor21/consty/schema"
)

// Forward builds the total variant to constant mapping: a method on the
// enumeration returning the variant's value. Aliases share the arm of the
// variant they alias.
func Forward(s *schema.EnumSchema, names Names) *Fragment {
	taken := variantNames(s)
	recv := pick(taken, "e", "x", "self")
	variants := distinct(s.Variants)
	block, locals := constBlock(s, variants, names, taken, recv)
	method := names.MethodName(s.Name)

	arms := make([]Arm, len(variants))
	for i, v := range variants {
		arms[i] = Arm{
			Variant: v.Name,
			Match:   Ident(v.Name),
			Body:    &Return{Values: []Expr{Ident(locals[i])}},
		}
	}

	return &Fragment{
		Enum:      s.Name,
		Generator: GeneratorForward,
		Decls: []Decl{&FuncDecl{
			Doc:      fmt.Sprintf("%s returns the %s value associated with %s.", method, s.Type.Text, recv),
			Receiver: &Param{Name: recv, Type: s.Name},
			Name:     method,
			Results:  []string{s.Type.Text},
			Body: []Stmt{
				block,
				&Dispatch{Tag: Ident(recv), Arms: arms},
				&Panic{Message: fmt.Sprintf("consty: invalid %s value", s.Name)},
			},
		}},
	}
}

// Inverse builds the partial constant to variant mapping together with the
// error type it returns for unmapped values. Arms are tested in declaration
// order, so the first variant holding a value wins.
func Inverse(s *schema.EnumSchema, names Names) *Fragment {
	taken := variantNames(s)
	param := pick(taken, "v", "val", "value")
	block, locals := constBlock(s, s.Variants, names, taken, param)
	errType := names.ErrorTypeName(s.Name)
	fn := names.FromFuncName(s.Name)

	arms := make([]Arm, len(s.Variants))
	for i, v := range s.Variants {
		arms[i] = Arm{
			Variant: v.Name,
			Match:   Equal{X: Ident(param), Y: Ident(locals[i])},
			Body:    &Return{Values: []Expr{Ident(v.Name), Nil{}}},
		}
	}

	verb := "%v"
	if s.Type.IsRune() {
		verb = "%q"
	}

	return &Fragment{
		Enum:      s.Name,
		Generator: GeneratorInverse,
		Decls: []Decl{
			&StructDecl{
				Doc:    fmt.Sprintf("%s is returned by %s for a value no %s variant is associated with.", errType, fn, s.Name),
				Name:   errType,
				Fields: []Param{{Name: "Value", Type: s.Type.Text}},
			},
			&FuncDecl{
				Receiver: &Param{Name: "e", Type: "*" + errType},
				Name:     "Error",
				Results:  []string{"string"},
				Body: []Stmt{&Return{Values: []Expr{Call{
					Pkg:  "fmt",
					Fun:  Ident("Sprintf"),
					Args: []Expr{Lit("consty: no " + s.Name + " variant for " + verb), Selector{X: Ident("e"), Sel: "Value"}},
				}}}},
			},
			&FuncDecl{
				Doc:     fmt.Sprintf("%s returns the %s variant associated with %s.", fn, s.Name, param),
				Name:    fn,
				Params:  []Param{{Name: param, Type: s.Type.Text}},
				Results: []string{s.Name, "error"},
				Body: []Stmt{
					block,
					&Dispatch{Arms: arms},
					&Return{Values: []Expr{Zero{Type: s.Name}, AddrOf{Type: errType, Field: "Value", Value: Ident(param)}}},
				},
			},
		},
	}
}

// Render builds a String method formatting the forward mapping's result.
// It calls the method Forward emits, so both must be generated together.
func Render(s *schema.EnumSchema, names Names) *Fragment {
	method := names.MethodName(s.Name)
	value := Call{Fun: Selector{X: Ident("e"), Sel: method}}

	var out Expr = Call{Pkg: "fmt", Fun: Ident("Sprint"), Args: []Expr{value}}
	if s.Type.IsRune() {
		out = Convert{Type: "string", X: value}
	}

	name := names.StringName(s.Name)
	return &Fragment{
		Enum:      s.Name,
		Generator: GeneratorRender,
		Decls: []Decl{&FuncDecl{
			Doc:      fmt.Sprintf("%s formats the value returned by %s.", name, method),
			Receiver: &Param{Name: "e", Type: s.Name},
			Name:     name,
			Results:  []string{"string"},
			Body:     []Stmt{&Return{Values: []Expr{out}}},
		}},
	}
}

// constBlock binds one local name per variant. Local names never shadow a
// variant or the reserved identifiers.
func constBlock(s *schema.EnumSchema, variants []schema.VariantSpec, names Names, taken map[string]bool, reserved ...string) (*ConstBlock, []string) {
	prefix := names.WithDefaults().ConstPrefix
	used := make(map[string]bool, len(taken)+len(reserved))
	for n := range taken {
		used[n] = true
	}
	for _, r := range reserved {
		used[r] = true
	}

	block := &ConstBlock{Var: !s.Type.Constant, Consts: make([]NamedConst, len(variants))}
	locals := make([]string, len(variants))
	for i, v := range variants {
		name := prefix + v.Name
		for used[name] {
			name = prefix + name
		}
		used[name] = true
		locals[i] = name

		var value Expr = Convert{Type: s.Type.Text, X: Ident(v.Name)}
		if v.Value.IsExplicit() {
			value = Source(v.Value.Expr.Text)
		}
		block.Consts[i] = NamedConst{Name: name, Variant: v.Name, Type: s.Type.Text, Value: value}
	}
	return block, locals
}

// distinct drops aliases; a switch on the enumeration cannot list two
// constants with the same value.
func distinct(variants []schema.VariantSpec) []schema.VariantSpec {
	out := make([]schema.VariantSpec, 0, len(variants))
	for _, v := range variants {
		if !v.IsAlias() {
			out = append(out, v)
		}
	}
	return out
}

func variantNames(s *schema.EnumSchema) map[string]bool {
	m := make(map[string]bool, len(s.Variants))
	for _, v := range s.Variants {
		m[v.Name] = true
	}
	return m
}

func pick(taken map[string]bool, candidates ...string) string {
	for _, c := range candidates {
		if !taken[c] {
			return c
		}
	}
	name := candidates[0]
	for taken[name] {
		name += "_"
	}
	return name
}
