package gen

import (
	"go/constant"
	"go/token"
	"go/types"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/decl"
	"github.com/pablor21/consty/schema"
)

type variantDef struct {
	name string
	anns []string
}

func extract(t *testing.T, name string, typeAnns []string, variants ...variantDef) *schema.EnumSchema {
	t.Helper()
	d := &decl.Declaration{
		Name:        name,
		Kind:        decl.KindEnum,
		Package:     "codes",
		Annotations: annotations.ParseLines(typeAnns),
	}
	for _, v := range variants {
		d.Variants = append(d.Variants, decl.Variant{Name: v.name, Annotations: annotations.ParseLines(v.anns)})
	}
	s, err := schema.Extract(d)
	require.NoError(t, err)
	return s
}

func punctuation(t *testing.T) *schema.EnumSchema {
	return extract(t, "Punctuation", []string{"@constType(rune)"},
		variantDef{"Plus", []string{"@constVal('+')"}},
		variantDef{"Minus", []string{"@constVal('-')"}},
		variantDef{"Star", []string{"@constVal('*')"}},
		variantDef{"Equals", []string{"@constVal('=')"}},
	)
}

func statusCode(t *testing.T) *schema.EnumSchema {
	return extract(t, "StatusCode", []string{"@constType(uint32)"},
		variantDef{"Success", []string{"@constVal(200)"}},
		variantDef{"BadRequest", []string{"@constVal(400)"}},
		variantDef{"NotFound", []string{"@constVal(404)"}},
		variantDef{"InternalError", []string{"@constVal(500)"}},
	)
}

func color(t *testing.T) *schema.EnumSchema {
	return extract(t, "Color", []string{"@constType([3]uint8)"},
		variantDef{"Black", []string{"@constVal([3]uint8{0, 0, 0})"}},
		variantDef{"Red", []string{"@constVal([3]uint8{150, 0, 0})"}},
		variantDef{"Green", []string{"@constVal([3]uint8{0, 150, 0})"}},
		variantDef{"Blue", []string{"@constVal([3]uint8{0, 0, 150})"}},
	)
}

func level(t *testing.T) *schema.EnumSchema {
	return extract(t, "Level", []string{"@repr(uint8)"},
		variantDef{name: "Low"}, variantDef{name: "Mid"}, variantDef{name: "High"},
	)
}

// evalConst evaluates the named value bound to local. ordinals supplies
// the values of variant constants referenced by discriminant conversions.
func evalConst(t *testing.T, block *ConstBlock, local string, ordinals map[string]int) constant.Value {
	t.Helper()
	for _, c := range block.Consts {
		if c.Name != local {
			continue
		}
		var src string
		switch v := c.Value.(type) {
		case Source:
			src = c.Type + "(" + string(v) + ")"
		case Convert:
			name, _ := v.X.(Ident)
			ord, ok := ordinals[string(name)]
			require.True(t, ok, "no ordinal for %s", name)
			src = v.Type + "(" + constant.MakeInt64(int64(ord)).String() + ")"
		default:
			t.Fatalf("unexpected value %s", spew.Sdump(c.Value))
		}
		tv, err := types.Eval(token.NewFileSet(), nil, token.NoPos, src)
		require.NoError(t, err, src)
		require.NotNil(t, tv.Value, src)
		return tv.Value
	}
	t.Fatalf("no local %s", local)
	return nil
}

// forwardValue follows the forward dispatch for variant.
func forwardValue(t *testing.T, f *Fragment, variant string, ordinals map[string]int) constant.Value {
	t.Helper()
	fn := f.Funcs()[0]
	for _, arm := range fn.Dispatch().Arms {
		if arm.Match == Ident(variant) {
			local := arm.Body.Values[0].(Ident)
			return evalConst(t, fn.Consts(), string(local), ordinals)
		}
	}
	t.Fatalf("no arm for %s", variant)
	return nil
}

// inverseVariant follows the inverse dispatch for v, arm by arm.
func inverseVariant(t *testing.T, f *Fragment, v constant.Value, ordinals map[string]int) (string, bool) {
	t.Helper()
	fn, ok := f.Func(DefaultNames().FromFuncName(f.Enum))
	require.True(t, ok)
	for _, arm := range fn.Dispatch().Arms {
		eq := arm.Match.(Equal)
		local := eq.Y.(Ident)
		if constant.Compare(v, token.EQL, evalConst(t, fn.Consts(), string(local), ordinals)) {
			return string(arm.Body.Values[0].(Ident)), true
		}
	}
	return "", false
}

func TestForwardIsTotal(t *testing.T) {
	s := statusCode(t)
	f := Forward(s, DefaultNames())

	require.Len(t, f.Decls, 1)
	fn := f.Funcs()[0]
	assert.Equal(t, "Const", fn.Name)
	assert.Equal(t, &Param{Name: "e", Type: "StatusCode"}, fn.Receiver)
	assert.Equal(t, []string{"uint32"}, fn.Results)

	arms := fn.Dispatch().Arms
	require.Len(t, arms, len(s.Variants))
	for i, v := range s.Variants {
		assert.Equal(t, v.Name, arms[i].Variant)
		assert.Equal(t, Ident(v.Name), arms[i].Match)
	}
	assert.Equal(t, Ident("e"), fn.Dispatch().Tag)
	assert.IsType(t, &Panic{}, fn.Body[len(fn.Body)-1])
	assert.False(t, fn.Consts().Var)

	want := map[string]int64{"Success": 200, "BadRequest": 400, "NotFound": 404, "InternalError": 500}
	for name, code := range want {
		got, ok := constant.Uint64Val(forwardValue(t, f, name, nil))
		require.True(t, ok)
		assert.Equal(t, uint64(code), got, name)
	}
}

func TestRoundTrip(t *testing.T) {
	ordinals := map[string]int{"Low": 0, "Mid": 1, "High": 2}
	for _, s := range []*schema.EnumSchema{punctuation(t), statusCode(t), level(t)} {
		t.Run(s.Name, func(t *testing.T) {
			fwd := Forward(s, DefaultNames())
			inv := Inverse(s, DefaultNames())
			for _, v := range s.Variants {
				got, ok := inverseVariant(t, inv, forwardValue(t, fwd, v.Name, ordinals), ordinals)
				require.True(t, ok)
				assert.Equal(t, v.Name, got)
			}
		})
	}
}

func TestInverseIsPartial(t *testing.T) {
	s := statusCode(t)
	f := Inverse(s, DefaultNames())

	_, ok := inverseVariant(t, f, constant.MakeUint64(0), nil)
	assert.False(t, ok)
	_, ok = inverseVariant(t, f, constant.MakeUint64(201), nil)
	assert.False(t, ok)

	fn, ok := f.Func("StatusCodeFromConst")
	require.True(t, ok)
	assert.Equal(t, []Param{{Name: "v", Type: "uint32"}}, fn.Params)
	assert.Equal(t, []string{"StatusCode", "error"}, fn.Results)
	assert.Nil(t, fn.Dispatch().Tag)

	fallback := fn.Body[len(fn.Body)-1].(*Return)
	assert.Equal(t, Zero{Type: "StatusCode"}, fallback.Values[0])
	assert.Equal(t, AddrOf{Type: "StatusCodeConstError", Field: "Value", Value: Ident("v")}, fallback.Values[1])

	errType := f.Decls[0].(*StructDecl)
	assert.Equal(t, "StatusCodeConstError", errType.Name)
	assert.Equal(t, []Param{{Name: "Value", Type: "uint32"}}, errType.Fields)
}

func TestInverseFirstMatchWins(t *testing.T) {
	s := extract(t, "Alias", []string{"@constType(int)"},
		variantDef{"First", []string{"@constVal(7)"}},
		variantDef{"Second", []string{"@constVal(3 + 4)"}},
		variantDef{"Third", []string{"@constVal(8)"}},
	)
	inv := Inverse(s, DefaultNames())

	got, ok := inverseVariant(t, inv, constant.MakeInt64(7), nil)
	require.True(t, ok)
	assert.Equal(t, "First", got)

	got, ok = inverseVariant(t, inv, constant.MakeInt64(8), nil)
	require.True(t, ok)
	assert.Equal(t, "Third", got)

	// The shadowed variant still maps forward to its own value.
	v, ok := constant.Int64Val(forwardValue(t, Forward(s, DefaultNames()), "Second", nil))
	require.True(t, ok)
	assert.Equal(t, int64(7), v)
}

func TestDiscriminantConvertsVariant(t *testing.T) {
	f := Forward(level(t), DefaultNames())
	block := f.Funcs()[0].Consts()
	require.Len(t, block.Consts, 3)
	assert.Equal(t, Convert{Type: "uint8", X: Ident("Mid")}, block.Consts[1].Value)
	assert.Equal(t, "cMid", block.Consts[1].Name)
}

func TestCompositeTypeUsesVarBlock(t *testing.T) {
	f := Forward(color(t), DefaultNames())
	block := f.Funcs()[0].Consts()
	assert.True(t, block.Var)
	assert.Equal(t, Source("[3]uint8{150, 0, 0}"), block.Consts[1].Value)
}

func TestRender(t *testing.T) {
	char := Render(punctuation(t), DefaultNames()).Funcs()[0]
	assert.Equal(t, "String", char.Name)
	assert.Equal(t, []string{"string"}, char.Results)
	ret := char.Body[0].(*Return)
	assert.Equal(t, Convert{Type: "string", X: Call{Fun: Selector{X: Ident("e"), Sel: "Const"}}}, ret.Values[0])

	num := Render(statusCode(t), DefaultNames()).Funcs()[0]
	call := num.Body[0].(*Return).Values[0].(Call)
	assert.Equal(t, "fmt", call.Pkg)
	assert.Equal(t, Ident("Sprint"), call.Fun)
}

func TestLocalNamesNeverShadowVariants(t *testing.T) {
	s := extract(t, "Tricky", []string{"@constType(int)"},
		variantDef{"A", []string{"@constVal(1)"}},
		variantDef{"cA", []string{"@constVal(2)"}},
		variantDef{"e", []string{"@constVal(3)"}},
	)
	fn := Forward(s, DefaultNames()).Funcs()[0]
	assert.Equal(t, "x", fn.Receiver.Name)

	seen := map[string]bool{}
	for _, c := range fn.Consts().Consts {
		assert.False(t, seen[c.Name], c.Name)
		seen[c.Name] = true
		_, isVariant := s.Variant(c.Name)
		assert.False(t, isVariant, c.Name)
		assert.NotEqual(t, "x", c.Name)
	}
}

func TestCustomNames(t *testing.T) {
	names := Names{Method: "Value", FromFunc: "Parse{Enum}", ErrorType: "Unknown{Enum}", String: "Text", ConstPrefix: "k"}
	s := statusCode(t)

	assert.Equal(t, "Value", Forward(s, names).Funcs()[0].Name)
	inv := Inverse(s, names)
	_, ok := inv.Func("ParseStatusCode")
	assert.True(t, ok)
	assert.Equal(t, "UnknownStatusCode", inv.Decls[0].(*StructDecl).Name)
	assert.Equal(t, "kSuccess", inv.Funcs()[1].Consts().Consts[0].Name)

	render := Render(s, names).Funcs()[0]
	assert.Equal(t, "Text", render.Name)

	partial := Names{Method: "Value"}.WithDefaults()
	assert.Equal(t, "String", partial.String)
	assert.Equal(t, "c", partial.ConstPrefix)
}

func TestGeneratorsArePure(t *testing.T) {
	s := statusCode(t)
	before := spew.Sdump(s)
	a := Generate(s, AllDerives(), DefaultNames())
	b := Generate(s, AllDerives(), DefaultNames())
	assert.Equal(t, a, b)
	assert.Equal(t, before, spew.Sdump(s))
}

func TestParseDerives(t *testing.T) {
	defs := annotations.GetCoreAnnotations()
	tests := []struct {
		line    string
		want    DeriveSet
		unknown []string
	}{
		{"@consty", AllDerives(), nil},
		{"@consty()", AllDerives(), nil},
		{"@consty(into)", DeriveSet{Forward: true}, nil},
		{"@consty(tryFrom)", DeriveSet{Inverse: true}, nil},
		{"@consty(display)", DeriveSet{Forward: true, Render: true}, nil},
		{"@consty(try_from, render)", DeriveSet{Forward: true, Inverse: true, Render: true}, nil},
		{"@consty(into, debug)", DeriveSet{Forward: true}, []string{"debug"}},
		{"@consty(into=false, inverse)", DeriveSet{Inverse: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ann := annotations.ParseLines([]string{tt.line})[0]
			got, unknown := ParseDerives(ann, defs)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.unknown, unknown)
		})
	}
}

func TestGenerateOrder(t *testing.T) {
	s := punctuation(t)
	frags := Generate(s, DeriveSet{Render: true, Inverse: true, Forward: true}, DefaultNames())
	require.Len(t, frags, 3)
	assert.Equal(t, GeneratorForward, frags[0].Generator)
	assert.Equal(t, GeneratorInverse, frags[1].Generator)
	assert.Equal(t, GeneratorRender, frags[2].Generator)

	assert.Empty(t, Generate(s, DeriveSet{}, DefaultNames()))
	assert.True(t, DeriveSet{}.Empty())
}
