package schema

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/decl"
)

func variant(name string, anns ...string) decl.Variant {
	return decl.Variant{Name: name, Annotations: annotations.ParseLines(anns)}
}

func enumDecl(name string, anns []string, variants ...decl.Variant) *decl.Declaration {
	return &decl.Declaration{
		Name:        name,
		Kind:        decl.KindEnum,
		Package:     "codes",
		Annotations: annotations.ParseLines(anns),
		Variants:    variants,
	}
}

func punctuation() *decl.Declaration {
	return enumDecl("Punctuation", []string{"@consty", "@constType(rune)"},
		variant("Plus", "@constVal('+')"),
		variant("Minus", "@constVal('-')"),
		variant("Star", "@constVal('*')"),
		variant("Equals", "@constVal('=')"),
	)
}

func TestExtractAssociated(t *testing.T) {
	s, err := Extract(punctuation())
	require.NoError(t, err, spew.Sdump(err))

	assert.Equal(t, "Punctuation", s.Name)
	assert.Equal(t, "codes", s.Package)
	assert.Equal(t, Associated, s.Kind)
	assert.Equal(t, "rune", s.Type.Text)
	assert.True(t, s.Type.Constant)
	require.Len(t, s.Variants, 4)

	names := []string{}
	for i, v := range s.Variants {
		names = append(names, v.Name)
		assert.Equal(t, i, v.Ordinal)
		assert.True(t, v.Value.IsExplicit())
	}
	assert.Equal(t, []string{"Plus", "Minus", "Star", "Equals"}, names)
	assert.Equal(t, "'+'", s.Variants[0].Value.Expr.Text)

	star, ok := s.Variant("Star")
	require.True(t, ok)
	assert.Equal(t, "'*'", star.Value.Expr.String())
	_, ok = s.Variant("Bang")
	assert.False(t, ok)
}

func TestExtractDiscriminant(t *testing.T) {
	d := enumDecl("Level", []string{"@repr(uint8)"},
		variant("Low", "@constVal(99)"), // ignored under discriminant kind
		variant("Mid"),
		variant("High"),
	)

	s, err := Extract(d)
	require.NoError(t, err)
	assert.Equal(t, Discriminant, s.Kind)
	assert.Equal(t, "uint8", s.Type.Text)
	for _, v := range s.Variants {
		assert.Equal(t, Discriminant, v.Value.Kind)
		assert.False(t, v.Value.IsExplicit())
	}
}

func TestConstTypeWinsOverRepr(t *testing.T) {
	d := enumDecl("Code", []string{"@repr(uint8)", "@const_ty(string)"},
		variant("A", "@constVal(\"a\")"),
	)

	s, err := Extract(d)
	require.NoError(t, err)
	assert.Equal(t, Associated, s.Kind)
	assert.Equal(t, "string", s.Type.Text)
}

func TestCompositeRepresentation(t *testing.T) {
	d := enumDecl("Color", []string{"@constType([3]uint8)"},
		variant("Black", "@constVal([3]uint8{0, 0, 0})"),
		variant("Red", "@constVal([3]uint8{150, 0, 0})"),
	)

	s, err := Extract(d)
	require.NoError(t, err)
	assert.False(t, s.Type.Constant)
	assert.Equal(t, "[3]uint8{150, 0, 0}", s.Variants[1].Value.Expr.Text)
}

func TestResolveTypeRefinesConstness(t *testing.T) {
	d := enumDecl("Code", []string{"@constType(Status)"}, variant("OK", "@constVal(\"ok\")"))
	calls := 0
	d.ResolveType = func(expr string) (bool, bool) {
		calls++
		assert.Equal(t, "Status", expr)
		return true, true
	}

	s, err := Extract(d)
	require.NoError(t, err)
	assert.True(t, s.Type.Constant)
	assert.Equal(t, 1, calls)
}

func TestExtractRejections(t *testing.T) {
	tests := []struct {
		name    string
		decl    *decl.Declaration
		rule    *Error
		variant string
	}{
		{
			name: "struct",
			decl: func() *decl.Declaration {
				d := enumDecl("Point", []string{"@constType(int)"}, variant("X", "@constVal(1)"))
				d.Kind = decl.KindStruct
				return d
			}(),
			rule: ErrNotEnum,
		},
		{
			name: "no variants",
			decl: enumDecl("Empty", []string{"@constType(int)"}),
			rule: ErrNoVariants,
		},
		{
			name: "type parameters",
			decl: func() *decl.Declaration {
				d := enumDecl("Box", []string{"@constType(int)"}, variant("A", "@constVal(1)"))
				d.Generics.TypeParams = []string{"T"}
				return d
			}(),
			rule: ErrGeneric,
		},
		{
			name: "lifetime parameters",
			decl: func() *decl.Declaration {
				d := enumDecl("Ref", []string{"@constType(int)"}, variant("A", "@constVal(1)"))
				d.Generics.Lifetimes = []string{"a"}
				return d
			}(),
			rule: ErrGeneric,
		},
		{
			name: "constraint clause",
			decl: func() *decl.Declaration {
				d := enumDecl("Ref", []string{"@constType(int)"}, variant("A", "@constVal(1)"))
				d.Generics.Constraints = []string{"Self: Copy"}
				return d
			}(),
			rule: ErrGeneric,
		},
		{
			name: "variant with fields",
			decl: func() *decl.Declaration {
				v := variant("Some", "@constVal(1)")
				v.Fields = &decl.FieldList{Style: decl.FieldsPositional, Fields: []decl.Field{{Type: "int"}}}
				return enumDecl("Option", []string{"@constType(int)"}, variant("None", "@constVal(0)"), v)
			}(),
			rule:    ErrVariantFields,
			variant: "Some",
		},
		{
			name: "unit style carrying fields",
			decl: func() *decl.Declaration {
				v := variant("Some", "@constVal(1)")
				v.Fields = &decl.FieldList{Style: decl.FieldsUnit, Fields: []decl.Field{{Type: "int"}}}
				return enumDecl("Option", []string{"@constType(int)"}, v)
			}(),
			rule:    ErrVariantFields,
			variant: "Some",
		},
		{
			name:    "duplicate variant",
			decl:    enumDecl("Dup", []string{"@constType(int)"}, variant("A", "@constVal(1)"), variant("A", "@constVal(2)")),
			rule:    ErrDuplicateVariant,
			variant: "A",
		},
		{
			name: "no representation",
			decl: enumDecl("Bare", []string{"@consty"}, variant("A", "@constVal(1)")),
			rule: ErrMissingRepr,
		},
		{
			name: "unparsable type",
			decl: enumDecl("Bad", []string{"@constType(42)"}, variant("A", "@constVal(1)")),
			rule: ErrBadType,
		},
		{
			name:    "missing value",
			decl:    enumDecl("Status", []string{"@constType(uint32)"}, variant("Success", "@constVal(200)"), variant("NotFound")),
			rule:    ErrMissingValue,
			variant: "NotFound",
		},
		{
			name:    "unparsable value",
			decl:    enumDecl("Status", []string{"@constType(uint32)"}, variant("Success", "@constVal(200 +)")),
			rule:    ErrBadValue,
			variant: "Success",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Extract(tt.decl)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrInvalidSchema)
			assert.ErrorIs(t, err, tt.rule)

			var serr *Error
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.variant, serr.Variant)
			assert.Contains(t, err.Error(), tt.decl.Name)
			assert.Contains(t, err.Error(), string(tt.rule.Rule))
		})
	}
}

func TestRejectionsAreDistinct(t *testing.T) {
	sentinels := []*Error{
		ErrNotEnum, ErrNoVariants, ErrGeneric, ErrVariantFields, ErrDuplicateVariant,
		ErrMissingRepr, ErrBadType, ErrMissingValue, ErrBadValue, ErrDuplicateValue,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, errors.Is(a, b), "%s vs %s", a.Rule, b.Rule)
		}
	}
}

func TestDuplicateValueFirstWins(t *testing.T) {
	d := enumDecl("Status", []string{"@constType(uint32)"},
		variant("OK", "@constVal(200)", "@const_val(201)"),
	)

	var warnings []string
	s, err := Extract(d, WithWarnings(func(location, message string) {
		warnings = append(warnings, location+": "+message)
	}))
	require.NoError(t, err)
	assert.Equal(t, "200", s.Variants[0].Value.Expr.Text)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "variant OK")
}

func TestAliasesMarked(t *testing.T) {
	vs := []decl.Variant{variant("Slow"), variant("Fast"), variant("Default"), variant("Turbo")}
	for i, disc := range []string{"0", "1", "1", ""} {
		vs[i].Discriminant = disc
	}

	var warnings []string
	s, err := Extract(enumDecl("Speed", []string{"@repr(uint8)"}, vs...), WithWarnings(func(location, message string) {
		warnings = append(warnings, location+": "+message)
	}))
	require.NoError(t, err)

	aliases := map[string]string{}
	for _, v := range s.Variants {
		aliases[v.Name] = v.AliasOf
	}
	assert.Equal(t, map[string]string{"Slow": "", "Fast": "", "Default": "Fast", "Turbo": ""}, aliases)
	assert.True(t, s.Variants[2].IsAlias())
	assert.False(t, s.Variants[3].IsAlias())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "variant Default")
	assert.Contains(t, warnings[0], "alias of Fast")
}

func TestDuplicateValueRejected(t *testing.T) {
	d := enumDecl("Status", []string{"@constType(uint32)"},
		variant("OK", "@constVal(200)", "@constVal(201)"),
	)

	_, err := Extract(d, WithDuplicatePolicy(DuplicateReject))
	assert.ErrorIs(t, err, ErrDuplicateValue)
}

func TestErrorUnwrapsCause(t *testing.T) {
	_, err := Extract(enumDecl("Bad", []string{"@repr()"}, variant("A")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadType)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "discriminant", Discriminant.String())
	assert.Equal(t, "associated", Associated.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
}
