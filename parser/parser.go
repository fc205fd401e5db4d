// Package parser is the Go source front end. It finds type declarations
// annotated with @consty in loaded packages and turns them, together with
// the typed constants that enumerate their variants, into declarations for
// the schema extractor.
package parser

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"

	"github.com/pablor21/consty/annotations"
	"github.com/pablor21/consty/decl"
	"github.com/pablor21/consty/logger"
	"github.com/pablor21/consty/utils"
)

// Parser extracts declarations from Go packages.
type Parser struct {
	defs      annotations.Definitions
	log       logger.Logger
	validator *annotations.Validator
	// skip names files the parser ignores, typically the generated output.
	skip map[string]bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithValidator validates annotations while parsing.
func WithValidator(v *annotations.Validator) Option {
	return func(p *Parser) { p.validator = v }
}

// WithSkipFiles ignores files with the given base names.
func WithSkipFiles(names ...string) Option {
	return func(p *Parser) {
		for _, n := range names {
			p.skip[n] = true
		}
	}
}

// NewParser creates a parser using the core annotation definitions.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		defs: annotations.GetCoreAnnotations(),
		log:  logger.Nop{},
		skip: map[string]bool{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load loads the packages matching patterns relative to dir and parses them.
func (p *Parser) Load(dir string, patterns ...string) ([]*decl.Declaration, error) {
	pkgs, err := utils.LoadPackages(dir, patterns...)
	if err != nil {
		return nil, err
	}
	return p.ParsePackages(pkgs)
}

// ParsePackages parses every package. Packages that failed to load are an
// error; type errors are only logged since a stale generated file must not
// block regeneration.
func (p *Parser) ParsePackages(pkgs []*packages.Package) ([]*decl.Declaration, error) {
	var out []*decl.Declaration
	for _, pkg := range pkgs {
		if len(pkg.Syntax) == 0 && len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("failed to load package %s: %v", pkg.PkgPath, pkg.Errors[0])
		}
		for _, e := range pkg.Errors {
			p.log.Warn("package error", "package", pkg.PkgPath, "error", e.Msg)
		}
		out = append(out, p.ParsePackage(pkg)...)
	}
	return out, nil
}

// ParsePackage returns the @consty declarations of pkg in source order.
func (p *Parser) ParsePackage(pkg *packages.Package) []*decl.Declaration {
	consty := p.defs.MustSpec(annotations.NameConsty)
	pkgPath := utils.GetPackageFullPath(pkg)
	files := p.files(pkg)

	var out []*decl.Declaration
	for _, file := range files {
		for _, d := range file.Decls {
			genDecl, ok := d.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec := spec.(*ast.TypeSpec)
				anns := typeAnnotations(genDecl, typeSpec)
				if !annotations.Has(anns, consty) {
					continue
				}

				res := &decl.Declaration{
					Name:        typeSpec.Name.Name,
					Kind:        kindOf(typeSpec),
					Package:     pkg.Name,
					PackagePath: pkgPath,
					Dir:         utils.PackageDir(pkg),
					Annotations: anns,
					Position:    pkg.Fset.Position(typeSpec.Pos()),
					Generics:    decl.Generics{TypeParams: typeParams(typeSpec)},
					ResolveType: resolver(pkg),
				}
				if res.Kind == decl.KindEnum {
					res.Variants = p.variants(pkg, files, typeSpec)
				}
				p.validate(res)

				p.log.Debug(fmt.Sprintf("Parsed %d annotations and %d variants for %s.", len(anns), len(res.Variants), res.Location()))
				out = append(out, res)
			}
		}
	}
	return out
}

// files returns the package syntax minus generated and skipped files.
func (p *Parser) files(pkg *packages.Package) []*ast.File {
	var out []*ast.File
	for _, f := range pkg.Syntax {
		name := filepath.Base(pkg.Fset.Position(f.Package).Filename)
		if p.skip[name] || ast.IsGenerated(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// variants collects the constants of the enumeration type in source order.
func (p *Parser) variants(pkg *packages.Package, files []*ast.File, typeSpec *ast.TypeSpec) []decl.Variant {
	var named types.Type
	if pkg.TypesInfo != nil {
		if obj := pkg.TypesInfo.Defs[typeSpec.Name]; obj != nil {
			named = obj.Type()
		}
	}

	var out []decl.Variant
	for _, file := range files {
		for _, d := range file.Decls {
			genDecl, ok := d.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.CONST {
				continue
			}

			// Specs without type or values repeat the previous type.
			currentType := ""
			for _, spec := range genDecl.Specs {
				valueSpec := spec.(*ast.ValueSpec)
				switch {
				case valueSpec.Type != nil:
					currentType = typeName(valueSpec.Type)
				case len(valueSpec.Values) > 0:
					currentType = ""
				}

				for _, name := range valueSpec.Names {
					if name.Name == "_" || !p.isVariant(pkg, named, name, currentType, typeSpec.Name.Name) {
						continue
					}
					out = append(out, decl.Variant{
						Name:         name.Name,
						Discriminant: discriminant(pkg, name),
						Annotations:  annotations.ParseAnnotations([]*ast.CommentGroup{valueSpec.Doc, valueSpec.Comment}),
						Position:     pkg.Fset.Position(name.Pos()),
					})
				}
			}
		}
	}
	return out
}

// isVariant reports whether name is a constant of the enumeration type.
// Type information is authoritative; the syntactic type is the fallback.
func (p *Parser) isVariant(pkg *packages.Package, named types.Type, name *ast.Ident, syntactic, enum string) bool {
	if named != nil && pkg.TypesInfo != nil {
		if obj, ok := pkg.TypesInfo.Defs[name].(*types.Const); ok {
			return types.Identical(obj.Type(), named)
		}
	}
	return syntactic == enum
}

// discriminant returns the exact value of the constant name, or "" when
// type information is missing.
func discriminant(pkg *packages.Package, name *ast.Ident) string {
	if pkg.TypesInfo == nil {
		return ""
	}
	if obj, ok := pkg.TypesInfo.Defs[name].(*types.Const); ok && obj.Val().Kind() != constant.Unknown {
		return obj.Val().ExactString()
	}
	return ""
}

func (p *Parser) validate(d *decl.Declaration) {
	if p.validator == nil {
		return
	}
	p.validator.Validate(d.Annotations, annotations.AnnotationValidOnEnum, d.Location())
	for _, v := range d.Variants {
		p.validator.Validate(v.Annotations, annotations.AnnotationValidOnEnumValue, fmt.Sprintf("%s: %s.%s", v.Position, d.Name, v.Name))
	}
}

func typeAnnotations(genDecl *ast.GenDecl, typeSpec *ast.TypeSpec) []annotations.Annotation {
	var comments []*ast.CommentGroup
	// A grouped type declaration's doc applies to the group, not to each type.
	if genDecl.Doc != nil && !genDecl.Lparen.IsValid() {
		comments = append(comments, genDecl.Doc)
	}
	comments = append(comments, typeSpec.Doc, typeSpec.Comment)
	return annotations.ParseAnnotations(comments)
}

func kindOf(typeSpec *ast.TypeSpec) decl.Kind {
	if typeSpec.Assign.IsValid() {
		return decl.KindAlias
	}
	switch typeSpec.Type.(type) {
	case *ast.StructType:
		return decl.KindStruct
	case *ast.InterfaceType:
		return decl.KindInterface
	case *ast.FuncType, *ast.ChanType, *ast.MapType:
		return decl.KindOther
	}
	return decl.KindEnum
}

func typeParams(typeSpec *ast.TypeSpec) []string {
	var params []string
	if typeSpec.TypeParams == nil {
		return params
	}
	for _, field := range typeSpec.TypeParams.List {
		for _, name := range field.Names {
			params = append(params, name.Name)
		}
	}
	return params
}

func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	}
	return ""
}

// resolver answers whether a representation type can hold constants, using
// the package scope so named types declared in pkg resolve too.
func resolver(pkg *packages.Package) func(string) (bool, bool) {
	if pkg.Types == nil {
		return nil
	}
	return func(expr string) (bool, bool) {
		tv, err := types.Eval(pkg.Fset, pkg.Types, token.NoPos, expr)
		if err != nil || !tv.IsType() {
			return false, false
		}
		basic, ok := tv.Type.Underlying().(*types.Basic)
		return ok && basic.Info()&types.IsConstType != 0, true
	}
}
