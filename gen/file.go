package gen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
)

// DefaultFilename is the name of the generated file in each package.
const DefaultFilename = "consty_gen.go"

// Header returns the generated-code marker for version.
func Header(version string) string {
	return fmt.Sprintf("Code generated by consty %s. DO NOT EDIT.", version)
}

// NewFile assembles the fragments of one Go package into a file.
// Fragments are emitted in the order given.
func NewFile(pkg, version string, fragments []*Fragment) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(Header(version))
	for _, frag := range fragments {
		for _, code := range frag.Code() {
			f.Add(code)
			f.Line()
		}
	}
	return f
}

// FileSource renders the fragments of one package to Go source.
func FileSource(pkg, version string, fragments []*Fragment) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewFile(pkg, version, fragments).Render(&buf); err != nil {
		return nil, fmt.Errorf("render package %s: %w", pkg, err)
	}
	return buf.Bytes(), nil
}
