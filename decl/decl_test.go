package decl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusManifest = `
package: codes
output: gen/consty_gen.go
enums:
  - name: StatusCode
    annotations:
      - "@consty(into, tryFrom)"
      - "@constType(uint32)"
    variants:
      - name: Success
        annotations: ["@constVal(200)"]
      - name: NotFound
        discriminant: "1"
        annotations: ["@constVal(404)"]
  - name: Payload
    generics:
      typeParams: [T]
    variants:
      - name: Some
        fields:
          style: positional
          fields:
            - type: T
  - name: Point
    kind: struct
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(statusManifest))
	require.NoError(t, err)
	assert.Equal(t, "codes", m.Package)

	decls := m.Declarations()
	require.Len(t, decls, 3)

	status := decls[0]
	assert.Equal(t, KindEnum, status.Kind)
	assert.Equal(t, "codes", status.Package)
	assert.Equal(t, "gen", status.Dir)
	require.Len(t, status.Annotations, 2)
	assert.Equal(t, "uint32", status.Annotations[1].Args)
	require.Len(t, status.Variants, 2)
	assert.Equal(t, "404", status.Variants[1].Annotations[0].Args)
	assert.Equal(t, "1", status.Variants[1].Discriminant)
	assert.Empty(t, status.Variants[0].Discriminant)
	assert.True(t, status.Variants[0].Fields.Empty())

	payload := decls[1]
	assert.True(t, payload.Generics.IsGeneric())
	assert.False(t, payload.Variants[0].Fields.Empty())

	assert.Equal(t, KindStruct, decls[2].Kind)
}

func TestParseManifestRequiresPackage(t *testing.T) {
	_, err := ParseManifest([]byte("enums: []"))
	assert.ErrorContains(t, err, "missing package name")

	_, err = ParseManifest([]byte("package: [unterminated"))
	assert.Error(t, err)
}

func TestLoadManifestResolvesOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enums.yml")
	require.NoError(t, os.WriteFile(path, []byte(statusManifest), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gen", "consty_gen.go"), m.Output)
	assert.Equal(t, path, m.Path)

	_, err = LoadManifest(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestFieldListEmpty(t *testing.T) {
	var nilList *FieldList
	assert.True(t, nilList.Empty())
	assert.True(t, (&FieldList{Style: FieldsNamed}).Empty())
	assert.True(t, (&FieldList{Style: FieldsUnit}).Empty())
	assert.False(t, (&FieldList{Style: FieldsUnit, Fields: []Field{{Type: "int"}}}).Empty())
	assert.False(t, (&FieldList{Style: FieldsNamed, Fields: []Field{{Name: "x", Type: "int"}}}).Empty())
}

func TestLocation(t *testing.T) {
	d := &Declaration{Name: "Status", PackagePath: "example.com/codes"}
	assert.Equal(t, "example.com/codes.Status", d.Location())
	assert.Equal(t, "Status", (&Declaration{Name: "Status"}).Location())
}
