package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTypes_Golden(t *testing.T) {
	tests := []struct {
		golden string
		spec   TypesSpec
	}{
		{
			golden: "types_file_full",
			spec: TypesSpec{
				Imports:   []string{"ZephyrSys", "Foundation"},
				Protocols: []string{"Sensor", "Driver", "Sensor"},
				Types:     []string{"Thermometer", " ", "Barometer"},
			},
		},
		{
			golden: "types_file_bare",
			spec:   TypesSpec{Imports: []string{"Foundation"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			content, err := RenderTypes(tt.spec)
			require.NoError(t, err)
			newGolden(t).Assert(t, tt.golden, []byte(content))
		})
	}
}

func TestRenderTypes_KeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	content, err := RenderTypes(TypesSpec{Types: []string{"Zeta", "Alpha"}, Protocols: []string{"Second", "First"}})
	require.NoError(t, err)

	assert.Less(t, strings.Index(content, "public struct Zeta"), strings.Index(content, "public struct Alpha"))
	assert.Less(t, strings.Index(content, "public protocol Second"), strings.Index(content, "public protocol First"))
	assert.Less(t, strings.Index(content, "public protocol First"), strings.Index(content, "public struct Zeta"))
}

func TestRenderTypes_OmitsEmptySections(t *testing.T) {
	t.Parallel()

	content, err := RenderTypes(TypesSpec{Imports: []string{"Foundation"}, Types: []string{"Only"}})
	require.NoError(t, err)

	assert.NotContains(t, content, "// Public protocols")
	assert.Contains(t, content, "// Public types\npublic struct Only {\n  // Implementation\n}\n// MARK: - Extension")
}

func TestGenerateTypes_WritesBelowModuleSources(t *testing.T) {
	t.Parallel()

	module := t.TempDir()
	artifact, err := GenerateTypes(module, TypesRequest{
		TypesSpec: TypesSpec{Imports: []string{"Foundation"}, Types: []string{"Led"}},
		FileName:  "Led",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(module, "Sources", "Led.swift"), artifact.Path)

	onDisk, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	assert.Equal(t, artifact.Content, string(onDisk))
}

func TestGenerateTypes_RejectsEscapingFileName(t *testing.T) {
	t.Parallel()

	module := t.TempDir()
	artifact, err := GenerateTypes(module, TypesRequest{FileName: "../../Escape.swift"})
	assert.ErrorIs(t, err, ErrOutsideRoot)
	require.NotNil(t, artifact)
	assert.NoFileExists(t, artifact.Path)
	assert.Contains(t, artifact.Content, "// MARK: - Private")
}
