package shaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

func TestAssemblerOrdering(t *testing.T) {
	a := &assembler{}
	a.define("TWO_DIMENSIONS").defineValue("DRAW_COUNT", 4).source("void main() {}")

	assert.Equal(t, "#define TWO_DIMENSIONS\n#define DRAW_COUNT 4\nvoid main() {}\n", a.String())
}

func TestStageDefinesDirect(t *testing.T) {
	a := &assembler{}
	stageDefines(a, 2, 0, 1, 1, true)

	// Without uniform buffers no table sizes leak into the source.
	assert.Equal(t, "#define TWO_DIMENSIONS\n", a.String())
}

func TestStageDefinesUniformBuffers(t *testing.T) {
	a := &assembler{}
	stageDefines(a, 3, TextureTransformation|MultiDraw, 8, 4, true)

	out := a.String()
	assert.Contains(t, out, "#define THREE_DIMENSIONS\n")
	assert.Contains(t, out, "#define UNIFORM_BUFFERS\n")
	assert.Contains(t, out, "#define DRAW_COUNT 4\n")
	assert.Contains(t, out, "#define MATERIAL_COUNT 8\n")
	assert.Contains(t, out, "#define MULTI_DRAW\n")
	assert.Contains(t, out, "#define TEXTURE_TRANSFORMATION\n")
}

func TestAssembleStage(t *testing.T) {
	stage, err := assembleStage(testSources(), metadata.StageFragment, "vertexcolor.frag", func(a *assembler) {
		a.define("TWO_DIMENSIONS")
	})
	require.NoError(t, err)

	assert.Equal(t, metadata.StageFragment, stage.Stage)
	assert.Equal(t, "vertexcolor.frag", stage.Name)
	assert.Equal(t, "#define TWO_DIMENSIONS\n// generic interface\nvoid main() { /* vertexcolor frag */ }\n", stage.Source)
}

func TestAssembleStageMissingGeneric(t *testing.T) {
	sources := testSources()
	delete(sources, "generic.glsl")

	_, err := assembleStage(sources, metadata.StageVertex, "vertexcolor.vert", func(a *assembler) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generic.glsl")
}
