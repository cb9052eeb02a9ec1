package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectral-engine/spectral/engine/renderer/shaders"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.shadercfg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadShaderConfig(t *testing.T) {
	path := writeConfig(t, `
name = "distancefieldvector"
dimensions = 2
flags = ["texture-transformation", "multi-draw"]
material-count = 8
draw-count = 16
`)

	cfg, err := LoadShaderConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "distancefieldvector", cfg.Name)
	assert.Equal(t, uint8(2), cfg.Dimensions)
	assert.Equal(t, uint32(8), cfg.MaterialCount)
	assert.Equal(t, uint32(16), cfg.DrawCount)

	flags, err := cfg.ParseFlags()
	require.NoError(t, err)
	assert.Equal(t, shaders.TextureTransformation|shaders.MultiDraw, flags)

	dfv, err := cfg.DistanceFieldVectorConfig()
	require.NoError(t, err)
	assert.Equal(t, uint32(8), dfv.MaterialCount)
	assert.Equal(t, uint32(16), dfv.DrawCount)
}

func TestLoadShaderConfigMissingName(t *testing.T) {
	path := writeConfig(t, `dimensions = 2`)
	_, err := LoadShaderConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name")
}

func TestShaderConfigUnknownFlag(t *testing.T) {
	cfg := &ShaderConfig{Name: "vertexcolor", Dimensions: 2, Flags: []string{"instancing"}}
	_, err := cfg.ParseFlags()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instancing")

	_, err = cfg.VertexColorConfig()
	assert.Error(t, err)
}

func TestShaderConfigVertexColor(t *testing.T) {
	cfg := &ShaderConfig{
		Name:       "vertexcolor",
		Dimensions: 3,
		Flags:      []string{"uniform-buffers"},
		DrawCount:  4,
	}
	vc, err := cfg.VertexColorConfig()
	require.NoError(t, err)
	assert.Equal(t, uint8(3), vc.Dimensions)
	assert.Equal(t, shaders.UniformBuffers, vc.Flags)
	assert.Equal(t, uint32(4), vc.DrawCount)
}
