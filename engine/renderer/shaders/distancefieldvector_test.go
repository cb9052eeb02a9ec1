package shaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/spectral-engine/spectral/engine/math"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

func TestDistanceFieldVectorDirectDefaults(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{
		Dimensions: 2,
		Flags:      TextureTransformation,
	})
	require.NoError(t, err)
	assert.Equal(t, ModeDirect, s.Mode())

	w, ok := backend.lastWriteFor(s.p.handle, "transformationProjectionMatrix")
	require.True(t, ok)
	assert.True(t, m.NewMat4Identity().Equals(w.value.(m.Mat4)))

	w, ok = backend.lastWriteFor(s.p.handle, "color")
	require.True(t, ok)
	assert.True(t, m.NewColourWhite().Equals(w.value.(m.Vec4)))

	w, ok = backend.lastWriteFor(s.p.handle, "outlineColor")
	require.True(t, ok)
	assert.True(t, m.NewColourTransparent().Equals(w.value.(m.Vec4)))

	w, ok = backend.lastWriteFor(s.p.handle, "outlineRange")
	require.True(t, ok)
	assert.True(t, m.NewVec2(0.5, 1.0).Equals(w.value.(m.Vec2)))

	w, ok = backend.lastWriteFor(s.p.handle, "smoothness")
	require.True(t, ok)
	assert.InDelta(t, 0.04, w.value.(float32), 1e-6)

	w, ok = backend.lastWriteFor(s.p.handle, "textureMatrix")
	require.True(t, ok)
	assert.True(t, m.NewMat3Identity().Equals(w.value.(m.Mat3)))
}

func TestDistanceFieldVectorNoTextureMatrixWithoutFlag(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{Dimensions: 2})
	require.NoError(t, err)

	_, ok := backend.locations[s.p.handle]["textureMatrix"]
	assert.False(t, ok)
}

func TestDistanceFieldVectorUniformBufferZeroCounts(t *testing.T) {
	backend := newFakeBackend()

	_, err := NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{
		Dimensions: 2,
		Flags:      UniformBuffers,
		DrawCount:  4,
	})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{
		Dimensions:    2,
		Flags:         UniformBuffers,
		MaterialCount: 4,
	})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestDistanceFieldVectorDefines(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{
		Dimensions:    2,
		Flags:         TextureTransformation | UniformBuffers,
		MaterialCount: 8,
		DrawCount:     4,
	})
	require.NoError(t, err)

	stages := backend.programs[s.p.handle]
	require.Len(t, stages, 2)
	for _, stage := range stages {
		assert.Contains(t, stage.Source, "#define TWO_DIMENSIONS\n")
		assert.Contains(t, stage.Source, "#define UNIFORM_BUFFERS\n")
		assert.Contains(t, stage.Source, "#define DRAW_COUNT 4\n")
		assert.Contains(t, stage.Source, "#define MATERIAL_COUNT 8\n")
		assert.Contains(t, stage.Source, "#define TEXTURE_TRANSFORMATION\n")
		assert.NotContains(t, stage.Source, "MULTI_DRAW")
	}
}

func TestDistanceFieldVectorDirectOperationSet(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{
		Dimensions: 2,
		Flags:      TextureTransformation,
	})
	require.NoError(t, err)

	assert.NoError(t, s.SetTransformationProjection(m.NewMat4Identity()))
	assert.NoError(t, s.SetTextureMatrix(m.NewMat3Translation(m.NewVec2(0.5, 0.5))))
	assert.NoError(t, s.SetColor(m.NewVec4(1, 0, 0, 1)))
	assert.NoError(t, s.SetOutlineColor(m.NewVec4(0, 0, 1, 1)))
	assert.NoError(t, s.SetOutlineRange(0.6, 0.4))
	assert.NoError(t, s.SetSmoothness(0.1))

	buffer, err := backend.BufferCreate(256)
	require.NoError(t, err)
	assert.ErrorIs(t, s.BindTransformationProjectionBuffer(buffer), ErrWrongMode)
	assert.ErrorIs(t, s.BindDrawBuffer(buffer), ErrWrongMode)
	assert.ErrorIs(t, s.BindTextureTransformationBuffer(buffer), ErrWrongMode)
	assert.ErrorIs(t, s.BindMaterialBuffer(buffer), ErrWrongMode)
	assert.ErrorIs(t, s.SetDrawOffset(0), ErrWrongMode)
	assert.Empty(t, backend.bufferBinds)
}

func TestDistanceFieldVectorUniformBufferOperationSet(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{
		Dimensions:    2,
		Flags:         TextureTransformation | UniformBuffers,
		MaterialCount: 4,
		DrawCount:     4,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetTransformationProjection(m.NewMat4Identity()), ErrWrongMode)
	assert.ErrorIs(t, s.SetTextureMatrix(m.NewMat3Identity()), ErrWrongMode)
	assert.ErrorIs(t, s.SetColor(m.NewColourWhite()), ErrWrongMode)
	assert.ErrorIs(t, s.SetOutlineColor(m.NewColourTransparent()), ErrWrongMode)
	assert.ErrorIs(t, s.SetOutlineRange(0.5, 1.0), ErrWrongMode)
	assert.ErrorIs(t, s.SetSmoothness(0.04), ErrWrongMode)

	buffer, err := backend.BufferCreate(1024)
	require.NoError(t, err)
	require.NoError(t, s.BindTransformationProjectionBuffer(buffer))
	require.NoError(t, s.BindDrawBuffer(buffer))
	require.NoError(t, s.BindTextureTransformationBuffer(buffer))
	require.NoError(t, s.BindMaterialBuffer(buffer))

	require.Len(t, backend.bufferBinds, 4)
	assert.Equal(t, bindingTransformationProjection, backend.bufferBinds[0].binding)
	assert.Equal(t, bindingDraw, backend.bufferBinds[1].binding)
	assert.Equal(t, bindingTextureTransformation, backend.bufferBinds[2].binding)
	assert.Equal(t, bindingMaterial, backend.bufferBinds[3].binding)
}

func TestDistanceFieldVectorCapabilityGating(t *testing.T) {
	backend := newFakeBackend()

	// Direct mode without the flag: the capability error wins.
	s, err := NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{Dimensions: 2})
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetTextureMatrix(m.NewMat3Identity()), ErrMissingCapability)

	// Uniform-buffer mode without the flag: both the bind and the setter
	// are rejected on the missing capability, which wins over the mode.
	s, err = NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{
		Dimensions:    2,
		Flags:         UniformBuffers,
		MaterialCount: 1,
		DrawCount:     1,
	})
	require.NoError(t, err)
	buffer, err := backend.BufferCreate(256)
	require.NoError(t, err)
	assert.ErrorIs(t, s.BindTextureTransformationBuffer(buffer), ErrMissingCapability)
	assert.ErrorIs(t, s.SetTextureMatrix(m.NewMat3Identity()), ErrMissingCapability)
}

func TestDistanceFieldVectorDrawOffsetBounds(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewDistanceFieldVector(backend, testSources(), DistanceFieldVectorConfig{
		Dimensions:    2,
		Flags:         UniformBuffers,
		MaterialCount: 4,
		DrawCount:     4,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(4), s.MaterialCount())
	assert.Equal(t, uint32(4), s.DrawCount())

	assert.ErrorIs(t, s.SetDrawOffset(4), ErrOutOfRange)
	assert.Equal(t, uint32(0), s.DrawOffset())

	require.NoError(t, s.SetDrawOffset(3))
	assert.Equal(t, uint32(3), s.DrawOffset())
}

func TestDistanceFieldVectorBindVectorTexture(t *testing.T) {
	texture := &metadata.Texture{ID: 7, Name: "glyphs", Width: 1024, Height: 1024}

	for _, cfg := range []DistanceFieldVectorConfig{
		{Dimensions: 2},
		{Dimensions: 2, Flags: UniformBuffers, MaterialCount: 1, DrawCount: 1},
	} {
		backend := newFakeBackend()
		s, err := NewDistanceFieldVector(backend, testSources(), cfg)
		require.NoError(t, err)

		s.BindVectorTexture(texture)
		require.Len(t, backend.textureBinds, 1)
		assert.Equal(t, unitVectorTexture, backend.textureBinds[0].unit)
		assert.Equal(t, texture, backend.textureBinds[0].texture)
	}
}

func TestDistanceFieldVectorMissingSource(t *testing.T) {
	backend := newFakeBackend()
	sources := testSources()
	delete(sources, "distancefieldvector.frag")

	_, err := NewDistanceFieldVector(backend, sources, DistanceFieldVectorConfig{Dimensions: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distancefieldvector.frag")
}
