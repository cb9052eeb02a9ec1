package shaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/spectral-engine/spectral/engine/math"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"

	"github.com/spectral-engine/spectral/engine/core"
)

func TestVertexColorDirectConstruction(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewVertexColor(backend, testSources(), VertexColorConfig{Dimensions: 2})
	require.NoError(t, err)

	assert.Equal(t, ModeDirect, s.Mode())
	assert.Equal(t, Flags(0), s.Flags())
	assert.Equal(t, uint32(1), s.DrawCount())
	assert.Equal(t, uint32(0), s.DrawOffset())
	assert.True(t, strings.HasPrefix(s.Name(), "VertexColor-"))

	// The transformation matrix starts out as identity.
	w, ok := backend.lastWriteFor(s.p.handle, "transformationProjectionMatrix")
	require.True(t, ok)
	assert.Equal(t, "mat4", w.kind)
	assert.True(t, m.NewMat4Identity().Equals(w.value.(m.Mat4)))
}

func TestVertexColorInvalidDimensions(t *testing.T) {
	backend := newFakeBackend()
	for _, dims := range []uint8{0, 1, 4} {
		_, err := NewVertexColor(backend, testSources(), VertexColorConfig{Dimensions: dims})
		assert.ErrorIs(t, err, ErrConfiguration, "dimensions %d", dims)
	}
}

func TestVertexColorRejectsTextureTransformation(t *testing.T) {
	backend := newFakeBackend()
	_, err := NewVertexColor(backend, testSources(), VertexColorConfig{
		Dimensions: 2,
		Flags:      TextureTransformation,
	})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestVertexColorUniformBuffersZeroDrawCount(t *testing.T) {
	backend := newFakeBackend()
	_, err := NewVertexColor(backend, testSources(), VertexColorConfig{
		Dimensions: 2,
		Flags:      UniformBuffers,
	})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestVertexColorBackendCapabilityGating(t *testing.T) {
	backend := newFakeBackend()
	backend.uniformBuffers = false
	_, err := NewVertexColor(backend, testSources(), VertexColorConfig{
		Dimensions: 2,
		Flags:      UniformBuffers,
		DrawCount:  1,
	})
	assert.ErrorIs(t, err, core.ErrNotSupported)

	backend = newFakeBackend()
	backend.multiDraw = false
	_, err = NewVertexColor(backend, testSources(), VertexColorConfig{
		Dimensions: 2,
		Flags:      MultiDraw,
		DrawCount:  4,
	})
	assert.ErrorIs(t, err, core.ErrNotSupported)
}

func TestVertexColorDefines(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewVertexColor(backend, testSources(), VertexColorConfig{
		Dimensions: 3,
		Flags:      MultiDraw,
		DrawCount:  4,
	})
	require.NoError(t, err)

	stages := backend.programs[s.p.handle]
	require.Len(t, stages, 2)
	assert.Equal(t, metadata.StageVertex, stages[0].Stage)
	assert.Equal(t, metadata.StageFragment, stages[1].Stage)
	for _, stage := range stages {
		assert.Contains(t, stage.Source, "#define THREE_DIMENSIONS\n")
		assert.Contains(t, stage.Source, "#define UNIFORM_BUFFERS\n")
		assert.Contains(t, stage.Source, "#define DRAW_COUNT 4\n")
		assert.Contains(t, stage.Source, "#define MULTI_DRAW\n")
		assert.NotContains(t, stage.Source, "MATERIAL_COUNT")
		assert.Contains(t, stage.Source, "generic interface")
	}
	assert.Contains(t, stages[0].Source, "vertexcolor vert")
	assert.Contains(t, stages[1].Source, "vertexcolor frag")
}

func TestVertexColorDirectOperationSet(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewVertexColor(backend, testSources(), VertexColorConfig{Dimensions: 2})
	require.NoError(t, err)

	assert.NoError(t, s.SetTransformationProjection(m.NewMat4Orthographic(0, 800, 600, 0, -1, 1)))

	buffer, err := backend.BufferCreate(256)
	require.NoError(t, err)
	assert.ErrorIs(t, s.BindTransformationProjectionBuffer(buffer), ErrWrongMode)
	assert.ErrorIs(t, s.SetDrawOffset(0), ErrWrongMode)
	assert.Empty(t, backend.bufferBinds)
}

func TestVertexColorUniformBufferOperationSet(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewVertexColor(backend, testSources(), VertexColorConfig{
		Dimensions: 2,
		Flags:      UniformBuffers,
		DrawCount:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, ModeUniformBuffers, s.Mode())
	assert.Equal(t, uint32(4), s.DrawCount())

	assert.ErrorIs(t, s.SetTransformationProjection(m.NewMat4Identity()), ErrWrongMode)

	buffer, err := backend.BufferCreate(4 * TransformationProjectionUniformStride)
	require.NoError(t, err)
	require.NoError(t, s.BindTransformationProjectionBuffer(buffer))
	require.Len(t, backend.bufferBinds, 1)
	bind := backend.bufferBinds[0]
	assert.Equal(t, bindingTransformationProjection, bind.binding)
	assert.Equal(t, buffer, bind.buffer)
	assert.Equal(t, uint64(0), bind.offset)
	assert.Equal(t, uint64(0), bind.size)

	require.NoError(t, s.BindTransformationProjectionBufferRange(buffer, Range{
		Offset: TransformationProjectionUniformStride,
		Size:   TransformationProjectionUniformStride,
	}))
	require.Len(t, backend.bufferBinds, 2)
	assert.Equal(t, TransformationProjectionUniformStride, backend.bufferBinds[1].offset)
	assert.Equal(t, TransformationProjectionUniformStride, backend.bufferBinds[1].size)
}

func TestVertexColorDrawOffset(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewVertexColor(backend, testSources(), VertexColorConfig{
		Dimensions: 2,
		Flags:      UniformBuffers,
		DrawCount:  4,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetDrawOffset(4), ErrOutOfRange)
	assert.Equal(t, uint32(0), s.DrawOffset())

	require.NoError(t, s.SetDrawOffset(3))
	assert.Equal(t, uint32(3), s.DrawOffset())
	w, ok := backend.lastWriteFor(s.p.handle, "drawOffset")
	require.True(t, ok)
	assert.Equal(t, "uint", w.kind)
	assert.Equal(t, uint32(3), w.value)
}

func TestVertexColorSingleDrawOffsetSkipsBackend(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewVertexColor(backend, testSources(), VertexColorConfig{
		Dimensions: 2,
		Flags:      UniformBuffers,
		DrawCount:  1,
	})
	require.NoError(t, err)

	before := len(backend.uniformWrites)
	require.NoError(t, s.SetDrawOffset(0))
	assert.Equal(t, uint32(0), s.DrawOffset())
	assert.Len(t, backend.uniformWrites, before)

	assert.ErrorIs(t, s.SetDrawOffset(1), ErrOutOfRange)
}

func TestVertexColorDestroy(t *testing.T) {
	backend := newFakeBackend()
	s, err := NewVertexColor(backend, testSources(), VertexColorConfig{Dimensions: 2})
	require.NoError(t, err)

	handle := s.p.handle
	s.Destroy()
	assert.Contains(t, backend.destroyed, handle)

	// A second Destroy is a no-op.
	s.Destroy()
	assert.Len(t, backend.destroyed, 1)
}
