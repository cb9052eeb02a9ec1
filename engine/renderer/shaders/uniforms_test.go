package shaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/spectral-engine/spectral/engine/math"
)

func TestUniformStrides(t *testing.T) {
	// std140 rounds every row up to a 16 byte multiple.
	assert.Equal(t, uint64(64), TransformationProjectionUniformStride)
	assert.Equal(t, uint64(16), DistanceFieldVectorDrawUniformStride)
	assert.Equal(t, uint64(48), DistanceFieldVectorMaterialUniformStride)
	assert.Equal(t, uint64(64), TextureTransformationUniformStride)
}

func TestMaterialUniformDefaults(t *testing.T) {
	u := NewDistanceFieldVectorMaterialUniform()
	assert.True(t, m.NewColourWhite().Equals(u.Color))
	assert.True(t, m.NewColourTransparent().Equals(u.OutlineColor))
	assert.InDelta(t, 0.5, u.OutlineStart, 1e-6)
	assert.InDelta(t, 1.0, u.OutlineEnd, 1e-6)
	assert.InDelta(t, 0.04, u.Smoothness, 1e-6)
}

func TestTextureTransformationUniformSetTextureMatrix(t *testing.T) {
	mat := m.NewMat3Translation(m.NewVec2(0.25, 0.75))

	var u TextureTransformationUniform
	u.SetTextureMatrix(mat)

	assert.True(t, m.NewVec4(1, 0, 0, 0).Equals(u.RotationScaling[0]))
	assert.True(t, m.NewVec4(0, 1, 0, 0).Equals(u.RotationScaling[1]))
	assert.True(t, m.NewVec2(0.25, 0.75).Equals(u.Offset))
}

func TestUniformBytes(t *testing.T) {
	u := TransformationProjectionUniform{TransformationProjectionMatrix: m.NewMat4Identity()}
	raw := u.Bytes()
	require.Len(t, raw, int(TransformationProjectionUniformStride))

	// Writes through the slice alias the struct.
	raw[0] = 0
	raw[1] = 0
	raw[2] = 0
	raw[3] = 0
	assert.Equal(t, float32(0), u.TransformationProjectionMatrix.Data[0])
}

func TestPackRows(t *testing.T) {
	rows := []*DistanceFieldVectorMaterialUniform{}
	for i := 0; i < 3; i++ {
		u := NewDistanceFieldVectorMaterialUniform()
		rows = append(rows, &u)
	}
	packed := PackRows(rows)
	assert.Len(t, packed, 3*int(DistanceFieldVectorMaterialUniformStride))
}
