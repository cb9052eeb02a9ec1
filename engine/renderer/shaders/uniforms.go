package shaders

import (
	"unsafe"

	"github.com/spectral-engine/spectral/engine/math"
)

// Uniform table row types, laid out std140-compatible so slices of them can
// be uploaded to uniform buffers as-is. A buffer bound for a program is
// expected to hold DrawCount rows of the per-draw types and MaterialCount
// rows of the material type.

// TransformationProjectionUniform is one row of the transformation buffer.
type TransformationProjectionUniform struct {
	TransformationProjectionMatrix math.Mat4
}

// DistanceFieldVectorDrawUniform is one row of the per-draw buffer. The
// material id selects the material table row used for the draw.
type DistanceFieldVectorDrawUniform struct {
	MaterialID uint32
	_          [3]uint32
}

// DistanceFieldVectorMaterialUniform is one row of the material buffer.
type DistanceFieldVectorMaterialUniform struct {
	Color        math.Vec4
	OutlineColor math.Vec4
	OutlineStart float32
	OutlineEnd   float32
	Smoothness   float32
	_            float32
}

// TextureTransformationUniform is one row of the texture transformation
// buffer. The rotation-scaling part is stored as three padded columns as
// std140 requires for 3x3 matrices.
type TextureTransformationUniform struct {
	RotationScaling [3]math.Vec4
	Offset          math.Vec2
	_               [2]float32
}

// SetTextureMatrix splits a Mat3 into the padded rotation-scaling columns
// and the translation offset.
func (u *TextureTransformationUniform) SetTextureMatrix(m math.Mat3) {
	for col := 0; col < 3; col++ {
		u.RotationScaling[col] = math.Vec4{
			X: m.Data[col*3+0],
			Y: m.Data[col*3+1],
			Z: m.Data[col*3+2],
		}
	}
	u.Offset = math.Vec2{X: m.Data[6], Y: m.Data[7]}
}

// NewDistanceFieldVectorMaterialUniform returns a material row with the
// same defaults the direct setters start from.
func NewDistanceFieldVectorMaterialUniform() DistanceFieldVectorMaterialUniform {
	return DistanceFieldVectorMaterialUniform{
		Color:        math.NewColourWhite(),
		OutlineColor: math.NewColourTransparent(),
		OutlineStart: defaultOutlineStart,
		OutlineEnd:   defaultOutlineEnd,
		Smoothness:   defaultSmoothness,
	}
}

// Strides of one row of each table, in bytes.
const (
	TransformationProjectionUniformStride    = uint64(unsafe.Sizeof(TransformationProjectionUniform{}))
	DistanceFieldVectorDrawUniformStride     = uint64(unsafe.Sizeof(DistanceFieldVectorDrawUniform{}))
	DistanceFieldVectorMaterialUniformStride = uint64(unsafe.Sizeof(DistanceFieldVectorMaterialUniform{}))
	TextureTransformationUniformStride       = uint64(unsafe.Sizeof(TextureTransformationUniform{}))
)

func (u *TransformationProjectionUniform) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), unsafe.Sizeof(*u))
}

func (u *DistanceFieldVectorDrawUniform) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), unsafe.Sizeof(*u))
}

func (u *DistanceFieldVectorMaterialUniform) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), unsafe.Sizeof(*u))
}

func (u *TextureTransformationUniform) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), unsafe.Sizeof(*u))
}

// PackRows flattens uniform table rows into one upload-ready byte slice.
func PackRows[T interface{ Bytes() []byte }](rows []T) []byte {
	var out []byte
	for _, r := range rows {
		out = append(out, r.Bytes()...)
	}
	return out
}
