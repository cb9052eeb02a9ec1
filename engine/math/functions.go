package math

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

const (
	// Pi is an approximate representation of PI.
	Pi float32 = 3.14159265358979323846
	// TwoPi is an approximate representation of PI multiplied by 2.
	TwoPi float32 = 2.0 * Pi
	// HalfPi is an approximate representation of PI divided by 2.
	HalfPi float32 = 0.5 * Pi
	// Deg2Rad is a multiplier used to convert degrees to radians.
	Deg2Rad float32 = Pi / 180.0
	// Rad2Deg is a multiplier used to convert radians to degrees.
	Rad2Deg float32 = 180.0 / Pi
	// Epsilon is the smallest positive number where 1.0 + Epsilon != 1.0.
	Epsilon float32 = 1.192092896e-07
	// CompareEpsilon is the tolerance for approximate floating-point
	// comparison. Machine epsilon cannot absorb even one-ulp rounding
	// differences at magnitudes above one, so comparisons carry a few
	// orders of magnitude more slack.
	CompareEpsilon float32 = 1e-5
	// Infinity is a huge number that should be larger than any valid value used.
	Infinity float32 = 1e30
)

// FloatEquals compares two float32 values with a tolerance scaled by their
// magnitude. This is the numeric-equality policy used everywhere a
// floating-point comparison is needed; bitwise equality is never used.
func FloatEquals(a, b float32) bool {
	return math32.Abs(a-b) <= CompareEpsilon*math32.Max(1.0, math32.Max(math32.Abs(a), math32.Abs(b)))
}

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// ------------------------------------------
// Vector 2
// ------------------------------------------

// NewVec2 creates and returns a new 2-element vector using the supplied values.
func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// NewVec2Zero creates and returns a 2-component vector with all components set to 0.0.
func NewVec2Zero() Vec2 {
	return Vec2{}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vec2) Scale(scalar float32) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

func (v Vec2) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Equals compares this vector with another using the standard tolerance.
func (v Vec2) Equals(other Vec2) bool {
	return FloatEquals(v.X, other.X) && FloatEquals(v.Y, other.Y)
}

// ------------------------------------------
// Vector 4
// ------------------------------------------

// NewVec4 creates and returns a new 4-element vector using the supplied values.
func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// NewColourWhite returns an opaque white colour value.
func NewColourWhite() Vec4 {
	return Vec4{X: 1.0, Y: 1.0, Z: 1.0, W: 1.0}
}

// NewColourTransparent returns a fully transparent black colour value.
func NewColourTransparent() Vec4 {
	return Vec4{}
}

func (v Vec4) Scale(scalar float32) Vec4 {
	return Vec4{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar, W: v.W * scalar}
}

// Equals compares this vector with another using the standard tolerance.
func (v Vec4) Equals(other Vec4) bool {
	return FloatEquals(v.X, other.X) && FloatEquals(v.Y, other.Y) &&
		FloatEquals(v.Z, other.Z) && FloatEquals(v.W, other.W)
}

// ------------------------------------------
// Matrix 3
// ------------------------------------------

// NewMat3Identity creates and returns an identity matrix.
func NewMat3Identity() Mat3 {
	out := Mat3{}
	out.Data[0] = 1.0
	out.Data[4] = 1.0
	out.Data[8] = 1.0
	return out
}

// NewMat3Translation returns a matrix translating 2D homogeneous
// coordinates by the given vector.
func NewMat3Translation(position Vec2) Mat3 {
	out := NewMat3Identity()
	out.Data[6] = position.X
	out.Data[7] = position.Y
	return out
}

// NewMat3Scale returns a matrix scaling 2D coordinates by the given vector.
func NewMat3Scale(scale Vec2) Mat3 {
	out := NewMat3Identity()
	out.Data[0] = scale.X
	out.Data[4] = scale.Y
	return out
}

// NewMat3Rotation returns a matrix rotating 2D coordinates by the given
// complex number, which is expected to be normalized.
func NewMat3Rotation(rotation Complex[float32]) Mat3 {
	out := NewMat3Identity()
	out.Data[0] = rotation.Real()
	out.Data[1] = rotation.Imaginary()
	out.Data[3] = -rotation.Imaginary()
	out.Data[4] = rotation.Real()
	return out
}

// Mul multiplies this matrix with another and returns a copy of the result.
func (m Mat3) Mul(other Mat3) Mat3 {
	out := Mat3{}
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			var sum float32
			for i := 0; i < 3; i++ {
				sum += m.Data[i*3+row] * other.Data[col*3+i]
			}
			out.Data[col*3+row] = sum
		}
	}
	return out
}

// Equals compares this matrix with another using the standard tolerance.
func (m Mat3) Equals(other Mat3) bool {
	for i := range m.Data {
		if !FloatEquals(m.Data[i], other.Data[i]) {
			return false
		}
	}
	return true
}

// ------------------------------------------
// Matrix 4
// ------------------------------------------

// NewMat4Identity creates and returns an identity matrix.
func NewMat4Identity() Mat4 {
	out := Mat4{}
	out.Data[0] = 1.0
	out.Data[5] = 1.0
	out.Data[10] = 1.0
	out.Data[15] = 1.0
	return out
}

// NewMat4Orthographic creates and returns an orthographic projection matrix.
func NewMat4Orthographic(left, right, bottom, top, nearClip, farClip float32) Mat4 {
	out := NewMat4Identity()

	lr := 1.0 / (left - right)
	bt := 1.0 / (bottom - top)
	nf := 1.0 / (nearClip - farClip)

	out.Data[0] = -2.0 * lr
	out.Data[5] = -2.0 * bt
	out.Data[10] = 2.0 * nf

	out.Data[12] = (left + right) * lr
	out.Data[13] = (top + bottom) * bt
	out.Data[14] = (farClip + nearClip) * nf
	return out
}

// NewMat4Translation returns a matrix translating by the given position.
func NewMat4Translation(position Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[12] = position.X
	out.Data[13] = position.Y
	out.Data[14] = position.Z
	return out
}

// NewMat4Scale returns a matrix scaling by the given vector.
func NewMat4Scale(scale Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[0] = scale.X
	out.Data[5] = scale.Y
	out.Data[10] = scale.Z
	return out
}

// NewMat4EulerZ returns a matrix rotating around the Z axis.
func NewMat4EulerZ(angleRadians float32) Mat4 {
	out := NewMat4Identity()
	c := math32.Cos(angleRadians)
	s := math32.Sin(angleRadians)
	out.Data[0] = c
	out.Data[1] = s
	out.Data[4] = -s
	out.Data[5] = c
	return out
}

// Mul multiplies this matrix with another and returns a copy of the result.
func (m Mat4) Mul(other Mat4) Mat4 {
	out := Mat4{}
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for i := 0; i < 4; i++ {
				sum += m.Data[i*4+row] * other.Data[col*4+i]
			}
			out.Data[col*4+row] = sum
		}
	}
	return out
}

// Equals compares this matrix with another using the standard tolerance.
func (m Mat4) Equals(other Mat4) bool {
	for i := range m.Data {
		if !FloatEquals(m.Data[i], other.Data[i]) {
			return false
		}
	}
	return true
}
