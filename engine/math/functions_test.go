package math

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestFloatEquals(t *testing.T) {
	assert.True(t, FloatEquals(1.0, 1.0))
	assert.True(t, FloatEquals(1000.0, 1000.00001))
	assert.False(t, FloatEquals(1.0, 1.001))
	assert.False(t, FloatEquals(0.0, 0.001))

	// A single ulp of rounding above magnitude one must compare equal.
	a := float32(1.604)
	assert.True(t, FloatEquals(a, math32.Nextafter(a, 2)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, 0, Clamp(-3, 0, 5))
	assert.Equal(t, float32(2.5), Clamp(float32(2.5), 0, 5))
}

func TestMat3RotationFromComplex(t *testing.T) {
	rot := NewMat3Rotation(NewComplexFromAngle[float32](HalfPi))
	// Rotating the X basis vector by 90 degrees lands on the Y basis vector.
	x := rot.Data[0]*1 + rot.Data[3]*0
	y := rot.Data[1]*1 + rot.Data[4]*0
	assert.True(t, NewVec2(x, y).Equals(NewVec2(0, 1)))
}

func TestMat3MulIdentity(t *testing.T) {
	m := NewMat3Translation(NewVec2(3, -2)).Mul(NewMat3Scale(NewVec2(2, 2)))
	assert.True(t, m.Mul(NewMat3Identity()).Equals(m))
	assert.True(t, NewMat3Identity().Mul(m).Equals(m))
}

func TestMat4Orthographic(t *testing.T) {
	proj := NewMat4Orthographic(-1, 1, -1, 1, -1, 1)
	id := NewMat4Identity()
	// A symmetric unit cube projection only flips the Z axis.
	id.Data[10] = -1
	assert.True(t, proj.Equals(id))
}

func TestMat4MulTranslationCompose(t *testing.T) {
	a := NewMat4Translation(Vec3{X: 1, Y: 2, Z: 3})
	b := NewMat4Translation(Vec3{X: -1, Y: 0, Z: 4})
	ab := a.Mul(b)
	assert.True(t, ab.Equals(NewMat4Translation(Vec3{X: 0, Y: 2, Z: 7})))
}
