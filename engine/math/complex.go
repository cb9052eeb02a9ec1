package math

import (
	"fmt"
	m "math"

	"golang.org/x/exp/constraints"
)

// Complex is a complex number over the float type T, used to represent 2D
// rotations. The zero value is 0 + 0i.
type Complex[T constraints.Float] struct {
	real, imaginary T
}

// NewComplex constructs a complex number from its real and imaginary parts.
func NewComplex[T constraints.Float](real, imaginary T) Complex[T] {
	return Complex[T]{real: real, imaginary: imaginary}
}

// NewComplexFromReal constructs a complex number with a zero imaginary part.
func NewComplexFromReal[T constraints.Float](real T) Complex[T] {
	return Complex[T]{real: real}
}

// NewComplexFromAngle constructs a unit complex number representing a
// counterclockwise rotation by the given angle in radians.
func NewComplexFromAngle[T constraints.Float](angleRadians T) Complex[T] {
	return Complex[T]{
		real:      T(m.Cos(float64(angleRadians))),
		imaginary: T(m.Sin(float64(angleRadians))),
	}
}

// Real returns the real part.
func (c Complex[T]) Real() T { return c.real }

// Imaginary returns the imaginary part.
func (c Complex[T]) Imaginary() T { return c.imaginary }

// Equals compares two complex numbers component-wise with a tolerance
// scaled by their magnitude.
func (c Complex[T]) Equals(other Complex[T]) bool {
	return floatEquals(c.real, other.real) && floatEquals(c.imaginary, other.imaginary)
}

// Add returns the sum of the two complex numbers.
func (c Complex[T]) Add(other Complex[T]) Complex[T] {
	return Complex[T]{real: c.real + other.real, imaginary: c.imaginary + other.imaginary}
}

// Sub returns the difference of the two complex numbers.
func (c Complex[T]) Sub(other Complex[T]) Complex[T] {
	return Complex[T]{real: c.real - other.real, imaginary: c.imaginary - other.imaginary}
}

// Negated returns the negation of the complex number.
func (c Complex[T]) Negated() Complex[T] {
	return Complex[T]{real: -c.real, imaginary: -c.imaginary}
}

// Scale returns the complex number multiplied by a scalar.
func (c Complex[T]) Scale(scalar T) Complex[T] {
	return Complex[T]{real: c.real * scalar, imaginary: c.imaginary * scalar}
}

// Div returns the complex number divided by a scalar.
func (c Complex[T]) Div(scalar T) Complex[T] {
	return Complex[T]{real: c.real / scalar, imaginary: c.imaginary / scalar}
}

// Rotate applies the rotation represented by this complex number to a 2D
// vector. The complex number should be normalized.
func (c Complex[T]) Rotate(v Vec2) Vec2 {
	r := float32(c.real)
	i := float32(c.imaginary)
	return Vec2{
		X: r*v.X - i*v.Y,
		Y: i*v.X + r*v.Y,
	}
}

func (c Complex[T]) String() string {
	return fmt.Sprintf("Complex(%v, %v)", c.real, c.imaginary)
}

// ScalarMulComplex multiplies a scalar with a complex number. Same as
// Complex.Scale with the operands swapped.
func ScalarMulComplex[T constraints.Float](scalar T, c Complex[T]) Complex[T] {
	return c.Scale(scalar)
}

// ScalarDivComplex divides a scalar by a complex number COMPONENT-WISE:
//
//	t / (a + ib) = t/a + i(t/b)
//
// This is NOT the mathematical complex inverse (conj(c)*t/|c|^2). It is a
// component-wise convenience operator and callers expecting true complex
// division must not use it. The semantics are intentional and kept as-is;
// do not "fix" this.
func ScalarDivComplex[T constraints.Float](scalar T, c Complex[T]) Complex[T] {
	return Complex[T]{real: scalar / c.real, imaginary: scalar / c.imaginary}
}

// floatEquals is the generic counterpart of FloatEquals, using a
// comparison tolerance appropriate for the width of T.
func floatEquals[T constraints.Float](a, b T) bool {
	var eps T
	switch any(T(0)).(type) {
	case float32:
		eps = T(CompareEpsilon)
	default:
		eps = T(1e-14)
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	limit := T(1)
	for _, v := range [2]T{a, b} {
		if v < 0 {
			v = -v
		}
		if v > limit {
			limit = v
		}
	}
	return diff <= eps*limit
}
