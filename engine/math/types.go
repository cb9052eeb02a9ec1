package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector. Also used for RGBA colours.
type Vec4 struct {
	X, Y, Z, W float32
}

// Mat3 is a 3x3 matrix with column-major storage, typically used for
// texture coordinate transforms.
type Mat3 struct {
	Data [9]float32
}

// Mat4 is a 4x4 matrix with column-major storage, typically used to
// represent object transformations.
type Mat4 struct {
	Data [16]float32
}

// Vertex2D represents a single vertex in 2D space with a texture coordinate.
type Vertex2D struct {
	Position Vec2
	Texcoord Vec2
}
