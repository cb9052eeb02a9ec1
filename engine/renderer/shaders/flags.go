package shaders

import "strings"

// Flags is a set of construction-time feature toggles. Flags compose
// independently of the uniform mode and are immutable after construction.
type Flags uint8

const (
	// TextureTransformation enables texture coordinate transforms and
	// gates SetTextureMatrix / BindTextureTransformationBuffer.
	TextureTransformation Flags = 1 << 0

	// UniformBuffers switches the program to uniform-buffer mode: uniform
	// data is supplied through buffers bound with the Bind*Buffer calls
	// instead of the direct setters, with per-draw rows selected by
	// SetDrawOffset.
	UniformBuffers Flags = 1 << 1

	// MultiDraw is a strict superset of UniformBuffers. It additionally
	// compiles the shader so the draw offset is sourced per-draw from the
	// submission, allowing whole uniform tables to be consumed by one
	// batched multi-draw call.
	MultiDraw Flags = UniformBuffers | 1<<2
)

// Has reports whether every bit of other is set. Note that for compound
// flags such as MultiDraw this is a superset test.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

func (f Flags) String() string {
	if f == 0 {
		return "Flags{}"
	}
	var names []string
	if f.Has(TextureTransformation) {
		names = append(names, "TextureTransformation")
	}
	// MultiDraw is a superset of UniformBuffers, print the wider one only.
	if f.Has(MultiDraw) {
		names = append(names, "MultiDraw")
	} else if f.Has(UniformBuffers) {
		names = append(names, "UniformBuffers")
	}
	return "Flags{" + strings.Join(names, "|") + "}"
}
