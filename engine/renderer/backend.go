package renderer

import (
	"github.com/spectral-engine/spectral/engine/math"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// Backend is the boundary with the graphics device. Implementations own
// every GPU object; the rest of the engine only holds opaque ids and
// handles. Capability negotiation stays inside the backend and is exposed
// as plain booleans.
type Backend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error

	SupportsUniformBuffers() bool
	SupportsMultiDraw() bool
	SupportsTimerQueries() bool

	// ProgramCreate compiles and links the given stages into a program and
	// returns its id.
	ProgramCreate(name string, stages []metadata.StageSource) (uint32, error)
	ProgramDestroy(program uint32)
	// UniformLocation resolves a named parameter to an integer slot.
	// Returns a negative slot when the program has no such parameter.
	UniformLocation(program uint32, name string) int32

	SetUniformMat4(program uint32, location int32, value math.Mat4)
	SetUniformMat3(program uint32, location int32, value math.Mat3)
	SetUniformVec4(program uint32, location int32, value math.Vec4)
	SetUniformVec2(program uint32, location int32, value math.Vec2)
	SetUniformFloat(program uint32, location int32, value float32)
	SetUniformUint(program uint32, location int32, value uint32)

	BufferCreate(size uint64) (*metadata.RenderBuffer, error)
	BufferUpload(buffer *metadata.RenderBuffer, offset uint64, data []byte) error
	BufferDestroy(buffer *metadata.RenderBuffer)
	// BindUniformBuffer attaches a buffer range to an indexed binding point
	// of the program. A zero size binds the remainder of the buffer past
	// offset. The buffer stays caller-owned; its contents are not validated
	// here, structurally invalid buffers are rejected by the device.
	BindUniformBuffer(program uint32, binding uint32, buffer *metadata.RenderBuffer, offset, size uint64) error
	BindTexture(program uint32, unit uint32, texture *metadata.Texture)

	QueryCreate(target metadata.QueryTarget) (uint32, error)
	QueryDestroy(query uint32)
	QueryBegin(query uint32) error
	QueryEnd(query uint32) error
	QueryTimestamp(query uint32) error
	// QueryResult blocks until the result is available and returns it in
	// nanoseconds.
	QueryResult(query uint32) (uint64, error)
}
