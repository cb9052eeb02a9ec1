package shaders

import (
	"fmt"

	"github.com/spectral-engine/spectral/engine/math"
	"github.com/spectral-engine/spectral/engine/renderer"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// fakeBackend records every call the controller makes so the tests can
// assert on exactly what reached the device boundary.
type fakeBackend struct {
	uniformBuffers bool
	multiDraw      bool
	timerQueries   bool

	nextProgram uint32
	nextBuffer  uint32

	programs  map[uint32][]metadata.StageSource
	locations map[uint32]map[string]int32
	destroyed []uint32

	uniformWrites []uniformWrite
	bufferBinds   []bufferBind
	textureBinds  []textureBind
}

type uniformWrite struct {
	program  uint32
	location int32
	kind     string
	value    any
}

type bufferBind struct {
	program uint32
	binding uint32
	buffer  *metadata.RenderBuffer
	offset  uint64
	size    uint64
}

type textureBind struct {
	program uint32
	unit    uint32
	texture *metadata.Texture
}

var _ renderer.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		uniformBuffers: true,
		multiDraw:      true,
		timerQueries:   true,
		programs:       map[uint32][]metadata.StageSource{},
		locations:      map[uint32]map[string]int32{},
	}
}

func (b *fakeBackend) Initialize(appName string, appWidth, appHeight uint32) error { return nil }

func (b *fakeBackend) Shutdown() error { return nil }

func (b *fakeBackend) SupportsUniformBuffers() bool { return b.uniformBuffers }
func (b *fakeBackend) SupportsMultiDraw() bool      { return b.multiDraw }
func (b *fakeBackend) SupportsTimerQueries() bool   { return b.timerQueries }

func (b *fakeBackend) ProgramCreate(name string, stages []metadata.StageSource) (uint32, error) {
	b.nextProgram++
	b.programs[b.nextProgram] = stages
	b.locations[b.nextProgram] = map[string]int32{}
	return b.nextProgram, nil
}

func (b *fakeBackend) ProgramDestroy(program uint32) {
	b.destroyed = append(b.destroyed, program)
}

func (b *fakeBackend) UniformLocation(program uint32, name string) int32 {
	locs, ok := b.locations[program]
	if !ok {
		return -1
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := int32(len(locs))
	locs[name] = loc
	return loc
}

func (b *fakeBackend) record(program uint32, location int32, kind string, value any) {
	b.uniformWrites = append(b.uniformWrites, uniformWrite{program, location, kind, value})
}

func (b *fakeBackend) SetUniformMat4(program uint32, location int32, value math.Mat4) {
	b.record(program, location, "mat4", value)
}

func (b *fakeBackend) SetUniformMat3(program uint32, location int32, value math.Mat3) {
	b.record(program, location, "mat3", value)
}

func (b *fakeBackend) SetUniformVec4(program uint32, location int32, value math.Vec4) {
	b.record(program, location, "vec4", value)
}

func (b *fakeBackend) SetUniformVec2(program uint32, location int32, value math.Vec2) {
	b.record(program, location, "vec2", value)
}

func (b *fakeBackend) SetUniformFloat(program uint32, location int32, value float32) {
	b.record(program, location, "float", value)
}

func (b *fakeBackend) SetUniformUint(program uint32, location int32, value uint32) {
	b.record(program, location, "uint", value)
}

func (b *fakeBackend) BufferCreate(size uint64) (*metadata.RenderBuffer, error) {
	b.nextBuffer++
	return &metadata.RenderBuffer{ID: b.nextBuffer, TotalSize: size}, nil
}

func (b *fakeBackend) BufferUpload(buffer *metadata.RenderBuffer, offset uint64, data []byte) error {
	return nil
}

func (b *fakeBackend) BufferDestroy(buffer *metadata.RenderBuffer) {}

func (b *fakeBackend) BindUniformBuffer(program uint32, binding uint32, buffer *metadata.RenderBuffer, offset, size uint64) error {
	b.bufferBinds = append(b.bufferBinds, bufferBind{program, binding, buffer, offset, size})
	return nil
}

func (b *fakeBackend) BindTexture(program uint32, unit uint32, texture *metadata.Texture) {
	b.textureBinds = append(b.textureBinds, textureBind{program, unit, texture})
}

func (b *fakeBackend) QueryCreate(target metadata.QueryTarget) (uint32, error) {
	return 0, fmt.Errorf("queries not in use by these tests")
}

func (b *fakeBackend) QueryDestroy(query uint32) {}

func (b *fakeBackend) QueryBegin(query uint32) error { return nil }

func (b *fakeBackend) QueryEnd(query uint32) error { return nil }

func (b *fakeBackend) QueryTimestamp(query uint32) error { return nil }
func (b *fakeBackend) QueryResult(query uint32) (uint64, error) {
	return 0, nil
}

// lastWriteFor returns the most recent uniform write against the given
// location name, resolved through the fake's location table.
func (b *fakeBackend) lastWriteFor(program uint32, name string) (uniformWrite, bool) {
	loc, ok := b.locations[program][name]
	if !ok {
		return uniformWrite{}, false
	}
	for i := len(b.uniformWrites) - 1; i >= 0; i-- {
		w := b.uniformWrites[i]
		if w.program == program && w.location == loc {
			return w, true
		}
	}
	return uniformWrite{}, false
}

// fakeSources is an in-memory SourceProvider.
type fakeSources map[string]string

func (f fakeSources) Get(name string) (string, error) {
	src, ok := f[name]
	if !ok {
		return "", fmt.Errorf("no source named %q", name)
	}
	return src, nil
}

func testSources() fakeSources {
	return fakeSources{
		"generic.glsl":             "// generic interface\n",
		"vertexcolor.vert":         "void main() { /* vertexcolor vert */ }\n",
		"vertexcolor.frag":         "void main() { /* vertexcolor frag */ }\n",
		"distancefieldvector.vert": "void main() { /* dfv vert */ }\n",
		"distancefieldvector.frag": "void main() { /* dfv frag */ }\n",
	}
}
