package shaders

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spectral-engine/spectral/engine/core"
	"github.com/spectral-engine/spectral/engine/renderer"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// Indexed uniform binding points shared by every program. Binding 0 stays
// reserved for a long-lived projection buffer that other programs can keep
// bound for the whole frame.
const (
	bindingTransformationProjection uint32 = 1
	bindingDraw                     uint32 = 2
	bindingTextureTransformation    uint32 = 3
	bindingMaterial                 uint32 = 4
)

// Texture unit used by vector textures.
const unitVectorTexture uint32 = 0

// Program is the state shared by every shader variant: the uniform mode
// chosen irrevocably at construction, the capability flag set, the uniform
// table dimensions, and the backend handle. Instances are not safe for
// concurrent mutation and need external synchronization when shared.
type Program struct {
	backend renderer.Backend
	handle  uint32
	name    string
	flags   Flags
	state   modeState

	// Resolved once at construction in uniform-buffer mode when the draw
	// table has more than one row.
	drawOffsetLocation int32
}

// newProgram validates the mode and capability configuration and picks the
// mode state. The backend program object is created by the shader variant
// once its sources are assembled.
func newProgram(backend renderer.Backend, name string, flags, legal Flags, materialCount, drawCount uint32) (*Program, error) {
	if flags&^legal != 0 {
		return nil, fmt.Errorf("%w: flags %s not supported by %s", ErrConfiguration, (flags &^ legal).String(), name)
	}

	p := &Program{
		backend: backend,
		name:    fmt.Sprintf("%s-%s", name, uuid.New().String()[:8]),
		flags:   flags,
	}

	if flags.Has(UniformBuffers) {
		if materialCount == 0 {
			return nil, fmt.Errorf("%w: %s: material count can't be zero", ErrConfiguration, name)
		}
		if drawCount == 0 {
			return nil, fmt.Errorf("%w: %s: draw count can't be zero", ErrConfiguration, name)
		}
		if !backend.SupportsUniformBuffers() {
			return nil, fmt.Errorf("%w: %s: uniform buffers", core.ErrNotSupported, name)
		}
		if flags.Has(MultiDraw) && !backend.SupportsMultiDraw() {
			return nil, fmt.Errorf("%w: %s: multi-draw", core.ErrNotSupported, name)
		}
		p.state = &uniformBufferState{materials: materialCount, draws: drawCount}
	} else {
		// The convenience path: counts are pinned to one and not
		// user-visible.
		p.state = directState{}
	}

	return p, nil
}

// Mode returns the uniform supply mode fixed at construction.
func (p *Program) Mode() Mode {
	return p.state.mode()
}

// Flags returns the capability flag set fixed at construction.
func (p *Program) Flags() Flags {
	return p.flags
}

// MaterialCount returns the statically defined size of the material
// uniform table. Meaningful only in uniform-buffer mode.
func (p *Program) MaterialCount() uint32 {
	return p.state.materialCount()
}

// DrawCount returns the statically defined size of the per-draw uniform
// tables. Meaningful only in uniform-buffer mode.
func (p *Program) DrawCount() uint32 {
	return p.state.drawCount()
}

// DrawOffset returns the last successfully set draw offset.
func (p *Program) DrawOffset() uint32 {
	return p.state.drawOffset()
}

// Name returns the instance's debug name.
func (p *Program) Name() string {
	return p.name
}

// Handle returns the backend program id.
func (p *Program) Handle() uint32 {
	return p.handle
}

// SetDrawOffset selects which row of the per-draw uniform tables applies
// to the next draw. Legal only in uniform-buffer mode, with offset below
// DrawCount.
func (p *Program) SetDrawOffset(offset uint32) error {
	return p.state.setDrawOffset(p, offset)
}

// Destroy releases the backend program object.
func (p *Program) Destroy() {
	if p.handle != 0 {
		p.backend.ProgramDestroy(p.handle)
		p.handle = 0
	}
}

// create hands the assembled stages to the backend and records the
// resulting handle.
func (p *Program) create(stages []metadata.StageSource) error {
	handle, err := p.backend.ProgramCreate(p.name, stages)
	if err != nil {
		return err
	}
	p.handle = handle
	return nil
}

// requireFlag guards a capability-gated operation, independent of mode.
func (p *Program) requireFlag(flag Flags, op string) error {
	if !p.flags.Has(flag) {
		return fmt.Errorf("%w: %s: the shader was not created with %s enabled", ErrMissingCapability, op, flag.String())
	}
	return nil
}

// setUniform routes a direct parameter write through the mode state.
func (p *Program) setUniform(op string, write func()) error {
	return p.state.setUniform(op, write)
}

// bindBuffer routes a buffer bind through the mode state.
func (p *Program) bindBuffer(op string, binding uint32, buffer *metadata.RenderBuffer, rng Range) error {
	return p.state.bindBuffer(p, op, binding, buffer, rng)
}
