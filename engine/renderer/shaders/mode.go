package shaders

import (
	"fmt"

	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// Mode is the uniform supply mode a program is constructed with. It is
// fixed for the program's lifetime; there are no transitions.
type Mode uint8

const (
	// ModeDirect supplies every parameter individually through setters,
	// one draw per invocation.
	ModeDirect Mode = iota
	// ModeUniformBuffers supplies parameters through caller-owned buffer
	// ranges indexed by a draw offset, enabling batched submission.
	ModeUniformBuffers
)

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeUniformBuffers:
		return "uniform-buffers"
	}
	return "unknown"
}

// Range is an optional sub-range of a bound buffer. The zero value means
// the whole buffer.
type Range struct {
	Offset uint64
	// Size of the range in bytes; zero means the remainder of the buffer.
	Size uint64
}

// modeState is the per-mode operation set. Exactly one implementation is
// chosen at construction. Each mode implements only the operations legal
// in it; the remaining operations are the error path of that type, so an
// illegal call can never reach the backend.
type modeState interface {
	mode() Mode
	materialCount() uint32
	drawCount() uint32
	drawOffset() uint32

	// setUniform guards a direct parameter write. The write closure
	// performs the actual backend call.
	setUniform(op string, write func()) error
	// bindBuffer guards attaching a caller-owned buffer range to an
	// indexed binding point.
	bindBuffer(p *Program, op string, binding uint32, buffer *metadata.RenderBuffer, rng Range) error
	// setDrawOffset guards selecting the per-draw table row.
	setDrawOffset(p *Program, offset uint32) error
}

// directState is the ModeDirect operation set. Counts are pinned to one
// and are not user-visible.
type directState struct{}

func (directState) mode() Mode            { return ModeDirect }
func (directState) materialCount() uint32 { return 1 }
func (directState) drawCount() uint32     { return 1 }
func (directState) drawOffset() uint32    { return 0 }

func (directState) setUniform(op string, write func()) error {
	write()
	return nil
}

func (directState) bindBuffer(p *Program, op string, binding uint32, buffer *metadata.RenderBuffer, rng Range) error {
	return fmt.Errorf("%w: %s: the shader was not created with uniform buffers enabled", ErrWrongMode, op)
}

func (directState) setDrawOffset(p *Program, offset uint32) error {
	return fmt.Errorf("%w: SetDrawOffset: the shader was not created with uniform buffers enabled", ErrWrongMode)
}

// uniformBufferState is the ModeUniformBuffers operation set. It carries
// the statically sized uniform table dimensions and the mutable draw
// offset.
type uniformBufferState struct {
	materials uint32
	draws     uint32
	offset    uint32
}

func (s *uniformBufferState) mode() Mode            { return ModeUniformBuffers }
func (s *uniformBufferState) materialCount() uint32 { return s.materials }
func (s *uniformBufferState) drawCount() uint32     { return s.draws }
func (s *uniformBufferState) drawOffset() uint32    { return s.offset }

func (s *uniformBufferState) setUniform(op string, write func()) error {
	return fmt.Errorf("%w: %s: the shader was created with uniform buffers enabled, populate and bind a buffer instead", ErrWrongMode, op)
}

func (s *uniformBufferState) bindBuffer(p *Program, op string, binding uint32, buffer *metadata.RenderBuffer, rng Range) error {
	return p.backend.BindUniformBuffer(p.handle, binding, buffer, rng.Offset, rng.Size)
}

func (s *uniformBufferState) setDrawOffset(p *Program, offset uint32) error {
	if offset >= s.draws {
		return fmt.Errorf("%w: draw offset %d is out of bounds for %d draws", ErrOutOfRange, offset, s.draws)
	}
	s.offset = offset
	// A single-draw table never needs an offset uniform; the stored value
	// still reflects the last successful set.
	if s.draws > 1 {
		p.backend.SetUniformUint(p.handle, p.drawOffsetLocation, offset)
	}
	return nil
}
