package shaders

import (
	"fmt"

	"github.com/spectral-engine/spectral/engine/math"
	"github.com/spectral-engine/spectral/engine/renderer"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// Direct-mode defaults, matching the initial rows produced by
// NewDistanceFieldVectorMaterialUniform.
const (
	defaultOutlineStart float32 = 0.5
	defaultOutlineEnd   float32 = 1.0
	defaultSmoothness   float32 = 0.04
)

// DistanceFieldVector renders vector art stored as a signed distance field
// texture, with optional outlines and edge smoothing. The final look
// depends strongly on the input field radius and the smoothness value.
type DistanceFieldVector struct {
	p *Program

	transformationProjectionLocation int32
	textureMatrixLocation            int32
	colorLocation                    int32
	outlineColorLocation             int32
	outlineRangeLocation             int32
	smoothnessLocation               int32
}

// DistanceFieldVectorConfig is the construction contract for
// DistanceFieldVector.
type DistanceFieldVectorConfig struct {
	// Dimensions of the rendered positions, 2 or 3.
	Dimensions uint8
	// Flags may contain TextureTransformation, UniformBuffers or
	// MultiDraw.
	Flags Flags
	// MaterialCount sizes the material uniform table, DrawCount the
	// per-draw tables. Both required at least 1 when Flags contains
	// UniformBuffers, ignored otherwise.
	MaterialCount uint32
	DrawCount     uint32
}

// NewDistanceFieldVector compiles the distance-field vector program
// against the given backend. Fails with ErrConfiguration on an invalid
// dimension or a zero count in uniform-buffer mode.
func NewDistanceFieldVector(backend renderer.Backend, sources SourceProvider, cfg DistanceFieldVectorConfig) (*DistanceFieldVector, error) {
	if cfg.Dimensions != 2 && cfg.Dimensions != 3 {
		return nil, fmt.Errorf("%w: DistanceFieldVector: dimensions must be 2 or 3, have %d", ErrConfiguration, cfg.Dimensions)
	}

	legal := TextureTransformation | MultiDraw
	p, err := newProgram(backend, "DistanceFieldVector", cfg.Flags, legal, cfg.MaterialCount, cfg.DrawCount)
	if err != nil {
		return nil, err
	}

	preamble := func(a *assembler) {
		stageDefines(a, cfg.Dimensions, cfg.Flags, p.MaterialCount(), p.DrawCount(), true)
	}
	vert, err := assembleStage(sources, metadata.StageVertex, "distancefieldvector.vert", preamble)
	if err != nil {
		return nil, err
	}
	frag, err := assembleStage(sources, metadata.StageFragment, "distancefieldvector.frag", preamble)
	if err != nil {
		return nil, err
	}
	if err := p.create([]metadata.StageSource{vert, frag}); err != nil {
		return nil, err
	}

	s := &DistanceFieldVector{p: p}

	if p.Mode() == ModeUniformBuffers {
		if p.DrawCount() > 1 {
			p.drawOffsetLocation = backend.UniformLocation(p.handle, "drawOffset")
		}
	} else {
		s.transformationProjectionLocation = backend.UniformLocation(p.handle, "transformationProjectionMatrix")
		s.colorLocation = backend.UniformLocation(p.handle, "color")
		s.outlineColorLocation = backend.UniformLocation(p.handle, "outlineColor")
		s.outlineRangeLocation = backend.UniformLocation(p.handle, "outlineRange")
		s.smoothnessLocation = backend.UniformLocation(p.handle, "smoothness")

		backend.SetUniformMat4(p.handle, s.transformationProjectionLocation, math.NewMat4Identity())
		backend.SetUniformVec4(p.handle, s.colorLocation, math.NewColourWhite())
		backend.SetUniformVec4(p.handle, s.outlineColorLocation, math.NewColourTransparent())
		backend.SetUniformVec2(p.handle, s.outlineRangeLocation, math.NewVec2(defaultOutlineStart, defaultOutlineEnd))
		backend.SetUniformFloat(p.handle, s.smoothnessLocation, defaultSmoothness)

		if cfg.Flags.Has(TextureTransformation) {
			s.textureMatrixLocation = backend.UniformLocation(p.handle, "textureMatrix")
			backend.SetUniformMat3(p.handle, s.textureMatrixLocation, math.NewMat3Identity())
		}
	}

	return s, nil
}

// Mode returns the uniform supply mode fixed at construction.
func (s *DistanceFieldVector) Mode() Mode { return s.p.Mode() }

// Flags returns the capability flag set fixed at construction.
func (s *DistanceFieldVector) Flags() Flags { return s.p.Flags() }

// MaterialCount returns the statically defined size of the material
// uniform table. Has use only in uniform-buffer mode.
func (s *DistanceFieldVector) MaterialCount() uint32 { return s.p.MaterialCount() }

// DrawCount returns the statically defined size of the per-draw uniform
// tables. Has use only in uniform-buffer mode.
func (s *DistanceFieldVector) DrawCount() uint32 { return s.p.DrawCount() }

// DrawOffset returns the last successfully set draw offset.
func (s *DistanceFieldVector) DrawOffset() uint32 { return s.p.DrawOffset() }

// Name returns the instance's debug name.
func (s *DistanceFieldVector) Name() string { return s.p.Name() }

// Destroy releases the backend program object.
func (s *DistanceFieldVector) Destroy() { s.p.Destroy() }

// SetTransformationProjection sets the combined transformation and
// projection matrix. Initial value is an identity matrix. Fails with
// ErrWrongMode in uniform-buffer mode; fill a
// TransformationProjectionUniform buffer and call
// BindTransformationProjectionBuffer instead.
func (s *DistanceFieldVector) SetTransformationProjection(matrix math.Mat4) error {
	return s.p.setUniform("SetTransformationProjection", func() {
		s.p.backend.SetUniformMat4(s.p.handle, s.transformationProjectionLocation, matrix)
	})
}

// SetTextureMatrix sets the texture coordinate transformation matrix.
// Requires the TextureTransformation flag, independent of mode. Initial
// value is an identity matrix. In uniform-buffer mode fill a
// TextureTransformationUniform buffer and call
// BindTextureTransformationBuffer instead.
func (s *DistanceFieldVector) SetTextureMatrix(matrix math.Mat3) error {
	if err := s.p.requireFlag(TextureTransformation, "SetTextureMatrix"); err != nil {
		return err
	}
	return s.p.setUniform("SetTextureMatrix", func() {
		s.p.backend.SetUniformMat3(s.p.handle, s.textureMatrixLocation, matrix)
	})
}

// SetColor sets the fill colour. Initial value is opaque white.
func (s *DistanceFieldVector) SetColor(color math.Vec4) error {
	return s.p.setUniform("SetColor", func() {
		s.p.backend.SetUniformVec4(s.p.handle, s.colorLocation, color)
	})
}

// SetOutlineColor sets the outline colour. Initial value is transparent
// black and the outline is not drawn, see SetOutlineRange.
func (s *DistanceFieldVector) SetOutlineColor(color math.Vec4) error {
	return s.p.setUniform("SetOutlineColor", func() {
		s.p.backend.SetUniformVec4(s.p.handle, s.outlineColorLocation, color)
	})
}

// SetOutlineRange configures where the fill ends and the outline starts
// and ends. Larger start values thin the art, smaller ones thicken it.
// When end is larger than start the outline is not drawn. Initial values
// are 0.5 and 1.0.
func (s *DistanceFieldVector) SetOutlineRange(start, end float32) error {
	return s.p.setUniform("SetOutlineRange", func() {
		s.p.backend.SetUniformVec2(s.p.handle, s.outlineRangeLocation, math.NewVec2(start, end))
	})
}

// SetSmoothness sets the edge smoothing radius. Larger values blur the
// edges, smaller values sharpen them at the cost of aliasing. Initial
// value is 0.04.
func (s *DistanceFieldVector) SetSmoothness(value float32) error {
	return s.p.setUniform("SetSmoothness", func() {
		s.p.backend.SetUniformFloat(s.p.handle, s.smoothnessLocation, value)
	})
}

// BindTransformationProjectionBuffer attaches a caller-owned buffer
// expected to contain DrawCount rows of TransformationProjectionUniform.
// Fails with ErrWrongMode in direct mode.
func (s *DistanceFieldVector) BindTransformationProjectionBuffer(buffer *metadata.RenderBuffer) error {
	return s.BindTransformationProjectionBufferRange(buffer, Range{})
}

// BindTransformationProjectionBufferRange is
// BindTransformationProjectionBuffer restricted to a sub-range.
func (s *DistanceFieldVector) BindTransformationProjectionBufferRange(buffer *metadata.RenderBuffer, rng Range) error {
	return s.p.bindBuffer("BindTransformationProjectionBuffer", bindingTransformationProjection, buffer, rng)
}

// BindDrawBuffer attaches a caller-owned buffer expected to contain
// DrawCount rows of DistanceFieldVectorDrawUniform. Fails with
// ErrWrongMode in direct mode.
func (s *DistanceFieldVector) BindDrawBuffer(buffer *metadata.RenderBuffer) error {
	return s.BindDrawBufferRange(buffer, Range{})
}

// BindDrawBufferRange is BindDrawBuffer restricted to a sub-range.
func (s *DistanceFieldVector) BindDrawBufferRange(buffer *metadata.RenderBuffer, rng Range) error {
	return s.p.bindBuffer("BindDrawBuffer", bindingDraw, buffer, rng)
}

// BindTextureTransformationBuffer attaches a caller-owned buffer expected
// to contain DrawCount rows of TextureTransformationUniform. Requires
// uniform-buffer mode and the TextureTransformation flag.
func (s *DistanceFieldVector) BindTextureTransformationBuffer(buffer *metadata.RenderBuffer) error {
	return s.BindTextureTransformationBufferRange(buffer, Range{})
}

// BindTextureTransformationBufferRange is BindTextureTransformationBuffer
// restricted to a sub-range.
func (s *DistanceFieldVector) BindTextureTransformationBufferRange(buffer *metadata.RenderBuffer, rng Range) error {
	if s.p.Mode() == ModeUniformBuffers {
		if err := s.p.requireFlag(TextureTransformation, "BindTextureTransformationBuffer"); err != nil {
			return err
		}
	}
	return s.p.bindBuffer("BindTextureTransformationBuffer", bindingTextureTransformation, buffer, rng)
}

// BindMaterialBuffer attaches a caller-owned buffer expected to contain
// MaterialCount rows of DistanceFieldVectorMaterialUniform. Fails with
// ErrWrongMode in direct mode.
func (s *DistanceFieldVector) BindMaterialBuffer(buffer *metadata.RenderBuffer) error {
	return s.BindMaterialBufferRange(buffer, Range{})
}

// BindMaterialBufferRange is BindMaterialBuffer restricted to a sub-range.
func (s *DistanceFieldVector) BindMaterialBufferRange(buffer *metadata.RenderBuffer, rng Range) error {
	return s.p.bindBuffer("BindMaterialBuffer", bindingMaterial, buffer, rng)
}

// BindVectorTexture binds the distance field texture. Legal in both
// modes.
func (s *DistanceFieldVector) BindVectorTexture(texture *metadata.Texture) {
	s.p.backend.BindTexture(s.p.handle, unitVectorTexture, texture)
}

// SetDrawOffset selects which row of the per-draw uniform tables applies
// to the next draw. Initial value is 0.
func (s *DistanceFieldVector) SetDrawOffset(offset uint32) error {
	return s.p.SetDrawOffset(offset)
}
