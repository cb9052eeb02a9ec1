package shaders

import (
	"fmt"

	"github.com/spectral-engine/spectral/engine/math"
	"github.com/spectral-engine/spectral/engine/renderer"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// VertexColor renders a mesh with per-vertex colour attributes. It has no
// material table; in uniform-buffer mode only the transformation buffer is
// consumed, sized by DrawCount.
type VertexColor struct {
	p *Program

	transformationProjectionLocation int32
}

// VertexColorConfig is the construction contract for VertexColor.
type VertexColorConfig struct {
	// Dimensions of the rendered positions, 2 or 3.
	Dimensions uint8
	// Flags may contain UniformBuffers or MultiDraw.
	Flags Flags
	// DrawCount sizes the transformation uniform table. Required at least
	// 1 when Flags contains UniformBuffers, ignored otherwise.
	DrawCount uint32
}

// NewVertexColor compiles the vertex-colour program against the given
// backend. Fails with ErrConfiguration on an invalid dimension, a flag the
// variant does not support, or a zero draw count in uniform-buffer mode.
func NewVertexColor(backend renderer.Backend, sources SourceProvider, cfg VertexColorConfig) (*VertexColor, error) {
	if cfg.Dimensions != 2 && cfg.Dimensions != 3 {
		return nil, fmt.Errorf("%w: VertexColor: dimensions must be 2 or 3, have %d", ErrConfiguration, cfg.Dimensions)
	}

	p, err := newProgram(backend, "VertexColor", cfg.Flags, MultiDraw, 1, cfg.DrawCount)
	if err != nil {
		return nil, err
	}

	preamble := func(a *assembler) {
		stageDefines(a, cfg.Dimensions, cfg.Flags, 1, p.DrawCount(), false)
	}
	vert, err := assembleStage(sources, metadata.StageVertex, "vertexcolor.vert", preamble)
	if err != nil {
		return nil, err
	}
	frag, err := assembleStage(sources, metadata.StageFragment, "vertexcolor.frag", preamble)
	if err != nil {
		return nil, err
	}
	if err := p.create([]metadata.StageSource{vert, frag}); err != nil {
		return nil, err
	}

	s := &VertexColor{p: p}

	// Parameter slots are resolved by name exactly once, here. In
	// uniform-buffer mode the draw offset slot aliases the others and is
	// only needed with more than one draw.
	if p.Mode() == ModeUniformBuffers {
		if p.DrawCount() > 1 {
			p.drawOffsetLocation = backend.UniformLocation(p.handle, "drawOffset")
		}
	} else {
		s.transformationProjectionLocation = backend.UniformLocation(p.handle, "transformationProjectionMatrix")
		backend.SetUniformMat4(p.handle, s.transformationProjectionLocation, math.NewMat4Identity())
	}

	return s, nil
}

// Mode returns the uniform supply mode fixed at construction.
func (s *VertexColor) Mode() Mode { return s.p.Mode() }

// Flags returns the capability flag set fixed at construction.
func (s *VertexColor) Flags() Flags { return s.p.Flags() }

// DrawCount returns the statically defined size of the transformation
// uniform table. Has use only in uniform-buffer mode.
func (s *VertexColor) DrawCount() uint32 { return s.p.DrawCount() }

// DrawOffset returns the last successfully set draw offset.
func (s *VertexColor) DrawOffset() uint32 { return s.p.DrawOffset() }

// Name returns the instance's debug name.
func (s *VertexColor) Name() string { return s.p.Name() }

// Destroy releases the backend program object.
func (s *VertexColor) Destroy() { s.p.Destroy() }

// SetTransformationProjection sets the combined transformation and
// projection matrix. Initial value is an identity matrix. Fails with
// ErrWrongMode in uniform-buffer mode; fill a
// TransformationProjectionUniform buffer and call
// BindTransformationProjectionBuffer instead.
func (s *VertexColor) SetTransformationProjection(matrix math.Mat4) error {
	return s.p.setUniform("SetTransformationProjection", func() {
		s.p.backend.SetUniformMat4(s.p.handle, s.transformationProjectionLocation, matrix)
	})
}

// BindTransformationProjectionBuffer attaches a caller-owned buffer
// expected to contain DrawCount rows of TransformationProjectionUniform.
// Fails with ErrWrongMode in direct mode.
func (s *VertexColor) BindTransformationProjectionBuffer(buffer *metadata.RenderBuffer) error {
	return s.BindTransformationProjectionBufferRange(buffer, Range{})
}

// BindTransformationProjectionBufferRange is
// BindTransformationProjectionBuffer restricted to a sub-range.
func (s *VertexColor) BindTransformationProjectionBufferRange(buffer *metadata.RenderBuffer, rng Range) error {
	return s.p.bindBuffer("BindTransformationProjectionBuffer", bindingTransformationProjection, buffer, rng)
}

// SetDrawOffset selects which row of the transformation table applies to
// the next draw. Initial value is 0.
func (s *VertexColor) SetDrawOffset(offset uint32) error {
	return s.p.SetDrawOffset(offset)
}
