package testbed

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spectral-engine/spectral/engine"
	"github.com/spectral-engine/spectral/engine/assets"
	"github.com/spectral-engine/spectral/engine/core"
	"github.com/spectral-engine/spectral/engine/math"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
	"github.com/spectral-engine/spectral/engine/renderer/shaders"
)

// TestbedGame drives both builtin shader programs through a frame loop,
// in uniform-buffer mode when the backend supports it and in direct mode
// otherwise.
type TestbedGame struct {
	*engine.Game
}

type gameState struct {
	projection math.Mat4
	angle      float64

	vertexColor   *shaders.VertexColor
	distanceField *shaders.DistanceFieldVector

	transformBuffer *metadata.RenderBuffer
	drawBuffer      *metadata.RenderBuffer
	materialBuffer  *metadata.RenderBuffer

	font *assets.BitmapFont
}

// prefixedSources serves shader sources from a subdirectory of the asset
// library.
type prefixedSources struct {
	library *assets.Library
	prefix  string
}

func (p prefixedSources) Get(name string) (string, error) {
	return p.library.Get(path.Join(p.prefix, name))
}

func New() *TestbedGame {
	tg := &TestbedGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				StartPosX:   100,
				StartPosY:   100,
				StartWidth:  1280,
				StartHeight: 720,
				Name:        "Spectral Testbed",
				LogLevel:    core.DebugLevel,
			},
			State: &gameState{
				projection: math.NewMat4Identity(),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestbedGame) Initialize() error {
	state := g.State.(*gameState)
	backend := g.Renderer.Backend()
	sources := prefixedSources{library: g.Library, prefix: "shaders"}

	vcCfg, err := g.loadConfig("vertexcolor.shadercfg", backend.SupportsUniformBuffers())
	if err != nil {
		return err
	}
	vc, err := shaders.NewVertexColor(backend, sources, shaders.VertexColorConfig{
		Dimensions: vcCfg.Dimensions,
		Flags:      vcCfg.Flags,
		DrawCount:  vcCfg.DrawCount,
	})
	if err != nil {
		return err
	}
	state.vertexColor = vc

	dfCfg, err := g.loadConfig("distancefieldvector.shadercfg", backend.SupportsUniformBuffers())
	if err != nil {
		return err
	}
	df, err := shaders.NewDistanceFieldVector(backend, sources, shaders.DistanceFieldVectorConfig{
		Dimensions:    dfCfg.Dimensions,
		Flags:         dfCfg.Flags,
		MaterialCount: dfCfg.MaterialCount,
		DrawCount:     dfCfg.DrawCount,
	})
	if err != nil {
		return err
	}
	state.distanceField = df

	if vc.Mode() == shaders.ModeUniformBuffers || df.Mode() == shaders.ModeUniformBuffers {
		if err := g.setupUniformBuffers(state); err != nil {
			return err
		}
	}

	// The distance field shader renders bitmap font glyphs; the font
	// itself is optional testbed content.
	fontPath := filepath.Join(g.Library.Root(), "fonts", "ubuntu-mono.fnt")
	if _, err := os.Stat(fontPath); err == nil {
		font, err := assets.LoadBitmapFont(fontPath)
		if err != nil {
			return err
		}
		state.font = font
		core.LogInfo("loaded font %q: %d glyphs, line height %d", font.Face, len(font.Glyphs), font.LineHeight)
	}

	return nil
}

// loadConfig reads a shader configuration file and downgrades it to
// direct mode when the backend lacks uniform buffer support.
func (g *TestbedGame) loadConfig(name string, uniformBuffers bool) (*configResult, error) {
	sc, err := assets.LoadShaderConfig(filepath.Join(g.Library.Root(), "shaders", name))
	if err != nil {
		return nil, err
	}
	flags, err := sc.ParseFlags()
	if err != nil {
		return nil, err
	}
	if flags.Has(shaders.UniformBuffers) && !uniformBuffers {
		core.LogWarn("%s requests uniform buffers, falling back to direct uniforms", sc.Name)
		flags &^= shaders.MultiDraw
	}
	return &configResult{
		Dimensions:    sc.Dimensions,
		Flags:         flags,
		MaterialCount: sc.MaterialCount,
		DrawCount:     sc.DrawCount,
	}, nil
}

type configResult struct {
	Dimensions    uint8
	Flags         shaders.Flags
	MaterialCount uint32
	DrawCount     uint32
}

// setupUniformBuffers allocates the shared transformation table plus the
// per-draw and material tables for the distance field shader and binds
// them once. The transformation table is re-uploaded every frame.
func (g *TestbedGame) setupUniformBuffers(state *gameState) error {
	vc := state.vertexColor
	df := state.distanceField

	rowCount := vc.DrawCount()
	if df.DrawCount() > rowCount {
		rowCount = df.DrawCount()
	}
	transforms := make([]*shaders.TransformationProjectionUniform, rowCount)
	for i := range transforms {
		transforms[i] = &shaders.TransformationProjectionUniform{
			TransformationProjectionMatrix: math.NewMat4Identity(),
		}
	}
	buffer, err := g.Renderer.CreateUniformBuffer(shaders.PackRows(transforms))
	if err != nil {
		return err
	}
	state.transformBuffer = buffer
	if vc.Mode() == shaders.ModeUniformBuffers {
		if err := vc.BindTransformationProjectionBufferRange(buffer, shaders.Range{
			Offset: 0,
			Size:   shaders.TransformationProjectionUniformStride * uint64(vc.DrawCount()),
		}); err != nil {
			return err
		}
	}
	if df.Mode() != shaders.ModeUniformBuffers {
		return nil
	}
	if err := df.BindTransformationProjectionBuffer(buffer); err != nil {
		return err
	}

	draws := make([]*shaders.DistanceFieldVectorDrawUniform, df.DrawCount())
	for i := range draws {
		draws[i] = &shaders.DistanceFieldVectorDrawUniform{
			MaterialID: uint32(i) % df.MaterialCount(),
		}
	}
	state.drawBuffer, err = g.Renderer.CreateUniformBuffer(shaders.PackRows(draws))
	if err != nil {
		return err
	}
	if err := df.BindDrawBuffer(state.drawBuffer); err != nil {
		return err
	}

	materials := make([]*shaders.DistanceFieldVectorMaterialUniform, df.MaterialCount())
	for i := range materials {
		row := shaders.NewDistanceFieldVectorMaterialUniform()
		row.OutlineStart = 0.45
		row.OutlineEnd = 0.45 + 0.05*float32(i)
		materials[i] = &row
	}
	state.materialBuffer, err = g.Renderer.CreateUniformBuffer(shaders.PackRows(materials))
	if err != nil {
		return err
	}
	return df.BindMaterialBuffer(state.materialBuffer)
}

func (g *TestbedGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.angle += deltaTime

	rotor := math.NewComplexFromAngle(float32(state.angle))
	model := math.NewMat4EulerZ(float32(state.angle))
	transform := state.projection.Mul(model)

	if state.vertexColor.Mode() == shaders.ModeDirect {
		if err := state.vertexColor.SetTransformationProjection(transform); err != nil {
			return err
		}
	}

	df := state.distanceField
	if df.Mode() == shaders.ModeDirect {
		if err := df.SetTransformationProjection(transform); err != nil {
			return err
		}
		// Sweep the outline colour around the unit circle.
		tint := rotor.Rotate(math.NewVec2(0.5, 0))
		if err := df.SetOutlineColor(math.NewVec4(0.5+tint.X, 0.5+tint.Y, 0.5, 1)); err != nil {
			return err
		}
		if df.Flags().Has(shaders.TextureTransformation) {
			if err := df.SetTextureMatrix(math.NewMat3Rotation(rotor)); err != nil {
				return err
			}
		}
		return nil
	}

	// Uniform buffer path: fan the draws out around the circle and
	// re-upload the transformation table.
	count := int(df.DrawCount())
	rows := make([]*shaders.TransformationProjectionUniform, count)
	for i := 0; i < count; i++ {
		offset := rotor.Rotate(math.NewVec2(float32(i)*0.2, 0))
		translation := math.NewMat4Translation(math.Vec3{X: offset.X, Y: offset.Y})
		rows[i] = &shaders.TransformationProjectionUniform{
			TransformationProjectionMatrix: transform.Mul(translation),
		}
	}
	backend := g.Renderer.Backend()
	if err := backend.BufferUpload(state.transformBuffer, 0, shaders.PackRows(rows)); err != nil {
		return err
	}
	if count > 1 {
		if err := df.SetDrawOffset(uint32(int(state.angle) % count)); err != nil {
			return err
		}
	}
	return nil
}

func (g *TestbedGame) OnResize(width uint32, height uint32) error {
	if height == 0 {
		return fmt.Errorf("zero framebuffer height")
	}
	state := g.State.(*gameState)
	aspect := float32(width) / float32(height)
	state.projection = math.NewMat4Orthographic(-aspect, aspect, -1, 1, -1, 1)
	return nil
}

func (g *TestbedGame) Shutdown() error {
	state := g.State.(*gameState)
	backend := g.Renderer.Backend()

	for _, buffer := range []*metadata.RenderBuffer{state.transformBuffer, state.drawBuffer, state.materialBuffer} {
		if buffer != nil {
			backend.BufferDestroy(buffer)
		}
	}
	if state.distanceField != nil {
		state.distanceField.Destroy()
	}
	if state.vertexColor != nil {
		state.vertexColor.Destroy()
	}
	return nil
}
