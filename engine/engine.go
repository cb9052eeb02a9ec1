package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spectral-engine/spectral/engine/assets"
	"github.com/spectral-engine/spectral/engine/containers"
	"github.com/spectral-engine/spectral/engine/core"
	"github.com/spectral-engine/spectral/engine/platform"
	"github.com/spectral-engine/spectral/engine/renderer"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
	"github.com/spectral-engine/spectral/engine/renderer/vulkan"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// gpuHistorySize bounds the frame-time history kept for the periodic
// timing report.
const gpuHistorySize = 120

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	platform     *platform.Platform
	library      *assets.Library
	renderer     *renderer.Renderer
	frameQuery   *renderer.TimeQuery
	gpuHistory   *containers.RingQueue[float64]
	width        uint32
	height       uint32
	clock        *core.Clock
	lastTime     float64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		return nil, fmt.Errorf("application config is required")
	}
	core.SetLogLevel(g.ApplicationConfig.LogLevel)

	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	root := g.ApplicationConfig.AssetRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = filepath.Join(wd, "assets")
	}
	library, err := assets.NewLibrary(root)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		library:      library,
		renderer:     renderer.New(vulkan.New(p)),
		gpuHistory:   containers.NewRingQueue[float64](gpuHistorySize),
		isRunning:    true,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	cfg := e.gameInstance.ApplicationConfig
	if err := e.platform.Startup(cfg.Name, cfg.StartPosX, cfg.StartPosY, cfg.StartWidth, cfg.StartHeight); err != nil {
		return err
	}

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	if err := e.renderer.Initialize(cfg.Name, e.width, e.height); err != nil {
		return err
	}

	// A frame query is optional equipment. Without backend support the
	// loop simply reports CPU timings only.
	query, err := renderer.NewTimeQuery(e.renderer.Backend(), metadata.QueryTimeElapsed)
	if err != nil {
		core.LogWarn("GPU frame timing unavailable: %v", err)
	} else {
		e.frameQuery = query
	}

	e.gameInstance.Renderer = e.renderer
	e.gameInstance.Library = e.library

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var frameCount uint64

	for e.isRunning {
		e.platform.PumpMessages()
		if e.platform.ShouldClose() {
			e.isRunning = false
			break
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if e.frameQuery != nil {
			if err := e.frameQuery.Begin(); err != nil {
				return err
			}
		}

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %v", err)
			e.isRunning = false
			break
		}

		if e.frameQuery != nil {
			if err := e.frameQuery.End(); err != nil {
				return err
			}
			elapsedNS, err := e.frameQuery.Result()
			if err != nil {
				return err
			}
			core.MetricsUpdateGPU(elapsedNS)
			e.gpuHistory.Push(float64(elapsedNS) / 1.0e6)
		}

		core.MetricsUpdate(delta)
		frameCount++
		if frameCount%300 == 0 {
			e.reportTimings()
		}

		e.lastTime = currentTime
	}

	return e.Shutdown()
}

// reportTimings logs rolling CPU metrics plus the min/max GPU frame time
// over the recent history window.
func (e *Engine) reportTimings() {
	fps, frameMS := core.MetricsFrame()
	if e.gpuHistory.IsEmpty() {
		core.LogInfo("timings: %.1f fps, %.2f ms/frame (cpu)", fps, frameMS)
		return
	}

	minMS, maxMS := -1.0, 0.0
	e.gpuHistory.Each(func(ms float64) {
		if minMS < 0 || ms < minMS {
			minMS = ms
		}
		if ms > maxMS {
			maxMS = ms
		}
	})
	core.LogInfo("timings: %.1f fps, %.2f ms/frame (cpu), gpu %.3f ms avg [%.3f..%.3f]",
		fps, frameMS, core.MetricsGPUTime(), minMS, maxMS)
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.frameQuery != nil {
		e.frameQuery.Destroy()
		e.frameQuery = nil
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.library.Close(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return nil
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}
