package engine

import (
	"github.com/spectral-engine/spectral/engine/assets"
	"github.com/spectral-engine/spectral/engine/renderer"
)

// Game is the application half of the engine contract. The engine fills
// in Renderer and Library before FnInitialize runs.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Renderer          *renderer.Renderer
	Library           *assets.Library
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
