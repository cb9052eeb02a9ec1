package renderer

import (
	"github.com/spectral-engine/spectral/engine/core"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// Renderer is the frontend over a graphics backend. It owns backend
// lifecycle and offers buffer conveniences; shader programs talk to the
// Backend interface directly.
type Renderer struct {
	backend Backend
}

func New(backend Backend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("renderer initialized: uniform buffers=%t multi-draw=%t timer queries=%t",
		r.backend.SupportsUniformBuffers(),
		r.backend.SupportsMultiDraw(),
		r.backend.SupportsTimerQueries())
	return nil
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

// Backend exposes the underlying device boundary.
func (r *Renderer) Backend() Backend {
	return r.backend
}

// CreateUniformBuffer allocates a buffer and fills it with the given data.
// The caller owns the returned handle.
func (r *Renderer) CreateUniformBuffer(data []byte) (*metadata.RenderBuffer, error) {
	buffer, err := r.backend.BufferCreate(uint64(len(data)))
	if err != nil {
		return nil, err
	}
	if err := r.backend.BufferUpload(buffer, 0, data); err != nil {
		r.backend.BufferDestroy(buffer)
		return nil, err
	}
	return buffer, nil
}
