package engine

import (
	"github.com/spectral-engine/spectral/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	// AssetRoot is the directory served by the asset library. Defaults
	// to "assets" under the working directory.
	AssetRoot string
}
