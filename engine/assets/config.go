package assets

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spectral-engine/spectral/engine/renderer/shaders"
)

// ShaderConfig mirrors a .shadercfg TOML file describing how a shader
// variant should be constructed.
type ShaderConfig struct {
	Name          string   `toml:"name"`
	Dimensions    uint8    `toml:"dimensions"`
	Flags         []string `toml:"flags"`
	MaterialCount uint32   `toml:"material-count"`
	DrawCount     uint32   `toml:"draw-count"`
}

// LoadShaderConfig reads and parses one shader config file.
func LoadShaderConfig(path string) (*ShaderConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &ShaderConfig{}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("shader config %q: %w", path, err)
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("shader config %q: missing name", path)
	}
	return cfg, nil
}

// ParseFlags maps the config's flag names onto the shader flag set.
func (c *ShaderConfig) ParseFlags() (shaders.Flags, error) {
	var flags shaders.Flags
	for _, name := range c.Flags {
		switch name {
		case "texture-transformation":
			flags |= shaders.TextureTransformation
		case "uniform-buffers":
			flags |= shaders.UniformBuffers
		case "multi-draw":
			flags |= shaders.MultiDraw
		default:
			return 0, fmt.Errorf("shader config %q: unknown flag %q", c.Name, name)
		}
	}
	return flags, nil
}

// VertexColorConfig converts the file into a VertexColor construction
// contract.
func (c *ShaderConfig) VertexColorConfig() (shaders.VertexColorConfig, error) {
	flags, err := c.ParseFlags()
	if err != nil {
		return shaders.VertexColorConfig{}, err
	}
	return shaders.VertexColorConfig{
		Dimensions: c.Dimensions,
		Flags:      flags,
		DrawCount:  c.DrawCount,
	}, nil
}

// DistanceFieldVectorConfig converts the file into a DistanceFieldVector
// construction contract.
func (c *ShaderConfig) DistanceFieldVectorConfig() (shaders.DistanceFieldVectorConfig, error) {
	flags, err := c.ParseFlags()
	if err != nil {
		return shaders.DistanceFieldVectorConfig{}, err
	}
	return shaders.DistanceFieldVectorConfig{
		Dimensions:    c.Dimensions,
		Flags:         flags,
		MaterialCount: c.MaterialCount,
		DrawCount:     c.DrawCount,
	}, nil
}
