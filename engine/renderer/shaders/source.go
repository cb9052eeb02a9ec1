package shaders

import (
	"fmt"
	"strings"

	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// SourceProvider serves shader source text by resource name. Providers are
// read-only from the shader's point of view; source groups are loaded and
// owned elsewhere and injected at construction.
type SourceProvider interface {
	Get(name string) (string, error)
}

// assembler builds one shader stage the way the backend compiler expects
// it: a preprocessor define preamble followed by the concatenated source
// snippets.
type assembler struct {
	b strings.Builder
}

func (a *assembler) define(name string) *assembler {
	fmt.Fprintf(&a.b, "#define %s\n", name)
	return a
}

func (a *assembler) defineValue(name string, value uint32) *assembler {
	fmt.Fprintf(&a.b, "#define %s %d\n", name, value)
	return a
}

func (a *assembler) source(text string) *assembler {
	a.b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		a.b.WriteByte('\n')
	}
	return a
}

func (a *assembler) String() string {
	return a.b.String()
}

// stageDefines produces the define preamble every variant shares:
// dimensionality, uniform mode, table sizes and batching.
func stageDefines(a *assembler, dimensions uint8, flags Flags, materialCount, drawCount uint32, hasMaterials bool) {
	if dimensions == 3 {
		a.define("THREE_DIMENSIONS")
	} else {
		a.define("TWO_DIMENSIONS")
	}
	if flags.Has(UniformBuffers) {
		a.define("UNIFORM_BUFFERS")
		a.defineValue("DRAW_COUNT", drawCount)
		if hasMaterials {
			a.defineValue("MATERIAL_COUNT", materialCount)
		}
		if flags.Has(MultiDraw) {
			a.define("MULTI_DRAW")
		}
	}
	if flags.Has(TextureTransformation) {
		a.define("TEXTURE_TRANSFORMATION")
	}
}

// assembleStage fetches the generic prelude and the named stage source from
// the provider and glues them behind the define preamble.
func assembleStage(provider SourceProvider, stage metadata.ShaderStage, name string, preamble func(*assembler)) (metadata.StageSource, error) {
	a := &assembler{}
	preamble(a)

	generic, err := provider.Get("generic.glsl")
	if err != nil {
		return metadata.StageSource{}, fmt.Errorf("shader source %q: %w", "generic.glsl", err)
	}
	body, err := provider.Get(name)
	if err != nil {
		return metadata.StageSource{}, fmt.Errorf("shader source %q: %w", name, err)
	}
	a.source(generic).source(body)

	return metadata.StageSource{
		Stage:  stage,
		Name:   name,
		Source: a.String(),
	}, nil
}
