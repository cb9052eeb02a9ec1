package vulkan

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spectral-engine/spectral/engine/core"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// spirvMagic is the first word of a SPIR-V binary.
const spirvMagic uint32 = 0x07230203

// Each named parameter of a program owns one fixed-size slot in the
// parameter block; a 4x4 float matrix is the largest value written.
const parameterSlotSize uint64 = 64

// Largest number of named parameters a program resolves. The direct-mode
// shaders stay well under this.
const maxParameterCount = 32

// stageModule is one compiled shader stage of a program.
type stageModule struct {
	stage  metadata.ShaderStage
	handle vk.ShaderModule
	// Kept when the provided source was GLSL text and module creation is
	// deferred to the offline compiler.
	source string
}

// program is the backend-side shader object: its stage modules, the
// resolved parameter table backing the direct setters, and the
// descriptor set carrying its uniform buffer bindings.
type program struct {
	name    string
	stages  []stageModule
	modules bool

	// Direct parameters are emulated with a persistently mapped block,
	// one slot per resolved name.
	locations  map[string]int32
	parameters *uniformBuffer

	descriptorSet vk.DescriptorSet
}

func newShaderProgram(context *Context, pool *descriptorPool, name string, stages []metadata.StageSource) (*program, error) {
	p := &program{
		name:      name,
		locations: map[string]int32{},
	}

	for _, s := range stages {
		module := stageModule{stage: s.Stage}
		words, ok := spirvWords(s.Source)
		if ok {
			createInfo := vk.ShaderModuleCreateInfo{
				SType:    vk.StructureTypeShaderModuleCreateInfo,
				CodeSize: uint64(len(words)) * 4,
				PCode:    words,
			}
			if res := vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &module.handle); res != vk.Success {
				p.destroy(context)
				err := fmt.Errorf("failed to create shader module %q (%s): %s", s.Name, s.Stage, resultString(res))
				core.LogError(err.Error())
				return nil, err
			}
			p.modules = true
		} else {
			// Assembled GLSL text; modules come from the offline
			// compiler together with the pipeline.
			core.LogDebug("shader %q stage %s: keeping GLSL source, no SPIR-V provided", name, s.Stage)
			module.source = s.Source
		}
		p.stages = append(p.stages, module)
	}

	parameters, err := newUniformBuffer(context, maxParameterCount*parameterSlotSize)
	if err != nil {
		p.destroy(context)
		return nil, err
	}
	p.parameters = parameters

	if pool != nil {
		set, err := pool.allocateSet(context)
		if err != nil {
			p.destroy(context)
			return nil, err
		}
		p.descriptorSet = set
	}

	return p, nil
}

// location returns the parameter slot for a name, allocating one on
// first use. Returns -1 once the table is full.
func (p *program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	if len(p.locations) >= maxParameterCount {
		core.LogWarn("shader %q: parameter table full, can't resolve %q", p.name, name)
		return -1
	}
	loc := int32(len(p.locations))
	p.locations[name] = loc
	return loc
}

// writeParameter copies a raw value into the parameter slot. Writes to
// unresolved slots are dropped.
func (p *program) writeParameter(location int32, data []byte) {
	if location < 0 || uint64(len(data)) > parameterSlotSize {
		return
	}
	if err := p.parameters.upload(uint64(location)*parameterSlotSize, data); err != nil {
		core.LogError("shader %q: parameter write failed: %s", p.name, err.Error())
	}
}

func (p *program) destroy(context *Context) {
	for i := range p.stages {
		if p.stages[i].handle != nil {
			vk.DestroyShaderModule(context.Device.LogicalDevice, p.stages[i].handle, context.Allocator)
			p.stages[i].handle = nil
		}
	}
	if p.parameters != nil {
		p.parameters.destroy(context)
		p.parameters = nil
	}
}

// spirvWords reinterprets source text as SPIR-V words when it starts
// with the SPIR-V magic number.
func spirvWords(source string) ([]uint32, bool) {
	raw := []byte(source)
	if len(raw) < 4 || len(raw)%4 != 0 {
		return nil, false
	}
	if binary.LittleEndian.Uint32(raw[:4]) != spirvMagic {
		return nil, false
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return words, true
}

// rawBytes views a fixed-size value as its in-memory bytes for a
// parameter slot write.
func rawBytes[T any](value *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(value)), unsafe.Sizeof(*value))
}
