package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spectral-engine/spectral/engine/core"
)

// Indexed uniform bindings a program's descriptor set exposes. Binding 0
// through 4 are uniform buffers, the vector texture sits behind a
// combined image sampler on its own binding.
const (
	uniformBindingCount  uint32 = 5
	textureBindingOffset uint32 = uniformBindingCount
)

// Upper bound of live programs; sizes the descriptor pool.
const maxProgramCount uint32 = 128

// descriptorPool owns the pool and the shared set layout every program
// allocates from.
type descriptorPool struct {
	handle vk.DescriptorPool
	layout vk.DescriptorSetLayout
}

func newDescriptorPool(context *Context) (*descriptorPool, error) {
	p := &descriptorPool{}

	bindings := make([]vk.DescriptorSetLayoutBinding, 0, uniformBindingCount+1)
	for i := uint32(0); i < uniformBindingCount; i++ {
		bindings = append(bindings, vk.DescriptorSetLayoutBinding{
			Binding:         i,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
		})
	}
	bindings = append(bindings, vk.DescriptorSetLayoutBinding{
		Binding:         textureBindingOffset,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	})

	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &p.layout); res != vk.Success {
		err := fmt.Errorf("failed to create descriptor set layout: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	poolSizes := []vk.DescriptorPoolSize{
		{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: maxProgramCount * uniformBindingCount,
		},
		{
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: maxProgramCount,
		},
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       maxProgramCount,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &p.handle); res != vk.Success {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, p.layout, context.Allocator)
		err := fmt.Errorf("failed to create descriptor pool: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	return p, nil
}

func (p *descriptorPool) allocateSet(context *Context) (vk.DescriptorSet, error) {
	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     p.handle,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{p.layout},
	}

	sets := make([]vk.DescriptorSet, 1)
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocateInfo, &sets[0]); res != vk.Success {
		err := fmt.Errorf("failed to allocate descriptor set: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return sets[0], nil
}

// updateUniformBinding points one uniform binding of a program's set at a
// buffer range. A zero size selects the remainder of the buffer.
func (p *descriptorPool) updateUniformBinding(context *Context, set vk.DescriptorSet, binding uint32, buffer *uniformBuffer, offset, size uint64) error {
	if binding >= uniformBindingCount {
		return fmt.Errorf("uniform binding %d out of range, have %d bindings", binding, uniformBindingCount)
	}

	rng := vk.DeviceSize(vk.WholeSize)
	if size != 0 {
		rng = vk.DeviceSize(size)
	}

	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      binding,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: buffer.handle,
			Offset: vk.DeviceSize(offset),
			Range:  rng,
		}},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	return nil
}

func (p *descriptorPool) destroy(context *Context) {
	if p.handle != nil {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, p.handle, context.Allocator)
		p.handle = nil
	}
	if p.layout != nil {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, p.layout, context.Allocator)
		p.layout = nil
	}
}
