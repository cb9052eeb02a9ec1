package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spectral-engine/spectral/engine/core"
)

// uniformBuffer is a host-visible, coherent buffer kept persistently
// mapped. Uniform data is small and rewritten often, so the staging
// round trip is not worth it here.
type uniformBuffer struct {
	handle vk.Buffer
	memory vk.DeviceMemory
	size   uint64
	mapped unsafe.Pointer
}

func newUniformBuffer(context *Context, size uint64) (*uniformBuffer, error) {
	b := &uniformBuffer{size: size}

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		SharingMode: vk.SharingModeExclusive,
	}
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferInfo, context.Allocator, &b.handle); res != vk.Success {
		err := fmt.Errorf("failed to create uniform buffer: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, b.handle, &requirements)
	requirements.Deref()

	memoryIndex := context.FindMemoryIndex(
		requirements.MemoryTypeBits,
		uint32(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if memoryIndex < 0 {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.handle, context.Allocator)
		return nil, fmt.Errorf("no host-visible memory type for uniform buffer")
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(memoryIndex),
	}
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &b.memory); res != vk.Success {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.handle, context.Allocator)
		err := fmt.Errorf("failed to allocate uniform buffer memory: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	if res := vk.BindBufferMemory(context.Device.LogicalDevice, b.handle, b.memory, 0); res != vk.Success {
		b.destroy(context)
		err := fmt.Errorf("failed to bind uniform buffer memory: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	if res := vk.MapMemory(context.Device.LogicalDevice, b.memory, 0, vk.DeviceSize(size), 0, &b.mapped); res != vk.Success {
		b.destroy(context)
		err := fmt.Errorf("failed to map uniform buffer memory: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	return b, nil
}

// upload copies data into the mapped range at the given offset. Coherent
// memory needs no explicit flush.
func (b *uniformBuffer) upload(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("upload of %d bytes at offset %d exceeds buffer size %d", len(data), offset, b.size)
	}
	if len(data) == 0 {
		return nil
	}
	dst := unsafe.Slice((*byte)(unsafe.Add(b.mapped, offset)), len(data))
	copy(dst, data)
	return nil
}

func (b *uniformBuffer) destroy(context *Context) {
	if b.mapped != nil {
		vk.UnmapMemory(context.Device.LogicalDevice, b.memory)
		b.mapped = nil
	}
	if b.memory != nil {
		vk.FreeMemory(context.Device.LogicalDevice, b.memory, context.Allocator)
		b.memory = nil
	}
	if b.handle != nil {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.handle, context.Allocator)
		b.handle = nil
	}
}
