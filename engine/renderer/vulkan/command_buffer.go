package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spectral-engine/spectral/engine/core"
)

// CommandBuffer is a thin wrapper over a primary command buffer allocated
// from the device's graphics pool. The backend only records short
// single-use batches: buffer uploads and timer query writes.
type CommandBuffer struct {
	Handle vk.CommandBuffer
}

func newCommandBuffer(context *Context, pool vk.CommandPool) (*CommandBuffer, error) {
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		CommandBufferCount: 1,
		Level:              vk.CommandBufferLevelPrimary,
	}

	handles := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(context.Device.LogicalDevice, &allocateInfo, handles); res != vk.Success {
		err := fmt.Errorf("failed to allocate command buffer: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return &CommandBuffer{Handle: handles[0]}, nil
}

func (v *CommandBuffer) free(context *Context, pool vk.CommandPool) {
	vk.FreeCommandBuffers(context.Device.LogicalDevice, pool, 1, []vk.CommandBuffer{v.Handle})
	v.Handle = nil
}

func (v *CommandBuffer) begin(singleUse bool) error {
	beginInfo := &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if singleUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}

	if res := vk.BeginCommandBuffer(v.Handle, beginInfo); res != vk.Success {
		err := fmt.Errorf("failed to begin command buffer: %s", resultString(res))
		core.LogError(err.Error())
		return err
	}
	return nil
}

func (v *CommandBuffer) end() error {
	if res := vk.EndCommandBuffer(v.Handle); res != vk.Success {
		err := fmt.Errorf("failed to end command buffer: %s", resultString(res))
		core.LogError(err.Error())
		return err
	}
	return nil
}

// allocateAndBeginSingleUse allocates a command buffer and starts a
// one-time-submit recording on it.
func allocateAndBeginSingleUse(context *Context, pool vk.CommandPool) (*CommandBuffer, error) {
	cb, err := newCommandBuffer(context, pool)
	if err != nil {
		return nil, err
	}
	if err := cb.begin(true); err != nil {
		cb.free(context, pool)
		return nil, err
	}
	return cb, nil
}

// endSingleUse ends recording, submits to the queue, waits for completion
// and frees the command buffer.
func (v *CommandBuffer) endSingleUse(context *Context, pool vk.CommandPool, queue vk.Queue) error {
	if err := v.end(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{v.Handle},
	}

	if res := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submitInfo}, nil); res != vk.Success {
		err := fmt.Errorf("failed to submit to queue: %s", resultString(res))
		core.LogError(err.Error())
		return err
	}

	if res := vk.QueueWaitIdle(queue); res != vk.Success {
		err := fmt.Errorf("queue failed to wait in idle mode: %s", resultString(res))
		core.LogError(err.Error())
		return err
	}

	v.free(context, pool)
	return nil
}
