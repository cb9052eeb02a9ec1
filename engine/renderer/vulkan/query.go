package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spectral-engine/spectral/engine/core"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// timerQuery wraps a timestamp query pool. An elapsed-time query uses two
// timestamps bracketing the measured work, a plain timestamp query uses
// one.
type timerQuery struct {
	pool   vk.QueryPool
	target metadata.QueryTarget
	count  uint32
}

func newTimerQuery(context *Context, target metadata.QueryTarget) (*timerQuery, error) {
	q := &timerQuery{target: target, count: 1}
	if target == metadata.QueryTimeElapsed {
		q.count = 2
	}

	createInfo := vk.QueryPoolCreateInfo{
		SType:      vk.StructureTypeQueryPoolCreateInfo,
		QueryType:  vk.QueryTypeTimestamp,
		QueryCount: q.count,
	}
	if res := vk.CreateQueryPool(context.Device.LogicalDevice, &createInfo, context.Allocator, &q.pool); res != vk.Success {
		err := fmt.Errorf("failed to create query pool: %s", resultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return q, nil
}

// writeTimestamp submits a single-use command buffer that resets the pool
// slot when asked and writes one timestamp into it.
func (q *timerQuery) writeTimestamp(context *Context, slot uint32, reset bool, stage vk.PipelineStageFlagBits) error {
	cb, err := allocateAndBeginSingleUse(context, context.Device.GraphicsCommandPool)
	if err != nil {
		return err
	}
	if reset {
		vk.CmdResetQueryPool(cb.Handle, q.pool, 0, q.count)
	}
	vk.CmdWriteTimestamp(cb.Handle, stage, q.pool, slot)
	return cb.endSingleUse(context, context.Device.GraphicsCommandPool, context.Device.GraphicsQueue)
}

func (q *timerQuery) begin(context *Context) error {
	return q.writeTimestamp(context, 0, true, vk.PipelineStageTopOfPipeBit)
}

func (q *timerQuery) end(context *Context) error {
	return q.writeTimestamp(context, 1, false, vk.PipelineStageBottomOfPipeBit)
}

func (q *timerQuery) timestamp(context *Context) error {
	return q.writeTimestamp(context, 0, true, vk.PipelineStageBottomOfPipeBit)
}

// result blocks until every timestamp of the query is available and
// returns the measurement in nanoseconds.
func (q *timerQuery) result(context *Context) (uint64, error) {
	values := make([]uint64, q.count)
	res := vk.GetQueryPoolResults(
		context.Device.LogicalDevice,
		q.pool,
		0,
		q.count,
		uint64(q.count)*8,
		unsafe.Pointer(&values[0]),
		vk.DeviceSize(8),
		vk.QueryResultFlags(vk.QueryResult64Bit|vk.QueryResultWaitBit))
	if res != vk.Success {
		return 0, fmt.Errorf("failed to read query pool results: %s", resultString(res))
	}

	// Timestamps carry a device-dependent number of valid bits.
	mask := uint64(0)
	if bits := context.Device.TimestampValidBits; bits >= 64 {
		mask = ^uint64(0)
	} else {
		mask = (uint64(1) << bits) - 1
	}
	for i := range values {
		values[i] &= mask
	}

	period := float64(context.Device.TimestampPeriod)
	if q.target == metadata.QueryTimeElapsed {
		return uint64(float64(values[1]-values[0]) * period), nil
	}
	return uint64(float64(values[0]) * period), nil
}

func (q *timerQuery) destroy(context *Context) {
	if q.pool != nil {
		vk.DestroyQueryPool(context.Device.LogicalDevice, q.pool, context.Allocator)
		q.pool = nil
	}
}
