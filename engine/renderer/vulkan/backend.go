package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spectral-engine/spectral/engine/core"
	"github.com/spectral-engine/spectral/engine/math"
	"github.com/spectral-engine/spectral/engine/platform"
	"github.com/spectral-engine/spectral/engine/renderer"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

var _ renderer.Backend = (*Backend)(nil)

// Backend is the Vulkan implementation of the renderer device boundary.
// It owns the instance, the device and every program, buffer and query
// object handed out as an id.
type Backend struct {
	platform *platform.Platform
	context  *Context

	descriptors *descriptorPool

	nextProgramID uint32
	nextBufferID  uint32
	nextQueryID   uint32

	programs map[uint32]*program
	buffers  map[uint32]*uniformBuffer
	queries  map[uint32]*timerQuery

	// Last texture id bound per program. Image residency is owned by the
	// asset pipeline, the backend only tracks the association.
	boundTextures map[uint32]uint32

	debug bool
}

func New(p *platform.Platform) *Backend {
	return &Backend{
		platform:      p,
		context:       &Context{Device: &Device{GraphicsQueueIndex: -1}},
		programs:      map[uint32]*program{},
		buffers:       map[uint32]*uniformBuffer{},
		queries:       map[uint32]*timerQuery{},
		boundTextures: map[uint32]uint32{},
		debug:         true,
	}
}

func (vr *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		err := fmt.Errorf("GetInstanceProcAddress is nil")
		core.LogError(err.Error())
		return err
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vk: %s", err)
		return err
	}

	// TODO: custom allocator.
	vr.context.Allocator = nil

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   safeString(appName),
		PEngineName:        safeString("Spectral Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	requiredExtensions = append(requiredExtensions, vr.platform.GetRequiredExtensionNames()...)
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
	}
	if vr.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugUtilsExtensionName, vk.ExtDebugReportExtensionName)
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = safeStrings(requiredExtensions)

	requiredLayers := []string{}
	if vr.debug {
		requiredLayers = []string{"VK_LAYER_KHRONOS_validation"}
		if runtime.GOOS == "darwin" {
			createInfo.Flags |= 1
		}
		if err := verifyLayers(requiredLayers); err != nil {
			return err
		}
	}
	createInfo.EnabledLayerCount = uint32(len(requiredLayers))
	createInfo.PpEnabledLayerNames = safeStrings(requiredLayers)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		err := fmt.Errorf("failed in creating the Vulkan Instance with error `%s`", resultString(res))
		core.LogError(err.Error())
		return err
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	if vr.debug {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
			PfnCallback: dbgCallbackFunc,
		}

		var dbg vk.DebugReportCallback
		if err := vk.Error(vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg)); err != nil {
			core.LogError("vk.CreateDebugReportCallback failed with %s", err)
			return err
		}
		vr.context.debugMessenger = dbg
		core.LogDebug("Vulkan debugger created.")
	}

	if err := deviceCreate(vr.context); err != nil {
		return err
	}

	descriptors, err := newDescriptorPool(vr.context)
	if err != nil {
		return err
	}
	vr.descriptors = descriptors

	core.LogInfo("Vulkan backend initialized.")
	return nil
}

func verifyLayers(required []string) error {
	var availableLayerCount uint32
	if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, nil); res != vk.Success {
		return fmt.Errorf("error in EnumerateInstanceLayerProperties: %s", resultString(res))
	}
	availableLayers := make([]vk.LayerProperties, availableLayerCount)
	if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, availableLayers); res != vk.Success {
		return fmt.Errorf("error in EnumerateInstanceLayerProperties: %s", resultString(res))
	}

	for _, name := range required {
		found := false
		for j := range availableLayers {
			availableLayers[j].Deref()
			end := findFirstZeroInByteArray(availableLayers[j].LayerName[:])
			if name == vk.ToString(availableLayers[j].LayerName[:end+1]) {
				found = true
				break
			}
		}
		if !found {
			err := fmt.Errorf("required validation layer is missing: %s", name)
			core.LogError(err.Error())
			return err
		}
	}
	return nil
}

func (vr *Backend) Shutdown() error {
	if vr.context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
	}

	// Destroy in the opposite order of creation.
	for id, q := range vr.queries {
		q.destroy(vr.context)
		delete(vr.queries, id)
	}
	for id, b := range vr.buffers {
		b.destroy(vr.context)
		delete(vr.buffers, id)
	}
	for id, p := range vr.programs {
		p.destroy(vr.context)
		delete(vr.programs, id)
	}

	if vr.descriptors != nil {
		vr.descriptors.destroy(vr.context)
		vr.descriptors = nil
	}

	core.LogDebug("Destroying Vulkan device...")
	deviceDestroy(vr.context)

	if vr.debug {
		core.LogDebug("Destroying Vulkan debugger...")
		if vr.context.debugMessenger != vk.NullDebugReportCallback {
			vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugMessenger, vr.context.Allocator)
		}
	}

	core.LogDebug("Destroying Vulkan instance...")
	vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)

	return nil
}

func (vr *Backend) SupportsUniformBuffers() bool {
	return true
}

func (vr *Backend) SupportsMultiDraw() bool {
	return vr.context.Device.Features.MultiDrawIndirect == vk.True
}

func (vr *Backend) SupportsTimerQueries() bool {
	return vr.context.Device.TimestampValidBits > 0 && vr.context.Device.TimestampPeriod > 0
}

func (vr *Backend) ProgramCreate(name string, stages []metadata.StageSource) (uint32, error) {
	p, err := newShaderProgram(vr.context, vr.descriptors, name, stages)
	if err != nil {
		return 0, err
	}
	vr.nextProgramID++
	vr.programs[vr.nextProgramID] = p
	core.LogDebug("created shader program %q with id %d", name, vr.nextProgramID)
	return vr.nextProgramID, nil
}

func (vr *Backend) ProgramDestroy(programID uint32) {
	p, ok := vr.programs[programID]
	if !ok {
		return
	}
	p.destroy(vr.context)
	delete(vr.programs, programID)
	delete(vr.boundTextures, programID)
}

func (vr *Backend) UniformLocation(programID uint32, name string) int32 {
	p, ok := vr.programs[programID]
	if !ok {
		return -1
	}
	return p.location(name)
}

func (vr *Backend) SetUniformMat4(programID uint32, location int32, value math.Mat4) {
	if p, ok := vr.programs[programID]; ok {
		p.writeParameter(location, rawBytes(&value))
	}
}

func (vr *Backend) SetUniformMat3(programID uint32, location int32, value math.Mat3) {
	if p, ok := vr.programs[programID]; ok {
		p.writeParameter(location, rawBytes(&value))
	}
}

func (vr *Backend) SetUniformVec4(programID uint32, location int32, value math.Vec4) {
	if p, ok := vr.programs[programID]; ok {
		p.writeParameter(location, rawBytes(&value))
	}
}

func (vr *Backend) SetUniformVec2(programID uint32, location int32, value math.Vec2) {
	if p, ok := vr.programs[programID]; ok {
		p.writeParameter(location, rawBytes(&value))
	}
}

func (vr *Backend) SetUniformFloat(programID uint32, location int32, value float32) {
	if p, ok := vr.programs[programID]; ok {
		p.writeParameter(location, rawBytes(&value))
	}
}

func (vr *Backend) SetUniformUint(programID uint32, location int32, value uint32) {
	if p, ok := vr.programs[programID]; ok {
		p.writeParameter(location, rawBytes(&value))
	}
}

func (vr *Backend) BufferCreate(size uint64) (*metadata.RenderBuffer, error) {
	b, err := newUniformBuffer(vr.context, size)
	if err != nil {
		return nil, err
	}
	vr.nextBufferID++
	vr.buffers[vr.nextBufferID] = b
	return &metadata.RenderBuffer{ID: vr.nextBufferID, TotalSize: size}, nil
}

func (vr *Backend) BufferUpload(buffer *metadata.RenderBuffer, offset uint64, data []byte) error {
	b, ok := vr.buffers[buffer.ID]
	if !ok {
		return fmt.Errorf("unknown buffer id %d", buffer.ID)
	}
	return b.upload(offset, data)
}

func (vr *Backend) BufferDestroy(buffer *metadata.RenderBuffer) {
	b, ok := vr.buffers[buffer.ID]
	if !ok {
		return
	}
	b.destroy(vr.context)
	delete(vr.buffers, buffer.ID)
}

func (vr *Backend) BindUniformBuffer(programID uint32, binding uint32, buffer *metadata.RenderBuffer, offset, size uint64) error {
	p, ok := vr.programs[programID]
	if !ok {
		return fmt.Errorf("unknown program id %d", programID)
	}
	b, ok := vr.buffers[buffer.ID]
	if !ok {
		return fmt.Errorf("unknown buffer id %d", buffer.ID)
	}
	return vr.descriptors.updateUniformBinding(vr.context, p.descriptorSet, binding, b, offset, size)
}

func (vr *Backend) BindTexture(programID uint32, unit uint32, texture *metadata.Texture) {
	if _, ok := vr.programs[programID]; !ok {
		return
	}
	vr.boundTextures[programID] = texture.ID
	core.LogDebug("program %d: texture %q bound to unit %d", programID, texture.Name, unit)
}

func (vr *Backend) QueryCreate(target metadata.QueryTarget) (uint32, error) {
	q, err := newTimerQuery(vr.context, target)
	if err != nil {
		return 0, err
	}
	vr.nextQueryID++
	vr.queries[vr.nextQueryID] = q
	return vr.nextQueryID, nil
}

func (vr *Backend) QueryDestroy(queryID uint32) {
	q, ok := vr.queries[queryID]
	if !ok {
		return
	}
	q.destroy(vr.context)
	delete(vr.queries, queryID)
}

func (vr *Backend) QueryBegin(queryID uint32) error {
	q, ok := vr.queries[queryID]
	if !ok {
		return fmt.Errorf("unknown query id %d", queryID)
	}
	return q.begin(vr.context)
}

func (vr *Backend) QueryEnd(queryID uint32) error {
	q, ok := vr.queries[queryID]
	if !ok {
		return fmt.Errorf("unknown query id %d", queryID)
	}
	return q.end(vr.context)
}

func (vr *Backend) QueryTimestamp(queryID uint32) error {
	q, ok := vr.queries[queryID]
	if !ok {
		return fmt.Errorf("unknown query id %d", queryID)
	}
	return q.timestamp(vr.context)
}

func (vr *Backend) QueryResult(queryID uint32) (uint64, error) {
	q, ok := vr.queries[queryID]
	if !ok {
		return 0, fmt.Errorf("unknown query id %d", queryID)
	}
	return q.result(vr.context)
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
