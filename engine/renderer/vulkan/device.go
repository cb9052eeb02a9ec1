package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spectral-engine/spectral/engine/core"
)

// Device wraps the physical and logical device plus the single graphics
// queue the backend submits on. The backend never presents, so no
// present or transfer queues are requested.
type Device struct {
	PhysicalDevice vk.PhysicalDevice
	LogicalDevice  vk.Device

	Properties vk.PhysicalDeviceProperties
	Features   vk.PhysicalDeviceFeatures

	GraphicsQueueIndex int32
	GraphicsQueue      vk.Queue

	GraphicsCommandPool vk.CommandPool

	// Nanoseconds per timestamp tick and the number of valid bits in a
	// timestamp, straight from the device limits.
	TimestampPeriod    float32
	TimestampValidBits uint32
}

func deviceCreate(context *Context) error {
	if err := selectPhysicalDevice(context); err != nil {
		return err
	}

	core.LogInfo("Creating logical device...")

	var queuePriority float32 = 1.0
	queueCreateInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: uint32(context.Device.GraphicsQueueIndex),
		QueueCount:       1,
		PQueuePriorities: []float32{queuePriority},
	}}

	deviceFeatures := vk.PhysicalDeviceFeatures{}
	if context.Device.Features.MultiDrawIndirect == vk.True {
		deviceFeatures.MultiDrawIndirect = vk.True
	}

	// VK_KHR_portability_subset must be enabled whenever the device
	// advertises it.
	extensionNames := []string{}
	var availableExtensionCount uint32
	if res := vk.EnumerateDeviceExtensionProperties(context.Device.PhysicalDevice, "", &availableExtensionCount, nil); res != vk.Success {
		return fmt.Errorf("error in EnumerateDeviceExtensionProperties: %s", resultString(res))
	}
	if availableExtensionCount != 0 {
		availableExtensions := make([]vk.ExtensionProperties, availableExtensionCount)
		if res := vk.EnumerateDeviceExtensionProperties(context.Device.PhysicalDevice, "", &availableExtensionCount, availableExtensions); res != vk.Success {
			return fmt.Errorf("error in EnumerateDeviceExtensionProperties: %s", resultString(res))
		}
		for i := range availableExtensions {
			availableExtensions[i].Deref()
			end := findFirstZeroInByteArray(availableExtensions[i].ExtensionName[:])
			if vk.ToString(availableExtensions[i].ExtensionName[:end+1]) == "VK_KHR_portability_subset" {
				core.LogInfo("Adding required extension 'VK_KHR_portability_subset'.")
				extensionNames = append(extensionNames, "VK_KHR_portability_subset")
				break
			}
		}
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: safeStrings(extensionNames),
	}

	if res := vk.CreateDevice(
		context.Device.PhysicalDevice,
		&deviceCreateInfo,
		context.Allocator,
		&context.Device.LogicalDevice); res != vk.Success {
		return fmt.Errorf("failed to create logical device: %s", resultString(res))
	}
	core.LogInfo("Logical device created.")

	vk.GetDeviceQueue(
		context.Device.LogicalDevice,
		uint32(context.Device.GraphicsQueueIndex),
		0,
		&context.Device.GraphicsQueue)
	core.LogInfo("Queues obtained.")

	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(context.Device.GraphicsQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	if res := vk.CreateCommandPool(
		context.Device.LogicalDevice,
		&poolCreateInfo,
		context.Allocator,
		&context.Device.GraphicsCommandPool); res != vk.Success {
		return fmt.Errorf("failed to create command pool: %s", resultString(res))
	}
	core.LogInfo("Graphics command pool created.")

	return nil
}

func deviceDestroy(context *Context) {
	context.Device.GraphicsQueue = nil

	core.LogInfo("Destroying command pools...")
	vk.DestroyCommandPool(
		context.Device.LogicalDevice,
		context.Device.GraphicsCommandPool,
		context.Allocator)

	core.LogInfo("Destroying logical device...")
	if context.Device.LogicalDevice != nil {
		vk.DestroyDevice(context.Device.LogicalDevice, context.Allocator)
		context.Device.LogicalDevice = nil
	}

	// Physical devices are not destroyed.
	context.Device.PhysicalDevice = nil
	context.Device.GraphicsQueueIndex = -1
}

// selectPhysicalDevice picks the first device with a graphics queue
// family. Discrete GPUs win over integrated ones when both are present.
func selectPhysicalDevice(context *Context) error {
	var physicalDeviceCount uint32
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, nil); res != vk.Success {
		return fmt.Errorf("error in EnumeratePhysicalDevices: %s", resultString(res))
	}
	if physicalDeviceCount == 0 {
		return fmt.Errorf("no devices which support Vulkan were found")
	}

	physicalDevices := make([]vk.PhysicalDevice, physicalDeviceCount)
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, physicalDevices); res != vk.Success {
		return fmt.Errorf("error in EnumeratePhysicalDevices: %s", resultString(res))
	}

	var fallback vk.PhysicalDevice
	fallbackQueue := int32(-1)

	for _, device := range physicalDevices {
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(device, &properties)
		properties.Deref()
		properties.Limits.Deref()

		queueIndex := graphicsQueueIndex(device)
		if queueIndex < 0 {
			continue
		}

		if properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			context.Device.PhysicalDevice = device
			context.Device.GraphicsQueueIndex = queueIndex
			break
		}
		if fallback == nil {
			fallback = device
			fallbackQueue = queueIndex
		}
	}

	if context.Device.PhysicalDevice == nil {
		if fallback == nil {
			return fmt.Errorf("no device with a graphics queue was found")
		}
		context.Device.PhysicalDevice = fallback
		context.Device.GraphicsQueueIndex = fallbackQueue
	}

	vk.GetPhysicalDeviceProperties(context.Device.PhysicalDevice, &context.Device.Properties)
	context.Device.Properties.Deref()
	context.Device.Properties.Limits.Deref()
	vk.GetPhysicalDeviceFeatures(context.Device.PhysicalDevice, &context.Device.Features)
	context.Device.Features.Deref()

	context.Device.TimestampPeriod = context.Device.Properties.Limits.TimestampPeriod

	// Timestamp validity is reported per queue family.
	familyProperties := queueFamilyProperties(context.Device.PhysicalDevice)
	if int(context.Device.GraphicsQueueIndex) < len(familyProperties) {
		context.Device.TimestampValidBits = familyProperties[context.Device.GraphicsQueueIndex].TimestampValidBits
	}

	end := findFirstZeroInByteArray(context.Device.Properties.DeviceName[:])
	core.LogInfo("Selected device: '%s'.", vk.ToString(context.Device.Properties.DeviceName[:end+1]))

	return nil
}

func graphicsQueueIndex(device vk.PhysicalDevice) int32 {
	for i, family := range queueFamilyProperties(device) {
		if family.QueueCount > 0 && family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			return int32(i)
		}
	}
	return -1
}

func queueFamilyProperties(device vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, families)
	for i := range families {
		families[i].Deref()
	}
	return families
}
