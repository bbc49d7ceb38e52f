package vulkanctx

import (
	"errors"
	"log"

	vk "github.com/vulkan-go/vulkan"
)

// QueueFamilyIndices is the result of a queue family search. The zero value
// means the search has not resolved either role yet; Complete reports when
// both a graphics-capable and a present-capable family have been found.
type QueueFamilyIndices struct {
	graphics    uint32
	present     uint32
	hasGraphics bool
	hasPresent  bool
}

func (q QueueFamilyIndices) Complete() bool {
	return q.hasGraphics && q.hasPresent
}

func (q QueueFamilyIndices) Graphics() uint32 {
	return q.graphics
}

func (q QueueFamilyIndices) Present() uint32 {
	return q.present
}

func (q QueueFamilyIndices) Separate() bool {
	return q.graphics != q.present
}

func findQueueFamilies(gpu vk.PhysicalDevice, surface vk.Surface) QueueFamilyIndices {
	var indices QueueFamilyIndices

	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	properties := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, properties)

	for i := uint32(0); i < count; i++ {
		properties[i].Deref()
		if properties[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 && !indices.hasGraphics {
			indices.graphics = i
			indices.hasGraphics = true
		}

		var supportsPresent vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(gpu, i, surface, &supportsPresent)
		if supportsPresent.B() && !indices.hasPresent {
			indices.present = i
			indices.hasPresent = true
		}

		if indices.Complete() {
			break
		}
	}
	return indices
}

func isDeviceSuitable(gpu vk.PhysicalDevice, surface vk.Surface, requiredExtensions []string) bool {
	indices := findQueueFamilies(gpu, surface)

	actualExtensions, err := DeviceExtensions(gpu)
	if err != nil {
		return false
	}
	_, missing := checkExisting(safeStrings(actualExtensions), safeStrings(requiredExtensions))
	if missing > 0 {
		return false
	}

	support := querySwapchainSupport(gpu, surface)
	return indices.Complete() && len(support.formats) > 0 && len(support.presentModes) > 0
}

// PickPhysicalDevice selects the first GPU with complete queue families,
// the required device extensions and a usable swapchain for the surface.
func PickPhysicalDevice(instance vk.Instance, surface vk.Surface, requiredExtensions []string) (vk.PhysicalDevice, error) {
	var gpuCount uint32
	ret := vk.EnumeratePhysicalDevices(instance, &gpuCount, nil)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	if gpuCount == 0 {
		return nil, errors.New("vulkan error: no GPU devices found")
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	ret = vk.EnumeratePhysicalDevices(instance, &gpuCount, gpus)
	if err := NewError(ret); err != nil {
		return nil, err
	}

	for _, gpu := range gpus {
		if isDeviceSuitable(gpu, surface, requiredExtensions) {
			return gpu, nil
		}
	}
	return nil, errors.New("vulkan error: could not find a suitable GPU")
}

// Device is the logical device together with the graphics and present
// queues everything downstream submits to.
type Device struct {
	handle   vk.Device
	gpu      vk.PhysicalDevice
	families QueueFamilyIndices

	graphicsQueue vk.Queue
	presentQueue  vk.Queue
}

func NewDevice(gpu vk.PhysicalDevice, surface vk.Surface, cfg Config) (*Device, error) {
	indices := findQueueFamilies(gpu, surface)
	if !indices.Complete() {
		return nil, errors.New("vulkan error: queue family search incomplete for selected GPU")
	}

	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: indices.Graphics(),
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}
	if indices.Separate() {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: indices.Present(),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}

	deviceExtensions := safeStrings(cfg.DeviceExtensions)
	log.Printf("vulkan: enabling %d device extensions", len(deviceExtensions))

	var validationLayers []string
	if cfg.Debug {
		validationLayers = safeStrings(cfg.ValidationLayers)
	}

	var device vk.Device
	ret := vk.CreateDevice(gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(deviceExtensions)),
		PpEnabledExtensionNames: deviceExtensions,
		EnabledLayerCount:       uint32(len(validationLayers)),
		PpEnabledLayerNames:     validationLayers,
	}, nil, &device)
	if err := NewError(ret); err != nil {
		return nil, err
	}

	d := &Device{
		handle:   device,
		gpu:      gpu,
		families: indices,
	}
	vk.GetDeviceQueue(device, indices.Graphics(), 0, &d.graphicsQueue)
	if indices.Separate() {
		vk.GetDeviceQueue(device, indices.Present(), 0, &d.presentQueue)
	} else {
		d.presentQueue = d.graphicsQueue
	}
	return d, nil
}

func (d *Device) Handle() vk.Device {
	return d.handle
}

func (d *Device) PhysicalDevice() vk.PhysicalDevice {
	return d.gpu
}

func (d *Device) Families() QueueFamilyIndices {
	return d.families
}

func (d *Device) GraphicsQueue() vk.Queue {
	return d.graphicsQueue
}

func (d *Device) PresentQueue() vk.Queue {
	return d.presentQueue
}

// WaitIdle blocks until the GPU has retired all submitted work on every
// queue. Required before any teardown that frees resources the GPU may
// still reference.
func (d *Device) WaitIdle() error {
	return NewError(vk.DeviceWaitIdle(d.handle))
}

func (d *Device) Destroy() {
	if d.handle != nil {
		vk.DestroyDevice(d.handle, nil)
		d.handle = nil
	}
}
