package vulkanctx

import (
	vk "github.com/vulkan-go/vulkan"
)

type swapchainSupport struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

func querySwapchainSupport(gpu vk.PhysicalDevice, surface vk.Surface) swapchainSupport {
	var support swapchainSupport

	vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &support.capabilities)
	support.capabilities.Deref()
	support.capabilities.CurrentExtent.Deref()
	support.capabilities.MinImageExtent.Deref()
	support.capabilities.MaxImageExtent.Deref()

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, nil)
	support.formats = make([]vk.SurfaceFormat, formatCount)
	vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, support.formats)
	for i := range support.formats {
		support.formats[i].Deref()
	}

	var presentModeCount uint32
	vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &presentModeCount, nil)
	support.presentModes = make([]vk.PresentMode, presentModeCount)
	vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &presentModeCount, support.presentModes)

	return support
}

// chooseSurfaceFormat prefers sRGB BGRA and settles for the first format
// the surface offers otherwise.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, format := range formats {
		if format.Format == vk.FormatB8g8r8a8Srgb && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return format
		}
	}
	return formats[0]
}

// choosePresentMode prefers mailbox, where a full queue replaces the
// pending image instead of blocking. FIFO is guaranteed to exist.
func choosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	for _, mode := range modes {
		if mode == vk.PresentModeMailbox {
			return mode
		}
	}
	return vk.PresentModeFifo
}

// chooseExtent resolves the swapchain extent. When the surface pins the
// extent it must be used as-is; otherwise the framebuffer size is clamped
// into the supported range.
func chooseExtent(capabilities vk.SurfaceCapabilities, fbWidth, fbHeight int) vk.Extent2D {
	if capabilities.CurrentExtent.Width != vk.MaxUint32 {
		return capabilities.CurrentExtent
	}

	extent := vk.Extent2D{
		Width:  uint32(fbWidth),
		Height: uint32(fbHeight),
	}
	if extent.Width < capabilities.MinImageExtent.Width {
		extent.Width = capabilities.MinImageExtent.Width
	}
	if extent.Width > capabilities.MaxImageExtent.Width {
		extent.Width = capabilities.MaxImageExtent.Width
	}
	if extent.Height < capabilities.MinImageExtent.Height {
		extent.Height = capabilities.MinImageExtent.Height
	}
	if extent.Height > capabilities.MaxImageExtent.Height {
		extent.Height = capabilities.MaxImageExtent.Height
	}
	return extent
}

// Swapchain owns the presentable images and their views.
type Swapchain struct {
	device vk.Device
	handle vk.Swapchain
	format vk.SurfaceFormat
	extent vk.Extent2D
	images []vk.Image
	views  []vk.ImageView
}

// NewSwapchain creates a swapchain for the surface. On recreation the
// previous handle is passed as old so in-flight presentation can finish
// against it; the caller destroys the old swapchain afterwards.
func NewSwapchain(device *Device, surface vk.Surface, fbWidth, fbHeight int, old vk.Swapchain) (*Swapchain, error) {
	support := querySwapchainSupport(device.PhysicalDevice(), surface)

	format := chooseSurfaceFormat(support.formats)
	presentMode := choosePresentMode(support.presentModes)
	extent := chooseExtent(support.capabilities, fbWidth, fbHeight)

	// One image beyond the minimum so the application is not stalled on the
	// driver releasing an image. MaxImageCount of zero means unbounded.
	imageCount := support.capabilities.MinImageCount + 1
	if support.capabilities.MaxImageCount > 0 && imageCount > support.capabilities.MaxImageCount {
		imageCount = support.capabilities.MaxImageCount
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    imageCount,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     support.capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     old,
	}

	families := device.Families()
	if families.Separate() {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{families.Graphics(), families.Present()}
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var handle vk.Swapchain
	ret := vk.CreateSwapchain(device.Handle(), &createInfo, nil, &handle)
	if err := NewError(ret); err != nil {
		return nil, err
	}

	s := &Swapchain{
		device: device.Handle(),
		handle: handle,
		format: format,
		extent: extent,
	}

	var actualCount uint32
	ret = vk.GetSwapchainImages(s.device, handle, &actualCount, nil)
	if err := NewError(ret); err != nil {
		s.Destroy()
		return nil, err
	}
	s.images = make([]vk.Image, actualCount)
	ret = vk.GetSwapchainImages(s.device, handle, &actualCount, s.images)
	if err := NewError(ret); err != nil {
		s.Destroy()
		return nil, err
	}

	if err := s.createImageViews(); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *Swapchain) createImageViews() error {
	s.views = make([]vk.ImageView, len(s.images))
	for i, image := range s.images {
		ret := vk.CreateImageView(s.device, &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   s.format.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}, nil, &s.views[i])
		if err := NewError(ret); err != nil {
			return err
		}
	}
	return nil
}

func (s *Swapchain) Handle() vk.Swapchain {
	return s.handle
}

func (s *Swapchain) Format() vk.Format {
	return s.format.Format
}

func (s *Swapchain) Extent() vk.Extent2D {
	return s.extent
}

func (s *Swapchain) ImageCount() int {
	return len(s.images)
}

func (s *Swapchain) Views() []vk.ImageView {
	return s.views
}

func (s *Swapchain) Destroy() {
	for _, view := range s.views {
		if view != vk.NullImageView {
			vk.DestroyImageView(s.device, view, nil)
		}
	}
	s.views = nil
	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(s.device, s.handle, nil)
		s.handle = vk.NullSwapchain
	}
}
