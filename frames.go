package vulkanctx

import (
	vk "github.com/vulkan-go/vulkan"
)

// frameResources is the production FrameBackend: per-slot Vulkan semaphores
// and fences over the real queues and swapchain. The in-flight fences start
// signalled so the first pass through each slot does not stall.
type frameResources struct {
	device        vk.Device
	graphicsQueue vk.Queue
	presentQueue  vk.Queue
	swapchain     vk.Swapchain

	// commandBuffers is index-aligned with the swapchain images.
	commandBuffers []vk.CommandBuffer

	imageAvailable []vk.Semaphore
	renderFinished []vk.Semaphore
	inFlight       []vk.Fence
}

func newFrameResources(device *Device, swapchain *Swapchain, commandBuffers []vk.CommandBuffer, frames int) (*frameResources, error) {
	f := &frameResources{
		device:         device.Handle(),
		graphicsQueue:  device.GraphicsQueue(),
		presentQueue:   device.PresentQueue(),
		swapchain:      swapchain.Handle(),
		commandBuffers: commandBuffers,
		imageAvailable: make([]vk.Semaphore, frames),
		renderFinished: make([]vk.Semaphore, frames),
		inFlight:       make([]vk.Fence, frames),
	}

	semaphoreInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}

	for i := 0; i < frames; i++ {
		ret := vk.CreateSemaphore(f.device, &semaphoreInfo, nil, &f.imageAvailable[i])
		if err := NewError(ret); err != nil {
			f.Destroy()
			return nil, err
		}
		ret = vk.CreateSemaphore(f.device, &semaphoreInfo, nil, &f.renderFinished[i])
		if err := NewError(ret); err != nil {
			f.Destroy()
			return nil, err
		}
		ret = vk.CreateFence(f.device, &fenceInfo, nil, &f.inFlight[i])
		if err := NewError(ret); err != nil {
			f.Destroy()
			return nil, err
		}
	}
	return f, nil
}

func (f *frameResources) WaitFrame(slot int) error {
	fences := []vk.Fence{f.inFlight[slot]}
	return NewError(vk.WaitForFences(f.device, 1, fences, vk.True, vk.MaxUint64))
}

func (f *frameResources) ResetFrame(slot int) error {
	fences := []vk.Fence{f.inFlight[slot]}
	return NewError(vk.ResetFences(f.device, 1, fences))
}

func (f *frameResources) Acquire(slot int) (int, error) {
	var imageIndex uint32
	ret := vk.AcquireNextImage(f.device, f.swapchain, vk.MaxUint64,
		f.imageAvailable[slot], vk.NullFence, &imageIndex)
	if err := newPresentError(ret); err != nil {
		return 0, err
	}
	return int(imageIndex), nil
}

func (f *frameResources) Submit(slot int, image int) error {
	submitInfos := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{f.imageAvailable[slot]},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{f.commandBuffers[image]},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{f.renderFinished[slot]},
	}}
	return NewError(vk.QueueSubmit(f.graphicsQueue, 1, submitInfos, f.inFlight[slot]))
}

func (f *frameResources) Present(slot int, image int) error {
	ret := vk.QueuePresent(f.presentQueue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{f.renderFinished[slot]},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{f.swapchain},
		PImageIndices:      []uint32{uint32(image)},
	})
	return newPresentError(ret)
}

func (f *frameResources) Destroy() {
	for _, semaphore := range f.imageAvailable {
		if semaphore != vk.NullSemaphore {
			vk.DestroySemaphore(f.device, semaphore, nil)
		}
	}
	for _, semaphore := range f.renderFinished {
		if semaphore != vk.NullSemaphore {
			vk.DestroySemaphore(f.device, semaphore, nil)
		}
	}
	for _, fence := range f.inFlight {
		if fence != vk.NullFence {
			vk.DestroyFence(f.device, fence, nil)
		}
	}
	f.imageAvailable = nil
	f.renderFinished = nil
	f.inFlight = nil
}
