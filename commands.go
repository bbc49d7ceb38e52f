package vulkanctx

import (
	vk "github.com/vulkan-go/vulkan"
)

// NewCommandPool creates a pool on the graphics queue family.
func NewCommandPool(device vk.Device, graphicsFamily uint32) (vk.CommandPool, error) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: graphicsFamily,
	}, nil, &pool)
	if err := NewError(ret); err != nil {
		return vk.NullCommandPool, err
	}
	return pool, nil
}

// RecordTriangleCommands allocates one primary command buffer per
// framebuffer and records the fixed render pass with a single draw into
// each. Buffer i renders into swapchain image i; the buffers are recorded
// once and replayed every frame.
func RecordTriangleCommands(device vk.Device, pool vk.CommandPool, renderPass vk.RenderPass,
	pipeline vk.Pipeline, framebuffers []vk.Framebuffer, extent vk.Extent2D) ([]vk.CommandBuffer, error) {

	commandBuffers := make([]vk.CommandBuffer, len(framebuffers))
	ret := vk.AllocateCommandBuffers(device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(len(commandBuffers)),
	}, commandBuffers)
	if err := NewError(ret); err != nil {
		return nil, err
	}

	clearValues := []vk.ClearValue{
		vk.NewClearValue([]float32{0.0, 0.0, 0.0, 1.0}),
	}

	for i, cmd := range commandBuffers {
		ret = vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
			SType: vk.StructureTypeCommandBufferBeginInfo,
		})
		if err := NewError(ret); err != nil {
			vk.FreeCommandBuffers(device, pool, uint32(len(commandBuffers)), commandBuffers)
			return nil, err
		}

		vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
			SType:       vk.StructureTypeRenderPassBeginInfo,
			RenderPass:  renderPass,
			Framebuffer: framebuffers[i],
			RenderArea: vk.Rect2D{
				Offset: vk.Offset2D{},
				Extent: extent,
			},
			ClearValueCount: uint32(len(clearValues)),
			PClearValues:    clearValues,
		}, vk.SubpassContentsInline)

		vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, pipeline)
		vk.CmdDraw(cmd, 3, 1, 0, 0)
		vk.CmdEndRenderPass(cmd)

		ret = vk.EndCommandBuffer(cmd)
		if err := NewError(ret); err != nil {
			vk.FreeCommandBuffers(device, pool, uint32(len(commandBuffers)), commandBuffers)
			return nil, err
		}
	}
	return commandBuffers, nil
}
