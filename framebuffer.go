package vulkanctx

import (
	vk "github.com/vulkan-go/vulkan"
)

// createFramebuffers makes one framebuffer per swapchain image view.
func createFramebuffers(device vk.Device, renderPass vk.RenderPass, views []vk.ImageView, extent vk.Extent2D) ([]vk.Framebuffer, error) {
	framebuffers := make([]vk.Framebuffer, len(views))
	for i, view := range views {
		attachments := []vk.ImageView{view}
		ret := vk.CreateFramebuffer(device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}, nil, &framebuffers[i])
		if err := NewError(ret); err != nil {
			destroyFramebuffers(device, framebuffers[:i])
			return nil, err
		}
	}
	return framebuffers, nil
}

func destroyFramebuffers(device vk.Device, framebuffers []vk.Framebuffer) {
	for _, framebuffer := range framebuffers {
		vk.DestroyFramebuffer(device, framebuffer, nil)
	}
}
