package vulkanctx

import (
	"errors"
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// RenderContext owns the whole bring-up chain for the triangle: instance,
// surface, device, swapchain, pipeline, pre-recorded command buffers and
// the frame synchronizer. Destruction runs in reverse creation order, so
// the ownership graph here encodes what the Vulkan spec otherwise leaves
// to a hand-maintained teardown list.
type RenderContext struct {
	config Config

	instance      vk.Instance
	debugCallback vk.DebugReportCallback
	display       *Display
	device        *Device

	swapchain    *Swapchain
	renderPass   vk.RenderPass
	pipeline     *Pipeline
	framebuffers []vk.Framebuffer
	commandPool  vk.CommandPool
	commands     []vk.CommandBuffer

	frames *FrameSync
}

// NewRenderContext performs the full bring-up against the given window. Any
// failure tears down whatever was already created and returns the error; no
// partially usable context ever escapes.
func NewRenderContext(cfg Config, window *glfw.Window) (c *RenderContext, err error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	c = &RenderContext{
		config:        cfg,
		debugCallback: vk.NullDebugReportCallback,
	}
	defer func() {
		if err != nil {
			c.Destroy()
		}
	}()

	c.instance, err = NewInstance(cfg, window)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		c.debugCallback, err = SetupDebugCallback(c.instance)
		if err != nil {
			return nil, err
		}
	}

	c.display, err = NewDisplay(window, c.instance)
	if err != nil {
		return nil, err
	}

	gpu, err := PickPhysicalDevice(c.instance, c.display.Surface(), cfg.DeviceExtensions)
	if err != nil {
		return nil, err
	}
	c.device, err = NewDevice(gpu, c.display.Surface(), cfg)
	if err != nil {
		return nil, err
	}

	if err = c.createSwapchainResources(vk.NullSwapchain); err != nil {
		return nil, err
	}
	return c, nil
}

// createSwapchainResources builds everything derived from the swapchain:
// the swapchain itself, render pass, pipeline, framebuffers, command
// buffers and the frame synchronizer sized to the actual image count.
func (c *RenderContext) createSwapchainResources(old vk.Swapchain) error {
	width, height := c.display.FramebufferSize()

	swapchain, err := NewSwapchain(c.device, c.display.Surface(), width, height, old)
	if err != nil {
		return err
	}
	c.swapchain = swapchain

	c.renderPass, err = NewRenderPass(c.device.Handle(), swapchain.Format())
	if err != nil {
		return err
	}

	c.pipeline, err = NewTrianglePipeline(c.device.Handle(), c.renderPass, swapchain.Extent(), c.config)
	if err != nil {
		return err
	}

	c.framebuffers, err = createFramebuffers(c.device.Handle(), c.renderPass, swapchain.Views(), swapchain.Extent())
	if err != nil {
		return err
	}

	c.commandPool, err = NewCommandPool(c.device.Handle(), c.device.Families().Graphics())
	if err != nil {
		return err
	}
	c.commands, err = RecordTriangleCommands(c.device.Handle(), c.commandPool, c.renderPass,
		c.pipeline.Handle(), c.framebuffers, swapchain.Extent())
	if err != nil {
		return err
	}

	backend, err := newFrameResources(c.device, swapchain, c.commands, c.config.FramesInFlight)
	if err != nil {
		return err
	}
	c.frames, err = NewFrameSync(backend, c.config.FramesInFlight, swapchain.ImageCount())
	if err != nil {
		backend.Destroy()
		return err
	}

	log.Printf("vulkan: swapchain ready, %d images at %dx%d, %d frames in flight",
		swapchain.ImageCount(), swapchain.Extent().Width, swapchain.Extent().Height, c.config.FramesInFlight)
	return nil
}

// destroySwapchainResources releases everything createSwapchainResources
// built, in reverse order. keepSwapchain leaves the swapchain handle alive
// so recreation can pass it as oldSwapchain.
func (c *RenderContext) destroySwapchainResources(keepSwapchain bool) {
	if c.frames != nil {
		c.frames.Destroy()
		c.frames = nil
	}
	if len(c.commands) > 0 {
		vk.FreeCommandBuffers(c.device.Handle(), c.commandPool, uint32(len(c.commands)), c.commands)
		c.commands = nil
	}
	if c.commandPool != vk.NullCommandPool {
		vk.DestroyCommandPool(c.device.Handle(), c.commandPool, nil)
		c.commandPool = vk.NullCommandPool
	}
	if c.framebuffers != nil {
		destroyFramebuffers(c.device.Handle(), c.framebuffers)
		c.framebuffers = nil
	}
	if c.pipeline != nil {
		c.pipeline.Destroy()
		c.pipeline = nil
	}
	if c.renderPass != vk.NullRenderPass {
		vk.DestroyRenderPass(c.device.Handle(), c.renderPass, nil)
		c.renderPass = vk.NullRenderPass
	}
	if c.swapchain != nil && !keepSwapchain {
		c.swapchain.Destroy()
		c.swapchain = nil
	}
}

// RecreateSwapchain rebuilds the swapchain and everything derived from it
// after the presentation target went stale, including a frame synchronizer
// sized to the new image count. The old swapchain is handed to the new one
// as oldSwapchain and released afterwards.
func (c *RenderContext) RecreateSwapchain() error {
	if err := c.device.WaitIdle(); err != nil {
		return err
	}

	old := c.swapchain
	c.destroySwapchainResources(true)
	c.swapchain = nil

	var oldHandle vk.Swapchain = vk.NullSwapchain
	if old != nil {
		oldHandle = old.Handle()
	}
	err := c.createSwapchainResources(oldHandle)
	if old != nil {
		old.Destroy()
	}
	if err != nil {
		return err
	}
	log.Println("vulkan: swapchain recreated")
	return nil
}

// DrawFrame advances the synchronizer by one frame. A stale presentation
// target triggers full swapchain recreation and reports success, since the
// next iteration will render against the fresh swapchain; every other error
// is fatal for this run.
func (c *RenderContext) DrawFrame() error {
	err := c.frames.Advance()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrOutOfDate):
		return c.RecreateSwapchain()
	default:
		return err
	}
}

// WaitIdle drains the GPU across every queue and frame slot.
func (c *RenderContext) WaitIdle() error {
	return c.device.WaitIdle()
}

// Destroy tears the context down in reverse creation order. The device is
// drained first so no primitive still referenced by outstanding GPU work
// gets destroyed. Safe to call on a partially constructed context.
func (c *RenderContext) Destroy() {
	if c.device != nil {
		if err := c.device.WaitIdle(); err != nil {
			log.Println("vulkan warning: wait idle during teardown:", err)
		}
		c.destroySwapchainResources(false)
		c.device.Destroy()
		c.device = nil
	}
	if c.display != nil {
		c.display.Destroy(c.instance)
		c.display = nil
	}
	if c.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(c.instance, c.debugCallback, nil)
		c.debugCallback = vk.NullDebugReportCallback
	}
	if c.instance != nil {
		vk.DestroyInstance(c.instance, nil)
		c.instance = nil
	}
}
