package vulkanctx

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Run drives the presentation loop: poll window events, draw one frame,
// repeat until the window is closed. On exit the GPU is fully drained
// before returning so the caller can destroy the context immediately.
func Run(ctx *RenderContext, window *glfw.Window) error {
	for !window.ShouldClose() {
		glfw.PollEvents()
		if err := ctx.DrawFrame(); err != nil {
			return err
		}
	}
	return ctx.WaitIdle()
}
