package vulkanctx

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// Display couples a GLFW window with the Vulkan surface rendered onto it.
type Display struct {
	window  *glfw.Window
	surface vk.Surface
}

func NewDisplay(window *glfw.Window, instance vk.Instance) (*Display, error) {
	surfPtr, err := window.CreateWindowSurface(instance, nil)
	if err != nil {
		return nil, fmt.Errorf("vulkan: creating window surface: %w", err)
	}
	return &Display{
		window:  window,
		surface: vk.SurfaceFromPointer(surfPtr),
	}, nil
}

func (d *Display) Surface() vk.Surface {
	return d.surface
}

func (d *Display) Window() *glfw.Window {
	return d.window
}

// FramebufferSize returns the drawable size in pixels, which on high-DPI
// displays differs from the window size.
func (d *Display) FramebufferSize() (int, int) {
	return d.window.GetFramebufferSize()
}

func (d *Display) Destroy(instance vk.Instance) {
	if d.surface != vk.NullSurface {
		vk.DestroySurface(instance, d.surface, nil)
		d.surface = vk.NullSurface
	}
}
