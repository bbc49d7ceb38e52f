package vulkanctx

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Config carries everything the render context needs to decide at
// construction time. Debug is an explicit switch rather than a build tag so
// both paths can be exercised without recompiling.
type Config struct {
	AppName string `toml:"app_name"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`

	// Debug installs the validation layers and a debug report callback.
	Debug bool `toml:"debug"`

	// FramesInFlight bounds how many frames the CPU may record ahead of the
	// GPU. Two gives classic double buffering.
	FramesInFlight int `toml:"frames_in_flight"`

	VertexShaderPath   string `toml:"vertex_shader"`
	FragmentShaderPath string `toml:"fragment_shader"`

	DeviceExtensions []string `toml:"device_extensions"`
	ValidationLayers []string `toml:"validation_layers"`
}

func DefaultConfig() Config {
	return Config{
		AppName:            "Vulkan",
		Width:              800,
		Height:             600,
		Debug:              false,
		FramesInFlight:     2,
		VertexShaderPath:   "shaders/shader.vert.spv",
		FragmentShaderPath: "shaders/shader.frag.spv",
		DeviceExtensions:   []string{"VK_KHR_swapchain"},
		ValidationLayers:   []string{"VK_LAYER_KHRONOS_validation"},
	}
}

// LoadConfig reads a TOML file over the defaults, so a partial file only
// overrides what it names.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.FramesInFlight < 1 {
		return fmt.Errorf("config: frames_in_flight must be at least 1, got %d", c.FramesInFlight)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid window size %dx%d", c.Width, c.Height)
	}
	return nil
}
