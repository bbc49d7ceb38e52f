package vulkanctx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "renderer.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, 2, cfg.FramesInFlight)
	assert.False(t, cfg.Debug)
	assert.Equal(t, []string{"VK_KHR_swapchain"}, cfg.DeviceExtensions)
	require.NoError(t, cfg.validate())
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := writeConfig(t, `
width = 1280
height = 720
frames_in_flight = 3
debug = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, 3, cfg.FramesInFlight)
	assert.True(t, cfg.Debug)
	// Unnamed fields keep their defaults.
	assert.Equal(t, "Vulkan", cfg.AppName)
	assert.Equal(t, "shaders/shader.vert.spv", cfg.VertexShaderPath)
	assert.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, cfg.ValidationLayers)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "frames_in_flight = 0\n"))
	assert.ErrorContains(t, err, "frames_in_flight")

	_, err = LoadConfig(writeConfig(t, "width = -1\n"))
	assert.ErrorContains(t, err, "window size")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "width = [not toml"))
	assert.ErrorContains(t, err, "parsing")
}
