package vulkanctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeString(t *testing.T) {
	assert.Equal(t, "VK_KHR_swapchain\x00", safeString("VK_KHR_swapchain"))
	assert.Equal(t, "VK_KHR_swapchain\x00", safeString("VK_KHR_swapchain\x00"))
	assert.Equal(t, "\x00", safeString(""))
}

func TestCheckExisting(t *testing.T) {
	actual := []string{"VK_KHR_surface", "VK_KHR_swapchain", "VK_EXT_debug_report"}

	existing, missing := checkExisting(actual, []string{"VK_KHR_swapchain"})
	assert.Equal(t, []string{"VK_KHR_swapchain"}, existing)
	assert.Zero(t, missing)

	existing, missing = checkExisting(actual, []string{"VK_KHR_swapchain", "VK_KHR_display"})
	assert.Equal(t, []string{"VK_KHR_swapchain"}, existing)
	assert.Equal(t, 1, missing)

	existing, missing = checkExisting(nil, []string{"VK_KHR_swapchain"})
	assert.Empty(t, existing)
	assert.Equal(t, 1, missing)
}

func TestSliceUint32(t *testing.T) {
	// SPIR-V magic number in little-endian byte order.
	words := sliceUint32([]byte{0x03, 0x02, 0x23, 0x07})
	assert.Equal(t, []uint32{0x07230203}, words)

	assert.Empty(t, sliceUint32(nil))
}
