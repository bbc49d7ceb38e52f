package vulkanctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueFamilyIndicesZeroValueIncomplete(t *testing.T) {
	var indices QueueFamilyIndices
	assert.False(t, indices.Complete())
}

func TestQueueFamilyIndicesComplete(t *testing.T) {
	indices := QueueFamilyIndices{graphics: 0, hasGraphics: true}
	assert.False(t, indices.Complete(), "graphics alone is not enough")

	indices.present = 0
	indices.hasPresent = true
	assert.True(t, indices.Complete())
	assert.False(t, indices.Separate())
	assert.Equal(t, uint32(0), indices.Graphics())
	assert.Equal(t, uint32(0), indices.Present())
}

func TestQueueFamilyIndicesSeparate(t *testing.T) {
	indices := QueueFamilyIndices{
		graphics: 0, hasGraphics: true,
		present: 2, hasPresent: true,
	}
	assert.True(t, indices.Complete())
	assert.True(t, indices.Separate())
	assert.Equal(t, uint32(2), indices.Present())
}
