package vulkanctx

import (
	"fmt"
	"os"

	vk "github.com/vulkan-go/vulkan"
)

// loadShaderModule reads a compiled SPIR-V binary and wraps it in a shader
// module. The module can be destroyed once baked into a pipeline.
func loadShaderModule(device vk.Device, path string) (vk.ShaderModule, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return vk.NullShaderModule, fmt.Errorf("vulkan: reading shader %s: %w", path, err)
	}
	if len(code)%4 != 0 {
		return vk.NullShaderModule, fmt.Errorf("vulkan: shader %s is not valid SPIR-V (%d bytes)", path, len(code))
	}

	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if err := NewError(ret); err != nil {
		return vk.NullShaderModule, err
	}
	return module, nil
}
