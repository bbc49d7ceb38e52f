package vulkanctx

import (
	"errors"
	"log"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// NewInstance creates the Vulkan instance with the extensions the window
// system requires. With cfg.Debug set the validation layers from the config
// are enabled as well; missing layers abort instead of silently running
// unvalidated.
func NewInstance(cfg Config, window *glfw.Window) (vk.Instance, error) {
	requiredExtensions := safeStrings(window.GetRequiredInstanceExtensions())

	var validationLayers []string
	if cfg.Debug {
		actualLayers, err := ValidationLayers()
		if err != nil {
			return nil, err
		}
		var missing int
		validationLayers, missing = checkExisting(actualLayers, safeStrings(cfg.ValidationLayers))
		if missing > 0 {
			return nil, errors.New("vulkan error: validation layers requested, but not available")
		}
		requiredExtensions = append(requiredExtensions, safeString("VK_EXT_debug_report"))
	}

	actualExtensions, err := InstanceExtensions()
	if err != nil {
		return nil, err
	}
	instanceExtensions, missing := checkExisting(safeStrings(actualExtensions), requiredExtensions)
	if missing > 0 {
		log.Println("vulkan warning: missing", missing, "required instance extensions during init")
	}
	log.Printf("vulkan: enabling %d instance extensions", len(instanceExtensions))

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(cfg.AppName),
			PEngineName:        "No Engine\x00",
		},
		EnabledExtensionCount:   uint32(len(instanceExtensions)),
		PpEnabledExtensionNames: instanceExtensions,
		EnabledLayerCount:       uint32(len(validationLayers)),
		PpEnabledLayerNames:     validationLayers,
	}, nil, &instance)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	vk.InitInstance(instance)
	return instance, nil
}

// SetupDebugCallback registers a callback routing validation messages into
// the process log. Only called when Config.Debug is set.
func SetupDebugCallback(instance vk.Instance) (vk.DebugReportCallback, error) {
	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: dbgCallbackFunc,
	}, nil, &callback)
	if err := NewError(ret); err != nil {
		return vk.NullDebugReportCallback, err
	}
	log.Println("vulkan: DebugReportCallback enabled")
	return callback, nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		log.Printf("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		log.Printf("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		log.Printf("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		log.Printf("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
