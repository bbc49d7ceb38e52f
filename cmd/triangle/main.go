package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	vulkanctx "github.com/simengangstad/vulkan-context"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	debug := flag.Bool("debug", false, "enable validation layers")
	flag.Parse()

	cfg := vulkanctx.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = vulkanctx.LoadConfig(*configPath)
		if err != nil {
			log.Fatalln(err)
		}
	}
	if *debug {
		cfg.Debug = true
	}

	if err := glfw.Init(); err != nil {
		log.Fatalln("glfw:", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.AppName, nil, nil)
	if err != nil {
		log.Fatalln("glfw:", err)
	}
	defer window.Destroy()

	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		log.Fatalln("vulkan:", err)
	}

	ctx, err := vulkanctx.NewRenderContext(cfg, window)
	if err != nil {
		log.Fatalln(err)
	}
	defer ctx.Destroy()

	if err := vulkanctx.Run(ctx, window); err != nil {
		log.Fatalln(err)
	}
}
