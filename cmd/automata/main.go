package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-automata/engine"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer"
	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-automata/engine/window"
)

func init() {
	// GLFW and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg := NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	shader.SetLogger(logger)

	params, err := cfg.Parameters()
	if err != nil {
		return err
	}

	kernels := shader.DefaultKernels()
	if cfg.KernelDir != "" {
		if kernels, err = shader.KernelSetFromDir(cfg.KernelDir); err != nil {
			return err
		}
	}

	presentMode := renderer.PresentModeVSync
	if !cfg.VSync {
		presentMode = renderer.PresentModeUncapped
	}

	e, err := engine.NewEngine(
		engine.WithTitle(cfg.Title),
		engine.WithWindowOptions(window.WithSize(cfg.Width, cfg.Height)),
		engine.WithLogger(logger),
		engine.WithForceSoftwareRenderer(cfg.Software),
		engine.WithPresentMode(presentMode),
		engine.WithProfiling(cfg.Profile),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
		engine.WithParameters(params),
		engine.WithRendererOptions(
			renderer.WithKernels(kernels),
			renderer.WithKernelValidation(cfg.ValidateKernels),
			renderer.WithInitialRate(uint32(cfg.Rate)),
			renderer.WithInitialZoom(int32(cfg.Zoom)),
		),
	)
	if err != nil {
		return err
	}
	return e.Run()
}
