package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-automata/engine/renderer/shader"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithLogger sets the logger used for control-surface and lifecycle messages.
//
// Parameters:
//   - l: the logger; nil keeps slog.Default()
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(l *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithKernels replaces the built-in kernel sources.
//
// Parameters:
//   - set: the kernel sources to build the pipelines from
//
// Returns:
//   - RendererBuilderOption: a function that applies the kernel option to a renderer
func WithKernels(set shader.KernelSet) RendererBuilderOption {
	return func(r *renderer) {
		r.kernelSet = set
	}
}

// WithKernelValidation compiles every kernel offline before any GPU object is created.
//
// Parameters:
//   - enabled: true to validate
//
// Returns:
//   - RendererBuilderOption: a function that applies the validation option to a renderer
func WithKernelValidation(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.validateKernels = enabled
	}
}

// WithInitialRate sets the generations simulated per frame, 1 by default.
func WithInitialRate(rate uint32) RendererBuilderOption {
	return func(r *renderer) {
		r.rate = rate
	}
}

// WithInitialZoom sets the starting zoom, clamped to [MinZoom, MaxZoom].
func WithInitialZoom(zoom int32) RendererBuilderOption {
	return func(r *renderer) {
		r.view.Zoom = min(max(zoom, MinZoom), MaxZoom)
	}
}
