package renderer

import "errors"

var (
	// ErrTargetNotTwoDimensional is returned by NewRenderer when the output image is not a 2D image.
	ErrTargetNotTwoDimensional = errors.New("renderer: output image must be two-dimensional")

	// ErrWorkgroupSize is returned by NewRenderer when a kernel does not declare an 8x8x1 workgroup.
	ErrWorkgroupSize = errors.New("renderer: kernel workgroup size must be 8x8x1")

	// ErrMissingBinding is returned by NewRenderer when a kernel does not declare a binding the
	// renderer needs to wire.
	ErrMissingBinding = errors.New("renderer: kernel is missing a required binding")
)
