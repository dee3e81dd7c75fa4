package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

var (
	//go:embed assets/randomize.wgsl
	randomizeSource string

	//go:embed assets/simulate.wgsl
	simulateSource string

	//go:embed assets/finalize.wgsl
	finalizeSource string

	// BlitSource is the fullscreen-triangle shader that draws the output image onto the surface.
	//
	//go:embed assets/blit.wgsl
	BlitSource string
)

// Kernel keys, also used as pipeline keys and file names inside a kernel directory.
const (
	KernelRandomize = "randomize"
	KernelSimulate  = "simulate"
	KernelFinalize  = "finalize"
)

// KernelSet holds the raw WGSL source of the three compute kernels.
type KernelSet struct {
	Randomize string
	Simulate  string
	Finalize  string
}

// DefaultKernels returns the built-in kernel sources.
func DefaultKernels() KernelSet {
	return KernelSet{
		Randomize: randomizeSource,
		Simulate:  simulateSource,
		Finalize:  finalizeSource,
	}
}

// KernelSetFromDir reads randomize.wgsl, simulate.wgsl and finalize.wgsl from dir. A missing file
// falls back to the built-in source for that kernel.
//
// Parameters:
//   - dir: the directory to read kernel overrides from
//
// Returns:
//   - KernelSet: the merged kernel sources
//   - error: any read error other than a missing file
func KernelSetFromDir(dir string) (KernelSet, error) {
	set := DefaultKernels()
	targets := map[string]*string{
		KernelRandomize: &set.Randomize,
		KernelSimulate:  &set.Simulate,
		KernelFinalize:  &set.Finalize,
	}
	for name, dst := range targets {
		data, err := os.ReadFile(filepath.Join(dir, name+".wgsl"))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return KernelSet{}, fmt.Errorf("kernel %s: %w", name, err)
		}
		*dst = string(data)
		slogger().Info("kernel override loaded", "kernel", name, "dir", dir)
	}
	return set, nil
}

// Kernels is the parsed form of a KernelSet.
type Kernels struct {
	Randomize Shader
	Simulate  Shader
	Finalize  Shader
}

type kernelLoader struct {
	validate bool
	workers  int
}

// KernelLoadOption configures LoadKernels.
type KernelLoadOption func(*kernelLoader)

// WithValidation compiles every kernel to SPIR-V after parsing and fails the load on a compile error.
func WithValidation(enabled bool) KernelLoadOption {
	return func(l *kernelLoader) {
		l.validate = enabled
	}
}

// WithLoadWorkers sets the number of workers parsing kernels concurrently.
func WithLoadWorkers(n int) KernelLoadOption {
	return func(l *kernelLoader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// LoadKernels pre-processes and parses the three kernels of set on a worker pool.
//
// Parameters:
//   - set: the raw kernel sources
//   - opts: load options
//
// Returns:
//   - Kernels: the parsed kernels
//   - error: the joined errors of every kernel that failed to load
func LoadKernels(set KernelSet, opts ...KernelLoadOption) (Kernels, error) {
	l := &kernelLoader{workers: min(runtime.NumCPU(), 3)}
	for _, opt := range opts {
		opt(l)
	}

	sources := []struct {
		key    string
		source string
	}{
		{KernelRandomize, set.Randomize},
		{KernelSimulate, set.Simulate},
		{KernelFinalize, set.Finalize},
	}
	shaders := make([]Shader, len(sources))
	errs := make([]error, len(sources))

	pool := worker.NewDynamicWorkerPool(l.workers, len(sources), time.Second)
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				start := time.Now()
				s, err := NewShaderFromSource(src.key, ShaderTypeCompute, src.source)
				if err == nil && l.validate {
					if verr := Validate(s.Source()); verr != nil {
						err = fmt.Errorf("kernel %s: %w", src.key, verr)
					}
				}
				if err != nil {
					errs[i] = err
					return nil, err
				}
				shaders[i] = s
				slogger().Debug("kernel ready", "kernel", src.key, "elapsed", time.Since(start))
				return s, nil
			},
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return Kernels{}, err
	}
	return Kernels{
		Randomize: shaders[0],
		Simulate:  shaders[1],
		Finalize:  shaders[2],
	}, nil
}
