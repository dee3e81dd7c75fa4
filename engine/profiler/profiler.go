package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one reporting window of the profiler.
type Stats struct {
	FPS         float64
	GPS         float64 // simulated generations per second
	HeapMB      float64
	AllocRateMB float64
	NumGC       uint32
	MaxPauseUs  uint64
}

// Profiler tracks frame rate, simulation throughput and memory statistics.
// Outputs stats to its logger at a configurable interval.
type Profiler struct {
	logger         *slog.Logger
	now            func() time.Time
	readMem        func(*runtime.MemStats)
	updateInterval time.Duration

	frameCount      int
	generationCount uint64
	lastTime        time.Time
	memStats        runtime.MemStats
	lastGCCount     uint32
	lastTotalAlloc  uint64
	last            Stats
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the destination of the periodic stats line.
func WithLogger(l *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithInterval sets the reporting interval. Non-positive values are ignored.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - opts: profiler options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(opts ...ProfilerOption) *Profiler {
	p := &Profiler{
		logger:         slog.Default(),
		now:            time.Now,
		readMem:        runtime.ReadMemStats,
		updateInterval: time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per presented frame with the number of generations that frame
// simulated. Logs statistics when the update interval has elapsed.
//
// Parameters:
//   - generations: the generations simulated by this frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(generations uint64) bool {
	p.frameCount++
	p.generationCount += generations
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	p.readMem(&p.memStats)
	seconds := elapsed.Seconds()
	gcCount := p.memStats.NumGC

	// PauseNs is a circular buffer of the last 256 pauses.
	var maxPauseUs uint64
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	p.last = Stats{
		FPS:         float64(p.frameCount) / seconds,
		GPS:         float64(p.generationCount) / seconds,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds,
		NumGC:       gcCount,
		MaxPauseUs:  maxPauseUs,
	}
	p.logger.Info("profiler",
		"fps", p.last.FPS,
		"generations_per_second", p.last.GPS,
		"heap_mb", p.last.HeapMB,
		"alloc_rate_mb", p.last.AllocRateMB,
		"gc", p.last.NumGC,
		"max_pause_us", p.last.MaxPauseUs,
	)

	p.frameCount = 0
	p.generationCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the stats of the most recent reporting window.
func (p *Profiler) Last() Stats {
	return p.last
}
