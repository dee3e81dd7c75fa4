package profiler

import (
	"bytes"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestProfiler(buf *bytes.Buffer) (*Profiler, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	p := NewProfiler(
		WithClock(clock.Now),
		WithInterval(time.Second),
		WithLogger(slog.New(slog.NewTextHandler(buf, nil))),
	)
	p.readMem = func(m *runtime.MemStats) {
		m.Alloc = 2 * 1024 * 1024
		m.TotalAlloc = 4 * 1024 * 1024
		m.NumGC = 3
		m.PauseNs[0], m.PauseNs[1], m.PauseNs[2] = 1000, 9000, 2000
	}
	return p, clock
}

func TestTick(t *testing.T) {
	var buf bytes.Buffer
	p, clock := newTestProfiler(&buf)

	for range 3 {
		clock.Advance(250 * time.Millisecond)
		if p.Tick(4) {
			t.Fatal("Tick() = true before the interval elapsed")
		}
	}
	if buf.Len() != 0 {
		t.Errorf("logged before interval: %q", buf.String())
	}

	clock.Advance(250 * time.Millisecond)
	if !p.Tick(4) {
		t.Fatal("Tick() = false after the interval elapsed")
	}

	got := p.Last()
	if got.FPS != 4 {
		t.Errorf("FPS = %v, want 4", got.FPS)
	}
	if got.GPS != 16 {
		t.Errorf("GPS = %v, want 16", got.GPS)
	}
	if got.HeapMB != 2 {
		t.Errorf("HeapMB = %v, want 2", got.HeapMB)
	}
	if got.MaxPauseUs != 9 {
		t.Errorf("MaxPauseUs = %v, want 9", got.MaxPauseUs)
	}
	if !strings.Contains(buf.String(), "generations_per_second=16") {
		t.Errorf("log = %q, want generations_per_second=16", buf.String())
	}
}

func TestTickResetsWindow(t *testing.T) {
	var buf bytes.Buffer
	p, clock := newTestProfiler(&buf)

	clock.Advance(2 * time.Second)
	p.Tick(100)

	clock.Advance(time.Second)
	if !p.Tick(0) {
		t.Fatal("Tick() = false, want true")
	}
	if got := p.Last(); got.FPS != 1 || got.GPS != 0 || got.AllocRateMB != 0 {
		t.Errorf("second window = %+v, want FPS 1, GPS 0, AllocRateMB 0", got)
	}
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithInterval(-time.Second))
	if p.updateInterval != time.Second {
		t.Errorf("updateInterval = %v, want %v", p.updateInterval, time.Second)
	}
}
