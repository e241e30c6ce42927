// Package profiler reports frame rate and Go runtime memory statistics through the engine logger.
package profiler

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/log"
)

var logger = log.New("profiler")

const mb = 1 << 20

// Sample is one reporting interval's statistics.
type Sample struct {
	FPS float64
	// HeapMB is live heap memory.
	HeapMB float64
	// AllocRateMB is heap churn per second over the interval.
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	// MaxPauseUs is the longest GC pause that finished during the interval.
	MaxPauseUs uint64
	// SysMB is the memory obtained from the OS.
	SysMB float64
}

func (s Sample) String() string {
	return fmt.Sprintf("%.1f fps, heap %.2f MB (%.2f MB/s), gc %d (last %dus, max %dus), sys %.2f MB",
		s.FPS, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
}

// Profiler counts frames and logs a Sample once per interval.
type Profiler struct {
	interval time.Duration
	frames   int
	since    time.Time

	mem       runtime.MemStats
	prevGC    uint32
	prevAlloc uint64
	last      Sample

	// now is replaced in tests.
	now func() time.Time
}

// NewProfiler creates a new Profiler reporting at the given interval.
//
// Parameters:
//   - interval: time between reports; values <= 0 use one second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		interval: interval,
		since:    time.Now(),
		now:      time.Now,
	}
}

// Last returns the most recently reported sample.
func (p *Profiler) Last() Sample {
	return p.last
}

// Tick counts one frame and reports once the interval has elapsed.
//
// Returns:
//   - bool: true if a sample was logged by this call
func (p *Profiler) Tick() bool {
	p.frames++
	now := p.now()
	elapsed := now.Sub(p.since)
	if elapsed < p.interval {
		return false
	}

	runtime.ReadMemStats(&p.mem)
	seconds := elapsed.Seconds()
	lastPause, maxPause := gcPauses(&p.mem, p.prevGC)
	p.last = Sample{
		FPS:         float64(p.frames) / seconds,
		HeapMB:      float64(p.mem.Alloc) / mb,
		AllocRateMB: float64(p.mem.TotalAlloc-p.prevAlloc) / mb / seconds,
		GCCount:     p.mem.NumGC,
		LastPauseUs: lastPause,
		MaxPauseUs:  maxPause,
		SysMB:       float64(p.mem.Sys) / mb,
	}
	logger.Info(p.last.String())

	p.frames = 0
	p.since = now
	p.prevGC = p.mem.NumGC
	p.prevAlloc = p.mem.TotalAlloc
	return true
}

// gcPauses returns the latest pause and the longest pause of the collections after since, in
// microseconds. PauseNs only remembers the last 256 collections.
func gcPauses(m *runtime.MemStats, since uint32) (last, longest uint64) {
	n := m.NumGC
	if n == 0 {
		return 0, 0
	}
	ring := uint32(len(m.PauseNs))
	last = m.PauseNs[(n-1)%ring] / 1000
	if n-since > ring {
		since = n - ring
	}
	for i := since; i < n; i++ {
		longest = max(longest, m.PauseNs[i%ring]/1000)
	}
	return last, longest
}
