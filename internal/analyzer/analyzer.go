// Package analyzer maintains sliding and paged sample windows over signal
// recordings and delivers down-sampled views to a rendering surface.
package analyzer

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"sigview/internal/chunker"
	"sigview/internal/config"
	"sigview/internal/signalfile"
)

// Analyzer streams a signal file through a fixed-length sliding window.
// Each chunk read from the source shifts the window forward, widens the
// running y-range, and produces one blocking delivery to the surface.
//
// An Analyzer is driven by exactly one background task at a time; Stop may
// be called from any goroutine.
type Analyzer struct {
	cfg     config.SignalConfig
	surface Surface
	log     zerolog.Logger

	stopped atomic.Bool

	cursor  int64
	window  []float64
	xs      []float64
	extrema Extrema
}

// New returns an idle analyzer bound to a rendering surface.
func New(cfg config.SignalConfig, surface Surface, log zerolog.Logger) *Analyzer {
	if cfg.WindowSize < 2 {
		cfg.WindowSize = 2
	}
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = 1
	}
	return &Analyzer{cfg: cfg, surface: surface, log: log}
}

// Run streams windows from path until the source fails or Stop is called.
// Reaching the end of the file restarts the pass from the top, matching a
// continuous-replay viewing mode. A missing path ends the run with a
// warning rather than an error.
func (a *Analyzer) Run(path string) error {
	a.stopped.Store(false)
	a.extrema = NewExtrema()
	a.window = make([]float64, a.cfg.WindowSize)
	for i := range a.window {
		a.window[i] = signalfile.Missing()
	}
	a.xs = make([]float64, a.cfg.WindowSize)

	for !a.stopped.Load() {
		delivered, err := a.pass(path)
		if err != nil {
			return err
		}
		if !delivered {
			// Missing path or a file with no data rows; nothing to replay.
			return nil
		}
	}
	return nil
}

// Stop requests the streaming loop to end. It is an idempotent one-way
// request, observed between chunk deliveries rather than preemptively;
// the worst-case latency is one chunk's processing plus one render.
func (a *Analyzer) Stop() {
	a.stopped.Store(true)
}

// pass streams the file once from the top. It reports whether any window
// was delivered.
func (a *Analyzer) pass(path string) (bool, error) {
	a.cursor = -int64(a.cfg.WindowSize)

	r := chunker.New(path, a.cfg.ChunkSize)
	defer r.Close()

	delivered := false
	for !a.stopped.Load() && r.Scan() {
		a.ingest(r.Chunk())
		a.deliver()
		delivered = true
	}
	if err := r.Err(); err != nil {
		return delivered, err
	}
	if r.PathMissing() {
		a.log.Warn().Str("path", path).Msg("signal file missing, nothing to stream")
		return false, nil
	}
	return delivered, nil
}

// ingest shifts the window left by the chunk length and appends the new
// y-values at the trailing edge. Chunk length is expected to be well below
// the window length, so the O(windowSize) shift per chunk is acceptable.
func (a *Analyzer) ingest(chunk []signalfile.Sample) {
	n := len(chunk)
	if n >= len(a.window) {
		chunk = chunk[n-len(a.window):]
		for i, s := range chunk {
			a.window[i] = channelValue(s, a.cfg.Channel)
		}
	} else {
		copy(a.window, a.window[n:])
		tail := len(a.window) - n
		for i, s := range chunk {
			a.window[tail+i] = channelValue(s, a.cfg.Channel)
		}
	}
	a.cursor += int64(n)
}

// deliver recomputes the x ramp and running extrema, down-samples, and
// hands the window to the surface. Both surface calls block until the
// renderer acknowledges; that is the backpressure mechanism.
func (a *Analyzer) deliver() {
	a.extrema.Widen(a.window)

	lo := float64(a.cursor) / a.cfg.SampleRateDivisor
	hi := float64(a.cursor+int64(len(a.window))-1) / a.cfg.SampleRateDivisor
	floats.Span(a.xs, lo, hi)

	xs := Downsample(a.xs, a.cfg.DownsampleStride)
	ys := Downsample(a.window, a.cfg.DownsampleStride)

	if a.extrema.Valid() {
		a.surface.SetAxisY(a.extrema.Min, a.extrema.Max)
	}
	a.surface.UpdateSeries(xs, ys)
}

func channelValue(s signalfile.Sample, channel int) float64 {
	if channel == 2 {
		return s.ADC2
	}
	return s.ADC1
}
