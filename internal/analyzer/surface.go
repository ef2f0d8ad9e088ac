package analyzer

import (
	"math"

	"sigview/internal/signalfile"
)

// Surface is the rendering target for window deliveries. Both calls are
// blocking handoffs: they must not return until the consumer has finished
// processing, so the producer can never run more than one delivery ahead
// of the renderer.
type Surface interface {
	// SetAxisY updates the displayed y-range.
	SetAxisY(min, max float64)

	// UpdateSeries replaces the displayed series with a down-sampled
	// (x, y) pair. Missing markers in ys render as gaps.
	UpdateSeries(xs, ys []float64)
}

// Extrema tracks the running y-range of a session. It only ever widens;
// a narrower window later in the run keeps the range observed so far.
type Extrema struct {
	Min float64
	Max float64
}

// NewExtrema returns an empty range that any observed value widens.
func NewExtrema() Extrema {
	return Extrema{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Widen folds the given y-values into the range, skipping missing markers.
func (e *Extrema) Widen(values []float64) {
	for _, v := range values {
		if signalfile.IsMissing(v) {
			continue
		}
		if v < e.Min {
			e.Min = v
		}
		if v > e.Max {
			e.Max = v
		}
	}
}

// Valid reports whether at least one real value has been observed.
func (e Extrema) Valid() bool { return e.Min <= e.Max }

// Downsample returns every stride-th point of values, starting from the
// first. The underlying data is never altered; this only thins what is
// handed to the renderer.
func Downsample(values []float64, stride int) []float64 {
	if stride < 1 {
		stride = 1
	}
	out := make([]float64, 0, (len(values)+stride-1)/stride)
	for i := 0; i < len(values); i += stride {
		out = append(out, values[i])
	}
	return out
}
