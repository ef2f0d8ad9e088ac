package analyzer

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"sigview/internal/config"
	"sigview/internal/signalfile"
)

// Pager provides random access to absolute sample ranges of a finite
// binary signal file. Unlike the streaming analyzer it treats the file as
// having a fixed (if refreshable) row count and steps a cursor window by
// window. Rows requested beyond the end of the file are filled with
// missing markers so the delivered window keeps its requested length.
//
// CSV files cannot be paged: without a fixed row layout there is no way
// to seek to a sample offset. That is a genuine capability gap, reported
// as an error rather than worked around.
type Pager struct {
	cfg     config.SignalConfig
	surface Surface
	log     zerolog.Logger

	store   *signalfile.Store
	cursor  int64
	extrema Extrema
}

// NewPager opens a signal file for paged access. Paths with an
// unrecognized suffix are tolerated: every window then renders as missing,
// matching the soft-failure policy of the streaming path.
func NewPager(path string, cfg config.SignalConfig, surface Surface, log zerolog.Logger) (*Pager, error) {
	if cfg.WindowSize < 2 {
		cfg.WindowSize = 2
	}

	p := &Pager{cfg: cfg, surface: surface, log: log, extrema: NewExtrema()}

	switch signalfile.DetectFormat(path) {
	case signalfile.FormatCSV:
		return nil, signalfile.ErrCSVRandomAccess
	case signalfile.FormatBinary:
		store, err := signalfile.Open(path)
		if err != nil {
			return nil, err
		}
		p.store = store
	default:
		log.Warn().Str("path", path).Msg("unrecognized signal file suffix, windows will render as missing")
	}

	return p, nil
}

// LoadWindow delivers the samples in [start, end) to the surface. The
// window keeps its requested length: rows at or beyond the file end become
// missing markers, never zeros, and are excluded from the y-range.
func (p *Pager) LoadWindow(start, end int64) error {
	if start < 0 || end <= start {
		return fmt.Errorf("invalid window range [%d,%d)", start, end)
	}

	window := make([]float64, end-start)
	for i := range window {
		window[i] = signalfile.Missing()
	}

	if p.store != nil {
		samples, err := p.store.ReadRange(start, end)
		if err != nil {
			return err
		}
		for i, s := range samples {
			window[i] = channelValue(s, p.cfg.Channel)
		}
	}

	p.cursor = start
	p.extrema.Widen(window)

	xs := make([]float64, len(window))
	if len(xs) > 1 {
		lo := float64(start) / p.cfg.SampleRateDivisor
		hi := float64(end-1) / p.cfg.SampleRateDivisor
		floats.Span(xs, lo, hi)
	} else {
		xs[0] = float64(start) / p.cfg.SampleRateDivisor
	}

	if p.extrema.Valid() {
		p.surface.SetAxisY(p.extrema.Min, p.extrema.Max)
	}
	p.surface.UpdateSeries(Downsample(xs, p.cfg.DownsampleStride), Downsample(window, p.cfg.DownsampleStride))
	return nil
}

// CurrentWindow re-delivers the window at the cursor.
func (p *Pager) CurrentWindow() error {
	return p.LoadWindow(p.cursor, p.cursor+int64(p.cfg.WindowSize))
}

// NextWindow advances the cursor by one window size. It only moves when
// the resulting window still starts below the file row count, which is
// refreshed on every read.
func (p *Pager) NextWindow() error {
	next := p.cursor + int64(p.cfg.WindowSize)
	if next >= p.rows() {
		return nil
	}
	return p.LoadWindow(next, next+int64(p.cfg.WindowSize))
}

// PreviousWindow steps the cursor back by one window size, clamping at the
// start of the file.
func (p *Pager) PreviousWindow() error {
	prev := p.cursor - int64(p.cfg.WindowSize)
	if prev < 0 {
		prev = 0
	}
	return p.LoadWindow(prev, prev+int64(p.cfg.WindowSize))
}

// HasPreviousWindow reports whether the cursor can step backwards.
func (p *Pager) HasPreviousWindow() bool { return p.cursor > 0 }

// HasNextWindow reports whether a further window would still contain rows.
func (p *Pager) HasNextWindow() bool {
	return p.cursor < p.rows()-int64(p.cfg.WindowSize)
}

// Cursor returns the absolute sample offset of the last loaded window.
func (p *Pager) Cursor() int64 { return p.cursor }

func (p *Pager) rows() int64 {
	if p.store == nil {
		return 0
	}
	return p.store.Rows()
}

func (p *Pager) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}
