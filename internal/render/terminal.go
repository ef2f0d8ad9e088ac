package render

import (
	"fmt"
	"io"

	"sigview/internal/signalfile"
)

// Terminal draws delivered windows as ASCII charts. It stands in for the
// chart widget of the desktop build: SetAxisY pins the y-range of all
// following charts, UpdateSeries draws one window. Missing markers are
// left as gaps rather than plotted.
type Terminal struct {
	w      io.Writer
	width  int
	height int

	axisMin  float64
	axisMax  float64
	haveAxis bool
	windows  int
}

// NewTerminal returns a terminal surface writing charts of the given grid
// size to w.
func NewTerminal(w io.Writer, width, height int) *Terminal {
	if width < 10 {
		width = 10
	}
	if height < 4 {
		height = 4
	}
	return &Terminal{w: w, width: width, height: height}
}

func (t *Terminal) SetAxisY(min, max float64) {
	t.axisMin, t.axisMax = min, max
	t.haveAxis = true
}

func (t *Terminal) UpdateSeries(xs, ys []float64) {
	t.windows++

	realPoints, lo, hi := seriesStats(ys)
	fmt.Fprintf(t.w, "window %d: %d points (%d real)", t.windows, len(ys), realPoints)
	if len(xs) > 0 {
		fmt.Fprintf(t.w, " | x %.3f .. %.3f", xs[0], xs[len(xs)-1])
	}
	fmt.Fprintln(t.w)

	if realPoints == 0 {
		fmt.Fprintln(t.w, "(no data in this window)")
		return
	}

	// Prefer the pinned y-range so consecutive windows stay comparable.
	minY, maxY := lo, hi
	if t.haveAxis {
		minY, maxY = t.axisMin, t.axisMax
	}
	if maxY == minY {
		maxY = minY + 1e-6
	}

	grid := make([][]rune, t.height)
	for i := range grid {
		grid[i] = make([]rune, t.width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for i, y := range ys {
		if signalfile.IsMissing(y) {
			continue
		}

		x := 0
		if len(ys) > 1 {
			x = i * (t.width - 1) / (len(ys) - 1)
		}

		normalized := (y - minY) / (maxY - minY)
		row := int(float64(t.height-1) * (1.0 - normalized))
		if row < 0 {
			row = 0
		}
		if row >= t.height {
			row = t.height - 1
		}

		if grid[row][x] == ' ' {
			grid[row][x] = '*'
		} else {
			grid[row][x] = '#'
		}
	}

	for i, row := range grid {
		normalized := float64(t.height-1-i) / float64(t.height-1)
		label := minY + normalized*(maxY-minY)
		fmt.Fprintf(t.w, "%10.2f |%s|\n", label, string(row))
	}
	fmt.Fprintln(t.w)
}

// seriesStats counts real points and finds their value range, skipping
// missing markers.
func seriesStats(ys []float64) (count int, min, max float64) {
	for _, y := range ys {
		if signalfile.IsMissing(y) {
			continue
		}
		if count == 0 || y < min {
			min = y
		}
		if count == 0 || y > max {
			max = y
		}
		count++
	}
	return count, min, max
}
