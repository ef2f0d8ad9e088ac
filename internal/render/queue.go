// Package render provides rendering surfaces for window deliveries: a
// terminal chart and a blocking cross-goroutine delivery queue.
package render

import (
	"context"

	"sigview/internal/analyzer"
)

type opKind int

const (
	opAxis opKind = iota
	opSeries
)

type delivery struct {
	kind     opKind
	min, max float64
	xs, ys   []float64
	ack      chan struct{}
}

// Queue forwards surface calls to a consumer goroutine over an unbuffered
// channel and waits for an acknowledgment before returning. The producer
// can therefore never be more than one delivery ahead of the renderer;
// ingestion speed is throttled to rendering speed by construction.
type Queue struct {
	target analyzer.Surface
	calls  chan delivery
	done   chan struct{}
}

// NewQueue wraps the target surface. The returned Queue is the
// producer-side surface; Run must be started on the consumer goroutine.
func NewQueue(target analyzer.Surface) *Queue {
	return &Queue{
		target: target,
		calls:  make(chan delivery),
		done:   make(chan struct{}),
	}
}

// SetAxisY blocks until the consumer has applied the range.
func (q *Queue) SetAxisY(min, max float64) {
	q.send(delivery{kind: opAxis, min: min, max: max})
}

// UpdateSeries blocks until the consumer has rendered the series.
func (q *Queue) UpdateSeries(xs, ys []float64) {
	q.send(delivery{kind: opSeries, xs: xs, ys: ys})
}

func (q *Queue) send(d delivery) {
	d.ack = make(chan struct{})
	select {
	case q.calls <- d:
		<-d.ack
	case <-q.done:
		// Consumer is gone; drop the delivery instead of blocking the
		// producer forever.
	}
}

// Run consumes deliveries on the calling goroutine until ctx is
// cancelled. It must be called exactly once.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.done)
	for {
		select {
		case d := <-q.calls:
			switch d.kind {
			case opAxis:
				q.target.SetAxisY(d.min, d.max)
			case opSeries:
				q.target.UpdateSeries(d.xs, d.ys)
			}
			close(d.ack)
		case <-ctx.Done():
			return
		}
	}
}
