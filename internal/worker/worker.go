// Package worker runs long-lived producer tasks on background goroutines
// and forwards their progress and final outcome to the caller.
package worker

import (
	"fmt"
	"sync/atomic"
)

// Token is a cooperative cancellation flag. Tasks poll it at their own
// checkpoints; nothing is interrupted preemptively.
type Token struct {
	cancelled atomic.Bool
}

// Cancel trips the flag. It is idempotent and one-way.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}

// Outcome is the terminal result of a task: a value on success or an
// error on failure. A recovered panic is reported as an error.
type Outcome struct {
	Value any
	Err   error
}

// Task is the unit of background work. It receives the worker's
// cancellation token and a progress callback accepting 0-100 percentages.
type Task func(tok *Token, progress func(int)) (any, error)

// Worker runs exactly one task. Progress updates are delivered on a lossy
// capacity-1 channel (only the most recent percentage is kept; progress is
// not required to be dense), and the outcome on a buffered channel so the
// task goroutine never blocks on an absent listener.
type Worker struct {
	token    Token
	progress chan int
	done     chan Outcome
}

// New returns a worker ready to start a task.
func New() *Worker {
	return &Worker{
		progress: make(chan int, 1),
		done:     make(chan Outcome, 1),
	}
}

// Start launches the task on its own goroutine. It must be called at most
// once per worker.
func (w *Worker) Start(task Task) {
	go func() {
		var out Outcome
		func() {
			defer func() {
				if r := recover(); r != nil {
					out = Outcome{Err: fmt.Errorf("task panic: %v", r)}
				}
			}()
			value, err := task(&w.token, w.report)
			out = Outcome{Value: value, Err: err}
		}()
		w.done <- out
	}()
}

// Progress returns the channel carrying the most recent percentage.
func (w *Worker) Progress() <-chan int {
	return w.progress
}

// Done returns the channel carrying the task's single outcome.
func (w *Worker) Done() <-chan Outcome {
	return w.done
}

// Cancel trips the worker's cancellation token.
func (w *Worker) Cancel() {
	w.token.Cancel()
}

// report replaces any undrained progress value with the newest one so the
// producer never blocks on a slow progress consumer.
func (w *Worker) report(percent int) {
	for {
		select {
		case w.progress <- percent:
			return
		default:
			select {
			case <-w.progress:
			default:
			}
		}
	}
}
