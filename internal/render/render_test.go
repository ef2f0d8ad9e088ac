package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"sigview/internal/signalfile"
)

type recordingTarget struct {
	axis   [][2]float64
	series [][]float64
}

func (r *recordingTarget) SetAxisY(min, max float64) {
	r.axis = append(r.axis, [2]float64{min, max})
}

func (r *recordingTarget) UpdateSeries(xs, ys []float64) {
	r.series = append(r.series, append([]float64(nil), ys...))
}

func TestQueueBlockingHandoff(t *testing.T) {
	target := &recordingTarget{}
	q := NewQueue(target)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	// Each producer call must only return once the consumer has fully
	// processed the delivery.
	q.SetAxisY(-1, 1)
	if len(target.axis) != 1 {
		t.Fatalf("SetAxisY returned before the consumer processed it")
	}

	for i := 0; i < 5; i++ {
		q.UpdateSeries([]float64{0, 1}, []float64{float64(i), float64(i)})
		if len(target.series) != i+1 {
			t.Fatalf("UpdateSeries %d returned before the consumer processed it", i)
		}
	}

	// Deliveries arrive strictly in producer order.
	for i, ys := range target.series {
		if ys[0] != float64(i) {
			t.Fatalf("delivery %d out of order: %v", i, ys)
		}
	}
}

func TestQueueProducerNotStuckAfterConsumerExit(t *testing.T) {
	q := NewQueue(&recordingTarget{})

	ctx, cancel := context.WithCancel(context.Background())
	go q.Run(ctx)
	cancel()

	returned := make(chan struct{})
	go func() {
		q.UpdateSeries([]float64{0}, []float64{0})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("producer deadlocked after consumer exit")
	}
}

func TestTerminalDrawsWindow(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 20, 5)

	term.SetAxisY(0, 3)
	term.UpdateSeries([]float64{0, 1, 2, 3}, []float64{0, 1, 2, 3})

	out := buf.String()
	if !strings.Contains(out, "window 1: 4 points (4 real)") {
		t.Fatalf("missing window summary in output:\n%s", out)
	}
	if !strings.Contains(out, "*") {
		t.Fatalf("expected plotted points in output:\n%s", out)
	}
}

func TestTerminalSkipsMissingPoints(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 20, 5)

	term.UpdateSeries([]float64{0, 1, 2}, []float64{1, signalfile.Missing(), 2})
	if !strings.Contains(buf.String(), "3 points (2 real)") {
		t.Fatalf("missing markers must be excluded from the real count:\n%s", buf.String())
	}
}

func TestTerminalAllMissingWindow(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 20, 5)

	term.UpdateSeries([]float64{0, 1}, []float64{signalfile.Missing(), signalfile.Missing()})
	if !strings.Contains(buf.String(), "no data in this window") {
		t.Fatalf("expected the empty-window notice:\n%s", buf.String())
	}
}
