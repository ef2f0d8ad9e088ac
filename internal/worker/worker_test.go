package worker

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWorkerDeliversResult(t *testing.T) {
	w := New()
	w.Start(func(tok *Token, progress func(int)) (any, error) {
		progress(50)
		return 42, nil
	})

	select {
	case out := <-w.Done():
		if out.Err != nil {
			t.Fatalf("unexpected error: %v", out.Err)
		}
		if out.Value != 42 {
			t.Fatalf("expected 42, got %v", out.Value)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for outcome")
	}
}

func TestWorkerDeliversError(t *testing.T) {
	boom := errors.New("boom")
	w := New()
	w.Start(func(tok *Token, progress func(int)) (any, error) {
		return nil, boom
	})

	out := <-w.Done()
	if !errors.Is(out.Err, boom) {
		t.Fatalf("expected boom, got %v", out.Err)
	}
}

func TestWorkerRecoversPanic(t *testing.T) {
	w := New()
	w.Start(func(tok *Token, progress func(int)) (any, error) {
		panic("kaboom")
	})

	out := <-w.Done()
	if out.Err == nil || !strings.Contains(out.Err.Error(), "kaboom") {
		t.Fatalf("expected recovered panic in error, got %v", out.Err)
	}
}

func TestWorkerCancellationToken(t *testing.T) {
	w := New()
	started := make(chan struct{})
	w.Start(func(tok *Token, progress func(int)) (any, error) {
		close(started)
		for !tok.Cancelled() {
			time.Sleep(time.Millisecond)
		}
		return "cancelled", nil
	})

	<-started
	w.Cancel()

	select {
	case out := <-w.Done():
		if out.Value != "cancelled" {
			t.Fatalf("expected task to observe cancellation, got %v", out.Value)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("task did not observe cancellation")
	}
}

func TestWorkerProgressKeepsLatest(t *testing.T) {
	w := New()
	w.Start(func(tok *Token, progress func(int)) (any, error) {
		// Nobody drains while these are reported; only the newest value
		// must survive.
		for p := 0; p <= 100; p += 10 {
			progress(p)
		}
		return nil, nil
	})

	<-w.Done()

	select {
	case p := <-w.Progress():
		if p != 100 {
			t.Fatalf("expected latest progress 100, got %d", p)
		}
	default:
		t.Fatal("expected a pending progress value")
	}
}
