package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestTickerRunsImmediatelyAndRepeats(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	fired := make(chan struct{}, 8)
	tk := NewTicker(10 * time.Millisecond)

	if err := tk.Start(context.Background(), func(time.Time) {
		runs.Add(1)
		select {
		case fired <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("job did not fire (run %d)", i)
		}
	}

	if err := tk.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if runs.Load() < 2 {
		t.Fatalf("expected at least two runs, got %d", runs.Load())
	}
}

func TestTickerStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	tk := NewTicker(time.Hour)
	started := make(chan struct{}, 1)
	if err := tk.Start(ctx, func(time.Time) { started <- struct{}{} }); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-started
	cancel()

	if err := tk.Stop(context.Background()); err != nil {
		t.Fatalf("stop after cancel: %v", err)
	}
}

func TestTickerNilJobAndIdleStop(t *testing.T) {
	tk := NewTicker(0)
	if tk.interval != time.Hour {
		t.Fatalf("unexpected default interval %v", tk.interval)
	}
	if err := tk.Start(context.Background(), nil); err != nil {
		t.Fatalf("start nil job: %v", err)
	}
	if err := tk.Stop(context.Background()); err != nil {
		t.Fatalf("stop idle ticker: %v", err)
	}
}
