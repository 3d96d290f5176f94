package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := NewPool(4, 32, zap.NewNop())
	p.Start(context.Background())

	var ran atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		if !p.Submit(func(ctx context.Context) {
			defer wg.Done()
			ran.Add(1)
		}) {
			t.Fatal("queue should have room for every task")
		}
	}
	wg.Wait()
	p.Stop()

	if got := ran.Load(); got != 20 {
		t.Errorf("ran %d tasks, want 20", got)
	}
}

func TestSubmitRejectsWhenQueueFull(t *testing.T) {
	// No workers started: the queue fills and stays full.
	p := NewPool(1, 1, zap.NewNop())

	if !p.Submit(func(ctx context.Context) {}) {
		t.Fatal("first task should be accepted")
	}

	done := make(chan bool, 1)
	go func() {
		done <- p.Submit(func(ctx context.Context) {})
	}()
	select {
	case accepted := <-done:
		if accepted {
			t.Error("full queue must reject, not accept")
		}
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
}

func TestPoolStopDrainsQueue(t *testing.T) {
	p := NewPool(1, 16, zap.NewNop())
	p.Start(context.Background())

	var ran atomic.Int64
	for i := 0; i < 5; i++ {
		p.Submit(func(ctx context.Context) {
			time.Sleep(5 * time.Millisecond)
			ran.Add(1)
		})
	}
	p.Stop()

	if got := ran.Load(); got != 5 {
		t.Errorf("ran %d queued tasks after Stop, want 5", got)
	}
}

func TestPoolSurvivesPanickingTask(t *testing.T) {
	p := NewPool(1, 4, zap.NewNop())
	p.Start(context.Background())

	done := make(chan struct{})
	p.Submit(func(ctx context.Context) {
		panic("task gone wrong")
	})
	p.Submit(func(ctx context.Context) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after a panicking task")
	}
	p.Stop()
}

func TestPoolStopIsIdempotent(t *testing.T) {
	p := NewPool(2, 4, zap.NewNop())
	p.Start(context.Background())
	p.Stop()
	p.Stop()
}
