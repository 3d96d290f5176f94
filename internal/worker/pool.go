// Package worker is the bounded background pool the scoring pipeline runs on.
// It exists so the request that creates a postulation returns without waiting
// for network downloads, OCR or model calls.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Pool struct {
	tasks chan func(ctx context.Context)
	size  int
	log   *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	once   sync.Once
}

func NewPool(size, queueSize int, log *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Pool{
		tasks: make(chan func(ctx context.Context), queueSize),
		size:  size,
		log:   log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.log.Info("starting worker pool", zap.Int("concurrency", p.size))
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i+1)
	}
}

// Submit queues a task and returns immediately. A full queue rejects the task
// with false; deciding what a lost task means belongs to the caller.
func (p *Pool) Submit(task func(ctx context.Context)) bool {
	select {
	case p.tasks <- task:
		return true
	default:
		p.log.Warn("task queue full; rejecting task", zap.Int("capacity", cap(p.tasks)))
		return false
	}
}

// Stop closes the queue, lets queued tasks drain and waits for workers to
// finish.
func (p *Pool) Stop() {
	p.once.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.safeRun(ctx, id, task)
		case <-ctx.Done():
			return
		}
	}
}

// safeRun keeps a panicking task from killing the worker goroutine; a lost
// worker would silently shrink the pool.
func (p *Pool) safeRun(ctx context.Context, id int, task func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker task panic", zap.Int("worker_id", id), zap.Any("panic", r))
		}
	}()
	task(ctx)
}
