package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs jobs on a bounded number of workers. The summarization stage
// uses size 1 to keep backend calls strictly sequential; the bound exists
// so the rate-limiting policy is explicit and testable rather than baked
// into straight-line code.
type Pool struct {
	workers   int
	jobQueue  chan Job
	results   chan Result
	collected []Result
	collectWg sync.WaitGroup
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a worker pool with the given bound (minimum 1)
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	poolCtx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, workers*2),
		results:  make(chan Result, workers*2),
		ctx:      poolCtx,
		cancel:   cancel,
	}
}

// Start launches the workers and the result collector. The collector
// drains results as they arrive so workers never block on a full channel
// while the caller is still submitting jobs.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	p.collectWg.Add(1)
	go func() {
		defer p.collectWg.Done()
		for result := range p.results {
			p.collected = append(p.collected, result)
		}
	}()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job for execution
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for all jobs to finish, and returns the
// collected results
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	p.collectWg.Wait()
	return p.collected
}

// Shutdown stops the pool immediately
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
	p.collectWg.Wait()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
