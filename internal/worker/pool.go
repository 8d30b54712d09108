// Package worker provides the concurrency primitives shared by the
// scraper and the dataset builder: a bounded job pool and a per-domain
// rate limiter.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work. Jobs must be safe to run concurrently with each
// other; the pool gives no ordering guarantees.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a job hands back.
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of workers. Documents and downloads
// are independent, so this is the only coordination the batch paths need.
//
// Workers append results to a collector rather than a channel, so a
// worker never blocks after finishing a job and callers may submit any
// number of jobs before calling Wait. The jobs channel stays bounded
// for backpressure: Submit stalls only while every worker is busy.
type Pool struct {
	workers   int
	jobs      chan Job
	collector *ResultCollector
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given number of workers (minimum 1).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:   workers,
		jobs:      make(chan Job, workers*2),
		collector: NewResultCollector(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.collector.Add(job.Execute(p.ctx))
		}
	}
}

// Submit queues a job. Submitting after shutdown is a no-op.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for all submitted jobs to finish, and
// returns their results. Result order is completion order, not submit
// order; callers that need input order carry an index in the result.
func (p *Pool) Wait() []Result {
	p.closeJobs()
	p.wg.Wait()
	return p.collector.Results()
}

// Shutdown cancels in-flight work. No partial-document state needs
// rollback since each job's result is produced atomically or not at all.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) closeJobs() {
	p.closeOnce.Do(func() { close(p.jobs) })
}

// ResultCollector accumulates results as workers produce them.
type ResultCollector struct {
	mu      sync.Mutex
	results []Result
}

// NewResultCollector creates an empty collector.
func NewResultCollector() *ResultCollector {
	return &ResultCollector{}
}

// Add appends a result. Safe for concurrent use.
func (c *ResultCollector) Add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns everything collected so far.
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
