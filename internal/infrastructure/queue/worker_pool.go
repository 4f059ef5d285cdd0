package queue

import (
	"context"
	"sync"
)

type WorkerPool struct {
	JobChan chan Job
	wg      sync.WaitGroup
	ctx     context.Context    //graceful shutdown için
	cancel  context.CancelFunc //graceful shutdown için
}

func NewWorkerPool(workerCount int, runner Runner) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		JobChan: make(chan Job, 100),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workerCount; i++ {
		worker := &Worker{
			ID:      i,
			JobChan: pool.JobChan,
			Wg:      &pool.wg,
			Runner:  runner,
		}
		pool.wg.Add(1)
		worker.Start(pool.ctx)
	}
	return pool
}

func (p *WorkerPool) AddJob(job Job) {
	p.JobChan <- job
}

func (p *WorkerPool) Shutdown() {
	p.cancel()
	close(p.JobChan)
	p.wg.Wait()
}
