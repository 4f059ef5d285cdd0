package queue

import (
	"context"
	"log"
	"sync"
)

type Worker struct {
	ID      int        // worker id
	JobChan <-chan Job // iş kuyruğu
	Wg      *sync.WaitGroup
	Runner  Runner
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer w.Wg.Done()
		for {
			select {
			case job, ok := <-w.JobChan:
				if !ok {
					log.Printf("Worker %d: Job channel closed", w.ID)
					return
				}
				select {
				case <-ctx.Done():
					log.Printf("Worker %d: job %d cancelled", w.ID, job.UploadFileID)
					continue
				default:
					log.Printf("Worker %d: Processing upload %d (analyst %d)", w.ID, job.UploadFileID, job.AnalystCode)
					w.Runner.ProcessUpload(job.UploadFileID, job.AnalystCode)
				}
			case <-ctx.Done():
				log.Printf("Worker %d: Stopping due to context cancellation", w.ID)
				return
			}
		}
	}()
}
