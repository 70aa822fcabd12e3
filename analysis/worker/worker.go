package worker

import (
	"context"
	"time"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/analysis/analysissrv"
	"github.com/resumatch/resumatch/pkg/logx"
)

const (
	dequeueTimeout    = 5 * time.Second
	delayedTickPeriod = 10 * time.Second
)

// AnalysisWorker drains the job queue with a fixed pool of goroutines
// plus one mover that promotes due delayed jobs.
type AnalysisWorker struct {
	service *analysissrv.AsyncService
	queue   analysis.JobQueue
	workers int
}

func NewAnalysisWorker(service *analysissrv.AsyncService, queue analysis.JobQueue, workers int) *AnalysisWorker {
	if workers <= 0 {
		workers = 1
	}
	return &AnalysisWorker{
		service: service,
		queue:   queue,
		workers: workers,
	}
}

// Start launches the pool. Returns immediately; the goroutines stop
// when ctx is cancelled.
func (w *AnalysisWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d analysis workers", w.workers)

	go w.moveDelayedJobs(ctx)

	for i := 0; i < w.workers; i++ {
		go w.processJobs(ctx, i)
	}
}

func (w *AnalysisWorker) processJobs(ctx context.Context, workerID int) {
	logx.Infof("Worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Worker %d stopping", workerID)
			return
		default:
			id, err := w.queue.Dequeue(ctx, dequeueTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logx.Errorf("Worker %d dequeue error: %v", workerID, err)
				continue
			}
			if id.IsEmpty() {
				// Timed out, nothing queued.
				continue
			}

			logx.Infof("Worker %d processing job %s", workerID, id)
			if err := w.service.Process(ctx, id); err != nil {
				logx.Errorf("Worker %d job %s failed: %v", workerID, id, err)
			}
		}
	}
}

func (w *AnalysisWorker) moveDelayedJobs(ctx context.Context) {
	ticker := time.NewTicker(delayedTickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDueJobs(ctx, time.Now())
			if err != nil {
				logx.Errorf("Failed to move delayed jobs: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed jobs to ready queue", count)
			}
		}
	}
}
