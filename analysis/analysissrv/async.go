package analysissrv

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/pkg/errx"
	"github.com/resumatch/resumatch/pkg/fsx"
	"github.com/resumatch/resumatch/pkg/kernel"
	"github.com/resumatch/resumatch/pkg/logx"
)

const (
	// maxAttempts before a job fails for good.
	maxAttempts = 3
	// retryDelay before a failed attempt is retried.
	retryDelay = 30 * time.Second
)

// AsyncService runs comparisons through the job queue. Uploaded
// documents are parked in file storage until the job reaches a
// terminal state, so a retried attempt can re-read them, then deleted.
type AsyncService struct {
	svc   *Service
	store analysis.JobStore
	queue analysis.JobQueue
	fs    fsx.FileSystem
}

func NewAsyncService(svc *Service, store analysis.JobStore, queue analysis.JobQueue, fs fsx.FileSystem) *AsyncService {
	return &AsyncService{
		svc:   svc,
		store: store,
		queue: queue,
		fs:    fs,
	}
}

// Submit stores both documents, creates a pending job and enqueues it.
func (a *AsyncService) Submit(ctx context.Context, resumeData []byte, resumeFormat kernel.DocumentFormat, jdData []byte, jdFormat kernel.DocumentFormat) (*analysis.SubmitJobResponse, error) {
	if len(resumeData) == 0 {
		return nil, analysis.ErrMissingInput("resume_file")
	}
	if len(jdData) == 0 {
		return nil, analysis.ErrMissingInput("jd_file")
	}
	if !resumeFormat.IsSupported() {
		return nil, analysis.ErrUnsupportedFormat(string(resumeFormat))
	}
	if !jdFormat.IsSupported() {
		return nil, analysis.ErrUnsupportedFormat(string(jdFormat))
	}

	job := analysis.NewAnalysisJob(
		analysis.StoredDocument{Format: resumeFormat},
		analysis.StoredDocument{Format: jdFormat},
	)
	job.Resume.Path = a.fs.Join("uploads", job.ID.String(), "resume."+string(resumeFormat))
	job.JobDesc.Path = a.fs.Join("uploads", job.ID.String(), "jd."+string(jdFormat))

	if err := a.fs.WriteFile(ctx, job.Resume.Path, resumeData); err != nil {
		return nil, analysis.ErrStorageFailed(err)
	}
	if err := a.fs.WriteFile(ctx, job.JobDesc.Path, jdData); err != nil {
		a.deleteQuietly(ctx, job.Resume.Path)
		return nil, analysis.ErrStorageFailed(err)
	}

	if err := a.store.Save(ctx, job); err != nil {
		a.deleteUploads(ctx, job)
		return nil, err
	}
	if err := a.queue.Enqueue(ctx, job.ID); err != nil {
		a.deleteUploads(ctx, job)
		return nil, analysis.ErrJobEnqueueFailed(err)
	}

	logx.Infof("Analysis job %s queued", job.ID)
	return &analysis.SubmitJobResponse{
		JobID:  job.ID.String(),
		Status: job.Status,
	}, nil
}

// Status returns the stored state of a job.
func (a *AsyncService) Status(ctx context.Context, id kernel.JobID) (*analysis.JobStatusResponse, error) {
	job, err := a.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return job.ToStatusResponse(), nil
}

// Process runs one attempt of a queued job. Transient failures are
// retried through the delayed queue until maxAttempts is reached.
func (a *AsyncService) Process(ctx context.Context, id kernel.JobID) error {
	job, err := a.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.IsTerminal() {
		logx.Debugf("Job %s already %s, skipping", job.ID, job.Status)
		return nil
	}

	if err := job.MarkProcessing(); err != nil {
		return err
	}
	if err := a.store.Update(ctx, job); err != nil {
		return err
	}

	result, runErr := a.run(ctx, job)
	if runErr != nil {
		return a.handleFailure(ctx, job, runErr)
	}

	if err := job.MarkCompleted(result); err != nil {
		return err
	}
	if err := a.store.Update(ctx, job); err != nil {
		return err
	}
	a.deleteUploads(ctx, job)
	logx.Infof("Analysis job %s completed (score=%.2f)", job.ID, result.FitScore)
	return nil
}

// run executes the pipeline for one job. The uploaded files stay in
// storage so a later attempt can re-read them.
func (a *AsyncService) run(ctx context.Context, job *analysis.AnalysisJob) (*analysis.CompareResponse, error) {
	resumeData, err := a.fs.ReadFile(ctx, job.Resume.Path)
	if err != nil {
		return nil, analysis.ErrStorageFailed(err)
	}
	jdData, err := a.fs.ReadFile(ctx, job.JobDesc.Path)
	if err != nil {
		return nil, analysis.ErrStorageFailed(err)
	}

	resumeDoc, err := a.svc.ExtractDocument(resumeData, job.Resume.Format)
	if err != nil {
		return nil, err
	}
	jdDoc, err := a.svc.ExtractDocument(jdData, job.JobDesc.Format)
	if err != nil {
		return nil, err
	}

	return a.svc.CompareDocuments(ctx, resumeDoc, jdDoc)
}

func (a *AsyncService) handleFailure(ctx context.Context, job *analysis.AnalysisJob, cause error) error {
	if retryable(cause) && job.Attempts < maxAttempts {
		logx.Warnf("Job %s attempt %d failed, retrying in %s: %v", job.ID, job.Attempts, retryDelay, cause)
		if err := a.store.Update(ctx, job); err != nil {
			return err
		}
		if err := a.queue.EnqueueDelayed(ctx, job.ID, time.Now().Add(retryDelay)); err != nil {
			return analysis.ErrJobEnqueueFailed(err)
		}
		return cause
	}

	logx.Errorf("Job %s failed after %d attempts: %v", job.ID, job.Attempts, cause)
	a.deleteUploads(ctx, job)
	if err := job.MarkFailed(cause.Error()); err != nil {
		return err
	}
	if err := a.store.Update(ctx, job); err != nil {
		return err
	}
	return cause
}

// retryable reports whether a failure is worth another attempt. Input
// problems (unsupported format, undecodable document) fail the same
// way every time; only infrastructure failures are transient.
func retryable(err error) bool {
	var e *errx.Error
	if errors.As(err, &e) {
		return e.HTTPStatus >= http.StatusInternalServerError
	}
	return true
}

func (a *AsyncService) deleteUploads(ctx context.Context, job *analysis.AnalysisJob) {
	a.deleteQuietly(ctx, job.Resume.Path)
	a.deleteQuietly(ctx, job.JobDesc.Path)
}

func (a *AsyncService) deleteQuietly(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := a.fs.DeleteFile(ctx, path); err != nil {
		logx.Warnf("Failed to delete upload %s: %v", path, err)
	}
}
