package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/resumatch/resumatch/pkg/kernel"
)

// JobStatus is the lifecycle state of an asynchronous analysis job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// StoredDocument references an uploaded document parked in file
// storage until the worker picks the job up. Deleted right after text
// extraction.
type StoredDocument struct {
	Path   string                `json:"path"`
	Format kernel.DocumentFormat `json:"format"`
}

// AnalysisJob is one queued comparison. Results are transient: the
// record lives in the job store under a TTL and is never persisted
// beyond it.
type AnalysisJob struct {
	ID        kernel.JobID     `json:"id"`
	Status    JobStatus        `json:"status"`
	Resume    StoredDocument   `json:"resume"`
	JobDesc   StoredDocument   `json:"job_description"`
	Result    *CompareResponse `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	Attempts  int              `json:"attempts"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewAnalysisJob creates a pending job for the two stored documents.
func NewAnalysisJob(resume, jobDesc StoredDocument) *AnalysisJob {
	now := time.Now().UTC()
	return &AnalysisJob{
		ID:        kernel.NewJobID(uuid.New().String()),
		Status:    JobStatusPending,
		Resume:    resume,
		JobDesc:   jobDesc,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkProcessing moves pending -> processing and counts the attempt.
func (j *AnalysisJob) MarkProcessing() error {
	if j.Status != JobStatusPending && j.Status != JobStatusProcessing {
		return ErrInvalidTransition(string(j.Status), string(JobStatusProcessing))
	}
	j.Status = JobStatusProcessing
	j.Attempts++
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkCompleted attaches the result and moves processing -> completed.
func (j *AnalysisJob) MarkCompleted(result *CompareResponse) error {
	if j.Status != JobStatusProcessing {
		return ErrInvalidTransition(string(j.Status), string(JobStatusCompleted))
	}
	j.Status = JobStatusCompleted
	j.Result = result
	j.Error = ""
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed records the failure reason. Terminal.
func (j *AnalysisJob) MarkFailed(reason string) error {
	if j.Status == JobStatusCompleted {
		return ErrInvalidTransition(string(j.Status), string(JobStatusFailed))
	}
	j.Status = JobStatusFailed
	j.Error = reason
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// IsTerminal reports whether the job will not change state again.
func (j *AnalysisJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
