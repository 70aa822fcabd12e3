package analysis

import (
	"context"
	"time"

	"github.com/resumatch/resumatch/pkg/kernel"
)

// EntityRecognizer finds raw skill, experience-level and education
// mentions in plain text. Implementations must be deterministic for
// identical input.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]EntityMention, error)
}

// Embedder produces vector embeddings for free text. Used for
// out-of-vocabulary keys and role classification queries.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// JobQueue hands analysis jobs to the worker pool.
type JobQueue interface {
	Enqueue(ctx context.Context, id kernel.JobID) error
	// Dequeue blocks up to timeout; returns empty id when nothing
	// arrived.
	Dequeue(ctx context.Context, timeout time.Duration) (kernel.JobID, error)
	// EnqueueDelayed parks the id until at; a mover promotes due ids
	// back onto the main queue.
	EnqueueDelayed(ctx context.Context, id kernel.JobID, at time.Time) error
	MoveDueJobs(ctx context.Context, now time.Time) (int, error)
}

// JobStore keeps job records under a TTL. No history survives the TTL.
type JobStore interface {
	Save(ctx context.Context, job *AnalysisJob) error
	Get(ctx context.Context, id kernel.JobID) (*AnalysisJob, error)
	Update(ctx context.Context, job *AnalysisJob) error
}
