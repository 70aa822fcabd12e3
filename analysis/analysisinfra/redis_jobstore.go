package analysisinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/pkg/kernel"
)

// DefaultJobTTL keeps finished jobs around long enough to be polled,
// then lets them expire. Nothing is persisted beyond it.
const DefaultJobTTL = 24 * time.Hour

// RedisJobStore keeps AnalysisJob records as JSON values under a TTL.
type RedisJobStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisJobStore(client *redis.Client, ttl time.Duration) analysis.JobStore {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &RedisJobStore{
		client: client,
		ttl:    ttl,
	}
}

func jobKey(id kernel.JobID) string {
	return "analysis:job:" + id.String()
}

// Save writes a new job record.
func (s *RedisJobStore) Save(ctx context.Context, job *analysis.AnalysisJob) error {
	return s.write(ctx, job)
}

// Get loads a job record. Expired and never-existing ids are the same
// not-found error.
func (s *RedisJobStore) Get(ctx context.Context, id kernel.JobID) (*analysis.AnalysisJob, error) {
	raw, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, analysis.ErrJobNotFound(id.String())
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}

	var job analysis.AnalysisJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

// Update rewrites the record and refreshes its TTL so a job in flight
// never expires under the worker.
func (s *RedisJobStore) Update(ctx context.Context, job *analysis.AnalysisJob) error {
	if err := s.write(ctx, job); err != nil {
		return analysis.ErrJobUpdateFailed(err)
	}
	return nil
}

func (s *RedisJobStore) write(ctx context.Context, job *analysis.AnalysisJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	if err := s.client.Set(ctx, jobKey(job.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store job %s: %w", job.ID, err)
	}
	return nil
}
