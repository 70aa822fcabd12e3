package analysisinfra

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/pkg/kernel"
)

// RedisQueue implements the JobQueue port on a Redis list plus a
// sorted set for delayed jobs. Queue members are bare job ids; the job
// record itself lives in the job store.
type RedisQueue struct {
	client    *redis.Client
	queueName string
}

func NewRedisQueue(client *redis.Client, queueName string) analysis.JobQueue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
	}
}

// Enqueue pushes the job id onto the ready queue.
func (q *RedisQueue) Enqueue(ctx context.Context, id kernel.JobID) error {
	if err := q.client.LPush(ctx, q.queueName, id.String()).Err(); err != nil {
		return fmt.Errorf("enqueue job %s: %w", id, err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next job id. An empty id with
// nil error means the wait timed out.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (kernel.JobID, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("dequeue job: %w", err)
	}
	if len(result) < 2 {
		return "", fmt.Errorf("invalid BRPOP result: expected 2 elements, got %d", len(result))
	}
	return kernel.NewJobID(result[1]), nil
}

// EnqueueDelayed parks the id in the delayed set scored by its due
// time.
func (q *RedisQueue) EnqueueDelayed(ctx context.Context, id kernel.JobID, at time.Time) error {
	if err := q.client.ZAdd(ctx, q.delayedName(), &redis.Z{
		Score:  float64(at.Unix()),
		Member: id.String(),
	}).Err(); err != nil {
		return fmt.Errorf("enqueue delayed job %s: %w", id, err)
	}
	return nil
}

// MoveDueJobs promotes delayed ids whose due time has passed back onto
// the ready queue.
func (q *RedisQueue) MoveDueJobs(ctx context.Context, now time.Time) (int, error) {
	due, err := q.client.ZRangeByScore(ctx, q.delayedName(), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("get due jobs: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	pipe := q.client.Pipeline()
	for _, id := range due {
		pipe.LPush(ctx, q.queueName, id)
		pipe.ZRem(ctx, q.delayedName(), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("move due jobs: %w", err)
	}
	return len(due), nil
}

func (q *RedisQueue) delayedName() string {
	return q.queueName + ":delayed"
}
