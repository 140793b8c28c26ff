package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aplusgen/aplus/internal/pipeline/domain"
)

const (
	jobKeyPrefix     = "pipe:job:"  // Job record: pipe:job:{job_id}
	userJobSetPrefix = "pipe:user:" // Set of job IDs per user: pipe:user:{user_id}
	queueKey         = "pipe:queue" // FIFO of pending job IDs
	jobTTL           = 7 * 24 * time.Hour
)

// JobRepository handles Redis operations for pipeline jobs.
type JobRepository struct {
	client *redis.Client
}

func NewJobRepository(client *redis.Client) *JobRepository {
	return &JobRepository{client: client}
}

func (r *JobRepository) jobKey(jobID string) string       { return jobKeyPrefix + jobID }
func (r *JobRepository) userJobsKey(userID string) string { return userJobSetPrefix + userID }

// Enqueue records a pending job and pushes it onto the worker queue.
func (r *JobRepository) Enqueue(ctx context.Context, job *domain.Job) error {
	if job.JobID == "" {
		job.JobID = uuid.New().String()
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = domain.StatusPending
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.jobKey(job.JobID), data, jobTTL)
	pipe.SAdd(ctx, r.userJobsKey(job.UserID), job.JobID)
	pipe.Expire(ctx, r.userJobsKey(job.UserID), jobTTL)
	pipe.LPush(ctx, queueKey, job.JobID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

func (r *JobRepository) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	data, err := r.client.Get(ctx, r.jobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

// Save rewrites a job record, bumping updated_at.
func (r *JobRepository) Save(ctx context.Context, job *domain.Job) error {
	job.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := r.client.Set(ctx, r.jobKey(job.JobID), data, jobTTL).Err(); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next pending job ID. Returns "" when
// the queue stayed empty.
func (r *JobRepository) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	res, err := r.client.BRPop(ctx, timeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("dequeue: %w", err)
	}
	// BRPop returns [key, value]
	if len(res) != 2 {
		return "", fmt.Errorf("dequeue: unexpected reply %v", res)
	}
	return res[1], nil
}

// ListByUser returns all live job records owned by a user.
func (r *JobRepository) ListByUser(ctx context.Context, userID string) ([]domain.Job, error) {
	ids, err := r.client.SMembers(ctx, r.userJobsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list user jobs: %w", err)
	}

	out := make([]domain.Job, 0, len(ids))
	for _, id := range ids {
		job, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrJobNotFound) {
			// record expired; drop the stale index entry
			_ = r.client.SRem(ctx, r.userJobsKey(userID), id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *job)
	}
	return out, nil
}

// PurgeFinished removes finished jobs older than the cutoff. Called from the
// nightly scheduler; TTLs catch anything it misses.
func (r *JobRepository) PurgeFinished(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	purged := 0

	iter := r.client.Scan(ctx, 0, jobKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return purged, fmt.Errorf("purge scan: %w", err)
		}

		var job domain.Job
		if err := json.Unmarshal(data, &job); err != nil {
			continue
		}
		if !job.Finished() || job.UpdatedAt.After(cutoff) {
			continue
		}

		pipe := r.client.Pipeline()
		pipe.Del(ctx, key)
		pipe.SRem(ctx, r.userJobsKey(job.UserID), job.JobID)
		if _, err := pipe.Exec(ctx); err != nil {
			return purged, fmt.Errorf("purge job %s: %w", job.JobID, err)
		}
		purged++
	}
	if err := iter.Err(); err != nil {
		return purged, fmt.Errorf("purge iterate: %w", err)
	}
	return purged, nil
}
