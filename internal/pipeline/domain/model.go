package domain

import (
	"errors"
	"time"
)

var ErrJobNotFound = errors.New("job not found")

type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

type Operation string

const (
	OpRemoveBackground Operation = "remove_background"
	OpEnhance          Operation = "enhance"
)

// Job is one asynchronous processing run against a project's image.
type Job struct {
	JobID      string    `json:"job_id"`
	UserID     string    `json:"user_id"`
	ProjectID  string    `json:"project_id"`
	Op         Operation `json:"op"`
	Status     JobStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	ResultPath string    `json:"result_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Finished reports whether the job reached a terminal status.
func (j *Job) Finished() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
