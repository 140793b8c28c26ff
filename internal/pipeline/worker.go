// Package pipeline runs the asynchronous image-processing jobs that populate
// a project's processed derivative.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/aplusgen/aplus/internal/images"
	"github.com/aplusgen/aplus/internal/pipeline/domain"
	"github.com/aplusgen/aplus/internal/pipeline/repository"
	"github.com/aplusgen/aplus/internal/projects"
	"github.com/aplusgen/aplus/internal/uploads"
)

// ProjectStore is the slice of the projects repository the worker needs.
type ProjectStore interface {
	Get(ctx context.Context, userID, id string) (*projects.Project, error)
	SetProcessedImage(ctx context.Context, userID, id, path string) (*projects.Project, error)
}

type Worker struct {
	jobs     *repository.JobRepository
	projects ProjectStore
	files    *uploads.Store
}

func NewWorker(jobs *repository.JobRepository, store ProjectStore, files *uploads.Store) *Worker {
	return &Worker{jobs: jobs, projects: store, files: files}
}

// Run drains the queue until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log.Println("pipeline worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("pipeline worker stopped")
			return
		default:
		}

		jobID, err := w.jobs.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("pipeline dequeue: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if jobID == "" {
			continue
		}

		if err := w.Process(ctx, jobID); err != nil {
			log.Printf("pipeline job %s: %v", jobID, err)
		}
	}
}

// Process executes a single job end to end and records its outcome.
func (w *Worker) Process(ctx context.Context, jobID string) error {
	job, err := w.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = domain.StatusRunning
	if err := w.jobs.Save(ctx, job); err != nil {
		return err
	}

	resultPath, err := w.run(ctx, job)
	if err != nil {
		job.Status = domain.StatusFailed
		job.Error = err.Error()
		if saveErr := w.jobs.Save(ctx, job); saveErr != nil {
			return saveErr
		}
		return err
	}

	job.Status = domain.StatusCompleted
	job.ResultPath = resultPath
	return w.jobs.Save(ctx, job)
}

func (w *Worker) run(ctx context.Context, job *domain.Job) (string, error) {
	project, err := w.projects.Get(ctx, job.UserID, job.ProjectID)
	if err != nil {
		return "", fmt.Errorf("load project: %w", err)
	}
	if project.ProcessedImage == nil || *project.ProcessedImage == "" {
		return "", fmt.Errorf("project has no image to process")
	}

	src, err := images.DecodeFile(w.files.AbsPath(*project.ProcessedImage))
	if err != nil {
		return "", err
	}

	var out image.Image
	var prefix string
	switch job.Op {
	case domain.OpRemoveBackground:
		out = images.RemoveBackground(src)
		prefix = "nobg"
	case domain.OpEnhance:
		out = images.Enhance(src)
		prefix = "enhanced"
	default:
		return "", fmt.Errorf("unknown operation %q", job.Op)
	}

	resultPath, err := w.files.SavePNG(out, job.UserID, prefix)
	if err != nil {
		return "", err
	}

	if _, err := w.projects.SetProcessedImage(ctx, job.UserID, job.ProjectID, resultPath); err != nil {
		return "", fmt.Errorf("record result: %w", err)
	}
	return resultPath, nil
}
