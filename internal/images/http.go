package images

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aplusgen/aplus/internal/auth"
	pipedomain "github.com/aplusgen/aplus/internal/pipeline/domain"
	"github.com/aplusgen/aplus/internal/pipeline/repository"
	"github.com/aplusgen/aplus/internal/projects"
	"github.com/aplusgen/aplus/internal/uploads"
)

// ProjectStore is the slice of the projects repository the image endpoints
// need.
type ProjectStore interface {
	Get(ctx context.Context, userID, id string) (*projects.Project, error)
	SetOriginalImage(ctx context.Context, userID, id, path string) (*projects.Project, error)
}

type Handler struct {
	store   ProjectStore
	jobs    *repository.JobRepository
	files   *uploads.Store
	baseURL string
}

func Register(rg *gin.RouterGroup, store ProjectStore, jobs *repository.JobRepository, files *uploads.Store, baseURL string) {
	h := &Handler{store: store, jobs: jobs, files: files, baseURL: baseURL}

	rg.POST("/upload/:project_id", h.upload)
	rg.POST("/remove-background/:project_id", h.removeBackground)
	rg.POST("/enhance/:project_id", h.enhance)
	rg.GET("/jobs/:job_id", h.jobStatus)
}

// upload stores the source image and resets the processed reference to it.
func (h *Handler) upload(c *gin.Context) {
	userID := auth.UserID(c)
	projectID := c.Param("project_id")

	if _, err := h.store.Get(c.Request.Context(), userID, projectID); err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load project"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unreadable upload"})
		return
	}
	defer src.Close()

	relPath, err := h.files.SaveUpload(userID, "original", file.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to store upload"})
		return
	}

	if _, err := h.store.SetOriginalImage(c.Request.Context(), userID, projectID, relPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to record upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"original_image":  uploads.URL(h.baseURL, relPath),
		"processed_image": uploads.URL(h.baseURL, relPath),
	})
}

func (h *Handler) removeBackground(c *gin.Context) {
	h.enqueue(c, pipedomain.OpRemoveBackground)
}

func (h *Handler) enhance(c *gin.Context) {
	h.enqueue(c, pipedomain.OpEnhance)
}

// enqueue hands the operation to the pipeline; the derivative lands on the
// project asynchronously.
func (h *Handler) enqueue(c *gin.Context, op pipedomain.Operation) {
	userID := auth.UserID(c)
	projectID := c.Param("project_id")

	project, err := h.store.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load project"})
		return
	}
	if project.ProcessedImage == nil || *project.ProcessedImage == "" {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Project or image not found"})
		return
	}

	job := &pipedomain.Job{
		UserID:    userID,
		ProjectID: projectID,
		Op:        op,
	}
	if err := h.jobs.Enqueue(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to enqueue job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.JobID, "status": job.Status})
}

func (h *Handler) jobStatus(c *gin.Context) {
	userID := auth.UserID(c)

	job, err := h.jobs.Get(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, pipedomain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load job"})
		return
	}
	if job.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
		return
	}

	resp := gin.H{"job_id": job.JobID, "status": job.Status}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	if job.ResultPath != "" {
		resp["processed_image"] = uploads.URL(h.baseURL, job.ResultPath)
	}
	c.JSON(http.StatusOK, resp)
}
