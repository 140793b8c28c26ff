package projects

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aplusgen/aplus/internal/auth"
	"github.com/aplusgen/aplus/internal/uploads"
)

// Store is the persistence surface the handlers need.
type Store interface {
	Create(ctx context.Context, userID, name string) (*Project, error)
	List(ctx context.Context, userID string) ([]Project, error)
	Get(ctx context.Context, userID, id string) (*Project, error)
	Update(ctx context.Context, userID, id string, upd UpdateParams) (*Project, error)
	Delete(ctx context.Context, userID, id string) (*Project, error)
}

type Handler struct {
	store   Store
	files   *uploads.Store
	baseURL string
}

func Register(rg *gin.RouterGroup, store Store, files *uploads.Store, baseURL string) {
	h := &Handler{store: store, files: files, baseURL: baseURL}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type createReq struct {
	Name string `json:"name"`
}

type updateReq struct {
	Name          *string `json:"name"`
	AITitle       *string `json:"ai_title"`
	AIDescription *string `json:"ai_description"`
}

// withURLs rewrites stored image paths to absolute URLs for the wire.
func (h *Handler) withURLs(p Project) Project {
	if p.OriginalImage != nil {
		u := uploads.URL(h.baseURL, *p.OriginalImage)
		p.OriginalImage = &u
	}
	if p.ProcessedImage != nil {
		u := uploads.URL(h.baseURL, *p.ProcessedImage)
		p.ProcessedImage = &u
	}
	return p
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name is required"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.store.Create(c.Request.Context(), userID, strings.TrimSpace(req.Name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create project"})
		return
	}

	c.JSON(http.StatusOK, h.withURLs(*p))
}

func (h *Handler) list(c *gin.Context) {
	userID := auth.UserID(c)
	items, err := h.store.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list projects"})
		return
	}

	out := make([]Project, 0, len(items))
	for _, p := range items {
		out = append(out, h.withURLs(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) get(c *gin.Context) {
	userID := auth.UserID(c)
	p, err := h.store.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load project"})
		return
	}
	c.JSON(http.StatusOK, h.withURLs(*p))
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid body"})
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name must not be empty"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.store.Update(c.Request.Context(), userID, c.Param("id"), UpdateParams{
		Name:          req.Name,
		AITitle:       req.AITitle,
		AIDescription: req.AIDescription,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update project"})
		return
	}
	c.JSON(http.StatusOK, h.withURLs(*p))
}

func (h *Handler) delete(c *gin.Context) {
	userID := auth.UserID(c)
	p, err := h.store.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to delete project"})
		return
	}

	// Best effort: the record is gone either way.
	if h.files != nil {
		if p.OriginalImage != nil {
			_ = h.files.Remove(*p.OriginalImage)
		}
		if p.ProcessedImage != nil {
			_ = h.files.Remove(*p.ProcessedImage)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
