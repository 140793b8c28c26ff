package images

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplusgen/aplus/internal/auth"
	pipedomain "github.com/aplusgen/aplus/internal/pipeline/domain"
	"github.com/aplusgen/aplus/internal/pipeline/repository"
	"github.com/aplusgen/aplus/internal/projects"
	"github.com/aplusgen/aplus/internal/uploads"
)

type fakeProjectStore struct {
	project *projects.Project
}

func (f *fakeProjectStore) Get(ctx context.Context, userID, id string) (*projects.Project, error) {
	if f.project == nil || f.project.UserID != userID || f.project.ID != id {
		return nil, projects.ErrNotFound
	}
	cp := *f.project
	return &cp, nil
}

func (f *fakeProjectStore) SetOriginalImage(ctx context.Context, userID, id, path string) (*projects.Project, error) {
	if f.project == nil || f.project.UserID != userID || f.project.ID != id {
		return nil, projects.ErrNotFound
	}
	f.project.OriginalImage = &path
	f.project.ProcessedImage = &path
	cp := *f.project
	return &cp, nil
}

func setupImagesRouter(t *testing.T, store ProjectStore) (*gin.Engine, *repository.JobRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	jobs := repository.NewJobRepository(client)

	files, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.CtxUserID, "user-1")
		c.Next()
	})
	Register(r.Group("/api/image"), store, jobs, files, "http://localhost:8080")
	return r, jobs
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload_StoresFileAndSetsBothReferences(t *testing.T) {
	store := &fakeProjectStore{project: &projects.Project{ID: "proj-1", UserID: "user-1", Name: "Watch"}}
	r, _ := setupImagesRouter(t, store)

	body, contentType := multipartBody(t, "file", "photo.jpg", []byte("jpeg bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/image/upload/proj-1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OriginalImage  string `json:"original_image"`
		ProcessedImage string `json:"processed_image"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.OriginalImage, "http://localhost:8080/uploads/user-1_original_")
	assert.Equal(t, resp.OriginalImage, resp.ProcessedImage)

	require.NotNil(t, store.project.OriginalImage)
	assert.Equal(t, store.project.OriginalImage, store.project.ProcessedImage)
}

func TestUpload_MissingFile(t *testing.T) {
	store := &fakeProjectStore{project: &projects.Project{ID: "proj-1", UserID: "user-1"}}
	r, _ := setupImagesRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/image/upload/proj-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"file is required"}`, w.Body.String())
}

func TestUpload_UnknownProject(t *testing.T) {
	r, _ := setupImagesRouter(t, &fakeProjectStore{})

	body, contentType := multipartBody(t, "file", "photo.jpg", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/image/upload/nope", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Project not found"}`, w.Body.String())
}

func TestRemoveBackground_Enqueues(t *testing.T) {
	img := "/uploads/user-1_original_x.jpg"
	store := &fakeProjectStore{project: &projects.Project{
		ID: "proj-1", UserID: "user-1", OriginalImage: &img, ProcessedImage: &img,
	}}
	r, jobs := setupImagesRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/image/remove-background/proj-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.JobID)
	assert.Equal(t, string(pipedomain.StatusPending), resp.Status)

	job, err := jobs.Get(context.Background(), resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, pipedomain.OpRemoveBackground, job.Op)
	assert.Equal(t, "proj-1", job.ProjectID)
}

func TestEnhance_ProjectWithoutImage(t *testing.T) {
	store := &fakeProjectStore{project: &projects.Project{ID: "proj-1", UserID: "user-1"}}
	r, _ := setupImagesRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/image/enhance/proj-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Project or image not found"}`, w.Body.String())
}

func TestJobStatus(t *testing.T) {
	img := "/uploads/user-1_original_x.jpg"
	store := &fakeProjectStore{project: &projects.Project{
		ID: "proj-1", UserID: "user-1", OriginalImage: &img, ProcessedImage: &img,
	}}
	r, jobs := setupImagesRouter(t, store)
	ctx := context.Background()

	job := &pipedomain.Job{UserID: "user-1", ProjectID: "proj-1", Op: pipedomain.OpEnhance}
	require.NoError(t, jobs.Enqueue(ctx, job))

	t.Run("pending", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/image/jobs/"+job.JobID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"pending"`)
	})

	t.Run("completed carries the derivative URL", func(t *testing.T) {
		job.Status = pipedomain.StatusCompleted
		job.ResultPath = "/uploads/user-1_enhanced_y.png"
		require.NoError(t, jobs.Save(ctx, job))

		req := httptest.NewRequest(http.MethodGet, "/api/image/jobs/"+job.JobID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "http://localhost:8080/uploads/user-1_enhanced_y.png")
	})

	t.Run("someone else's job is a 404", func(t *testing.T) {
		other := &pipedomain.Job{UserID: "user-2", ProjectID: "p", Op: pipedomain.OpEnhance}
		require.NoError(t, jobs.Enqueue(ctx, other))

		req := httptest.NewRequest(http.MethodGet, "/api/image/jobs/"+other.JobID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"detail":"Job not found"}`, w.Body.String())
	})

	t.Run("unknown job", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/image/jobs/nope", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
