package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model3d-service/config"
	"model3d-service/mesh"
	"model3d-service/models"
	"model3d-service/pipeline"
	"model3d-service/pipeline/stubpipe"
	"model3d-service/service"
	"model3d-service/storage"
)

// newTestRouter wires a full service around the given pipeline factory with
// an isolated staging directory.
func newTestRouter(t *testing.T, factory pipeline.Factory) (*gin.Engine, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		TempDir:                  t.TempDir(),
		MaxUploadMB:              10,
		GenerateTimeout:          time.Minute,
		MaxConcurrentGenerations: 1,
	}
	store := storage.NewStore(cfg.TempDir)
	require.NoError(t, store.EnsureDir())

	manager := pipeline.NewManager(factory)
	generator := service.NewGenerator(cfg.MaxConcurrentGenerations, cfg.GenerateTimeout)
	h := New(cfg, store, manager, generator, stubpipe.NewClient())

	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.POST("/generate-3d", h.Generate)
	return router, store
}

func stubFactory() pipeline.Factory {
	stub := stubpipe.NewClient()
	return func(ctx context.Context) (pipeline.Pipeline, error) {
		return stub, nil
	}
}

// pngBytes encodes a small valid PNG for upload tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartImage builds a multipart body with the upload under field "image".
func multipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postGenerate(router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/generate-3d", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getHealth(t *testing.T, router *gin.Engine) models.HealthResponse {
	t.Helper()
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	return health
}

func TestRoot_ReportsServiceSummary(t *testing.T) {
	router, store := newTestRouter(t, stubFactory())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var root models.RootResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "healthy", root.Status)
	assert.Contains(t, root.SupportedFormats, "png")
	assert.Equal(t, store.Dir(), root.TempDir)
}

func TestHealth_PipelineLoadedTransitions(t *testing.T) {
	router, _ := newTestRouter(t, stubFactory())

	// Before any generate call the handle is unset.
	assert.False(t, getHealth(t, router).PipelineLoaded)

	body, contentType := multipartImage(t, "photo.png", pngBytes(t))
	w := postGenerate(router, body, contentType)
	require.Equal(t, http.StatusOK, w.Code)

	// After the first successful acquisition the state persists.
	assert.True(t, getHealth(t, router).PipelineLoaded)
	assert.True(t, getHealth(t, router).PipelineLoaded)
}

func TestGenerate_Success(t *testing.T) {
	router, store := newTestRouter(t, stubFactory())

	body, contentType := multipartImage(t, "photo.png", pngBytes(t))
	w := postGenerate(router, body, contentType)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "model/gltf-binary", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "model_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".glb")

	// The streamed body is a parseable GLB with the stub's geometry.
	glbPath := filepath.Join(t.TempDir(), "returned.glb")
	require.NoError(t, os.WriteFile(glbPath, w.Body.Bytes(), 0o644))
	data, err := mesh.ReadGLB(glbPath)
	require.NoError(t, err)
	want := stubpipe.Tetrahedron()
	assert.Len(t, data.Vertices, len(want.Vertices))
	assert.Len(t, data.Faces, len(want.Faces))

	// No leaked staging files once the response has been delivered.
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
