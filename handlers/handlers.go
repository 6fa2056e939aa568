package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"model3d-service/config"
	"model3d-service/models"
	"model3d-service/pipeline"
	"model3d-service/service"
	"model3d-service/storage"
	"model3d-service/upload"
)

// probeTimeout bounds the worker health probe so /health stays fast even when
// the worker is unreachable.
const probeTimeout = 2 * time.Second

// Handlers holds the dependencies of the HTTP surface.
type Handlers struct {
	cfg       *config.Config
	store     *storage.Store
	manager   *pipeline.Manager
	generator *service.Generator
	prober    pipeline.Prober
}

// New creates the HTTP handlers.
func New(cfg *config.Config, store *storage.Store, manager *pipeline.Manager, generator *service.Generator, prober pipeline.Prober) *Handlers {
	return &Handlers{
		cfg:       cfg,
		store:     store,
		manager:   manager,
		generator: generator,
		prober:    prober,
	}
}

// Root handles GET / with a service summary.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.RootResponse{
		Message:          "3D Model Generator API",
		Status:           "healthy",
		SupportedFormats: upload.SupportedFormats(),
		TempDir:          h.store.Dir(),
	})
}

// Health handles GET /health with pipeline and accelerator state.
func (h *Handlers) Health(c *gin.Context) {
	accel := pipeline.Accelerator{}

	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()
	if a, err := h.prober.Probe(ctx); err == nil {
		accel = a
	} else {
		log.Warnf("Worker health probe failed: %v", err)
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:         "healthy",
		PipelineLoaded: h.manager.Loaded(),
		CUDAAvailable:  accel.CUDAAvailable,
		DeviceCount:    accel.DeviceCount,
		TempDir:        h.store.Dir(),
	})
}
