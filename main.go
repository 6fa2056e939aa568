package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"model3d-service/config"
	"model3d-service/handlers"
	"model3d-service/metrics"
	"model3d-service/middleware"
	"model3d-service/pipeline"
	"model3d-service/pipeline/hunyuan"
	"model3d-service/pipeline/stubpipe"
	"model3d-service/service"
	"model3d-service/storage"
)

const (
	EndPointRoot     = "/"
	EndPointHealth   = "/health"
	EndPointGenerate = "/generate-3d"
	EndPointMetrics  = "/metrics"
)

func main() {
	// Load .env if present, then configuration
	godotenv.Load()
	cfg := config.Load()

	log.SetLevelFromString(cfg.LogLevel)
	log.Info("Starting the 3D model generator service...")

	metrics.Register()

	// Staging directory for per-request input/output files
	store := storage.NewStore(cfg.TempDir)
	if err := store.EnsureDir(); err != nil {
		log.Fatalf("Failed to prepare staging directory: %v", err)
	}

	// Select the pipeline provider
	var (
		factory pipeline.Factory
		prober  pipeline.Prober
	)
	switch cfg.PipelineProvider {
	case "stub":
		log.Warn("Using stub pipeline provider; generated meshes are fixed test geometry")
		stub := stubpipe.NewClient()
		factory = func(ctx context.Context) (pipeline.Pipeline, error) { return stub, nil }
		prober = stub
	default:
		worker := hunyuan.NewClient(cfg.WorkerURL, cfg.ModelID, cfg.LoadTimeout)
		factory = func(ctx context.Context) (pipeline.Pipeline, error) {
			if err := worker.Load(ctx); err != nil {
				return nil, err
			}
			return worker, nil
		}
		prober = worker
	}
	log.Infof("Pipeline provider=%s model=%s worker=%s", cfg.PipelineProvider, cfg.ModelID, cfg.WorkerURL)

	manager := pipeline.NewManager(factory)
	generator := service.NewGenerator(cfg.MaxConcurrentGenerations, cfg.GenerateTimeout)
	h := handlers.New(cfg, store, manager, generator, prober)

	// Setup router
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET(EndPointRoot, h.Root)
	router.GET(EndPointHealth, h.Health)
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	rateLimited := router.Group("/")
	rateLimited.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, time.Minute))
	{
		rateLimited.POST(EndPointGenerate, h.Generate)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
