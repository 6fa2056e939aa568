package service

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/semaphore"

	"model3d-service/mesh"
	"model3d-service/pipeline"
)

// GenerationError means the model ran but produced no usable output.
type GenerationError struct {
	Reason string
}

func (e *GenerationError) Error() string {
	return e.Reason
}

// Generator orchestrates a single inference run: invoke the pipeline, take
// the first candidate mesh, export it to the output path. It never deletes
// the staged files; cleanup belongs to the caller on every exit path.
type Generator struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewGenerator bounds inference at maxConcurrent simultaneous runs, each
// limited to the given timeout. The bound reflects the worker's accelerator
// capacity, not HTTP capacity; validation and health traffic are unaffected.
func NewGenerator(maxConcurrent int64, timeout time.Duration) *Generator {
	return &Generator{
		sem:     semaphore.NewWeighted(maxConcurrent),
		timeout: timeout,
	}
}

// Run generates a mesh from the staged input image and writes it to
// outputPath in binary glTF. Only the first candidate mesh is exported; the
// model may return more, but nothing downstream consumes them today.
func (g *Generator) Run(ctx context.Context, pipe pipeline.Pipeline, inputPath, outputPath string) (string, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for generation slot: %w", err)
	}
	defer g.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	meshes, err := pipe.Generate(ctx, inputPath)
	if err != nil {
		return "", fmt.Errorf("model invocation failed: %w", err)
	}
	if len(meshes) == 0 {
		return "", &GenerationError{Reason: "Failed to generate 3D model: empty result"}
	}
	log.Infof("Generated %d candidate mesh(es) in %s", len(meshes), time.Since(start).Round(time.Millisecond))

	first := meshes[0]
	if err := mesh.ExportGLB(first, outputPath); err != nil {
		return "", fmt.Errorf("failed to export mesh: %w", err)
	}
	log.Debugf("Exported %d vertices / %d faces to %s", len(first.Vertices), len(first.Faces), outputPath)

	return outputPath, nil
}
