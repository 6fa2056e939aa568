package pipeline

import (
	"context"

	"model3d-service/mesh"
)

// Pipeline abstracts the image-to-3D generative model.
// Implementations must be concurrency-safe if used across goroutines.
type Pipeline interface {
	// Generate runs inference on the image at imagePath and returns the
	// candidate meshes, best first. An empty slice with a nil error means
	// the model ran but produced nothing usable.
	Generate(ctx context.Context, imagePath string) ([]mesh.Data, error)
}

// Accelerator describes the compute resources visible to the pipeline.
type Accelerator struct {
	CUDAAvailable bool `json:"cuda_available"`
	DeviceCount   int  `json:"device_count"`
}

// Prober reports pipeline health without triggering a model load.
type Prober interface {
	Probe(ctx context.Context) (Accelerator, error)
}

// LoadError wraps a pipeline construction failure. The manager leaves the
// handle unset when it occurs, so a later request can retry the load.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "Failed to load model: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
