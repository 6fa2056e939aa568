package stubpipe

import (
	"context"
	"fmt"
	"os"

	"model3d-service/mesh"
	"model3d-service/pipeline"
)

// Client is a deterministic, no-network pipeline stub intended for CI and
// local end-to-end tests. It returns a fixed tetrahedron so the full
// generate-export-stream path is exercised without a GPU worker.
type Client struct{}

func NewClient() *Client { return &Client{} }

// Generate reads the staged input to mirror the real worker's behavior, then
// returns a single fixed mesh.
func (c *Client) Generate(ctx context.Context, imagePath string) ([]mesh.Data, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return nil, fmt.Errorf("input image not readable: %w", err)
	}
	return []mesh.Data{Tetrahedron()}, nil
}

// Probe reports no accelerator, which is accurate for the stub.
func (c *Client) Probe(ctx context.Context) (pipeline.Accelerator, error) {
	return pipeline.Accelerator{}, nil
}

// Tetrahedron is the fixed mesh the stub emits.
func Tetrahedron() mesh.Data {
	return mesh.Data{
		Vertices: [][3]float32{
			{0, 0, 0},
			{1, 0, 0},
			{0.5, 1, 0},
			{0.5, 0.5, 1},
		},
		Faces: [][3]uint32{
			{0, 1, 2},
			{0, 1, 3},
			{1, 2, 3},
			{0, 2, 3},
		},
	}
}
