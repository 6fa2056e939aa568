package hunyuan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"

	"model3d-service/mesh"
	"model3d-service/pipeline"
)

// Client talks to a Hunyuan3D inference worker over HTTP. The worker hosts
// the actual generative model; this client is the process-wide handle to it.
type Client struct {
	baseURL     string
	modelID     string
	loadTimeout time.Duration
	httpClient  *http.Client
}

type loadRequest struct {
	Model string `json:"model"`
}

type generateResponse struct {
	Meshes []mesh.Data `json:"meshes"`
}

type healthResponse struct {
	Status        string `json:"status"`
	CUDAAvailable bool   `json:"cuda_available"`
	DeviceCount   int    `json:"device_count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewClient creates a worker client. Constructing the client is cheap; the
// heavyweight model load happens in Load.
func NewClient(baseURL, modelID string, loadTimeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		modelID:     modelID,
		loadTimeout: loadTimeout,
		// Per-call deadlines come from the caller's context.
		httpClient: &http.Client{},
	}
}

// Load asks the worker to pull and initialize the pretrained pipeline. This
// can take minutes on a cold cache and is bounded by the configured load
// timeout.
func (c *Client) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	body, err := json.Marshal(loadRequest{Model: c.modelID})
	if err != nil {
		return fmt.Errorf("failed to encode load request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/load", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create load request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Infof("Requesting worker to load model %s", c.modelID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("worker load request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("worker load failed: %s", readErrorBody(resp))
	}
	return nil
}

// Generate uploads the staged input image to the worker and decodes the
// candidate meshes from its response.
func (c *Client) Generate(ctx context.Context, imagePath string) ([]mesh.Data, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to copy image into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("worker generate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("worker generate failed: %s", readErrorBody(resp))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode worker response: %w", err)
	}
	return out.Meshes, nil
}

// Probe fetches the worker's health report without touching the model. Used
// by the service health endpoint to surface accelerator visibility.
func (c *Client) Probe(ctx context.Context) (pipeline.Accelerator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return pipeline.Accelerator{}, fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pipeline.Accelerator{}, fmt.Errorf("worker health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pipeline.Accelerator{}, fmt.Errorf("worker health returned status %d", resp.StatusCode)
	}

	var out healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return pipeline.Accelerator{}, fmt.Errorf("failed to decode worker health: %w", err)
	}
	return pipeline.Accelerator{
		CUDAAvailable: out.CUDAAvailable,
		DeviceCount:   out.DeviceCount,
	}, nil
}

// readErrorBody extracts a short error description from a non-200 worker
// response, falling back to the HTTP status.
func readErrorBody(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(data) > 0 {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return e.Error
		}
		return string(data)
	}
	return resp.Status
}
