package models

// RootResponse is the summary returned by GET /
type RootResponse struct {
	Message          string   `json:"message"`
	Status           string   `json:"status"`
	SupportedFormats []string `json:"supported_formats"`
	TempDir          string   `json:"temp_dir"`
}

// HealthResponse is the detailed health report returned by GET /health
type HealthResponse struct {
	Status         string `json:"status"`
	PipelineLoaded bool   `json:"pipeline_loaded"`
	CUDAAvailable  bool   `json:"cuda_available"`
	DeviceCount    int    `json:"device_count"`
	TempDir        string `json:"temp_dir"`
}

// ErrorResponse is the body of all non-2xx responses
type ErrorResponse struct {
	Error string `json:"error"`
}
