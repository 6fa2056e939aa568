package upload

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// supportedFormats is the extension allow-list for uploaded images.
var supportedFormats = []string{"jpg", "jpeg", "png", "webp", "bmp"}

// ValidationError describes a rejected upload. It is a client fault and maps
// to a 400 response, never to a retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// SupportedFormats returns the extension allow-list.
func SupportedFormats() []string {
	out := make([]string, len(supportedFormats))
	copy(out, supportedFormats)
	return out
}

// Validate checks an uploaded image stream against the filename, extension and
// size rules. The stream is consumed to measure its size and rewound to the
// start, so downstream consumers can read it again.
func Validate(r io.ReadSeeker, filename string, maxBytes int64) error {
	if filename == "" {
		return &ValidationError{Reason: "No filename provided"}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !isSupported(ext) {
		return &ValidationError{
			Reason: fmt.Sprintf("Unsupported format. Supported: %s", strings.Join(supportedFormats, ", ")),
		}
	}

	size, err := io.Copy(io.Discard, r)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind upload: %w", err)
	}
	if size > maxBytes {
		return &ValidationError{
			Reason: fmt.Sprintf("File too large (max %dMB)", maxBytes/(1024*1024)),
		}
	}

	return nil
}

func isSupported(ext string) bool {
	for _, f := range supportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}
