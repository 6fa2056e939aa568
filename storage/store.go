package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
)

// Store manages the staging directory for per-request input and output files.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is not created until
// EnsureDir is called.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the staging directory path.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the staging directory if it does not exist.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create staging directory %s: %w", s.dir, err)
	}
	return nil
}

// Stage derives the input and output file paths for a request. The files
// themselves are not created. The input is always staged as JPEG and the
// output is always a binary glTF document.
func (s *Store) Stage(requestID string) (inputPath, outputPath string) {
	inputPath = filepath.Join(s.dir, "input_"+requestID+".jpg")
	outputPath = filepath.Join(s.dir, "output_"+requestID+".glb")
	return inputPath, outputPath
}

// Cleanup deletes a staged file if present. A missing file is not an error,
// so it is safe to call on every exit path of a request.
func (s *Store) Cleanup(path string) {
	err := os.Remove(path)
	if err == nil {
		log.Debugf("Cleaned up: %s", path)
		return
	}
	if !os.IsNotExist(err) {
		log.Errorf("Error cleaning up %s: %v", path, err)
	}
}
