package pipeline

import (
	"context"
	"sync"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"

	"model3d-service/metrics"
)

// Factory constructs the pipeline. It is expected to be heavyweight: loading
// the pretrained model can take minutes and a lot of accelerator memory.
type Factory func(ctx context.Context) (Pipeline, error)

// Manager lazily constructs and caches the single shared pipeline handle.
// Concurrent first access results in exactly one construction; a failed
// construction leaves the handle unset so the next request retries it.
type Manager struct {
	factory Factory
	group   singleflight.Group

	mu   sync.RWMutex
	pipe Pipeline
}

// NewManager creates a manager around the given factory. Nothing is loaded
// until the first Acquire call.
func NewManager(factory Factory) *Manager {
	return &Manager{factory: factory}
}

// Acquire returns the shared pipeline handle, constructing it on first use.
// Callers arriving during construction wait for the in-flight load instead of
// starting their own. On failure every waiter receives a *LoadError.
func (m *Manager) Acquire(ctx context.Context) (Pipeline, error) {
	m.mu.RLock()
	pipe := m.pipe
	m.mu.RUnlock()
	if pipe != nil {
		return pipe, nil
	}

	v, err, _ := m.group.Do("pipeline", func() (interface{}, error) {
		m.mu.RLock()
		cached := m.pipe
		m.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		log.Info("Loading generation pipeline...")
		loaded, err := m.factory(ctx)
		if err != nil {
			log.Errorf("Failed to load pipeline: %v", err)
			return nil, &LoadError{Err: err}
		}
		log.Info("Pipeline loaded successfully")

		m.mu.Lock()
		m.pipe = loaded
		m.mu.Unlock()
		metrics.PipelineLoaded.Set(1)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Pipeline), nil
}

// Loaded reports whether the pipeline handle has been constructed.
func (m *Manager) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pipe != nil
}
