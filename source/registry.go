package source

import (
	"fmt"
	"sync"

	"github.com/pipemq/pipemq/core"
)

// Factory creates a Source from the given Config.
type Factory func(cfg Config) (core.Source, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a named source factory. Plugins call this from init().
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// Create instantiates a source by name using the registered factory.
// The config is validated before the factory runs, so configuration
// errors surface before any connection is attempted.
func Create(name string, cfg Config) (core.Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("pipemq: unknown source %q", name)
	}
	return f(cfg)
}
