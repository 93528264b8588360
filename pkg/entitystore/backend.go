package entitystore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/graphprobe/graphprobe/pkg/models"
)

var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")
)

// Backend persists the side store's full state. The store mutates in
// memory and rewrites everything on each change; backends only need
// whole-snapshot load and persist.
type Backend interface {
	Load(ctx context.Context) (map[string]models.StoredEntity, []models.StoredRelationship, error)
	Persist(ctx context.Context, entities map[string]models.StoredEntity, relationships []models.StoredRelationship) error
	Close() error
}

// BackendFactory is a function that creates a new Backend instance
type BackendFactory func(config map[string]interface{}) (Backend, error)

var (
	backendMu       sync.RWMutex
	backendRegistry = make(map[string]BackendFactory)
)

// RegisterBackend registers a new backend implementation
func RegisterBackend(name string, factory BackendFactory) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backendRegistry[name] = factory
}

// NewBackend creates a new backend instance by name
func NewBackend(name string, config map[string]interface{}) (Backend, error) {
	backendMu.RLock()
	factory, exists := backendRegistry[name]
	backendMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown backend type: %s", name)
	}

	return factory(config)
}

// ListBackends returns all registered backend types
func ListBackends() []string {
	backendMu.RLock()
	defer backendMu.RUnlock()

	backends := make([]string, 0, len(backendRegistry))
	for name := range backendRegistry {
		backends = append(backends, name)
	}
	return backends
}

// init registers built-in backends
func init() {
	RegisterBackend("jsonfile", func(config map[string]interface{}) (Backend, error) {
		dir, ok := config["store_dir"].(string)
		if !ok {
			dir = "entity_store"
		}
		return NewJSONFileBackend(dir)
	})

	RegisterBackend("sqlite", func(config map[string]interface{}) (Backend, error) {
		dbPath, ok := config["db_path"].(string)
		if !ok {
			dbPath = "entity_store.db"
		}
		return NewSQLiteBackend(dbPath)
	})
}
