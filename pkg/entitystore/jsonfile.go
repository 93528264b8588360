package entitystore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/graphprobe/graphprobe/pkg/models"
)

const (
	entitiesFile      = "entities.json"
	relationshipsFile = "relationships.json"
)

// JSONFileBackend persists the store as two JSON files under a
// directory, each rewritten in full on every change.
type JSONFileBackend struct {
	dir string
}

// NewJSONFileBackend creates the store directory if needed.
func NewJSONFileBackend(dir string) (*JSONFileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &JSONFileBackend{dir: dir}, nil
}

// Load reads both files. Missing files yield an empty store.
func (b *JSONFileBackend) Load(ctx context.Context) (map[string]models.StoredEntity, []models.StoredRelationship, error) {
	entities := make(map[string]models.StoredEntity)
	var relationships []models.StoredRelationship

	if data, err := os.ReadFile(filepath.Join(b.dir, entitiesFile)); err == nil {
		if err := json.Unmarshal(data, &entities); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", entitiesFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, err
	}

	if data, err := os.ReadFile(filepath.Join(b.dir, relationshipsFile)); err == nil {
		if err := json.Unmarshal(data, &relationships); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", relationshipsFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, err
	}

	return entities, relationships, nil
}

// Persist rewrites both files with the full collections.
func (b *JSONFileBackend) Persist(ctx context.Context, entities map[string]models.StoredEntity, relationships []models.StoredRelationship) error {
	entityData, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(b.dir, entitiesFile), entityData, 0644); err != nil {
		return err
	}

	if relationships == nil {
		relationships = []models.StoredRelationship{}
	}
	relData, err := json.MarshalIndent(relationships, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(b.dir, relationshipsFile), relData, 0644)
}

// Close is a no-op for the file backend.
func (b *JSONFileBackend) Close() error {
	return nil
}
