package entitystore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/graphprobe/graphprobe/pkg/models"
)

// Store is the JSON-backed side store used to work around custom
// entity persistence gaps in the graph backend. State is held in
// memory and the backend is rewritten in full on every mutation.
//
// The in-process mutex protects concurrent goroutines; nothing guards
// two processes writing the same backing files (last writer wins).
type Store struct {
	backend       Backend
	entities      map[string]models.StoredEntity
	relationships []models.StoredRelationship
	logger        zerolog.Logger
	mu            sync.RWMutex
}

// New opens a store over the given backend, loading all existing data.
func New(ctx context.Context, backend Backend, logger zerolog.Logger) (*Store, error) {
	entities, relationships, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	if entities == nil {
		entities = make(map[string]models.StoredEntity)
	}

	logger.Debug().
		Int("entities", len(entities)).
		Int("relationships", len(relationships)).
		Msg("Entity store loaded")

	return &Store{
		backend:       backend,
		entities:      entities,
		relationships: relationships,
		logger:        logger,
	}, nil
}

// AddEntity stores a record under a fresh random id. Input is copied
// shallowly; there is no validation and no deduplication.
func (s *Store) AddEntity(ctx context.Context, data map[string]interface{}, entityType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()

	copied := make(map[string]interface{}, len(data))
	for k, v := range data {
		copied[k] = v
	}

	s.entities[id] = models.StoredEntity{
		ID:        id,
		Type:      entityType,
		Data:      copied,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.persist(ctx); err != nil {
		delete(s.entities, id)
		return "", err
	}

	s.logger.Debug().Str("id", id).Str("type", entityType).Msg("Stored entity")
	return id, nil
}

// AddRelationship appends a relationship. Endpoints are not checked to
// exist; dangling references are allowed.
func (s *Store) AddRelationship(ctx context.Context, sourceID, targetID, relType string, properties map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if properties == nil {
		properties = map[string]interface{}{}
	}

	s.relationships = append(s.relationships, models.StoredRelationship{
		Source:     sourceID,
		Target:     targetID,
		Type:       relType,
		Properties: properties,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})

	if err := s.persist(ctx); err != nil {
		s.relationships = s.relationships[:len(s.relationships)-1]
		return err
	}

	s.logger.Debug().Str("source", sourceID).Str("target", targetID).Str("type", relType).Msg("Stored relationship")
	return nil
}

// Search returns the entities whose serialized data contains the query
// case-insensitively. An optional type filter is applied first. No
// ranking; caller slices the result.
func (s *Store) Search(query string, entityType string) []models.StoredEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queryLower := strings.ToLower(query)

	var results []models.StoredEntity
	for _, entity := range s.entities {
		if entityType != "" && entity.Type != entityType {
			continue
		}
		if strings.Contains(strings.ToLower(entity.SerializedData()), queryLower) {
			results = append(results, entity)
		}
	}
	return results
}

// GetEntity returns an entity by id.
func (s *Store) GetEntity(id string) (models.StoredEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[id]
	if !ok {
		return models.StoredEntity{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entity, nil
}

// GetRelationships returns every relationship that touches the id on
// either end.
func (s *Store) GetRelationships(id string) []models.StoredRelationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []models.StoredRelationship
	for _, rel := range s.relationships {
		if rel.Source == id || rel.Target == id {
			results = append(results, rel)
		}
	}
	return results
}

// Entities returns all stored entities, oldest first. Ties on the
// creation timestamp fall back to id so the order is stable across
// calls, which pagination depends on.
func (s *Store) Entities() []models.StoredEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.StoredEntity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Relationships returns all stored relationships.
func (s *Store) Relationships() []models.StoredRelationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.StoredRelationship, len(s.relationships))
	copy(out, s.relationships)
	return out
}

// Len returns entity and relationship counts.
func (s *Store) Len() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entities), len(s.relationships)
}

func (s *Store) persist(ctx context.Context) error {
	return s.backend.Persist(ctx, s.entities, s.relationships)
}

// Close closes the backing store.
func (s *Store) Close() error {
	return s.backend.Close()
}
