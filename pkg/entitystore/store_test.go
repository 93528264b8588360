package entitystore_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/graphprobe/graphprobe/pkg/entitystore"
)

func setupTestStore(t *testing.T) (*entitystore.Store, string) {
	t.Helper()

	tmpDir := t.TempDir()
	store, err := openStore(t, tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	return store, tmpDir
}

func openStore(t *testing.T, dir string) (*entitystore.Store, error) {
	t.Helper()

	backend, err := entitystore.NewBackend("jsonfile", map[string]interface{}{
		"store_dir": dir,
	})
	if err != nil {
		return nil, err
	}
	return entitystore.New(context.Background(), backend, zerolog.Nop())
}

func TestAddEntity(t *testing.T) {
	store, _ := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	t.Run("returns fresh id", func(t *testing.T) {
		id, err := store.AddEntity(ctx, map[string]interface{}{
			"description": "Write report",
			"priority":    "A",
		}, "Task")
		if err != nil {
			t.Fatalf("AddEntity failed: %v", err)
		}
		if id == "" {
			t.Error("Expected non-empty id")
		}

		entity, err := store.GetEntity(id)
		if err != nil {
			t.Fatalf("GetEntity failed: %v", err)
		}
		if entity.Type != "Task" {
			t.Errorf("Expected type Task, got %s", entity.Type)
		}
		if entity.Data["priority"] != "A" {
			t.Errorf("Expected priority A, got %v", entity.Data["priority"])
		}
		if entity.CreatedAt == "" {
			t.Error("Expected created_at to be set")
		}
	})

	t.Run("identical adds produce distinct records", func(t *testing.T) {
		data := map[string]interface{}{"description": "Duplicate me"}

		id1, err := store.AddEntity(ctx, data, "Task")
		if err != nil {
			t.Fatal(err)
		}
		id2, err := store.AddEntity(ctx, data, "Task")
		if err != nil {
			t.Fatal(err)
		}

		if id1 == id2 {
			t.Error("Expected distinct ids for identical input")
		}
		if _, err := store.GetEntity(id1); err != nil {
			t.Error("First record missing")
		}
		if _, err := store.GetEntity(id2); err != nil {
			t.Error("Second record missing")
		}
	})

	t.Run("stores a shallow copy", func(t *testing.T) {
		data := map[string]interface{}{"description": "original"}
		id, err := store.AddEntity(ctx, data, "Task")
		if err != nil {
			t.Fatal(err)
		}

		data["description"] = "mutated"

		entity, _ := store.GetEntity(id)
		if entity.Data["description"] != "original" {
			t.Error("Stored record should not see caller mutation")
		}
	})
}

func TestGetEntityNotFound(t *testing.T) {
	store, _ := setupTestStore(t)
	defer store.Close()

	_, err := store.GetEntity("no-such-id")
	if err == nil {
		t.Fatal("Expected error for missing entity")
	}
	if !errors.Is(err, entitystore.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	store, _ := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	if _, err := store.AddEntity(ctx, map[string]interface{}{
		"account_name": "Savings-001",
		"balance":      50000.0,
	}, "Account"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddEntity(ctx, map[string]interface{}{
		"account_name": "Checking-002",
		"balance":      100.0,
	}, "Account"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddEntity(ctx, map[string]interface{}{
		"description": "savings reminder task",
	}, "Task"); err != nil {
		t.Fatal(err)
	}

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		results := store.Search("SAVINGS", "")
		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
	})

	t.Run("type filter applied first", func(t *testing.T) {
		results := store.Search("Savings", "Account")
		if len(results) != 1 {
			t.Fatalf("Expected exactly 1 result, got %d", len(results))
		}
		if results[0].Data["account_name"] != "Savings-001" {
			t.Errorf("Expected Savings-001, got %v", results[0].Data["account_name"])
		}
	})

	t.Run("no match returns empty", func(t *testing.T) {
		results := store.Search("nonexistent-term", "")
		if len(results) != 0 {
			t.Errorf("Expected empty result, got %d", len(results))
		}
	})
}

func TestRelationships(t *testing.T) {
	store, _ := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	taskID, err := store.AddEntity(ctx, map[string]interface{}{"description": "Draft outline"}, "Task")
	if err != nil {
		t.Fatal(err)
	}
	projectID, err := store.AddEntity(ctx, map[string]interface{}{"project_name": "Book"}, "Project")
	if err != nil {
		t.Fatal(err)
	}

	if err := store.AddRelationship(ctx, taskID, projectID, "BelongsTo", map[string]interface{}{
		"since": "2026-01-01",
	}); err != nil {
		t.Fatalf("AddRelationship failed: %v", err)
	}

	t.Run("lookup is direction-agnostic", func(t *testing.T) {
		fromSource := store.GetRelationships(taskID)
		fromTarget := store.GetRelationships(projectID)

		if len(fromSource) != 1 || len(fromTarget) != 1 {
			t.Fatalf("Expected 1 relationship from each side, got %d and %d",
				len(fromSource), len(fromTarget))
		}
		if fromSource[0].Type != "BelongsTo" {
			t.Errorf("Unexpected relationship type: %s", fromSource[0].Type)
		}
	})

	t.Run("dangling endpoints are allowed", func(t *testing.T) {
		if err := store.AddRelationship(ctx, taskID, "ghost-id", "BlockedBy", nil); err != nil {
			t.Fatalf("Dangling relationship should be accepted: %v", err)
		}
		rels := store.GetRelationships("ghost-id")
		if len(rels) != 1 {
			t.Errorf("Expected dangling relationship to be found, got %d", len(rels))
		}
	})

	t.Run("unknown id has no relationships", func(t *testing.T) {
		if rels := store.GetRelationships("unrelated"); len(rels) != 0 {
			t.Errorf("Expected none, got %d", len(rels))
		}
	})
}

func TestEntitiesOrderIsStable(t *testing.T) {
	store, _ := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := store.AddEntity(ctx, map[string]interface{}{
			"description": fmt.Sprintf("task %d", i),
		}, "Task"); err != nil {
			t.Fatal(err)
		}
	}

	first := store.Entities()
	second := store.Entities()
	if len(first) != 10 || len(second) != 10 {
		t.Fatalf("Expected 10 entities, got %d and %d", len(first), len(second))
	}

	// Paginating over repeated calls relies on a deterministic order.
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("Order changed between calls at index %d: %s vs %s",
				i, first[i].ID, second[i].ID)
		}
	}

	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if cur.CreatedAt < prev.CreatedAt {
			t.Errorf("Entities not ordered by created_at at index %d", i)
		}
		if cur.CreatedAt == prev.CreatedAt && cur.ID < prev.ID {
			t.Errorf("Same-timestamp entities not ordered by id at index %d", i)
		}
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := openStore(t, tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	id, err := store.AddEntity(ctx, map[string]interface{}{
		"account_name": "Savings-001",
	}, "Account")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AddRelationship(ctx, id, id, "SelfLink", nil); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := openStore(t, tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	entity, err := reopened.GetEntity(id)
	if err != nil {
		t.Fatalf("Entity lost across reopen: %v", err)
	}
	if entity.Data["account_name"] != "Savings-001" {
		t.Errorf("Data lost across reopen: %v", entity.Data)
	}
	if rels := reopened.GetRelationships(id); len(rels) != 1 {
		t.Errorf("Relationships lost across reopen: %d", len(rels))
	}

	// The backing layout is the documented pair of JSON files
	for _, name := range []string{"entities.json", "relationships.json"} {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); err != nil {
			t.Errorf("Expected %s on disk: %v", name, err)
		}
	}
}

func TestBackendFactory(t *testing.T) {
	t.Run("registered backends", func(t *testing.T) {
		backends := entitystore.ListBackends()
		found := map[string]bool{}
		for _, name := range backends {
			found[name] = true
		}
		if !found["jsonfile"] || !found["sqlite"] {
			t.Errorf("Expected jsonfile and sqlite backends, got %v", backends)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := entitystore.NewBackend("postgres", nil)
		if err == nil {
			t.Error("Expected error for unknown backend")
		}
	})
}
