package entitystore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphprobe/graphprobe/pkg/entitystore"
)

func openSQLiteStore(t *testing.T, path string) *entitystore.Store {
	t.Helper()

	backend, err := entitystore.NewBackend("sqlite", map[string]interface{}{
		"db_path": path,
	})
	require.NoError(t, err)

	store, err := entitystore.New(context.Background(), backend, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "entities.db")
	ctx := context.Background()

	store := openSQLiteStore(t, dbPath)

	accountID, err := store.AddEntity(ctx, map[string]interface{}{
		"account_name": "Savings-001",
		"balance":      50000.0,
	}, "Account")
	require.NoError(t, err)

	otherID, err := store.AddEntity(ctx, map[string]interface{}{
		"account_name": "Checking-002",
		"balance":      100.0,
	}, "Account")
	require.NoError(t, err)

	require.NoError(t, store.AddRelationship(ctx, accountID, otherID, "TransfersTo",
		map[string]interface{}{"monthly": true}))
	require.NoError(t, store.Close())

	reopened := openSQLiteStore(t, dbPath)
	defer reopened.Close()

	entity, err := reopened.GetEntity(accountID)
	require.NoError(t, err)
	assert.Equal(t, "Account", entity.Type)
	assert.Equal(t, "Savings-001", entity.Data["account_name"])
	assert.InDelta(t, 50000.0, entity.Data["balance"], 0.001)

	results := reopened.Search("Savings", "Account")
	require.Len(t, results, 1)
	assert.Equal(t, "Savings-001", results[0].Data["account_name"])

	rels := reopened.GetRelationships(otherID)
	require.Len(t, rels, 1)
	assert.Equal(t, "TransfersTo", rels[0].Type)
	assert.Equal(t, true, rels[0].Properties["monthly"])
}

func TestSQLiteBackendEmptyLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fresh.db")

	store := openSQLiteStore(t, dbPath)
	defer store.Close()

	entities, rels := store.Len()
	assert.Equal(t, 0, entities)
	assert.Equal(t, 0, rels)
}
