package entitystore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/graphprobe/graphprobe/pkg/models"
)

// SQLiteBackend persists the store in a SQLite database. Persist keeps
// the same replace-everything semantics as the file backend, inside a
// transaction.
type SQLiteBackend struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteBackend opens (or creates) the database and its schema.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	if dbPath == "" {
		dbPath = "entity_store.db"
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	backend := &SQLiteBackend{db: db, dbPath: dbPath}
	if err := backend.initialize(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return backend, nil
}

func (b *SQLiteBackend) initialize(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := b.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS relationships (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			type TEXT NOT NULL,
			properties TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(type);
		CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source);
		CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target);
	`
	if _, err := b.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Load reads the full collections.
func (b *SQLiteBackend) Load(ctx context.Context) (map[string]models.StoredEntity, []models.StoredRelationship, error) {
	entities := make(map[string]models.StoredEntity)

	rows, err := b.db.QueryContext(ctx, "SELECT id, type, data, created_at FROM entities")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e models.StoredEntity
		var dataJSON string
		if err := rows.Scan(&e.ID, &e.Type, &dataJSON, &e.CreatedAt); err != nil {
			return nil, nil, err
		}
		if err := json.Unmarshal([]byte(dataJSON), &e.Data); err != nil {
			return nil, nil, fmt.Errorf("parse entity %s data: %w", e.ID, err)
		}
		entities[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var relationships []models.StoredRelationship

	relRows, err := b.db.QueryContext(ctx, "SELECT source, target, type, properties, created_at FROM relationships ORDER BY seq")
	if err != nil {
		return nil, nil, err
	}
	defer relRows.Close()

	for relRows.Next() {
		var r models.StoredRelationship
		var propsJSON string
		if err := relRows.Scan(&r.Source, &r.Target, &r.Type, &propsJSON, &r.CreatedAt); err != nil {
			return nil, nil, err
		}
		if err := json.Unmarshal([]byte(propsJSON), &r.Properties); err != nil {
			return nil, nil, fmt.Errorf("parse relationship properties: %w", err)
		}
		relationships = append(relationships, r)
	}
	if err := relRows.Err(); err != nil {
		return nil, nil, err
	}

	return entities, relationships, nil
}

// Persist replaces the full collections transactionally.
func (b *SQLiteBackend) Persist(ctx context.Context, entities map[string]models.StoredEntity, relationships []models.StoredRelationship) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entities"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM relationships"); err != nil {
		return err
	}

	for _, e := range entities {
		data, err := json.Marshal(e.Data)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO entities (id, type, data, created_at) VALUES (?, ?, ?, ?)",
			e.ID, e.Type, string(data), e.CreatedAt,
		); err != nil {
			return err
		}
	}

	for _, r := range relationships {
		props := r.Properties
		if props == nil {
			props = map[string]interface{}{}
		}
		propsJSON, err := json.Marshal(props)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO relationships (source, target, type, properties, created_at) VALUES (?, ?, ?, ?, ?)",
			r.Source, r.Target, r.Type, string(propsJSON), r.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
