package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/graphprobe/graphprobe/pkg/cache"
	"github.com/graphprobe/graphprobe/pkg/config"
	"github.com/graphprobe/graphprobe/pkg/entities"
	"github.com/graphprobe/graphprobe/pkg/entitystore"
	"github.com/graphprobe/graphprobe/pkg/graph"
	"github.com/graphprobe/graphprobe/pkg/validation"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()

	backend, err := entitystore.NewBackend("jsonfile", map[string]interface{}{
		"store_dir": t.TempDir(),
	})
	if err != nil {
		t.Fatal(err)
	}
	store, err := entitystore.New(context.Background(), backend, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	validator := validation.NewSchemaValidator(entities.AllEntityTypes())

	return New(cfg, store, cache.NewMemoryCache(128, time.Minute),
		graph.NewIndex(), validator, nil, zerolog.Nop())
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v\n%s", err, rec.Body.String())
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	s := setupTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("Expected ok status, got %v", body["status"])
	}
	if body["version"] != config.Version {
		t.Errorf("Expected version %s, got %v", config.Version, body["version"])
	}
}

func TestCreateEntity(t *testing.T) {
	s := setupTestServer(t)

	t.Run("valid entity", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/entities", map[string]interface{}{
			"type": "Account",
			"data": map[string]interface{}{
				"account_name": "Savings-001",
				"account_type": "wadiah",
				"institution":  "Test Bank",
				"opened_date":  "2026-01-15",
				"balance":      50000.0,
			},
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		id, _ := body["id"].(string)
		if id == "" {
			t.Fatal("Expected entity id in response")
		}

		getRec := doRequest(t, s, http.MethodGet, "/api/v1/entities/"+id, nil)
		if getRec.Code != http.StatusOK {
			t.Fatalf("Expected 200 on get, got %d", getRec.Code)
		}
	})

	t.Run("schema violation rejected", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/entities", map[string]interface{}{
			"type": "Account",
			"data": map[string]interface{}{
				"balance": 100.0, // required fields missing
			},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown type accepted", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/entities", map[string]interface{}{
			"type": "Widget",
			"data": map[string]interface{}{"anything": "goes"},
		})
		if rec.Code != http.StatusCreated {
			t.Errorf("Expected 201 for unknown type, got %d", rec.Code)
		}
	})

	t.Run("missing type rejected", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/entities", map[string]interface{}{
			"data": map[string]interface{}{"x": 1},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestSearchEndpoint(t *testing.T) {
	s := setupTestServer(t)

	for _, e := range []map[string]interface{}{
		{"type": "Account", "data": map[string]interface{}{
			"account_name": "Savings-001", "account_type": "wadiah",
			"institution": "Test Bank", "opened_date": "2026-01-15", "balance": 50000.0}},
		{"type": "Account", "data": map[string]interface{}{
			"account_name": "Checking-002", "account_type": "qard",
			"institution": "Test Bank", "opened_date": "2026-02-01", "balance": 100.0}},
	} {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/entities", e)
		if rec.Code != http.StatusCreated {
			t.Fatalf("Setup create failed: %d", rec.Code)
		}
	}

	t.Run("matches one record", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/search?q=Savings&type=Account", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["count"] != float64(1) {
			t.Errorf("Expected exactly 1 result, got %v", body["count"])
		}
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/search?q=nonexistent", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["count"] != float64(0) {
			t.Errorf("Expected 0 results, got %v", body["count"])
		}
	})

	t.Run("missing query rejected", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/search", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestRelationshipEndpoints(t *testing.T) {
	s := setupTestServer(t)

	createEntity := func(name string) string {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/entities", map[string]interface{}{
			"type": "Task",
			"data": map[string]interface{}{"description": name},
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Setup create failed: %d: %s", rec.Code, rec.Body.String())
		}
		return decodeBody(t, rec)["id"].(string)
	}

	taskID := createEntity("Draft outline")
	otherID := createEntity("Review outline")

	rec := doRequest(t, s, http.MethodPost, "/api/v1/relationships", map[string]interface{}{
		"source": taskID,
		"target": otherID,
		"type":   "BlockedBy",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	t.Run("relationships visible from both endpoints", func(t *testing.T) {
		for _, id := range []string{taskID, otherID} {
			rec := doRequest(t, s, http.MethodGet,
				fmt.Sprintf("/api/v1/entities/%s/relationships", id), nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rec.Code)
			}
			if decodeBody(t, rec)["count"] != float64(1) {
				t.Errorf("Expected 1 relationship for %s", id)
			}
		}
	})

	t.Run("neighbors through the graph index", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/graph/neighbors", map[string]interface{}{
			"node_id":   taskID,
			"direction": "both",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		neighbors := body["neighbors"].(map[string]interface{})
		outgoing := neighbors["outgoing"].(map[string]interface{})
		if outgoing[otherID] != "BlockedBy" {
			t.Errorf("Expected BlockedBy edge to %s, got %v", otherID, outgoing)
		}
	})

	t.Run("path lookup", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/graph/path", map[string]interface{}{
			"from": taskID,
			"to":   otherID,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if decodeBody(t, rec)["length"] != float64(1) {
			t.Error("Expected single-hop path")
		}
	})

	t.Run("stats", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/graph/stats", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["node_count"].(float64) < 2 {
			t.Errorf("Expected at least 2 nodes, got %v", body["node_count"])
		}
	})

	t.Run("incomplete relationship rejected", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/relationships", map[string]interface{}{
			"source": taskID,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestSchemaEndpoint(t *testing.T) {
	s := setupTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/schemas/Account", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for known schema, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/schemas/Widget", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown schema, got %d", rec.Code)
	}
}

func TestPingWithoutBackend(t *testing.T) {
	s := setupTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/diagnostics/ping", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without backend, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "not configured" {
		t.Errorf("Unexpected status: %v", body["status"])
	}
}

func TestEntityNotFound(t *testing.T) {
	s := setupTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/entities/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
