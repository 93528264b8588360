package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/graphprobe/graphprobe/pkg/models"
)

// handleSearch runs the side store's substring search
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	entityType := r.URL.Query().Get("type")

	cacheKey := fmt.Sprintf("entities:search:%s:%s", entityType, query)
	if cached, err := s.cache.Get(r.Context(), cacheKey); err == nil {
		s.writeCached(w, http.StatusOK, cached)
		return
	}

	results := s.store.Search(query, entityType)

	response := map[string]interface{}{
		"query":   query,
		"type":    entityType,
		"count":   len(results),
		"results": results,
	}
	_ = s.cache.Set(r.Context(), cacheKey, response, time.Duration(s.config.CacheTTL)*time.Second)

	s.writeJSON(w, http.StatusOK, response)
}

// handleGetRelationships lists relationships touching an entity, in
// either direction
func (s *Server) handleGetRelationships(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rels := s.store.GetRelationships(id)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":            id,
		"count":         len(rels),
		"relationships": rels,
	})
}

// handleCreateRelationship stores a relationship; endpoints are not
// checked for existence, matching the store's semantics
func (s *Server) handleCreateRelationship(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source     string                 `json:"source"`
		Target     string                 `json:"target"`
		Type       string                 `json:"type"`
		Properties map[string]interface{} `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Source == "" || req.Target == "" || req.Type == "" {
		s.writeError(w, http.StatusBadRequest, "source, target and type are required")
		return
	}

	if err := s.store.AddRelationship(r.Context(), req.Source, req.Target, req.Type, req.Properties); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create relationship")
		s.writeError(w, http.StatusInternalServerError, "Failed to create relationship")
		return
	}

	s.graph.AddRelationship(req.Source, req.Target, req.Type)
	s.invalidateCache()

	s.logger.Info().
		Str("source", req.Source).
		Str("target", req.Target).
		Str("type", req.Type).
		Msg("Created relationship")

	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Relationship %s created successfully", req.Type),
	})
}

// handleGraphNeighbors gets neighbors of a node in the relationship index
func (s *Server) handleGraphNeighbors(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NodeID    string `json:"node_id"`
		Direction string `json:"direction"` // "out", "in", or "both"
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Direction == "" {
		req.Direction = "out"
	}

	result := make(map[string]interface{})
	if req.Direction == "out" || req.Direction == "both" {
		result["outgoing"] = s.graph.Neighbors(req.NodeID)
	}
	if req.Direction == "in" || req.Direction == "both" {
		result["incoming"] = s.graph.Incoming(req.NodeID)
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"neighbors": result,
	})
}

// handleGraphPath finds a path between two entities
func (s *Server) handleGraphPath(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From     string `json:"from"`
		To       string `json:"to"`
		MaxDepth int    `json:"max_depth"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.MaxDepth <= 0 {
		req.MaxDepth = 5
	}

	path, err := s.graph.FindPath(req.From, req.To, req.MaxDepth)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":   req.From,
		"to":     req.To,
		"path":   path,
		"length": len(path) - 1,
	})
}

// handleGraphStats returns relationship index statistics
func (s *Server) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"node_count": s.graph.NodeCount(),
		"edge_count": s.graph.EdgeCount(),
	})
}

// handleGetSchema reports whether a schema is registered for a type
func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "type")

	if !s.validator.HasSchema(entityType) {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("No schema found for %s", entityType))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"type":       entityType,
		"registered": true,
	})
}

// handlePing checks FalkorDB reachability on demand
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"backend": "falkordb",
			"status":  "not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"backend": "falkordb",
			"status":  "unreachable",
			"error":   err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"backend": "falkordb",
		"graph":   s.db.Graph(),
		"status":  "ok",
	})
}

// Helper functions

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeCached replays an already-encoded response body from the cache.
func (s *Server) writeCached(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, models.ErrorResponse{
		Error: struct {
			Message string `json:"message"`
			Status  int    `json:"status"`
		}{
			Message: message,
			Status:  status,
		},
	})
}

func (s *Server) invalidateCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.cache.DeletePattern(ctx, "entities"); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate cache")
	}
}
