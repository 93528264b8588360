// Package server exposes the workaround side store over HTTP for
// inspection while probes run: create and search entities, walk
// relationships, and ping the graph backend on demand.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/graphprobe/graphprobe/pkg/cache"
	"github.com/graphprobe/graphprobe/pkg/config"
	"github.com/graphprobe/graphprobe/pkg/entitystore"
	"github.com/graphprobe/graphprobe/pkg/falkor"
	"github.com/graphprobe/graphprobe/pkg/graph"
	"github.com/graphprobe/graphprobe/pkg/models"
	"github.com/graphprobe/graphprobe/pkg/validation"
)

// Server represents the HTTP inspection server
type Server struct {
	config    *config.Config
	store     *entitystore.Store
	cache     cache.Cache
	graph     *graph.Index
	validator validation.Validator
	db        *falkor.Client // nil when FalkorDB is unreachable
	logger    zerolog.Logger
	router    *chi.Mux
}

// New creates a new server instance
func New(
	cfg *config.Config,
	store *entitystore.Store,
	cache cache.Cache,
	graphIndex *graph.Index,
	validator validation.Validator,
	db *falkor.Client,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		config:    cfg,
		store:     store,
		cache:     cache,
		graph:     graphIndex,
		validator: validator,
		db:        db,
		logger:    logger,
		router:    chi.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// Health check
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/entities", s.handleCreateEntity)
		r.Get("/entities", s.handleListEntities)
		r.Get("/entities/{id}", s.handleGetEntity)
		r.Get("/entities/{id}/relationships", s.handleGetRelationships)
		r.Get("/search", s.handleSearch)

		r.Post("/relationships", s.handleCreateRelationship)

		r.Post("/graph/neighbors", s.handleGraphNeighbors)
		r.Post("/graph/path", s.handleGraphPath)
		r.Get("/graph/stats", s.handleGraphStats)

		r.Get("/schemas/{type}", s.handleGetSchema)

		r.Get("/diagnostics/ping", s.handlePing)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info().Str("addr", addr).Msg("Starting server")
	return http.ListenAndServe(addr, s.router)
}

// Handler returns the HTTP handler (useful for testing)
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	entityCount, relCount := s.store.Len()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"version":       config.Version,
		"entities":      entityCount,
		"relationships": relCount,
	})
}

// handleVersion returns server version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"version": config.Version,
	})
}

// handleCreateEntity validates and stores a new entity record
func (s *Server) handleCreateEntity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Type == "" {
		s.writeError(w, http.StatusBadRequest, "type is required")
		return
	}
	if req.Data == nil {
		req.Data = map[string]interface{}{}
	}

	if valid, problems := s.validator.Validate(req.Type, req.Data); !valid {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Validation failed",
			"details": problems,
		})
		return
	}

	id, err := s.store.AddEntity(r.Context(), req.Data, req.Type)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create entity")
		s.writeError(w, http.StatusInternalServerError, "Failed to create entity")
		return
	}

	s.graph.AddEntity(id, req.Type)
	s.invalidateCache()

	s.logger.Info().Str("type", req.Type).Str("id", id).Msg("Created entity")

	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Entity of type %s created successfully", req.Type),
		"id":      id,
	})
}

// handleListEntities lists stored entities with pagination
func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	cacheKey := fmt.Sprintf("entities:list:%d:%d", page, perPage)
	if cached, err := s.cache.Get(r.Context(), cacheKey); err == nil {
		s.writeCached(w, http.StatusOK, cached)
		return
	}

	all := s.store.Entities()
	totalItems := len(all)
	totalPages := (totalItems + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	if end > totalItems {
		end = totalItems
	}

	pageData := []models.StoredEntity{}
	if start < totalItems {
		pageData = all[start:end]
	}

	response := models.PagedResponse{Data: pageData}
	response.Pagination.Page = page
	response.Pagination.PerPage = perPage
	response.Pagination.TotalItems = totalItems
	response.Pagination.TotalPages = totalPages

	_ = s.cache.Set(r.Context(), cacheKey, response, time.Duration(s.config.CacheTTL)*time.Second)

	s.writeJSON(w, http.StatusOK, response)
}

// handleGetEntity retrieves a single stored entity
func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entity, err := s.store.GetEntity(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound,
			fmt.Sprintf("Entity with id %s not found", id))
		return
	}

	s.writeJSON(w, http.StatusOK, entity)
}
