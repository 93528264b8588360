package models

import (
	"encoding/json"
	"time"
)

// EpisodeSource identifies the kind of content an episode carries.
type EpisodeSource string

const (
	SourceText    EpisodeSource = "text"
	SourceMessage EpisodeSource = "message"
	SourceJSON    EpisodeSource = "json"
)

// Episode is a unit of content submitted for entity and fact extraction.
type Episode struct {
	UUID              string        `json:"uuid"`
	Name              string        `json:"name"`
	Body              string        `json:"body"`
	Source            EpisodeSource `json:"source"`
	SourceDescription string        `json:"source_description,omitempty"`
	ReferenceTime     time.Time     `json:"reference_time"`
	GroupID           string        `json:"group_id,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// Fact is a search result representing an extracted relationship or statement.
type Fact struct {
	UUID           string    `json:"uuid"`
	Fact           string    `json:"fact"`
	SourceNodeUUID string    `json:"source_node_uuid,omitempty"`
	TargetNodeUUID string    `json:"target_node_uuid,omitempty"`
	EdgeType       string    `json:"edge_type,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// ExtractedEntity is a single entity pulled from episode text.
type ExtractedEntity struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Summary string `json:"summary,omitempty"`
}

// ExtractedRelation links two extracted entities by name.
type ExtractedRelation struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	EdgeType string `json:"edge_type"`
	Fact     string `json:"fact"`
}

// StoredEntity is a record in the workaround side store. Created on
// explicit add, never mutated, removed only by deleting the store.
type StoredEntity struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt string                 `json:"created_at"`
}

// StoredRelationship links two side-store entities. No referential
// integrity is enforced; dangling endpoints are possible.
type StoredRelationship struct {
	Source     string                 `json:"source"`
	Target     string                 `json:"target"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	CreatedAt  string                 `json:"created_at"`
}

// SerializedData returns the entity data as compact JSON for substring
// search. Marshal of a map cannot fail for JSON-typed values.
func (e StoredEntity) SerializedData() string {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return ""
	}
	return string(data)
}

// Conversation is an input/output pair used as episode feedstock.
type Conversation struct {
	Input    string                 `json:"input"`
	Output   string                 `json:"output"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Body renders the conversation the way episodes expect it.
func (c Conversation) Body() string {
	return c.Input + "\n\nResponse: " + c.Output
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PagedResponse represents a paginated response
type PagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		TotalItems int `json:"total_items"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}
