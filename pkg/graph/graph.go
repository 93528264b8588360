package graph

import (
	"fmt"
	"sync"

	"github.com/graphprobe/graphprobe/pkg/models"
)

// Index is an in-memory adjacency index over the entity side store. It is
// rebuilt from the stored records rather than persisted on its own; the
// side store files remain the source of truth.
type Index struct {
	adjacency map[string]map[string]string // source -> {target -> relationship type}
	reverse   map[string]map[string]string // incoming edges
	byType    map[string][]string          // entity type -> entity ids
	mu        sync.RWMutex
}

// NewIndex creates an empty relationship index.
func NewIndex() *Index {
	return &Index{
		adjacency: make(map[string]map[string]string),
		reverse:   make(map[string]map[string]string),
		byType:    make(map[string][]string),
	}
}

// Rebuild replaces the index contents from a snapshot of stored records.
func (g *Index) Rebuild(entities []models.StoredEntity, relationships []models.StoredRelationship) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.adjacency = make(map[string]map[string]string)
	g.reverse = make(map[string]map[string]string)
	g.byType = make(map[string][]string)

	for _, e := range entities {
		g.ensureNode(e.ID)
		if e.Type != "" {
			g.byType[e.Type] = append(g.byType[e.Type], e.ID)
		}
	}
	for _, r := range relationships {
		g.ensureNode(r.Source)
		g.ensureNode(r.Target)
		g.adjacency[r.Source][r.Target] = r.Type
		g.reverse[r.Target][r.Source] = r.Type
	}
}

// AddEntity registers a single node without waiting for a full rebuild.
func (g *Index) AddEntity(id, entityType string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensureNode(id)
	if entityType != "" {
		g.byType[entityType] = append(g.byType[entityType], id)
	}
}

// AddRelationship registers a single directed edge, creating endpoints
// as needed. Dangling endpoints from the store become bare nodes here.
func (g *Index) AddRelationship(source, target, relType string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensureNode(source)
	g.ensureNode(target)
	g.adjacency[source][target] = relType
	g.reverse[target][source] = relType
}

// ensureNode must be called with the write lock held.
func (g *Index) ensureNode(id string) {
	if _, exists := g.adjacency[id]; !exists {
		g.adjacency[id] = make(map[string]string)
		g.reverse[id] = make(map[string]string)
	}
}

// Neighbors returns outgoing edges of a node as {target -> relationship type}.
func (g *Index) Neighbors(id string) map[string]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return copyEdges(g.adjacency[id])
}

// Incoming returns incoming edges of a node as {source -> relationship type}.
func (g *Index) Incoming(id string) map[string]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return copyEdges(g.reverse[id])
}

// NodesOfType returns the ids of all indexed entities of the given type.
func (g *Index) NodesOfType(entityType string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := g.byType[entityType]
	result := make([]string, len(ids))
	copy(result, ids)
	return result
}

// FindPath finds a shortest path between two nodes using BFS over outgoing
// edges, bounded by maxDepth hops.
func (g *Index) FindPath(from, to string, maxDepth int) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, exists := g.adjacency[from]; !exists {
		return nil, fmt.Errorf("node %s not found", from)
	}
	if _, exists := g.adjacency[to]; !exists {
		return nil, fmt.Errorf("node %s not found", to)
	}

	queue := [][]string{{from}}
	visited := map[string]bool{from: true}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		if len(path) > maxDepth+1 {
			continue
		}

		current := path[len(path)-1]
		if current == to {
			return path, nil
		}

		for neighbor := range g.adjacency[current] {
			if !visited[neighbor] {
				visited[neighbor] = true
				newPath := make([]string, len(path), len(path)+1)
				copy(newPath, path)
				newPath = append(newPath, neighbor)
				queue = append(queue, newPath)
			}
		}
	}

	return nil, fmt.Errorf("no path from %s to %s within %d hops", from, to, maxDepth)
}

// NodeCount returns the number of indexed nodes.
func (g *Index) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.adjacency)
}

// EdgeCount returns the number of indexed edges.
func (g *Index) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	count := 0
	for _, neighbors := range g.adjacency {
		count += len(neighbors)
	}
	return count
}

func copyEdges(edges map[string]string) map[string]string {
	result := make(map[string]string, len(edges))
	for k, v := range edges {
		result[k] = v
	}
	return result
}
