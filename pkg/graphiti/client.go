// Package graphiti is a knowledge-graph client over FalkorDB in the shape
// of the Graphiti ingestion API: episodes go in, entities and relationship
// facts come out of search. Entity type information survives round trips
// through the summary sentinel encoding in pkg/workaround.
package graphiti

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/graphprobe/graphprobe/pkg/cache"
	"github.com/graphprobe/graphprobe/pkg/entities"
	"github.com/graphprobe/graphprobe/pkg/falkor"
	"github.com/graphprobe/graphprobe/pkg/models"
	"github.com/graphprobe/graphprobe/pkg/workaround"
)

// Quote styles for the group_id clause in fulltext queries. FalkorDB's
// RediSearch accepts the single-quoted form; the double-quoted form is
// the known failing shape ("RediSearch: Syntax error ... near group_id").
const (
	QuoteSingle = "single"
	QuoteDouble = "double"
)

// DefaultGroupID scopes episodes and searches when the caller does not
// provide one.
const DefaultGroupID = "default"

// Options configures a Client. Zero values get sensible defaults.
type Options struct {
	GroupID       string
	QuoteStyle    string
	SearchLimit   int
	RetryAttempts int
	RetryBase     time.Duration
	Extractor     Extractor
	Cache         cache.Cache
	Logger        zerolog.Logger
}

// Client ingests episodes into a FalkorDB graph and searches facts back
// out of it.
type Client struct {
	db            *falkor.Client
	groupID       string
	quoteStyle    string
	searchLimit   int
	retryAttempts int
	retryBase     time.Duration
	extractor     Extractor
	cache         cache.Cache
	logger        zerolog.Logger
}

// EpisodeInput is one unit of content to ingest, along with the schemas
// guiding extraction.
type EpisodeInput struct {
	Name              string
	Body              string
	Source            models.EpisodeSource
	SourceDescription string
	ReferenceTime     time.Time
	GroupID           string
	EntityTypes       map[string]entities.EntityType
	EdgeTypes         map[string]entities.EdgeType
	EdgeTypeMap       map[string][]string
}

// NewClient wraps a FalkorDB connection as a knowledge-graph client.
func NewClient(db *falkor.Client, opts Options) *Client {
	if opts.GroupID == "" {
		opts.GroupID = DefaultGroupID
	}
	if opts.QuoteStyle == "" {
		opts.QuoteStyle = QuoteSingle
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 10
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 5
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = 200 * time.Millisecond
	}
	if opts.Extractor == nil {
		opts.Extractor = HeuristicExtractor{}
	}

	return &Client{
		db:            db,
		groupID:       opts.GroupID,
		quoteStyle:    opts.QuoteStyle,
		searchLimit:   opts.SearchLimit,
		retryAttempts: opts.RetryAttempts,
		retryBase:     opts.RetryBase,
		extractor:     opts.Extractor,
		cache:         opts.Cache,
		logger:        opts.Logger,
	}
}

// AddEpisode stores an episodic node, runs extraction over the (marked)
// body, upserts the extracted entities, and links everything with
// MENTIONS and RELATES_TO edges. Retries the whole unit on failure.
func (c *Client) AddEpisode(ctx context.Context, input EpisodeInput) (*models.Episode, error) {
	episode := c.prepareEpisode(input)

	typeNames := sortedTypeNames(input.EntityTypes)
	if len(typeNames) > 0 {
		episode.Body = workaround.MarkEpisodeBody(episode.Body, typeNames)
		episode.SourceDescription = workaround.MarkSourceDescription(episode.SourceDescription, typeNames)
	}

	err := retry(ctx, c.retryAttempts, c.retryBase, func() error {
		return c.ingest(ctx, episode, input)
	})
	if err != nil {
		return nil, fmt.Errorf("add episode %s: %w", episode.Name, err)
	}

	if c.cache != nil {
		// Stored facts changed; cached search results are stale.
		if err := c.cache.DeletePattern(ctx, "search:*"); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to invalidate search cache")
		}
	}

	c.logger.Info().
		Str("episode", episode.Name).
		Str("group_id", episode.GroupID).
		Msg("Episode added")

	return episode, nil
}

func (c *Client) prepareEpisode(input EpisodeInput) *models.Episode {
	groupID := input.GroupID
	if groupID == "" {
		groupID = c.groupID
	}
	source := input.Source
	if source == "" {
		source = models.SourceText
	}
	referenceTime := input.ReferenceTime
	if referenceTime.IsZero() {
		referenceTime = time.Now().UTC()
	}

	return &models.Episode{
		UUID:              uuid.NewString(),
		Name:              input.Name,
		Body:              input.Body,
		Source:            source,
		SourceDescription: input.SourceDescription,
		ReferenceTime:     referenceTime,
		GroupID:           groupID,
		CreatedAt:         time.Now().UTC(),
	}
}

func (c *Client) ingest(ctx context.Context, episode *models.Episode, input EpisodeInput) error {
	_, err := c.db.Query(ctx, `
		CREATE (e:Episodic {
			uuid: $uuid, name: $name, content: $content,
			source: $source, source_description: $source_description,
			group_id: $group_id, valid_at: $valid_at, created_at: $created_at
		})`,
		map[string]interface{}{
			"uuid":               episode.UUID,
			"name":               episode.Name,
			"content":            episode.Body,
			"source":             string(episode.Source),
			"source_description": episode.SourceDescription,
			"group_id":           episode.GroupID,
			"valid_at":           episode.ReferenceTime,
			"created_at":         episode.CreatedAt,
		})
	if err != nil {
		return fmt.Errorf("create episodic node: %w", err)
	}

	extracted, relations, err := c.extractor.Extract(ctx, episode.Body, input.EntityTypes, input.EdgeTypeMap)
	if err != nil {
		return err
	}

	entityUUIDs := make(map[string]string, len(extracted))
	for _, ent := range extracted {
		entityUUID, err := c.upsertEntity(ctx, episode, ent)
		if err != nil {
			return err
		}
		entityUUIDs[ent.Name] = entityUUID
	}

	for _, rel := range relations {
		srcUUID, srcOK := entityUUIDs[rel.Source]
		tgtUUID, tgtOK := entityUUIDs[rel.Target]
		if !srcOK || !tgtOK {
			continue
		}
		srcType, tgtType := typeOf(extracted, rel)
		if err := c.createRelation(ctx, episode, rel, srcUUID, tgtUUID, srcType, tgtType); err != nil {
			return err
		}
	}

	return nil
}

// upsertEntity merges an Entity node by (name, group_id) and links it from
// the episode. The entity type travels inside the summary sentinel
// encoding because custom node labels do not survive the ingestion path.
func (c *Client) upsertEntity(ctx context.Context, episode *models.Episode, ent models.ExtractedEntity) (string, error) {
	summary := workaround.EncodeSummary(map[string]interface{}{
		"name":    ent.Name,
		"summary": ent.Summary,
	}, ent.Type)

	result, err := c.db.Query(ctx, `
		MERGE (n:Entity {name: $name, group_id: $group_id})
		ON CREATE SET n.uuid = $uuid, n.created_at = $created_at
		SET n.summary = $summary
		WITH n
		MATCH (e:Episodic {uuid: $episode_uuid})
		MERGE (e)-[:MENTIONS {group_id: $group_id}]->(n)
		RETURN n.uuid`,
		map[string]interface{}{
			"name":         ent.Name,
			"group_id":     episode.GroupID,
			"uuid":         uuid.NewString(),
			"created_at":   time.Now().UTC(),
			"summary":      summary,
			"episode_uuid": episode.UUID,
		})
	if err != nil {
		return "", fmt.Errorf("upsert entity %s: %w", ent.Name, err)
	}

	if v, ok := result.Scalar(); ok {
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("upsert entity %s: no uuid returned", ent.Name)
}

func (c *Client) createRelation(ctx context.Context, episode *models.Episode, rel models.ExtractedRelation,
	srcUUID, tgtUUID string, srcType, tgtType string) error {

	fact := workaround.AnnotateFact(rel.Fact, srcType, tgtType, rel.EdgeType)

	_, err := c.db.Query(ctx, `
		MATCH (s:Entity {uuid: $src}), (t:Entity {uuid: $tgt})
		MERGE (s)-[r:RELATES_TO {name: $edge_type, group_id: $group_id}]->(t)
		ON CREATE SET r.uuid = $uuid, r.created_at = $created_at
		SET r.fact = $fact, r.episodes = [$episode_uuid]`,
		map[string]interface{}{
			"src":          srcUUID,
			"tgt":          tgtUUID,
			"edge_type":    rel.EdgeType,
			"group_id":     episode.GroupID,
			"uuid":         uuid.NewString(),
			"created_at":   time.Now().UTC(),
			"fact":         fact,
			"episode_uuid": episode.UUID,
		})
	if err != nil {
		return fmt.Errorf("create relation %s-%s->%s: %w", rel.Source, rel.EdgeType, rel.Target, err)
	}
	return nil
}

// typeOf resolves the entity types of a relation's endpoints from the
// extraction batch.
func typeOf(extracted []models.ExtractedEntity, rel models.ExtractedRelation) (string, string) {
	var srcType, tgtType string
	for _, ent := range extracted {
		if ent.Name == rel.Source {
			srcType = ent.Type
		}
		if ent.Name == rel.Target {
			tgtType = ent.Type
		}
	}
	return srcType, tgtType
}

// BuildIndicesAndConstraints creates the range and fulltext indexes
// searches rely on. Re-running against an already indexed graph is fine.
func (c *Client) BuildIndicesAndConstraints(ctx context.Context) error {
	statements := []string{
		`CREATE INDEX FOR (n:Entity) ON (n.uuid)`,
		`CREATE INDEX FOR (n:Entity) ON (n.group_id)`,
		`CREATE INDEX FOR (n:Entity) ON (n.name)`,
		`CREATE INDEX FOR (n:Episodic) ON (n.uuid)`,
		`CREATE INDEX FOR (n:Episodic) ON (n.group_id)`,
		`CALL db.idx.fulltext.createNodeIndex('Entity', 'name', 'summary', 'group_id')`,
	}

	for _, stmt := range statements {
		if _, err := c.db.Query(ctx, stmt, nil); err != nil {
			if isAlreadyIndexed(err) {
				continue
			}
			return fmt.Errorf("build indices: %w", err)
		}
	}
	return nil
}

func isAlreadyIndexed(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already indexed") || strings.Contains(msg, "already exists")
}

// ClearData wipes the graph and any cached search results.
func (c *Client) ClearData(ctx context.Context) error {
	if err := c.db.Delete(ctx); err != nil {
		return fmt.Errorf("clear graph: %w", err)
	}
	if c.cache != nil {
		if err := c.cache.DeletePattern(ctx, "search:*"); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to clear search cache")
		}
	}
	return nil
}

// GroupID returns the client's default scoping group.
func (c *Client) GroupID() string {
	return c.groupID
}

func sortedTypeNames(types map[string]entities.EntityType) []string {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
