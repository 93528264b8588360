package graphiti

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/graphprobe/graphprobe/pkg/cache"
	"github.com/graphprobe/graphprobe/pkg/falkor"
	"github.com/graphprobe/graphprobe/pkg/models"
)

// SearchOption adjusts one search call.
type SearchOption func(*searchConfig)

type searchConfig struct {
	groupID    string
	quoteStyle string
	limit      int
}

// WithGroupID scopes one search to a different group.
func WithGroupID(groupID string) SearchOption {
	return func(c *searchConfig) { c.groupID = groupID }
}

// WithQuoteStyle overrides the quote style for one search, used by the
// quote-compatibility probe to reproduce the failing form on demand.
func WithQuoteStyle(style string) SearchOption {
	return func(c *searchConfig) { c.quoteStyle = style }
}

// WithLimit caps the number of results for one search.
func WithLimit(limit int) SearchOption {
	return func(c *searchConfig) { c.limit = limit }
}

// Search runs a fulltext query over entities and expands their RELATES_TO
// edges into facts. The fulltext string embeds a group_id scoping clause;
// with the double-quote style, FalkorDB's RediSearch rejects the query
// with a syntax error near group_id, which is the failure this toolkit
// exists to diagnose.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) ([]models.Fact, error) {
	cfg := searchConfig{
		groupID:    c.groupID,
		quoteStyle: c.quoteStyle,
		limit:      c.searchLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	cacheKey := fmt.Sprintf("search:%s:%s:%d", cfg.groupID, query, cfg.limit)
	if c.cache != nil {
		var cached []models.Fact
		err := cache.GetJSON(ctx, c.cache, cacheKey, &cached)
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, cache.ErrMiss):
			c.logger.Warn().Err(err).Msg("Search cache read failed")
		}
	}

	fulltext := BuildFulltextQuery(query, cfg.groupID, cfg.quoteStyle)

	var facts []models.Fact
	err := retry(ctx, c.retryAttempts, c.retryBase, func() error {
		result, err := c.db.ReadOnlyQuery(ctx, `
			CALL db.idx.fulltext.queryNodes('Entity', $q) YIELD node
			MATCH (node)-[r:RELATES_TO]-(m:Entity)
			RETURN r.uuid, r.fact, r.name, node.uuid, m.uuid, r.created_at
			LIMIT `+fmt.Sprintf("%d", cfg.limit),
			map[string]interface{}{"q": fulltext})
		if err != nil {
			return err
		}
		facts = factsFromResult(result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, facts, 0); err != nil {
			c.logger.Warn().Err(err).Msg("Search cache write failed")
		}
	}

	return facts, nil
}

// BuildFulltextQuery renders the fulltext string sent to RediSearch. The
// group clause comes first, then the escaped query terms. quoteStyle
// selects how the group id value is quoted: "single" is the form FalkorDB
// accepts, "double" reproduces the upstream failing form.
func BuildFulltextQuery(query, groupID, quoteStyle string) string {
	quote := "'"
	if quoteStyle == QuoteDouble {
		quote = `"`
	}
	return fmt.Sprintf("group_id:%s%s%s AND (%s)", quote, groupID, quote, escapeFulltext(query))
}

// escapeFulltext neutralizes RediSearch operator characters in user query
// terms so they match as plain text.
func escapeFulltext(query string) string {
	replacer := strings.NewReplacer(
		`"`, ` `, `'`, ` `, `@`, ` `, `!`, ` `, `{`, ` `, `}`, ` `,
		`(`, ` `, `)`, ` `, `|`, ` `, `-`, ` `, `~`, ` `, `*`, ` `,
		`[`, ` `, `]`, ` `, `:`, ` `,
	)
	return strings.Join(strings.Fields(replacer.Replace(query)), " ")
}

func factsFromResult(result *falkor.Result) []models.Fact {
	facts := make([]models.Fact, 0, len(result.Rows))
	for _, row := range result.Rows {
		fact := models.Fact{
			UUID:           falkor.StringCell(row, 0),
			Fact:           falkor.StringCell(row, 1),
			EdgeType:       falkor.StringCell(row, 2),
			SourceNodeUUID: falkor.StringCell(row, 3),
			TargetNodeUUID: falkor.StringCell(row, 4),
		}
		if ts := falkor.StringCell(row, 5); ts != "" {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				fact.CreatedAt = parsed
			}
		}
		facts = append(facts, fact)
	}
	return facts
}
