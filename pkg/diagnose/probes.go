package diagnose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/graphprobe/graphprobe/pkg/entities"
	"github.com/graphprobe/graphprobe/pkg/falkor"
	"github.com/graphprobe/graphprobe/pkg/graphiti"
	"github.com/graphprobe/graphprobe/pkg/models"
)

// BuiltinProbes returns the standard probe sequence: connect, clear,
// build indices, then the ingestion and search variants that exercise
// the known failure surfaces.
func BuiltinProbes() []Probe {
	return []Probe{
		ConnectionProbe(),
		ClearProbe(),
		IndicesProbe(),
		VanillaEpisodeProbe(),
		CustomEntityTypesProbe(),
		ExplicitGroupIDProbe(),
		QuoteCompatibilityProbe(),
		SearchProbe(),
		ConversationIngestProbe(),
		CustomLabelProbe(),
	}
}

// ProbeByName finds a built-in probe by name.
func ProbeByName(name string) (Probe, bool) {
	for _, p := range BuiltinProbes() {
		if p.Name == name {
			return p, true
		}
	}
	return Probe{}, false
}

// ConnectionProbe checks basic connectivity with a ping and a trivial
// graph query.
func ConnectionProbe() Probe {
	return Probe{
		Name:        "basic-connection",
		Description: "ping the server and run RETURN 1",
		Run: func(ctx context.Context, env *Env) error {
			if err := env.DB.Ping(ctx); err != nil {
				return err
			}
			result, err := env.DB.Query(ctx, "RETURN 1", nil)
			if err != nil {
				return err
			}
			if _, ok := result.Scalar(); !ok {
				return fmt.Errorf("RETURN 1 produced no rows")
			}
			return nil
		},
	}
}

// ClearProbe wipes the graph so later probes start from a known state.
func ClearProbe() Probe {
	return Probe{
		Name:        "clear-data",
		Description: "delete the graph",
		Run: func(ctx context.Context, env *Env) error {
			return env.Client.ClearData(ctx)
		},
	}
}

// IndicesProbe builds the range and fulltext indexes.
func IndicesProbe() Probe {
	return Probe{
		Name:        "build-indices",
		Description: "create range and fulltext indexes",
		Run: func(ctx context.Context, env *Env) error {
			return env.Client.BuildIndicesAndConstraints(ctx)
		},
	}
}

// VanillaEpisodeProbe ingests a plain text episode with no custom
// schemas, the configuration that is expected to work everywhere.
func VanillaEpisodeProbe() Probe {
	return Probe{
		Name:        "vanilla-episode",
		Description: "add a plain episode without custom entity types",
		Run: func(ctx context.Context, env *Env) error {
			_, err := env.Client.AddEpisode(ctx, graphiti.EpisodeInput{
				Name: "probe-vanilla-" + uuid.NewString()[:8],
				Body: "Alice configured the database server yesterday.",
			})
			return err
		},
	}
}

// CustomEntityTypesProbe ingests an episode with the GTD fixture schemas
// attached, the configuration the workaround layer exists for.
func CustomEntityTypesProbe() Probe {
	return Probe{
		Name:        "custom-entity-types",
		Description: "add an episode with custom entity type schemas",
		Run: func(ctx context.Context, env *Env) error {
			gtd := entities.GTD()
			_, err := env.Client.AddEpisode(ctx, graphiti.EpisodeInput{
				Name:        "probe-custom-" + uuid.NewString()[:8],
				Body:        "Task: Review probe output\nProject: Diagnostics",
				EntityTypes: gtd.EntityTypes,
				EdgeTypeMap: gtd.EdgeMap,
			})
			return err
		},
	}
}

// ExplicitGroupIDProbe ingests with a non-default group id, then searches
// within that group.
func ExplicitGroupIDProbe() Probe {
	return Probe{
		Name:        "explicit-group-id",
		Description: "ingest and search under an explicit group id",
		Run: func(ctx context.Context, env *Env) error {
			groupID := "probe-group-" + uuid.NewString()[:8]
			_, err := env.Client.AddEpisode(ctx, graphiti.EpisodeInput{
				Name:    "probe-grouped",
				Body:    "Scoped content for group probing.",
				GroupID: groupID,
			})
			if err != nil {
				return err
			}
			_, err = env.Client.Search(ctx, "scoped content", graphiti.WithGroupID(groupID))
			return err
		},
	}
}

// QuoteCompatibilityProbe runs the same search with both group_id quote
// styles. The single-quote form failing is an unexpected failure; the
// double-quote form failing with the group_id signature is the defect
// this probe documents, reported as such.
func QuoteCompatibilityProbe() Probe {
	return Probe{
		Name:        "quote-compatibility",
		Description: "compare single- vs double-quoted group_id clauses",
		Run: func(ctx context.Context, env *Env) error {
			if _, err := env.Client.Search(ctx, "compatibility", graphiti.WithQuoteStyle(graphiti.QuoteSingle)); err != nil {
				return fmt.Errorf("single-quote form failed: %w", err)
			}
			if _, err := env.Client.Search(ctx, "compatibility", graphiti.WithQuoteStyle(graphiti.QuoteDouble)); err != nil {
				// Surfaces as known-defect when the signature matches.
				return fmt.Errorf("double-quote form: %w", err)
			}
			return nil
		},
	}
}

// SearchProbe exercises the default search path end to end.
func SearchProbe() Probe {
	return Probe{
		Name:        "search",
		Description: "fulltext search with the default quote style",
		Run: func(ctx context.Context, env *Env) error {
			_, err := env.Client.Search(ctx, "probe")
			return err
		},
	}
}

// ConversationIngestProbe feeds recorded conversations through the
// ingestion path, exercising it with realistic multi-sentence content
// instead of probe one-liners. Skips silently when no conversations were
// supplied.
func ConversationIngestProbe() Probe {
	return Probe{
		Name:        "conversation-ingest",
		Description: "ingest recorded conversations as episodes",
		Run: func(ctx context.Context, env *Env) error {
			conversations := env.Conversations
			if len(conversations) > 3 {
				conversations = conversations[:3]
			}
			for i, conv := range conversations {
				_, err := env.Client.AddEpisode(ctx, graphiti.EpisodeInput{
					Name:              fmt.Sprintf("probe-conversation-%d", i),
					Body:              conv.Body(),
					Source:            models.SourceMessage,
					SourceDescription: "recorded conversation",
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// CustomLabelProbe creates a node with a custom label directly and reads
// the labels back, documenting whether custom labels persist outside the
// ingestion path.
func CustomLabelProbe() Probe {
	return Probe{
		Name:        "custom-label-persistence",
		Description: "create a custom-labeled node and read labels back",
		Run: func(ctx context.Context, env *Env) error {
			marker := "probe-label-" + uuid.NewString()[:8]
			if _, err := env.DB.Query(ctx,
				"CREATE (n:Entity:Task {name: $name})",
				map[string]interface{}{"name": marker}); err != nil {
				return err
			}

			result, err := env.DB.Query(ctx,
				"MATCH (n {name: $name}) RETURN labels(n)",
				map[string]interface{}{"name": marker})
			if err != nil {
				return err
			}

			row, ok := result.Scalar()
			if !ok {
				return fmt.Errorf("labeled node not found after create")
			}
			labels, ok := row.([]interface{})
			if !ok {
				return fmt.Errorf("unexpected labels reply: %T", row)
			}
			var names []string
			for _, l := range labels {
				names = append(names, falkor.StringCell([]interface{}{l}, 0))
			}
			if !contains(names, "Task") {
				// Documented limitation of the ingestion path, not a
				// regression: report it without failing the run.
				return fmt.Errorf("custom label Task not persisted, got [%s]: %w",
					strings.Join(names, ", "), ErrKnownGap)
			}
			return nil
		},
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// probe run functions never take longer than this in a healthy setup;
// callers wrap Run contexts with it.
const DefaultProbeTimeout = 60 * time.Second
