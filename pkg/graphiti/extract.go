package graphiti

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/graphprobe/graphprobe/pkg/entities"
	"github.com/graphprobe/graphprobe/pkg/models"
)

// Extractor pulls entities and relations out of episode text, guided by
// the schemas supplied with the episode.
type Extractor interface {
	Extract(ctx context.Context, body string, types map[string]entities.EntityType,
		edgeMap map[string][]string) ([]models.ExtractedEntity, []models.ExtractedRelation, error)
}

// HeuristicExtractor is a deterministic extractor used when no LLM is
// configured. It recognizes two surface forms per schema type:
//
//	Task: Write report
//	Task "Write report"
//
// and derives relations from the edge map for every ordered pair of
// extracted entities whose type pair has an entry.
type HeuristicExtractor struct{}

// typePatterns are built per call; type names come from the episode input.
func typePattern(typeName string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)\b` + regexp.QuoteMeta(typeName) + `\s*(?::\s*([^\n.;]+)|"([^"]+)")`)
}

func (HeuristicExtractor) Extract(_ context.Context, body string, types map[string]entities.EntityType,
	edgeMap map[string][]string) ([]models.ExtractedEntity, []models.ExtractedRelation, error) {

	if len(types) == 0 {
		types = entities.AllEntityTypes()
	}

	typeNames := make([]string, 0, len(types))
	for name := range types {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	var extracted []models.ExtractedEntity
	seen := make(map[string]bool)

	for _, typeName := range typeNames {
		for _, match := range typePattern(typeName).FindAllStringSubmatch(body, -1) {
			name := strings.TrimSpace(match[1])
			if name == "" {
				name = strings.TrimSpace(match[2])
			}
			if name == "" {
				continue
			}
			key := typeName + "\x00" + name
			if seen[key] {
				continue
			}
			seen[key] = true
			extracted = append(extracted, models.ExtractedEntity{
				Name:    name,
				Type:    typeName,
				Summary: fmt.Sprintf("%s mentioned in episode", typeName),
			})
		}
	}

	var relations []models.ExtractedRelation
	for i, src := range extracted {
		for j, tgt := range extracted {
			if i == j {
				continue
			}
			edges := edgeMap[src.Type+"-"+tgt.Type]
			if len(edges) == 0 {
				continue
			}
			relations = append(relations, models.ExtractedRelation{
				Source:   src.Name,
				Target:   tgt.Name,
				EdgeType: edges[0],
				Fact:     fmt.Sprintf("%s %s %s", src.Name, edges[0], tgt.Name),
			})
		}
	}

	return extracted, relations, nil
}

// OpenAIExtractor asks a chat model to extract entities and relations as
// JSON. Falls back to nothing on unparseable output rather than failing
// the whole episode.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

// NewOpenAIExtractor creates an extractor backed by the OpenAI API.
func NewOpenAIExtractor(apiKey, model string) *OpenAIExtractor {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIExtractor{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

type llmExtraction struct {
	Entities  []models.ExtractedEntity   `json:"entities"`
	Relations []models.ExtractedRelation `json:"relations"`
}

func (e *OpenAIExtractor) Extract(ctx context.Context, body string, types map[string]entities.EntityType,
	edgeMap map[string][]string) ([]models.ExtractedEntity, []models.ExtractedRelation, error) {

	if len(types) == 0 {
		types = entities.AllEntityTypes()
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: extractionPrompt(types, edgeMap),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: body,
			},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("llm extraction: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil, nil
	}

	var parsed llmExtraction
	content := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, nil, nil
	}

	// Drop entities whose type is not in the supplied schemas.
	kept := parsed.Entities[:0]
	for _, ent := range parsed.Entities {
		if _, ok := types[ent.Type]; ok {
			kept = append(kept, ent)
		}
	}

	return kept, parsed.Relations, nil
}

func extractionPrompt(types map[string]entities.EntityType, edgeMap map[string][]string) string {
	var b strings.Builder
	b.WriteString("Extract entities and relations from the text. Respond with JSON only: ")
	b.WriteString(`{"entities":[{"name":"","type":"","summary":""}],"relations":[{"source":"","target":"","edge_type":"","fact":""}]}.`)
	b.WriteString("\nAllowed entity types:\n")

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := types[name]
		fmt.Fprintf(&b, "- %s: %s\n", name, t.Description)
	}

	if len(edgeMap) > 0 {
		b.WriteString("Allowed edge types by source-target pair:\n")
		pairs := make([]string, 0, len(edgeMap))
		for pair := range edgeMap {
			pairs = append(pairs, pair)
		}
		sort.Strings(pairs)
		for _, pair := range pairs {
			fmt.Fprintf(&b, "- %s: %s\n", pair, strings.Join(edgeMap[pair], ", "))
		}
	}

	return b.String()
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
