// Package langfuse fetches recorded LLM conversations from a Langfuse
// instance for use as realistic test and probe input. When no credentials
// are configured, or the API is unreachable, callers fall back to a small
// fixed set of synthetic conversations.
package langfuse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/graphprobe/graphprobe/pkg/models"
)

// DefaultHost is used when no Langfuse host is configured.
const DefaultHost = "http://localhost:3000"

// Client talks to the Langfuse public API using basic auth
// (public key as username, secret key as password).
type Client struct {
	host      string
	publicKey string
	secretKey string
	http      *http.Client
	logger    zerolog.Logger
}

// New creates a Langfuse client. Returns nil if either key is empty,
// which callers treat as "no Langfuse configured".
func New(host, publicKey, secretKey string, logger zerolog.Logger) *Client {
	if publicKey == "" || secretKey == "" {
		return nil
	}
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		host:      host,
		publicKey: publicKey,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
		logger:    logger,
	}
}

// trace mirrors the subset of the Langfuse trace payload we consume.
type trace struct {
	ID       string                 `json:"id"`
	Input    interface{}            `json:"input"`
	Output   interface{}            `json:"output"`
	Metadata map[string]interface{} `json:"metadata"`
	Tags     []string               `json:"tags"`
}

type tracesResponse struct {
	Data []trace `json:"data"`
}

// FetchConversations retrieves recent traces and keeps the ones with both
// an input and an output. The error is non-nil only on transport or decode
// failure; an empty result is a valid response.
func (c *Client) FetchConversations(ctx context.Context, limit int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = 20
	}

	endpoint := fmt.Sprintf("%s/api/public/traces?%s", c.host, url.Values{
		"limit": []string{strconv.Itoa(limit)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.publicKey, c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch traces: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch traces: unexpected status %d", resp.StatusCode)
	}

	var parsed tracesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode traces: %w", err)
	}

	conversations := make([]models.Conversation, 0, len(parsed.Data))
	for _, tr := range parsed.Data {
		input := stringify(tr.Input)
		output := stringify(tr.Output)
		if input == "" || output == "" {
			continue
		}
		conversations = append(conversations, models.Conversation{
			Input:    input,
			Output:   output,
			Metadata: tr.Metadata,
		})
	}

	c.logger.Debug().
		Int("traces", len(parsed.Data)).
		Int("conversations", len(conversations)).
		Msg("Fetched Langfuse traces")

	return conversations, nil
}

// stringify flattens structured trace inputs/outputs to text. Langfuse
// stores these as arbitrary JSON; non-string values are re-serialized.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// SampleConversations returns fetched conversations when a client is
// available, and the synthetic fallback set otherwise. Fetch failures
// degrade to the fallback rather than erroring.
func SampleConversations(ctx context.Context, c *Client, limit int) []models.Conversation {
	if c != nil {
		conversations, err := c.FetchConversations(ctx, limit)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Langfuse fetch failed, using fallback conversations")
		} else if len(conversations) > 0 {
			return conversations
		}
	}
	return FallbackConversations()
}

// FallbackConversations is the fixed synthetic set used when no real
// trace data is available.
func FallbackConversations() []models.Conversation {
	return []models.Conversation{
		{
			Input:    "How do I configure FalkorDB for multiple Graphiti instances?",
			Output:   "Configure FalkorDB with connection pooling using max_connections=16. Use port 6380 to avoid conflicts. Set THREAD_COUNT=8 for M3 optimization.",
			Metadata: map[string]interface{}{"source": "synthetic", "category": "technical"},
		},
		{
			Input:    "What's the best way to monitor FalkorDB performance?",
			Output:   "Use the monitor.sh script for real-time monitoring. Check memory with 'docker exec falkordb redis-cli INFO memory'. View slow queries with 'SLOWLOG GET 10'.",
			Metadata: map[string]interface{}{"source": "synthetic", "category": "monitoring"},
		},
		{
			Input:    "How do I handle concurrent writes from multiple agents?",
			Output:   "FalkorDB handles concurrent writes well. Use NODE_CREATION_BUFFER=8192 for balanced write loads. Implement connection pooling and use async operations.",
			Metadata: map[string]interface{}{"source": "synthetic", "category": "concurrency"},
		},
		{
			Input:    "My FalkorDB container keeps restarting. What should I check?",
			Output:   "Check container logs with 'docker compose logs falkordb'. Verify memory limits aren't exceeded. Ensure port 6380 is available. Check disk space for volumes.",
			Metadata: map[string]interface{}{"source": "synthetic", "category": "troubleshooting"},
		},
		{
			Input:    "How do I backup FalkorDB data?",
			Output:   "Run './scripts/backup.sh' to create timestamped backups. Backups are stored in ./backups/ directory. Old backups are automatically cleaned after 7 days.",
			Metadata: map[string]interface{}{"source": "synthetic", "category": "operations"},
		},
	}
}
