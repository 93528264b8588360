// Package workaround encodes custom entity data through fields that
// survive the backend, compensating for the knowledge-graph layer's
// inability to persist custom node labels and properties on FalkorDB.
package workaround

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Sentinels delimiting the machine-readable block inside a summary.
// If the surrounding text legitimately contains the sentinel the
// decode is corrupted; accepted limitation for a test aid.
const (
	metaOpen  = "|||METADATA:"
	metaClose = "|||"
)

// maxSummaryFields caps how many fields go into the human-readable part.
const maxSummaryFields = 5

// Metadata is the recoverable payload embedded in a summary.
type Metadata struct {
	EntityType string                 `json:"entity_type"`
	CustomData map[string]interface{} `json:"custom_data"`
}

// EncodeSummary builds a summary string that stays readable for display
// while embedding a recoverable JSON payload between sentinels.
func EncodeSummary(data map[string]interface{}, entityType string) string {
	var b strings.Builder
	b.WriteString("[" + entityType + "]")

	keys := make([]string, 0, len(data))
	for k := range data {
		if k == "uuid" || k == "created_at" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, maxSummaryFields)
	for _, k := range keys {
		if len(fields) >= maxSummaryFields {
			break
		}
		v := data[k]
		if v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			fields = append(fields, fmt.Sprintf("%s=%s", k, val))
		case bool, int, int64, float32, float64:
			fields = append(fields, fmt.Sprintf("%s=%v", k, val))
		case []interface{}:
			if len(val) > 0 {
				fields = append(fields, fmt.Sprintf("%s=[%d items]", k, len(val)))
			}
		case []string:
			if len(val) > 0 {
				fields = append(fields, fmt.Sprintf("%s=[%d items]", k, len(val)))
			}
		}
	}

	b.WriteString(" ")
	b.WriteString(strings.Join(fields, " | "))

	meta := Metadata{EntityType: entityType, CustomData: data}
	encoded, err := json.Marshal(meta)
	if err != nil {
		// Map values that cannot marshal would already have failed the
		// caller; keep the summary readable regardless.
		return b.String()
	}

	b.WriteString(" ")
	b.WriteString(metaOpen)
	b.Write(encoded)
	b.WriteString(metaClose)

	return b.String()
}

// DecodeSummary recovers the embedded payload from a summary. The
// second return is false when no well-formed payload is present;
// decoding never errors.
func DecodeSummary(summary string) (*Metadata, bool) {
	start := strings.Index(summary, metaOpen)
	if start < 0 {
		return nil, false
	}
	start += len(metaOpen)

	end := strings.LastIndex(summary, metaClose)
	if end <= start {
		return nil, false
	}

	var meta Metadata
	if err := json.Unmarshal([]byte(summary[start:end]), &meta); err != nil {
		return nil, false
	}
	return &meta, true
}
