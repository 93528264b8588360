// Package falkor is a minimal FalkorDB client. FalkorDB speaks the
// Redis wire protocol, so the client issues GRAPH.* commands through
// go-redis and decodes the nested array replies.
package falkor

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client talks to one graph in a FalkorDB instance.
type Client struct {
	rdb   *redis.Client
	graph string
}

// Result holds a decoded GRAPH.QUERY reply.
type Result struct {
	Columns []string
	Rows    [][]interface{}
	Stats   []string
}

// New connects to FalkorDB at addr and selects the named graph.
// The graph itself is created lazily on first write.
func New(addr, graph string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     16,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to FalkorDB: %w", err)
	}

	return &Client{rdb: rdb, graph: graph}, nil
}

// NewFromClient wraps an existing redis client, mainly for tests.
func NewFromClient(rdb *redis.Client, graph string) *Client {
	return &Client{rdb: rdb, graph: graph}
}

// Graph returns the selected graph name.
func (c *Client) Graph() string {
	return c.graph
}

// WithGraph returns a client bound to another graph on the same connection.
func (c *Client) WithGraph(graph string) *Client {
	return &Client{rdb: c.rdb, graph: graph}
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Query runs a Cypher query with optional parameters. Parameters are
// rendered into a CYPHER prefix the way FalkorDB expects.
func (c *Client) Query(ctx context.Context, cypher string, params map[string]interface{}) (*Result, error) {
	full := cypher
	if len(params) > 0 {
		prefix, err := EncodeParams(params)
		if err != nil {
			return nil, err
		}
		full = prefix + " " + cypher
	}

	reply, err := c.rdb.Do(ctx, "GRAPH.QUERY", c.graph, full).Result()
	if err != nil {
		return nil, fmt.Errorf("graph query: %w", err)
	}
	return parseReply(reply)
}

// ReadOnlyQuery runs a query through GRAPH.RO_QUERY.
func (c *Client) ReadOnlyQuery(ctx context.Context, cypher string, params map[string]interface{}) (*Result, error) {
	full := cypher
	if len(params) > 0 {
		prefix, err := EncodeParams(params)
		if err != nil {
			return nil, err
		}
		full = prefix + " " + cypher
	}

	reply, err := c.rdb.Do(ctx, "GRAPH.RO_QUERY", c.graph, full).Result()
	if err != nil {
		return nil, fmt.Errorf("graph query: %w", err)
	}
	return parseReply(reply)
}

// Delete removes the whole graph. A missing graph is not an error so
// cleanup paths can call this unconditionally.
func (c *Client) Delete(ctx context.Context) error {
	err := c.rdb.Do(ctx, "GRAPH.DELETE", c.graph).Err()
	if err != nil && strings.Contains(err.Error(), "Invalid graph operation") {
		return nil
	}
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unknown") {
		return nil
	}
	return err
}

// List returns the names of all graphs in the instance.
func (c *Client) List(ctx context.Context) ([]string, error) {
	reply, err := c.rdb.Do(ctx, "GRAPH.LIST").Result()
	if err != nil {
		return nil, err
	}

	raw, ok := reply.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected GRAPH.LIST reply: %T", reply)
	}

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// EncodeParams renders parameters as a CYPHER prefix. Keys are sorted
// so the prefix is deterministic.
func EncodeParams(params map[string]interface{}) (string, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("CYPHER")
	for _, k := range keys {
		literal, err := encodeValue(params[k])
		if err != nil {
			return "", fmt.Errorf("param %s: %w", k, err)
		}
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(literal)
	}
	return b.String(), nil
}

// encodeValue renders a Go value as a Cypher literal.
func encodeValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case string:
		return quoteString(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), nil
	case time.Time:
		return quoteString(val.UTC().Format(time.RFC3339)), nil
	case []string:
		parts := make([]string, len(val))
		for i, s := range val {
			parts[i] = quoteString(s)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			enc, err := encodeValue(item)
			if err != nil {
				return "", err
			}
			parts[i] = enc
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			enc, err := encodeValue(val[k])
			if err != nil {
				return "", err
			}
			parts = append(parts, k+": "+enc)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// quoteString single-quotes a string literal, escaping backslashes and
// embedded single quotes.
func quoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// parseReply decodes a GRAPH.QUERY reply. Read queries come back as
// [header, rows, stats]; write-only queries as [stats].
func parseReply(reply interface{}) (*Result, error) {
	raw, ok := reply.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected graph reply: %T", reply)
	}

	result := &Result{}

	switch len(raw) {
	case 1:
		result.Stats = parseStats(raw[0])
	case 3:
		result.Columns = parseHeader(raw[0])
		rows, err := parseRows(raw[1])
		if err != nil {
			return nil, err
		}
		result.Rows = rows
		result.Stats = parseStats(raw[2])
	default:
		return nil, fmt.Errorf("unexpected graph reply arity: %d", len(raw))
	}

	return result, nil
}

func parseHeader(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	cols := make([]string, 0, len(raw))
	for _, col := range raw {
		switch c := col.(type) {
		case string:
			cols = append(cols, c)
		case []interface{}:
			// Compact header form: [type, name]
			if len(c) == 2 {
				if name, ok := c[1].(string); ok {
					cols = append(cols, name)
				}
			}
		}
	}
	return cols
}

func parseRows(v interface{}) ([][]interface{}, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected rows reply: %T", v)
	}
	rows := make([][]interface{}, 0, len(raw))
	for _, r := range raw {
		cells, ok := r.([]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected row reply: %T", r)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func parseStats(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	stats := make([]string, 0, len(raw))
	for _, s := range raw {
		if str, ok := s.(string); ok {
			stats = append(stats, str)
		}
	}
	return stats
}

// Scalar extracts the first cell of the first row, for single-value
// queries like counts.
func (r *Result) Scalar() (interface{}, bool) {
	if len(r.Rows) == 0 || len(r.Rows[0]) == 0 {
		return nil, false
	}
	return r.Rows[0][0], true
}

// StringCell reads a string cell from a row, tolerating nil.
func StringCell(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	if s, ok := row[idx].(string); ok {
		return s
	}
	return ""
}
