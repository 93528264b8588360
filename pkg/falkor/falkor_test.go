package falkor

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]interface{}
		want   string
	}{
		{
			name:   "string param",
			params: map[string]interface{}{"name": "Savings-001"},
			want:   "CYPHER name='Savings-001'",
		},
		{
			name:   "escapes quotes and backslashes",
			params: map[string]interface{}{"q": `it's a \ test`},
			want:   `CYPHER q='it\'s a \\ test'`,
		},
		{
			name:   "numbers and bools",
			params: map[string]interface{}{"n": 5, "f": 2.5, "b": true},
			want:   "CYPHER b=true f=2.5 n=5",
		},
		{
			name:   "nil",
			params: map[string]interface{}{"v": nil},
			want:   "CYPHER v=null",
		},
		{
			name:   "string list",
			params: map[string]interface{}{"tags": []string{"a", "b"}},
			want:   "CYPHER tags=['a', 'b']",
		},
		{
			name:   "map",
			params: map[string]interface{}{"props": map[string]interface{}{"x": 1, "y": "z"}},
			want:   "CYPHER props={x: 1, y: 'z'}",
		},
		{
			name:   "sorted keys are deterministic",
			params: map[string]interface{}{"b": 2, "a": 1, "c": 3},
			want:   "CYPHER a=1 b=2 c=3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeParams(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeParamsUnsupported(t *testing.T) {
	_, err := EncodeParams(map[string]interface{}{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestParseReplyRead(t *testing.T) {
	// Shape of a verbose GRAPH.QUERY read reply
	reply := []interface{}{
		[]interface{}{"n.name", "n.balance"},
		[]interface{}{
			[]interface{}{"Savings-001", "50000"},
			[]interface{}{"Checking-002", "100"},
		},
		[]interface{}{"Cached execution: 0", "Query internal execution time: 0.5 milliseconds"},
	}

	result, err := parseReply(reply)
	require.NoError(t, err)

	assert.Equal(t, []string{"n.name", "n.balance"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Savings-001", StringCell(result.Rows[0], 0))
	assert.Equal(t, "Checking-002", StringCell(result.Rows[1], 0))
	assert.Len(t, result.Stats, 2)

	v, ok := result.Scalar()
	require.True(t, ok)
	assert.Equal(t, "Savings-001", v)
}

func TestParseReplyWriteOnly(t *testing.T) {
	reply := []interface{}{
		[]interface{}{"Nodes created: 1", "Properties set: 3"},
	}

	result, err := parseReply(reply)
	require.NoError(t, err)

	assert.Empty(t, result.Columns)
	assert.Empty(t, result.Rows)
	assert.Equal(t, []string{"Nodes created: 1", "Properties set: 3"}, result.Stats)

	_, ok := result.Scalar()
	assert.False(t, ok)
}

func TestParseReplyCompactHeader(t *testing.T) {
	reply := []interface{}{
		[]interface{}{[]interface{}{int64(1), "labels"}},
		[]interface{}{[]interface{}{"Entity"}},
		[]interface{}{"Query internal execution time: 0.2 milliseconds"},
	}

	result, err := parseReply(reply)
	require.NoError(t, err)
	assert.Equal(t, []string{"labels"}, result.Columns)
}

func TestParseReplyMalformed(t *testing.T) {
	_, err := parseReply("OK")
	assert.Error(t, err)

	_, err = parseReply([]interface{}{1, 2})
	assert.Error(t, err)
}

// Integration coverage below needs a live FalkorDB; mirror the skip
// behavior of the fixture setup when none is reachable.
func integrationClient(t *testing.T) *Client {
	t.Helper()

	addr := os.Getenv("FALKORDB_ADDR")
	if addr == "" {
		t.Skip("FALKORDB_ADDR not set; skipping FalkorDB integration test")
	}

	client, err := New(addr, "graphprobe_driver_test")
	if err != nil {
		t.Skipf("Could not connect to FalkorDB: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Delete(ctx)
		_ = client.Close()
	})
	return client
}

func TestIntegrationRoundTrip(t *testing.T) {
	client := integrationClient(t)
	ctx := context.Background()

	_, err := client.Query(ctx, "CREATE (:Account {name: $name, balance: $balance})", map[string]interface{}{
		"name":    "Savings-001",
		"balance": 50000.0,
	})
	require.NoError(t, err)

	result, err := client.Query(ctx, "MATCH (a:Account) RETURN a.name", nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Savings-001", StringCell(result.Rows[0], 0))
}
