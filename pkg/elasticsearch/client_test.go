package elasticsearch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCluster answers every request with status and body
func fakeCluster(t *testing.T, status int, body string, seen *[]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = append(*seen, r.Method+" "+r.URL.Path)
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &Client{es: es, log: zerolog.Nop()}
}

func TestSearch_DecodesHits(t *testing.T) {
	c := fakeCluster(t, http.StatusOK, `{"hits":{"total":{"value":2},"hits":[
		{"_id":"7","_score":3.5,"_source":{"title":"cats"}},
		{"_id":"9","_score":1.2,"_source":{"title":"more cats"}}]}}`, nil)

	hits, err := c.Search(context.Background(), "videos", map[string]any{"query": map[string]any{"match_all": map[string]any{}}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Total)
	require.Len(t, hits.Items, 2)
	assert.Equal(t, "7", hits.Items[0].ID)
	assert.JSONEq(t, `{"title":"cats"}`, string(hits.Items[0].Source))
}

func TestRemove_IgnoresMissingDocument(t *testing.T) {
	var seen []string
	c := fakeCluster(t, http.StatusNotFound, `{"result":"not_found"}`, &seen)

	require.NoError(t, c.Remove(context.Background(), "videos", "42"))
	assert.Equal(t, []string{"DELETE /videos/_doc/42"}, seen)
}

func TestEnsureIndex_AlreadyExists(t *testing.T) {
	c := fakeCluster(t, http.StatusBadRequest,
		`{"error":{"type":"resource_already_exists_exception","reason":"index [videos] already exists"},"status":400}`, nil)

	assert.NoError(t, c.EnsureIndex(context.Background(), "videos", map[string]any{}))
}

func TestPut_ReturnsResponseError(t *testing.T) {
	c := fakeCluster(t, http.StatusBadRequest,
		`{"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [views]"},"status":400}`, nil)

	err := c.Put(context.Background(), "videos", "1", map[string]any{"views": "many"})
	var re *ResponseError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "mapper_parsing_exception", re.Type)
	assert.Contains(t, err.Error(), "failed to parse field")
}

func TestBulkPut_ReportsItemFailures(t *testing.T) {
	c := fakeCluster(t, http.StatusOK, `{"errors":true,"items":[
		{"index":{"_id":"1","status":201}},
		{"index":{"_id":"2","status":400,"error":{"type":"x","reason":"bad title"}}}]}`, nil)

	err := c.BulkPut(context.Background(), "videos", []Doc{{ID: "1", Body: map[string]any{}}, {ID: "2", Body: map[string]any{}}})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "1 of 2"))
	assert.Contains(t, err.Error(), "2: bad title")
}

func TestBulkPut_Empty(t *testing.T) {
	var seen []string
	c := fakeCluster(t, http.StatusOK, `{}`, &seen)

	require.NoError(t, c.BulkPut(context.Background(), "videos", nil))
	assert.Empty(t, seen)
}
