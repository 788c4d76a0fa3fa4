package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidora/vidora-backend/internal/domain"
)

func TestBuildVideoQuery_PublicRelevance(t *testing.T) {
	q := buildVideoQuery(domain.VideoFilter{Query: "cats", Offset: 20, Limit: 10})

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"from": 20,
		"size": 10,
		"query": {"bool": {
			"must": [{"multi_match": {"query": "cats", "fields": ["title^3", "description"]}}],
			"filter": [{"term": {"is_published": true}}]
		}}
	}`, string(raw))
}

func TestBuildVideoQuery_OwnerSortedByTitle(t *testing.T) {
	q := buildVideoQuery(domain.VideoFilter{
		Query:          "trip",
		OwnerID:        5,
		IncludePrivate: true,
		SortColumn:     "title",
		Desc:           true,
		Limit:          10,
	})

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"from": 0,
		"size": 10,
		"query": {"bool": {
			"must": [{"multi_match": {"query": "trip", "fields": ["title^3", "description"]}}],
			"filter": [{"term": {"owner_id": 5}}]
		}},
		"sort": [{"title.keyword": {"order": "desc"}}]
	}`, string(raw))
}
