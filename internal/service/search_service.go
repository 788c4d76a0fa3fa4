package service

import (
	"context"
	"strconv"
	"time"

	"github.com/vidora/vidora-backend/internal/domain"
	es "github.com/vidora/vidora-backend/pkg/elasticsearch"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
)

// DefaultVideosIndex is used when no index name is configured
const DefaultVideosIndex = "vidora_videos"

// VideoDocument is a video as indexed in Elasticsearch
type VideoDocument struct {
	VideoID     uint64  `json:"video_id"`
	OwnerID     uint64  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Views       int64   `json:"views"`
	IsPublished bool    `json:"is_published"`
	CreatedAt   string  `json:"created_at"`
}

// NewVideoDocument builds the search document for v
func NewVideoDocument(v *domain.Video) *VideoDocument {
	return &VideoDocument{
		VideoID:     v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt.Format(time.RFC3339),
	}
}

// VideoSearcher is the full-text index behind GET /videos?query=
type VideoSearcher interface {
	Index(ctx context.Context, v *domain.Video) error
	Remove(ctx context.Context, videoID uint64) error
	// Search returns matching video ids in rank order plus the total hit count
	Search(ctx context.Context, filter domain.VideoFilter) ([]uint64, int64, error)
}

// SearchService indexes and searches videos in Elasticsearch
type SearchService struct {
	esClient *es.Client
	index    string
}

// NewSearchService creates a SearchService and makes sure its index exists
func NewSearchService(ctx context.Context, esClient *es.Client, index string) *SearchService {
	if index == "" {
		index = DefaultVideosIndex
	}
	svc := &SearchService{esClient: esClient, index: index}
	if err := svc.EnsureIndex(ctx); err != nil {
		log := pkglogger.WithComponent("search")
		log.Error().Err(err).Str("index", index).Msg("videos index not created")
	}
	return svc
}

// EnsureIndex creates the videos index with its mapping
func (s *SearchService) EnsureIndex(ctx context.Context) error {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"video_id":     map[string]interface{}{"type": "long"},
				"owner_id":     map[string]interface{}{"type": "long"},
				"title":        map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword"}}},
				"description":  map[string]interface{}{"type": "text"},
				"duration":     map[string]interface{}{"type": "double"},
				"views":        map[string]interface{}{"type": "long"},
				"is_published": map[string]interface{}{"type": "boolean"},
				"created_at":   map[string]interface{}{"type": "date"},
			},
		},
	}
	return s.esClient.EnsureIndex(ctx, s.index, mapping)
}

func (s *SearchService) Index(ctx context.Context, v *domain.Video) error {
	return s.esClient.Put(ctx, s.index, strconv.FormatUint(v.ID, 10), NewVideoDocument(v))
}

func (s *SearchService) Remove(ctx context.Context, videoID uint64) error {
	return s.esClient.Remove(ctx, s.index, strconv.FormatUint(videoID, 10))
}

// Reindex bulk-loads videos into the index
func (s *SearchService) Reindex(ctx context.Context, videos []*domain.Video) error {
	if len(videos) == 0 {
		return nil
	}
	docs := make([]es.Doc, 0, len(videos))
	for _, v := range videos {
		docs = append(docs, es.Doc{ID: strconv.FormatUint(v.ID, 10), Body: NewVideoDocument(v)})
	}
	return s.esClient.BulkPut(ctx, s.index, docs)
}

func (s *SearchService) Search(ctx context.Context, filter domain.VideoFilter) ([]uint64, int64, error) {
	res, err := s.esClient.Search(ctx, s.index, buildVideoQuery(filter))
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint64, 0, len(res.Items))
	for _, h := range res.Items {
		id, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, res.Total, nil
}

func buildVideoQuery(filter domain.VideoFilter) map[string]interface{} {
	must := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  filter.Query,
				"fields": []string{"title^3", "description"},
			},
		},
	}

	var filters []interface{}
	if filter.OwnerID != 0 {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"owner_id": filter.OwnerID}})
	}
	if !filter.IncludePrivate {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"is_published": true}})
	}

	query := map[string]interface{}{
		"from": filter.Offset,
		"size": filter.Limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filters,
			},
		},
	}

	// Relevance order unless a column was asked for explicitly
	if filter.SortColumn != "" {
		field := filter.SortColumn
		if field == "title" {
			field = "title.keyword"
		}
		order := "asc"
		if filter.Desc {
			order = "desc"
		}
		query["sort"] = []interface{}{map[string]interface{}{field: map[string]interface{}{"order": order}}}
	}
	return query
}
