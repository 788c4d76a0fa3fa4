package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
)

// Config points the client at a cluster
type Config struct {
	Addresses []string
	Username  string
	Password  string
}

// Client is a thin JSON layer over the official client
type Client struct {
	es  *elasticsearch.Client
	log zerolog.Logger
}

// Doc is one document of a bulk request
type Doc struct {
	ID   string
	Body any
}

// Hit is one search result
type Hit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// Hits is the hits section of a search response
type Hits struct {
	Total int64
	Items []Hit
}

// Connect builds a client and checks the cluster answers
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("elasticsearch: no addresses configured")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: %w", err)
	}

	c := &Client{es: es, log: pkglogger.WithComponent("elasticsearch")}
	if err := c.do(ctx, "info", esapi.InfoRequest{}, nil); err != nil {
		return nil, err
	}
	c.log.Info().Strs("addresses", cfg.Addresses).Msg("cluster reachable")
	return c, nil
}

// EnsureIndex creates index with settings unless it is already there
func (c *Client) EnsureIndex(ctx context.Context, index string, settings any) error {
	body, err := encode(settings)
	if err != nil {
		return err
	}
	err = c.do(ctx, "create index", esapi.IndicesCreateRequest{Index: index, Body: body}, nil)
	var re *ResponseError
	if errors.As(err, &re) && re.Type == "resource_already_exists_exception" {
		return nil
	}
	return err
}

// Put creates or replaces the document id
func (c *Client) Put(ctx context.Context, index, id string, doc any) error {
	body, err := encode(doc)
	if err != nil {
		return err
	}
	return c.do(ctx, "index", esapi.IndexRequest{Index: index, DocumentID: id, Body: body}, nil)
}

// Remove deletes the document id. Unknown ids are ignored.
func (c *Client) Remove(ctx context.Context, index, id string) error {
	err := c.do(ctx, "delete", esapi.DeleteRequest{Index: index, DocumentID: id}, nil)
	var re *ResponseError
	if errors.As(err, &re) && re.Status == http.StatusNotFound {
		return nil
	}
	return err
}

// BulkPut indexes docs in a single request and fails if any item failed
func (c *Client) BulkPut(ctx context.Context, index string, docs []Doc) error {
	if len(docs) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		action := map[string]map[string]string{"index": {"_index": index, "_id": d.ID}}
		if err := enc.Encode(action); err != nil {
			return err
		}
		if err := enc.Encode(d.Body); err != nil {
			return fmt.Errorf("encode doc %s: %w", d.ID, err)
		}
	}

	var out struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID    string `json:"_id"`
			Error *struct {
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := c.do(ctx, "bulk", esapi.BulkRequest{Body: &buf}, &out); err != nil {
		return err
	}
	if !out.Errors {
		return nil
	}
	failed := 0
	first := ""
	for _, item := range out.Items {
		for _, r := range item {
			if r.Error != nil {
				if failed == 0 {
					first = r.ID + ": " + r.Error.Reason
				}
				failed++
			}
		}
	}
	return fmt.Errorf("bulk: %d of %d documents failed, first %s", failed, len(docs), first)
}

// Search runs a query DSL body against index
func (c *Client) Search(ctx context.Context, index string, query any) (*Hits, error) {
	body, err := encode(query)
	if err != nil {
		return nil, err
	}
	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []Hit `json:"hits"`
		} `json:"hits"`
	}
	req := esapi.SearchRequest{Index: []string{index}, Body: body, TrackTotalHits: true}
	if err := c.do(ctx, "search", req, &out); err != nil {
		return nil, err
	}
	return &Hits{Total: out.Hits.Total.Value, Items: out.Hits.Hits}, nil
}

// ResponseError is a non-2xx answer from the cluster
type ResponseError struct {
	Op     string
	Status int
	Type   string
	Reason string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("elasticsearch %s: %d %s: %s", e.Op, e.Status, e.Type, e.Reason)
}

func (c *Client) do(ctx context.Context, op string, req esapi.Request, out any) error {
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("elasticsearch %s: %w", op, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeError(op, res)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("elasticsearch %s: decode: %w", op, err)
	}
	return nil
}

func decodeError(op string, res *esapi.Response) error {
	re := &ResponseError{Op: op, Status: res.StatusCode}
	raw, _ := io.ReadAll(res.Body)
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil && len(envelope.Error) > 0 {
		var detail struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		}
		if json.Unmarshal(envelope.Error, &detail) == nil && detail.Type != "" {
			re.Type, re.Reason = detail.Type, detail.Reason
			return re
		}
	}
	re.Reason = string(raw)
	return re
}

func encode(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: encode body: %w", err)
	}
	return bytes.NewReader(data), nil
}
