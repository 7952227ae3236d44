// api/audit/repository.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type Repository interface {
	Save(ctx context.Context, log AuditLog) error
	Query(ctx context.Context, filter Filter) ([]AuditLog, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
	index    string
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL, index string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if index == "" {
		index = "audit-logs"
	}
	return &ElasticsearchRepository{esClient: esClient, index: index}, nil
}

// Save indexes one audit log document under its id.
func (r *ElasticsearchRepository) Save(ctx context.Context, log AuditLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: log.ID,
		Body:       strings.NewReader(string(data)),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// Query searches audit logs newest first.
func (r *ElasticsearchRepository) Query(ctx context.Context, filter Filter) ([]AuditLog, error) {
	must := []interface{}{}

	if filter.From != nil || filter.To != nil {
		bounds := map[string]interface{}{}
		if filter.From != nil {
			bounds["gte"] = filter.From.Format(time.RFC3339Nano)
		}
		if filter.To != nil {
			bounds["lte"] = filter.To.Format(time.RFC3339Nano)
		}
		must = append(must, map[string]interface{}{
			"range": map[string]interface{}{"createdAt": bounds},
		})
	}
	if filter.Action != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"action": string(filter.Action)},
		})
	}
	if filter.Entity != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"entity": string(filter.Entity)},
		})
	}
	if filter.ActorEmail != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"user.email": filter.ActorEmail},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []interface{}{
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		},
		"from": filter.offset(),
		"size": filter.limit(),
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(r.index),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching documents: %s", res.String())
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				Source AuditLog `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("error decoding search response: %w", err)
	}

	logs := make([]AuditLog, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		logs = append(logs, hit.Source)
	}
	return logs, nil
}
