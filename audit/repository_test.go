package audit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElasticsearch records indexed documents and answers searches with them.
type fakeElasticsearch struct {
	mu         sync.Mutex
	docs       map[string]json.RawMessage
	lastSearch map[string]interface{}
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_ = json.Unmarshal(body, &f.lastSearch)
		hits := make([]map[string]json.RawMessage, 0, len(f.docs))
		for _, doc := range f.docs {
			hits = append(hits, map[string]json.RawMessage{"_source": doc})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"hits": map[string]interface{}{"hits": hits},
		})
	case strings.Contains(r.URL.Path, "/_doc/"):
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		f.docs[id] = json.RawMessage(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}
}

func TestElasticsearchRepository(t *testing.T) {
	fake := &fakeElasticsearch{docs: map[string]json.RawMessage{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	repo, err := NewElasticsearchRepository(server.URL, "audit-test")
	require.NoError(t, err)

	ctx := context.Background()
	at := time.Date(2024, time.April, 2, 8, 0, 0, 0, time.UTC)
	log := AuditLog{
		ID:        "a1",
		User:      RecordUser{ID: "u1", Name: "Ann", Email: "ann@example.com"},
		Action:    ActionCreate,
		Entity:    EntityTeam,
		EntityID:  "t1",
		CreatedAt: at,
	}

	require.NoError(t, repo.Save(ctx, log))
	fake.mu.Lock()
	assert.Contains(t, fake.docs, "a1")
	fake.mu.Unlock()

	logs, err := repo.Query(ctx, Filter{Entity: EntityTeam, Limit: 5})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, log, logs[0])

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.EqualValues(t, 5, fake.lastSearch["size"])
	must := fake.lastSearch["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]interface{})
	assert.Len(t, must, 1)
}

func TestElasticsearchRepositoryIndexError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"mapper_parsing_exception"}`))
	}))
	defer server.Close()

	repo, err := NewElasticsearchRepository(server.URL, "")
	require.NoError(t, err)
	err = repo.Save(context.Background(), AuditLog{ID: "x"})
	assert.Error(t, err)
}

func TestBuildAuditQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sql, args := buildAuditQuery(Filter{Action: ActionDelete, From: &from, Limit: 20, Offset: 40})

	assert.Equal(t,
		"SELECT id, actor_id, actor_name, actor_email, action, entity, entity_id, created_at FROM audit_logs"+
			" WHERE action = $1 AND created_at >= $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4",
		sql)
	assert.Equal(t, []any{"DELETE", from, 20, 40}, args)

	sql, args = buildAuditQuery(Filter{})
	assert.True(t, strings.HasSuffix(sql, "FROM audit_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2"))
	assert.Equal(t, []any{50, 0}, args)
}
