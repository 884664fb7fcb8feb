package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/emergency-services/internal/observability"
)

func newTestEnricher() *Enricher {
	client := NewLookupClient(zap.NewNop(), observability.NewMetrics())
	return NewEnricher(client, 3*time.Second)
}

func TestEnrichNilID(t *testing.T) {
	e := newTestEnricher()
	assert.Nil(t, e.Enrich(context.Background(), "", "http://unused", "patients", nil))
}

func TestEnrichReturnsRemotePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 4, "first_name": "Ada", "last_name": "Lovelace"}`))
	}))
	defer server.Close()

	e := newTestEnricher()
	details := e.Enrich(context.Background(), "tok", server.URL, "patients", int64Ptr(4))
	assert.Equal(t, "Ada", details["first_name"])
	assert.Equal(t, "Lovelace", details["last_name"])
}

func TestEnrichNotFoundPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e := newTestEnricher()
	details := e.Enrich(context.Background(), "tok", server.URL, "doctors", int64Ptr(99))
	assert.Equal(t, map[string]any{"id": int64(99), "error": "not found"}, details)
}

func TestEnrichUnreachablePlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	e := newTestEnricher()
	details := e.Enrich(context.Background(), "tok", server.URL, "nurses", int64Ptr(12))
	assert.Equal(t, map[string]any{"id": int64(12), "error": "communication error"}, details)
}

func TestEnrichServerErrorPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	e := newTestEnricher()
	details := e.Enrich(context.Background(), "tok", server.URL, "patients", int64Ptr(8))
	assert.Equal(t, "communication error", details["error"])
}
