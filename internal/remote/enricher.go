package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Enricher decorates read responses with denormalized detail payloads from
// owning services. Unlike the validator it is fail-open: a failed lookup
// degrades to a placeholder carrying the original ID and never fails the
// enclosing read.
type Enricher struct {
	client  *LookupClient
	timeout time.Duration
}

// NewEnricher builds an enricher with the configured per-lookup timeout.
func NewEnricher(client *LookupClient, timeout time.Duration) *Enricher {
	return &Enricher{client: client, timeout: timeout}
}

// Enrich fetches the remote detail payload for a reference. A nil ID yields
// nil (nothing to enrich). A 200 returns the remote JSON verbatim; a 404
// yields a not-found placeholder; anything else yields a communication-error
// placeholder.
func (e *Enricher) Enrich(ctx context.Context, token, base, resource string, id *int64) map[string]any {
	if id == nil {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	status, body, err := e.client.get(lookupCtx, base, resource, *id, token)
	if err != nil {
		return placeholder(*id, "communication error")
	}

	switch status {
	case http.StatusOK:
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			return placeholder(*id, "communication error")
		}
		return payload
	case http.StatusNotFound:
		return placeholder(*id, "not found")
	default:
		return placeholder(*id, "communication error")
	}
}

func placeholder(id int64, reason string) map[string]any {
	return map[string]any{"id": id, "error": reason}
}
