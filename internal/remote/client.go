package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/emergency-services/internal/observability"
)

// Scheme is the Authorization header keyword used between services.
const Scheme = "Token"

// LookupClient performs single-resource GETs against peer services. Both the
// fail-closed validator and the fail-open enricher are built on it; the
// policy difference lives entirely in how callers treat the outcome.
type LookupClient struct {
	http    *http.Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewLookupClient builds a client. Per-call deadlines come from the caller's
// context, so the underlying http.Client carries no timeout of its own.
func NewLookupClient(logger *zap.Logger, metrics *observability.Metrics) *LookupClient {
	return &LookupClient{
		http:    &http.Client{},
		logger:  logger,
		metrics: metrics,
	}
}

// get fetches {base}/{resource}/{id}/ forwarding the caller's token. It
// returns the HTTP status and body on any response; err is non-nil only for
// transport-level failures (connection refused, timeout, aborted context).
func (c *LookupClient) get(ctx context.Context, base, resource string, id int64, token string) (int, []byte, error) {
	url := fmt.Sprintf("%s/%s/%d/", strings.TrimRight(base, "/"), strings.Trim(resource, "/"), id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", Scheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("remote lookup failed",
			zap.String("url", url),
			zap.Error(err))
		c.metrics.RecordRemoteCall(base, resource, 0)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, err
	}

	c.metrics.RecordRemoteCall(base, resource, resp.StatusCode)
	return resp.StatusCode, body, nil
}
