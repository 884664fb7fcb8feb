package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/emergency-services/internal/domain"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

// Introspector resolves an opaque bearer token to the identity it is bound
// to. Dependent services use the HTTP client below; the auth service itself
// plugs in a local implementation backed by its own stores.
type Introspector interface {
	Introspect(ctx context.Context, token string) (*domain.RemoteIdentity, error)
}

// IntrospectionClient calls the auth service's introspection endpoint.
type IntrospectionClient struct {
	http    *http.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewIntrospectionClient builds a client for the given introspection URL.
func NewIntrospectionClient(url string, timeout time.Duration, logger *zap.Logger) *IntrospectionClient {
	return &IntrospectionClient{
		http:    &http.Client{},
		url:     url,
		timeout: timeout,
		logger:  logger,
	}
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectFailure struct {
	Error  string `json:"error"`
	Active bool   `json:"active"`
}

// Introspect posts the token to the auth service. A 200 yields the resolved
// identity; a 401 maps to Unauthorized with the issuer's reason; a timeout,
// connection failure or unexpected status maps to ServiceUnavailable. A
// failure is never treated as anonymous.
func (c *IntrospectionClient) Introspect(ctx context.Context, token string) (*domain.RemoteIdentity, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(introspectRequest{Token: token})
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("introspection request failed", zap.Error(err))
		return nil, util.NewServiceUnavailable("authentication service unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var identity domain.RemoteIdentity
		if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
			return nil, util.NewServiceUnavailable("invalid introspection response")
		}
		return &identity, nil
	case http.StatusUnauthorized:
		var failure introspectFailure
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Error == "" {
			return nil, util.NewUnauthorized("invalid token or user inactive")
		}
		return nil, util.NewUnauthorized(failure.Error)
	default:
		c.logger.Error("unexpected introspection status", zap.Int("status", resp.StatusCode))
		return nil, util.NewServiceUnavailable("could not validate token with authentication service")
	}
}
