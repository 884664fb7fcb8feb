package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	util "github.com/spec-kit/emergency-services/pkg/util"
)

func TestIntrospectResolvesIdentity(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotToken = req["token"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 3, "username": "jdoe", "email": "jdoe@example.com", "active": true}`))
	}))
	defer server.Close()

	client := NewIntrospectionClient(server.URL, 5*time.Second, zap.NewNop())
	identity, err := client.Introspect(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", gotToken)
	assert.Equal(t, int64(3), identity.ID)
	assert.Equal(t, "jdoe", identity.Username)
	assert.True(t, identity.Active)
}

func TestIntrospectInvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid token", "active": false}`))
	}))
	defer server.Close()

	client := NewIntrospectionClient(server.URL, 5*time.Second, zap.NewNop())
	identity, err := client.Introspect(context.Background(), "bogus")
	require.Error(t, err)
	assert.Nil(t, identity)

	domainErr := util.ToDomainError(err)
	assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
	assert.Equal(t, "Invalid token", domainErr.Message)
}

func TestIntrospectAuthServiceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewIntrospectionClient(server.URL, time.Second, zap.NewNop())
	identity, err := client.Introspect(context.Background(), "abc123")
	require.Error(t, err)
	assert.Nil(t, identity)

	// an unreachable issuer is never treated as anonymous
	domainErr := util.ToDomainError(err)
	assert.Equal(t, http.StatusServiceUnavailable, domainErr.HTTPStatus)
}

func TestIntrospectUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewIntrospectionClient(server.URL, time.Second, zap.NewNop())
	_, err := client.Introspect(context.Background(), "abc123")
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, util.ToDomainError(err).HTTPStatus)
}
