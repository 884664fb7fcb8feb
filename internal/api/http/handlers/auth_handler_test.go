package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/emergency-services/internal/config"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/repository"
	"github.com/spec-kit/emergency-services/internal/service"
)

type stubIdentityRepo struct {
	byID       map[int64]*domain.Identity
	byUsername map[string]*domain.Identity
	nextID     int64
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{
		byID:       map[int64]*domain.Identity{},
		byUsername: map[string]*domain.Identity{},
		nextID:     1,
	}
}

func (r *stubIdentityRepo) Create(ctx context.Context, identity *domain.Identity) error {
	identity.ID = r.nextID
	r.nextID++
	clone := *identity
	r.byID[identity.ID] = &clone
	r.byUsername[identity.Username] = &clone
	return nil
}

func (r *stubIdentityRepo) GetByID(ctx context.Context, id int64) (*domain.Identity, error) {
	identity, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *identity
	return &clone, nil
}

func (r *stubIdentityRepo) GetByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	identity, ok := r.byUsername[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *identity
	return &clone, nil
}

func (r *stubIdentityRepo) List(ctx context.Context, limit, offset int) ([]domain.Identity, error) {
	out := make([]domain.Identity, 0, len(r.byID))
	for _, identity := range r.byID {
		out = append(out, *identity)
	}
	return out, nil
}

type stubTokenStore struct {
	byIdentity map[int64]string
	byToken    map[string]int64
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{byIdentity: map[int64]string{}, byToken: map[string]int64{}}
}

func (s *stubTokenStore) GetOrCreate(ctx context.Context, identityID int64) (string, error) {
	if token, ok := s.byIdentity[identityID]; ok {
		return token, nil
	}
	token := fmt.Sprintf("token-%d", identityID)
	s.byIdentity[identityID] = token
	s.byToken[token] = identityID
	return token, nil
}

func (s *stubTokenStore) Resolve(ctx context.Context, token string) (int64, error) {
	id, ok := s.byToken[token]
	if !ok {
		return 0, repository.ErrTokenNotFound
	}
	return id, nil
}

func newIntrospectApp(t *testing.T) (*fiber.App, *service.AuthService) {
	t.Helper()
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		IdentityRepo: newStubIdentityRepo(),
		TokenStore:   newStubTokenStore(),
	})
	handler := NewAuthHandler(authService)

	app := fiber.New()
	app.Post("/api/auth/introspect", handler.Introspect)
	return app, authService
}

func postIntrospect(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/api/auth/introspect", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func TestIntrospectMissingToken(t *testing.T) {
	app, _ := newIntrospectApp(t)

	resp, body := postIntrospect(t, app, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Token not provided", body["error"])
}

func TestIntrospectUnknownTokenBody(t *testing.T) {
	app, _ := newIntrospectApp(t)

	resp, body := postIntrospect(t, app, `{"token": "nope"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["error"])
	assert.Equal(t, false, body["active"])
}

func TestIntrospectReturnsFlatIdentity(t *testing.T) {
	app, authService := newIntrospectApp(t)

	_, token, err := authService.Register(context.Background(), "jdoe", "jdoe@example.com", "Jane", "Doe", "s3cret")
	require.NoError(t, err)

	resp, body := postIntrospect(t, app, fmt.Sprintf(`{"token": %q}`, token))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "jdoe", body["username"])
	assert.Equal(t, true, body["active"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "password_hash")
}
