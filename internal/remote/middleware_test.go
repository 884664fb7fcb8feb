package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/emergency-services/internal/domain"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

type fakeIntrospector struct {
	identity *domain.RemoteIdentity
	err      error
	calls    int
}

func (f *fakeIntrospector) Introspect(ctx context.Context, token string) (*domain.RemoteIdentity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func newMiddlewareApp(introspector Introspector) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			domainErr := util.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Message})
		}
		return nil
	})
	app.Use(NewAuthMiddleware(introspector).Handle)
	app.Get("/open", func(c *fiber.Ctx) error {
		if identity, ok := IdentityFromContext(c); ok {
			return c.JSON(fiber.Map{"username": identity.Username})
		}
		return c.JSON(fiber.Map{"username": nil})
	})
	app.Get("/protected", RequireIdentity(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader, path string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	payload := map[string]any{}
	_ = json.Unmarshal(body, &payload)
	return resp, payload
}

func TestMiddlewareNoHeaderIsAnonymous(t *testing.T) {
	introspector := &fakeIntrospector{}
	app := newMiddlewareApp(introspector)

	resp, payload := doRequest(t, app, "", "/open")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, payload["username"])
	assert.Zero(t, introspector.calls)
}

func TestMiddlewareDifferentSchemePassesThrough(t *testing.T) {
	introspector := &fakeIntrospector{}
	app := newMiddlewareApp(introspector)

	resp, _ := doRequest(t, app, "Bearer sometoken", "/open")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, introspector.calls)
}

func TestMiddlewareMalformedHeaders(t *testing.T) {
	introspector := &fakeIntrospector{}
	app := newMiddlewareApp(introspector)

	resp, payload := doRequest(t, app, "Token", "/open")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid token header: no credentials provided", payload["error"])

	resp, payload = doRequest(t, app, "Token abc def", "/open")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid token header: token string should not contain spaces", payload["error"])
	assert.Zero(t, introspector.calls)
}

func TestMiddlewareResolvesIdentity(t *testing.T) {
	introspector := &fakeIntrospector{identity: &domain.RemoteIdentity{ID: 9, Username: "jdoe", Active: true}}
	app := newMiddlewareApp(introspector)

	resp, payload := doRequest(t, app, "Token abc123", "/open")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jdoe", payload["username"])
	assert.Equal(t, 1, introspector.calls)
}

func TestMiddlewareIntrospectionFailureRejects(t *testing.T) {
	introspector := &fakeIntrospector{err: util.NewServiceUnavailable("authentication service unreachable")}
	app := newMiddlewareApp(introspector)

	// a failed introspection must not degrade to anonymous
	resp, _ := doRequest(t, app, "Token abc123", "/open")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequireIdentityRejectsAnonymous(t *testing.T) {
	app := newMiddlewareApp(&fakeIntrospector{})

	resp, _ := doRequest(t, app, "", "/protected")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireIdentityAllowsAuthenticated(t *testing.T) {
	app := newMiddlewareApp(&fakeIntrospector{identity: &domain.RemoteIdentity{ID: 1, Username: "jdoe"}})

	resp, _ := doRequest(t, app, "Token abc123", "/protected")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
