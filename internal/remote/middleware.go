package remote

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/emergency-services/internal/domain"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

const (
	identityKey = "auth_identity"
	tokenKey    = "auth_token"
)

// AuthMiddleware resolves bearer tokens through an Introspector and attaches
// the caller's identity to the request. A request without credentials passes
// through anonymous; handler-level guards decide whether that is acceptable.
type AuthMiddleware struct {
	introspector Introspector
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(introspector Introspector) *AuthMiddleware {
	return &AuthMiddleware{introspector: introspector}
}

// Handle parses the Authorization header. Absent header or a different
// scheme → anonymous pass-through. Wrong token count → 401. Otherwise the
// token is introspected synchronously; its failure aborts the request.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return c.Next()
	}

	parts := strings.Fields(header)
	if !strings.EqualFold(parts[0], Scheme) {
		return c.Next()
	}
	if len(parts) == 1 {
		return util.NewUnauthorized("invalid token header: no credentials provided")
	}
	if len(parts) > 2 {
		return util.NewUnauthorized("invalid token header: token string should not contain spaces")
	}

	identity, err := m.introspector.Introspect(c.Context(), parts[1])
	if err != nil {
		return err
	}

	c.Locals(identityKey, identity)
	c.Locals(tokenKey, parts[1])
	return c.Next()
}

// IdentityFromContext retrieves the resolved caller identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*domain.RemoteIdentity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.RemoteIdentity)
	return identity, ok
}

// TokenFromContext returns the caller's raw token for forwarding on
// inter-service calls, or empty when the request is anonymous.
func TokenFromContext(c *fiber.Ctx) string {
	val := c.Locals(tokenKey)
	if val == nil {
		return ""
	}
	token, _ := val.(string)
	return token
}

// RequireIdentity rejects anonymous requests on protected routes.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return util.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
