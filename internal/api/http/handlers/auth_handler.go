package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/emergency-services/internal/api/dto"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/service"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

// AuthHandler manages account and token endpoints, including the
// introspection endpoint peer services call to resolve tokens.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return util.NewValidationError("username and password required", nil)
	}
	identity, token, err := h.service.Register(c.UserContext(), req.Username, req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  userResponse(identity),
		"token": token,
	})
}

// Login POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return util.NewValidationError("username and password required", nil)
	}
	identity, token, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  userResponse(identity),
	})
}

// Introspect POST /introspect. The response contract is fixed for peer
// services: 200 with the identity document, 400 when no token is supplied,
// 401 with a flat error body and active=false when the token does not
// resolve to a live account.
func (h *AuthHandler) Introspect(c *fiber.Ctx) error {
	var req dto.IntrospectRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token not provided",
		})
	}

	identity, err := h.service.Introspect(c.UserContext(), req.Token)
	if err != nil {
		domainErr := util.ToDomainError(err)
		if domainErr.HTTPStatus == fiber.StatusUnauthorized {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":  domainErr.Message,
				"active": false,
			})
		}
		return err
	}
	return c.JSON(identity)
}

// GetUser GET /users/:id.
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	identity, err := h.service.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(identity))
}

// ListUsers GET /users.
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	identities, err := h.service.ListUsers(c.UserContext(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(identities))
	for i := range identities {
		items = append(items, userResponse(&identities[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func userResponse(identity *domain.Identity) dto.UserResponse {
	return dto.UserResponse{
		ID:        identity.ID,
		Username:  identity.Username,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Active:    identity.Active,
		CreatedAt: identity.CreatedAt,
	}
}
