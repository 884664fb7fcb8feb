package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/emergency-services/internal/api/dto"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/repository"
	"github.com/spec-kit/emergency-services/internal/service"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

// InventoryHandler manages stock endpoints.
type InventoryHandler struct {
	service *service.InventoryService
}

// NewInventoryHandler constructs handler.
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: inventoryService}
}

// CreateItem POST /inventory.
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	item, err := parseItemRequest(c)
	if err != nil {
		return err
	}
	if err := h.service.CreateItem(c.UserContext(), actorFromContext(c), item); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": itemResponse(item)})
}

// UpdateItem PUT /inventory/:id.
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	item, err := parseItemRequest(c)
	if err != nil {
		return err
	}
	item.ID = id
	if err := h.service.UpdateItem(c.UserContext(), actorFromContext(c), item); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(item)})
}

// GetItem GET /inventory/:id.
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.service.GetItem(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(item)})
}

// ListItems GET /inventory.
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter := repository.InventoryFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if category := c.Query("category"); category != "" {
		cat := domain.InventoryCategory(strings.ToUpper(category))
		filter.Category = &cat
	}
	items, err := h.service.ListItems(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.InventoryItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, itemResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListLowStock GET /inventory/low-stock.
func (h *InventoryHandler) ListLowStock(c *fiber.Ctx) error {
	items, err := h.service.ListLowStock(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.InventoryItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, itemResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CountItems GET /inventory/count.
func (h *InventoryHandler) CountItems(c *fiber.Ctx) error {
	count, err := h.service.CountItems(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.InventoryCountResponse{Count: count})
}

// DeleteItem DELETE /inventory/:id.
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteItem(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseItemRequest(c *fiber.Ctx) (*domain.InventoryItem, error) {
	var req dto.InventoryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, util.NewValidationError("invalid payload", nil)
	}
	expiry, err := parseOptionalDate(req.ExpiryDate, "expiry_date")
	if err != nil {
		return nil, err
	}
	category := req.Category
	if category == "" {
		category = domain.InventoryOther
	}
	return &domain.InventoryItem{
		Name:         req.Name,
		Category:     category,
		Description:  req.Description,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		MinimumStock: req.MinimumStock,
		Supplier:     req.Supplier,
		Location:     req.Location,
		ExpiryDate:   expiry,
	}, nil
}

func itemResponse(item *domain.InventoryItem) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:            item.ID,
		Name:          item.Name,
		Category:      item.Category,
		Description:   item.Description,
		Quantity:      item.Quantity,
		Unit:          item.Unit,
		MinimumStock:  item.MinimumStock,
		LowStock:      item.LowStock(),
		LastRestocked: item.LastRestocked,
		Supplier:      item.Supplier,
		Location:      item.Location,
		ExpiryDate:    dto.FormatDate(item.ExpiryDate),
	}
}
