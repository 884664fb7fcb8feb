package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/events"
	"github.com/spec-kit/emergency-services/internal/repository"
	"github.com/spec-kit/emergency-services/pkg/util"
)

// InventoryService owns stock records. It keeps no foreign references and
// therefore never calls out to peer services; its only side channel is the
// low-stock event raised when a write leaves an item at or below its
// reorder threshold.
type InventoryService struct {
	items      repository.InventoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// InventoryDependencies bundles requirements for the inventory service.
type InventoryDependencies struct {
	ItemRepo   repository.InventoryRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewInventoryService constructs the service.
func NewInventoryService(deps InventoryDependencies) *InventoryService {
	return &InventoryService{
		items:      deps.ItemRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

func validateItem(item *domain.InventoryItem) error {
	details := map[string]any{}
	if item.Name == "" {
		details["name"] = "name is required"
	}
	if item.Unit == "" {
		details["unit"] = "unit is required"
	}
	if item.Quantity < 0 {
		details["quantity"] = "quantity cannot be negative"
	}
	if item.MinimumStock < 0 {
		details["minimum_stock"] = "minimum stock cannot be negative"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid payload", details)
	}
	return nil
}

func (s *InventoryService) notifyIfLow(ctx context.Context, actor events.Actor, item *domain.InventoryItem) {
	if !item.LowStock() {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventInventoryLowStock,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload: events.InventoryLowStockPayload{
			ItemID:       item.ID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			MinimumStock: item.MinimumStock,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("low stock event publish failed",
			zap.Int64("item_id", item.ID),
			zap.Error(err))
	}
}

// CreateItem persists a stock record.
func (s *InventoryService) CreateItem(ctx context.Context, actor events.Actor, item *domain.InventoryItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return err
	}
	s.notifyIfLow(ctx, actor, item)
	return nil
}

// UpdateItem replaces a stock record. A quantity increase refreshes the
// restock timestamp.
func (s *InventoryService) UpdateItem(ctx context.Context, actor events.Actor, item *domain.InventoryItem) error {
	if err := validateItem(item); err != nil {
		return err
	}

	current, err := s.items.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if item.Quantity > current.Quantity {
		item.LastRestocked = time.Now().UTC()
	} else {
		item.LastRestocked = current.LastRestocked
	}

	if err := s.items.Update(ctx, item); err != nil {
		return err
	}
	s.notifyIfLow(ctx, actor, item)
	return nil
}

// GetItem loads one stock record.
func (s *InventoryService) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	return s.items.GetByID(ctx, id)
}

// ListItems lists stock records.
func (s *InventoryService) ListItems(ctx context.Context, filter repository.InventoryFilter) ([]domain.InventoryItem, error) {
	return s.items.List(ctx, filter)
}

// ListLowStock lists every item at or below its reorder threshold.
func (s *InventoryService) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.items.ListLowStock(ctx)
}

// CountItems returns the total number of stock records.
func (s *InventoryService) CountItems(ctx context.Context) (int64, error) {
	return s.items.Count(ctx)
}

// DeleteItem removes a stock record.
func (s *InventoryService) DeleteItem(ctx context.Context, id int64) error {
	return s.items.Delete(ctx, id)
}
