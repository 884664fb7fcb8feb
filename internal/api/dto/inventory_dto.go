package dto

import (
	"time"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// InventoryItemRequest payload for item create/update. ExpiryDate is an
// ISO date (2006-01-02).
type InventoryItemRequest struct {
	Name         string                   `json:"name"`
	Category     domain.InventoryCategory `json:"category"`
	Description  *string                  `json:"description"`
	Quantity     int                      `json:"quantity"`
	Unit         string                   `json:"unit"`
	MinimumStock int                      `json:"minimum_stock"`
	Supplier     *string                  `json:"supplier"`
	Location     *string                  `json:"location"`
	ExpiryDate   *string                  `json:"expiry_date"`
}

// InventoryItemResponse full item representation.
type InventoryItemResponse struct {
	ID            int64                    `json:"id"`
	Name          string                   `json:"name"`
	Category      domain.InventoryCategory `json:"category"`
	Description   *string                  `json:"description"`
	Quantity      int                      `json:"quantity"`
	Unit          string                   `json:"unit"`
	MinimumStock  int                      `json:"minimum_stock"`
	LowStock      bool                     `json:"low_stock"`
	LastRestocked time.Time                `json:"last_restocked"`
	Supplier      *string                  `json:"supplier"`
	Location      *string                  `json:"location"`
	ExpiryDate    *string                  `json:"expiry_date"`
}

// InventoryCountResponse total item count.
type InventoryCountResponse struct {
	Count int64 `json:"count"`
}
