package domain

import "time"

// InventoryCategory classifies stock items.
type InventoryCategory string

const (
	InventoryMedication InventoryCategory = "MED"
	InventoryEquipment  InventoryCategory = "EQUIP"
	InventorySupplies   InventoryCategory = "SUPP"
	InventoryOther      InventoryCategory = "OTHER"
)

// InventoryItem is a stock record owned by the inventory service.
type InventoryItem struct {
	ID            int64
	Name          string
	Category      InventoryCategory
	Description   *string
	Quantity      int
	Unit          string
	MinimumStock  int
	LastRestocked time.Time
	Supplier      *string
	Location      *string
	ExpiryDate    *time.Time
}

// LowStock reports whether the item is at or below its reorder threshold.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.MinimumStock
}
