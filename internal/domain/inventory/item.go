package inventory

import (
	"time"

	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemStatus represents the stock status of an inventory item
type ItemStatus string

const (
	ItemStatusInStock      ItemStatus = "in_stock"
	ItemStatusLowStock     ItemStatus = "low_stock"
	ItemStatusOutOfStock   ItemStatus = "out_of_stock"
	ItemStatusOnOrder      ItemStatus = "on_order"
	ItemStatusDiscontinued ItemStatus = "discontinued"
)

// IsValid returns true if the status is a known ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusInStock, ItemStatusLowStock, ItemStatusOutOfStock,
		ItemStatusOnOrder, ItemStatusDiscontinued:
		return true
	}
	return false
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// InventoryItem is the quantity ledger for a single stocked item.
// It is the aggregate root for all stock operations and the single source of
// truth for how much of an item exists, is reserved, and is free to allocate.
//
// The three quantities obey the ledger invariant at all times:
//
//	QuantityAvailable = QuantityOnHand - QuantityAllocated
//
// with all three non-negative. QuantityAvailable is derived - there is no
// setter for it; every change flows through applyDelta.
type InventoryItem struct {
	shared.OrgAggregateRoot
	ItemCode          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_inventory_item_org_code,priority:2"`
	Name              string          `gorm:"type:varchar(255);not null"`
	Description       string          `gorm:"type:varchar(1000)"`
	Category          string          `gorm:"type:varchar(100);index"`
	Unit              string          `gorm:"type:varchar(30);not null;default:'each'"`
	Location          string          `gorm:"type:varchar(100);index"` // Primary storage location
	QuantityOnHand    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityAllocated decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityAvailable decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Always OnHand - Allocated
	ReorderLevel      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status            ItemStatus      `gorm:"type:varchar(20);not null;default:'in_stock';index"`
	LastCountedAt     *time.Time      `gorm:"type:timestamptz"`
	DeletedAt         gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item with zero quantities
func NewInventoryItem(orgID uuid.UUID, itemCode, name string) (*InventoryItem, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("Organization ID cannot be empty")
	}
	if itemCode == "" {
		return nil, shared.NewValidationError("Item code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Item name cannot be empty")
	}

	return &InventoryItem{
		OrgAggregateRoot:  shared.NewOrgAggregateRoot(orgID),
		ItemCode:          itemCode,
		Name:              name,
		Unit:              "each",
		QuantityOnHand:    decimal.Zero,
		QuantityAllocated: decimal.Zero,
		QuantityAvailable: decimal.Zero,
		ReorderLevel:      decimal.Zero,
		UnitCost:          decimal.Zero,
		Status:            ItemStatusOutOfStock,
	}, nil
}

// applyDelta is the single mutation primitive for the quantity ledger.
// It applies signed deltas to on-hand and allocated, recomputes available,
// and rejects the whole change if any resulting quantity would be negative.
func (i *InventoryItem) applyDelta(onHandDelta, allocatedDelta decimal.Decimal) error {
	newOnHand := i.QuantityOnHand.Add(onHandDelta)
	newAllocated := i.QuantityAllocated.Add(allocatedDelta)
	newAvailable := newOnHand.Sub(newAllocated)

	if newOnHand.IsNegative() || newAllocated.IsNegative() || newAvailable.IsNegative() {
		return shared.ErrInsufficientStock.
			WithDetail("item_id", i.ID.String()).
			WithDetail("quantity_on_hand", i.QuantityOnHand.String()).
			WithDetail("quantity_allocated", i.QuantityAllocated.String()).
			WithDetail("quantity_available", i.QuantityAvailable.String()).
			WithDetail("on_hand_delta", onHandDelta.String()).
			WithDetail("allocated_delta", allocatedDelta.String())
	}

	wasBelow := i.isBelowReorder()

	i.QuantityOnHand = newOnHand
	i.QuantityAllocated = newAllocated
	i.QuantityAvailable = newAvailable
	i.recomputeStatus()
	i.Touch()
	i.IncrementVersion()

	if !wasBelow && i.isBelowReorder() {
		i.AddDomainEvent(NewStockBelowReorderEvent(i))
	}

	return nil
}

// recomputeStatus derives the stock status from the current quantities and
// reorder level. Discontinued is administrative and never overridden here.
func (i *InventoryItem) recomputeStatus() {
	if i.Status == ItemStatusDiscontinued {
		return
	}
	switch {
	case i.QuantityOnHand.IsZero():
		i.Status = ItemStatusOutOfStock
	case i.ReorderLevel.IsPositive() && i.QuantityOnHand.LessThanOrEqual(i.ReorderLevel):
		i.Status = ItemStatusLowStock
	default:
		i.Status = ItemStatusInStock
	}
}

func (i *InventoryItem) isBelowReorder() bool {
	return i.QuantityOnHand.LessThanOrEqual(i.ReorderLevel)
}

// Reserve moves quantity from available into the allocated pool.
// Fails with InsufficientStock if quantity exceeds QuantityAvailable.
func (i *InventoryItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Reserve quantity must be positive")
	}
	if i.QuantityAvailable.LessThan(quantity) {
		return shared.ErrInsufficientStock.
			WithDetail("item_id", i.ID.String()).
			WithDetail("requested", quantity.String()).
			WithDetail("available", i.QuantityAvailable.String())
	}
	return i.applyDelta(decimal.Zero, quantity)
}

// ReleaseReservation returns reserved quantity to the available pool without
// moving physical stock. Used when an allocation is cancelled.
func (i *InventoryItem) ReleaseReservation(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Release quantity must be positive")
	}
	return i.applyDelta(decimal.Zero, quantity.Neg())
}

// ConsumeReservation removes reserved stock from the building: on-hand and
// allocated both drop by the quantity, leaving available unchanged. This is
// the ledger effect of issuing an allocation to the field.
func (i *InventoryItem) ConsumeReservation(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Issue quantity must be positive")
	}
	return i.applyDelta(quantity.Neg(), quantity.Neg())
}

// AddOnHand increases physical stock (receipt, return, initial stock)
func (i *InventoryItem) AddOnHand(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	return i.applyDelta(quantity, decimal.Zero)
}

// RemoveOnHand decreases physical stock (issue, write-off) drawing only from
// the available pool so reserved stock is never silently consumed.
func (i *InventoryItem) RemoveOnHand(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	if i.QuantityAvailable.LessThan(quantity) {
		return shared.ErrInsufficientStock.
			WithDetail("item_id", i.ID.String()).
			WithDetail("requested", quantity.String()).
			WithDetail("available", i.QuantityAvailable.String())
	}
	return i.applyDelta(quantity.Neg(), decimal.Zero)
}

// AdjustOnHand applies a signed correction to physical stock
func (i *InventoryItem) AdjustOnHand(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewValidationError("Adjustment delta cannot be zero")
	}
	return i.applyDelta(delta, decimal.Zero)
}

// Relocate changes the primary storage location without touching quantities
func (i *InventoryItem) Relocate(location string) error {
	if location == "" {
		return shared.NewValidationError("Location cannot be empty")
	}
	i.Location = location
	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetReorderLevel sets the reorder threshold and re-derives the status
func (i *InventoryItem) SetReorderLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewValidationError("Reorder level cannot be negative")
	}
	i.ReorderLevel = level
	i.recomputeStatus()
	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetUnitCost sets the unit cost used for valuation and count variance cost
func (i *InventoryItem) SetUnitCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewValidationError("Unit cost cannot be negative")
	}
	i.UnitCost = cost
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Discontinue marks the item discontinued. The row is retained (soft delete
// happens at the repository) so transactions and allocations keep a valid
// reference.
func (i *InventoryItem) Discontinue() {
	i.Status = ItemStatusDiscontinued
	i.Touch()
	i.IncrementVersion()
}

// MarkCounted stamps the last physical-count date
func (i *InventoryItem) MarkCounted(at time.Time) {
	i.LastCountedAt = &at
	i.Touch()
}

// CanFulfill returns true if available quantity covers the requested quantity
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.QuantityAvailable.GreaterThanOrEqual(quantity)
}

// IsBelowReorder returns true if on-hand has fallen to or below the reorder level
func (i *InventoryItem) IsBelowReorder() bool {
	return i.isBelowReorder()
}

// TotalValue returns on-hand quantity times unit cost
func (i *InventoryItem) TotalValue() decimal.Decimal {
	return i.QuantityOnHand.Mul(i.UnitCost)
}
