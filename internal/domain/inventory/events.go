package inventory

import (
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for the inventory domain
const (
	EventTypeStockReceived       = "inventory.stock_received"
	EventTypeStockIssued         = "inventory.stock_issued"
	EventTypeStockAdjusted       = "inventory.stock_adjusted"
	EventTypeStockBelowReorder   = "inventory.stock_below_reorder"
	EventTypeAllocationCreated   = "inventory.allocation_created"
	EventTypeAllocationIssued    = "inventory.allocation_issued"
	EventTypeAllocationReturned  = "inventory.allocation_returned"
	EventTypeAllocationCancelled = "inventory.allocation_cancelled"
	EventTypeCountStarted        = "inventory.count_started"
	EventTypeCountCompleted      = "inventory.count_completed"
	EventTypeStockAlertRaised    = "inventory.stock_alert_raised"
	EventTypeStockAlertResolved  = "inventory.stock_alert_resolved"
)

// StockBelowReorderEvent is raised when an item's on-hand quantity crosses
// at or below its reorder level.
type StockBelowReorderEvent struct {
	shared.BaseDomainEvent
	ItemID         uuid.UUID       `json:"item_id"`
	ItemCode       string          `json:"item_code"`
	ItemName       string          `json:"item_name"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
}

// NewStockBelowReorderEvent creates a StockBelowReorderEvent from the item's
// current state
func NewStockBelowReorderEvent(item *InventoryItem) *StockBelowReorderEvent {
	return &StockBelowReorderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorder, "InventoryItem", item.ID, item.OrgID),
		ItemID:          item.ID,
		ItemCode:        item.ItemCode,
		ItemName:        item.Name,
		QuantityOnHand:  item.QuantityOnHand,
		ReorderLevel:    item.ReorderLevel,
	}
}

// StockReceivedEvent is raised when stock is received into storage
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID       `json:"item_id"`
	ItemCode string          `json:"item_code"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewStockReceivedEvent creates a StockReceivedEvent
func NewStockReceivedEvent(item *InventoryItem, quantity decimal.Decimal) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, "InventoryItem", item.ID, item.OrgID),
		ItemID:          item.ID,
		ItemCode:        item.ItemCode,
		Quantity:        quantity,
	}
}

// StockIssuedEvent is raised when stock physically leaves storage
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID       `json:"item_id"`
	ItemCode string          `json:"item_code"`
	Quantity decimal.Decimal `json:"quantity"`
	JobID    *uuid.UUID      `json:"job_id,omitempty"`
}

// NewStockIssuedEvent creates a StockIssuedEvent
func NewStockIssuedEvent(item *InventoryItem, quantity decimal.Decimal, jobID *uuid.UUID) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, "InventoryItem", item.ID, item.OrgID),
		ItemID:          item.ID,
		ItemCode:        item.ItemCode,
		Quantity:        quantity,
		JobID:           jobID,
	}
}

// StockAdjustedEvent is raised when a manual correction changes on-hand stock
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID       `json:"item_id"`
	ItemCode string          `json:"item_code"`
	Delta    decimal.Decimal `json:"delta"`
	Reason   string          `json:"reason"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(item *InventoryItem, delta decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "InventoryItem", item.ID, item.OrgID),
		ItemID:          item.ID,
		ItemCode:        item.ItemCode,
		Delta:           delta,
		Reason:          reason,
	}
}

// AllocationCreatedEvent is raised when stock is reserved for a job or bid
type AllocationCreatedEvent struct {
	shared.BaseDomainEvent
	AllocationID uuid.UUID       `json:"allocation_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewAllocationCreatedEvent creates an AllocationCreatedEvent
func NewAllocationCreatedEvent(alloc *InventoryAllocation) *AllocationCreatedEvent {
	return &AllocationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAllocationCreated, "InventoryAllocation", alloc.ID, alloc.OrgID),
		AllocationID:    alloc.ID,
		ItemID:          alloc.ItemID,
		Quantity:        alloc.Quantity,
	}
}

// AllocationIssuedEvent is raised when an allocation's stock is issued
type AllocationIssuedEvent struct {
	shared.BaseDomainEvent
	AllocationID uuid.UUID       `json:"allocation_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewAllocationIssuedEvent creates an AllocationIssuedEvent
func NewAllocationIssuedEvent(alloc *InventoryAllocation) *AllocationIssuedEvent {
	return &AllocationIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAllocationIssued, "InventoryAllocation", alloc.ID, alloc.OrgID),
		AllocationID:    alloc.ID,
		ItemID:          alloc.ItemID,
		Quantity:        alloc.Quantity,
	}
}

// AllocationReturnedEvent is raised when unused stock comes back to storage
type AllocationReturnedEvent struct {
	shared.BaseDomainEvent
	AllocationID     uuid.UUID       `json:"allocation_id"`
	ItemID           uuid.UUID       `json:"item_id"`
	QuantityReturned decimal.Decimal `json:"quantity_returned"`
}

// NewAllocationReturnedEvent creates an AllocationReturnedEvent
func NewAllocationReturnedEvent(alloc *InventoryAllocation, quantity decimal.Decimal) *AllocationReturnedEvent {
	return &AllocationReturnedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAllocationReturned, "InventoryAllocation", alloc.ID, alloc.OrgID),
		AllocationID:     alloc.ID,
		ItemID:           alloc.ItemID,
		QuantityReturned: quantity,
	}
}

// AllocationCancelledEvent is raised when an allocation is abandoned
type AllocationCancelledEvent struct {
	shared.BaseDomainEvent
	AllocationID uuid.UUID `json:"allocation_id"`
	ItemID       uuid.UUID `json:"item_id"`
}

// NewAllocationCancelledEvent creates an AllocationCancelledEvent
func NewAllocationCancelledEvent(alloc *InventoryAllocation) *AllocationCancelledEvent {
	return &AllocationCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAllocationCancelled, "InventoryAllocation", alloc.ID, alloc.OrgID),
		AllocationID:    alloc.ID,
		ItemID:          alloc.ItemID,
	}
}

// CountStartedEvent is raised when a physical count freezes its snapshot
type CountStartedEvent struct {
	shared.BaseDomainEvent
	CountID     uuid.UUID `json:"count_id"`
	CountNumber string    `json:"count_number"`
	ItemCount   int       `json:"item_count"`
}

// NewCountStartedEvent creates a CountStartedEvent
func NewCountStartedEvent(count *InventoryCount) *CountStartedEvent {
	return &CountStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCountStarted, "InventoryCount", count.ID, count.OrgID),
		CountID:         count.ID,
		CountNumber:     count.CountNumber,
		ItemCount:       len(count.Items),
	}
}

// CountCompletedEvent is raised when a physical count is finalized
type CountCompletedEvent struct {
	shared.BaseDomainEvent
	CountID       uuid.UUID       `json:"count_id"`
	CountNumber   string          `json:"count_number"`
	VarianceLines int             `json:"variance_lines"`
	VarianceCost  decimal.Decimal `json:"variance_cost"`
}

// NewCountCompletedEvent creates a CountCompletedEvent
func NewCountCompletedEvent(count *InventoryCount) *CountCompletedEvent {
	return &CountCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCountCompleted, "InventoryCount", count.ID, count.OrgID),
		CountID:         count.ID,
		CountNumber:     count.CountNumber,
		VarianceLines:   len(count.VarianceLines()),
		VarianceCost:    count.TotalVarianceCost(),
	}
}

// StockAlertRaisedEvent is raised when a new stock alert is created
type StockAlertRaisedEvent struct {
	shared.BaseDomainEvent
	AlertID   uuid.UUID     `json:"alert_id"`
	ItemID    uuid.UUID     `json:"item_id"`
	AlertType AlertType     `json:"alert_type"`
	Severity  AlertSeverity `json:"severity"`
}

// NewStockAlertRaisedEvent creates a StockAlertRaisedEvent
func NewStockAlertRaisedEvent(alert *InventoryStockAlert) *StockAlertRaisedEvent {
	return &StockAlertRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAlertRaised, "InventoryStockAlert", alert.ID, alert.OrgID),
		AlertID:         alert.ID,
		ItemID:          alert.ItemID,
		AlertType:       alert.AlertType,
		Severity:        alert.Severity,
	}
}

// StockAlertResolvedEvent is raised when a stock alert is closed
type StockAlertResolvedEvent struct {
	shared.BaseDomainEvent
	AlertID    uuid.UUID  `json:"alert_id"`
	ItemID     uuid.UUID  `json:"item_id"`
	ResolvedBy *uuid.UUID `json:"resolved_by,omitempty"`
}

// NewStockAlertResolvedEvent creates a StockAlertResolvedEvent
func NewStockAlertResolvedEvent(alert *InventoryStockAlert) *StockAlertResolvedEvent {
	return &StockAlertResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAlertResolved, "InventoryStockAlert", alert.ID, alert.OrgID),
		AlertID:         alert.ID,
		ItemID:          alert.ItemID,
		ResolvedBy:      alert.ResolvedBy,
	}
}
