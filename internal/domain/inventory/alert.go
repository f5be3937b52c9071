package inventory

import (
	"time"

	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertType represents the kind of stock alert
type AlertType string

const (
	// AlertTypeLowStock means on-hand is at or below the reorder level
	AlertTypeLowStock AlertType = "low_stock"
	// AlertTypeOutOfStock means on-hand is zero
	AlertTypeOutOfStock AlertType = "out_of_stock"
	// AlertTypeReorder recommends placing a replenishment order
	AlertTypeReorder AlertType = "reorder"
)

// String returns the string representation of AlertType
func (t AlertType) String() string {
	return string(t)
}

// IsValid returns true if the alert type is valid
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeLowStock, AlertTypeOutOfStock, AlertTypeReorder:
		return true
	}
	return false
}

// AlertSeverity represents how urgent an alert is
type AlertSeverity string

const (
	// AlertSeverityWarning means stock is low but not exhausted
	AlertSeverityWarning AlertSeverity = "warning"
	// AlertSeverityCritical means stock is exhausted
	AlertSeverityCritical AlertSeverity = "critical"
)

// String returns the string representation of AlertSeverity
func (s AlertSeverity) String() string {
	return string(s)
}

// InventoryStockAlert is a low or out of stock notification for an item.
// At most one unresolved alert exists per item; repeated detection updates
// the existing alert instead of creating duplicates.
type InventoryStockAlert struct {
	shared.OrgAggregateRoot
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_alert_item"`
	ItemCode        string          `gorm:"type:varchar(50);not null"`
	ItemName        string          `gorm:"type:varchar(255);not null"`
	AlertType       AlertType       `gorm:"type:varchar(20);not null"`
	Severity        AlertSeverity   `gorm:"type:varchar(10);not null"`
	QuantityOnHand  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReorderLevel    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Acknowledged    bool            `gorm:"not null;default:false"`
	AcknowledgedBy  *uuid.UUID      `gorm:"type:uuid"`
	AcknowledgedAt  *time.Time      `gorm:"type:timestamptz"`
	Resolved        bool            `gorm:"not null;default:false;index:idx_inv_alert_resolved"`
	ResolvedBy      *uuid.UUID      `gorm:"type:uuid"`
	ResolvedAt      *time.Time      `gorm:"type:timestamptz"`
	ResolutionNotes string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InventoryStockAlert) TableName() string {
	return "inventory_stock_alerts"
}

// NewStockAlertForItem creates an alert reflecting the item's current stock
// position. Severity is critical when on-hand is zero, warning otherwise.
func NewStockAlertForItem(item *InventoryItem) (*InventoryStockAlert, error) {
	if item == nil {
		return nil, shared.NewValidationError("Item cannot be nil")
	}

	alertType := AlertTypeLowStock
	severity := AlertSeverityWarning
	if item.QuantityOnHand.IsZero() {
		alertType = AlertTypeOutOfStock
		severity = AlertSeverityCritical
	}

	alert := &InventoryStockAlert{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(item.OrgID),
		ItemID:           item.ID,
		ItemCode:         item.ItemCode,
		ItemName:         item.Name,
		AlertType:        alertType,
		Severity:         severity,
		QuantityOnHand:   item.QuantityOnHand,
		ReorderLevel:     item.ReorderLevel,
	}
	alert.AddDomainEvent(NewStockAlertRaisedEvent(alert))
	return alert, nil
}

// Refresh updates an unresolved alert with the item's latest stock position.
// Severity may escalate or de-escalate as the quantity moves.
func (a *InventoryStockAlert) Refresh(item *InventoryItem) {
	a.QuantityOnHand = item.QuantityOnHand
	a.ReorderLevel = item.ReorderLevel
	if item.QuantityOnHand.IsZero() {
		a.AlertType = AlertTypeOutOfStock
		a.Severity = AlertSeverityCritical
	} else {
		a.AlertType = AlertTypeLowStock
		a.Severity = AlertSeverityWarning
	}
	a.Touch()
}

// Acknowledge marks the alert as seen. Acknowledging twice is a no-op.
func (a *InventoryStockAlert) Acknowledge(userID uuid.UUID) {
	if a.Acknowledged {
		return
	}
	now := time.Now()
	a.Acknowledged = true
	a.AcknowledgedBy = &userID
	a.AcknowledgedAt = &now
	a.UpdatedAt = now
}

// Resolve closes the alert once stock is replenished above the reorder level,
// recording who resolved it and why. Resolving twice is a no-op.
func (a *InventoryStockAlert) Resolve(resolvedBy *uuid.UUID, notes string) {
	if a.Resolved {
		return
	}
	now := time.Now()
	a.Resolved = true
	a.ResolvedBy = resolvedBy
	a.ResolvedAt = &now
	a.ResolutionNotes = notes
	a.UpdatedAt = now
	a.AddDomainEvent(NewStockAlertResolvedEvent(a))
}

// IsActive returns true if the alert has not been resolved
func (a *InventoryStockAlert) IsActive() bool {
	return !a.Resolved
}
