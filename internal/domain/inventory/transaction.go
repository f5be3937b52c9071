package inventory

import (
	"time"

	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of inventory transaction
type TransactionType string

const (
	// TransactionTypeReceipt represents stock received into storage
	TransactionTypeReceipt TransactionType = "receipt"
	// TransactionTypeIssue represents stock issued out to a job or bid
	TransactionTypeIssue TransactionType = "issue"
	// TransactionTypeAdjustment represents a signed manual correction
	TransactionTypeAdjustment TransactionType = "adjustment"
	// TransactionTypeTransfer represents a relocation within the organization
	TransactionTypeTransfer TransactionType = "transfer"
	// TransactionTypeReturn represents stock returned from a job
	TransactionTypeReturn TransactionType = "return"
	// TransactionTypeWriteOff represents damaged or lost stock written off
	TransactionTypeWriteOff TransactionType = "write_off"
	// TransactionTypeInitialStock represents opening stock at registration
	TransactionTypeInitialStock TransactionType = "initial_stock"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeReceipt,
		TransactionTypeIssue,
		TransactionTypeAdjustment,
		TransactionTypeTransfer,
		TransactionTypeReturn,
		TransactionTypeWriteOff,
		TransactionTypeInitialStock:
		return true
	}
	return false
}

// IsIncrease returns true if this transaction type increases on-hand quantity
func (t TransactionType) IsIncrease() bool {
	switch t {
	case TransactionTypeReceipt, TransactionTypeReturn, TransactionTypeInitialStock:
		return true
	}
	return false
}

// IsDecrease returns true if this transaction type decreases on-hand quantity
func (t TransactionType) IsDecrease() bool {
	switch t {
	case TransactionTypeIssue, TransactionTypeWriteOff:
		return true
	}
	return false
}

// InventoryTransaction is an immutable record of a stock movement.
// Once written it is never edited; corrections are new offsetting entries.
type InventoryTransaction struct {
	shared.BaseEntity
	OrgID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_org_time,priority:1"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_item"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null;index:idx_inv_tx_type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Positive magnitude; sign for adjustments lives on the value itself
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // On-hand before the posting
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // On-hand after the posting
	JobID           *uuid.UUID      `gorm:"type:uuid;index"`
	BidID           *uuid.UUID      `gorm:"type:uuid;index"`
	AllocationID    *uuid.UUID      `gorm:"type:uuid;index"`
	Reference       string          `gorm:"type:varchar(100)"`
	Reason          string          `gorm:"type:varchar(255)"`
	FromLocation    string          `gorm:"type:varchar(100)"` // Transfers only
	ToLocation      string          `gorm:"type:varchar(100)"` // Transfers only
	ActorID         *uuid.UUID      `gorm:"type:uuid"`
	TransactionDate time.Time       `gorm:"type:timestamptz;not null;index:idx_inv_tx_org_time,priority:2"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new inventory transaction. Quantity must
// be positive for all types except adjustment, where a signed value carries
// the direction of the correction.
func NewInventoryTransaction(
	orgID uuid.UUID,
	itemID uuid.UUID,
	txType TransactionType,
	quantity decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
) (*InventoryTransaction, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("Organization ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("Item ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewValidationError("Invalid transaction type")
	}
	if quantity.IsZero() {
		return nil, shared.NewValidationError("Quantity cannot be zero")
	}
	if txType != TransactionTypeAdjustment && quantity.IsNegative() {
		return nil, shared.NewValidationError("Quantity must be positive")
	}

	return &InventoryTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		OrgID:           orgID,
		ItemID:          itemID,
		TransactionType: txType,
		Quantity:        quantity,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		TransactionDate: time.Now(),
	}, nil
}

// OnHandDelta returns the signed change this transaction applies to on-hand
// quantity. Transfers are net zero; adjustments carry their own sign.
func (t *InventoryTransaction) OnHandDelta() decimal.Decimal {
	switch {
	case t.TransactionType == TransactionTypeTransfer:
		return decimal.Zero
	case t.TransactionType == TransactionTypeAdjustment:
		return t.Quantity
	case t.TransactionType.IsDecrease():
		return t.Quantity.Neg()
	default:
		return t.Quantity
	}
}

// WithJobID tags the transaction with a job reference
func (t *InventoryTransaction) WithJobID(jobID uuid.UUID) *InventoryTransaction {
	t.JobID = &jobID
	return t
}

// WithBidID tags the transaction with a bid reference
func (t *InventoryTransaction) WithBidID(bidID uuid.UUID) *InventoryTransaction {
	t.BidID = &bidID
	return t
}

// WithAllocationID links the transaction to the allocation that produced it
func (t *InventoryTransaction) WithAllocationID(allocationID uuid.UUID) *InventoryTransaction {
	t.AllocationID = &allocationID
	return t
}

// WithReference sets the reference number for the transaction
func (t *InventoryTransaction) WithReference(reference string) *InventoryTransaction {
	t.Reference = reference
	return t
}

// WithReason sets the reason for the transaction
func (t *InventoryTransaction) WithReason(reason string) *InventoryTransaction {
	t.Reason = reason
	return t
}

// WithLocations records the from/to locations of a transfer
func (t *InventoryTransaction) WithLocations(from, to string) *InventoryTransaction {
	t.FromLocation = from
	t.ToLocation = to
	return t
}

// WithActorID records the user who performed the movement
func (t *InventoryTransaction) WithActorID(actorID uuid.UUID) *InventoryTransaction {
	t.ActorID = &actorID
	return t
}
