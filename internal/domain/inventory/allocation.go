package inventory

import (
	"time"

	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationStatus represents the lifecycle state of a stock allocation
type AllocationStatus string

const (
	// AllocationStatusAllocated means stock is reserved but not yet issued
	AllocationStatusAllocated AllocationStatus = "allocated"
	// AllocationStatusIssued means stock has physically left storage
	AllocationStatusIssued AllocationStatus = "issued"
	// AllocationStatusPartiallyUsed means some of the issued stock was consumed
	AllocationStatusPartiallyUsed AllocationStatus = "partially_used"
	// AllocationStatusFullyUsed means all of the issued stock was consumed
	AllocationStatusFullyUsed AllocationStatus = "fully_used"
	// AllocationStatusReturned means unused stock came back to storage
	AllocationStatusReturned AllocationStatus = "returned"
	// AllocationStatusCancelled means the allocation was abandoned
	AllocationStatusCancelled AllocationStatus = "cancelled"
)

// String returns the string representation of AllocationStatus
func (s AllocationStatus) String() string {
	return string(s)
}

// IsValid returns true if the allocation status is valid
func (s AllocationStatus) IsValid() bool {
	switch s {
	case AllocationStatusAllocated,
		AllocationStatusIssued,
		AllocationStatusPartiallyUsed,
		AllocationStatusFullyUsed,
		AllocationStatusReturned,
		AllocationStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed from this status
func (s AllocationStatus) IsTerminal() bool {
	switch s {
	case AllocationStatusFullyUsed, AllocationStatusReturned, AllocationStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can transition to the target.
// Cancellation is reachable from every non-terminal state.
func (s AllocationStatus) CanTransitionTo(target AllocationStatus) bool {
	if target == AllocationStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case AllocationStatusAllocated:
		return target == AllocationStatusIssued
	case AllocationStatusIssued:
		return target == AllocationStatusPartiallyUsed ||
			target == AllocationStatusFullyUsed ||
			target == AllocationStatusReturned
	case AllocationStatusPartiallyUsed:
		return target == AllocationStatusPartiallyUsed ||
			target == AllocationStatusFullyUsed ||
			target == AllocationStatusReturned
	}
	return false
}

// InventoryAllocation reserves a quantity of an item for a job or bid and
// tracks it through issue, usage, and return or cancellation.
type InventoryAllocation struct {
	shared.OrgAggregateRoot
	ItemID           uuid.UUID        `gorm:"type:uuid;not null;index:idx_inv_alloc_item"`
	JobID            *uuid.UUID       `gorm:"type:uuid;index:idx_inv_alloc_job"`
	BidID            *uuid.UUID       `gorm:"type:uuid;index:idx_inv_alloc_bid"`
	Quantity         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	QuantityUsed     decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityReturned decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Status           AllocationStatus `gorm:"type:varchar(20);not null;default:'allocated';index"`
	Notes            string           `gorm:"type:text"`
	AllocatedBy      *uuid.UUID       `gorm:"type:uuid"`
	AllocatedAt      time.Time        `gorm:"type:timestamptz;not null"`
	IssuedAt         *time.Time       `gorm:"type:timestamptz"`
	ClosedAt         *time.Time       `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (InventoryAllocation) TableName() string {
	return "inventory_allocations"
}

// NewInventoryAllocation creates a new allocation in the allocated state.
// Exactly one of jobID or bidID should reference the demand source, but
// neither is required for free-form reservations.
func NewInventoryAllocation(
	orgID uuid.UUID,
	itemID uuid.UUID,
	quantity decimal.Decimal,
) (*InventoryAllocation, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("Organization ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("Item ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewValidationError("Allocation quantity must be positive")
	}

	alloc := &InventoryAllocation{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		ItemID:           itemID,
		Quantity:         quantity,
		QuantityUsed:     decimal.Zero,
		QuantityReturned: decimal.Zero,
		Status:           AllocationStatusAllocated,
		AllocatedAt:      time.Now(),
	}
	alloc.AddDomainEvent(NewAllocationCreatedEvent(alloc))
	return alloc, nil
}

// ForJob links the allocation to a job
func (a *InventoryAllocation) ForJob(jobID uuid.UUID) *InventoryAllocation {
	a.JobID = &jobID
	return a
}

// ForBid links the allocation to a bid
func (a *InventoryAllocation) ForBid(bidID uuid.UUID) *InventoryAllocation {
	a.BidID = &bidID
	return a
}

// Issue marks the allocated stock as physically issued from storage
func (a *InventoryAllocation) Issue() error {
	if !a.Status.CanTransitionTo(AllocationStatusIssued) {
		return a.transitionError(AllocationStatusIssued)
	}
	now := time.Now()
	a.Status = AllocationStatusIssued
	a.IssuedAt = &now
	a.UpdatedAt = now
	a.AddDomainEvent(NewAllocationIssuedEvent(a))
	return nil
}

// RecordUsage records consumption of issued stock. Cumulative usage may not
// exceed the allocated quantity; hitting it exactly closes the allocation as
// fully used.
func (a *InventoryAllocation) RecordUsage(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewValidationError("Usage quantity must be positive")
	}
	if a.Status != AllocationStatusIssued && a.Status != AllocationStatusPartiallyUsed {
		return a.transitionError(AllocationStatusPartiallyUsed)
	}

	newUsed := a.QuantityUsed.Add(quantity)
	if newUsed.GreaterThan(a.Quantity) {
		return shared.ErrExceedsAllocated.
			WithDetail("allocation_id", a.ID.String()).
			WithDetail("quantity_allocated", a.Quantity.String()).
			WithDetail("quantity_used", a.QuantityUsed.String()).
			WithDetail("requested", quantity.String())
	}

	a.QuantityUsed = newUsed
	if newUsed.Equal(a.Quantity) {
		now := time.Now()
		a.Status = AllocationStatusFullyUsed
		a.ClosedAt = &now
	} else {
		a.Status = AllocationStatusPartiallyUsed
	}
	a.Touch()
	return nil
}

// Return records unused stock coming back to storage. The returned quantity
// may not exceed what remains unused on the allocation.
func (a *InventoryAllocation) Return(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewValidationError("Return quantity must be positive")
	}
	if !a.Status.CanTransitionTo(AllocationStatusReturned) {
		return a.transitionError(AllocationStatusReturned)
	}

	returnable := a.Quantity.Sub(a.QuantityUsed).Sub(a.QuantityReturned)
	if quantity.GreaterThan(returnable) {
		return shared.ErrExceedsAllocated.
			WithDetail("allocation_id", a.ID.String()).
			WithDetail("returnable", returnable.String()).
			WithDetail("requested", quantity.String())
	}

	now := time.Now()
	a.QuantityReturned = a.QuantityReturned.Add(quantity)
	a.Status = AllocationStatusReturned
	a.ClosedAt = &now
	a.UpdatedAt = now
	a.AddDomainEvent(NewAllocationReturnedEvent(a, quantity))
	return nil
}

// Cancel abandons the allocation. Allowed from any non-terminal state.
func (a *InventoryAllocation) Cancel() error {
	if !a.Status.CanTransitionTo(AllocationStatusCancelled) {
		return a.transitionError(AllocationStatusCancelled)
	}
	now := time.Now()
	a.Status = AllocationStatusCancelled
	a.ClosedAt = &now
	a.UpdatedAt = now
	a.AddDomainEvent(NewAllocationCancelledEvent(a))
	return nil
}

// SetNotes updates the free-form notes on the allocation
func (a *InventoryAllocation) SetNotes(notes string) {
	a.Notes = notes
	a.Touch()
}

// SetAllocatedBy records the user who made the reservation
func (a *InventoryAllocation) SetAllocatedBy(userID uuid.UUID) {
	a.AllocatedBy = &userID
}

// RemainingReservation returns the quantity still held against the ledger.
// Only an allocation that has not been issued holds a reservation.
func (a *InventoryAllocation) RemainingReservation() decimal.Decimal {
	if a.Status == AllocationStatusAllocated {
		return a.Quantity
	}
	return decimal.Zero
}

// QuantityOutstanding returns issued stock not yet used or returned
func (a *InventoryAllocation) QuantityOutstanding() decimal.Decimal {
	return a.Quantity.Sub(a.QuantityUsed).Sub(a.QuantityReturned)
}

// IsOpen returns true if the allocation is not in a terminal state
func (a *InventoryAllocation) IsOpen() bool {
	return !a.Status.IsTerminal()
}

func (a *InventoryAllocation) transitionError(target AllocationStatus) error {
	return shared.ErrInvalidStateTransition.
		WithDetail("allocation_id", a.ID.String()).
		WithDetail("from", a.Status.String()).
		WithDetail("to", target.String())
}
