package inventory

import (
	"context"
	"time"

	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRepository defines the interface for inventory item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindByIDForOrg finds an item by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*InventoryItem, error)

	// FindByIDForUpdate finds an item by ID within an organization holding an
	// exclusive row lock for the remainder of the surrounding transaction.
	// Callers must invoke this inside a TransactionScope.
	FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*InventoryItem, error)

	// FindByCode finds an item by its code within an organization
	FindByCode(ctx context.Context, orgID uuid.UUID, itemCode string) (*InventoryItem, error)

	// FindAllForOrg finds all items for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter ItemFilter) ([]InventoryItem, error)

	// FindBelowReorder finds items at or below their reorder level
	FindBelowReorder(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// FindByIDs finds multiple items by their IDs
	FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]InventoryItem, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *InventoryItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *InventoryItem) error

	// Delete soft-deletes an item within an organization
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// CountForOrg counts items matching the filter
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter ItemFilter) (int64, error)

	// ExistsByCode checks if an item code is already taken in the organization
	ExistsByCode(ctx context.Context, orgID uuid.UUID, itemCode string) (bool, error)

	// SumTotalValue sums on-hand quantity times unit cost across the organization
	SumTotalValue(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, error)
}

// ItemFilter extends shared.Filter with item-specific filters
type ItemFilter struct {
	shared.Filter
	Category     string
	Location     string
	Status       *ItemStatus
	BelowReorder bool
	HasStock     bool
}

// TransactionRepository defines the interface for transaction log persistence.
// The log is append-only; there are no update or delete operations.
type TransactionRepository interface {
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)

	// FindByItem finds transactions for an item, newest first
	FindByItem(ctx context.Context, orgID, itemID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, error)

	// FindForOrg finds transactions for an organization matching the filter
	FindForOrg(ctx context.Context, orgID uuid.UUID, filter TransactionFilter) ([]InventoryTransaction, error)

	// FindByAllocation finds transactions linked to an allocation
	FindByAllocation(ctx context.Context, allocationID uuid.UUID) ([]InventoryTransaction, error)

	// Create appends a new transaction to the log
	Create(ctx context.Context, tx *InventoryTransaction) error

	// CountForOrg counts transactions matching the filter
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter TransactionFilter) (int64, error)

	// SumQuantityByTypeAndDateRange sums movement quantities for reporting
	SumQuantityByTypeAndDateRange(ctx context.Context, orgID uuid.UUID, txType TransactionType, start, end time.Time) (decimal.Decimal, error)
}

// TransactionFilter extends shared.Filter with transaction-specific filters
type TransactionFilter struct {
	shared.Filter
	ItemID          *uuid.UUID
	JobID           *uuid.UUID
	BidID           *uuid.UUID
	TransactionType *TransactionType
	StartDate       *time.Time
	EndDate         *time.Time
	ActorID         *uuid.UUID
}

// AllocationRepository defines the interface for allocation persistence
type AllocationRepository interface {
	// FindByID finds an allocation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryAllocation, error)

	// FindByIDForOrg finds an allocation by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*InventoryAllocation, error)

	// FindByItem finds allocations for an item
	FindByItem(ctx context.Context, orgID, itemID uuid.UUID, filter shared.Filter) ([]InventoryAllocation, error)

	// FindByJob finds allocations for a job
	FindByJob(ctx context.Context, orgID, jobID uuid.UUID, filter shared.Filter) ([]InventoryAllocation, error)

	// FindByBid finds allocations for a bid
	FindByBid(ctx context.Context, orgID, bidID uuid.UUID, filter shared.Filter) ([]InventoryAllocation, error)

	// FindOpenByItem finds non-terminal allocations for an item
	FindOpenByItem(ctx context.Context, orgID, itemID uuid.UUID) ([]InventoryAllocation, error)

	// FindForOrg finds allocations for an organization matching the filter
	FindForOrg(ctx context.Context, orgID uuid.UUID, filter AllocationFilter) ([]InventoryAllocation, error)

	// Save creates or updates an allocation
	Save(ctx context.Context, alloc *InventoryAllocation) error

	// CountForOrg counts allocations matching the filter
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter AllocationFilter) (int64, error)
}

// AllocationFilter extends shared.Filter with allocation-specific filters
type AllocationFilter struct {
	shared.Filter
	ItemID    *uuid.UUID
	JobID     *uuid.UUID
	BidID     *uuid.UUID
	Status    *AllocationStatus
	OpenOnly  bool
	StartDate *time.Time
	EndDate   *time.Time
}

// CountRepository defines the interface for physical count persistence
type CountRepository interface {
	// FindByID finds a count by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryCount, error)

	// FindByIDForOrg finds a count by ID within an organization, items included
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*InventoryCount, error)

	// FindByCountNumber finds a count by its number
	FindByCountNumber(ctx context.Context, orgID uuid.UUID, countNumber string) (*InventoryCount, error)

	// FindByStatus finds counts with a specific status
	FindByStatus(ctx context.Context, orgID uuid.UUID, status CountStatus, filter shared.Filter) ([]InventoryCount, error)

	// FindAllForOrg finds all counts for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]InventoryCount, error)

	// Save creates or updates a count together with its lines
	Save(ctx context.Context, count *InventoryCount) error

	// CountForOrg counts count sessions matching the filter
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)

	// GenerateCountNumber generates the next unique count number for the org
	GenerateCountNumber(ctx context.Context, orgID uuid.UUID) (string, error)
}

// AlertRepository defines the interface for stock alert persistence
type AlertRepository interface {
	// FindByID finds an alert by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryStockAlert, error)

	// FindByIDForOrg finds an alert by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*InventoryStockAlert, error)

	// FindUnresolvedByItem finds the open alert for an item, if any.
	// Returns shared.ErrNotFound when no unresolved alert exists.
	FindUnresolvedByItem(ctx context.Context, orgID, itemID uuid.UUID) (*InventoryStockAlert, error)

	// FindActiveForOrg finds unresolved alerts for an organization
	FindActiveForOrg(ctx context.Context, orgID uuid.UUID, filter AlertFilter) ([]InventoryStockAlert, error)

	// FindAllForOrg finds all alerts for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter AlertFilter) ([]InventoryStockAlert, error)

	// Save creates or updates an alert
	Save(ctx context.Context, alert *InventoryStockAlert) error

	// CountActiveForOrg counts unresolved alerts
	CountActiveForOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}

// AlertFilter extends shared.Filter with alert-specific filters
type AlertFilter struct {
	shared.Filter
	ItemID       *uuid.UUID
	AlertType    *AlertType
	Severity     *AlertSeverity
	Acknowledged *bool
}
