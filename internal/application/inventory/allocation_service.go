package inventory

import (
	"context"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationService drives stock reservations through their lifecycle.
//
// Every ledger-touching step (allocate, issue, return, cancel) locks the
// item row first and commits the allocation change and the ledger change
// atomically. Two concurrent allocations of the last unit of stock therefore
// resolve to exactly one success and one InsufficientStock failure.
type AllocationService struct {
	allocationRepo inventory.AllocationRepository
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(allocationRepo inventory.AllocationRepository, scope TransactionScope) *AllocationService {
	return &AllocationService{
		allocationRepo: allocationRepo,
		scope:          scope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AllocationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AllocationService) publishDomainEvents(ctx context.Context, sources ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, source := range sources {
		events := source.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		source.ClearDomainEvents()
	}
}

// Allocate reserves stock for a job or bid. Availability is re-validated
// under the item's row lock, so the reservation can never overdraw.
func (s *AllocationService) Allocate(ctx context.Context, orgID uuid.UUID, req AllocateRequest) (*AllocationResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Quantity.IsPositive() {
		return nil, shared.NewValidationError("Allocation quantity must be positive")
	}

	var (
		item  *inventory.InventoryItem
		alloc *inventory.InventoryAllocation
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, orgID, req.ItemID)
		if err != nil {
			return err
		}

		if err := item.Reserve(req.Quantity); err != nil {
			return err
		}

		alloc, err = inventory.NewInventoryAllocation(orgID, item.ID, req.Quantity)
		if err != nil {
			return err
		}
		if req.JobID != nil {
			alloc.ForJob(*req.JobID)
		}
		if req.BidID != nil {
			alloc.ForBid(*req.BidID)
		}
		if req.Notes != "" {
			alloc.SetNotes(req.Notes)
		}
		if req.ActorID != nil {
			alloc.SetAllocatedBy(*req.ActorID)
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		return repos.AllocationRepo().Save(ctx, alloc)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item, alloc)

	response := ToAllocationResponse(alloc)
	return &response, nil
}

// Issue moves allocated stock out of storage. The reservation is consumed:
// on-hand and allocated both drop by the allocated quantity, and an issue
// entry is appended to the transaction log.
func (s *AllocationService) Issue(ctx context.Context, orgID, allocationID uuid.UUID, actorID *uuid.UUID) (*AllocationResponse, error) {
	var (
		item  *inventory.InventoryItem
		alloc *inventory.InventoryAllocation
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		alloc, err = repos.AllocationRepo().FindByIDForOrg(ctx, orgID, allocationID)
		if err != nil {
			return err
		}
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, orgID, alloc.ItemID)
		if err != nil {
			return err
		}

		if err := alloc.Issue(); err != nil {
			return err
		}

		balanceBefore := item.QuantityOnHand
		if err := item.ConsumeReservation(alloc.Quantity); err != nil {
			return err
		}

		tx, err := inventory.NewInventoryTransaction(
			orgID, item.ID, inventory.TransactionTypeIssue,
			alloc.Quantity, balanceBefore, item.QuantityOnHand,
		)
		if err != nil {
			return err
		}
		tx.WithAllocationID(alloc.ID)
		if alloc.JobID != nil {
			tx.WithJobID(*alloc.JobID)
		}
		if alloc.BidID != nil {
			tx.WithBidID(*alloc.BidID)
		}
		if actorID != nil {
			tx.WithActorID(*actorID)
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if err := repos.AllocationRepo().Save(ctx, alloc); err != nil {
			return err
		}
		return repos.TransactionRepo().Create(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item, alloc)

	response := ToAllocationResponse(alloc)
	return &response, nil
}

// RecordUsage records consumption of issued stock on the allocation. The
// ledger is untouched; the stock already left storage at issue time.
func (s *AllocationService) RecordUsage(ctx context.Context, orgID, allocationID uuid.UUID, quantity decimal.Decimal) (*AllocationResponse, error) {
	alloc, err := s.allocationRepo.FindByIDForOrg(ctx, orgID, allocationID)
	if err != nil {
		return nil, err
	}
	if err := alloc.RecordUsage(quantity); err != nil {
		return nil, err
	}
	if err := s.allocationRepo.Save(ctx, alloc); err != nil {
		return nil, err
	}
	response := ToAllocationResponse(alloc)
	return &response, nil
}

// Return brings unused issued stock back to storage: the allocation closes
// as returned, on-hand rises by the returned quantity, and a return entry is
// appended to the transaction log.
func (s *AllocationService) Return(ctx context.Context, orgID, allocationID uuid.UUID, quantity decimal.Decimal, actorID *uuid.UUID) (*AllocationResponse, error) {
	var (
		item  *inventory.InventoryItem
		alloc *inventory.InventoryAllocation
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		alloc, err = repos.AllocationRepo().FindByIDForOrg(ctx, orgID, allocationID)
		if err != nil {
			return err
		}
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, orgID, alloc.ItemID)
		if err != nil {
			return err
		}

		if err := alloc.Return(quantity); err != nil {
			return err
		}

		balanceBefore := item.QuantityOnHand
		if err := item.AddOnHand(quantity); err != nil {
			return err
		}

		tx, err := inventory.NewInventoryTransaction(
			orgID, item.ID, inventory.TransactionTypeReturn,
			quantity, balanceBefore, item.QuantityOnHand,
		)
		if err != nil {
			return err
		}
		tx.WithAllocationID(alloc.ID)
		if alloc.JobID != nil {
			tx.WithJobID(*alloc.JobID)
		}
		if alloc.BidID != nil {
			tx.WithBidID(*alloc.BidID)
		}
		if actorID != nil {
			tx.WithActorID(*actorID)
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if err := repos.AllocationRepo().Save(ctx, alloc); err != nil {
			return err
		}
		return repos.TransactionRepo().Create(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item, alloc)

	response := ToAllocationResponse(alloc)
	return &response, nil
}

// Cancel abandons an allocation from any non-terminal state. A reservation
// that was never issued is released back to available in full. No transaction
// log entry is posted; cancellation is a reservation release, not a physical
// movement.
func (s *AllocationService) Cancel(ctx context.Context, orgID, allocationID uuid.UUID) (*AllocationResponse, error) {
	var (
		item  *inventory.InventoryItem
		alloc *inventory.InventoryAllocation
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		alloc, err = repos.AllocationRepo().FindByIDForOrg(ctx, orgID, allocationID)
		if err != nil {
			return err
		}
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, orgID, alloc.ItemID)
		if err != nil {
			return err
		}

		reserved := alloc.RemainingReservation()
		if err := alloc.Cancel(); err != nil {
			return err
		}
		if reserved.IsPositive() {
			if err := item.ReleaseReservation(reserved); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return err
			}
		}
		return repos.AllocationRepo().Save(ctx, alloc)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item, alloc)

	response := ToAllocationResponse(alloc)
	return &response, nil
}

// GetByID retrieves an allocation by ID
func (s *AllocationService) GetByID(ctx context.Context, orgID, allocationID uuid.UUID) (*AllocationResponse, error) {
	alloc, err := s.allocationRepo.FindByIDForOrg(ctx, orgID, allocationID)
	if err != nil {
		return nil, err
	}
	response := ToAllocationResponse(alloc)
	return &response, nil
}

// List retrieves allocations with filtering and pagination
func (s *AllocationService) List(ctx context.Context, orgID uuid.UUID, filter AllocationListFilter) ([]AllocationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "allocated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := inventory.AllocationFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Filters:  make(map[string]interface{}),
		},
		ItemID:   filter.ItemID,
		JobID:    filter.JobID,
		BidID:    filter.BidID,
		OpenOnly: filter.OpenOnly,
	}
	if filter.Status != "" {
		status := inventory.AllocationStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Invalid allocation status filter")
		}
		domainFilter.Status = &status
	}

	allocs, err := s.allocationRepo.FindForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.allocationRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToAllocationResponses(allocs), total, nil
}
