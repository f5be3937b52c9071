package inventory

import (
	"context"
	"time"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// countSnapshotPageSize bounds one page of the snapshot scan at count start
const countSnapshotPageSize = 500

// CountService runs physical count sessions. Counting is a detective control:
// completing a count stamps items as counted and finalizes variances, but
// never posts ledger corrections itself. Discovered variance is reconciled
// through explicit adjustment transactions via StockService.
type CountService struct {
	countRepo      inventory.CountRepository
	itemRepo       inventory.ItemRepository
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCountService creates a new CountService
func NewCountService(countRepo inventory.CountRepository, itemRepo inventory.ItemRepository, scope TransactionScope) *CountService {
	return &CountService{
		countRepo: countRepo,
		itemRepo:  itemRepo,
		scope:     scope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CountService) publishDomainEvents(ctx context.Context, count *inventory.InventoryCount) {
	if s.eventPublisher == nil {
		return
	}
	events := count.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	count.ClearDomainEvents()
}

// Create plans a new count session
func (s *CountService) Create(ctx context.Context, orgID uuid.UUID, req CreateCountRequest) (*CountResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	countType := inventory.CountType(req.CountType)
	if !countType.IsValid() {
		return nil, shared.NewValidationError("Invalid count type").
			WithDetail("count_type", req.CountType)
	}

	countNumber, err := s.countRepo.GenerateCountNumber(ctx, orgID)
	if err != nil {
		return nil, err
	}

	count, err := inventory.NewInventoryCount(orgID, countNumber, countType)
	if err != nil {
		return nil, err
	}
	count.WithScope(req.Location, req.Category)
	count.Notes = req.Notes
	if req.ScheduledDate != nil {
		count.WithSchedule(*req.ScheduledDate)
	}

	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	response := ToCountResponse(count, false)
	return &response, nil
}

// Start begins counting: the in-scope items are read and their system
// quantities frozen as the count baseline. Stock keeps moving while the count
// runs; variances are always measured against this snapshot, not the live
// ledger.
func (s *CountService) Start(ctx context.Context, orgID, countID uuid.UUID, startedBy *uuid.UUID) (*CountResponse, error) {
	var count *inventory.InventoryCount
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		count, err = repos.CountRepo().FindByIDForOrg(ctx, orgID, countID)
		if err != nil {
			return err
		}

		filter := inventory.ItemFilter{Filter: shared.Filter{
			Page:     1,
			PageSize: countSnapshotPageSize,
			OrderBy:  "item_code",
			OrderDir: "asc",
			Filters:  make(map[string]interface{}),
		}}
		filter.Location = count.Location
		filter.Category = count.Category

		var itemPtrs []*inventory.InventoryItem
		for {
			items, err := repos.ItemRepo().FindAllForOrg(ctx, orgID, filter)
			if err != nil {
				return err
			}
			for i := range items {
				itemPtrs = append(itemPtrs, &items[i])
			}
			if len(items) < countSnapshotPageSize {
				break
			}
			filter.Page++
		}

		if err := count.Start(itemPtrs, startedBy); err != nil {
			return err
		}
		return repos.CountRepo().Save(ctx, count)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, count)

	response := ToCountResponse(count, true)
	return &response, nil
}

// RecordItemCount records the physically counted quantity for one item and
// stores its variance. The ledger is not touched.
func (s *CountService) RecordItemCount(ctx context.Context, orgID, countID uuid.UUID, req RecordCountItemRequest) (*CountResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.CountedQuantity.IsNegative() {
		return nil, shared.NewValidationError("Counted quantity cannot be negative")
	}

	count, err := s.countRepo.FindByIDForOrg(ctx, orgID, countID)
	if err != nil {
		return nil, err
	}
	if err := count.RecordItemCount(req.ItemID, req.CountedQuantity, req.CountedBy, req.Notes); err != nil {
		return nil, err
	}
	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	response := ToCountResponse(count, true)
	return &response, nil
}

// Complete finalizes the count and stamps every counted item's last-counted
// date. Variances remain advisory.
func (s *CountService) Complete(ctx context.Context, orgID, countID uuid.UUID, completedBy *uuid.UUID) (*CountResponse, error) {
	var count *inventory.InventoryCount
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		count, err = repos.CountRepo().FindByIDForOrg(ctx, orgID, countID)
		if err != nil {
			return err
		}
		if err := count.Complete(completedBy); err != nil {
			return err
		}

		completedAt := time.Now()
		if count.CompletedAt != nil {
			completedAt = *count.CompletedAt
		}
		for i := range count.Items {
			item, err := repos.ItemRepo().FindByIDForUpdate(ctx, orgID, count.Items[i].ItemID)
			if err != nil {
				return err
			}
			item.MarkCounted(completedAt)
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return err
			}
		}
		return repos.CountRepo().Save(ctx, count)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, count)

	response := ToCountResponse(count, true)
	return &response, nil
}

// Cancel abandons a planned or in-progress count
func (s *CountService) Cancel(ctx context.Context, orgID, countID uuid.UUID) (*CountResponse, error) {
	count, err := s.countRepo.FindByIDForOrg(ctx, orgID, countID)
	if err != nil {
		return nil, err
	}
	if err := count.Cancel(); err != nil {
		return nil, err
	}
	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	response := ToCountResponse(count, false)
	return &response, nil
}

// GetByID retrieves a count session with its lines
func (s *CountService) GetByID(ctx context.Context, orgID, countID uuid.UUID) (*CountResponse, error) {
	count, err := s.countRepo.FindByIDForOrg(ctx, orgID, countID)
	if err != nil {
		return nil, err
	}
	response := ToCountResponse(count, true)
	return &response, nil
}

// List retrieves count sessions with pagination
func (s *CountService) List(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]CountResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}

	counts, err := s.countRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.countRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CountResponse, 0, len(counts))
	for i := range counts {
		responses = append(responses, ToCountResponse(&counts[i], false))
	}
	return responses, total, nil
}
