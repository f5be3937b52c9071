package inventory

import (
	"context"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemService handles item registry operations. Quantity changes never happen
// here; they flow through StockService and AllocationService.
type ItemService struct {
	itemRepo       inventory.ItemRepository
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo inventory.ItemRepository, scope TransactionScope) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		scope:    scope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ItemService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ItemService) publishDomainEvents(ctx context.Context, item *inventory.InventoryItem) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

// Create registers a new item. When an initial quantity is given, the opening
// stock is posted as an initial_stock transaction in the same unit of work.
func (s *ItemService) Create(ctx context.Context, orgID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.itemRepo.ExistsByCode(ctx, orgID, req.ItemCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithDetail("item_code", req.ItemCode)
	}

	item, err := inventory.NewInventoryItem(orgID, req.ItemCode, req.Name)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	item.Category = req.Category
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.Location != "" {
		if err := item.Relocate(req.Location); err != nil {
			return nil, err
		}
	}
	if req.ReorderLevel != nil {
		if err := item.SetReorderLevel(*req.ReorderLevel); err != nil {
			return nil, err
		}
	}
	if req.UnitCost != nil {
		if err := item.SetUnitCost(*req.UnitCost); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.InitialQuantity != nil && req.InitialQuantity.IsPositive() {
			balanceBefore := item.QuantityOnHand
			if err := item.AddOnHand(*req.InitialQuantity); err != nil {
				return err
			}
			tx, err := inventory.NewInventoryTransaction(
				orgID,
				item.ID,
				inventory.TransactionTypeInitialStock,
				*req.InitialQuantity,
				balanceBefore,
				item.QuantityOnHand,
			)
			if err != nil {
				return err
			}
			if req.ActorID != nil {
				tx.WithActorID(*req.ActorID)
			}
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return err
			}
			return repos.TransactionRepo().Create(ctx, tx)
		}
		return repos.ItemRepo().Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// Update changes item attributes. Quantities are not touched.
func (s *ItemService) Update(ctx context.Context, orgID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForOrg(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewValidationError("Item name cannot be empty")
		}
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Unit != nil && *req.Unit != "" {
		item.Unit = *req.Unit
	}
	if req.ReorderLevel != nil {
		if err := item.SetReorderLevel(*req.ReorderLevel); err != nil {
			return nil, err
		}
	}
	if req.UnitCost != nil {
		if err := item.SetUnitCost(*req.UnitCost); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, orgID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForOrg(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// GetByCode retrieves an item by its code
func (s *ItemService) GetByCode(ctx context.Context, orgID uuid.UUID, itemCode string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByCode(ctx, orgID, itemCode)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves items with filtering and pagination
func (s *ItemService) List(ctx context.Context, orgID uuid.UUID, filter ItemListFilter) ([]ItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := inventory.ItemFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
			Filters:  make(map[string]interface{}),
		},
		Category:     filter.Category,
		Location:     filter.Location,
		BelowReorder: filter.BelowReorder,
		HasStock:     filter.HasStock,
	}
	if filter.Status != "" {
		status := inventory.ItemStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Invalid item status filter")
		}
		domainFilter.Status = &status
	}

	items, err := s.itemRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToItemResponses(items), total, nil
}

// ListBelowReorder retrieves items at or below their reorder level
func (s *ItemService) ListBelowReorder(ctx context.Context, orgID uuid.UUID, filter ItemListFilter) ([]ItemResponse, int64, error) {
	filter.BelowReorder = true
	return s.List(ctx, orgID, filter)
}

// Delete soft-deletes an item. Items with stock reserved against them cannot
// be deleted until their allocations are closed.
func (s *ItemService) Delete(ctx context.Context, orgID, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByIDForOrg(ctx, orgID, itemID)
	if err != nil {
		return err
	}
	if item.QuantityAllocated.IsPositive() {
		return shared.NewValidationError("Cannot delete an item with open allocations").
			WithDetail("item_id", itemID.String()).
			WithDetail("quantity_allocated", item.QuantityAllocated.String())
	}
	return s.itemRepo.Delete(ctx, orgID, itemID)
}
