package persistence

import (
	"context"
	"errors"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// terminalAllocationStatuses are the statuses an allocation never leaves
var terminalAllocationStatuses = []inventory.AllocationStatus{
	inventory.AllocationStatusFullyUsed,
	inventory.AllocationStatusReturned,
	inventory.AllocationStatusCancelled,
}

// GormAllocationRepository implements inventory.AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByID finds an allocation by its ID
func (r *GormAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryAllocation, error) {
	var alloc inventory.InventoryAllocation
	if err := r.db.WithContext(ctx).First(&alloc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alloc, nil
}

// FindByIDForOrg finds an allocation by ID within an organization
func (r *GormAllocationRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryAllocation, error) {
	var alloc inventory.InventoryAllocation
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&alloc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alloc, nil
}

// FindByItem finds allocations for an item
func (r *GormAllocationRepository) FindByItem(ctx context.Context, orgID, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryAllocation, error) {
	var allocs []inventory.InventoryAllocation
	query := r.db.WithContext(ctx).Model(&inventory.InventoryAllocation{}).
		Where("org_id = ? AND item_id = ?", orgID, itemID)
	query = r.applyPaginationAndOrder(query, filter)

	if err := query.Find(&allocs).Error; err != nil {
		return nil, err
	}
	return allocs, nil
}

// FindByJob finds allocations for a job
func (r *GormAllocationRepository) FindByJob(ctx context.Context, orgID, jobID uuid.UUID, filter shared.Filter) ([]inventory.InventoryAllocation, error) {
	var allocs []inventory.InventoryAllocation
	query := r.db.WithContext(ctx).Model(&inventory.InventoryAllocation{}).
		Where("org_id = ? AND job_id = ?", orgID, jobID)
	query = r.applyPaginationAndOrder(query, filter)

	if err := query.Find(&allocs).Error; err != nil {
		return nil, err
	}
	return allocs, nil
}

// FindByBid finds allocations for a bid
func (r *GormAllocationRepository) FindByBid(ctx context.Context, orgID, bidID uuid.UUID, filter shared.Filter) ([]inventory.InventoryAllocation, error) {
	var allocs []inventory.InventoryAllocation
	query := r.db.WithContext(ctx).Model(&inventory.InventoryAllocation{}).
		Where("org_id = ? AND bid_id = ?", orgID, bidID)
	query = r.applyPaginationAndOrder(query, filter)

	if err := query.Find(&allocs).Error; err != nil {
		return nil, err
	}
	return allocs, nil
}

// FindOpenByItem finds non-terminal allocations for an item
func (r *GormAllocationRepository) FindOpenByItem(ctx context.Context, orgID, itemID uuid.UUID) ([]inventory.InventoryAllocation, error) {
	var allocs []inventory.InventoryAllocation
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND item_id = ? AND status NOT IN ?", orgID, itemID, terminalAllocationStatuses).
		Order("allocated_at ASC").
		Find(&allocs).Error; err != nil {
		return nil, err
	}
	return allocs, nil
}

// FindForOrg finds allocations for an organization matching the filter
func (r *GormAllocationRepository) FindForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.AllocationFilter) ([]inventory.InventoryAllocation, error) {
	var allocs []inventory.InventoryAllocation
	query := r.applyAllocationFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryAllocation{}).Where("org_id = ?", orgID),
		filter,
	)
	query = r.applyPaginationAndOrder(query, filter.Filter)

	if err := query.Find(&allocs).Error; err != nil {
		return nil, err
	}
	return allocs, nil
}

// Save creates or updates an allocation
func (r *GormAllocationRepository) Save(ctx context.Context, alloc *inventory.InventoryAllocation) error {
	return r.db.WithContext(ctx).Save(alloc).Error
}

// CountForOrg counts allocations matching the filter
func (r *GormAllocationRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.AllocationFilter) (int64, error) {
	var count int64
	query := r.applyAllocationFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryAllocation{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAllocationRepository) applyAllocationFilter(query *gorm.DB, filter inventory.AllocationFilter) *gorm.DB {
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.JobID != nil {
		query = query.Where("job_id = ?", *filter.JobID)
	}
	if filter.BidID != nil {
		query = query.Where("bid_id = ?", *filter.BidID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.OpenOnly {
		query = query.Where("status NOT IN ?", terminalAllocationStatuses)
	}
	if filter.StartDate != nil {
		query = query.Where("allocated_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("allocated_at < ?", *filter.EndDate)
	}
	return query
}

func (r *GormAllocationRepository) applyPaginationAndOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, AllocationSortFields, "allocated_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormAllocationRepository implements inventory.AllocationRepository
var _ inventory.AllocationRepository = (*GormAllocationRepository)(nil)
