package persistence

import (
	"context"
	"errors"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDForOrg finds an item by ID within an organization
func (r *GormItemRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate finds an item by ID holding an exclusive row lock
// (SELECT ... FOR UPDATE). Concurrent callers serialize here; this is the
// mutual exclusion point for every ledger mutation. Must run inside a
// transaction to have any effect.
func (r *GormItemRepository) FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByCode finds an item by its code within an organization
func (r *GormItemRepository) FindByCode(ctx context.Context, orgID uuid.UUID, itemCode string) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND item_code = ?", orgID, itemCode).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAllForOrg finds all items for an organization
func (r *GormItemRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.ItemFilter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.applyItemFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).Where("org_id = ?", orgID),
		filter,
	)
	query = r.applyPaginationAndOrder(query, filter.Filter)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBelowReorder finds items at or below their reorder level. Items whose
// reorder level is zero only match when they are fully out of stock.
func (r *GormItemRepository) FindBelowReorder(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("org_id = ? AND quantity_on_hand <= reorder_level AND status <> ?", orgID, inventory.ItemStatusDiscontinued)
	query = r.applyPaginationAndOrder(query, filter)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByIDs finds multiple items by their IDs
func (r *GormItemRepository) FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	if len(ids) == 0 {
		return []inventory.InventoryItem{}, nil
	}
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id IN ?", orgID, ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	item.IncrementVersion()
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"name":               item.Name,
			"description":        item.Description,
			"category":           item.Category,
			"unit":               item.Unit,
			"location":           item.Location,
			"quantity_on_hand":   item.QuantityOnHand,
			"quantity_allocated": item.QuantityAllocated,
			"quantity_available": item.QuantityAvailable,
			"reorder_level":      item.ReorderLevel,
			"unit_cost":          item.UnitCost,
			"status":             item.Status,
			"last_counted_at":    item.LastCountedAt,
			"version":            item.Version,
			"updated_at":         item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithDetail("item_id", item.ID.String())
	}
	return nil
}

// Delete soft-deletes an item within an organization
func (r *GormItemRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryItem{}, "org_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForOrg counts items matching the filter
func (r *GormItemRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.ItemFilter) (int64, error) {
	var count int64
	query := r.applyItemFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if an item code is already taken in the organization
func (r *GormItemRepository) ExistsByCode(ctx context.Context, orgID uuid.UUID, itemCode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("org_id = ? AND item_code = ?", orgID, itemCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumTotalValue sums on-hand quantity times unit cost across the organization
func (r *GormItemRepository) SumTotalValue(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Select("COALESCE(SUM(quantity_on_hand * unit_cost), 0) as total").
		Where("org_id = ?", orgID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormItemRepository) applyItemFilter(query *gorm.DB, filter inventory.ItemFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("item_code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BelowReorder {
		query = query.Where("quantity_on_hand <= reorder_level AND status <> ?", inventory.ItemStatusDiscontinued)
	}
	if filter.HasStock {
		query = query.Where("quantity_available > 0")
	}
	return query
}

func (r *GormItemRepository) applyPaginationAndOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, ItemSortFields, "updated_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// ListOrgIDs returns the distinct organizations that hold inventory items.
// Used by the alert sweep to enumerate scan targets.
func (r *GormItemRepository) ListOrgIDs(ctx context.Context) ([]uuid.UUID, error) {
	var orgIDs []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Distinct("org_id").
		Pluck("org_id", &orgIDs).Error; err != nil {
		return nil, err
	}
	return orgIDs, nil
}

// Ensure GormItemRepository implements inventory.ItemRepository
var _ inventory.ItemRepository = (*GormItemRepository)(nil)
