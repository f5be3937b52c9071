package persistence

import (
	"context"
	"errors"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAlertRepository implements inventory.AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByID finds an alert by its ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryStockAlert, error) {
	var alert inventory.InventoryStockAlert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindByIDForOrg finds an alert by ID within an organization
func (r *GormAlertRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryStockAlert, error) {
	var alert inventory.InventoryStockAlert
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindUnresolvedByItem finds the open alert for an item, if any.
// At most one unresolved alert exists per item.
func (r *GormAlertRepository) FindUnresolvedByItem(ctx context.Context, orgID, itemID uuid.UUID) (*inventory.InventoryStockAlert, error) {
	var alert inventory.InventoryStockAlert
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND item_id = ? AND resolved = ?", orgID, itemID, false).
		Order("created_at DESC").
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindActiveForOrg finds unresolved alerts for an organization
func (r *GormAlertRepository) FindActiveForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.AlertFilter) ([]inventory.InventoryStockAlert, error) {
	var alerts []inventory.InventoryStockAlert
	query := r.db.WithContext(ctx).Model(&inventory.InventoryStockAlert{}).
		Where("org_id = ? AND resolved = ?", orgID, false)
	query = r.applyAlertFilter(query, filter)
	query = r.applyPaginationAndOrder(query, filter.Filter)

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindAllForOrg finds all alerts for an organization
func (r *GormAlertRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.AlertFilter) ([]inventory.InventoryStockAlert, error) {
	var alerts []inventory.InventoryStockAlert
	query := r.db.WithContext(ctx).Model(&inventory.InventoryStockAlert{}).
		Where("org_id = ?", orgID)
	query = r.applyAlertFilter(query, filter)
	query = r.applyPaginationAndOrder(query, filter.Filter)

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Save creates or updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, alert *inventory.InventoryStockAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// CountActiveForOrg counts unresolved alerts
func (r *GormAlertRepository) CountActiveForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryStockAlert{}).
		Where("org_id = ? AND resolved = ?", orgID, false).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormAlertRepository) applyAlertFilter(query *gorm.DB, filter inventory.AlertFilter) *gorm.DB {
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.AlertType != nil {
		query = query.Where("alert_type = ?", *filter.AlertType)
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", *filter.Severity)
	}
	if filter.Acknowledged != nil {
		query = query.Where("acknowledged = ?", *filter.Acknowledged)
	}
	if resolved, ok := filter.Filters["resolved"].(bool); ok {
		query = query.Where("resolved = ?", resolved)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("item_code ILIKE ? OR item_name ILIKE ?", pattern, pattern)
	}
	return query
}

func (r *GormAlertRepository) applyPaginationAndOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, AlertSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormAlertRepository implements inventory.AlertRepository
var _ inventory.AlertRepository = (*GormAlertRepository)(nil)
