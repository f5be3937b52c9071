package persistence

import (
	"context"
	"time"

	"github.com/fieldstock/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInventoryReportRepository implements report.InventoryReportRepository using GORM
type GormInventoryReportRepository struct {
	db *gorm.DB
}

// NewGormInventoryReportRepository creates a new GormInventoryReportRepository
func NewGormInventoryReportRepository(db *gorm.DB) *GormInventoryReportRepository {
	return &GormInventoryReportRepository{db: db}
}

// GetDashboardSummary returns the headline stock numbers for an organization
func (r *GormInventoryReportRepository) GetDashboardSummary(ctx context.Context, orgID uuid.UUID) (*report.DashboardSummary, error) {
	type summaryResult struct {
		TotalItems      int64
		TotalOnHand     decimal.Decimal
		TotalAllocated  decimal.Decimal
		TotalValue      decimal.Decimal
		LowStockCount   int64
		OutOfStockCount int64
	}

	var result summaryResult

	err := r.db.WithContext(ctx).Table("inventory_items").
		Select(`
			COUNT(*) as total_items,
			COALESCE(SUM(quantity_on_hand), 0) as total_on_hand,
			COALESCE(SUM(quantity_allocated), 0) as total_allocated,
			COALESCE(SUM(quantity_on_hand * unit_cost), 0) as total_value,
			SUM(CASE WHEN quantity_on_hand > 0 AND quantity_on_hand <= reorder_level THEN 1 ELSE 0 END) as low_stock_count,
			SUM(CASE WHEN quantity_on_hand = 0 THEN 1 ELSE 0 END) as out_of_stock_count
		`).
		Where("org_id = ? AND deleted_at IS NULL AND status <> ?", orgID, "discontinued").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	var activeAlerts int64
	if err := r.db.WithContext(ctx).Table("inventory_stock_alerts").
		Where("org_id = ? AND resolved = ?", orgID, false).
		Count(&activeAlerts).Error; err != nil {
		return nil, err
	}

	var openAllocations int64
	if err := r.db.WithContext(ctx).Table("inventory_allocations").
		Where("org_id = ? AND status NOT IN ?", orgID, terminalAllocationStatuses).
		Count(&openAllocations).Error; err != nil {
		return nil, err
	}

	return &report.DashboardSummary{
		TotalItems:       result.TotalItems,
		TotalOnHand:      result.TotalOnHand,
		TotalAllocated:   result.TotalAllocated,
		TotalValue:       result.TotalValue,
		LowStockCount:    result.LowStockCount,
		OutOfStockCount:  result.OutOfStockCount,
		ActiveAlertCount: activeAlerts,
		OpenAllocations:  openAllocations,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

// GetCategoryStats aggregates stock grouped by category
func (r *GormInventoryReportRepository) GetCategoryStats(ctx context.Context, orgID uuid.UUID) ([]report.CategoryStats, error) {
	var results []report.CategoryStats

	err := r.db.WithContext(ctx).Table("inventory_items").
		Select(`
			COALESCE(NULLIF(category, ''), 'uncategorized') as category,
			COUNT(*) as item_count,
			COALESCE(SUM(quantity_on_hand), 0) as total_on_hand,
			COALESCE(SUM(quantity_on_hand * unit_cost), 0) as total_value,
			SUM(CASE WHEN quantity_on_hand <= reorder_level THEN 1 ELSE 0 END) as low_stock_count
		`).
		Where("org_id = ? AND deleted_at IS NULL AND status <> ?", orgID, "discontinued").
		Group("COALESCE(NULLIF(category, ''), 'uncategorized')").
		Order("category ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetLocationStats aggregates stock grouped by location
func (r *GormInventoryReportRepository) GetLocationStats(ctx context.Context, orgID uuid.UUID) ([]report.LocationStats, error) {
	var results []report.LocationStats

	err := r.db.WithContext(ctx).Table("inventory_items").
		Select(`
			COALESCE(NULLIF(location, ''), 'unassigned') as location,
			COUNT(*) as item_count,
			COALESCE(SUM(quantity_on_hand), 0) as total_on_hand,
			COALESCE(SUM(quantity_on_hand * unit_cost), 0) as total_value
		`).
		Where("org_id = ? AND deleted_at IS NULL AND status <> ?", orgID, "discontinued").
		Group("COALESCE(NULLIF(location, ''), 'unassigned')").
		Order("location ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetStatusStats counts items grouped by stock status
func (r *GormInventoryReportRepository) GetStatusStats(ctx context.Context, orgID uuid.UUID) ([]report.StatusStats, error) {
	var results []report.StatusStats

	err := r.db.WithContext(ctx).Table("inventory_items").
		Select("status, COUNT(*) as item_count").
		Where("org_id = ? AND deleted_at IS NULL", orgID).
		Group("status").
		Order("status ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetMovementStats aggregates transactions by type over a date range
func (r *GormInventoryReportRepository) GetMovementStats(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]report.MovementStats, error) {
	var results []report.MovementStats

	err := r.db.WithContext(ctx).Table("inventory_transactions").
		Select(`
			transaction_type,
			COUNT(*) as transaction_count,
			COALESCE(SUM(ABS(quantity)), 0) as total_quantity
		`).
		Where("org_id = ? AND transaction_date BETWEEN ? AND ?", orgID, start, end).
		Group("transaction_type").
		Order("transaction_type ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetValuation lists every in-stock item with its extended value
func (r *GormInventoryReportRepository) GetValuation(ctx context.Context, orgID uuid.UUID) ([]report.ValuationLine, error) {
	var results []report.ValuationLine

	err := r.db.WithContext(ctx).Table("inventory_items").
		Select(`
			id as item_id,
			item_code,
			name as item_name,
			category,
			location,
			quantity_on_hand,
			unit_cost,
			(quantity_on_hand * unit_cost) as total_value
		`).
		Where("org_id = ? AND deleted_at IS NULL AND quantity_on_hand > 0", orgID).
		Order("item_code ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Ensure GormInventoryReportRepository implements report.InventoryReportRepository
var _ report.InventoryReportRepository = (*GormInventoryReportRepository)(nil)
