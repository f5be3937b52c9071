package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements inventory.TransactionRepository using
// GORM. The transaction log is append-only; this repository exposes no update
// or delete path.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByItem finds transactions for an item, newest first
func (r *GormTransactionRepository) FindByItem(ctx context.Context, orgID, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	query := r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).
		Where("org_id = ? AND item_id = ?", orgID, itemID)
	query = r.applyPaginationAndOrder(query, filter)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindForOrg finds transactions for an organization matching the filter
func (r *GormTransactionRepository) FindForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.TransactionFilter) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	query := r.applyTransactionFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).Where("org_id = ?", orgID),
		filter,
	)
	query = r.applyPaginationAndOrder(query, filter.Filter)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByAllocation finds transactions linked to an allocation
func (r *GormTransactionRepository) FindByAllocation(ctx context.Context, allocationID uuid.UUID) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("allocation_id = ?", allocationID).
		Order("transaction_date ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Create appends a new transaction to the log
func (r *GormTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// CountForOrg counts transactions matching the filter
func (r *GormTransactionRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter inventory.TransactionFilter) (int64, error) {
	var count int64
	query := r.applyTransactionFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).Where("org_id = ?", orgID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantityByTypeAndDateRange sums movement quantities for reporting
func (r *GormTransactionRepository) SumQuantityByTypeAndDateRange(ctx context.Context, orgID uuid.UUID, txType inventory.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("org_id = ? AND transaction_type = ? AND transaction_date >= ? AND transaction_date < ?", orgID, txType, start, end).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormTransactionRepository) applyTransactionFilter(query *gorm.DB, filter inventory.TransactionFilter) *gorm.DB {
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.JobID != nil {
		query = query.Where("job_id = ?", *filter.JobID)
	}
	if filter.BidID != nil {
		query = query.Where("bid_id = ?", *filter.BidID)
	}
	if filter.TransactionType != nil {
		query = query.Where("transaction_type = ?", *filter.TransactionType)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date < ?", *filter.EndDate)
	}
	return query
}

func (r *GormTransactionRepository) applyPaginationAndOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "transaction_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormTransactionRepository implements inventory.TransactionRepository
var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
