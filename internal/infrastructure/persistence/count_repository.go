package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCountRepository implements inventory.CountRepository using GORM
type GormCountRepository struct {
	db *gorm.DB
}

// NewGormCountRepository creates a new GormCountRepository
func NewGormCountRepository(db *gorm.DB) *GormCountRepository {
	return &GormCountRepository{db: db}
}

// FindByID finds a count by its ID
func (r *GormCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryCount, error) {
	var count inventory.InventoryCount
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&count, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindByIDForOrg finds a count by ID within an organization, items included
func (r *GormCountRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*inventory.InventoryCount, error) {
	var count inventory.InventoryCount
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindByCountNumber finds a count by its number
func (r *GormCountRepository) FindByCountNumber(ctx context.Context, orgID uuid.UUID, countNumber string) (*inventory.InventoryCount, error) {
	var count inventory.InventoryCount
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ? AND count_number = ?", orgID, countNumber).
		First(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindByStatus finds counts with a specific status
func (r *GormCountRepository) FindByStatus(ctx context.Context, orgID uuid.UUID, status inventory.CountStatus, filter shared.Filter) ([]inventory.InventoryCount, error) {
	var counts []inventory.InventoryCount
	query := r.db.WithContext(ctx).Model(&inventory.InventoryCount{}).
		Where("org_id = ? AND status = ?", orgID, status)
	query = r.applyPaginationAndOrder(query, filter)

	if err := query.Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// FindAllForOrg finds all counts for an organization
func (r *GormCountRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]inventory.InventoryCount, error) {
	var counts []inventory.InventoryCount
	query := r.db.WithContext(ctx).Model(&inventory.InventoryCount{}).
		Where("org_id = ?", orgID)
	if filter.Search != "" {
		query = query.Where("count_number ILIKE ?", "%"+filter.Search+"%")
	}
	query = r.applyPaginationAndOrder(query, filter)

	if err := query.Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Save creates or updates a count together with its lines
func (r *GormCountRepository) Save(ctx context.Context, count *inventory.InventoryCount) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(count).Error
}

// CountForOrg counts count sessions matching the filter
func (r *GormCountRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&inventory.InventoryCount{}).
		Where("org_id = ?", orgID)
	if filter.Search != "" {
		query = query.Where("count_number ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// GenerateCountNumber generates the next count number for the organization.
// Format: CNT-YYYYMMDD-NNNN, sequence scoped to the day.
func (r *GormCountRepository) GenerateCountNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	today := time.Now().Format("20060102")
	prefix := fmt.Sprintf("CNT-%s-", today)

	var maxNumber string
	err := r.db.WithContext(ctx).Model(&inventory.InventoryCount{}).
		Select("count_number").
		Where("org_id = ? AND count_number LIKE ?", orgID, prefix+"%").
		Order("count_number DESC").
		Limit(1).
		Pluck("count_number", &maxNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	seq := 1
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		var last int
		if _, err := fmt.Sscanf(parts[len(parts)-1], "%04d", &last); err == nil {
			seq = last + 1
		}
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (r *GormCountRepository) applyPaginationAndOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, CountSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormCountRepository implements inventory.CountRepository
var _ inventory.CountRepository = (*GormCountRepository)(nil)
