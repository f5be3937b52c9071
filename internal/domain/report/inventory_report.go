package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardSummary provides aggregated stock statistics for an organization
type DashboardSummary struct {
	TotalItems       int64           `json:"total_items"`
	TotalOnHand      decimal.Decimal `json:"total_on_hand"`
	TotalAllocated   decimal.Decimal `json:"total_allocated"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LowStockCount    int64           `json:"low_stock_count"`
	OutOfStockCount  int64           `json:"out_of_stock_count"`
	ActiveAlertCount int64           `json:"active_alert_count"`
	OpenAllocations  int64           `json:"open_allocations"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// CategoryStats aggregates stock by item category
type CategoryStats struct {
	Category      string          `json:"category"`
	ItemCount     int64           `json:"item_count"`
	TotalOnHand   decimal.Decimal `json:"total_on_hand"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockCount int64           `json:"low_stock_count"`
}

// LocationStats aggregates stock by storage location
type LocationStats struct {
	Location    string          `json:"location"`
	ItemCount   int64           `json:"item_count"`
	TotalOnHand decimal.Decimal `json:"total_on_hand"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// StatusStats counts items by stock status
type StatusStats struct {
	Status    string `json:"status"`
	ItemCount int64  `json:"item_count"`
}

// MovementStats aggregates transaction volume by type over a period
type MovementStats struct {
	TransactionType  string          `json:"transaction_type"`
	TransactionCount int64           `json:"transaction_count"`
	TotalQuantity    decimal.Decimal `json:"total_quantity"`
}

// ValuationLine is one item row of a stock valuation report
type ValuationLine struct {
	ItemID         uuid.UUID       `json:"item_id"`
	ItemCode       string          `json:"item_code"`
	ItemName       string          `json:"item_name"`
	Category       string          `json:"category"`
	Location       string          `json:"location"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalValue     decimal.Decimal `json:"total_value"`
}

// InventoryReportRepository defines read-side queries over the stock ledger.
// Implementations aggregate directly in the database; nothing here mutates state.
type InventoryReportRepository interface {
	// GetDashboardSummary returns the headline stock numbers for an organization
	GetDashboardSummary(ctx context.Context, orgID uuid.UUID) (*DashboardSummary, error)

	// GetCategoryStats aggregates stock grouped by category
	GetCategoryStats(ctx context.Context, orgID uuid.UUID) ([]CategoryStats, error)

	// GetLocationStats aggregates stock grouped by location
	GetLocationStats(ctx context.Context, orgID uuid.UUID) ([]LocationStats, error)

	// GetStatusStats counts items grouped by stock status
	GetStatusStats(ctx context.Context, orgID uuid.UUID) ([]StatusStats, error)

	// GetMovementStats aggregates transactions by type over a date range
	GetMovementStats(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]MovementStats, error)

	// GetValuation lists every in-stock item with its extended value
	GetValuation(ctx context.Context, orgID uuid.UUID) ([]ValuationLine, error)
}
