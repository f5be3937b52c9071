package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is invalid, empty, or not in
// the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ItemSortFields contains allowed sort fields for inventory items
var ItemSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"item_code":          true,
	"name":               true,
	"category":           true,
	"location":           true,
	"status":             true,
	"quantity_on_hand":   true,
	"quantity_available": true,
	"reorder_level":      true,
	"unit_cost":          true,
	"last_counted_at":    true,
}

// TransactionSortFields contains allowed sort fields for transactions
var TransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_date": true,
	"transaction_type": true,
	"quantity":         true,
}

// AllocationSortFields contains allowed sort fields for allocations
var AllocationSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"allocated_at": true,
	"issued_at":    true,
	"status":       true,
	"quantity":     true,
}

// CountSortFields contains allowed sort fields for count sessions
var CountSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"count_number":   true,
	"status":         true,
	"scheduled_date": true,
	"started_at":     true,
	"completed_at":   true,
}

// AlertSortFields contains allowed sort fields for stock alerts
var AlertSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"severity":         true,
	"alert_type":       true,
	"quantity_on_hand": true,
}
