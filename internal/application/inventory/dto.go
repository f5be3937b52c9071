package inventory

import (
	"time"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	OrgID             uuid.UUID       `json:"org_id"`
	ItemCode          string          `json:"item_code"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category,omitempty"`
	Unit              string          `json:"unit"`
	Location          string          `json:"location,omitempty"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	QuantityAllocated decimal.Decimal `json:"quantity_allocated"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalValue        decimal.Decimal `json:"total_value"`
	Status            string          `json:"status"`
	IsBelowReorder    bool            `json:"is_below_reorder"`
	LastCountedAt     *time.Time      `json:"last_counted_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToItemResponse converts a domain item to a response DTO
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:                item.ID,
		OrgID:             item.OrgID,
		ItemCode:          item.ItemCode,
		Name:              item.Name,
		Description:       item.Description,
		Category:          item.Category,
		Unit:              item.Unit,
		Location:          item.Location,
		QuantityOnHand:    item.QuantityOnHand,
		QuantityAllocated: item.QuantityAllocated,
		QuantityAvailable: item.QuantityAvailable,
		ReorderLevel:      item.ReorderLevel,
		UnitCost:          item.UnitCost,
		TotalValue:        item.TotalValue(),
		Status:            item.Status.String(),
		IsBelowReorder:    item.IsBelowReorder(),
		LastCountedAt:     item.LastCountedAt,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
		Version:           item.Version,
	}
}

// ToItemResponses converts a slice of domain items to response DTOs
func ToItemResponses(items []inventory.InventoryItem) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToItemResponse(&items[i]))
	}
	return responses
}

// CreateItemRequest represents a request to register a new item
type CreateItemRequest struct {
	ItemCode        string           `json:"item_code" binding:"required,min=1,max=50"`
	Name            string           `json:"name" binding:"required,min=1,max=255"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	Unit            string           `json:"unit"`
	Location        string           `json:"location"`
	ReorderLevel    *decimal.Decimal `json:"reorder_level"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	InitialQuantity *decimal.Decimal `json:"initial_quantity"`
	ActorID         *uuid.UUID       `json:"actor_id"`
}

// UpdateItemRequest represents a request to update item attributes.
// Quantities are never updated here; they only move through transactions
// and allocations.
type UpdateItemRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
}

// ItemListFilter represents filter options for item lists
type ItemListFilter struct {
	Search       string `form:"search"`
	Category     string `form:"category"`
	Location     string `form:"location"`
	Status       string `form:"status"`
	BelowReorder bool   `form:"below_reorder"`
	HasStock     bool   `form:"has_stock"`
	Page         int    `form:"page" binding:"min=1"`
	PageSize     int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RecordTransactionRequest represents a request to post a stock movement
type RecordTransactionRequest struct {
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	Type         string          `json:"type" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	JobID        *uuid.UUID      `json:"job_id"`
	BidID        *uuid.UUID      `json:"bid_id"`
	Reference    string          `json:"reference"`
	Reason       string          `json:"reason"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	ActorID      *uuid.UUID      `json:"actor_id"`
}

// TransactionResponse represents a transaction log entry in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrgID           uuid.UUID       `json:"org_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	JobID           *uuid.UUID      `json:"job_id,omitempty"`
	BidID           *uuid.UUID      `json:"bid_id,omitempty"`
	AllocationID    *uuid.UUID      `json:"allocation_id,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	FromLocation    string          `json:"from_location,omitempty"`
	ToLocation      string          `json:"to_location,omitempty"`
	ActorID         *uuid.UUID      `json:"actor_id,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// ToTransactionResponse converts a domain transaction to a response DTO
func ToTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		OrgID:           tx.OrgID,
		ItemID:          tx.ItemID,
		Type:            tx.TransactionType.String(),
		Quantity:        tx.Quantity,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		JobID:           tx.JobID,
		BidID:           tx.BidID,
		AllocationID:    tx.AllocationID,
		Reference:       tx.Reference,
		Reason:          tx.Reason,
		FromLocation:    tx.FromLocation,
		ToLocation:      tx.ToLocation,
		ActorID:         tx.ActorID,
		TransactionDate: tx.TransactionDate,
	}
}

// ToTransactionResponses converts a slice of domain transactions to response DTOs
func ToTransactionResponses(txs []inventory.InventoryTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		responses = append(responses, ToTransactionResponse(&txs[i]))
	}
	return responses
}

// TransactionListFilter represents filter options for transaction lists
type TransactionListFilter struct {
	ItemID    *uuid.UUID `form:"item_id"`
	JobID     *uuid.UUID `form:"job_id"`
	BidID     *uuid.UUID `form:"bid_id"`
	Type      string     `form:"type"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	Page      int        `form:"page" binding:"min=1"`
	PageSize  int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AllocateRequest represents a request to reserve stock for a job or bid
type AllocateRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	JobID    *uuid.UUID      `json:"job_id"`
	BidID    *uuid.UUID      `json:"bid_id"`
	Notes    string          `json:"notes"`
	ActorID  *uuid.UUID      `json:"actor_id"`
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	ID               uuid.UUID       `json:"id"`
	OrgID            uuid.UUID       `json:"org_id"`
	ItemID           uuid.UUID       `json:"item_id"`
	JobID            *uuid.UUID      `json:"job_id,omitempty"`
	BidID            *uuid.UUID      `json:"bid_id,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	QuantityUsed     decimal.Decimal `json:"quantity_used"`
	QuantityReturned decimal.Decimal `json:"quantity_returned"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	AllocatedAt      time.Time       `json:"allocated_at"`
	IssuedAt         *time.Time      `json:"issued_at,omitempty"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
}

// ToAllocationResponse converts a domain allocation to a response DTO
func ToAllocationResponse(alloc *inventory.InventoryAllocation) AllocationResponse {
	return AllocationResponse{
		ID:               alloc.ID,
		OrgID:            alloc.OrgID,
		ItemID:           alloc.ItemID,
		JobID:            alloc.JobID,
		BidID:            alloc.BidID,
		Quantity:         alloc.Quantity,
		QuantityUsed:     alloc.QuantityUsed,
		QuantityReturned: alloc.QuantityReturned,
		Status:           alloc.Status.String(),
		Notes:            alloc.Notes,
		AllocatedAt:      alloc.AllocatedAt,
		IssuedAt:         alloc.IssuedAt,
		ClosedAt:         alloc.ClosedAt,
	}
}

// ToAllocationResponses converts a slice of domain allocations to response DTOs
func ToAllocationResponses(allocs []inventory.InventoryAllocation) []AllocationResponse {
	responses := make([]AllocationResponse, 0, len(allocs))
	for i := range allocs {
		responses = append(responses, ToAllocationResponse(&allocs[i]))
	}
	return responses
}

// AllocationListFilter represents filter options for allocation lists
type AllocationListFilter struct {
	ItemID   *uuid.UUID `form:"item_id"`
	JobID    *uuid.UUID `form:"job_id"`
	BidID    *uuid.UUID `form:"bid_id"`
	Status   string     `form:"status"`
	OpenOnly bool       `form:"open_only"`
	Page     int        `form:"page" binding:"min=1"`
	PageSize int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateCountRequest represents a request to plan a physical count
type CreateCountRequest struct {
	CountType     string     `json:"count_type" binding:"required,oneof=cycle full spot"`
	Location      string     `json:"location"`
	Category      string     `json:"category"`
	Notes         string     `json:"notes"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// RecordCountItemRequest represents a counted quantity for one item
type RecordCountItemRequest struct {
	ItemID          uuid.UUID       `json:"item_id" binding:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity" binding:"required"`
	Notes           string          `json:"notes"`
	CountedBy       *uuid.UUID      `json:"counted_by"`
}

// CountItemResponse represents one line of a count in API responses
type CountItemResponse struct {
	ID              uuid.UUID        `json:"id"`
	ItemID          uuid.UUID        `json:"item_id"`
	ItemCode        string           `json:"item_code"`
	ItemName        string           `json:"item_name"`
	SystemQuantity  decimal.Decimal  `json:"system_quantity"`
	CountedQuantity *decimal.Decimal `json:"counted_quantity,omitempty"`
	Variance        decimal.Decimal  `json:"variance"`
	VarianceCost    decimal.Decimal  `json:"variance_cost"`
	Notes           string           `json:"notes,omitempty"`
	CountedAt       *time.Time       `json:"counted_at,omitempty"`
}

// CountResponse represents a count session in API responses
type CountResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrgID         uuid.UUID           `json:"org_id"`
	CountNumber   string              `json:"count_number"`
	CountType     string              `json:"count_type"`
	Status        string              `json:"status"`
	Location      string              `json:"location,omitempty"`
	Category      string              `json:"category,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	ScheduledDate *time.Time          `json:"scheduled_date,omitempty"`
	StartedAt     *time.Time          `json:"started_at,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	TotalItems    int                 `json:"total_items"`
	CountedItems  int                 `json:"counted_items"`
	VarianceCost  decimal.Decimal     `json:"variance_cost"`
	Items         []CountItemResponse `json:"items,omitempty"`
}

// ToCountResponse converts a domain count to a response DTO
func ToCountResponse(count *inventory.InventoryCount, includeItems bool) CountResponse {
	response := CountResponse{
		ID:            count.ID,
		OrgID:         count.OrgID,
		CountNumber:   count.CountNumber,
		CountType:     count.CountType.String(),
		Status:        count.Status.String(),
		Location:      count.Location,
		Category:      count.Category,
		Notes:         count.Notes,
		ScheduledDate: count.ScheduledDate,
		StartedAt:     count.StartedAt,
		CompletedAt:   count.CompletedAt,
		TotalItems:    len(count.Items),
		CountedItems:  count.CountedItemCount(),
		VarianceCost:  count.TotalVarianceCost(),
	}
	if includeItems {
		response.Items = make([]CountItemResponse, 0, len(count.Items))
		for i := range count.Items {
			line := &count.Items[i]
			response.Items = append(response.Items, CountItemResponse{
				ID:              line.ID,
				ItemID:          line.ItemID,
				ItemCode:        line.ItemCode,
				ItemName:        line.ItemName,
				SystemQuantity:  line.SystemQuantity,
				CountedQuantity: line.CountedQuantity,
				Variance:        line.Variance,
				VarianceCost:    line.VarianceCost,
				Notes:           line.Notes,
				CountedAt:       line.CountedAt,
			})
		}
	}
	return response
}

// AlertResponse represents a stock alert in API responses
type AlertResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrgID           uuid.UUID       `json:"org_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name"`
	AlertType       string          `json:"alert_type"`
	Severity        string          `json:"severity"`
	QuantityOnHand  decimal.Decimal `json:"quantity_on_hand"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	Acknowledged    bool            `json:"acknowledged"`
	AcknowledgedAt  *time.Time      `json:"acknowledged_at,omitempty"`
	Resolved        bool            `json:"resolved"`
	ResolvedBy      *uuid.UUID      `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	ResolutionNotes string          `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToAlertResponse converts a domain alert to a response DTO
func ToAlertResponse(alert *inventory.InventoryStockAlert) AlertResponse {
	return AlertResponse{
		ID:              alert.ID,
		OrgID:           alert.OrgID,
		ItemID:          alert.ItemID,
		ItemCode:        alert.ItemCode,
		ItemName:        alert.ItemName,
		AlertType:       alert.AlertType.String(),
		Severity:        alert.Severity.String(),
		QuantityOnHand:  alert.QuantityOnHand,
		ReorderLevel:    alert.ReorderLevel,
		Acknowledged:    alert.Acknowledged,
		AcknowledgedAt:  alert.AcknowledgedAt,
		Resolved:        alert.Resolved,
		ResolvedBy:      alert.ResolvedBy,
		ResolvedAt:      alert.ResolvedAt,
		ResolutionNotes: alert.ResolutionNotes,
		CreatedAt:       alert.CreatedAt,
	}
}

// ToAlertResponses converts a slice of domain alerts to response DTOs
func ToAlertResponses(alerts []inventory.InventoryStockAlert) []AlertResponse {
	responses := make([]AlertResponse, 0, len(alerts))
	for i := range alerts {
		responses = append(responses, ToAlertResponse(&alerts[i]))
	}
	return responses
}

// AlertListFilter represents filter options for alert lists
type AlertListFilter struct {
	ItemID       *uuid.UUID `form:"item_id"`
	AlertType    string     `form:"alert_type"`
	Severity     string     `form:"severity"`
	Resolved     *bool      `form:"resolved"`
	Acknowledged *bool      `form:"acknowledged"`
	Page         int        `form:"page" binding:"min=1"`
	PageSize     int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CheckAlertsResult summarizes one alert scan pass
type CheckAlertsResult struct {
	ItemsScanned    int `json:"items_scanned"`
	AlertsCreated   int `json:"alerts_created"`
	AlertsRefreshed int `json:"alerts_refreshed"`
}
