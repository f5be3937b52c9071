package inventory

import (
	"time"

	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CountType represents the scope of a physical count
type CountType string

const (
	// CountTypeCycle is a rolling count of a subset of items
	CountTypeCycle CountType = "cycle"
	// CountTypeFull is a complete count of all items
	CountTypeFull CountType = "full"
	// CountTypeSpot is an ad-hoc count of specific items
	CountTypeSpot CountType = "spot"
)

// String returns the string representation of CountType
func (t CountType) String() string {
	return string(t)
}

// IsValid returns true if the count type is valid
func (t CountType) IsValid() bool {
	switch t {
	case CountTypeCycle, CountTypeFull, CountTypeSpot:
		return true
	}
	return false
}

// CountStatus represents the lifecycle state of a physical count
type CountStatus string

const (
	// CountStatusPlanned means the count is scheduled but not started
	CountStatusPlanned CountStatus = "planned"
	// CountStatusInProgress means counting is underway against a frozen snapshot
	CountStatusInProgress CountStatus = "in_progress"
	// CountStatusCompleted means the count finished and variances are final
	CountStatusCompleted CountStatus = "completed"
	// CountStatusCancelled means the count was abandoned
	CountStatusCancelled CountStatus = "cancelled"
)

// String returns the string representation of CountStatus
func (s CountStatus) String() string {
	return string(s)
}

// IsValid returns true if the count status is valid
func (s CountStatus) IsValid() bool {
	switch s {
	case CountStatusPlanned, CountStatusInProgress, CountStatusCompleted, CountStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed
func (s CountStatus) IsTerminal() bool {
	return s == CountStatusCompleted || s == CountStatusCancelled
}

// CanTransitionTo returns true if the status can transition to the target
func (s CountStatus) CanTransitionTo(target CountStatus) bool {
	switch s {
	case CountStatusPlanned:
		return target == CountStatusInProgress || target == CountStatusCancelled
	case CountStatusInProgress:
		return target == CountStatusCompleted || target == CountStatusCancelled
	}
	return false
}

// InventoryCount is a physical count session. Starting the count freezes a
// snapshot of system quantities so that counted values always compare against
// the ledger as it stood when counting began. Completing a count never adjusts
// the ledger; variances are advisory and corrections go through explicit
// adjustment transactions.
type InventoryCount struct {
	shared.OrgAggregateRoot
	CountNumber   string      `gorm:"type:varchar(30);not null;uniqueIndex:idx_inv_count_org_number,priority:2"`
	CountType     CountType   `gorm:"type:varchar(10);not null"`
	Status        CountStatus `gorm:"type:varchar(15);not null;default:'planned';index"`
	Location      string      `gorm:"type:varchar(100)"` // Empty means all locations
	Category      string      `gorm:"type:varchar(100)"` // Empty means all categories
	Notes         string      `gorm:"type:text"`
	ScheduledDate *time.Time  `gorm:"type:timestamptz"`
	StartedAt     *time.Time  `gorm:"type:timestamptz"`
	CompletedAt   *time.Time  `gorm:"type:timestamptz"`
	StartedBy     *uuid.UUID  `gorm:"type:uuid"`
	CompletedBy   *uuid.UUID  `gorm:"type:uuid"`

	Items []InventoryCountItem `gorm:"foreignKey:CountID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InventoryCount) TableName() string {
	return "inventory_counts"
}

// InventoryCountItem is one line of a count: the frozen system quantity for an
// item plus the physically counted value and the resulting variance.
type InventoryCountItem struct {
	shared.BaseEntity
	CountID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_inv_count_item,priority:1"`
	ItemID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_inv_count_item,priority:2"`
	ItemCode        string           `gorm:"type:varchar(50);not null"`
	ItemName        string           `gorm:"type:varchar(255);not null"`
	SystemQuantity  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`           // Frozen at count start
	UnitCost        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"` // Frozen at count start
	CountedQuantity *decimal.Decimal `gorm:"type:decimal(18,4)"`                    // Nil until recorded
	Variance        decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	VarianceCost    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Notes           string           `gorm:"type:varchar(255)"`
	CountedBy       *uuid.UUID       `gorm:"type:uuid"`
	CountedAt       *time.Time       `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (InventoryCountItem) TableName() string {
	return "inventory_count_items"
}

// IsCounted returns true if a physical quantity has been recorded for the line
func (ci *InventoryCountItem) IsCounted() bool {
	return ci.CountedQuantity != nil
}

// HasVariance returns true if the counted quantity differs from the snapshot
func (ci *InventoryCountItem) HasVariance() bool {
	return ci.IsCounted() && !ci.Variance.IsZero()
}

// NewInventoryCount creates a planned count session
func NewInventoryCount(
	orgID uuid.UUID,
	countNumber string,
	countType CountType,
) (*InventoryCount, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewValidationError("Organization ID cannot be empty")
	}
	if countNumber == "" {
		return nil, shared.NewValidationError("Count number cannot be empty")
	}
	if !countType.IsValid() {
		return nil, shared.NewValidationError("Invalid count type")
	}

	return &InventoryCount{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		CountNumber:      countNumber,
		CountType:        countType,
		Status:           CountStatusPlanned,
	}, nil
}

// WithScope restricts the count to a location and/or category
func (c *InventoryCount) WithScope(location, category string) *InventoryCount {
	c.Location = location
	c.Category = category
	return c
}

// WithSchedule records when the count is planned to happen
func (c *InventoryCount) WithSchedule(date time.Time) *InventoryCount {
	c.ScheduledDate = &date
	return c
}

// Start moves the count to in_progress and freezes the snapshot lines. The
// provided items are the ledger state at this moment; their quantities and
// unit costs are captured so later stock movements do not shift the baseline.
func (c *InventoryCount) Start(items []*InventoryItem, startedBy *uuid.UUID) error {
	if !c.Status.CanTransitionTo(CountStatusInProgress) {
		return c.transitionError(CountStatusInProgress)
	}
	if len(items) == 0 {
		return shared.NewValidationError("Count scope matches no items")
	}

	now := time.Now()
	c.Items = make([]InventoryCountItem, 0, len(items))
	for _, item := range items {
		c.Items = append(c.Items, InventoryCountItem{
			BaseEntity:     shared.NewBaseEntity(),
			CountID:        c.ID,
			ItemID:         item.ID,
			ItemCode:       item.ItemCode,
			ItemName:       item.Name,
			SystemQuantity: item.QuantityOnHand,
			UnitCost:       item.UnitCost,
			Variance:       decimal.Zero,
			VarianceCost:   decimal.Zero,
		})
	}

	c.Status = CountStatusInProgress
	c.StartedAt = &now
	c.StartedBy = startedBy
	c.UpdatedAt = now
	c.AddDomainEvent(NewCountStartedEvent(c))
	return nil
}

// RecordItemCount records the physically counted quantity for an item and
// computes its variance against the frozen snapshot. Recounting a line
// overwrites the previous value.
func (c *InventoryCount) RecordItemCount(itemID uuid.UUID, counted decimal.Decimal, countedBy *uuid.UUID, notes string) error {
	if c.Status != CountStatusInProgress {
		return shared.ErrInvalidStateTransition.
			WithDetail("count_id", c.ID.String()).
			WithDetail("status", c.Status.String()).
			WithDetail("operation", "record_item_count")
	}
	if counted.IsNegative() {
		return shared.NewValidationError("Counted quantity cannot be negative")
	}

	for i := range c.Items {
		line := &c.Items[i]
		if line.ItemID != itemID {
			continue
		}
		now := time.Now()
		line.CountedQuantity = &counted
		line.Variance = counted.Sub(line.SystemQuantity)
		line.VarianceCost = line.Variance.Mul(line.UnitCost)
		line.Notes = notes
		line.CountedBy = countedBy
		line.CountedAt = &now
		line.UpdatedAt = now
		c.UpdatedAt = now
		return nil
	}

	return shared.ErrNotFound.
		WithDetail("count_id", c.ID.String()).
		WithDetail("item_id", itemID.String())
}

// Complete finalizes the count. Every line must have been counted. The ledger
// is never touched here; callers apply corrections as adjustment transactions.
func (c *InventoryCount) Complete(completedBy *uuid.UUID) error {
	if !c.Status.CanTransitionTo(CountStatusCompleted) {
		return c.transitionError(CountStatusCompleted)
	}
	for i := range c.Items {
		if !c.Items[i].IsCounted() {
			return shared.NewValidationError("All items must be counted before completion").
				WithDetail("item_id", c.Items[i].ItemID.String()).
				WithDetail("item_code", c.Items[i].ItemCode)
		}
	}

	now := time.Now()
	c.Status = CountStatusCompleted
	c.CompletedAt = &now
	c.CompletedBy = completedBy
	c.UpdatedAt = now
	c.AddDomainEvent(NewCountCompletedEvent(c))
	return nil
}

// Cancel abandons the count from any non-terminal state
func (c *InventoryCount) Cancel() error {
	if c.Status.IsTerminal() {
		return c.transitionError(CountStatusCancelled)
	}
	now := time.Now()
	c.Status = CountStatusCancelled
	c.CompletedAt = &now
	c.UpdatedAt = now
	return nil
}

// TotalVarianceCost sums the signed variance cost over all counted lines
func (c *InventoryCount) TotalVarianceCost() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].VarianceCost)
	}
	return total
}

// VarianceLines returns the lines whose counted quantity differs from the snapshot
func (c *InventoryCount) VarianceLines() []InventoryCountItem {
	var lines []InventoryCountItem
	for i := range c.Items {
		if c.Items[i].HasVariance() {
			lines = append(lines, c.Items[i])
		}
	}
	return lines
}

// CountedItemCount returns how many lines have been counted so far
func (c *InventoryCount) CountedItemCount() int {
	n := 0
	for i := range c.Items {
		if c.Items[i].IsCounted() {
			n++
		}
	}
	return n
}

func (c *InventoryCount) transitionError(target CountStatus) error {
	return shared.ErrInvalidStateTransition.
		WithDetail("count_id", c.ID.String()).
		WithDetail("from", c.Status.String()).
		WithDetail("to", target.String())
}
