package inventory

import (
	"context"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockService posts movements to the transaction log. Every posting applies
// its ledger delta and appends the log entry in one atomic unit; if the delta
// would drive a quantity negative, nothing is written.
type StockService struct {
	transactionRepo inventory.TransactionRepository
	scope           TransactionScope
	eventPublisher  shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(transactionRepo inventory.TransactionRepository, scope TransactionScope) *StockService {
	return &StockService{
		transactionRepo: transactionRepo,
		scope:           scope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *StockService) publishDomainEvents(ctx context.Context, item *inventory.InventoryItem) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}

// RecordTransaction posts a stock movement. The item row is locked for the
// duration of the posting so concurrent movements of the same item serialize.
func (s *StockService) RecordTransaction(ctx context.Context, orgID uuid.UUID, req RecordTransactionRequest) (*TransactionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	txType := inventory.TransactionType(req.Type)
	if !txType.IsValid() {
		return nil, shared.NewValidationError("Invalid transaction type").
			WithDetail("type", req.Type)
	}
	if req.Quantity.IsZero() {
		return nil, shared.NewValidationError("Quantity cannot be zero")
	}
	if txType != inventory.TransactionTypeAdjustment && req.Quantity.IsNegative() {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if txType == inventory.TransactionTypeTransfer && req.ToLocation == "" {
		return nil, shared.NewValidationError("Transfer requires a destination location")
	}

	var (
		item     *inventory.InventoryItem
		response TransactionResponse
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, orgID, req.ItemID)
		if err != nil {
			return err
		}

		balanceBefore := item.QuantityOnHand
		fromLocation := item.Location

		switch txType {
		case inventory.TransactionTypeReceipt,
			inventory.TransactionTypeReturn,
			inventory.TransactionTypeInitialStock:
			err = item.AddOnHand(req.Quantity)
		case inventory.TransactionTypeIssue,
			inventory.TransactionTypeWriteOff:
			err = item.RemoveOnHand(req.Quantity)
		case inventory.TransactionTypeAdjustment:
			err = item.AdjustOnHand(req.Quantity)
		case inventory.TransactionTypeTransfer:
			err = item.Relocate(req.ToLocation)
		}
		if err != nil {
			return err
		}

		switch txType {
		case inventory.TransactionTypeReceipt,
			inventory.TransactionTypeReturn,
			inventory.TransactionTypeInitialStock:
			item.AddDomainEvent(inventory.NewStockReceivedEvent(item, req.Quantity))
		case inventory.TransactionTypeIssue,
			inventory.TransactionTypeWriteOff:
			item.AddDomainEvent(inventory.NewStockIssuedEvent(item, req.Quantity, req.JobID))
		case inventory.TransactionTypeAdjustment:
			item.AddDomainEvent(inventory.NewStockAdjustedEvent(item, req.Quantity, req.Reason))
		}

		tx, err := inventory.NewInventoryTransaction(
			orgID, item.ID, txType, req.Quantity, balanceBefore, item.QuantityOnHand,
		)
		if err != nil {
			return err
		}
		if req.JobID != nil {
			tx.WithJobID(*req.JobID)
		}
		if req.BidID != nil {
			tx.WithBidID(*req.BidID)
		}
		if req.Reference != "" {
			tx.WithReference(req.Reference)
		}
		if req.Reason != "" {
			tx.WithReason(req.Reason)
		}
		if req.ActorID != nil {
			tx.WithActorID(*req.ActorID)
		}
		if txType == inventory.TransactionTypeTransfer {
			from := req.FromLocation
			if from == "" {
				from = fromLocation
			}
			tx.WithLocations(from, req.ToLocation)
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return err
		}
		response = ToTransactionResponse(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)
	return &response, nil
}

// GetByID retrieves a transaction log entry
func (s *StockService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(tx)
	return &response, nil
}

// ListByItem retrieves the movement history of one item, newest first
func (s *StockService) ListByItem(ctx context.Context, orgID, itemID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, error) {
	domainFilter := buildTransactionSharedFilter(filter)
	txs, err := s.transactionRepo.FindByItem(ctx, orgID, itemID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

// List retrieves transactions with filtering and pagination
func (s *StockService) List(ctx context.Context, orgID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := inventory.TransactionFilter{
		Filter:    buildTransactionSharedFilter(filter),
		ItemID:    filter.ItemID,
		JobID:     filter.JobID,
		BidID:     filter.BidID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}
	if filter.Type != "" {
		txType := inventory.TransactionType(filter.Type)
		if !txType.IsValid() {
			return nil, 0, shared.NewValidationError("Invalid transaction type filter")
		}
		domainFilter.TransactionType = &txType
	}

	txs, err := s.transactionRepo.FindForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transactionRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(txs), total, nil
}

func buildTransactionSharedFilter(filter TransactionListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "transaction_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
}
