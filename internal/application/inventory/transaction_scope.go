package inventory

import (
	"context"

	"github.com/fieldstock/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
//
// Every operation that mutates an item's quantities runs inside a scope and
// re-reads the item with ItemRepo().FindByIDForUpdate so that concurrent
// mutations of the same item serialize on the row lock. Operations on
// different items never contend.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the item repository scoped to the current transaction
	ItemRepo() inventory.ItemRepository
	// TransactionRepo returns the transaction log repository scoped to the current transaction
	TransactionRepo() inventory.TransactionRepository
	// AllocationRepo returns the allocation repository scoped to the current transaction
	AllocationRepo() inventory.AllocationRepository
	// CountRepo returns the count repository scoped to the current transaction
	CountRepo() inventory.CountRepository
	// AlertRepo returns the alert repository scoped to the current transaction
	AlertRepo() inventory.AlertRepository
}

// NoOpTransactionScope is a transaction scope without real transactions.
// Useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	itemRepo        inventory.ItemRepository
	transactionRepo inventory.TransactionRepository
	allocationRepo  inventory.AllocationRepository
	countRepo       inventory.CountRepository
	alertRepo       inventory.AlertRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo inventory.ItemRepository,
	transactionRepo inventory.TransactionRepository,
	allocationRepo inventory.AllocationRepository,
	countRepo inventory.CountRepository,
	alertRepo inventory.AlertRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
		allocationRepo:  allocationRepo,
		countRepo:       countRepo,
		alertRepo:       alertRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository {
	return s.itemRepo
}

// TransactionRepo returns the transaction log repository.
func (s *NoOpTransactionScope) TransactionRepo() inventory.TransactionRepository {
	return s.transactionRepo
}

// AllocationRepo returns the allocation repository.
func (s *NoOpTransactionScope) AllocationRepo() inventory.AllocationRepository {
	return s.allocationRepo
}

// CountRepo returns the count repository.
func (s *NoOpTransactionScope) CountRepo() inventory.CountRepository {
	return s.countRepo
}

// AlertRepo returns the alert repository.
func (s *NoOpTransactionScope) AlertRepo() inventory.AlertRepository {
	return s.alertRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
