package persistence

import (
	"context"

	appinv "github.com/fieldstock/backend/internal/application/inventory"
	"github.com/fieldstock/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the item repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ItemRepo() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// TransactionRepo returns the transaction log repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TransactionRepo() inventory.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// AllocationRepo returns the allocation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AllocationRepo() inventory.AllocationRepository {
	return NewGormAllocationRepository(r.tx)
}

// CountRepo returns the count repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CountRepo() inventory.CountRepository {
	return NewGormCountRepository(r.tx)
}

// AlertRepo returns the alert repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AlertRepo() inventory.AlertRepository {
	return NewGormAlertRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
