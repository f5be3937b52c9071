package inventory

import (
	"context"
	"testing"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStockServiceForTest(itemRepo *MockItemRepository, txRepo *MockTransactionRepository) *StockService {
	scope := newTestScope(itemRepo, txRepo, new(MockAllocationRepository), new(MockCountRepository), new(MockAlertRepository))
	return NewStockService(txRepo, scope)
}

func TestStockService_RecordTransaction(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("receipt raises on hand and logs the posting", func(t *testing.T) {
		itemRepo := new(MockItemRepository)
		txRepo := new(MockTransactionRepository)
		service := newStockServiceForTest(itemRepo, txRepo)

		item := newStockedItem(t, orgID, "100", "0")
		var capturedTx *inventory.InventoryTransaction
		itemRepo.On("FindByIDForUpdate", mock.Anything, orgID, item.ID).Return(item, nil).Once()
		itemRepo.On("Save", mock.Anything, item).Return(nil).Once()
		txRepo.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Run(func(args mock.Arguments) {
			capturedTx = args.Get(1).(*inventory.InventoryTransaction)
		}).Return(nil).Once()

		resp, err := service.RecordTransaction(ctx, orgID, RecordTransactionRequest{
			ItemID:    item.ID,
			Type:      "receipt",
			Quantity:  qty("25"),
			Reference: "PO-1001",
		})
		require.NoError(t, err)

		assert.Equal(t, "receipt", resp.Type)
		assert.True(t, resp.BalanceBefore.Equal(qty("100")))
		assert.True(t, resp.BalanceAfter.Equal(qty("125")))
		assert.Equal(t, "PO-1001", resp.Reference)
		assert.True(t, item.QuantityOnHand.Equal(qty("125")))
		require.NotNil(t, capturedTx)
		assert.Equal(t, inventory.TransactionTypeReceipt, capturedTx.TransactionType)
	})

	t.Run("issue beyond available writes nothing", func(t *testing.T) {
		itemRepo := new(MockItemRepository)
		txRepo := new(MockTransactionRepository)
		service := newStockServiceForTest(itemRepo, txRepo)

		item := newStockedItem(t, orgID, "10", "8")
		itemRepo.On("FindByIDForUpdate", mock.Anything, orgID, item.ID).Return(item, nil).Once()

		resp, err := service.RecordTransaction(ctx, orgID, RecordTransactionRequest{
			ItemID:   item.ID,
			Type:     "issue",
			Quantity: qty("5"),
		})
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, item.QuantityOnHand.Equal(qty("10")))
		itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("negative adjustment corrects on hand", func(t *testing.T) {
		itemRepo := new(MockItemRepository)
		txRepo := new(MockTransactionRepository)
		service := newStockServiceForTest(itemRepo, txRepo)

		item := newStockedItem(t, orgID, "100", "0")
		itemRepo.On("FindByIDForUpdate", mock.Anything, orgID, item.ID).Return(item, nil).Once()
		itemRepo.On("Save", mock.Anything, item).Return(nil).Once()
		txRepo.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil).Once()

		resp, err := service.RecordTransaction(ctx, orgID, RecordTransactionRequest{
			ItemID:   item.ID,
			Type:     "adjustment",
			Quantity: qty("-3"),
			Reason:   "damaged in storage",
		})
		require.NoError(t, err)

		assert.True(t, resp.BalanceAfter.Equal(qty("97")))
		assert.Equal(t, "damaged in storage", resp.Reason)
	})

	t.Run("transfer relocates without changing quantities", func(t *testing.T) {
		itemRepo := new(MockItemRepository)
		txRepo := new(MockTransactionRepository)
		service := newStockServiceForTest(itemRepo, txRepo)

		item := newStockedItem(t, orgID, "40", "0")
		require.NoError(t, item.Relocate("Warehouse A"))
		itemRepo.On("FindByIDForUpdate", mock.Anything, orgID, item.ID).Return(item, nil).Once()
		itemRepo.On("Save", mock.Anything, item).Return(nil).Once()
		txRepo.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil).Once()

		resp, err := service.RecordTransaction(ctx, orgID, RecordTransactionRequest{
			ItemID:     item.ID,
			Type:       "transfer",
			Quantity:   qty("40"),
			ToLocation: "Truck 7",
		})
		require.NoError(t, err)

		assert.Equal(t, "Warehouse A", resp.FromLocation)
		assert.Equal(t, "Truck 7", resp.ToLocation)
		assert.True(t, resp.BalanceBefore.Equal(resp.BalanceAfter))
		assert.Equal(t, "Truck 7", item.Location)
		assert.True(t, item.QuantityOnHand.Equal(qty("40")))
	})

	t.Run("posting publishes the matching stock event", func(t *testing.T) {
		cases := []struct {
			txType    string
			quantity  string
			eventType string
		}{
			{"receipt", "25", inventory.EventTypeStockReceived},
			{"issue", "10", inventory.EventTypeStockIssued},
			{"adjustment", "-3", inventory.EventTypeStockAdjusted},
		}
		for _, tc := range cases {
			t.Run(tc.txType, func(t *testing.T) {
				itemRepo := new(MockItemRepository)
				txRepo := new(MockTransactionRepository)
				service := newStockServiceForTest(itemRepo, txRepo)
				publisher := NewMockEventPublisher()
				service.SetEventPublisher(publisher)

				item := newStockedItem(t, orgID, "100", "0")
				itemRepo.On("FindByIDForUpdate", mock.Anything, orgID, item.ID).Return(item, nil).Once()
				itemRepo.On("Save", mock.Anything, item).Return(nil).Once()
				txRepo.On("Create", mock.Anything, mock.AnythingOfType("*inventory.InventoryTransaction")).Return(nil).Once()

				_, err := service.RecordTransaction(ctx, orgID, RecordTransactionRequest{
					ItemID:   item.ID,
					Type:     tc.txType,
					Quantity: qty(tc.quantity),
					Reason:   "cycle correction",
				})
				require.NoError(t, err)

				require.Len(t, publisher.GetEventsByType(tc.eventType), 1)
				assert.Empty(t, item.GetDomainEvents())
			})
		}
	})

	t.Run("failed posting publishes nothing", func(t *testing.T) {
		itemRepo := new(MockItemRepository)
		txRepo := new(MockTransactionRepository)
		service := newStockServiceForTest(itemRepo, txRepo)
		publisher := NewMockEventPublisher()
		service.SetEventPublisher(publisher)

		item := newStockedItem(t, orgID, "10", "8")
		itemRepo.On("FindByIDForUpdate", mock.Anything, orgID, item.ID).Return(item, nil).Once()

		_, err := service.RecordTransaction(ctx, orgID, RecordTransactionRequest{
			ItemID:   item.ID,
			Type:     "issue",
			Quantity: qty("5"),
		})
		require.Error(t, err)
		assert.Empty(t, publisher.GetEvents())
	})

	t.Run("transfer without destination fails", func(t *testing.T) {
		service := newStockServiceForTest(new(MockItemRepository), new(MockTransactionRepository))

		_, err := service.RecordTransaction(ctx, orgID, RecordTransactionRequest{
			ItemID:   uuid.New(),
			Type:     "transfer",
			Quantity: qty("5"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("invalid type fails", func(t *testing.T) {
		service := newStockServiceForTest(new(MockItemRepository), new(MockTransactionRepository))

		_, err := service.RecordTransaction(ctx, orgID, RecordTransactionRequest{
			ItemID:   uuid.New(),
			Type:     "donation",
			Quantity: qty("5"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("negative quantity only allowed for adjustments", func(t *testing.T) {
		service := newStockServiceForTest(new(MockItemRepository), new(MockTransactionRepository))

		_, err := service.RecordTransaction(ctx, orgID, RecordTransactionRequest{
			ItemID:   uuid.New(),
			Type:     "receipt",
			Quantity: qty("-5"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestStockService_List(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("applies pagination defaults", func(t *testing.T) {
		itemRepo := new(MockItemRepository)
		txRepo := new(MockTransactionRepository)
		service := newStockServiceForTest(itemRepo, txRepo)

		var capturedFilter inventory.TransactionFilter
		txRepo.On("FindForOrg", mock.Anything, orgID, mock.AnythingOfType("inventory.TransactionFilter")).Run(func(args mock.Arguments) {
			capturedFilter = args.Get(2).(inventory.TransactionFilter)
		}).Return([]inventory.InventoryTransaction{}, nil).Once()
		txRepo.On("CountForOrg", mock.Anything, orgID, mock.AnythingOfType("inventory.TransactionFilter")).Return(int64(0), nil).Once()

		_, total, err := service.List(ctx, orgID, TransactionListFilter{})
		require.NoError(t, err)

		assert.Equal(t, int64(0), total)
		assert.Equal(t, 1, capturedFilter.Page)
		assert.Equal(t, 20, capturedFilter.PageSize)
		assert.Equal(t, "transaction_date", capturedFilter.OrderBy)
		assert.Equal(t, "desc", capturedFilter.OrderDir)
	})

	t.Run("invalid type filter fails", func(t *testing.T) {
		service := newStockServiceForTest(new(MockItemRepository), new(MockTransactionRepository))

		_, _, err := service.List(ctx, orgID, TransactionListFilter{Type: "donation"})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestStockService_ListByItem(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	itemID := uuid.New()

	itemRepo := new(MockItemRepository)
	txRepo := new(MockTransactionRepository)
	service := newStockServiceForTest(itemRepo, txRepo)

	tx, err := inventory.NewInventoryTransaction(orgID, itemID, inventory.TransactionTypeReceipt, qty("10"), qty("0"), qty("10"))
	require.NoError(t, err)

	txRepo.On("FindByItem", mock.Anything, orgID, itemID, mock.AnythingOfType("shared.Filter")).
		Return([]inventory.InventoryTransaction{*tx}, nil).Once()

	history, err := service.ListByItem(ctx, orgID, itemID, TransactionListFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "receipt", history[0].Type)
}
