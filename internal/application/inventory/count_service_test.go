package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCountServiceForTest(countRepo *MockCountRepository, itemRepo *MockItemRepository) *CountService {
	scope := newTestScope(itemRepo, new(MockTransactionRepository), new(MockAllocationRepository), countRepo, new(MockAlertRepository))
	return NewCountService(countRepo, itemRepo, scope)
}

func newInProgressCount(t *testing.T, orgID uuid.UUID, items ...*inventory.InventoryItem) *inventory.InventoryCount {
	t.Helper()
	count, err := inventory.NewInventoryCount(orgID, "CNT-20260831-0001", inventory.CountTypeCycle)
	require.NoError(t, err)
	require.NoError(t, count.Start(items, nil))
	count.ClearDomainEvents()
	return count
}

func TestCountService_Create(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("plans a count with a generated number", func(t *testing.T) {
		countRepo := new(MockCountRepository)
		service := newCountServiceForTest(countRepo, new(MockItemRepository))

		scheduled := time.Now().Add(48 * time.Hour)
		countRepo.On("GenerateCountNumber", mock.Anything, orgID).Return("CNT-20260831-0007", nil).Once()
		countRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.InventoryCount")).Return(nil).Once()

		resp, err := service.Create(ctx, orgID, CreateCountRequest{
			CountType:     "cycle",
			Location:      "Warehouse A",
			ScheduledDate: &scheduled,
		})
		require.NoError(t, err)

		assert.Equal(t, "CNT-20260831-0007", resp.CountNumber)
		assert.Equal(t, "planned", resp.Status)
		assert.Equal(t, "Warehouse A", resp.Location)
		assert.Zero(t, resp.TotalItems)
	})

	t.Run("invalid count type fails", func(t *testing.T) {
		service := newCountServiceForTest(new(MockCountRepository), new(MockItemRepository))

		_, err := service.Create(ctx, orgID, CreateCountRequest{CountType: "weekly"})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCountService_Start(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("freezes in-scope items as the snapshot", func(t *testing.T) {
		countRepo := new(MockCountRepository)
		itemRepo := new(MockItemRepository)
		service := newCountServiceForTest(countRepo, itemRepo)

		count, err := inventory.NewInventoryCount(orgID, "CNT-20260831-0001", inventory.CountTypeCycle)
		require.NoError(t, err)
		count.WithScope("Warehouse A", "")

		item := newStockedItem(t, orgID, "100", "0")

		var capturedFilter inventory.ItemFilter
		countRepo.On("FindByIDForOrg", mock.Anything, orgID, count.ID).Return(count, nil).Once()
		itemRepo.On("FindAllForOrg", mock.Anything, orgID, mock.AnythingOfType("inventory.ItemFilter")).Run(func(args mock.Arguments) {
			capturedFilter = args.Get(2).(inventory.ItemFilter)
		}).Return([]inventory.InventoryItem{*item}, nil).Once()
		countRepo.On("Save", mock.Anything, count).Return(nil).Once()

		resp, err := service.Start(ctx, orgID, count.ID, nil)
		require.NoError(t, err)

		assert.Equal(t, "in_progress", resp.Status)
		assert.Equal(t, 1, resp.TotalItems)
		assert.Zero(t, resp.CountedItems)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].SystemQuantity.Equal(qty("100")))
		assert.Equal(t, "Warehouse A", capturedFilter.Location)
	})

	t.Run("snapshot spans multiple pages of items", func(t *testing.T) {
		countRepo := new(MockCountRepository)
		itemRepo := new(MockItemRepository)
		service := newCountServiceForTest(countRepo, itemRepo)

		count, err := inventory.NewInventoryCount(orgID, "CNT-20260831-0003", inventory.CountTypeFull)
		require.NoError(t, err)

		fullPage := make([]inventory.InventoryItem, countSnapshotPageSize)
		for i := range fullPage {
			item, err := inventory.NewInventoryItem(orgID, fmt.Sprintf("PIPE-%04d", i), "Copper Pipe")
			require.NoError(t, err)
			fullPage[i] = *item
		}
		last, err := inventory.NewInventoryItem(orgID, "PIPE-LAST", "Copper Pipe")
		require.NoError(t, err)

		var pages []int
		capturePage := func(args mock.Arguments) {
			pages = append(pages, args.Get(2).(inventory.ItemFilter).Page)
		}
		countRepo.On("FindByIDForOrg", mock.Anything, orgID, count.ID).Return(count, nil).Once()
		itemRepo.On("FindAllForOrg", mock.Anything, orgID, mock.AnythingOfType("inventory.ItemFilter")).
			Run(capturePage).Return(fullPage, nil).Once()
		itemRepo.On("FindAllForOrg", mock.Anything, orgID, mock.AnythingOfType("inventory.ItemFilter")).
			Run(capturePage).Return([]inventory.InventoryItem{*last}, nil).Once()
		countRepo.On("Save", mock.Anything, count).Return(nil).Once()

		resp, err := service.Start(ctx, orgID, count.ID, nil)
		require.NoError(t, err)

		assert.Equal(t, countSnapshotPageSize+1, resp.TotalItems)
		assert.Equal(t, []int{1, 2}, pages)
	})

	t.Run("empty scope fails", func(t *testing.T) {
		countRepo := new(MockCountRepository)
		itemRepo := new(MockItemRepository)
		service := newCountServiceForTest(countRepo, itemRepo)

		count, err := inventory.NewInventoryCount(orgID, "CNT-20260831-0002", inventory.CountTypeSpot)
		require.NoError(t, err)

		countRepo.On("FindByIDForOrg", mock.Anything, orgID, count.ID).Return(count, nil).Once()
		itemRepo.On("FindAllForOrg", mock.Anything, orgID, mock.AnythingOfType("inventory.ItemFilter")).
			Return([]inventory.InventoryItem{}, nil).Once()

		_, err = service.Start(ctx, orgID, count.ID, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
		countRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCountService_RecordItemCount(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("stores a counted quantity with its variance", func(t *testing.T) {
		countRepo := new(MockCountRepository)
		service := newCountServiceForTest(countRepo, new(MockItemRepository))

		item := newStockedItem(t, orgID, "100", "0")
		count := newInProgressCount(t, orgID, item)

		countRepo.On("FindByIDForOrg", mock.Anything, orgID, count.ID).Return(count, nil).Once()
		countRepo.On("Save", mock.Anything, count).Return(nil).Once()

		resp, err := service.RecordItemCount(ctx, orgID, count.ID, RecordCountItemRequest{
			ItemID:          item.ID,
			CountedQuantity: qty("97"),
		})
		require.NoError(t, err)

		assert.Equal(t, 1, resp.CountedItems)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].Variance.Equal(qty("-3")))
	})

	t.Run("negative quantity fails before any read", func(t *testing.T) {
		countRepo := new(MockCountRepository)
		service := newCountServiceForTest(countRepo, new(MockItemRepository))

		_, err := service.RecordItemCount(ctx, orgID, uuid.New(), RecordCountItemRequest{
			ItemID:          uuid.New(),
			CountedQuantity: qty("-2"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
		countRepo.AssertNotCalled(t, "FindByIDForOrg", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCountService_Complete(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("stamps last counted on every item and never adjusts stock", func(t *testing.T) {
		countRepo := new(MockCountRepository)
		itemRepo := new(MockItemRepository)
		service := newCountServiceForTest(countRepo, itemRepo)

		item := newStockedItem(t, orgID, "100", "0")
		count := newInProgressCount(t, orgID, item)
		require.NoError(t, count.RecordItemCount(item.ID, qty("95"), nil, ""))

		countRepo.On("FindByIDForOrg", mock.Anything, orgID, count.ID).Return(count, nil).Once()
		itemRepo.On("FindByIDForUpdate", mock.Anything, orgID, item.ID).Return(item, nil).Once()
		itemRepo.On("Save", mock.Anything, item).Return(nil).Once()
		countRepo.On("Save", mock.Anything, count).Return(nil).Once()

		resp, err := service.Complete(ctx, orgID, count.ID, nil)
		require.NoError(t, err)

		assert.Equal(t, "completed", resp.Status)
		assert.True(t, resp.VarianceCost.Equal(count.TotalVarianceCost()))
		require.NotNil(t, item.LastCountedAt)
		// Variance stays advisory
		assert.True(t, item.QuantityOnHand.Equal(qty("100")))
	})

	t.Run("uncounted lines block completion", func(t *testing.T) {
		countRepo := new(MockCountRepository)
		itemRepo := new(MockItemRepository)
		service := newCountServiceForTest(countRepo, itemRepo)

		item := newStockedItem(t, orgID, "100", "0")
		count := newInProgressCount(t, orgID, item)

		countRepo.On("FindByIDForOrg", mock.Anything, orgID, count.ID).Return(count, nil).Once()

		_, err := service.Complete(ctx, orgID, count.ID, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Nil(t, item.LastCountedAt)
		countRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCountService_Cancel(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	countRepo := new(MockCountRepository)
	service := newCountServiceForTest(countRepo, new(MockItemRepository))

	count, err := inventory.NewInventoryCount(orgID, "CNT-20260831-0003", inventory.CountTypeFull)
	require.NoError(t, err)

	countRepo.On("FindByIDForOrg", mock.Anything, orgID, count.ID).Return(count, nil).Once()
	countRepo.On("Save", mock.Anything, count).Return(nil).Once()

	resp, err := service.Cancel(ctx, orgID, count.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestCountService_List(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	countRepo := new(MockCountRepository)
	service := newCountServiceForTest(countRepo, new(MockItemRepository))

	count, err := inventory.NewInventoryCount(orgID, "CNT-20260831-0004", inventory.CountTypeCycle)
	require.NoError(t, err)

	var capturedFilter shared.Filter
	countRepo.On("FindAllForOrg", mock.Anything, orgID, mock.AnythingOfType("shared.Filter")).Run(func(args mock.Arguments) {
		capturedFilter = args.Get(2).(shared.Filter)
	}).Return([]inventory.InventoryCount{*count}, nil).Once()
	countRepo.On("CountForOrg", mock.Anything, orgID, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil).Once()

	counts, total, err := service.List(ctx, orgID, shared.Filter{})
	require.NoError(t, err)

	assert.Len(t, counts, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "created_at", capturedFilter.OrderBy)
	assert.Equal(t, 20, capturedFilter.PageSize)
	// Summary listings omit lines
	assert.Empty(t, counts[0].Items)
}
