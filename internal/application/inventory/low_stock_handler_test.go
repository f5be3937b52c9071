package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAlertUpserter struct {
	created bool
	err     error
	items   []*inventory.InventoryItem
}

func (s *stubAlertUpserter) UpsertAlertForItem(_ context.Context, item *inventory.InventoryItem) (bool, error) {
	s.items = append(s.items, item)
	return s.created, s.err
}

func TestLowStockHandler_EventTypes(t *testing.T) {
	handler := NewLowStockHandler(zap.NewNop(), new(MockItemRepository), &stubAlertUpserter{})
	assert.Equal(t, []string{inventory.EventTypeStockBelowReorder}, handler.EventTypes())
}

func TestLowStockHandler_Handle(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("opens an alert for the affected item", func(t *testing.T) {
		itemRepo := new(MockItemRepository)
		upserter := &stubAlertUpserter{created: true}
		handler := NewLowStockHandler(zap.NewNop(), itemRepo, upserter)

		item := lowStockItem(t, orgID, "WIRE-12", "3", "10")
		event := inventory.NewStockBelowReorderEvent(item)

		itemRepo.On("FindByIDForOrg", mock.Anything, orgID, item.ID).Return(item, nil).Once()

		require.NoError(t, handler.Handle(ctx, event))
		require.Len(t, upserter.items, 1)
		assert.Equal(t, item.ID, upserter.items[0].ID)
	})

	t.Run("propagates repository errors for redelivery", func(t *testing.T) {
		itemRepo := new(MockItemRepository)
		handler := NewLowStockHandler(zap.NewNop(), itemRepo, &stubAlertUpserter{})

		item := lowStockItem(t, orgID, "WIRE-12", "3", "10")
		event := inventory.NewStockBelowReorderEvent(item)

		itemRepo.On("FindByIDForOrg", mock.Anything, orgID, item.ID).Return(nil, errors.New("connection reset")).Once()

		err := handler.Handle(ctx, event)
		require.Error(t, err)
	})

	t.Run("propagates upsert errors", func(t *testing.T) {
		itemRepo := new(MockItemRepository)
		upserter := &stubAlertUpserter{err: errors.New("unique violation")}
		handler := NewLowStockHandler(zap.NewNop(), itemRepo, upserter)

		item := lowStockItem(t, orgID, "WIRE-12", "3", "10")
		event := inventory.NewStockBelowReorderEvent(item)

		itemRepo.On("FindByIDForOrg", mock.Anything, orgID, item.ID).Return(item, nil).Once()

		err := handler.Handle(ctx, event)
		require.Error(t, err)
	})

	t.Run("rejects foreign event types", func(t *testing.T) {
		handler := NewLowStockHandler(zap.NewNop(), new(MockItemRepository), &stubAlertUpserter{})

		item := lowStockItem(t, orgID, "WIRE-12", "3", "10")
		event := inventory.NewStockReceivedEvent(item, qty("5"))

		err := handler.Handle(ctx, event)
		require.Error(t, err)
	})
}
