package inventory

import (
	"context"
	"fmt"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AlertUpserter opens or refreshes the stock alert for a single item
type AlertUpserter interface {
	UpsertAlertForItem(ctx context.Context, item *inventory.InventoryItem) (bool, error)
}

// LowStockHandler reacts to StockBelowReorder events by opening a stock alert
// immediately, without waiting for the next periodic scan. The periodic scan
// remains the safety net; this handler just shortens the detection window.
type LowStockHandler struct {
	logger   *zap.Logger
	itemRepo inventory.ItemRepository
	alerts   AlertUpserter
}

// NewLowStockHandler creates a new handler for stock-below-reorder events
func NewLowStockHandler(logger *zap.Logger, itemRepo inventory.ItemRepository, alerts AlertUpserter) *LowStockHandler {
	return &LowStockHandler{
		logger:   logger,
		itemRepo: itemRepo,
		alerts:   alerts,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowReorder}
}

// Handle processes a StockBelowReorderEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStockEvent, ok := event.(*inventory.StockBelowReorderEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockBelowReorder),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowReorder, event.EventType())
	}

	h.logger.Warn("stock below reorder level",
		zap.String("org_id", event.OrgID().String()),
		zap.String("item_id", lowStockEvent.ItemID.String()),
		zap.String("item_code", lowStockEvent.ItemCode),
		zap.String("quantity_on_hand", lowStockEvent.QuantityOnHand.String()),
		zap.String("reorder_level", lowStockEvent.ReorderLevel.String()),
	)

	item, err := h.itemRepo.FindByIDForOrg(ctx, event.OrgID(), lowStockEvent.ItemID)
	if err != nil {
		h.logger.Error("failed to load item for alert",
			zap.String("item_id", lowStockEvent.ItemID.String()),
			zap.Error(err),
		)
		return err
	}

	created, err := h.alerts.UpsertAlertForItem(ctx, item)
	if err != nil {
		h.logger.Error("failed to upsert stock alert",
			zap.String("item_id", item.ID.String()),
			zap.Error(err),
		)
		return err
	}
	if created {
		h.logger.Info("stock alert opened",
			zap.String("item_id", item.ID.String()),
			zap.String("item_code", item.ItemCode),
		)
	}
	return nil
}

// Ensure LowStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)
