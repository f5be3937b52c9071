package inventory

import (
	"context"
	"errors"

	"github.com/fieldstock/backend/internal/domain/inventory"
	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertService generates and manages stock alerts. Alert creation is
// idempotent per item: an unresolved alert is refreshed in place, never
// duplicated. Resolved alerts leave the scan set until stock drops below
// threshold again, which opens a fresh alert.
type AlertService struct {
	alertRepo      inventory.AlertRepository
	itemRepo       inventory.ItemRepository
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewAlertService creates a new AlertService
func NewAlertService(alertRepo inventory.AlertRepository, itemRepo inventory.ItemRepository, logger *zap.Logger) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		itemRepo:  itemRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AlertService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AlertService) publishDomainEvents(ctx context.Context, alert *inventory.InventoryStockAlert) {
	if s.eventPublisher == nil {
		return
	}
	events := alert.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	alert.ClearDomainEvents()
}

// alertScanPageSize bounds one page of the reorder scan
const alertScanPageSize = 500

// CheckAlerts scans all non-deleted items at or below their reorder level and
// opens an alert for each that has none unresolved. Running the scan twice on
// an unchanged ledger creates nothing on the second pass. The scan pages
// through the ledger so organizations of any size are covered in full.
func (s *AlertService) CheckAlerts(ctx context.Context, orgID uuid.UUID) (*CheckAlertsResult, error) {
	filter := shared.Filter{
		Page:     1,
		PageSize: alertScanPageSize,
		OrderBy:  "item_code",
		OrderDir: "asc",
		Filters:  make(map[string]interface{}),
	}

	result := &CheckAlertsResult{}
	for {
		items, err := s.itemRepo.FindBelowReorder(ctx, orgID, filter)
		if err != nil {
			return nil, err
		}
		result.ItemsScanned += len(items)

		for i := range items {
			item := &items[i]
			created, err := s.UpsertAlertForItem(ctx, item)
			if err != nil {
				s.logger.Error("alert upsert failed",
					zap.String("org_id", orgID.String()),
					zap.String("item_id", item.ID.String()),
					zap.Error(err),
				)
				return nil, err
			}
			if created {
				result.AlertsCreated++
			} else {
				result.AlertsRefreshed++
			}
		}

		if len(items) < alertScanPageSize {
			break
		}
		filter.Page++
	}

	s.logger.Info("alert scan completed",
		zap.String("org_id", orgID.String()),
		zap.Int("items_scanned", result.ItemsScanned),
		zap.Int("alerts_created", result.AlertsCreated),
		zap.Int("alerts_refreshed", result.AlertsRefreshed),
	)
	return result, nil
}

// UpsertAlertForItem opens an alert for the item or refreshes the unresolved
// one already open. Returns true when a new alert was created.
func (s *AlertService) UpsertAlertForItem(ctx context.Context, item *inventory.InventoryItem) (bool, error) {
	existing, err := s.alertRepo.FindUnresolvedByItem(ctx, item.OrgID, item.ID)
	switch {
	case err == nil:
		existing.Refresh(item)
		return false, s.alertRepo.Save(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		alert, err := inventory.NewStockAlertForItem(item)
		if err != nil {
			return false, err
		}
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return false, err
		}
		s.publishDomainEvents(ctx, alert)
		return true, nil
	default:
		return false, err
	}
}

// Acknowledge marks an alert as seen by a user
func (s *AlertService) Acknowledge(ctx context.Context, orgID, alertID, userID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByIDForOrg(ctx, orgID, alertID)
	if err != nil {
		return nil, err
	}
	alert.Acknowledge(userID)
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}
	response := ToAlertResponse(alert)
	return &response, nil
}

// Resolve closes an alert, recording who resolved it and why
func (s *AlertService) Resolve(ctx context.Context, orgID, alertID uuid.UUID, resolvedBy *uuid.UUID, notes string) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByIDForOrg(ctx, orgID, alertID)
	if err != nil {
		return nil, err
	}
	alert.Resolve(resolvedBy, notes)
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, alert)
	response := ToAlertResponse(alert)
	return &response, nil
}

// GetByID retrieves an alert by ID
func (s *AlertService) GetByID(ctx context.Context, orgID, alertID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByIDForOrg(ctx, orgID, alertID)
	if err != nil {
		return nil, err
	}
	response := ToAlertResponse(alert)
	return &response, nil
}

// List retrieves alerts with filtering and pagination
func (s *AlertService) List(ctx context.Context, orgID uuid.UUID, filter AlertListFilter) ([]AlertResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := inventory.AlertFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Filters:  make(map[string]interface{}),
		},
		ItemID:       filter.ItemID,
		Acknowledged: filter.Acknowledged,
	}
	if filter.AlertType != "" {
		alertType := inventory.AlertType(filter.AlertType)
		if !alertType.IsValid() {
			return nil, shared.NewValidationError("Invalid alert type filter")
		}
		domainFilter.AlertType = &alertType
	}
	if filter.Severity != "" {
		severity := inventory.AlertSeverity(filter.Severity)
		domainFilter.Severity = &severity
	}

	if filter.Resolved != nil && !*filter.Resolved {
		alerts, err := s.alertRepo.FindActiveForOrg(ctx, orgID, domainFilter)
		if err != nil {
			return nil, err
		}
		return ToAlertResponses(alerts), nil
	}
	if filter.Resolved != nil {
		domainFilter.Filters["resolved"] = true
	}

	alerts, err := s.alertRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToAlertResponses(alerts), nil
}
