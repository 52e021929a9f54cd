package alert

import (
	"context"
	"fmt"
	"log/slog"

	alertDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/alert"
	"github.com/frahmantamala/pos-platform/internal/core/events"
)

type Recorder interface {
	Record(ctx context.Context, a *alertDatamodel.Alert) error
}

// EventHandler turns domain events into alert rows. Failures are returned to
// the bus, which only logs them.
type EventHandler struct {
	recorder Recorder
	logger   *slog.Logger
}

func NewEventHandler(recorder Recorder, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		recorder: recorder,
		logger:   logger,
	}
}

func (h *EventHandler) HandleStockReduced(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.StockReducedEvent)
	if !ok {
		h.logger.Error("invalid event type for stock reduced handler", "event_type", event.EventType())
		return fmt.Errorf("expected StockReducedEvent, got %T", event)
	}

	severity := SeverityInfo
	if e.NewQuantity == 0 {
		severity = SeverityWarning
	}
	return h.record(ctx, event, &alertDatamodel.Alert{
		Type:     TypeStockReduced,
		Severity: severity,
		Title:    "Stock reduced",
		Message:  fmt.Sprintf("%s reduced stock of %s from %d to %d",
			e.EmployeeName, e.ProductName, e.OldQuantity, e.NewQuantity),
		ProductID:   &e.ProductID,
		WarehouseID: &e.WarehouseID,
		EmployeeID:  &e.EmployeeID,
	})
}

func (h *EventHandler) HandleLowStock(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LowStockEvent)
	if !ok {
		h.logger.Error("invalid event type for low stock handler", "event_type", event.EventType())
		return fmt.Errorf("expected LowStockEvent, got %T", event)
	}

	severity := SeverityWarning
	if e.Quantity == 0 {
		severity = SeverityCritical
	}
	return h.record(ctx, event, &alertDatamodel.Alert{
		Type:     TypeLowStock,
		Severity: severity,
		Title:    "Low stock",
		Message:  fmt.Sprintf("Product %d has %d left in warehouse %d (minimum %d)",
			e.ProductID, e.Quantity, e.WarehouseID, e.MinStockLevel),
		ProductID:   &e.ProductID,
		WarehouseID: &e.WarehouseID,
	})
}

func (h *EventHandler) HandleEmployeeCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.EmployeeCreatedEvent)
	if !ok {
		h.logger.Error("invalid event type for employee created handler", "event_type", event.EventType())
		return fmt.Errorf("expected EmployeeCreatedEvent, got %T", event)
	}

	return h.record(ctx, event, &alertDatamodel.Alert{
		Type:        TypeEmployeeCreated,
		Severity:    SeverityInfo,
		Title:       "New employee",
		Message:     fmt.Sprintf("%s created %s as %s", e.CreatedByName, e.FullName, e.RoleName),
		WarehouseID: e.WarehouseID,
		EmployeeID:  &e.EmployeeID,
	})
}

func (h *EventHandler) HandleProductDeleted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ProductDeletedEvent)
	if !ok {
		h.logger.Error("invalid event type for product deleted handler", "event_type", event.EventType())
		return fmt.Errorf("expected ProductDeletedEvent, got %T", event)
	}

	return h.record(ctx, event, &alertDatamodel.Alert{
		Type:       TypeProductDeleted,
		Severity:   SeverityWarning,
		Title:      "Product deleted",
		Message:    fmt.Sprintf("%s deleted product %s (%s)", e.DeletedByName, e.Name, e.SKU),
		EmployeeID: &e.DeletedByID,
	})
}

func (h *EventHandler) record(ctx context.Context, event events.Event, a *alertDatamodel.Alert) error {
	if err := h.recorder.Record(ctx, a); err != nil {
		return fmt.Errorf("record %s alert for event %s: %w", a.Type, event.EventID(), err)
	}
	h.logger.Info("alert recorded", "alert_id", a.ID, "type", a.Type, "event_id", event.EventID())
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeStockReduced, h.HandleStockReduced)
	eventBus.Subscribe(events.EventTypeLowStock, h.HandleLowStock)
	eventBus.Subscribe(events.EventTypeEmployeeCreated, h.HandleEmployeeCreated)
	eventBus.Subscribe(events.EventTypeProductDeleted, h.HandleProductDeleted)

	h.logger.Info("alert event handlers registered",
		"handlers", []string{
			events.EventTypeStockReduced,
			events.EventTypeLowStock,
			events.EventTypeEmployeeCreated,
			events.EventTypeProductDeleted,
		})
}
