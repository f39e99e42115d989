package inventory

import (
	"context"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockMetrics records low-stock observations for dashboards
type LowStockMetrics interface {
	// RecordLowStock increments the low-stock counter for a branch
	RecordLowStock(ctx context.Context, branchID, productID string, quantity, reorderPoint int64)
}

// LowStockHandler reacts to StockBelowReorderPoint events: it logs the
// condition and bumps the low-stock metric so operators can restock in time.
type LowStockHandler struct {
	logger  *zap.Logger
	metrics LowStockMetrics
}

// NewLowStockHandler creates a new handler for low-stock events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		logger: logger,
	}
}

// WithMetrics sets the metrics recorder
func (h *LowStockHandler) WithMetrics(metrics LowStockMetrics) *LowStockHandler {
	h.metrics = metrics
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowReorderPoint}
}

// Handle processes a StockBelowReorderPoint event
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStock, ok := event.(*inventory.StockBelowReorderPointEvent)
	if !ok {
		h.logger.Warn("unexpected event type for low stock handler",
			zap.String("event_type", event.EventType()))
		return nil
	}

	h.logger.Warn("stock at or below reorder point",
		zap.String("branch_id", lowStock.BranchID().String()),
		zap.String("product_id", lowStock.ProductID.String()),
		zap.Int64("quantity", lowStock.Quantity),
		zap.Int64("reorder_point", lowStock.ReorderPoint))

	if h.metrics != nil {
		h.metrics.RecordLowStock(ctx,
			lowStock.BranchID().String(),
			lowStock.ProductID.String(),
			lowStock.Quantity,
			lowStock.ReorderPoint)
	}

	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
