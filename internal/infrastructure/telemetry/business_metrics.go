package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	appinventory "github.com/retailcore/backend/internal/application/inventory"
)

var _ appinventory.LowStockMetrics = (*BusinessMetrics)(nil)

// ErrMeterNil is returned when a nil meter is passed to a metrics constructor.
var ErrMeterNil = fmt.Errorf("meter cannot be nil")

// MetricsError wraps metric instrument creation failures with the
// instrument name for easier diagnosis.
type MetricsError struct {
	Instrument string
	Err        error
}

func (e *MetricsError) Error() string {
	return fmt.Sprintf("failed to create instrument %s: %v", e.Instrument, e.Err)
}

func (e *MetricsError) Unwrap() error {
	return e.Err
}

// BranchStockProvider supplies per-branch stock figures for periodic
// gauge collection.
type BranchStockProvider interface {
	// GetStockUnits returns the total on-hand units across all products
	// in the branch.
	GetStockUnits(ctx context.Context, branchID string) (int64, error)

	// GetLowStockCount returns the number of products in the branch whose
	// quantity is at or below a configured reorder point.
	GetLowStockCount(ctx context.Context, branchID string) (int64, error)
}

// BranchProvider lists the branches to collect stock gauges for.
type BranchProvider interface {
	GetActiveBranchIDs(ctx context.Context) ([]string, error)
}

// BusinessMetrics records domain-level metrics: order throughput, sale
// amounts, payment counts, and low stock alerts, together with periodic
// per-branch stock gauges.
type BusinessMetrics struct {
	orderCreated  *Counter
	orderAmount   *Histogram
	paymentTotal  *Counter
	lowStockAlert *Counter

	stockUnits    *Gauge
	lowStockCount *Gauge

	stockProvider  BranchStockProvider
	branchProvider BranchProvider
	logger         *zap.Logger

	collectOnce sync.Once
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewBusinessMetrics creates all business metric instruments against the
// given meter. Providers may be nil; periodic collection is then a no-op.
func NewBusinessMetrics(meter metric.Meter, stockProvider BranchStockProvider, branchProvider BranchProvider, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, fmt.Errorf("NewBusinessMetrics: %w", ErrMeterNil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		stockProvider:  stockProvider,
		branchProvider: branchProvider,
		logger:         logger,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}

	var err error

	bm.orderCreated, err = NewCounter(meter,
		"retail_order_created_total",
		"Total number of orders created, by branch and order type",
		"{order}")
	if err != nil {
		return nil, &MetricsError{Instrument: "retail_order_created_total", Err: err}
	}

	bm.orderAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "retail_order_amount",
		Description: "Distribution of order amounts, by branch and order type",
		Unit:        "1",
		Boundaries:  []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	})
	if err != nil {
		return nil, &MetricsError{Instrument: "retail_order_amount", Err: err}
	}

	bm.paymentTotal, err = NewCounter(meter,
		"retail_payment_total",
		"Total number of payments processed, by branch and payment method",
		"{payment}")
	if err != nil {
		return nil, &MetricsError{Instrument: "retail_payment_total", Err: err}
	}

	bm.lowStockAlert, err = NewCounter(meter,
		"retail_low_stock_alert_total",
		"Total number of low stock alerts raised, by branch",
		"{alert}")
	if err != nil {
		return nil, &MetricsError{Instrument: "retail_low_stock_alert_total", Err: err}
	}

	bm.stockUnits, err = NewGauge(meter,
		"retail_stock_units",
		"Total on-hand stock units in a branch",
		"{unit}")
	if err != nil {
		return nil, &MetricsError{Instrument: "retail_stock_units", Err: err}
	}

	bm.lowStockCount, err = NewGauge(meter,
		"retail_low_stock_count",
		"Number of products at or below their reorder point in a branch",
		"{product}")
	if err != nil {
		return nil, &MetricsError{Instrument: "retail_low_stock_count", Err: err}
	}

	return bm, nil
}

// Order types for RecordOrderCreated.
const (
	OrderTypeSale     = "sale"
	OrderTypePurchase = "purchase"
	OrderTypeTransfer = "transfer"
)

// RecordOrderCreated increments the order counter for the branch.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, branchID, orderType string) {
	bm.orderCreated.Inc(ctx,
		AttrBranchID.String(branchID),
		AttrOrderType.String(orderType),
	)
}

// RecordOrderAmount records the monetary amount of an order.
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, branchID, orderType string, amount float64) {
	bm.orderAmount.Record(ctx, amount,
		AttrBranchID.String(branchID),
		AttrOrderType.String(orderType),
	)
}

// RecordPayment increments the payment counter for the branch.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, branchID, paymentMethod string) {
	bm.paymentTotal.Inc(ctx,
		AttrBranchID.String(branchID),
		AttrPaymentMethod.String(paymentMethod),
	)
}

// RecordLowStock counts a low stock alert for the branch and product.
// Quantity and reorder point are logged rather than attached as attributes
// to keep metric cardinality bounded.
func (bm *BusinessMetrics) RecordLowStock(ctx context.Context, branchID, productID string, quantity, reorderPoint int64) {
	bm.lowStockAlert.Inc(ctx,
		AttrBranchID.String(branchID),
		AttrProductID.String(productID),
	)
	bm.logger.Debug("Low stock alert recorded",
		zap.String("branch_id", branchID),
		zap.String("product_id", productID),
		zap.Int64("quantity", quantity),
		zap.Int64("reorder_point", reorderPoint),
	)
}

// StartPeriodicCollection launches a background goroutine that refreshes the
// per-branch stock gauges on the given interval. It is safe to call at most
// once; subsequent calls are ignored.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if bm.stockProvider == nil || bm.branchProvider == nil {
		bm.logger.Info("Stock gauge collection disabled: no providers configured")
		return
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	bm.collectOnce.Do(func() {
		go func() {
			defer close(bm.doneCh)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			bm.collectStockGauges(ctx)

			for {
				select {
				case <-ctx.Done():
					return
				case <-bm.stopCh:
					return
				case <-ticker.C:
					bm.collectStockGauges(ctx)
				}
			}
		}()
		bm.logger.Info("Stock gauge collection started", zap.Duration("interval", interval))
	})
}

// Stop terminates the periodic collection goroutine and waits for it to exit.
func (bm *BusinessMetrics) Stop() {
	select {
	case <-bm.stopCh:
		// already stopped
	default:
		close(bm.stopCh)
	}
	select {
	case <-bm.doneCh:
	case <-time.After(5 * time.Second):
		bm.logger.Warn("Timed out waiting for stock gauge collection to stop")
	}
}

func (bm *BusinessMetrics) collectStockGauges(ctx context.Context) {
	collectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	branchIDs, err := bm.branchProvider.GetActiveBranchIDs(collectCtx)
	if err != nil {
		bm.logger.Error("Failed to list branches for stock gauge collection", zap.Error(err))
		return
	}

	for _, branchID := range branchIDs {
		attrs := []attribute.KeyValue{AttrBranchID.String(branchID)}

		units, err := bm.stockProvider.GetStockUnits(collectCtx, branchID)
		if err != nil {
			bm.logger.Error("Failed to collect stock units",
				zap.String("branch_id", branchID), zap.Error(err))
		} else {
			bm.stockUnits.Record(collectCtx, units, attrs...)
		}

		lowCount, err := bm.stockProvider.GetLowStockCount(collectCtx, branchID)
		if err != nil {
			bm.logger.Error("Failed to collect low stock count",
				zap.String("branch_id", branchID), zap.Error(err))
		} else {
			bm.lowStockCount.Record(collectCtx, lowCount, attrs...)
		}
	}
}
