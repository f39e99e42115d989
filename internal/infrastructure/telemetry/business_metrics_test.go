package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap/zaptest"

	"github.com/retailcore/backend/internal/infrastructure/telemetry"
)

type fakeStockProvider struct {
	units    map[string]int64
	lowStock map[string]int64
	err      error
}

func (f *fakeStockProvider) GetStockUnits(_ context.Context, branchID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.units[branchID], nil
}

func (f *fakeStockProvider) GetLowStockCount(_ context.Context, branchID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.lowStock[branchID], nil
}

type fakeBranchProvider struct {
	ids []string
	err error
}

func (f *fakeBranchProvider) GetActiveBranchIDs(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

func TestNewBusinessMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	logger := zaptest.NewLogger(t)

	bm, err := telemetry.NewBusinessMetrics(meter, nil, nil, logger)
	require.NoError(t, err)
	require.NotNil(t, bm)
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	logger := zaptest.NewLogger(t)

	bm, err := telemetry.NewBusinessMetrics(nil, nil, nil, logger)
	assert.Nil(t, bm)
	require.Error(t, err)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
	assert.Contains(t, err.Error(), "NewBusinessMetrics: meter cannot be nil")
}

func TestNewBusinessMetrics_NilLogger(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	bm, err := telemetry.NewBusinessMetrics(meter, nil, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, bm)
}

func TestBusinessMetrics_RecordOrderCreated(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(meter, nil, nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()

	assert.NotPanics(t, func() {
		bm.RecordOrderCreated(ctx, "branch-1", telemetry.OrderTypeSale)
		bm.RecordOrderCreated(ctx, "branch-1", telemetry.OrderTypePurchase)
		bm.RecordOrderCreated(ctx, "branch-2", telemetry.OrderTypeTransfer)
	})
}

func TestBusinessMetrics_RecordOrderAmount(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(meter, nil, nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()

	assert.NotPanics(t, func() {
		bm.RecordOrderAmount(ctx, "branch-1", telemetry.OrderTypeSale, 49.99)
		bm.RecordOrderAmount(ctx, "branch-1", telemetry.OrderTypeSale, 0)
	})
}

func TestBusinessMetrics_RecordPayment(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(meter, nil, nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()

	assert.NotPanics(t, func() {
		bm.RecordPayment(ctx, "branch-1", "CASH")
		bm.RecordPayment(ctx, "branch-1", "CARD")
	})
}

func TestBusinessMetrics_RecordLowStock(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(meter, nil, nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()

	assert.NotPanics(t, func() {
		bm.RecordLowStock(ctx, "branch-1", "product-1", 3, 10)
	})
}

func TestBusinessMetrics_PeriodicCollection_NoProviders(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(meter, nil, nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	// Without providers the collection loop never starts and Stop must
	// not block.
	assert.NotPanics(t, func() {
		bm.StartPeriodicCollection(context.Background(), time.Minute)
		bm.Stop()
	})
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	stock := &fakeStockProvider{
		units:    map[string]int64{"branch-1": 120, "branch-2": 45},
		lowStock: map[string]int64{"branch-1": 2},
	}
	branches := &fakeBranchProvider{ids: []string{"branch-1", "branch-2"}}

	bm, err := telemetry.NewBusinessMetrics(meter, stock, branches, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	bm.Stop()
}

func TestBusinessMetrics_PeriodicCollection_ProviderError(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	stock := &fakeStockProvider{err: assert.AnError}
	branches := &fakeBranchProvider{ids: []string{"branch-1"}}

	bm, err := telemetry.NewBusinessMetrics(meter, stock, branches, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Errors are logged; the loop must survive them.
	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	bm.Stop()
}

func TestMetricsError(t *testing.T) {
	inner := assert.AnError
	err := &telemetry.MetricsError{Instrument: "retail_order_created_total", Err: inner}

	assert.Contains(t, err.Error(), "retail_order_created_total")
	assert.ErrorIs(t, err, inner)
}
