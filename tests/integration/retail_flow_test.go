package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/retailcore/backend/internal/application/inventory"
	procurementapp "github.com/retailcore/backend/internal/application/procurement"
	salesapp "github.com/retailcore/backend/internal/application/sales"
	transferapp "github.com/retailcore/backend/internal/application/transfer"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
)

// TestRetailFlow_Integration drives the full stock lifecycle against a real
// database: purchase into one branch, transfer to another, sell there and
// cancel the sale.
func TestRetailFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(testDB.DB)
	branchRepo := persistence.NewGormBranchRepository(testDB.DB)
	supplierRepo := persistence.NewGormSupplierRepository(testDB.DB)
	recordRepo := persistence.NewGormInventoryRecordRepository(testDB.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(testDB.DB)
	transferRepo := persistence.NewGormStockTransferRepository(testDB.DB)
	saleRepo := persistence.NewGormSaleRepository(testDB.DB)

	procurementScope := persistence.NewGormProcurementTransactionScope(testDB.DB)
	transferScope := persistence.NewGormTransferTransactionScope(testDB.DB)
	salesScope := persistence.NewGormSalesTransactionScope(testDB.DB)

	orderService := procurementapp.NewPurchaseOrderService(
		orderRepo, productRepo, supplierRepo, branchRepo,
		procurementScope, decimal.NewFromInt(1000), 3,
	)
	transferService := transferapp.NewTransferService(
		transferRepo, productRepo, branchRepo, recordRepo, transferScope, 3,
	)
	saleService := salesapp.NewSaleService(
		saleRepo, productRepo, branchRepo, salesScope,
		decimal.NewFromFloat(0.075), 3,
	)

	// Seed two branches, a supplier and a product
	warehouse, err := partner.NewBranch("WH01", "Central Warehouse", "1 Depot Rd")
	require.NoError(t, err)
	require.NoError(t, branchRepo.Save(ctx, warehouse))

	store, err := partner.NewBranch("ST01", "Main Street Store", "5 Main St")
	require.NoError(t, err)
	require.NoError(t, branchRepo.Save(ctx, store))

	supplier, err := partner.NewSupplier("ACME", "Acme Wholesale")
	require.NoError(t, err)
	require.NoError(t, supplierRepo.Save(ctx, supplier))

	product, err := catalog.NewProduct("WIDGET-1", "Widget", decimal.NewFromInt(20), decimal.NewFromInt(12))
	require.NoError(t, err)
	require.NoError(t, productRepo.Save(ctx, product))

	admin := shared.NewActor(uuid.New(), warehouse.ID, identity.RoleCodeSystemAdministrator, identity.AllCapabilities)

	stockAt := func(branchID uuid.UUID) int64 {
		record, err := recordRepo.FindByBranchAndProduct(ctx, branchID, product.ID)
		if err != nil {
			return 0
		}
		return record.Quantity
	}

	var orderID uuid.UUID

	t.Run("purchase order lifecycle", func(t *testing.T) {
		order, err := orderService.Create(ctx, admin, procurementapp.CreateOrderRequest{
			SupplierID: supplier.ID,
			BranchID:   warehouse.ID,
			Items: []procurementapp.OrderItemRequest{
				{ProductID: product.ID, Quantity: 100, UnitCost: decimal.NewFromInt(12)},
			},
		})
		require.NoError(t, err)
		orderID = order.ID

		// 100 * 12 exceeds the auto-approve threshold
		assert.Equal(t, "PENDING_APPROVAL", order.Status)
		assert.True(t, order.TotalCost.Equal(decimal.NewFromInt(1200)))

		order, err = orderService.Approve(ctx, admin, orderID)
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", order.Status)

		order, err = orderService.Send(ctx, admin, orderID)
		require.NoError(t, err)
		assert.Equal(t, "SENT", order.Status)

		order, err = orderService.Receive(ctx, admin, orderID, procurementapp.ReceiveOrderRequest{
			Lines: []procurementapp.ReceiveLineRequest{
				{ProductID: product.ID, Quantity: 100},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "RECEIVED", order.Status)
		assert.Equal(t, int64(100), stockAt(warehouse.ID))
	})

	t.Run("small orders are auto-approved", func(t *testing.T) {
		order, err := orderService.Create(ctx, admin, procurementapp.CreateOrderRequest{
			SupplierID: supplier.ID,
			BranchID:   warehouse.ID,
			Items: []procurementapp.OrderItemRequest{
				{ProductID: product.ID, Quantity: 10, UnitCost: decimal.NewFromInt(12)},
			},
		})
		require.NoError(t, err)

		// Below the threshold the order goes straight out with the
		// creator recorded as approver
		assert.Equal(t, "SENT", order.Status)
		require.NotNil(t, order.ApprovedBy)
		assert.Equal(t, admin.UserID, *order.ApprovedBy)
	})

	t.Run("transfer moves stock between branches", func(t *testing.T) {
		transfer, err := transferService.Request(ctx, admin, transferapp.RequestTransferRequest{
			FromBranchID: warehouse.ID,
			ToBranchID:   store.ID,
			Items: []transferapp.TransferItemRequest{
				{ProductID: product.ID, Quantity: 40},
			},
			Reason: "Initial store stocking",
		})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", transfer.Status)

		transfer, err = transferService.Approve(ctx, admin, transfer.ID, transferapp.ApproveTransferRequest{})
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", transfer.Status)

		transfer, err = transferService.Ship(ctx, admin, transfer.ID, transferapp.ShipTransferRequest{})
		require.NoError(t, err)
		assert.Equal(t, "IN_TRANSIT", transfer.Status)
		assert.Equal(t, int64(60), stockAt(warehouse.ID), "ship deducts the source branch")

		transfer, err = transferService.Receive(ctx, admin, transfer.ID, transferapp.ReceiveTransferRequest{})
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", transfer.Status)
		assert.Equal(t, int64(40), stockAt(store.ID), "receive credits the destination branch")
	})

	t.Run("checkout deducts stock and computes totals", func(t *testing.T) {
		sale, err := saleService.Checkout(ctx, admin, salesapp.CheckoutRequest{
			BranchID: store.ID,
			Items: []salesapp.CheckoutItemRequest{
				{ProductID: product.ID, Quantity: 5},
			},
			AmountPaid:    decimal.NewFromInt(120),
			PaymentMethod: "CASH",
			TillNumber:    "T1",
		})
		require.NoError(t, err)

		assert.Equal(t, "COMPLETED", sale.Status)
		assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(100)), "5 x 20")
		assert.True(t, sale.Tax.Equal(decimal.NewFromFloat(7.5)))
		assert.True(t, sale.TotalAmount.Equal(decimal.NewFromFloat(107.5)))
		assert.True(t, sale.ChangeGiven.Equal(decimal.NewFromFloat(12.5)))
		assert.Equal(t, int64(35), stockAt(store.ID))

		t.Run("cancellation restores stock", func(t *testing.T) {
			cancelled, err := saleService.Cancel(ctx, admin, sale.ID, "customer returned the goods")
			require.NoError(t, err)
			assert.Equal(t, "CANCELLED", cancelled.Status)
			assert.Equal(t, int64(40), stockAt(store.ID))
		})
	})

	t.Run("checkout fails on insufficient stock", func(t *testing.T) {
		_, err := saleService.Checkout(ctx, admin, salesapp.CheckoutRequest{
			BranchID: store.ID,
			Items: []salesapp.CheckoutItemRequest{
				{ProductID: product.ID, Quantity: 10_000},
			},
			AmountPaid:    decimal.NewFromInt(1_000_000),
			PaymentMethod: "CASH",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("adjustment writes an audit trail", func(t *testing.T) {
		adjustmentRepo := persistence.NewGormAdjustmentRepository(testDB.DB)
		inventoryScope := persistence.NewGormInventoryTransactionScope(testDB.DB)
		adjustmentService := inventoryapp.NewAdjustmentService(inventoryScope, adjustmentRepo, 3)

		result, err := adjustmentService.Adjust(ctx, admin, inventoryapp.AdjustRequest{
			BranchID:  store.ID,
			ProductID: product.ID,
			Direction: "DECREASE",
			Quantity:  2,
			Reason:    "damaged",
			Note:      "dropped pallet",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(38), result.QuantityAfter)
		assert.Equal(t, int64(38), stockAt(store.ID))
	})
}
