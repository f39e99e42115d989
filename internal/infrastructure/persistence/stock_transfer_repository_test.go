package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockStockTransferRepository creates a GormStockTransferRepository with a mocked SQL connection
func newMockStockTransferRepository(t *testing.T) (*GormStockTransferRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockTransferRepository(gormDB), mock, mockDB
}

func newStoredTransfer(t *testing.T) *transfer.StockTransfer {
	t.Helper()
	st, err := transfer.NewStockTransfer("TRF-20260830-0001", uuid.New(), uuid.New(), uuid.New(),
		[]transfer.RequestLine{
			{ProductID: uuid.New(), ProductName: "Widget", ProductSKU: "SKU-001", Quantity: 20},
		}, "weekend restock", transfer.PriorityNormal, "")
	require.NoError(t, err)
	st.ClearDomainEvents()
	return st
}

func TestGormStockTransferRepository_CreateWithEvents(t *testing.T) {
	t.Run("inserts a brand-new transfer with its items", func(t *testing.T) {
		repo, mock, mockDB := newMockStockTransferRepository(t)
		defer mockDB.Close()

		st := newStoredTransfer(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "stock_transfers"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "stock_transfer_items"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE "stock_transfer_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO "stock_transfer_items"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateWithEvents(context.Background(), st, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockTransferRepository_SaveWithLockAndEvents(t *testing.T) {
	t.Run("update succeeds when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockStockTransferRepository(t)
		defer mockDB.Close()

		st := newStoredTransfer(t)
		require.NoError(t, st.Approve(uuid.New(), nil))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "stock_transfers" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "stock_transfer_items"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE "stock_transfer_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveWithLockAndEvents(context.Background(), st, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockStockTransferRepository(t)
		defer mockDB.Close()

		st := newStoredTransfer(t)
		require.NoError(t, st.Approve(uuid.New(), nil))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "stock_transfers" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLockAndEvents(context.Background(), st, nil)

		assert.ErrorIs(t, err, shared.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
