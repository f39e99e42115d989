package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockInventoryRecordRepository creates a GormInventoryRecordRepository with a mocked SQL connection
func newMockInventoryRecordRepository(t *testing.T) (*GormInventoryRecordRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormInventoryRecordRepository(gormDB), mock, mockDB
}

func newTestRecord() *inventory.InventoryRecord {
	record, err := inventory.NewInventoryRecord(uuid.New(), uuid.New())
	if err != nil {
		panic(err)
	}
	return record
}

func TestGormInventoryRecordRepository_FindByID(t *testing.T) {
	t.Run("finds existing record", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		branchID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "branch_id", "product_id", "quantity", "reorder_point", "bin_location", "version",
		}).AddRow(
			recordID, branchID, productID, int64(40), int64(10), "A3-07", 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_records" WHERE id = \$1`).
			WithArgs(recordID, 1).
			WillReturnRows(rows)

		record, err := repo.FindByID(context.Background(), recordID)

		assert.NoError(t, err)
		assert.NotNil(t, record)
		assert.Equal(t, recordID, record.ID)
		assert.Equal(t, branchID, record.BranchID)
		assert.Equal(t, productID, record.ProductID)
		assert.Equal(t, int64(40), record.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing record", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "inventory_records" WHERE id = \$1`).
			WithArgs(recordID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		record, err := repo.FindByID(context.Background(), recordID)

		assert.Nil(t, record)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryRecordRepository_FindByBranchAndProduct(t *testing.T) {
	t.Run("finds record by branch and product", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRecordRepository(t)
		defer mockDB.Close()

		recordID := uuid.New()
		branchID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "branch_id", "product_id", "quantity", "reorder_point", "version",
		}).AddRow(recordID, branchID, productID, int64(5), int64(2), 3)

		mock.ExpectQuery(`SELECT \* FROM "inventory_records" WHERE branch_id = \$1 AND product_id = \$2`).
			WithArgs(branchID, productID, 1).
			WillReturnRows(rows)

		record, err := repo.FindByBranchAndProduct(context.Background(), branchID, productID)

		assert.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 3, record.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryRecordRepository_SaveWithLock(t *testing.T) {
	t.Run("update succeeds when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRecordRepository(t)
		defer mockDB.Close()

		record := newTestRecord()
		record.Quantity = 55
		record.IncrementVersion()

		mock.ExpectExec(`UPDATE "inventory_records" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), record)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRecordRepository(t)
		defer mockDB.Close()

		record := newTestRecord()
		record.IncrementVersion()

		mock.ExpectExec(`UPDATE "inventory_records" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), record)

		assert.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryRecordRepository_FindAll_Ordering(t *testing.T) {
	t.Run("whitelisted sort field is applied", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRecordRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "inventory_records" ORDER BY quantity ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindAll(context.Background(), shared.Filter{OrderBy: "quantity", OrderDir: "asc"})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hostile sort field never reaches the query", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRecordRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "inventory_records" ORDER BY updated_at DESC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindAll(context.Background(), shared.Filter{
			OrderBy: "quantity; DROP TABLE inventory_records; --",
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryRecordRepository_SumQuantityByProduct(t *testing.T) {
	t.Run("sums quantities across branches", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRecordRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM "inventory_records"`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(120)))

		total, err := repo.SumQuantityByProduct(context.Background(), productID)

		assert.NoError(t, err)
		assert.Equal(t, int64(120), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
