package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

// TestProductRepository_Integration tests the ProductRepository against a real PostgreSQL database
func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormProductRepository(testDB.DB)
	ctx := context.Background()

	t.Run("Save and FindByID", func(t *testing.T) {
		product, err := catalog.NewProduct("PROD-001", "Test Product", decimal.NewFromInt(100), decimal.NewFromInt(60))
		require.NoError(t, err)

		err = repo.Save(ctx, product)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
		assert.Equal(t, product.SKU, found.SKU)
		assert.Equal(t, product.Name, found.Name)
		assert.True(t, product.Price.Equal(found.Price))
	})

	t.Run("FindByID not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindBySKU is case-insensitive", func(t *testing.T) {
		product, err := catalog.NewProduct("prod-002", "SKU Product", decimal.NewFromInt(50), decimal.NewFromInt(30))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))

		// SKUs are stored uppercase, lookups normalize before querying
		found, err := repo.FindBySKU(ctx, "prod-002")
		require.NoError(t, err)
		assert.Equal(t, "PROD-002", found.SKU)
	})

	t.Run("FindByBarcode", func(t *testing.T) {
		product, err := catalog.NewProduct("PROD-003", "Barcode Product", decimal.NewFromInt(25), decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, product.SetBarcode("4006381333931"))
		require.NoError(t, repo.Save(ctx, product))

		found, err := repo.FindByBarcode(ctx, "4006381333931")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("ExistsBySKU", func(t *testing.T) {
		exists, err := repo.ExistsBySKU(ctx, "PROD-001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySKU(ctx, "NO-SUCH-SKU")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("SaveWithLock detects concurrent modification", func(t *testing.T) {
		product, err := catalog.NewProduct("PROD-004", "Locked Product", decimal.NewFromInt(10), decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))

		// First update succeeds
		require.NoError(t, product.Update("Renamed Product", "updated"))
		require.NoError(t, repo.SaveWithLock(ctx, product))

		// A copy whose version ran ahead of the stored row is rejected
		stale, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		stale.Version += 2
		err = repo.SaveWithLock(ctx, stale)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("FindActive excludes deactivated products", func(t *testing.T) {
		product, err := catalog.NewProduct("PROD-005", "Inactive Product", decimal.NewFromInt(10), decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, product.Deactivate())
		require.NoError(t, repo.Save(ctx, product))

		active, err := repo.FindActive(ctx, shared.Filter{})
		require.NoError(t, err)
		for _, p := range active {
			assert.NotEqual(t, product.ID, p.ID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		product, err := catalog.NewProduct("PROD-006", "Doomed Product", decimal.NewFromInt(10), decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))

		require.NoError(t, repo.Delete(ctx, product.ID))

		_, err = repo.FindByID(ctx, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, product.ID), shared.ErrNotFound)
	})
}
