package partner

import (
	"context"
	"testing"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSupplier(code string) *partner.Supplier {
	supplier, err := partner.NewSupplier(code, "Supplier "+code)
	if err != nil {
		panic(err)
	}
	supplier.ClearDomainEvents()
	return supplier
}

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()
	actor := partnerActor(identity.CapabilitySupplierManage)

	t.Run("creates an active supplier with contact details", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, 3)
		repo.On("ExistsByCode", ctx, "ACME").Return(false, nil)

		var saved *partner.Supplier
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*partner.Supplier)
			}).
			Return(nil)

		resp, err := service.Create(ctx, actor, CreateSupplierRequest{
			Code:        "acme",
			Name:        "Acme Wholesale",
			ContactName: "Pat Lee",
			Phone:       "020 7946 0000",
			Email:       "orders@acme.example",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)

		assert.Equal(t, "ACME", resp.Code)
		assert.Equal(t, "Pat Lee", resp.ContactName)
		assert.True(t, resp.Active)
	})

	t.Run("rejects a duplicate code", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, 3)
		repo.On("ExistsByCode", ctx, "ACME").Return(true, nil)

		_, err := service.Create(ctx, actor, CreateSupplierRequest{Code: "ACME", Name: "Acme Wholesale"})
		assert.Equal(t, "ALREADY_EXISTS", domainErrorCode(t, err))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires the manage capability", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, 3)

		_, err := service.Create(ctx, partnerActor(), CreateSupplierRequest{Code: "ACME", Name: "Acme Wholesale"})
		assert.Equal(t, "FORBIDDEN", domainErrorCode(t, err))
	})
}

func TestSupplierService_Update(t *testing.T) {
	ctx := context.Background()
	actor := partnerActor(identity.CapabilitySupplierManage)

	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo, 3)
	supplier := newTestSupplier("ACME")

	repo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	repo.On("SaveWithLock", ctx, supplier).Return(nil)

	resp, err := service.Update(ctx, actor, supplier.ID, UpdateSupplierRequest{
		Name:        "Acme Wholesale Ltd",
		ContactName: "Sam Roy",
		Phone:       "020 7946 0001",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Wholesale Ltd", resp.Name)
	assert.Equal(t, "Sam Roy", resp.ContactName)
	assert.Equal(t, "ACME", resp.Code)
}

func TestSupplierService_ActivationLifecycle(t *testing.T) {
	ctx := context.Background()
	actor := partnerActor(identity.CapabilitySupplierManage)

	t.Run("deactivates an active supplier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, 3)
		supplier := newTestSupplier("ACME")

		repo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		repo.On("SaveWithLock", ctx, supplier).Return(nil)

		resp, err := service.Deactivate(ctx, actor, supplier.ID)
		require.NoError(t, err)
		assert.False(t, resp.Active)
	})

	t.Run("rejects deactivating twice", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, 3)
		supplier := newTestSupplier("ACME")
		require.NoError(t, supplier.Deactivate())
		supplier.ClearDomainEvents()

		repo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)

		_, err := service.Deactivate(ctx, actor, supplier.ID)
		assert.Equal(t, "VALIDATION_ERROR", domainErrorCode(t, err))
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("reactivates an inactive supplier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, 3)
		supplier := newTestSupplier("ACME")
		require.NoError(t, supplier.Deactivate())
		supplier.ClearDomainEvents()

		repo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		repo.On("SaveWithLock", ctx, supplier).Return(nil)

		resp, err := service.Activate(ctx, actor, supplier.ID)
		require.NoError(t, err)
		assert.True(t, resp.Active)
	})
}

func TestSupplierService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("applies search and pagination", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, 3)

		repo.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Search == "acme" && filter.Page == 2 && filter.PageSize == 10
		})).Return([]partner.Supplier{*newTestSupplier("ACME")}, nil)
		repo.On("Count", ctx, mock.Anything).Return(int64(11), nil)

		responses, total, err := service.List(ctx, SupplierListFilter{Page: 2, PageSize: 10, Search: "acme"})
		require.NoError(t, err)

		assert.Len(t, responses, 1)
		assert.Equal(t, int64(11), total)
	})

	t.Run("lists active suppliers through the dedicated finder", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		service := NewSupplierService(repo, 3)
		repo.On("FindActive", ctx, mock.Anything).Return([]partner.Supplier{*newTestSupplier("ACME")}, nil)

		responses, err := service.ListActive(ctx, SupplierListFilter{})
		require.NoError(t, err)
		assert.Len(t, responses, 1)
	})
}
