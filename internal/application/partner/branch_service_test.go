package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func domainErrorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	return domainErr.Code
}

func partnerActor(caps ...string) shared.Actor {
	return shared.NewActor(uuid.New(), uuid.New(), "system_administrator", caps)
}

func newTestBranch(code string) *partner.Branch {
	branch, err := partner.NewBranch(code, "Branch "+code, "1 High Street")
	if err != nil {
		panic(err)
	}
	branch.ClearDomainEvents()
	return branch
}

func newTestUser() *identity.User {
	user, err := identity.NewUser("manager", "manager@example.com", "s3cret-pass", "Branch Manager", uuid.New(), uuid.New())
	if err != nil {
		panic(err)
	}
	user.ClearDomainEvents()
	return user
}

type branchServiceFixture struct {
	branchRepo *MockBranchRepository
	userRepo   *MockUserRepository
	service    *BranchService
}

func newBranchServiceFixture() *branchServiceFixture {
	f := &branchServiceFixture{
		branchRepo: new(MockBranchRepository),
		userRepo:   new(MockUserRepository),
	}
	f.service = NewBranchService(f.branchRepo, f.userRepo, 3)
	return f
}

func TestBranchService_Create(t *testing.T) {
	ctx := context.Background()
	actor := partnerActor(identity.CapabilityBranchManage)

	t.Run("creates an active branch with upper-cased code", func(t *testing.T) {
		f := newBranchServiceFixture()
		f.branchRepo.On("ExistsByCode", ctx, "NORTH1").Return(false, nil)
		f.branchRepo.On("ExistsByName", ctx, "North Store").Return(false, nil)

		var saved *partner.Branch
		f.branchRepo.On("Save", ctx, mock.AnythingOfType("*partner.Branch")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*partner.Branch)
			}).
			Return(nil)

		resp, err := f.service.Create(ctx, actor, CreateBranchRequest{
			Code:    "north1",
			Name:    "North Store",
			Address: "1 High Street",
			Zones:   []string{"floor", "backroom"},
		})
		require.NoError(t, err)
		require.NotNil(t, saved)

		assert.Equal(t, "NORTH1", resp.Code)
		assert.True(t, resp.Active)
		assert.Equal(t, []string{"floor", "backroom"}, resp.Zones)
	})

	t.Run("rejects a duplicate code", func(t *testing.T) {
		f := newBranchServiceFixture()
		f.branchRepo.On("ExistsByCode", ctx, "NORTH1").Return(true, nil)

		_, err := f.service.Create(ctx, actor, CreateBranchRequest{Code: "NORTH1", Name: "North Store"})
		assert.Equal(t, "ALREADY_EXISTS", domainErrorCode(t, err))
		f.branchRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		f := newBranchServiceFixture()
		f.branchRepo.On("ExistsByCode", ctx, "NORTH1").Return(false, nil)
		f.branchRepo.On("ExistsByName", ctx, "North Store").Return(true, nil)

		_, err := f.service.Create(ctx, actor, CreateBranchRequest{Code: "NORTH1", Name: "North Store"})
		assert.Equal(t, "ALREADY_EXISTS", domainErrorCode(t, err))
	})

	t.Run("rejects duplicate zone names", func(t *testing.T) {
		f := newBranchServiceFixture()
		f.branchRepo.On("ExistsByCode", ctx, "NORTH1").Return(false, nil)
		f.branchRepo.On("ExistsByName", ctx, "North Store").Return(false, nil)

		_, err := f.service.Create(ctx, actor, CreateBranchRequest{
			Code:  "NORTH1",
			Name:  "North Store",
			Zones: []string{"floor", "floor"},
		})
		assert.Equal(t, "VALIDATION_ERROR", domainErrorCode(t, err))
	})

	t.Run("requires the manage capability", func(t *testing.T) {
		f := newBranchServiceFixture()

		_, err := f.service.Create(ctx, partnerActor(), CreateBranchRequest{Code: "NORTH1", Name: "North Store"})
		assert.Equal(t, "FORBIDDEN", domainErrorCode(t, err))
	})
}

func TestBranchService_Update(t *testing.T) {
	ctx := context.Background()
	actor := partnerActor(identity.CapabilityBranchManage)

	t.Run("updates contact details and zones", func(t *testing.T) {
		f := newBranchServiceFixture()
		branch := newTestBranch("NORTH1")

		f.branchRepo.On("FindByID", ctx, branch.ID).Return(branch, nil)
		f.branchRepo.On("ExistsByName", ctx, "North Flagship").Return(false, nil)
		f.branchRepo.On("SaveWithLock", ctx, branch).Return(nil)

		resp, err := f.service.Update(ctx, actor, branch.ID, UpdateBranchRequest{
			Name:  "North Flagship",
			City:  "Leeds",
			Phone: "0113 000000",
			Zones: []string{"floor", "cold-store"},
		})
		require.NoError(t, err)

		assert.Equal(t, "North Flagship", resp.Name)
		assert.Equal(t, "Leeds", resp.City)
		assert.Equal(t, []string{"floor", "cold-store"}, resp.Zones)
	})

	t.Run("keeps the code immutable", func(t *testing.T) {
		f := newBranchServiceFixture()
		branch := newTestBranch("NORTH1")

		f.branchRepo.On("FindByID", ctx, branch.ID).Return(branch, nil)
		f.branchRepo.On("ExistsByName", ctx, "Renamed").Return(false, nil)
		f.branchRepo.On("SaveWithLock", ctx, branch).Return(nil)

		resp, err := f.service.Update(ctx, actor, branch.ID, UpdateBranchRequest{Name: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "NORTH1", resp.Code)
	})

	t.Run("rejects renaming to a taken name", func(t *testing.T) {
		f := newBranchServiceFixture()
		branch := newTestBranch("NORTH1")

		f.branchRepo.On("FindByID", ctx, branch.ID).Return(branch, nil)
		f.branchRepo.On("ExistsByName", ctx, "South Store").Return(true, nil)

		_, err := f.service.Update(ctx, actor, branch.ID, UpdateBranchRequest{Name: "South Store"})
		assert.Equal(t, "ALREADY_EXISTS", domainErrorCode(t, err))
		f.branchRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestBranchService_AssignManager(t *testing.T) {
	ctx := context.Background()
	actor := partnerActor(identity.CapabilityBranchManage)

	t.Run("assigns an active user as manager", func(t *testing.T) {
		f := newBranchServiceFixture()
		branch := newTestBranch("NORTH1")
		manager := newTestUser()

		f.userRepo.On("FindByID", ctx, manager.ID).Return(manager, nil)
		f.branchRepo.On("FindByID", ctx, branch.ID).Return(branch, nil)
		f.branchRepo.On("SaveWithLock", ctx, branch).Return(nil)

		resp, err := f.service.AssignManager(ctx, actor, branch.ID, manager.ID)
		require.NoError(t, err)

		require.NotNil(t, resp.ManagerID)
		assert.Equal(t, manager.ID, *resp.ManagerID)
	})

	t.Run("rejects an inactive manager", func(t *testing.T) {
		f := newBranchServiceFixture()
		branch := newTestBranch("NORTH1")
		manager := newTestUser()
		require.NoError(t, manager.Deactivate())

		f.userRepo.On("FindByID", ctx, manager.ID).Return(manager, nil)

		_, err := f.service.AssignManager(ctx, actor, branch.ID, manager.ID)
		assert.Equal(t, "VALIDATION_ERROR", domainErrorCode(t, err))
		f.branchRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown manager", func(t *testing.T) {
		f := newBranchServiceFixture()
		managerID := uuid.New()
		f.userRepo.On("FindByID", ctx, managerID).Return(nil, shared.ErrNotFound)

		_, err := f.service.AssignManager(ctx, actor, uuid.New(), managerID)
		assert.Equal(t, "NOT_FOUND", domainErrorCode(t, err))
	})
}

func TestBranchService_ActivationLifecycle(t *testing.T) {
	ctx := context.Background()
	actor := partnerActor(identity.CapabilityBranchManage)

	t.Run("deactivates and reactivates", func(t *testing.T) {
		f := newBranchServiceFixture()
		branch := newTestBranch("NORTH1")
		f.branchRepo.On("FindByID", ctx, branch.ID).Return(branch, nil)
		f.branchRepo.On("SaveWithLock", ctx, branch).Return(nil)

		resp, err := f.service.Deactivate(ctx, actor, branch.ID)
		require.NoError(t, err)
		assert.False(t, resp.Active)

		resp, err = f.service.Activate(ctx, actor, branch.ID)
		require.NoError(t, err)
		assert.True(t, resp.Active)
	})

	t.Run("rejects deactivating twice", func(t *testing.T) {
		f := newBranchServiceFixture()
		branch := newTestBranch("NORTH1")
		require.NoError(t, branch.Deactivate())
		branch.ClearDomainEvents()
		f.branchRepo.On("FindByID", ctx, branch.ID).Return(branch, nil)

		_, err := f.service.Deactivate(ctx, actor, branch.ID)
		assert.Equal(t, "VALIDATION_ERROR", domainErrorCode(t, err))
	})
}

func TestBranchService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the active filter", func(t *testing.T) {
		f := newBranchServiceFixture()
		active := true

		f.branchRepo.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["active"] == true
		})).Return([]partner.Branch{*newTestBranch("NORTH1")}, nil)
		f.branchRepo.On("Count", ctx, mock.Anything).Return(int64(1), nil)

		responses, total, err := f.service.List(ctx, BranchListFilter{Active: &active})
		require.NoError(t, err)

		assert.Len(t, responses, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("lists active branches through the dedicated finder", func(t *testing.T) {
		f := newBranchServiceFixture()
		f.branchRepo.On("FindActive", ctx, mock.Anything).
			Return([]partner.Branch{*newTestBranch("NORTH1"), *newTestBranch("SOUTH1")}, nil)

		responses, err := f.service.ListActive(ctx, BranchListFilter{})
		require.NoError(t, err)
		assert.Len(t, responses, 2)
	})
}
