package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
)

type roleFixture struct {
	roles   *MockRoleRepository
	users   *MockUserRepository
	service *RoleService
}

func newRoleFixture() *roleFixture {
	f := &roleFixture{
		roles: new(MockRoleRepository),
		users: new(MockUserRepository),
	}
	f.service = NewRoleService(f.roles, f.users, zap.NewNop())
	return f
}

func TestRoleService_Create(t *testing.T) {
	ctx := context.Background()
	actor := adminActor(identity.CapabilityRoleManage)

	t.Run("creates a custom role with a lowercased code", func(t *testing.T) {
		f := newRoleFixture()
		f.roles.On("ExistsByCode", ctx, "night_auditor").Return(false, nil)
		f.roles.On("Save", ctx, mock.AnythingOfType("*identity.Role")).Return(nil)

		result, err := f.service.Create(ctx, actor, CreateRoleRequest{
			Code:         "Night_Auditor",
			Name:         "Night Auditor",
			Description:  "Read-only overnight stocktake access",
			Capabilities: []string{identity.CapabilityInventoryRead, identity.CapabilityInventoryAudit},
		})
		require.NoError(t, err)

		assert.Equal(t, "night_auditor", result.Code)
		assert.False(t, result.IsSystem)
		assert.ElementsMatch(t,
			[]string{identity.CapabilityInventoryRead, identity.CapabilityInventoryAudit},
			result.Capabilities)
	})

	t.Run("rejects a taken code", func(t *testing.T) {
		f := newRoleFixture()
		f.roles.On("ExistsByCode", ctx, "night_auditor").Return(true, nil)

		_, err := f.service.Create(ctx, actor, CreateRoleRequest{
			Code:         "night_auditor",
			Name:         "Night Auditor",
			Capabilities: []string{identity.CapabilityInventoryRead},
		})
		assert.Equal(t, "ALREADY_EXISTS", domainErrorCode(t, err))
	})

	t.Run("rejects unknown capabilities", func(t *testing.T) {
		f := newRoleFixture()
		f.roles.On("ExistsByCode", ctx, "night_auditor").Return(false, nil)

		_, err := f.service.Create(ctx, actor, CreateRoleRequest{
			Code:         "night_auditor",
			Name:         "Night Auditor",
			Capabilities: []string{"warp:drive"},
		})
		assert.Equal(t, "VALIDATION_ERROR", domainErrorCode(t, err))
		f.roles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires the role management capability", func(t *testing.T) {
		f := newRoleFixture()
		_, err := f.service.Create(ctx, adminActor(identity.CapabilityUserManage), CreateRoleRequest{
			Code:         "night_auditor",
			Name:         "Night Auditor",
			Capabilities: []string{identity.CapabilityInventoryRead},
		})
		assert.Equal(t, "FORBIDDEN", domainErrorCode(t, err))
	})
}

func TestRoleService_SetCapabilities(t *testing.T) {
	ctx := context.Background()
	actor := adminActor(identity.CapabilityRoleManage)

	t.Run("replaces the capability set, system roles included", func(t *testing.T) {
		f := newRoleFixture()
		role := newTestRole(t)

		f.roles.On("FindByID", ctx, role.ID).Return(role, nil)
		f.roles.On("Save", ctx, role).Return(nil)
		f.users.On("CountByRole", ctx, role.ID).Return(int64(4), nil)

		result, err := f.service.SetCapabilities(ctx, actor, role.ID, SetCapabilitiesRequest{
			Capabilities: []string{identity.CapabilitySalesRead},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{identity.CapabilitySalesRead}, result.Capabilities)
		assert.Equal(t, int64(4), result.UserCount)
	})

	t.Run("rejects unknown capabilities", func(t *testing.T) {
		f := newRoleFixture()
		role := newTestRole(t)
		f.roles.On("FindByID", ctx, role.ID).Return(role, nil)

		_, err := f.service.SetCapabilities(ctx, actor, role.ID, SetCapabilitiesRequest{
			Capabilities: []string{"not:real"},
		})
		assert.Equal(t, "VALIDATION_ERROR", domainErrorCode(t, err))
	})
}

func TestRoleService_Delete(t *testing.T) {
	ctx := context.Background()
	actor := adminActor(identity.CapabilityRoleManage)

	t.Run("deletes an unused custom role", func(t *testing.T) {
		f := newRoleFixture()
		role, err := identity.NewRole("night_auditor", "Night Auditor", []string{identity.CapabilityInventoryRead})
		require.NoError(t, err)

		f.roles.On("FindByID", ctx, role.ID).Return(role, nil)
		f.users.On("CountByRole", ctx, role.ID).Return(int64(0), nil)
		f.roles.On("Delete", ctx, role.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, actor, role.ID))
		f.roles.AssertExpectations(t)
	})

	t.Run("refuses to delete a system role", func(t *testing.T) {
		f := newRoleFixture()
		role := newTestRole(t)
		f.roles.On("FindByID", ctx, role.ID).Return(role, nil)

		err := f.service.Delete(ctx, actor, role.ID)
		assert.Equal(t, "CONFLICT", domainErrorCode(t, err))
		f.roles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("refuses to delete a role with holders", func(t *testing.T) {
		f := newRoleFixture()
		role, err := identity.NewRole("night_auditor", "Night Auditor", []string{identity.CapabilityInventoryRead})
		require.NoError(t, err)

		f.roles.On("FindByID", ctx, role.ID).Return(role, nil)
		f.users.On("CountByRole", ctx, role.ID).Return(int64(3), nil)

		err = f.service.Delete(ctx, actor, role.ID)
		assert.Equal(t, "CONFLICT", domainErrorCode(t, err))
		assert.Contains(t, err.Error(), "3 users")
		f.roles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestRoleService_SeedSystemRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("creates only the missing roles", func(t *testing.T) {
		f := newRoleFixture()

		for _, code := range []string{
			identity.RoleCodeSystemAdministrator,
			identity.RoleCodeFinanceManager,
			identity.RoleCodePurchaseManager,
		} {
			f.roles.On("ExistsByCode", ctx, code).Return(true, nil)
		}
		for _, code := range []string{
			identity.RoleCodeStoreManager,
			identity.RoleCodeStoreStaff,
			identity.RoleCodeSalesStaff,
		} {
			f.roles.On("ExistsByCode", ctx, code).Return(false, nil)
		}

		seeded := make([]string, 0, 3)
		f.roles.On("Save", ctx, mock.AnythingOfType("*identity.Role")).Run(func(args mock.Arguments) {
			role := args.Get(1).(*identity.Role)
			assert.True(t, role.IsSystem)
			seeded = append(seeded, role.Code)
		}).Return(nil)

		require.NoError(t, f.service.SeedSystemRoles(ctx))
		assert.Equal(t, []string{
			identity.RoleCodeStoreManager,
			identity.RoleCodeStoreStaff,
			identity.RoleCodeSalesStaff,
		}, seeded)
	})

	t.Run("seeded roles carry their default capability sets", func(t *testing.T) {
		f := newRoleFixture()

		f.roles.On("ExistsByCode", ctx, mock.Anything).Return(false, nil)
		f.roles.On("Save", ctx, mock.AnythingOfType("*identity.Role")).Run(func(args mock.Arguments) {
			role := args.Get(1).(*identity.Role)
			assert.ElementsMatch(t, identity.SystemRoleCapabilities[role.Code], []string(role.Capabilities))
		}).Return(nil)

		require.NoError(t, f.service.SeedSystemRoles(ctx))
		f.roles.AssertNumberOfCalls(t, "Save", 6)
	})
}

func TestRoleService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by code and enriches holder counts", func(t *testing.T) {
		f := newRoleFixture()
		role := newTestRole(t)

		f.roles.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.OrderBy == "code" && filter.OrderDir == "asc"
		})).Return([]identity.Role{*role}, nil)
		f.roles.On("Count", ctx, mock.Anything).Return(int64(1), nil)
		f.users.On("CountByRole", ctx, role.ID).Return(int64(2), nil)

		results, total, err := f.service.List(ctx, RoleListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, results, 1)
		assert.Equal(t, int64(2), results[0].UserCount)
	})

	t.Run("returns not found for an unknown role", func(t *testing.T) {
		f := newRoleFixture()
		missing := uuid.New()
		f.roles.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := f.service.Get(ctx, missing)
		assert.Equal(t, "NOT_FOUND", domainErrorCode(t, err))
	})
}
