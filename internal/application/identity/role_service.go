package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
)

// systemRoles lists the roles seeded at install time, in seed order
var systemRoles = []struct {
	Code string
	Name string
}{
	{identity.RoleCodeSystemAdministrator, "System Administrator"},
	{identity.RoleCodeFinanceManager, "Finance Manager"},
	{identity.RoleCodePurchaseManager, "Purchase Manager"},
	{identity.RoleCodeStoreManager, "Store Manager"},
	{identity.RoleCodeStoreStaff, "Store Staff"},
	{identity.RoleCodeSalesStaff, "Sales Staff"},
}

// RoleService handles role administration. Capability edits take
// effect when affected users next refresh their tokens; access tokens
// are short-lived so the window is small.
type RoleService struct {
	roleRepo identity.RoleRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role administration service
func NewRoleService(roleRepo identity.RoleRepository, userRepo identity.UserRepository, logger *zap.Logger) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create creates a custom role
func (s *RoleService) Create(ctx context.Context, actor shared.Actor, req CreateRoleRequest) (*RoleResponse, error) {
	if !actor.HasCapability(identity.CapabilityRoleManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityRoleManage)
	}

	code := strings.ToLower(strings.TrimSpace(req.Code))
	taken, err := s.roleRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Role code is already taken")
	}

	role, err := identity.NewRole(code, req.Name, req.Capabilities)
	if err != nil {
		return nil, err
	}
	role.Description = req.Description

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code),
		zap.String("created_by", actor.UserID.String()))

	return ToRoleResponse(role), nil
}

// Update updates a role's display details
func (s *RoleService) Update(ctx context.Context, actor shared.Actor, roleID uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	if !actor.HasCapability(identity.CapabilityRoleManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityRoleManage)
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := role.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	return s.enrichUserCount(ctx, role), nil
}

// SetCapabilities replaces a role's capability set. System roles may be
// tuned but not deleted.
func (s *RoleService) SetCapabilities(ctx context.Context, actor shared.Actor, roleID uuid.UUID, req SetCapabilitiesRequest) (*RoleResponse, error) {
	if !actor.HasCapability(identity.CapabilityRoleManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityRoleManage)
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := role.SetCapabilities(req.Capabilities); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("Role capabilities changed",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code),
		zap.Int("capabilities", len(req.Capabilities)),
		zap.String("changed_by", actor.UserID.String()))

	return s.enrichUserCount(ctx, role), nil
}

// Delete removes a custom role that no user holds
func (s *RoleService) Delete(ctx context.Context, actor shared.Actor, roleID uuid.UUID) error {
	if !actor.HasCapability(identity.CapabilityRoleManage) {
		return shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityRoleManage)
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return shared.NewDomainError("CONFLICT", "System roles cannot be deleted")
	}

	holders, err := s.userRepo.CountByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if holders > 0 {
		return shared.NewDomainError("CONFLICT",
			fmt.Sprintf("Role is still assigned to %d users", holders))
	}

	if err := s.roleRepo.Delete(ctx, roleID); err != nil {
		return err
	}

	s.logger.Info("Role deleted",
		zap.String("role_id", roleID.String()),
		zap.String("code", role.Code),
		zap.String("deleted_by", actor.UserID.String()))
	return nil
}

// Get retrieves a role by ID
func (s *RoleService) Get(ctx context.Context, roleID uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return s.enrichUserCount(ctx, role), nil
}

// GetByCode retrieves a role by code
func (s *RoleService) GetByCode(ctx context.Context, code string) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByCode(ctx, strings.ToLower(code))
	if err != nil {
		return nil, err
	}
	return s.enrichUserCount(ctx, role), nil
}

// List lists roles matching the filter
func (s *RoleService) List(ctx context.Context, filter RoleListFilter) ([]RoleResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	f.OrderBy = "code"
	f.OrderDir = "asc"

	roles, err := s.roleRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.roleRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RoleResponse, len(roles))
	for i := range roles {
		responses[i] = *s.enrichUserCount(ctx, &roles[i])
	}
	return responses, total, nil
}

// SeedSystemRoles creates any missing system roles with their default
// capability sets. Existing roles are left untouched so per-deployment
// tuning survives restarts.
func (s *RoleService) SeedSystemRoles(ctx context.Context) error {
	for _, seed := range systemRoles {
		exists, err := s.roleRepo.ExistsByCode(ctx, seed.Code)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		role, err := identity.NewSystemRole(seed.Code, seed.Name)
		if err != nil {
			return err
		}
		if err := s.roleRepo.Save(ctx, role); err != nil {
			return err
		}
		s.logger.Info("Seeded system role", zap.String("code", seed.Code))
	}
	return nil
}

func (s *RoleService) enrichUserCount(ctx context.Context, role *identity.Role) *RoleResponse {
	response := ToRoleResponse(role)
	if count, err := s.userRepo.CountByRole(ctx, role.ID); err == nil {
		response.UserCount = count
	}
	return response
}
