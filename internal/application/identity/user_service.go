package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/auth"
)

// UserService handles user account administration
type UserService struct {
	userRepo        identity.UserRepository
	roleRepo        identity.RoleRepository
	branchRepo      partner.BranchRepository
	blacklist       auth.TokenBlacklist
	revocationTTL   time.Duration
	eventPublisher  shared.EventPublisher
	notifier        Notifier
	logger          *zap.Logger
	conflictRetries int
}

// NewUserService creates a new user administration service
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	branchRepo partner.BranchRepository,
	logger *zap.Logger,
	conflictRetries int,
) *UserService {
	return &UserService{
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		branchRepo:      branchRepo,
		logger:          logger,
		conflictRetries: conflictRetries,
	}
}

// SetTokenRevoker wires the blacklist used to invalidate outstanding
// tokens when a user's role or status changes. ttl should cover the
// refresh token lifetime.
func (s *UserService) SetTokenRevoker(blacklist auth.TokenBlacklist, ttl time.Duration) {
	s.blacklist = blacklist
	s.revocationTTL = ttl
}

// SetEventPublisher wires an event publisher for user lifecycle events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetNotifier wires the email notifier for invitations and password resets
func (s *UserService) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Create creates a new user account
func (s *UserService) Create(ctx context.Context, actor shared.Actor, req CreateUserRequest) (*UserResponse, error) {
	if !actor.HasCapability(identity.CapabilityUserManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityUserManage)
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email address is already registered")
	}

	branch, err := s.branchRepo.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot assign users to an inactive branch")
	}

	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(username, email, req.Password, req.FullName, req.BranchID, req.RoleID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	// An account whose invitation never arrived is unreachable by its
	// owner, so the created row is removed instead of left dormant.
	if s.notifier != nil {
		if err := s.notifier.SendInvite(ctx, user.Email, user.FullName, user.Username); err != nil {
			if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
				s.logger.Error("Failed to remove user after undeliverable invitation",
					zap.String("user_id", user.ID.String()),
					zap.Error(delErr))
			}
			return nil, shared.NewDomainErrorWithCause("INTERNAL", "Invitation could not be delivered; the account was not created", err)
		}
	}
	s.publishEvents(ctx, user)

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", role.Code),
		zap.String("created_by", actor.UserID.String()))

	response := ToUserResponse(user)
	response.RoleCode = role.Code
	return response, nil
}

// Update updates a user's profile details
func (s *UserService) Update(ctx context.Context, actor shared.Actor, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if !actor.HasCapability(identity.CapabilityUserManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityUserManage)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	return s.mutateUser(ctx, userID, func(user *identity.User) error {
		if email != user.Email {
			taken, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewDomainError("ALREADY_EXISTS", "Email address is already registered")
			}
		}
		return user.UpdateProfile(req.FullName, email)
	})
}

// AssignRole changes a user's role. Outstanding tokens are revoked so
// the old capability set stops working immediately.
func (s *UserService) AssignRole(ctx context.Context, actor shared.Actor, userID uuid.UUID, req AssignRoleRequest) (*UserResponse, error) {
	if !actor.HasCapability(identity.CapabilityUserManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityUserManage)
	}

	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	response, err := s.mutateUser(ctx, userID, func(user *identity.User) error {
		return user.AssignRole(req.RoleID)
	})
	if err != nil {
		return nil, err
	}
	s.revokeTokens(ctx, userID)

	s.logger.Info("User role changed",
		zap.String("user_id", userID.String()),
		zap.String("role", role.Code),
		zap.String("changed_by", actor.UserID.String()))

	response.RoleCode = role.Code
	return response, nil
}

// TransferBranch moves a user to a different home branch. Outstanding
// tokens are revoked because they carry the old branch scope.
func (s *UserService) TransferBranch(ctx context.Context, actor shared.Actor, userID uuid.UUID, req TransferBranchRequest) (*UserResponse, error) {
	if !actor.HasCapability(identity.CapabilityUserManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityUserManage)
	}

	branch, err := s.branchRepo.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot assign users to an inactive branch")
	}

	response, err := s.mutateUser(ctx, userID, func(user *identity.User) error {
		return user.TransferToBranch(req.BranchID)
	})
	if err != nil {
		return nil, err
	}
	s.revokeTokens(ctx, userID)

	return response, nil
}

// ResetPassword sets a new password on behalf of a user and revokes
// their outstanding tokens
func (s *UserService) ResetPassword(ctx context.Context, actor shared.Actor, userID uuid.UUID, req ResetPasswordRequest) error {
	if !actor.HasCapability(identity.CapabilityUserManage) {
		return shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityUserManage)
	}

	response, err := s.mutateUser(ctx, userID, func(user *identity.User) error {
		return user.ChangePassword(req.NewPassword)
	})
	if err != nil {
		return err
	}
	s.revokeTokens(ctx, userID)

	// The reset has already taken effect; a failed notification is
	// reported in the logs, not to the caller.
	if s.notifier != nil {
		if notifyErr := s.notifier.SendReset(ctx, response.Email, response.FullName); notifyErr != nil {
			s.logger.Warn("Password reset notification failed",
				zap.String("user_id", userID.String()),
				zap.Error(notifyErr))
		}
	}

	s.logger.Info("Password reset",
		zap.String("user_id", userID.String()),
		zap.String("reset_by", actor.UserID.String()))
	return nil
}

// Activate re-enables a deactivated user
func (s *UserService) Activate(ctx context.Context, actor shared.Actor, userID uuid.UUID) (*UserResponse, error) {
	if !actor.HasCapability(identity.CapabilityUserManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityUserManage)
	}

	return s.mutateUser(ctx, userID, func(user *identity.User) error {
		return user.Activate()
	})
}

// Deactivate blocks a user from logging in and revokes their
// outstanding tokens
func (s *UserService) Deactivate(ctx context.Context, actor shared.Actor, userID uuid.UUID) (*UserResponse, error) {
	if !actor.HasCapability(identity.CapabilityUserManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityUserManage)
	}

	response, err := s.mutateUser(ctx, userID, func(user *identity.User) error {
		return user.Deactivate()
	})
	if err != nil {
		return nil, err
	}
	s.revokeTokens(ctx, userID)

	s.logger.Info("User deactivated",
		zap.String("user_id", userID.String()),
		zap.String("deactivated_by", actor.UserID.String()))

	return response, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	if role, err := s.roleRepo.FindByID(ctx, user.RoleID); err == nil {
		response.RoleCode = role.Code
	}
	return response, nil
}

// List lists users matching the filter
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	f := buildUserFilter(filter)

	var (
		users []identity.User
		err   error
	)
	if filter.BranchID != nil {
		users, err = s.userRepo.FindByBranch(ctx, *filter.BranchID, f)
	} else {
		users, err = s.userRepo.FindAll(ctx, f)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

func (s *UserService) mutateUser(ctx context.Context, userID uuid.UUID, fn func(*identity.User) error) (*UserResponse, error) {
	var user *identity.User
	err := appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		var err error
		user, err = s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(user); err != nil {
			return err
		}
		return s.userRepo.SaveWithLock(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	return ToUserResponse(user), nil
}

func (s *UserService) revokeTokens(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.RevokeUserTokens(ctx, userID.String(), s.revocationTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	user.ClearDomainEvents()
}

func buildUserFilter(filter UserListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}
	if filter.RoleID != nil {
		f.Filters["role_id"] = *filter.RoleID
	}
	if filter.BranchID != nil {
		f.Filters["branch_id"] = *filter.BranchID
	}
	return f
}
