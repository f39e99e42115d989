package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/auth"
)

// AuthService handles login, token refresh and logout. Tokens carry the
// user's capability set; refresh reloads it from the database so role
// changes take effect without waiting for the access token to expire.
type AuthService struct {
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("Login attempt for unknown username", zap.String("username", username))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid username or password")
	}

	if !user.IsActive() {
		s.logger.Warn("Login attempt for deactivated account",
			zap.String("username", username),
			zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Login attempt with wrong password",
			zap.String("username", username),
			zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid username or password")
	}

	role, err := s.roleRepo.FindByID(ctx, user.RoleID)
	if err != nil {
		s.logger.Error("Failed to load role during login",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainErrorWithCause("INTERNAL", "Failed to load user role", err)
	}

	pair, err := s.jwtService.GenerateTokenPair(tokenInput(user, role))
	if err != nil {
		s.logger.Error("Failed to issue tokens", zap.Error(err))
		return nil, shared.NewDomainErrorWithCause("INTERNAL", "Failed to issue tokens", err)
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds; the timestamp is informational.
		s.logger.Error("Failed to record login time",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", role.Code))

	response := ToUserResponse(user)
	response.RoleCode = role.Code

	return &LoginResponse{
		Tokens: ToTokenResponse(pair),
		User:   *response,
	}, nil
}

// Refresh exchanges a refresh token for a new token pair. The user and
// role are reloaded so the new access token carries fresh capabilities,
// and the spent refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	if err := s.checkRevocation(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Refresh attempt for missing user", zap.String("user_id", claims.UserID))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account no longer exists")
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account has been deactivated")
	}

	role, err := s.roleRepo.FindByID(ctx, user.RoleID)
	if err != nil {
		s.logger.Error("Failed to load role during refresh",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainErrorWithCause("INTERNAL", "Failed to load user role", err)
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, tokenInput(user, role))
	if err != nil {
		return nil, mapTokenError(err)
	}

	// One refresh token, one use.
	if s.blacklist != nil && claims.ID != "" {
		if err := s.blacklist.RevokeToken(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("Failed to revoke spent refresh token", zap.Error(err))
		}
	}

	response := ToTokenResponse(pair)
	return &response, nil
}

// Logout revokes the caller's access token and, when supplied, the
// refresh token. Without a blacklist logout is a client-side operation.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims, req LogoutRequest) error {
	if s.blacklist == nil {
		return nil
	}

	if claims.ID != "" {
		if err := s.blacklist.RevokeToken(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return shared.NewDomainErrorWithCause("INTERNAL", "Failed to revoke token", err)
		}
	}

	if req.RefreshToken != "" {
		refreshClaims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
		if err == nil && refreshClaims.ID != "" {
			if err := s.blacklist.RevokeToken(ctx, refreshClaims.ID, refreshClaims.GetRemainingTTL()); err != nil {
				s.logger.Error("Failed to revoke refresh token on logout", zap.Error(err))
			}
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// GetCurrentUser returns the account behind the supplied user ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("NOT_FOUND", "User not found", err)
	}

	response := ToUserResponse(user)
	if role, err := s.roleRepo.FindByID(ctx, user.RoleID); err == nil {
		response.RoleCode = role.Code
	}
	return response, nil
}

// ChangePassword changes the current user's password and revokes all
// of their outstanding tokens
func (s *AuthService) ChangePassword(ctx context.Context, actor shared.Actor, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return shared.NewDomainErrorWithCause("NOT_FOUND", "User not found", err)
	}

	if !user.VerifyPassword(req.CurrentPassword) {
		s.logger.Warn("Password change with wrong current password",
			zap.String("user_id", user.ID.String()))
		return shared.NewDomainError("UNAUTHORIZED", "Current password is incorrect")
	}

	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}

	if s.blacklist != nil {
		if err := s.blacklist.RevokeUserTokens(ctx, user.ID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
			s.logger.Error("Failed to revoke tokens after password change",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) checkRevocation(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}

	if claims.ID != "" {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return shared.NewDomainErrorWithCause("INTERNAL", "Failed to check token revocation", err)
		}
		if revoked {
			return shared.NewDomainError("UNAUTHORIZED", "Token has been revoked")
		}
	}

	revoked, err := s.blacklist.IsUserTokenRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return shared.NewDomainErrorWithCause("INTERNAL", "Failed to check token revocation", err)
	}
	if revoked {
		return shared.NewDomainError("UNAUTHORIZED", "Token has been revoked")
	}
	return nil
}

func tokenInput(user *identity.User, role *identity.Role) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		UserID:       user.ID,
		BranchID:     user.BranchID,
		Username:     user.Username,
		RoleCode:     role.Code,
		Capabilities: []string(role.Capabilities),
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("UNAUTHORIZED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("UNAUTHORIZED", "Session has expired, please log in again")
	default:
		return shared.NewDomainError("UNAUTHORIZED", "Invalid token")
	}
}
