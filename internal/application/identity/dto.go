package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/infrastructure/auth"
)

// LoginRequest carries login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token to exchange for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token so it can be
// revoked alongside the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest carries a password change for the current user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// TokenResponse is the issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Tokens TokenResponse `json:"tokens"`
	User   UserResponse  `json:"user"`
}

// CreateUserRequest carries the fields to create a user account
type CreateUserRequest struct {
	Username string    `json:"username" binding:"required,max=50"`
	Email    string    `json:"email" binding:"required,email,max=200"`
	Password string    `json:"password" binding:"required,min=8,max=72"`
	FullName string    `json:"full_name" binding:"required,max=200"`
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
	RoleID   uuid.UUID `json:"role_id" binding:"required"`
}

// UpdateUserRequest carries profile updates for a user
type UpdateUserRequest struct {
	FullName string `json:"full_name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email,max=200"`
}

// AssignRoleRequest changes a user's role
type AssignRoleRequest struct {
	RoleID uuid.UUID `json:"role_id" binding:"required"`
}

// TransferBranchRequest moves a user to a different home branch
type TransferBranchRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
}

// ResetPasswordRequest sets a new password on behalf of a user
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserListFilter carries filtering options for user queries
type UserListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Search   string     `form:"search"`
	BranchID *uuid.UUID `form:"branch_id"`
	RoleID   *uuid.UUID `form:"role_id"`
	Active   *bool      `form:"active"`
}

// UserResponse is the API representation of a user account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	BranchID    uuid.UUID  `json:"branch_id"`
	RoleID      uuid.UUID  `json:"role_id"`
	RoleCode    string     `json:"role_code,omitempty"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// CreateRoleRequest carries the fields to create a custom role
type CreateRoleRequest struct {
	Code         string   `json:"code" binding:"required,max=50"`
	Name         string   `json:"name" binding:"required,max=100"`
	Description  string   `json:"description" binding:"max=500"`
	Capabilities []string `json:"capabilities" binding:"required,min=1"`
}

// UpdateRoleRequest carries role detail updates
type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// SetCapabilitiesRequest replaces a role's capability set
type SetCapabilitiesRequest struct {
	Capabilities []string `json:"capabilities" binding:"required,min=1"`
}

// RoleListFilter carries filtering options for role queries
type RoleListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// RoleResponse is the API representation of a role
type RoleResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Capabilities []string  `json:"capabilities"`
	IsSystem     bool      `json:"is_system"`
	UserCount    int64     `json:"user_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToUserResponse converts a user aggregate to its API representation
func ToUserResponse(user *identity.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		BranchID:    user.BranchID,
		RoleID:      user.RoleID,
		Active:      user.Active,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		Version:     user.Version,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = *ToUserResponse(&users[i])
	}
	return responses
}

// ToRoleResponse converts a role aggregate to its API representation
func ToRoleResponse(role *identity.Role) *RoleResponse {
	return &RoleResponse{
		ID:           role.ID,
		Code:         role.Code,
		Name:         role.Name,
		Description:  role.Description,
		Capabilities: []string(role.Capabilities),
		IsSystem:     role.IsSystem,
		CreatedAt:    role.CreatedAt,
		UpdatedAt:    role.UpdatedAt,
		Version:      role.Version,
	}
}

// ToTokenResponse converts an issued token pair
func ToTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
