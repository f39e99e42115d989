package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail finds a user by email address
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds users with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// FindByBranch finds users assigned to a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, user *User) error

	// Delete removes a user account. Used to roll back accounts whose
	// invitation could not be delivered.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByRole counts users holding a role
	CountByRole(ctx context.Context, roleID uuid.UUID) (int64, error)

	// ExistsByUsername checks if a username is already taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if an email address is already taken
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	// FindByID finds a role by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)

	// FindByCode finds a role by code
	FindByCode(ctx context.Context, code string) (*Role, error)

	// FindAll finds roles with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Role, error)

	// Save creates or updates a role
	Save(ctx context.Context, role *Role) error

	// Delete removes a role. Roles with assigned users must not be deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts roles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a role code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
