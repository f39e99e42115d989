package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,49}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// User represents an account able to operate the system. Every user has
// a home branch and exactly one role; the role's capability set decides
// what they may do.
type User struct {
	shared.BaseAggregateRoot
	Username     string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_username"`
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_user_email"`
	PasswordHash string     `gorm:"type:varchar(100);not null"`
	FullName     string     `gorm:"type:varchar(200);not null"`
	BranchID     uuid.UUID  `gorm:"type:uuid;not null;index"` // Home branch
	RoleID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Active       bool       `gorm:"not null;default:true;index"`
	LastLoginAt  *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("VALIDATION_ERROR",
			"Username must be 3-50 characters of lowercase letters, digits, dots, hyphens or underscores")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Email cannot be empty")
	}
	if len(email) > 200 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("VALIDATION_ERROR", "Email address is not valid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("VALIDATION_ERROR", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("VALIDATION_ERROR", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewUser creates a new active user assigned to a branch and role
func NewUser(username, email, password, fullName string, branchID, roleID uuid.UUID) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if fullName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Full name cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch ID cannot be empty")
	}
	if roleID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Role ID cannot be empty")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		PasswordHash:      passwordHash,
		FullName:          fullName,
		BranchID:          branchID,
		RoleID:            roleID,
		Active:            true,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after validating the new one
func (u *User) ChangePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("INTERNAL", "Failed to hash password")
	}

	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// UpdateProfile changes the user's display details
func (u *User) UpdateProfile(fullName, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	if fullName == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Full name cannot be empty")
	}

	u.FullName = fullName
	u.Email = email
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// AssignRole changes the user's role
func (u *User) AssignRole(roleID uuid.UUID) error {
	if roleID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Role ID cannot be empty")
	}

	u.RoleID = roleID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserRoleChangedEvent(u))

	return nil
}

// TransferToBranch moves the user's home branch
func (u *User) TransferToBranch(branchID uuid.UUID) error {
	if branchID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Branch ID cannot be empty")
	}

	u.BranchID = branchID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// RecordLogin stores the time of a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Activate re-enables a deactivated user
func (u *User) Activate() error {
	if u.Active {
		return shared.NewDomainError("VALIDATION_ERROR", "User is already active")
	}

	u.Active = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// Deactivate blocks the user from logging in
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("VALIDATION_ERROR", "User is already inactive")
	}

	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserDeactivatedEvent(u))

	return nil
}

// IsActive returns true if the user may log in
func (u *User) IsActive() bool {
	return u.Active
}
