package identity

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeUser = "User"
	AggregateTypeRole = "Role"
)

// Event type constants
const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserRoleChanged = "UserRoleChanged"
	EventTypeUserDeactivated = "UserDeactivated"
)

// UserCreatedEvent is raised when a new user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	RoleID   uuid.UUID `json:"role_id"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, user.BranchID),
		UserID:          user.ID,
		Username:        user.Username,
		Email:           user.Email,
		RoleID:          user.RoleID,
	}
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return EventTypeUserCreated
}

// UserRoleChangedEvent is raised when a user's role changes. Consumers
// use it to invalidate issued tokens carrying the old capability set.
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	RoleID uuid.UUID `json:"role_id"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(user *User) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, user.ID, user.BranchID),
		UserID:          user.ID,
		RoleID:          user.RoleID,
	}
}

// EventType returns the event type name
func (e *UserRoleChangedEvent) EventType() string {
	return EventTypeUserRoleChanged
}

// UserDeactivatedEvent is raised when a user is deactivated. Consumers
// use it to invalidate the user's outstanding tokens.
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, user.ID, user.BranchID),
		UserID:          user.ID,
		Username:        user.Username,
	}
}

// EventType returns the event type name
func (e *UserDeactivatedEvent) EventType() string {
	return EventTypeUserDeactivated
}
