package identity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/retailcore/backend/internal/domain/shared"
)

var roleCodePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// CapabilitySet stores a role's capabilities as a JSONB column
type CapabilitySet []string

// Value implements driver.Valuer
func (s CapabilitySet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (s *CapabilitySet) Scan(value interface{}) error {
	if value == nil {
		*s = CapabilitySet{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CapabilitySet", value)
	}

	return json.Unmarshal(data, s)
}

// Contains returns true if the set holds the capability
func (s CapabilitySet) Contains(capability string) bool {
	for _, c := range s {
		if c == capability {
			return true
		}
	}
	return false
}

// Role maps a named job function to a fixed capability set.
// It is the aggregate root for role-related operations.
type Role struct {
	shared.BaseAggregateRoot
	Code         string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_role_code"`
	Name         string        `gorm:"type:varchar(100);not null"`
	Description  string        `gorm:"type:varchar(500)"`
	Capabilities CapabilitySet `gorm:"type:jsonb;not null"`
	IsSystem     bool          `gorm:"not null;default:false"` // Seeded roles cannot be deleted
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

func validateRoleCode(code string) error {
	if code == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Role code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Role code cannot exceed 50 characters")
	}
	if !roleCodePattern.MatchString(code) {
		return shared.NewDomainError("VALIDATION_ERROR", "Role code must be lowercase letters, digits and underscores")
	}
	return nil
}

func validateCapabilities(capabilities []string) error {
	for _, c := range capabilities {
		if !IsKnownCapability(c) {
			return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown capability %q", c))
		}
	}
	return nil
}

// NewRole creates a new custom role
func NewRole(code, name string, capabilities []string) (*Role, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Role name cannot be empty")
	}
	if err := validateCapabilities(capabilities); err != nil {
		return nil, err
	}

	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Capabilities:      CapabilitySet(capabilities),
	}, nil
}

// NewSystemRole creates one of the seeded roles with its default
// capability set
func NewSystemRole(code, name string) (*Role, error) {
	capabilities, ok := SystemRoleCapabilities[code]
	if !ok {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown system role %q", code))
	}

	role, err := NewRole(code, name, capabilities)
	if err != nil {
		return nil, err
	}
	role.IsSystem = true

	return role, nil
}

// Update changes the role's display name and description
func (r *Role) Update(name, description string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Role name cannot be empty")
	}

	r.Name = name
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetCapabilities replaces the role's capability set
func (r *Role) SetCapabilities(capabilities []string) error {
	if err := validateCapabilities(capabilities); err != nil {
		return err
	}

	r.Capabilities = CapabilitySet(capabilities)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// HasCapability returns true if the role grants the capability
func (r *Role) HasCapability(capability string) bool {
	return r.Capabilities.Contains(capability)
}
