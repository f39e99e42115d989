package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// Branch represents a physical retail location holding its own inventory.
// It is the aggregate root for branch-related operations; the branch code
// feeds sale and purchase order numbering.
type Branch struct {
	shared.BaseAggregateRoot
	Code      string      `gorm:"type:varchar(20);not null;uniqueIndex:idx_branch_code"`
	Name      string      `gorm:"type:varchar(200);not null;uniqueIndex:idx_branch_name"`
	Address   string      `gorm:"type:text"`
	City      string      `gorm:"type:varchar(100)"`
	Phone     string      `gorm:"type:varchar(50)"`
	Email     string      `gorm:"type:varchar(200)"`
	Zones     StringSlice `gorm:"type:jsonb"` // Named storage zones within the branch
	ManagerID *uuid.UUID  `gorm:"type:uuid;index"`
	Active    bool        `gorm:"not null;default:true;index"`
	Notes     string      `gorm:"type:text"`
	SortOrder int         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

func validateBranchCode(code string) error {
	if code == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Branch code cannot be empty")
	}
	if len(code) > 20 {
		return shared.NewDomainError("VALIDATION_ERROR", "Branch code cannot exceed 20 characters")
	}
	for _, r := range code {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return shared.NewDomainError("VALIDATION_ERROR", "Branch code must be alphanumeric")
		}
	}
	return nil
}

func validateBranchName(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Branch name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Branch name cannot exceed 200 characters")
	}
	return nil
}

// NewBranch creates a new active branch
func NewBranch(code, name, address string) (*Branch, error) {
	if err := validateBranchCode(code); err != nil {
		return nil, err
	}
	if err := validateBranchName(name); err != nil {
		return nil, err
	}

	branch := &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Address:           address,
		Zones:             StringSlice{},
		Active:            true,
	}

	branch.AddDomainEvent(NewBranchCreatedEvent(branch))

	return branch, nil
}

// Update updates the branch's basic information
func (b *Branch) Update(name, address, city, phone, email string) error {
	if err := validateBranchName(name); err != nil {
		return err
	}

	b.Name = name
	b.Address = address
	b.City = city
	b.Phone = phone
	b.Email = email
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBranchUpdatedEvent(b))

	return nil
}

// SetZones replaces the named storage zones of the branch
func (b *Branch) SetZones(zones []string) error {
	seen := make(map[string]struct{}, len(zones))
	for _, zone := range zones {
		if zone == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "Zone name cannot be empty")
		}
		if _, dup := seen[zone]; dup {
			return shared.NewDomainError("VALIDATION_ERROR", "Zone names must be unique")
		}
		seen[zone] = struct{}{}
	}

	b.Zones = zones
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// AssignManager sets the branch manager
func (b *Branch) AssignManager(managerID uuid.UUID) error {
	if managerID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Manager ID cannot be empty")
	}

	b.ManagerID = &managerID
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Activate reopens the branch for operations
func (b *Branch) Activate() error {
	if b.Active {
		return shared.NewDomainError("VALIDATION_ERROR", "Branch is already active")
	}

	b.Active = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBranchStatusChangedEvent(b, true))

	return nil
}

// Deactivate closes the branch. Inactive branches are rejected as the
// destination of purchase orders and either side of transfers.
func (b *Branch) Deactivate() error {
	if !b.Active {
		return shared.NewDomainError("VALIDATION_ERROR", "Branch is already inactive")
	}

	b.Active = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBranchStatusChangedEvent(b, false))

	return nil
}

// IsActive returns true if the branch is operating
func (b *Branch) IsActive() bool {
	return b.Active
}
