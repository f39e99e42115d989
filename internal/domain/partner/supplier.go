package partner

import (
	"strings"
	"time"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Supplier represents a vendor that purchase orders are placed with.
// It is the aggregate root for supplier-related operations.
type Supplier struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex:idx_supplier_code"`
	Name        string `gorm:"type:varchar(200);not null"`
	ContactName string `gorm:"type:varchar(100)"`
	Phone       string `gorm:"type:varchar(50);index"`
	Email       string `gorm:"type:varchar(200);index"`
	Address     string `gorm:"type:text"`
	TaxID       string `gorm:"type:varchar(50)"`
	Active      bool   `gorm:"not null;default:true;index"`
	Notes       string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

func validateSupplierCode(code string) error {
	if code == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Supplier code cannot exceed 50 characters")
	}
	return nil
}

func validateSupplierName(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Supplier name cannot exceed 200 characters")
	}
	return nil
}

// NewSupplier creates a new active supplier
func NewSupplier(code, name string) (*Supplier, error) {
	if err := validateSupplierCode(code); err != nil {
		return nil, err
	}
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	supplier := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Active:            true,
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name, contactName, phone, email, address string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}

	s.Name = name
	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierUpdatedEvent(s))

	return nil
}

// Activate restores the supplier for new purchase orders
func (s *Supplier) Activate() error {
	if s.Active {
		return shared.NewDomainError("VALIDATION_ERROR", "Supplier is already active")
	}

	s.Active = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, true))

	return nil
}

// Deactivate blocks new purchase orders with this supplier
func (s *Supplier) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("VALIDATION_ERROR", "Supplier is already inactive")
	}

	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, false))

	return nil
}

// IsActive returns true if new purchase orders may use this supplier
func (s *Supplier) IsActive() bool {
	return s.Active
}
