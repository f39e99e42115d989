package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
)

// CreateBranchRequest is the request to create a branch
type CreateBranchRequest struct {
	Code    string   `json:"code" binding:"required,max=20,alphanum"`
	Name    string   `json:"name" binding:"required,max=200"`
	Address string   `json:"address" binding:"max=500"`
	City    string   `json:"city" binding:"max=100"`
	Phone   string   `json:"phone" binding:"max=50"`
	Email   string   `json:"email" binding:"omitempty,email"`
	Zones   []string `json:"zones" binding:"omitempty,max=50,dive,required,max=50"`
}

// UpdateBranchRequest is the request to update a branch
type UpdateBranchRequest struct {
	Name    string   `json:"name" binding:"required,max=200"`
	Address string   `json:"address" binding:"max=500"`
	City    string   `json:"city" binding:"max=100"`
	Phone   string   `json:"phone" binding:"max=50"`
	Email   string   `json:"email" binding:"omitempty,email"`
	Zones   []string `json:"zones" binding:"omitempty,max=50,dive,required,max=50"`
}

// AssignManagerRequest sets the branch manager
type AssignManagerRequest struct {
	ManagerID uuid.UUID `json:"manager_id" binding:"required"`
}

// BranchListFilter contains filtering options for listing branches
type BranchListFilter struct {
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
	OrderBy  string `json:"order_by" form:"order_by"`
	OrderDir string `json:"order_dir" form:"order_dir"`
	Search   string `json:"search" form:"search"`
	Active   *bool  `json:"active" form:"active"`
}

// BranchResponse is the API representation of a branch
type BranchResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Address   string     `json:"address,omitempty"`
	City      string     `json:"city,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
	Zones     []string   `json:"zones"`
	ManagerID *uuid.UUID `json:"manager_id,omitempty"`
	Active    bool       `json:"active"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToBranchResponse converts a domain branch to its response representation
func ToBranchResponse(branch *partner.Branch) BranchResponse {
	return BranchResponse{
		ID:        branch.ID,
		Code:      branch.Code,
		Name:      branch.Name,
		Address:   branch.Address,
		City:      branch.City,
		Phone:     branch.Phone,
		Email:     branch.Email,
		Zones:     branch.Zones,
		ManagerID: branch.ManagerID,
		Active:    branch.Active,
		Version:   branch.Version,
		CreatedAt: branch.CreatedAt,
		UpdatedAt: branch.UpdatedAt,
	}
}

// ToBranchResponses converts a slice of domain branches
func ToBranchResponses(branches []partner.Branch) []BranchResponse {
	responses := make([]BranchResponse, len(branches))
	for i := range branches {
		responses[i] = ToBranchResponse(&branches[i])
	}
	return responses
}

// CreateSupplierRequest is the request to create a supplier
type CreateSupplierRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address" binding:"max=500"`
	TaxID       string `json:"tax_id" binding:"max=50"`
}

// UpdateSupplierRequest is the request to update a supplier
type UpdateSupplierRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address" binding:"max=500"`
}

// SupplierListFilter contains filtering options for listing suppliers
type SupplierListFilter struct {
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
	OrderBy  string `json:"order_by" form:"order_by"`
	OrderDir string `json:"order_dir" form:"order_dir"`
	Search   string `json:"search" form:"search"`
	Active   *bool  `json:"active" form:"active"`
}

// SupplierResponse is the API representation of a supplier
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	TaxID       string    `json:"tax_id,omitempty"`
	Active      bool      `json:"active"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a domain supplier to its response representation
func ToSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          supplier.ID,
		Code:        supplier.Code,
		Name:        supplier.Name,
		ContactName: supplier.ContactName,
		Phone:       supplier.Phone,
		Email:       supplier.Email,
		Address:     supplier.Address,
		TaxID:       supplier.TaxID,
		Active:      supplier.Active,
		Version:     supplier.Version,
		CreatedAt:   supplier.CreatedAt,
		UpdatedAt:   supplier.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of domain suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}
