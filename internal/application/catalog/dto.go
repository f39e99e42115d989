package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	SKU               string          `json:"sku" binding:"required,max=50"`
	Barcode           string          `json:"barcode" binding:"max=50"`
	Name              string          `json:"name" binding:"required,max=200"`
	Description       string          `json:"description" binding:"max=2000"`
	CategoryID        *uuid.UUID      `json:"category_id"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	CostPrice         decimal.Decimal `json:"cost_price" binding:"required"`
	LowStockThreshold *int64          `json:"low_stock_threshold"`
}

// UpdateProductRequest is the request to update a product's details
type UpdateProductRequest struct {
	Name              string          `json:"name" binding:"required,max=200"`
	Description       string          `json:"description" binding:"max=2000"`
	Barcode           string          `json:"barcode" binding:"max=50"`
	CategoryID        *uuid.UUID      `json:"category_id"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	CostPrice         decimal.Decimal `json:"cost_price" binding:"required"`
	LowStockThreshold *int64          `json:"low_stock_threshold"`
}

// InitiateImageUploadRequest asks for a presigned upload URL for a product image
type InitiateImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// ImageUploadResponse carries the presigned upload URL and the object key
// the client must confirm once the upload completes
type ImageUploadResponse struct {
	ImageKey  string    `json:"image_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ConfirmImageUploadRequest confirms a completed image upload
type ConfirmImageUploadRequest struct {
	ImageKey string `json:"image_key" binding:"required,max=255"`
}

// ProductListFilter contains filtering options for listing products
type ProductListFilter struct {
	Page       int        `json:"page" form:"page"`
	PageSize   int        `json:"page_size" form:"page_size"`
	OrderBy    string     `json:"order_by" form:"order_by"`
	OrderDir   string     `json:"order_dir" form:"order_dir"`
	Search     string     `json:"search" form:"search"`
	CategoryID *uuid.UUID `json:"category_id" form:"category_id"`
	Active     *bool      `json:"active" form:"active"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	Price             decimal.Decimal `json:"price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	ProfitMargin      decimal.Decimal `json:"profit_margin"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	ImageKey          string          `json:"image_key,omitempty"`
	ImageURL          string          `json:"image_url,omitempty"`
	Active            bool            `json:"active"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to its response representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                product.ID,
		SKU:               product.SKU,
		Barcode:           product.Barcode,
		Name:              product.Name,
		Description:       product.Description,
		CategoryID:        product.CategoryID,
		Price:             product.Price,
		CostPrice:         product.CostPrice,
		ProfitMargin:      product.ProfitMargin(),
		LowStockThreshold: product.LowStockThreshold,
		ImageKey:          product.ImageKey,
		Active:            product.Active,
		Version:           product.Version,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// CreateCategoryRequest is the request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Icon        string `json:"icon" binding:"max=50"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateCategoryRequest is the request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Icon        string `json:"icon" binding:"max=50"`
	SortOrder   *int   `json:"sort_order"`
}

// CategoryListFilter contains filtering options for listing categories
type CategoryListFilter struct {
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
	OrderBy  string `json:"order_by" form:"order_by"`
	OrderDir string `json:"order_dir" form:"order_dir"`
	Search   string `json:"search" form:"search"`
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	SortOrder    int       `json:"sort_order"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to its response representation
func ToCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Icon:        category.Icon,
		SortOrder:   category.SortOrder,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
