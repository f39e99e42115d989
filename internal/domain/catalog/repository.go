package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByBarcode finds a product by barcode
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// FindByIDs finds products by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory finds products in a category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindActive finds active products
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a SKU is already taken
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// ExistsByBarcode checks if a barcode is already taken
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll finds categories with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete removes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks if a category name is already taken
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsBySlug checks if a category slug is already taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// CountProducts counts the products assigned to a category
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
