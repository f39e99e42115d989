package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for product-related operations; stock levels
// live in the inventory ledger, never on the product.
type Product struct {
	shared.BaseAggregateRoot
	SKU               string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_sku"`
	Barcode           string          `gorm:"type:varchar(50);index"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid;index"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Selling price
	CostPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LowStockThreshold int64           `gorm:"not null;default:10"` // Seeds the ledger reorder point
	ImageKey          string          `gorm:"type:varchar(255)"`   // Object storage key
	Active            bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Product SKU cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot exceed 200 characters")
	}
	return nil
}

// NewProduct creates a new active product
func NewProduct(sku, name string, price, costPrice decimal.Decimal) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Selling price must be positive")
	}
	if !costPrice.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cost price must be positive")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Price:             price,
		CostPrice:         costPrice,
		LowStockThreshold: 10,
		Active:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetPrices sets the selling and cost prices
func (p *Product) SetPrices(price, costPrice decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Selling price must be positive")
	}
	if !costPrice.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Cost price must be positive")
	}

	oldPrice := p.Price
	oldCost := p.CostPrice

	p.Price = price
	p.CostPrice = costPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice, oldCost))

	return nil
}

// SetLowStockThreshold sets the stock level at which the product is
// flagged for reordering. New ledger records seed their reorder point
// from it.
func (p *Product) SetLowStockThreshold(threshold int64) error {
	if threshold < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Low stock threshold cannot be negative")
	}

	p.LowStockThreshold = threshold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImageKey sets the object storage key of the product image.
// Returns the previous key so the caller can delete the old object.
func (p *Product) SetImageKey(key string) string {
	old := p.ImageKey
	p.ImageKey = key
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return old
}

// Activate makes the product sellable again
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewDomainError("VALIDATION_ERROR", "Product is already active")
	}

	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, true))

	return nil
}

// Deactivate removes the product from sale. Deactivated products are
// rejected at sale, purchase order, and transfer creation.
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("VALIDATION_ERROR", "Product is already inactive")
	}

	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, false))

	return nil
}

// IsActive returns true if the product can be sold and ordered
func (p *Product) IsActive() bool {
	return p.Active
}

// ProfitMargin returns the profit margin percentage, or zero when the
// cost price is zero
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.CostPrice.IsZero() {
		return decimal.Zero
	}
	return p.Price.Sub(p.CostPrice).Div(p.CostPrice).Mul(decimal.NewFromInt(100))
}
