package catalog

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeProduct  = "Product"
	AggregateTypeCategory = "Category"
)

// Event type constants
const (
	EventTypeProductCreated       = "ProductCreated"
	EventTypeProductUpdated       = "ProductUpdated"
	EventTypeProductPriceChanged  = "ProductPriceChanged"
	EventTypeProductStatusChanged = "ProductStatusChanged"
	EventTypeCategoryCreated      = "CategoryCreated"
	EventTypeCategoryUpdated      = "CategoryUpdated"
)

// ProductCreatedEvent is raised when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID, uuid.Nil),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Price:           product.Price,
	}
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}

// ProductUpdatedEvent is raised when product details change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID, uuid.Nil),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
	}
}

// EventType returns the event type name
func (e *ProductUpdatedEvent) EventType() string {
	return EventTypeProductUpdated
}

// ProductPriceChangedEvent is raised when product prices change.
// Historical sales and orders are unaffected; they carry snapshots.
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	OldPrice     decimal.Decimal `json:"old_price"`
	NewPrice     decimal.Decimal `json:"new_price"`
	OldCostPrice decimal.Decimal `json:"old_cost_price"`
	NewCostPrice decimal.Decimal `json:"new_cost_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice, oldCost decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID, uuid.Nil),
		ProductID:       product.ID,
		SKU:             product.SKU,
		OldPrice:        oldPrice,
		NewPrice:        product.Price,
		OldCostPrice:    oldCost,
		NewCostPrice:    product.CostPrice,
	}
}

// EventType returns the event type name
func (e *ProductPriceChangedEvent) EventType() string {
	return EventTypeProductPriceChanged
}

// ProductStatusChangedEvent is raised when a product is activated or
// deactivated
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Active    bool      `json:"active"`
}

// NewProductStatusChangedEvent creates a new ProductStatusChangedEvent
func NewProductStatusChangedEvent(product *Product, active bool) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, AggregateTypeProduct, product.ID, uuid.Nil),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Active:          active,
	}
}

// EventType returns the event type name
func (e *ProductStatusChangedEvent) EventType() string {
	return EventTypeProductStatusChanged
}

// CategoryCreatedEvent is raised when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, category.ID, uuid.Nil),
		CategoryID:      category.ID,
		Name:            category.Name,
		Slug:            category.Slug,
	}
}

// EventType returns the event type name
func (e *CategoryCreatedEvent) EventType() string {
	return EventTypeCategoryCreated
}

// CategoryUpdatedEvent is raised when category details change
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
}

// NewCategoryUpdatedEvent creates a new CategoryUpdatedEvent
func NewCategoryUpdatedEvent(category *Category) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryUpdated, AggregateTypeCategory, category.ID, uuid.Nil),
		CategoryID:      category.ID,
		Name:            category.Name,
		Slug:            category.Slug,
	}
}

// EventType returns the event type name
func (e *CategoryUpdatedEvent) EventType() string {
	return EventTypeCategoryUpdated
}
