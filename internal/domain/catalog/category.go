package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/retailcore/backend/internal/domain/shared"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Category groups products for browsing and filtering.
// Categories are flat; the slug is the stable API identifier.
type Category struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_name"`
	Slug        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_slug"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"type:varchar(50)"`
	SortOrder   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Category name cannot exceed 100 characters")
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Category slug cannot be empty")
	}
	if len(slug) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Category slug cannot exceed 100 characters")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("VALIDATION_ERROR", "Category slug must be lowercase letters, digits and hyphens")
	}
	return nil
}

// NewCategory creates a new category
func NewCategory(name, slug, icon string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	slug = strings.ToLower(slug)
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Icon:              icon,
	}

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// Update updates the category's display information
func (c *Category) Update(name, description, icon string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.Description = description
	c.Icon = icon
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryUpdatedEvent(c))

	return nil
}

// SetSortOrder sets the display order of the category
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
