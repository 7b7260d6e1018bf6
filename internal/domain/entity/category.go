// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType represents the type of category (expense or income).
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// IsValid reports whether the category type is one of the known values.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// DefaultCategoryColor is the default color for categories.
const DefaultCategoryColor = "#6366F1"

// DefaultCategoryIcon is the default icon for categories.
const DefaultCategoryIcon = "tag"

// Category represents a user-defined bucket for transactions.
// A category may have a single parent; parents themselves are never nested.
type Category struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	ParentID       *uuid.UUID
	Name           string
	Type           CategoryType
	Color          string
	Icon           string
	SortOrder      int
	IsPublicBurden bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewCategory creates a new Category entity.
// Note: Defaulting logic for color and icon should be applied in the Application layer (UseCase)
// before calling this constructor.
func NewCategory(
	userID uuid.UUID,
	name string,
	categoryType CategoryType,
	color, icon string,
	sortOrder int,
	isPublicBurden bool,
	parentID *uuid.UUID,
) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:             uuid.New(),
		UserID:         userID,
		ParentID:       parentID,
		Name:           name,
		Type:           categoryType,
		Color:          color,
		Icon:           icon,
		SortOrder:      sortOrder,
		IsPublicBurden: isPublicBurden,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsIncome reports whether the category classifies income.
func (c *Category) IsIncome() bool {
	return c.Type == CategoryTypeIncome
}

// IsExpense reports whether the category classifies expenses.
func (c *Category) IsExpense() bool {
	return c.Type == CategoryTypeExpense
}
