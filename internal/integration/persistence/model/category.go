package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/domain/entity"
)

// CategoryModel represents the categories table in the database.
type CategoryModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentID       *uuid.UUID `gorm:"type:uuid;index"`
	Name           string     `gorm:"type:varchar(50);not null"`
	Type           string     `gorm:"type:varchar(10);not null"`
	Color          string     `gorm:"type:varchar(7);default:'#6366F1'"`
	Icon           string     `gorm:"type:varchar(50);default:'tag'"`
	SortOrder      int        `gorm:"not null"`
	IsPublicBurden bool       `gorm:"not null"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName returns the table name for the CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts a CategoryModel to a domain Category entity.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:             m.ID,
		UserID:         m.UserID,
		ParentID:       m.ParentID,
		Name:           m.Name,
		Type:           entity.CategoryType(m.Type),
		Color:          m.Color,
		Icon:           m.Icon,
		SortOrder:      m.SortOrder,
		IsPublicBurden: m.IsPublicBurden,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// CategoryFromEntity creates a CategoryModel from a domain Category entity.
func CategoryFromEntity(category *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:             category.ID,
		UserID:         category.UserID,
		ParentID:       category.ParentID,
		Name:           category.Name,
		Type:           string(category.Type),
		Color:          category.Color,
		Icon:           category.Icon,
		SortOrder:      category.SortOrder,
		IsPublicBurden: category.IsPublicBurden,
		CreatedAt:      category.CreatedAt,
		UpdatedAt:      category.UpdatedAt,
	}
}
