package dto

import (
	"time"

	"github.com/kakeibo/backend/internal/domain/entity"
)

// CreateCategoryRequest represents the request body for category creation.
type CreateCategoryRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=50"`
	Type           string  `json:"type" binding:"required,oneof=expense income"`
	Color          string  `json:"color,omitempty"`
	Icon           string  `json:"icon,omitempty"`
	SortOrder      int     `json:"sort_order"`
	IsPublicBurden bool    `json:"is_public_burden"`
	ParentID       *string `json:"parent_id,omitempty"`
}

// UpdateCategoryRequest represents the request body for category update.
type UpdateCategoryRequest struct {
	Name           *string `json:"name,omitempty" binding:"omitempty,min=1,max=50"`
	Color          *string `json:"color,omitempty"`
	Icon           *string `json:"icon,omitempty"`
	SortOrder      *int    `json:"sort_order,omitempty"`
	IsPublicBurden *bool   `json:"is_public_burden,omitempty"`
	ParentID       *string `json:"parent_id,omitempty"`
	ClearParent    bool    `json:"clear_parent,omitempty"`
}

// CategoryResponse represents a single category in API responses.
type CategoryResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Color          string    `json:"color"`
	Icon           string    `json:"icon"`
	SortOrder      int       `json:"sort_order"`
	IsPublicBurden bool      `json:"is_public_burden"`
	ParentID       *string   `json:"parent_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a category entity to a CategoryResponse DTO.
func ToCategoryResponse(c *entity.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Type:           string(c.Type),
		Color:          c.Color,
		Icon:           c.Icon,
		SortOrder:      c.SortOrder,
		IsPublicBurden: c.IsPublicBurden,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if c.ParentID != nil {
		s := c.ParentID.String()
		resp.ParentID = &s
	}
	return resp
}

// ToCategoryListResponse converts a slice of categories to a CategoryListResponse.
func ToCategoryListResponse(categories []*entity.Category) CategoryListResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, ToCategoryResponse(c))
	}
	return CategoryListResponse{Categories: out}
}
