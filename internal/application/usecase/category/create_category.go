// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/kakeibo/backend/internal/application/adapter"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

const (
	// MaxCategoryNameLength is the maximum allowed length for category names.
	MaxCategoryNameLength = 50
	// MaxIconLength is the maximum allowed length for icon names.
	MaxIconLength = 50
)

// hexColorRegex is compiled once at package level.
var hexColorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	UserID         uuid.UUID
	Name           string
	Type           entity.CategoryType
	Color          string // Optional, defaults to DefaultCategoryColor
	Icon           string // Optional, defaults to DefaultCategoryIcon
	SortOrder      int
	IsPublicBurden bool
	ParentID       *uuid.UUID
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeMissingCategoryFields,
			"category name is required",
			nil,
		)
	}
	if len(name) > MaxCategoryNameLength {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameTooLong,
			fmt.Sprintf("category name must not exceed %d characters", MaxCategoryNameLength),
			domainerror.ErrCategoryNameTooLong,
		)
	}

	if input.Color != "" && !isValidHexColor(input.Color) {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidColorFormat,
			"color must be a valid hex format (#XXXXXX)",
			domainerror.ErrInvalidColorFormat,
		)
	}

	if !input.Type.IsValid() {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryType,
			"category type must be 'expense' or 'income'",
			domainerror.ErrInvalidCategoryType,
		)
	}

	// Apply default values for optional fields
	color := input.Color
	if color == "" {
		color = entity.DefaultCategoryColor
	}
	icon := input.Icon
	if icon == "" {
		icon = entity.DefaultCategoryIcon
	}
	if len(icon) > MaxIconLength {
		icon = icon[:MaxIconLength]
	}

	if input.ParentID != nil {
		if err := validateParent(ctx, uc.categoryRepo, *input.ParentID, input.UserID, input.Type, uuid.Nil); err != nil {
			return nil, err
		}
	}

	exists, err := uc.categoryRepo.ExistsByNameAndUser(ctx, name, input.Type, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameExists,
			"a category with this name already exists",
			domainerror.ErrCategoryNameExists,
		)
	}

	category := entity.NewCategory(
		input.UserID,
		name,
		input.Type,
		color,
		icon,
		input.SortOrder,
		input.IsPublicBurden,
		input.ParentID,
	)

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &CreateCategoryOutput{
		Category: category,
	}, nil
}

// validateParent enforces one level of nesting: the parent must exist, belong to the
// same user, share the category type and not itself have a parent. selfID is the
// category being edited, or uuid.Nil on create.
func validateParent(
	ctx context.Context,
	repo adapter.CategoryRepository,
	parentID, userID uuid.UUID,
	categoryType entity.CategoryType,
	selfID uuid.UUID,
) error {
	invalid := func(msg string) error {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidParentCategory,
			msg,
			domainerror.ErrInvalidParentCategory,
		)
	}

	if parentID == selfID {
		return invalid("a category cannot be its own parent")
	}

	parent, err := repo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return invalid("parent category not found")
		}
		return fmt.Errorf("failed to find parent category: %w", err)
	}
	if parent.UserID != userID {
		return invalid("parent category not found")
	}
	if parent.ParentID != nil {
		return invalid("parent category must be a top-level category")
	}
	if parent.Type != categoryType {
		return invalid("parent category must have the same type")
	}

	if selfID != uuid.Nil {
		hasChildren, err := repo.HasChildren(ctx, selfID)
		if err != nil {
			return fmt.Errorf("failed to check child categories: %w", err)
		}
		if hasChildren {
			return invalid("a category with children cannot be nested")
		}
	}

	return nil
}

// isValidHexColor validates hex color format (#XXXXXX or #XXX).
func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}
