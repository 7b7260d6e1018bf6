package category

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo/backend/internal/application/adapter/adaptertest"
	"github.com/kakeibo/backend/internal/domain/entity"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

func categoryCode(t *testing.T, err error) domainerror.CategoryErrorCode {
	t.Helper()
	var catErr *domainerror.CategoryError
	require.ErrorAs(t, err, &catErr)
	return catErr.Code
}

func TestCreateCategoryUseCase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("applies defaults", func(t *testing.T) {
		store := adaptertest.NewStore()
		uc := NewCreateCategoryUseCase(store.CategoryRepository())

		out, err := uc.Execute(ctx, CreateCategoryInput{UserID: userID, Name: "  Food ", Type: entity.CategoryTypeExpense})

		require.NoError(t, err)
		assert.Equal(t, "Food", out.Category.Name)
		assert.Equal(t, entity.DefaultCategoryColor, out.Category.Color)
		assert.Equal(t, entity.DefaultCategoryIcon, out.Category.Icon)
		assert.Len(t, store.Categories, 1)
	})

	tests := []struct {
		name  string
		input CreateCategoryInput
		code  domainerror.CategoryErrorCode
	}{
		{"missing name", CreateCategoryInput{UserID: userID, Type: entity.CategoryTypeExpense}, domainerror.ErrCodeMissingCategoryFields},
		{"name too long", CreateCategoryInput{UserID: userID, Name: strings.Repeat("x", 51), Type: entity.CategoryTypeExpense}, domainerror.ErrCodeCategoryNameTooLong},
		{"bad color", CreateCategoryInput{UserID: userID, Name: "Food", Color: "red", Type: entity.CategoryTypeExpense}, domainerror.ErrCodeInvalidColorFormat},
		{"bad type", CreateCategoryInput{UserID: userID, Name: "Food", Type: "transfer"}, domainerror.ErrCodeInvalidCategoryType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewCreateCategoryUseCase(adaptertest.NewStore().CategoryRepository())
			_, err := uc.Execute(ctx, tt.input)
			assert.Equal(t, tt.code, categoryCode(t, err))
		})
	}

	t.Run("duplicate name within type", func(t *testing.T) {
		store := adaptertest.NewStore()
		store.AddCategory(entity.NewCategory(userID, "Food", entity.CategoryTypeExpense, "", "", 0, false, nil))
		uc := NewCreateCategoryUseCase(store.CategoryRepository())

		_, err := uc.Execute(ctx, CreateCategoryInput{UserID: userID, Name: "food", Type: entity.CategoryTypeExpense})

		assert.Equal(t, domainerror.ErrCodeCategoryNameExists, categoryCode(t, err))
	})
}

func TestCreateCategoryUseCase_ParentRules(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := adaptertest.NewStore()
	living := store.AddCategory(entity.NewCategory(userID, "Living", entity.CategoryTypeExpense, "", "", 0, false, nil))
	salary := store.AddCategory(entity.NewCategory(userID, "Salary", entity.CategoryTypeIncome, "", "", 0, false, nil))
	utilities := store.AddCategory(entity.NewCategory(userID, "Utilities", entity.CategoryTypeExpense, "", "", 0, false, &living.ID))
	foreign := store.AddCategory(entity.NewCategory(uuid.New(), "Theirs", entity.CategoryTypeExpense, "", "", 0, false, nil))
	uc := NewCreateCategoryUseCase(store.CategoryRepository())

	t.Run("valid parent", func(t *testing.T) {
		out, err := uc.Execute(ctx, CreateCategoryInput{UserID: userID, Name: "Groceries", Type: entity.CategoryTypeExpense, ParentID: &living.ID})
		require.NoError(t, err)
		assert.Equal(t, living.ID, *out.Category.ParentID)
	})

	for name, parentID := range map[string]uuid.UUID{
		"nested parent":  utilities.ID,
		"different type": salary.ID,
		"other user":     foreign.ID,
		"missing parent": uuid.New(),
	} {
		t.Run(name, func(t *testing.T) {
			id := parentID
			_, err := uc.Execute(ctx, CreateCategoryInput{UserID: userID, Name: "Child " + name, Type: entity.CategoryTypeExpense, ParentID: &id})
			assert.Equal(t, domainerror.ErrCodeInvalidParentCategory, categoryCode(t, err))
		})
	}
}

func TestUpdateCategoryUseCase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("updates provided fields", func(t *testing.T) {
		store := adaptertest.NewStore()
		cat := store.AddCategory(entity.NewCategory(userID, "Tax", entity.CategoryTypeExpense, "#000000", "receipt", 0, false, nil))
		uc := NewUpdateCategoryUseCase(store.CategoryRepository())

		name := "Resident tax"
		order := 7
		burden := true
		out, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID, UserID: userID, Name: &name, SortOrder: &order, IsPublicBurden: &burden,
		})

		require.NoError(t, err)
		assert.Equal(t, "Resident tax", out.Category.Name)
		assert.Equal(t, 7, out.Category.SortOrder)
		assert.True(t, out.Category.IsPublicBurden)
		assert.Equal(t, "receipt", out.Category.Icon)
	})

	t.Run("other user's category", func(t *testing.T) {
		store := adaptertest.NewStore()
		cat := store.AddCategory(entity.NewCategory(uuid.New(), "Tax", entity.CategoryTypeExpense, "", "", 0, false, nil))
		uc := NewUpdateCategoryUseCase(store.CategoryRepository())

		_, err := uc.Execute(ctx, UpdateCategoryInput{CategoryID: cat.ID, UserID: userID})

		assert.Equal(t, domainerror.ErrCodeNotAuthorizedCategory, categoryCode(t, err))
	})

	t.Run("a parent cannot become a child", func(t *testing.T) {
		store := adaptertest.NewStore()
		parent := store.AddCategory(entity.NewCategory(userID, "Living", entity.CategoryTypeExpense, "", "", 0, false, nil))
		store.AddCategory(entity.NewCategory(userID, "Rent", entity.CategoryTypeExpense, "", "", 0, false, &parent.ID))
		other := store.AddCategory(entity.NewCategory(userID, "Other", entity.CategoryTypeExpense, "", "", 0, false, nil))
		uc := NewUpdateCategoryUseCase(store.CategoryRepository())

		_, err := uc.Execute(ctx, UpdateCategoryInput{CategoryID: parent.ID, UserID: userID, ParentID: &other.ID})

		assert.Equal(t, domainerror.ErrCodeInvalidParentCategory, categoryCode(t, err))
	})

	t.Run("clear parent", func(t *testing.T) {
		store := adaptertest.NewStore()
		parent := store.AddCategory(entity.NewCategory(userID, "Living", entity.CategoryTypeExpense, "", "", 0, false, nil))
		child := store.AddCategory(entity.NewCategory(userID, "Rent", entity.CategoryTypeExpense, "", "", 0, false, &parent.ID))
		uc := NewUpdateCategoryUseCase(store.CategoryRepository())

		out, err := uc.Execute(ctx, UpdateCategoryInput{CategoryID: child.ID, UserID: userID, ClearParent: true})

		require.NoError(t, err)
		assert.Nil(t, out.Category.ParentID)
	})
}

func TestDeleteAndListCategories(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := adaptertest.NewStore()
	food := store.AddCategory(entity.NewCategory(userID, "Food", entity.CategoryTypeExpense, "", "", 2, false, nil))
	store.AddCategory(entity.NewCategory(userID, "Rent", entity.CategoryTypeExpense, "", "", 1, false, nil))
	store.AddCategory(entity.NewCategory(userID, "Salary", entity.CategoryTypeIncome, "", "", 0, false, nil))

	list := NewListCategoriesUseCase(store.CategoryRepository())
	expense := entity.CategoryTypeExpense
	out, err := list.Execute(ctx, ListCategoriesInput{UserID: userID, Type: &expense})
	require.NoError(t, err)
	require.Len(t, out.Categories, 2)
	assert.Equal(t, "Rent", out.Categories[0].Name)

	del := NewDeleteCategoryUseCase(store.CategoryRepository())
	require.NoError(t, del.Execute(ctx, DeleteCategoryInput{CategoryID: food.ID, UserID: userID}))

	out, err = list.Execute(ctx, ListCategoriesInput{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, out.Categories, 2)

	err = del.Execute(ctx, DeleteCategoryInput{CategoryID: food.ID, UserID: userID})
	assert.Equal(t, domainerror.ErrCodeCategoryNotFound, categoryCode(t, err))
}
