package repositories

import (
	"context"

	"foodgram/internal/models"
)

// RecipeQuery narrows a recipe listing. Zero-valued fields do not filter.
type RecipeQuery struct {
	AuthorID    string
	TagSlugs    []string // any of
	FavoritedBy string
	InCartOf    string
}

// RecipeRepository defines the interface for recipe aggregate persistence.
// Create and Update write the recipe, its ingredient lines and its tag set atomically.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe, lines []models.IngredientLine, tagIDs []string) error
	Update(ctx context.Context, recipe *models.Recipe, lines []models.IngredientLine, tagIDs []string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	List(ctx context.Context, query RecipeQuery) ([]models.Recipe, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}
