package repositories

import (
	"context"

	"foodgram/internal/models"
)

// IngredientRepository defines the interface for ingredient catalog access.
type IngredientRepository interface {
	List(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id string) (*models.Ingredient, error)
	// GetByIDs returns the ingredients that exist among ids; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]models.Ingredient, error)
	GetByName(ctx context.Context, name string) (*models.Ingredient, error)
	Create(ctx context.Context, ingredient *models.Ingredient) error
}

// TagRepository defines the interface for tag catalog access.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	// GetByIDs returns the tags that exist among ids; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
}
