package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMIngredientRepository is a GORM implementation of IngredientRepository.
type GORMIngredientRepository struct {
	db *gorm.DB
}

// NewGORMIngredientRepository creates a new instance of GORMIngredientRepository.
func NewGORMIngredientRepository(db *gorm.DB) *GORMIngredientRepository {
	return &GORMIngredientRepository{db: db}
}

// List returns ingredients ordered by name, optionally filtered by a case-insensitive name prefix.
func (r *GORMIngredientRepository) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	q := r.db.WithContext(ctx).Order("name ASC")
	if namePrefix != "" {
		q = q.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// GetByID retrieves a single ingredient by its ID.
func (r *GORMIngredientRepository) GetByID(ctx context.Context, id string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingredient with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ingredient by ID %s: %w", id, err)
	}
	return &ingredient, nil
}

// GetByIDs retrieves all ingredients whose ID is in ids.
func (r *GORMIngredientRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients by IDs: %w", err)
	}
	return ingredients, nil
}

// GetByName retrieves an ingredient by its exact name.
func (r *GORMIngredientRepository) GetByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingredient %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ingredient by name %q: %w", name, err)
	}
	return &ingredient, nil
}

// Create inserts a new ingredient.
func (r *GORMIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("ingredient %q: %w", ingredient.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{db: db}
}

// List returns every tag ordered by name.
func (r *GORMTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetByID retrieves a single tag by its ID.
func (r *GORMTagRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tag by ID %s: %w", id, err)
	}
	return &tag, nil
}

// GetByIDs retrieves all tags whose ID is in ids.
func (r *GORMTagRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags by IDs: %w", err)
	}
	return tags, nil
}

// GetBySlug retrieves a tag by its slug.
func (r *GORMTagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tag by slug %q: %w", slug, err)
	}
	return &tag, nil
}

// Create inserts a new tag.
func (r *GORMTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("tag %q: %w", tag.Slug, ErrDuplicate)
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}
