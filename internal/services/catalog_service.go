package services

import (
	"context"
	"fmt"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// CatalogService serves the ingredient and tag reference data.
type CatalogService struct {
	ingredientRepo repositories.IngredientRepository
	tagRepo        repositories.TagRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(ingredientRepo repositories.IngredientRepository, tagRepo repositories.TagRepository) *CatalogService {
	return &CatalogService{ingredientRepo: ingredientRepo, tagRepo: tagRepo}
}

// ListIngredients returns ingredients ordered by name whose name starts with namePrefix, ignoring case.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	ingredients, err := s.ingredientRepo.List(ctx, namePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	return ingredients, nil
}

// GetIngredient returns a single ingredient.
func (s *CatalogService) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	ingredient, err := s.ingredientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("ingredient "+id, err)
	}
	return ingredient, nil
}

// ListTags returns every tag.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

// GetTag returns a single tag.
func (s *CatalogService) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("tag "+id, err)
	}
	return tag, nil
}
