package repositories

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{db: db}
}

// Create inserts the recipe row, bulk-inserts its lines and links its tags in one transaction.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe, lines []models.IngredientLine, tagIDs []string) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := insertLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		return replaceTags(tx, recipe, tagIDs)
	})
}

// Update replaces the scalar fields, the whole ingredient line set and the whole tag set.
func (r *GORMRecipeRepository) Update(ctx context.Context, recipe *models.Recipe, lines []models.IngredientLine, tagIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{ID: recipe.ID}).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
			"image":        recipe.Image,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update recipe %s: %w", recipe.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("recipe with ID %s not found for update: %w", recipe.ID, ErrNotFound)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientLine{}).Error; err != nil {
			return fmt.Errorf("failed to clear ingredient lines of recipe %s: %w", recipe.ID, err)
		}
		if err := insertLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		return replaceTags(tx, recipe, tagIDs)
	})
}

func insertLines(tx *gorm.DB, recipeID string, lines []models.IngredientLine) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].RecipeID = recipeID
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return fmt.Errorf("failed to insert ingredient lines of recipe %s: %w", recipeID, err)
	}
	return nil
}

func replaceTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []string) error {
	var tags []models.Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return fmt.Errorf("failed to load tags for recipe %s: %w", recipe.ID, err)
		}
	}
	assoc := tx.Model(recipe).Association("Tags")
	if len(tags) == 0 {
		if err := assoc.Clear(); err != nil {
			return fmt.Errorf("failed to clear tags of recipe %s: %w", recipe.ID, err)
		}
		return nil
	}
	if err := assoc.Replace(tags); err != nil {
		return fmt.Errorf("failed to set tags of recipe %s: %w", recipe.ID, err)
	}
	return nil
}

// Delete removes a recipe together with its lines, tag links, favorites and cart entries.
func (r *GORMRecipeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe := &models.Recipe{ID: id}
		for _, child := range []interface{}{&models.IngredientLine{}, &models.Favorite{}, &models.ShoppingCartEntry{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete dependents of recipe %s: %w", id, err)
			}
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear tags of recipe %s: %w", id, err)
		}
		res := tx.Delete(recipe)
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("recipe with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *GORMRecipeRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_lines.position ASC") }).
		Preload("Lines.Ingredient")
}

// GetByID retrieves a recipe with its author, tags and ordered ingredient lines.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.withAssociations(ctx).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recipe by ID %s: %w", id, err)
	}
	return &recipe, nil
}

// List returns recipes matching query, newest first.
func (r *GORMRecipeRepository) List(ctx context.Context, query RecipeQuery) ([]models.Recipe, error) {
	q := r.withAssociations(ctx).Model(&models.Recipe{})
	if query.AuthorID != "" {
		q = q.Where("recipes.author_id = ?", query.AuthorID)
	}
	if len(query.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", query.TagSlugs)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if query.FavoritedBy != "" {
		sub := r.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", query.FavoritedBy)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if query.InCartOf != "" {
		sub := r.db.Model(&models.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", query.InCartOf)
		q = q.Where("recipes.id IN (?)", sub)
	}

	var recipes []models.Recipe
	if err := q.Order("recipes.pub_date DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// ExistsByName reports whether any recipe already uses name.
func (r *GORMRecipeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check recipe name %q: %w", name, err)
	}
	return count > 0, nil
}

// CountByAuthor counts the recipes published by authorID.
func (r *GORMRecipeRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes of %s: %w", authorID, err)
	}
	return count, nil
}
