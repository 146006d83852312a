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

// GORMRelationRepository is a GORM implementation of RelationRepository.
type GORMRelationRepository struct {
	db *gorm.DB
}

// NewGORMRelationRepository creates a new instance of GORMRelationRepository.
func NewGORMRelationRepository(db *gorm.DB) *GORMRelationRepository {
	return &GORMRelationRepository{db: db}
}

// relationRow builds a new row of kind for the (user, target) pair.
func relationRow(kind models.RelationKind, userID, targetID string) (interface{}, error) {
	id := uuid.New().String()
	switch kind {
	case models.RelationFavorite:
		return &models.Favorite{ID: id, UserID: userID, RecipeID: targetID}, nil
	case models.RelationShoppingCart:
		return &models.ShoppingCartEntry{ID: id, UserID: userID, RecipeID: targetID}, nil
	case models.RelationFollow:
		return &models.Follow{ID: id, UserID: userID, AuthorID: targetID}, nil
	default:
		return nil, fmt.Errorf("unknown relation kind %q", kind)
	}
}

// relationModel returns an empty model of kind's table and the name of its target column.
func relationModel(kind models.RelationKind) (interface{}, string, error) {
	switch kind {
	case models.RelationFavorite:
		return &models.Favorite{}, "recipe_id", nil
	case models.RelationShoppingCart:
		return &models.ShoppingCartEntry{}, "recipe_id", nil
	case models.RelationFollow:
		return &models.Follow{}, "author_id", nil
	default:
		return nil, "", fmt.Errorf("unknown relation kind %q", kind)
	}
}

func (r *GORMRelationRepository) pair(ctx context.Context, kind models.RelationKind, userID, targetID string) (*gorm.DB, error) {
	model, column, err := relationModel(kind)
	if err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Model(model).Where("user_id = ? AND "+column+" = ?", userID, targetID), nil
}

// Add stores the (user, target) pair. The unique index settles races between the check and the insert.
func (r *GORMRelationRepository) Add(ctx context.Context, kind models.RelationKind, userID, targetID string) error {
	exists, err := r.Exists(ctx, kind, userID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s %s/%s: %w", kind, userID, targetID, ErrDuplicate)
	}

	row, err := relationRow(kind, userID, targetID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s %s/%s: %w", kind, userID, targetID, ErrDuplicate)
		}
		return fmt.Errorf("failed to add %s: %w", kind, err)
	}
	return nil
}

// Remove deletes the (user, target) pair. The model carries no primary key so only the pair filter applies.
func (r *GORMRelationRepository) Remove(ctx context.Context, kind models.RelationKind, userID, targetID string) error {
	model, column, err := relationModel(kind)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("user_id = ? AND "+column+" = ?", userID, targetID).Delete(model)
	if res.Error != nil {
		return fmt.Errorf("failed to remove %s: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s/%s: %w", kind, userID, targetID, ErrNotFound)
	}
	return nil
}

// Exists reports whether the (user, target) pair is stored.
func (r *GORMRelationRepository) Exists(ctx context.Context, kind models.RelationKind, userID, targetID string) (bool, error) {
	q, err := r.pair(ctx, kind, userID, targetID)
	if err != nil {
		return false, err
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", kind, err)
	}
	return count > 0, nil
}

// CartLines joins the user's cart with ingredient lines and the ingredient catalog.
func (r *GORMRelationRepository) CartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Table("shopping_cart_entries").
		Select("ingredient_lines.recipe_id AS recipe_id, ingredients.name AS name, "+
			"ingredients.measurement_unit AS measurement_unit, ingredient_lines.amount AS amount").
		Joins("JOIN recipes ON recipes.id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredient_lines ON ingredient_lines.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = ingredient_lines.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Order("recipes.name ASC, recipes.id ASC, ingredient_lines.position ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart of %s: %w", userID, err)
	}
	return lines, nil
}
