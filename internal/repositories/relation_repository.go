package repositories

import (
	"context"

	"foodgram/internal/models"
)

// RelationRepository manages the user-owned pair tables: favorites, shopping cart entries and follows.
// For RelationFollow the target is an author ID, otherwise a recipe ID.
type RelationRepository interface {
	// Add stores the pair, returning ErrDuplicate if it already exists.
	Add(ctx context.Context, kind models.RelationKind, userID, targetID string) error
	// Remove deletes the pair, returning ErrNotFound if it does not exist.
	Remove(ctx context.Context, kind models.RelationKind, userID, targetID string) error
	Exists(ctx context.Context, kind models.RelationKind, userID, targetID string) (bool, error)
	// CartLines returns every ingredient line of every recipe in userID's cart,
	// ordered by recipe name, recipe ID and line position.
	CartLines(ctx context.Context, userID string) ([]models.CartLine, error)
}
