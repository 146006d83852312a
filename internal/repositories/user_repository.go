package repositories

import (
	"context"

	"foodgram/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role string) error
	// ListFollowed returns the authors userID follows, ordered by username.
	ListFollowed(ctx context.Context, userID string) ([]models.User, error)
}
