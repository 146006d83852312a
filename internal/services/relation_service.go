package services

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/rs/zerolog/log"
)

// RelationService manages favorites, shopping cart entries and follows.
type RelationService struct {
	relationRepo repositories.RelationRepository
	recipeRepo   repositories.RecipeRepository
	userRepo     repositories.UserRepository
}

// NewRelationService creates a new RelationService.
func NewRelationService(
	relationRepo repositories.RelationRepository,
	recipeRepo repositories.RecipeRepository,
	userRepo repositories.UserRepository,
) *RelationService {
	return &RelationService{
		relationRepo: relationRepo,
		recipeRepo:   recipeRepo,
		userRepo:     userRepo,
	}
}

// AddFavorite marks recipeID as a favorite of actor.
func (s *RelationService) AddFavorite(ctx context.Context, actor Actor, recipeID string) (*RecipeShortView, error) {
	return s.addRecipeRelation(ctx, actor, models.RelationFavorite, recipeID)
}

// RemoveFavorite unmarks recipeID as a favorite of actor.
func (s *RelationService) RemoveFavorite(ctx context.Context, actor Actor, recipeID string) error {
	return s.remove(ctx, actor, models.RelationFavorite, recipeID)
}

// AddToCart puts recipeID into actor's shopping cart.
func (s *RelationService) AddToCart(ctx context.Context, actor Actor, recipeID string) (*RecipeShortView, error) {
	return s.addRecipeRelation(ctx, actor, models.RelationShoppingCart, recipeID)
}

// RemoveFromCart takes recipeID out of actor's shopping cart.
func (s *RelationService) RemoveFromCart(ctx context.Context, actor Actor, recipeID string) error {
	return s.remove(ctx, actor, models.RelationShoppingCart, recipeID)
}

// Follow subscribes actor to authorID's recipes. Following yourself is always rejected.
func (s *RelationService) Follow(ctx context.Context, actor Actor, authorID string) (*UserView, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	if actor.UserID == authorID {
		return nil, ErrSelfFollow
	}
	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, lookupErr("user "+authorID, err)
	}
	if err := s.add(ctx, actor, models.RelationFollow, authorID); err != nil {
		return nil, err
	}
	view := newUserView(author, true)
	return &view, nil
}

// Unfollow removes actor's subscription to authorID.
func (s *RelationService) Unfollow(ctx context.Context, actor Actor, authorID string) error {
	return s.remove(ctx, actor, models.RelationFollow, authorID)
}

// DownloadShoppingList renders the merged ingredient list of every recipe in actor's cart.
func (s *RelationService) DownloadShoppingList(ctx context.Context, actor Actor) (string, error) {
	if actor.IsAnonymous() {
		return "", ErrUnauthenticated
	}
	lines, err := s.relationRepo.CartLines(ctx, actor.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to load shopping cart: %w", err)
	}
	items := AggregateShoppingList(lines)
	metrics.RecordShoppingListDownload()
	log.Debug().Str("user_id", actor.UserID).Int("items", len(items)).Msg("shopping list generated")
	return FormatShoppingList(items), nil
}

func (s *RelationService) addRecipeRelation(ctx context.Context, actor Actor, kind models.RelationKind, recipeID string) (*RecipeShortView, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, lookupErr("recipe "+recipeID, err)
	}
	if err := s.add(ctx, actor, kind, recipeID); err != nil {
		return nil, err
	}
	view := newRecipeShortView(recipe)
	return &view, nil
}

func (s *RelationService) add(ctx context.Context, actor Actor, kind models.RelationKind, targetID string) error {
	if err := s.relationRepo.Add(ctx, kind, actor.UserID, targetID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("%s %s: %w", kind, targetID, ErrDuplicateRelation)
		}
		return fmt.Errorf("failed to add %s: %w", kind, err)
	}
	metrics.RecordRelation(string(kind), metrics.ActionAdd)
	return nil
}

func (s *RelationService) remove(ctx context.Context, actor Actor, kind models.RelationKind, targetID string) error {
	if actor.IsAnonymous() {
		return ErrUnauthenticated
	}
	if err := s.relationRepo.Remove(ctx, kind, actor.UserID, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%s %s: %w", kind, targetID, ErrNotFound)
		}
		return fmt.Errorf("failed to remove %s: %w", kind, err)
	}
	metrics.RecordRelation(string(kind), metrics.ActionRemove)
	return nil
}
