package services

import (
	"context"
	"fmt"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// UserService serves user profiles and subscription lists.
type UserService struct {
	userRepo     repositories.UserRepository
	recipeRepo   repositories.RecipeRepository
	relationRepo repositories.RelationRepository
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repositories.UserRepository,
	recipeRepo repositories.RecipeRepository,
	relationRepo repositories.RelationRepository,
) *UserService {
	return &UserService{userRepo: userRepo, recipeRepo: recipeRepo, relationRepo: relationRepo}
}

// Get returns userID's profile as seen by viewer.
func (s *UserService) Get(ctx context.Context, viewer Actor, userID string) (*UserView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr("user "+userID, err)
	}
	subscribed := false
	if !viewer.IsAnonymous() {
		subscribed, err = s.relationRepo.Exists(ctx, models.RelationFollow, viewer.UserID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check subscription: %w", err)
		}
	}
	view := newUserView(user, subscribed)
	return &view, nil
}

// Me returns the actor's own profile.
func (s *UserService) Me(ctx context.Context, actor Actor) (*UserView, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, lookupErr("user "+actor.UserID, err)
	}
	view := newUserView(user, false)
	return &view, nil
}

// Subscriptions lists the authors actor follows with their recipes, newest first.
// recipesLimit caps the recipes listed per author; zero or less lists all of them.
func (s *UserService) Subscriptions(ctx context.Context, actor Actor, recipesLimit int) ([]SubscriptionView, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	authors, err := s.userRepo.ListFollowed(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	views := make([]SubscriptionView, 0, len(authors))
	for i := range authors {
		author := &authors[i]
		recipes, err := s.recipeRepo.List(ctx, repositories.RecipeQuery{AuthorID: author.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to list recipes of %s: %w", author.ID, err)
		}
		count, err := s.recipeRepo.CountByAuthor(ctx, author.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count recipes of %s: %w", author.ID, err)
		}
		if recipesLimit > 0 && len(recipes) > recipesLimit {
			recipes = recipes[:recipesLimit]
		}
		short := make([]RecipeShortView, 0, len(recipes))
		for j := range recipes {
			short = append(short, newRecipeShortView(&recipes[j]))
		}
		views = append(views, SubscriptionView{
			UserView:     newUserView(author, true),
			Recipes:      short,
			RecipesCount: count,
		})
	}
	return views, nil
}
