package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/pkg/storage"

	"github.com/rs/zerolog/log"
)

// IngredientAmountInput references a catalog ingredient by ID with the amount used.
type IngredientAmountInput struct {
	ID     string `json:"id" validate:"required"`
	Amount int    `json:"amount"`
}

// RecipeInput is the write form of a recipe. Image is a URL/reference or a base64 data URI.
type RecipeInput struct {
	Ingredients []IngredientAmountInput `json:"ingredients" validate:"required,dive"`
	Tags        []string                `json:"tags" validate:"dive,required"`
	Image       string                  `json:"image"`
	Name        string                  `json:"name" validate:"required,max=50"`
	Text        string                  `json:"text" validate:"required,max=1000"`
	CookingTime int                     `json:"cooking_time"`
}

// RecipeFilter narrows a recipe listing. The favorite and cart flags are ignored for anonymous viewers.
type RecipeFilter struct {
	AuthorID         string
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// RecipeService handles business logic for the recipe aggregate.
type RecipeService struct {
	recipeRepo     repositories.RecipeRepository
	ingredientRepo repositories.IngredientRepository
	tagRepo        repositories.TagRepository
	relationRepo   repositories.RelationRepository
	events         EventPublisher
	images         ImageStore
	uniqueNames    bool
}

// RecipeOption configures optional RecipeService collaborators.
type RecipeOption func(*RecipeService)

// WithEventPublisher publishes recipe lifecycle events through p.
func WithEventPublisher(p EventPublisher) RecipeOption {
	return func(s *RecipeService) { s.events = p }
}

// WithImageStore stores inline data URI images through store.
func WithImageStore(store ImageStore) RecipeOption {
	return func(s *RecipeService) { s.images = store }
}

// WithUniqueNames rejects the creation of a recipe whose name is already taken.
func WithUniqueNames(enabled bool) RecipeOption {
	return func(s *RecipeService) { s.uniqueNames = enabled }
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(
	recipeRepo repositories.RecipeRepository,
	ingredientRepo repositories.IngredientRepository,
	tagRepo repositories.TagRepository,
	relationRepo repositories.RelationRepository,
	opts ...RecipeOption,
) *RecipeService {
	s := &RecipeService{
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		tagRepo:        tagRepo,
		relationRepo:   relationRepo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create publishes a new recipe authored by actor.
func (s *RecipeService) Create(ctx context.Context, actor Actor, in RecipeInput) (*RecipeView, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(in.Image) == "" {
		return nil, invalid("image", "this field is required")
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	if s.uniqueNames {
		exists, err := s.recipeRepo.ExistsByName(ctx, in.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check recipe name: %w", err)
		}
		if exists {
			return nil, invalid("name", "a recipe named %q already exists", in.Name)
		}
	}
	image, err := s.resolveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    actor.UserID,
		Name:        in.Name,
		Image:       image,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}
	if err := s.recipeRepo.Create(ctx, recipe, buildLines(in.Ingredients), in.Tags); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	metrics.RecordRecipeWrite(metrics.OpCreate)
	log.Info().Str("recipe_id", recipe.ID).Str("author_id", actor.UserID).Msg("recipe created")
	publishRecipeEvent(s.events, RecipeCreatedKey, newRecipeEvent(recipe))
	return s.Get(ctx, actor, recipe.ID)
}

// Update replaces the recipe's scalar fields, ingredient lines and tags. An empty image keeps the current one.
func (s *RecipeService) Update(ctx context.Context, actor Actor, recipeID string, in RecipeInput) (*RecipeView, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, lookupErr("recipe "+recipeID, err)
	}
	if !actor.canModify(recipe.AuthorID) {
		return nil, ErrPermissionDenied
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	recipe.Name = in.Name
	recipe.Text = in.Text
	recipe.CookingTime = in.CookingTime
	if strings.TrimSpace(in.Image) != "" {
		image, err := s.resolveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = image
	}
	if err := s.recipeRepo.Update(ctx, recipe, buildLines(in.Ingredients), in.Tags); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, lookupErr("recipe "+recipeID, err)
		}
		return nil, fmt.Errorf("failed to update recipe %s: %w", recipeID, err)
	}

	metrics.RecordRecipeWrite(metrics.OpUpdate)
	log.Info().Str("recipe_id", recipe.ID).Str("actor_id", actor.UserID).Msg("recipe updated")
	publishRecipeEvent(s.events, RecipeUpdatedKey, newRecipeEvent(recipe))
	return s.Get(ctx, actor, recipe.ID)
}

// Delete removes the recipe together with its lines, tag links, favorites and cart entries.
func (s *RecipeService) Delete(ctx context.Context, actor Actor, recipeID string) error {
	if actor.IsAnonymous() {
		return ErrUnauthenticated
	}
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return lookupErr("recipe "+recipeID, err)
	}
	if !actor.canModify(recipe.AuthorID) {
		return ErrPermissionDenied
	}
	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return lookupErr("recipe "+recipeID, err)
		}
		return fmt.Errorf("failed to delete recipe %s: %w", recipeID, err)
	}

	metrics.RecordRecipeWrite(metrics.OpDelete)
	log.Info().Str("recipe_id", recipeID).Str("actor_id", actor.UserID).Msg("recipe deleted")
	publishRecipeEvent(s.events, RecipeDeletedKey, newRecipeEvent(recipe))
	return nil
}

// Get returns the read projection of a recipe for viewer.
func (s *RecipeService) Get(ctx context.Context, viewer Actor, recipeID string) (*RecipeView, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, lookupErr("recipe "+recipeID, err)
	}
	view, err := s.project(ctx, viewer, recipe)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// List returns recipes matching filter, newest first.
func (s *RecipeService) List(ctx context.Context, viewer Actor, filter RecipeFilter) ([]RecipeView, error) {
	query := repositories.RecipeQuery{AuthorID: filter.AuthorID, TagSlugs: filter.Tags}
	if !viewer.IsAnonymous() {
		if filter.IsFavorited {
			query.FavoritedBy = viewer.UserID
		}
		if filter.IsInShoppingCart {
			query.InCartOf = viewer.UserID
		}
	}

	recipes, err := s.recipeRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := s.project(ctx, viewer, &recipes[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ViewerFlags reports whether viewer has favorited recipeID and whether it is in viewer's cart.
// Anonymous viewers always get false for both without a storage lookup.
func (s *RecipeService) ViewerFlags(ctx context.Context, viewer Actor, recipeID string) (favorited, inCart bool, err error) {
	if viewer.IsAnonymous() {
		return false, false, nil
	}
	favorited, err = s.relationRepo.Exists(ctx, models.RelationFavorite, viewer.UserID, recipeID)
	if err != nil {
		return false, false, fmt.Errorf("failed to check favorite: %w", err)
	}
	inCart, err = s.relationRepo.Exists(ctx, models.RelationShoppingCart, viewer.UserID, recipeID)
	if err != nil {
		return false, false, fmt.Errorf("failed to check shopping cart: %w", err)
	}
	return favorited, inCart, nil
}

func (s *RecipeService) project(ctx context.Context, viewer Actor, recipe *models.Recipe) (RecipeView, error) {
	favorited, inCart, err := s.ViewerFlags(ctx, viewer, recipe.ID)
	if err != nil {
		return RecipeView{}, err
	}
	subscribed := false
	if !viewer.IsAnonymous() {
		subscribed, err = s.relationRepo.Exists(ctx, models.RelationFollow, viewer.UserID, recipe.AuthorID)
		if err != nil {
			return RecipeView{}, fmt.Errorf("failed to check subscription: %w", err)
		}
	}

	tags := make([]models.Tag, 0, len(recipe.Tags))
	tags = append(tags, recipe.Tags...)
	ingredients := make([]IngredientAmountView, 0, len(recipe.Lines))
	for _, line := range recipe.Lines {
		ingredients = append(ingredients, IngredientAmountView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	return RecipeView{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           newUserView(&recipe.Author, subscribed),
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		PubDate:          recipe.PubDate,
	}, nil
}

// validate checks the ranges and catalog references of a write input.
func (s *RecipeService) validate(ctx context.Context, in RecipeInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "this field is required")
	}
	if in.CookingTime < 1 {
		return invalid("cooking_time", "must be at least 1 minute")
	}
	if len(in.Ingredients) == 0 {
		return invalid("ingredients", "at least one ingredient is required")
	}
	for _, ing := range in.Ingredients {
		if ing.Amount < 1 {
			return invalid("amount", "amount of ingredient %s must be at least 1", ing.ID)
		}
	}

	ingredientIDs := distinct(in.Ingredients, func(i IngredientAmountInput) string { return i.ID })
	known, err := s.ingredientRepo.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	if missing := firstMissing(ingredientIDs, known, func(i models.Ingredient) string { return i.ID }); missing != "" {
		return invalid("ingredients", "ingredient %s does not exist", missing)
	}

	if len(in.Tags) > 0 {
		tagIDs := distinct(in.Tags, func(id string) string { return id })
		tags, err := s.tagRepo.GetByIDs(ctx, tagIDs)
		if err != nil {
			return fmt.Errorf("failed to load tags: %w", err)
		}
		if missing := firstMissing(tagIDs, tags, func(t models.Tag) string { return t.ID }); missing != "" {
			return invalid("tags", "tag %s does not exist", missing)
		}
	}
	return nil
}

func (s *RecipeService) resolveImage(ctx context.Context, image string) (string, error) {
	if !storage.IsDataURI(image) {
		return image, nil
	}
	data, contentType, err := storage.DecodeDataURI(image)
	if err != nil {
		return "", invalid("image", "must be a base64 encoded image")
	}
	if s.images == nil {
		return image, nil
	}
	url, err := s.images.Save(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store recipe image: %w", err)
	}
	return url, nil
}

func buildLines(in []IngredientAmountInput) []models.IngredientLine {
	lines := make([]models.IngredientLine, 0, len(in))
	for i, ing := range in {
		lines = append(lines, models.IngredientLine{IngredientID: ing.ID, Amount: ing.Amount, Position: i})
	}
	return lines
}

func newRecipeEvent(r *models.Recipe) RecipeEvent {
	return RecipeEvent{RecipeID: r.ID, AuthorID: r.AuthorID, Name: r.Name, OccurredAt: time.Now().UTC()}
}

func distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func firstMissing[T any](want []string, got []T, key func(T) string) string {
	found := make(map[string]struct{}, len(got))
	for _, item := range got {
		found[key(item)] = struct{}{}
	}
	for _, id := range want {
		if _, ok := found[id]; !ok {
			return id
		}
	}
	return ""
}
