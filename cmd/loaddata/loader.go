package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Loader imports catalog fixtures. Entries that already exist are skipped.
type Loader struct {
	ingredients repositories.IngredientRepository
	tags        repositories.TagRepository
	users       repositories.UserRepository
}

// LoadResult counts the entries of one import.
type LoadResult struct {
	Created int
	Skipped int
}

type ingredientFixture struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagFixture struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// LoadIngredients reads a JSON array of {name, measurement_unit} objects.
func (l *Loader) LoadIngredients(ctx context.Context, r io.Reader) (LoadResult, error) {
	var fixtures []ingredientFixture
	if err := json.NewDecoder(r).Decode(&fixtures); err != nil {
		return LoadResult{}, fmt.Errorf("failed to decode ingredients: %w", err)
	}

	var res LoadResult
	for i, f := range fixtures {
		if f.Name == "" || f.MeasurementUnit == "" {
			return res, fmt.Errorf("ingredient #%d: name and measurement_unit are required", i+1)
		}
		err := l.ingredients.Create(ctx, &models.Ingredient{Name: f.Name, MeasurementUnit: f.MeasurementUnit})
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			res.Skipped++
		case err != nil:
			return res, err
		default:
			res.Created++
		}
	}
	return res, nil
}

// LoadTags reads a JSON array of {name, color, slug} objects.
func (l *Loader) LoadTags(ctx context.Context, r io.Reader) (LoadResult, error) {
	var fixtures []tagFixture
	if err := json.NewDecoder(r).Decode(&fixtures); err != nil {
		return LoadResult{}, fmt.Errorf("failed to decode tags: %w", err)
	}

	var res LoadResult
	for i, f := range fixtures {
		if f.Name == "" || f.Slug == "" {
			return res, fmt.Errorf("tag #%d: name and slug are required", i+1)
		}
		err := l.tags.Create(ctx, &models.Tag{Name: f.Name, Color: f.Color, Slug: f.Slug})
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			res.Skipped++
		case err != nil:
			return res, err
		default:
			res.Created++
		}
	}
	return res, nil
}

// Promote grants the admin role to the user registered with email.
func (l *Loader) Promote(ctx context.Context, email string) error {
	user, err := l.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user %s: %w", email, err)
	}
	if user.IsAdmin() {
		log.Info().Str("user_id", user.ID).Msg("user is already an admin")
		return nil
	}
	if err := l.users.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return err
	}
	log.Info().Str("user_id", user.ID).Str("email", email).Msg("user promoted to admin")
	return nil
}
