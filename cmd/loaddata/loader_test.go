package main

import (
	"context"
	"os"
	"strings"
	"testing"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T) (*Loader, *repositories.GORMUserRepository) {
	t.Helper()
	db := testutil.NewTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	return &Loader{
		ingredients: repositories.NewGORMIngredientRepository(db),
		tags:        repositories.NewGORMTagRepository(db),
		users:       users,
	}, users
}

func TestLoadIngredientsSkipsExisting(t *testing.T) {
	loader := &Loader{ingredients: repositories.NewMemoryIngredientRepository(models.Ingredient{ID: "ing-1", Name: "Flour", MeasurementUnit: "g"})}

	res, err := loader.LoadIngredients(context.Background(), strings.NewReader(
		`[{"name":"Flour","measurement_unit":"g"},{"name":"Sugar","measurement_unit":"g"}]`))
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Created: 1, Skipped: 1}, res)
}

func TestLoadIngredientsRejectsIncompleteEntry(t *testing.T) {
	loader := &Loader{ingredients: repositories.NewMemoryIngredientRepository()}

	_, err := loader.LoadIngredients(context.Background(), strings.NewReader(`[{"name":"Flour"}]`))
	assert.Error(t, err)

	_, err = loader.LoadIngredients(context.Background(), strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestLoadBundledFixtures(t *testing.T) {
	loader, _ := newTestLoader(t)
	ctx := context.Background()

	f, err := os.Open("data/ingredients.json")
	require.NoError(t, err)
	defer f.Close()
	res, err := loader.LoadIngredients(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Created)

	tags, err := os.Open("data/tags.json")
	require.NoError(t, err)
	defer tags.Close()
	res, err = loader.LoadTags(ctx, tags)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)

	_, err = tags.Seek(0, 0)
	require.NoError(t, err)
	res, err = loader.LoadTags(ctx, tags)
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Skipped: 3}, res)
}

func TestPromote(t *testing.T) {
	loader, users := newTestLoader(t)
	ctx := context.Background()

	user := &models.User{Email: "chef@example.com", Username: "chef", FirstName: "Chef", LastName: "Cook", Password: "hash", Role: models.RoleUser}
	require.NoError(t, users.Create(ctx, user))

	require.NoError(t, loader.Promote(ctx, "chef@example.com"))
	got, err := users.GetByEmail(ctx, "chef@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	assert.ErrorIs(t, loader.Promote(ctx, "nobody@example.com"), repositories.ErrNotFound)
}

func TestPromoteIsIdempotent(t *testing.T) {
	loader, users := newTestLoader(t)
	ctx := context.Background()

	admin := &models.User{Email: "root@example.com", Username: "root", FirstName: "Root", LastName: "Admin", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, users.Create(ctx, admin))

	require.NoError(t, loader.Promote(ctx, "root@example.com"))
	got, err := users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
}
