// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"foodgram/internal/database"
	"foodgram/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a private in-memory sqlite database with every table migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser stores a user with a unique username and email derived from name.
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     name + "@example.com",
		Username:  name,
		FirstName: name,
		LastName:  "Tester",
		Password:  "hashed",
		Role:      models.RoleUser,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}

// CreateIngredient stores an ingredient with the given name and unit.
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ing := &models.Ingredient{ID: uuid.New().String(), Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// CreateTag stores a tag whose slug is also its name.
func CreateTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()

	tag := &models.Tag{ID: uuid.New().String(), Name: slug, Color: "#E26C2D", Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}
