package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"foodgram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, loader *Loader, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(func() (*Loader, error) { return loader, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandImportsFixtures(t *testing.T) {
	loader, _ := newTestLoader(t)

	out, err := executeRoot(t, loader, "ingredients", "data/ingredients.json")
	require.NoError(t, err)
	assert.Contains(t, out, "ingredients: 10 created, 0 skipped")

	out, err = executeRoot(t, loader, "tags", "data/tags.json")
	require.NoError(t, err)
	assert.Contains(t, out, "tags: 3 created, 0 skipped")

	out, err = executeRoot(t, loader, "tags", "data/tags.json")
	require.NoError(t, err)
	assert.Contains(t, out, "tags: 0 created, 3 skipped")
}

func TestRootCommandPromote(t *testing.T) {
	loader, users := newTestLoader(t)
	ctx := context.Background()
	user := &models.User{Email: "chef@example.com", Username: "chef", FirstName: "Chef", LastName: "Cook", Password: "hash"}
	require.NoError(t, users.Create(ctx, user))

	out, err := executeRoot(t, loader, "promote", "chef@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "chef@example.com is an admin")

	got, err := users.GetByEmail(ctx, "chef@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
}

func TestRootCommandErrors(t *testing.T) {
	loader, _ := newTestLoader(t)

	_, err := executeRoot(t, loader, "ingredients")
	assert.Error(t, err, "a file argument is required")

	_, err = executeRoot(t, loader, "ingredients", "data/missing.json")
	assert.Error(t, err)

	failing := NewRootCommand(func() (*Loader, error) { return nil, errors.New("database unavailable") })
	failing.SetArgs([]string{"promote", "chef@example.com"})
	failing.SetOut(&bytes.Buffer{})
	failing.SetErr(&bytes.Buffer{})
	assert.EqualError(t, failing.Execute(), "database unavailable")
}
