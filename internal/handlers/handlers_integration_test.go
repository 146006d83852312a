package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/models"
	"foodgram/internal/server"
	"foodgram/internal/testutil"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

// setupApp builds the full application over a private in-memory SQLite database.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := &config.Config{
		JWTSecret:         "test_jwt_secret",
		TokenTTL:          time.Hour,
		UniqueRecipeNames: true,
	}
	return &testEnv{t: t, app: server.NewApp(cfg, db, server.Integrations{}), db: db}
}

// do sends a request and returns the status and raw body.
func (e *testEnv) do(method, path, token string, body interface{}) (*http.Response, []byte) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, raw
}

// doJSON sends a request, asserts the status and decodes the JSON response into out.
func (e *testEnv) doJSON(method, path, token string, body interface{}, wantStatus int, out interface{}) {
	e.t.Helper()
	resp, raw := e.do(method, path, token, body)
	require.Equal(e.t, wantStatus, resp.StatusCode, string(raw))
	if out != nil {
		require.NoError(e.t, json.Unmarshal(raw, out), string(raw))
	}
}

// signUp registers a user and returns its ID and a bearer token.
func (e *testEnv) signUp(username string) (string, string) {
	e.t.Helper()
	var registered struct {
		User models.User `json:"user"`
	}
	e.doJSON(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": username,
		"last_name":  "Tester",
		"password":   "password123",
	}, http.StatusCreated, &registered)

	var login map[string]string
	e.doJSON(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "password123",
	}, http.StatusOK, &login)
	require.NotEmpty(e.t, login["auth_token"])
	return registered.User.ID, login["auth_token"]
}

type recipeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
	Author      struct {
		ID           string `json:"id"`
		IsSubscribed bool   `json:"is_subscribed"`
	} `json:"author"`
	Tags        []models.Tag `json:"tags"`
	Ingredients []struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	} `json:"ingredients"`
	IsFavorited      bool `json:"is_favorited"`
	IsInShoppingCart bool `json:"is_in_shopping_cart"`
}

func recipeBody(name string, tagIDs []string, lines ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"text":         "Mix everything and bake",
		"cooking_time": 30,
		"image":        "https://img.example.com/" + name + ".png",
		"tags":         tagIDs,
		"ingredients":  lines,
	}
}

func line(id string, amount int) map[string]interface{} {
	return map[string]interface{}{"id": id, "amount": amount}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := setupApp(t)

	body := map[string]string{
		"email":      "test@example.com",
		"username":   "testuser",
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	}
	var registerResp map[string]interface{}
	env.doJSON(http.MethodPost, "/api/auth/register", "", body, http.StatusCreated, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])
	user := registerResp["user"].(map[string]interface{})
	assert.NotContains(t, user, "password")

	env.doJSON(http.MethodPost, "/api/auth/register", "", body, http.StatusConflict, nil)

	var invalid map[string]interface{}
	env.doJSON(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "not-an-email"}, http.StatusBadRequest, &invalid)
	assert.Equal(t, "Validation failed", invalid["message"])
	assert.Contains(t, invalid["errors"], "email")

	var login map[string]string
	env.doJSON(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "test@example.com", "password": "password123",
	}, http.StatusOK, &login)
	assert.NotEmpty(t, login["auth_token"])

	env.doJSON(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "test@example.com", "password": "wrong-password",
	}, http.StatusUnauthorized, nil)
}

func TestCatalogEndpoints(t *testing.T) {
	env := setupApp(t)
	flour := testutil.CreateIngredient(t, env.db, "Flour", "g")
	testutil.CreateIngredient(t, env.db, "Fennel", "g")
	testutil.CreateIngredient(t, env.db, "Sugar", "g")
	tag := testutil.CreateTag(t, env.db, "dessert")

	var ingredients []models.Ingredient
	env.doJSON(http.MethodGet, "/api/ingredients?name=f", "", nil, http.StatusOK, &ingredients)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "Fennel", ingredients[0].Name)

	var ingredient models.Ingredient
	env.doJSON(http.MethodGet, "/api/ingredients/"+flour.ID, "", nil, http.StatusOK, &ingredient)
	assert.Equal(t, "g", ingredient.MeasurementUnit)
	env.doJSON(http.MethodGet, "/api/ingredients/missing", "", nil, http.StatusNotFound, nil)

	var tags []models.Tag
	env.doJSON(http.MethodGet, "/api/tags", "", nil, http.StatusOK, &tags)
	require.Len(t, tags, 1)
	env.doJSON(http.MethodGet, "/api/tags/"+tag.ID, "", nil, http.StatusOK, nil)
	env.doJSON(http.MethodGet, "/api/tags/missing", "", nil, http.StatusNotFound, nil)
}

func TestRecipeLifecycleAndShoppingList(t *testing.T) {
	env := setupApp(t)
	flour := testutil.CreateIngredient(t, env.db, "Flour", "g")
	sugar := testutil.CreateIngredient(t, env.db, "Sugar", "g")
	dessert := testutil.CreateTag(t, env.db, "dessert")

	authorID, authorToken := env.signUp("alice")
	readerID, readerToken := env.signUp("bob")

	// Author creates the recipe.
	var created recipeResponse
	env.doJSON(http.MethodPost, "/api/recipes", authorToken,
		recipeBody("Cake", []string{dessert.ID}, line(flour.ID, 200), line(sugar.ID, 50)),
		http.StatusCreated, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, authorID, created.Author.ID)
	require.Len(t, created.Ingredients, 2)
	assert.Equal(t, "Flour", created.Ingredients[0].Name)
	assert.Equal(t, 200, created.Ingredients[0].Amount)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "dessert", created.Tags[0].Slug)

	// Anonymous viewers never see favorite or cart flags.
	var anonymous recipeResponse
	env.doJSON(http.MethodGet, "/api/recipes/"+created.ID, "", nil, http.StatusOK, &anonymous)
	assert.False(t, anonymous.IsFavorited)
	assert.False(t, anonymous.IsInShoppingCart)

	// Reader favorites it.
	var short map[string]interface{}
	env.doJSON(http.MethodPost, "/api/recipes/"+created.ID+"/favorite", readerToken, nil, http.StatusCreated, &short)
	assert.Equal(t, "Cake", short["name"])
	env.doJSON(http.MethodPost, "/api/recipes/"+created.ID+"/favorite", readerToken, nil, http.StatusBadRequest, nil)

	var asReader recipeResponse
	env.doJSON(http.MethodGet, "/api/recipes/"+created.ID, readerToken, nil, http.StatusOK, &asReader)
	assert.True(t, asReader.IsFavorited)
	assert.False(t, asReader.IsInShoppingCart)

	// Reader adds it to the cart and downloads the shopping list.
	env.doJSON(http.MethodPost, "/api/recipes/"+created.ID+"/shopping_cart", readerToken, nil, http.StatusCreated, nil)
	resp, raw := env.do(http.MethodGet, "/api/recipes/download_shopping_cart", readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Equal(t, "attachment; filename=Shopping_Cart.txt", resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "1. Flour --- 200 (g)\n2. Sugar --- 50 (g)\n", string(raw))

	// Listing filters.
	var favorites []recipeResponse
	env.doJSON(http.MethodGet, "/api/recipes?is_favorited=1", readerToken, nil, http.StatusOK, &favorites)
	require.Len(t, favorites, 1)
	var authorFavorites []recipeResponse
	env.doJSON(http.MethodGet, "/api/recipes?is_favorited=1", authorToken, nil, http.StatusOK, &authorFavorites)
	assert.Empty(t, authorFavorites)
	var anonymousList []recipeResponse
	env.doJSON(http.MethodGet, "/api/recipes?is_favorited=1&tags=dessert", "", nil, http.StatusOK, &anonymousList)
	assert.Len(t, anonymousList, 1)
	var byAuthor []recipeResponse
	env.doJSON(http.MethodGet, "/api/recipes?author="+readerID, "", nil, http.StatusOK, &byAuthor)
	assert.Empty(t, byAuthor)

	// Removal.
	env.doJSON(http.MethodDelete, "/api/recipes/"+created.ID+"/favorite", readerToken, nil, http.StatusNoContent, nil)
	env.doJSON(http.MethodDelete, "/api/recipes/"+created.ID+"/favorite", readerToken, nil, http.StatusNotFound, nil)

	// Only the author may update.
	update := recipeBody("Cake", nil, line(sugar.ID, 80))
	update["image"] = ""
	env.doJSON(http.MethodPatch, "/api/recipes/"+created.ID, readerToken, update, http.StatusForbidden, nil)

	var updated recipeResponse
	env.doJSON(http.MethodPatch, "/api/recipes/"+created.ID, authorToken, update, http.StatusOK, &updated)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Sugar", updated.Ingredients[0].Name)
	assert.Equal(t, 80, updated.Ingredients[0].Amount)
	assert.Empty(t, updated.Tags)
	assert.Equal(t, created.Image, updated.Image)

	// Deleting the recipe empties the reader's cart.
	env.doJSON(http.MethodDelete, "/api/recipes/"+created.ID, readerToken, nil, http.StatusForbidden, nil)
	env.doJSON(http.MethodDelete, "/api/recipes/"+created.ID, authorToken, nil, http.StatusNoContent, nil)
	env.doJSON(http.MethodGet, "/api/recipes/"+created.ID, "", nil, http.StatusNotFound, nil)
	resp, raw = env.do(http.MethodGet, "/api/recipes/download_shopping_cart", readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, string(raw))
}

type validationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func TestRecipeValidation(t *testing.T) {
	env := setupApp(t)
	flour := testutil.CreateIngredient(t, env.db, "Flour", "g")
	_, token := env.signUp("alice")

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"cooking time", func() map[string]interface{} {
			b := recipeBody("Bread", nil, line(flour.ID, 100))
			b["cooking_time"] = 0
			return b
		}(), "cooking_time"},
		{"amount", recipeBody("Bread", nil, line(flour.ID, 0)), "amount"},
		{"unknown ingredient", recipeBody("Bread", nil, line("missing", 10)), "ingredients"},
		{"unknown tag", recipeBody("Bread", []string{"missing"}, line(flour.ID, 10)), "tags"},
		{"no ingredients", recipeBody("Bread", nil), "ingredients"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp validationResponse
			env.doJSON(http.MethodPost, "/api/recipes", token, tt.body, http.StatusBadRequest, &resp)
			assert.Equal(t, "Validation failed", resp.Message)
			assert.Contains(t, resp.Errors, tt.field)
		})
	}

	env.doJSON(http.MethodPost, "/api/recipes", token, recipeBody("Bread", nil, line(flour.ID, 10)), http.StatusCreated, nil)
	var dup validationResponse
	env.doJSON(http.MethodPost, "/api/recipes", token, recipeBody("Bread", nil, line(flour.ID, 20)), http.StatusBadRequest, &dup)
	assert.Contains(t, dup.Errors, "name")

	env.doJSON(http.MethodPost, "/api/recipes", "", recipeBody("Toast", nil, line(flour.ID, 10)), http.StatusUnauthorized, nil)
}

func TestSubscriptions(t *testing.T) {
	env := setupApp(t)
	flour := testutil.CreateIngredient(t, env.db, "Flour", "g")
	authorID, authorToken := env.signUp("alice")
	readerID, readerToken := env.signUp("bob")

	env.doJSON(http.MethodPost, "/api/recipes", authorToken, recipeBody("Bread", nil, line(flour.ID, 10)), http.StatusCreated, nil)
	env.doJSON(http.MethodPost, "/api/recipes", authorToken, recipeBody("Buns", nil, line(flour.ID, 20)), http.StatusCreated, nil)

	env.doJSON(http.MethodPost, "/api/users/"+readerID+"/subscribe", readerToken, nil, http.StatusBadRequest, nil)
	env.doJSON(http.MethodPost, "/api/users/missing/subscribe", readerToken, nil, http.StatusNotFound, nil)

	var author map[string]interface{}
	env.doJSON(http.MethodPost, "/api/users/"+authorID+"/subscribe", readerToken, nil, http.StatusCreated, &author)
	assert.Equal(t, true, author["is_subscribed"])
	env.doJSON(http.MethodPost, "/api/users/"+authorID+"/subscribe", readerToken, nil, http.StatusBadRequest, nil)

	var profile map[string]interface{}
	env.doJSON(http.MethodGet, "/api/users/"+authorID, readerToken, nil, http.StatusOK, &profile)
	assert.Equal(t, true, profile["is_subscribed"])
	env.doJSON(http.MethodGet, "/api/users/"+authorID, "", nil, http.StatusOK, &profile)
	assert.Equal(t, false, profile["is_subscribed"])

	var subs []struct {
		ID           string `json:"id"`
		Username     string `json:"username"`
		IsSubscribed bool   `json:"is_subscribed"`
		RecipesCount int64  `json:"recipes_count"`
		Recipes      []struct {
			Name string `json:"name"`
		} `json:"recipes"`
	}
	env.doJSON(http.MethodGet, "/api/users/subscriptions?recipes_limit=1", readerToken, nil, http.StatusOK, &subs)
	require.Len(t, subs, 1)
	assert.Equal(t, "alice", subs[0].Username)
	assert.True(t, subs[0].IsSubscribed)
	assert.Equal(t, int64(2), subs[0].RecipesCount)
	assert.Len(t, subs[0].Recipes, 1)

	var me map[string]interface{}
	env.doJSON(http.MethodGet, "/api/users/me", readerToken, nil, http.StatusOK, &me)
	assert.Equal(t, "bob", me["username"])
	env.doJSON(http.MethodGet, "/api/users/me", "", nil, http.StatusUnauthorized, nil)

	env.doJSON(http.MethodDelete, "/api/users/"+authorID+"/subscribe", readerToken, nil, http.StatusNoContent, nil)
	env.doJSON(http.MethodDelete, "/api/users/"+authorID+"/subscribe", readerToken, nil, http.StatusNotFound, nil)
}

func TestHealthAndMetrics(t *testing.T) {
	env := setupApp(t)

	var health map[string]interface{}
	env.doJSON(http.MethodGet, "/health", "", nil, http.StatusOK, &health)
	assert.Equal(t, "healthy", health["status"])

	resp, raw := env.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "go_goroutines")
}
