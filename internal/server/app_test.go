package server_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/server"
	"foodgram/internal/services"
	"foodgram/internal/testutil"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(exchange, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, exchange+"/"+routingKey)
	return nil
}

type memoryImageStore struct {
	saved [][]byte
}

func (s *memoryImageStore) Save(_ context.Context, data []byte, contentType string) (string, error) {
	s.saved = append(s.saved, data)
	return "https://images.example.com/recipe.png", nil
}

func request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestNewAppPublishesEventsAndStoresImages(t *testing.T) {
	db := testutil.NewTestDB(t)
	flour := testutil.CreateIngredient(t, db, "Flour", "g")
	publisher := &recordingPublisher{}
	images := &memoryImageStore{}
	cfg := &config.Config{JWTSecret: "test_jwt_secret", TokenTTL: time.Hour}
	app := server.NewApp(cfg, db, server.Integrations{Events: publisher, Images: images})

	status, _ := request(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "chef@example.com", "username": "chef", "first_name": "Chef", "last_name": "Cook", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)
	status, raw := request(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "chef@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	var login map[string]string
	require.NoError(t, json.Unmarshal(raw, &login))
	token := login["auth_token"]

	status, raw = request(t, app, http.MethodPost, "/api/recipes", token, map[string]interface{}{
		"name":         "Bread",
		"text":         "Knead and bake",
		"cooking_time": 45,
		"image":        "data:image/png;base64,iVBORw0KGgo=",
		"ingredients":  []map[string]interface{}{{"id": flour.ID, "amount": 500}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var recipe services.RecipeView
	require.NoError(t, json.Unmarshal(raw, &recipe))
	assert.Equal(t, "https://images.example.com/recipe.png", recipe.Image)
	require.Len(t, images.saved, 1)

	status, _ = request(t, app, http.MethodDelete, "/api/recipes/"+recipe.ID, token, nil)
	require.Equal(t, http.StatusNoContent, status)

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	assert.Equal(t, []string{"recipes/recipe.created", "recipes/recipe.deleted"}, publisher.keys)

	status, raw = request(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, true, health["rabbitmq"])
	assert.Equal(t, true, health["s3"])
}

func TestHealthDegradedWhenDatabaseClosed(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := server.NewApp(&config.Config{JWTSecret: "test_jwt_secret", TokenTTL: time.Hour}, db, server.Integrations{})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	status, raw := request(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, string(raw), "degraded")
}
