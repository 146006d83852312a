package services

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ImageStore persists uploaded image bytes and returns a retrievable URL.
type ImageStore interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
}

// Exchange and routing keys of recipe lifecycle events.
const (
	RecipeEventsExchange = "recipes"
	RecipeCreatedKey     = "recipe.created"
	RecipeUpdatedKey     = "recipe.updated"
	RecipeDeletedKey     = "recipe.deleted"
)

// RecipeEvent is the body of a recipe lifecycle event.
type RecipeEvent struct {
	RecipeID   string    `json:"recipe_id"`
	AuthorID   string    `json:"author_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publishRecipeEvent is fire-and-forget: failures are logged and never surface to the caller.
func publishRecipeEvent(p EventPublisher, routingKey string, event RecipeEvent) {
	if p == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("recipe_id", event.RecipeID).Msg("failed to encode recipe event")
		return
	}
	if err := p.Publish(RecipeEventsExchange, routingKey, body); err != nil {
		log.Warn().Err(err).Str("routing_key", routingKey).Str("recipe_id", event.RecipeID).Msg("failed to publish recipe event")
	}
}
