package middleware

import (
	"strings"

	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ActorKey is the Fiber locals key holding the services.Actor of the request.
const ActorKey = "actor"

// AuthRequired is a Fiber middleware that rejects requests without a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		actor, err := authenticate(authService, tokenString)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(ActorKey, actor)
		return c.Next()
	}
}

// AuthOptional resolves the actor when a valid token is present and lets anonymous requests through.
// A malformed or expired token is treated as anonymous.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := services.Anonymous
		if tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
			if a, err := authenticate(authService, tokenString); err == nil {
				actor = a
			}
		}
		c.Locals(ActorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor stored by the auth middleware, or Anonymous.
func ActorFrom(c *fiber.Ctx) services.Actor {
	if actor, ok := c.Locals(ActorKey).(services.Actor); ok {
		return actor
	}
	return services.Anonymous
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authenticate(authService *services.AuthService, tokenString string) (services.Actor, error) {
	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		return services.Anonymous, err
	}
	return services.ActorFromClaims(claims)
}
