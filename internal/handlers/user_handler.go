package handlers

import (
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for profiles and subscriptions.
type UserHandler struct {
	userService     *services.UserService
	relationService *services.RelationService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, relationService *services.RelationService) *UserHandler {
	return &UserHandler{userService: userService, relationService: relationService}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	users := router.Group("/users")
	users.Get("/me", requireAuth, h.Me)
	users.Get("/subscriptions", requireAuth, h.Subscriptions)
	users.Get("/:id", optionalAuth, h.GetUser)
	users.Post("/:id/subscribe", requireAuth, h.Subscribe)
	users.Delete("/:id/subscribe", requireAuth, h.Unsubscribe)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.Me(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// Subscriptions handles GET /users/subscriptions; recipes_limit caps the recipes listed per author.
func (h *UserHandler) Subscriptions(c *fiber.Ctx) error {
	subs, err := h.userService.Subscriptions(c.UserContext(), middleware.ActorFrom(c), c.QueryInt("recipes_limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subs)
}

// GetUser handles GET /users/:id.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// Subscribe handles POST /users/:id/subscribe.
func (h *UserHandler) Subscribe(c *fiber.Ctx) error {
	author, err := h.relationService.Follow(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(author)
}

// Unsubscribe handles DELETE /users/:id/subscribe.
func (h *UserHandler) Unsubscribe(c *fiber.Ctx) error {
	if err := h.relationService.Unfollow(c.UserContext(), middleware.ActorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
