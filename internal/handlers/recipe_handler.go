package handlers

import (
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ShoppingListFilename is the attachment name of the shopping list download.
const ShoppingListFilename = "Shopping_Cart.txt"

// RecipeHandler handles HTTP requests for recipes and recipe relations.
type RecipeHandler struct {
	recipeService   *services.RecipeService
	relationService *services.RelationService
	validate        *validator.Validate
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService *services.RecipeService, relationService *services.RelationService) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		relationService: relationService,
		validate:        newValidator(),
	}
}

// RegisterRoutes registers the recipe routes. requireAuth guards writes, optionalAuth resolves
// the viewer on reads.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	recipes := router.Group("/recipes")
	recipes.Get("/", optionalAuth, h.ListRecipes)
	recipes.Post("/", requireAuth, h.CreateRecipe)
	recipes.Get("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
	recipes.Get("/:id", optionalAuth, h.GetRecipe)
	recipes.Put("/:id", requireAuth, h.UpdateRecipe)
	recipes.Patch("/:id", requireAuth, h.UpdateRecipe)
	recipes.Delete("/:id", requireAuth, h.DeleteRecipe)
	recipes.Post("/:id/favorite", requireAuth, h.AddFavorite)
	recipes.Delete("/:id/favorite", requireAuth, h.RemoveFavorite)
	recipes.Post("/:id/shopping_cart", requireAuth, h.AddToCart)
	recipes.Delete("/:id/shopping_cart", requireAuth, h.RemoveFromCart)
}

// ListRecipes handles GET /recipes with the author, tags, is_favorited and is_in_shopping_cart filters.
func (h *RecipeHandler) ListRecipes(c *fiber.Ctx) error {
	filter := services.RecipeFilter{
		AuthorID:         c.Query("author"),
		IsFavorited:      c.QueryBool("is_favorited"),
		IsInShoppingCart: c.QueryBool("is_in_shopping_cart"),
	}
	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		if len(slug) > 0 {
			filter.Tags = append(filter.Tags, string(slug))
		}
	}

	recipes, err := h.recipeService.List(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipes)
}

// CreateRecipe handles POST /recipes.
func (h *RecipeHandler) CreateRecipe(c *fiber.Ctx) error {
	var in services.RecipeInput
	if ok, err := parseBody(c, h.validate, &in); !ok {
		return err
	}

	recipe, err := h.recipeService.Create(c.UserContext(), middleware.ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// GetRecipe handles GET /recipes/:id.
func (h *RecipeHandler) GetRecipe(c *fiber.Ctx) error {
	recipe, err := h.recipeService.Get(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// UpdateRecipe handles PUT and PATCH /recipes/:id. Both replace lines and tags wholesale.
func (h *RecipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	var in services.RecipeInput
	if ok, err := parseBody(c, h.validate, &in); !ok {
		return err
	}

	recipe, err := h.recipeService.Update(c.UserContext(), middleware.ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// DeleteRecipe handles DELETE /recipes/:id.
func (h *RecipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.Delete(c.UserContext(), middleware.ActorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddFavorite handles POST /recipes/:id/favorite.
func (h *RecipeHandler) AddFavorite(c *fiber.Ctx) error {
	recipe, err := h.relationService.AddFavorite(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// RemoveFavorite handles DELETE /recipes/:id/favorite.
func (h *RecipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	if err := h.relationService.RemoveFavorite(c.UserContext(), middleware.ActorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddToCart handles POST /recipes/:id/shopping_cart.
func (h *RecipeHandler) AddToCart(c *fiber.Ctx) error {
	recipe, err := h.relationService.AddToCart(c.UserContext(), middleware.ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// RemoveFromCart handles DELETE /recipes/:id/shopping_cart.
func (h *RecipeHandler) RemoveFromCart(c *fiber.Ctx) error {
	if err := h.relationService.RemoveFromCart(c.UserContext(), middleware.ActorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadShoppingCart handles GET /recipes/download_shopping_cart as a plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	text, err := h.relationService.DownloadShoppingList(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+ShoppingListFilename)
	return c.SendString(text)
}
