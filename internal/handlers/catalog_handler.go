package handlers

import (
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the read-only ingredient and tag catalogs.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/tags", h.ListTags)
	router.Get("/tags/:id", h.GetTag)
	router.Get("/ingredients", h.ListIngredients)
	router.Get("/ingredients/:id", h.GetIngredient)
}

// ListTags returns every tag.
func (h *CatalogHandler) ListTags(c *fiber.Ctx) error {
	tags, err := h.catalogService.ListTags(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// GetTag returns one tag.
func (h *CatalogHandler) GetTag(c *fiber.Ctx) error {
	tag, err := h.catalogService.GetTag(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tag)
}

// ListIngredients returns ingredients, filtered by the "name" prefix query parameter.
func (h *CatalogHandler) ListIngredients(c *fiber.Ctx) error {
	ingredients, err := h.catalogService.ListIngredients(c.UserContext(), c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ingredients)
}

// GetIngredient returns one ingredient.
func (h *CatalogHandler) GetIngredient(c *fiber.Ctx) error {
	ingredient, err := h.catalogService.GetIngredient(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ingredient)
}
