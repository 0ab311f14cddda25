package handlers

import (
	"errors"

	"immoportal/internal/log"
	"immoportal/internal/repos"
	"immoportal/internal/services"
	"immoportal/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// APIHandler serves the read-only JSON endpoints.
type APIHandler struct {
	Properties *services.PropertyStore
}

// GET /api/v1/properties
func (h *APIHandler) List(c *fiber.Ctx) error {
	f, errMsg := parseFilter(c)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}
	list, err := h.Properties.Filtered(c.UserContext(), f)
	if err != nil {
		log.Error(c, "api.properties.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load listings"})
	}
	return c.JSON(fiber.Map{"count": len(list), "properties": list})
}

// GET /api/v1/properties/:id
func (h *APIHandler) Property(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	p, err := h.Properties.Get(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	if err != nil {
		log.Error(c, "api.property.fail", err, map[string]any{"property_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load listing"})
	}
	return c.JSON(p)
}

// GET /api/v1/session
func (h *APIHandler) Session(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"authenticated": false})
	}
	return c.JSON(fiber.Map{"authenticated": true, "profile": u})
}
