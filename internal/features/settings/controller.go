package settings

import (
	"errors"

	"go-analytics/internal/features/widget"

	"github.com/gofiber/fiber/v2"
)

type SettingsController struct {
	Service SettingsService
}

func NewSettingsController(service SettingsService) *SettingsController {
	return &SettingsController{
		Service: service,
	}
}

// GetCatalogOverride godoc
// @Summary Get catalogue overrides
// @Description Get the server-side widget, palette and dashboard template overrides
// @Tags settings
// @Produce json
// @Success 200 {object} widget.Catalog
// @Failure 500 {object} map[string]interface{}
// @Router /api/settings/catalog [get]
func (ctrl *SettingsController) GetCatalogOverride(c *fiber.Ctx) error {
	override, err := ctrl.Service.CatalogOverride(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(override)
}

// UpdateCatalogOverride godoc
// @Summary Update catalogue overrides
// @Description Replace the server-side catalogue overrides. Overrides win over built-in entries with the same key.
// @Tags settings
// @Accept json
// @Produce json
// @Param catalog body widget.Catalog true "Catalogue overrides"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/settings/catalog [put]
func (ctrl *SettingsController) UpdateCatalogOverride(c *fiber.Ctx) error {
	var override widget.Catalog
	if err := c.BodyParser(&override); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.UpdateCatalogOverride(c.UserContext(), override); err != nil {
		if errors.Is(err, widget.ErrInvalidConfig) || errors.Is(err, widget.ErrUnknownKind) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Catalog updated successfully"})
}

// GetCatalog godoc
// @Summary Get the widget catalogue
// @Description Built-in widgets, palettes and standard dashboards merged with the server overrides
// @Tags catalog
// @Produce json
// @Success 200 {object} widget.Catalog
// @Failure 500 {object} map[string]interface{}
// @Router /api/catalog [get]
func (ctrl *SettingsController) GetCatalog(c *fiber.Ctx) error {
	catalog, err := ctrl.Service.Catalog(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(catalog)
}
