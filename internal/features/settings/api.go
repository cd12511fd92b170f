package settings

import (
	"go-analytics/internal/common/api"
	"go-analytics/internal/config"
	"go-analytics/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SettingsApi struct {
	Controller *SettingsController
	Config     *config.Config
}

func NewSettingsApi(controller *SettingsController, config *config.Config) api.Route {
	return &SettingsApi{
		Controller: controller,
		Config:     config,
	}
}

func (a *SettingsApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(a.Config.SkipAuth)

	app.Get("/api/catalog", auth, a.Controller.GetCatalog)

	group := app.Group("/api/settings", auth)
	group.Get("/catalog", a.Controller.GetCatalogOverride)
	group.Put("/catalog", a.Controller.UpdateCatalogOverride)
}
