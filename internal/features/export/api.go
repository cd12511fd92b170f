package export

import (
	"go-analytics/internal/common/api"
	"go-analytics/internal/config"
	"go-analytics/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	ExportController *ExportController
	Config           *config.Config
}

func NewExportApi(exportController *ExportController, cfg *config.Config) api.Route {
	return &ExportApi{
		ExportController: exportController,
		Config:           cfg,
	}
}

func (api *ExportApi) Setup(app *fiber.App) {
	group := app.Group("/api/exports", middleware.AuthMiddleware(api.Config.SkipAuth))
	group.Get("/dashboards/:name/widgets/:id", api.ExportController.ExportWidget)
}
