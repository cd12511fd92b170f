package dashboard

import (
	"go-analytics/internal/common/api"
	"go-analytics/internal/config"
	"go-analytics/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	DashboardController *DashboardController
	Config              *config.Config
}

func NewDashboardApi(dashboardController *DashboardController, cfg *config.Config) api.Route {
	return &DashboardApi{
		DashboardController: dashboardController,
		Config:              cfg,
	}
}

func (api *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboards", middleware.AuthMiddleware(api.Config.SkipAuth))
	ctrl := api.DashboardController

	group.Get("/", ctrl.ListDashboards)
	group.Post("/", ctrl.SaveDashboard)

	// Fixed paths first so they are not taken for dashboard names.
	group.Get("/default", ctrl.GetDefaultDashboard)
	group.Get("/layout", ctrl.GetLayout)
	group.Put("/layout", ctrl.SetLayout)
	group.Post("/reset", ctrl.ResetDashboards)
	group.Post("/import", ctrl.ImportDashboard)
	group.Post("/drafts", ctrl.NewDraft)
	group.Post("/drafts/:name/save", ctrl.SaveDraft)

	group.Get("/:name", ctrl.GetDashboard)
	group.Put("/:name", ctrl.UpdateDashboard)
	group.Delete("/:name", ctrl.DeleteDashboard)
	group.Post("/:name/rename", ctrl.RenameDashboard)
	group.Post("/:name/default", ctrl.SetDefault)
	group.Post("/:name/share", ctrl.ShareDashboard)
	group.Get("/:name/render", ctrl.RenderDashboard)

	group.Post("/:name/widgets", ctrl.AddWidget)
	group.Patch("/:name/widgets/:id", ctrl.UpdateWidget)
	group.Delete("/:name/widgets/:id", ctrl.RemoveWidget)
}
