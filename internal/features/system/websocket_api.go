package system

import (
	"go-analytics/internal/common/api"
	"go-analytics/internal/config"
	"go-analytics/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WebSocketApi struct {
	Controller *WebSocketController
	Config     *config.Config
}

func NewWebSocketApi(controller *WebSocketController, cfg *config.Config) api.Route {
	return &WebSocketApi{
		Controller: controller,
		Config:     cfg,
	}
}

func (h *WebSocketApi) Setup(app *fiber.App) {
	ws := app.Group("/api/ws", middleware.AuthMiddleware(h.Config.SkipAuth), func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals(userIDLocal, middleware.UserID(c))
		return c.Next()
	})
	ws.Get("/dashboards/:name", websocket.New(h.Controller.HandleDashboard))
}
