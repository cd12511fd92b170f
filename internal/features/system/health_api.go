package system

import (
	"context"
	"time"

	"go-analytics/internal/common/api"
	"go-analytics/internal/database"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthApi struct {
	Store Pinger
	Hub   *Hub
}

func NewHealthApi(db *database.MongodbDB, hub *Hub) api.Route {
	return &HealthApi{Store: db, Hub: hub}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.HealthCheck)
	app.Get("/api/health/ready", h.ReadinessCheck)
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Check if the server is up
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Router       /api/health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// ReadinessCheck godoc
// @Summary      Readiness Check
// @Description  Check the database connection and report live dashboard subscribers
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /api/health/ready [get]
func (h *HealthApi) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok", "subscribers": h.Hub.Len()})
}
