package export

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"go-analytics/internal/features/dashboard"
	"go-analytics/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct {
	ExportService ExportService
}

func NewExportController(exportService ExportService) *ExportController {
	return &ExportController{
		ExportService: exportService,
	}
}

// ExportWidget godoc
// @Summary Export widget data
// @Description Render one dashboard item and download it as CSV or Excel
// @Tags export
// @Produce octet-stream
// @Param name path string true "Dashboard name"
// @Param id path string true "Item id"
// @Param format query string false "csv (default) or xlsx"
// @Param start query string false "First day (YYYY-MM-DD)"
// @Param end query string false "Last day (YYYY-MM-DD)"
// @Param filter query string false "Select filter"
// @Param mask query string false "Date mask"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/exports/dashboards/{name}/widgets/{id} [get]
func (ctrl *ExportController) ExportWidget(c *fiber.Ctx) error {
	format, err := ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	req, err := dashboard.ParseRenderRequest(c.Query("start"), c.Query("end"), c.Query("filter"), c.Query("mask"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	file, err := ctrl.ExportService.ExportWidget(c.UserContext(), middleware.UserID(c), unescape(c.Params("name")), unescape(c.Params("id")), req, format)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, dashboard.ErrDashboardNotFound), errors.Is(err, dashboard.ErrWidgetNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, ErrNotReady):
			status = fiber.StatusConflict
		case errors.Is(err, ErrUnsupportedFormat):
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", file.ContentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Filename))
	return c.Send(file.Data)
}

func unescape(raw string) string {
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
