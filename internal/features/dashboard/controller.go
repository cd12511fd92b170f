package dashboard

import (
	"errors"
	"net/url"
	"time"

	"go-analytics/internal/features/timeline"
	"go-analytics/internal/features/widget"
	"go-analytics/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	DashboardService DashboardService
}

func NewDashboardController(dashboardService DashboardService) *DashboardController {
	return &DashboardController{
		DashboardService: dashboardService,
	}
}

type saveDraftRequest struct {
	Name string `json:"name"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type addWidgetRequest struct {
	Widget string `json:"widget"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type importRequest struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

type layoutRequest struct {
	Layout Layout `json:"layout"`
}

// ListDashboards godoc
// @Summary List dashboards
// @Description List the saved dashboards and the drafts of the current user
// @Tags dashboard
// @Produce json
// @Success 200 {array} Dashboard
// @Failure 500 {object} map[string]interface{}
// @Router /api/dashboards [get]
func (ctrl *DashboardController) ListDashboards(c *fiber.Ctx) error {
	dashboards, err := ctrl.DashboardService.ListDashboards(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dashboards)
}

// SaveDashboard godoc
// @Summary Save dashboard
// @Description Save a new dashboard under a unique name
// @Tags dashboard
// @Accept json
// @Produce json
// @Param dashboard body Dashboard true "Dashboard"
// @Success 201 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/dashboards [post]
func (ctrl *DashboardController) SaveDashboard(c *fiber.Ctx) error {
	var dashboard Dashboard
	if err := c.BodyParser(&dashboard); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	saved, err := ctrl.DashboardService.SaveDashboard(c.UserContext(), middleware.UserID(c), dashboard)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// GetDashboard godoc
// @Summary Get dashboard
// @Description Get a saved dashboard, a draft or a standard dashboard by name
// @Tags dashboard
// @Produce json
// @Param name path string true "Dashboard name"
// @Success 200 {object} Dashboard
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{name} [get]
func (ctrl *DashboardController) GetDashboard(c *fiber.Ctx) error {
	dashboard, err := ctrl.DashboardService.GetDashboard(c.UserContext(), middleware.UserID(c), param(c, "name"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dashboard)
}

// GetDefaultDashboard godoc
// @Summary Get default dashboard
// @Description Get the preferred dashboard, else the first saved one, else the first standard dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} Dashboard
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/default [get]
func (ctrl *DashboardController) GetDefaultDashboard(c *fiber.Ctx) error {
	dashboard, err := ctrl.DashboardService.DefaultDashboard(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dashboard)
}

// UpdateDashboard godoc
// @Summary Update dashboard items
// @Description Replace the item list of a saved dashboard or a draft
// @Tags dashboard
// @Accept json
// @Produce json
// @Param name path string true "Dashboard name"
// @Param items body []widget.Config true "Items"
// @Success 200 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{name} [put]
func (ctrl *DashboardController) UpdateDashboard(c *fiber.Ctx) error {
	var items []widget.Config
	if err := c.BodyParser(&items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dashboard, err := ctrl.DashboardService.UpdateDashboard(c.UserContext(), middleware.UserID(c), param(c, "name"), items)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dashboard)
}

// RenameDashboard godoc
// @Summary Rename dashboard
// @Tags dashboard
// @Accept json
// @Produce json
// @Param name path string true "Dashboard name"
// @Param body body renameRequest true "New name"
// @Success 200 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/dashboards/{name}/rename [post]
func (ctrl *DashboardController) RenameDashboard(c *fiber.Ctx) error {
	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dashboard, err := ctrl.DashboardService.RenameDashboard(c.UserContext(), middleware.UserID(c), param(c, "name"), req.Name)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dashboard)
}

// DeleteDashboard godoc
// @Summary Delete dashboard
// @Tags dashboard
// @Param name path string true "Dashboard name"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{name} [delete]
func (ctrl *DashboardController) DeleteDashboard(c *fiber.Ctx) error {
	if err := ctrl.DashboardService.DeleteDashboard(c.UserContext(), middleware.UserID(c), param(c, "name")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// NewDraft godoc
// @Summary Open a draft dashboard
// @Description Create an unsaved dashboard, optionally from a standard dashboard
// @Tags dashboard
// @Produce json
// @Param template query string false "Standard dashboard name"
// @Success 201 {object} Dashboard
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/drafts [post]
func (ctrl *DashboardController) NewDraft(c *fiber.Ctx) error {
	draft, err := ctrl.DashboardService.NewDraft(c.UserContext(), middleware.UserID(c), c.Query("template"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(draft)
}

// SaveDraft godoc
// @Summary Save a draft dashboard
// @Tags dashboard
// @Accept json
// @Produce json
// @Param name path string true "Draft name"
// @Param body body saveDraftRequest true "Name to save under"
// @Success 201 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/dashboards/drafts/{name}/save [post]
func (ctrl *DashboardController) SaveDraft(c *fiber.Ctx) error {
	var req saveDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	saved, err := ctrl.DashboardService.SaveDraft(c.UserContext(), middleware.UserID(c), param(c, "name"), req.Name)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// AddWidget godoc
// @Summary Add a catalogue widget
// @Tags dashboard
// @Accept json
// @Produce json
// @Param name path string true "Dashboard name"
// @Param body body addWidgetRequest true "Catalogue widget and grid position"
// @Success 201 {object} widget.Config
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{name}/widgets [post]
func (ctrl *DashboardController) AddWidget(c *fiber.Ctx) error {
	var req addWidgetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := ctrl.DashboardService.AddWidget(c.UserContext(), middleware.UserID(c), param(c, "name"), req.Widget, req.X, req.Y)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateWidget godoc
// @Summary Update a dashboard item
// @Description Rename, move, resize or toggle the chart type of an item
// @Tags dashboard
// @Accept json
// @Produce json
// @Param name path string true "Dashboard name"
// @Param id path string true "Item id"
// @Param body body WidgetUpdate true "Changes"
// @Success 200 {object} widget.Config
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{name}/widgets/{id} [patch]
func (ctrl *DashboardController) UpdateWidget(c *fiber.Ctx) error {
	var update WidgetUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := ctrl.DashboardService.UpdateWidget(c.UserContext(), middleware.UserID(c), param(c, "name"), param(c, "id"), update)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(item)
}

// RemoveWidget godoc
// @Summary Remove a dashboard item
// @Tags dashboard
// @Param name path string true "Dashboard name"
// @Param id path string true "Item id"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{name}/widgets/{id} [delete]
func (ctrl *DashboardController) RemoveWidget(c *fiber.Ctx) error {
	if err := ctrl.DashboardService.RemoveWidget(c.UserContext(), middleware.UserID(c), param(c, "name"), param(c, "id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetDefault godoc
// @Summary Set default dashboard
// @Tags dashboard
// @Param name path string true "Dashboard name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{name}/default [post]
func (ctrl *DashboardController) SetDefault(c *fiber.Ctx) error {
	if err := ctrl.DashboardService.SetDefault(c.UserContext(), middleware.UserID(c), param(c, "name")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Default dashboard updated"})
}

// GetLayout godoc
// @Summary Get dashboard layout preference
// @Tags dashboard
// @Produce json
// @Success 200 {object} layoutRequest
// @Router /api/dashboards/layout [get]
func (ctrl *DashboardController) GetLayout(c *fiber.Ctx) error {
	layout, err := ctrl.DashboardService.Layout(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(layoutRequest{Layout: layout})
}

// SetLayout godoc
// @Summary Set dashboard layout preference
// @Tags dashboard
// @Accept json
// @Param body body layoutRequest true "fixed or scrollable"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/dashboards/layout [put]
func (ctrl *DashboardController) SetLayout(c *fiber.Ctx) error {
	var req layoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := ctrl.DashboardService.SetLayout(c.UserContext(), middleware.UserID(c), req.Layout); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Layout updated"})
}

// ResetDashboards godoc
// @Summary Reset dashboards
// @Description Remove every saved dashboard and the default preference
// @Tags dashboard
// @Success 200 {object} map[string]interface{}
// @Router /api/dashboards/reset [post]
func (ctrl *DashboardController) ResetDashboards(c *fiber.Ctx) error {
	if err := ctrl.DashboardService.ResetDashboards(c.UserContext(), middleware.UserID(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Dashboards reset"})
}

// ShareDashboard godoc
// @Summary Share dashboard
// @Description Get a token another user can import
// @Tags dashboard
// @Produce json
// @Param name path string true "Dashboard name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{name}/share [post]
func (ctrl *DashboardController) ShareDashboard(c *fiber.Ctx) error {
	token, err := ctrl.DashboardService.ShareDashboard(c.UserContext(), middleware.UserID(c), param(c, "name"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// ImportDashboard godoc
// @Summary Import a shared dashboard
// @Tags dashboard
// @Accept json
// @Produce json
// @Param body body importRequest true "Share token and optional name"
// @Success 201 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/dashboards/import [post]
func (ctrl *DashboardController) ImportDashboard(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	saved, err := ctrl.DashboardService.ImportSharedDashboard(c.UserContext(), middleware.UserID(c), req.Token, req.Name)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// RenderDashboard godoc
// @Summary Render dashboard
// @Description Fetch the current and previous period and shape every item of the dashboard
// @Tags dashboard
// @Produce json
// @Param name path string true "Dashboard name"
// @Param start query string false "First day (YYYY-MM-DD), default 30 days ago"
// @Param end query string false "Last day (YYYY-MM-DD), default today"
// @Param filter query string false "Select filter"
// @Param mask query string false "Date mask: YYYY-MM-DD, YYYY-MM or YYYY"
// @Success 200 {array} WidgetView
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{name}/render [get]
func (ctrl *DashboardController) RenderDashboard(c *fiber.Ctx) error {
	req, err := ParseRenderRequest(c.Query("start"), c.Query("end"), c.Query("filter"), c.Query("mask"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	views, err := ctrl.DashboardService.RenderDashboard(c.UserContext(), middleware.UserID(c), param(c, "name"), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(views)
}

// ParseRenderRequest reads a render period. Missing dates default to the 30 days ending today.
func ParseRenderRequest(start, end, filter, mask string, now time.Time) (RenderRequest, error) {
	displayMask, err := timeline.ParseMask(mask)
	if err != nil {
		return RenderRequest{}, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	req := RenderRequest{
		Start:        today.AddDate(0, 0, -29),
		End:          today,
		SelectFilter: filter,
		DateMask:     displayMask,
	}
	if start != "" {
		if req.Start, err = time.Parse(time.DateOnly, start); err != nil {
			return RenderRequest{}, err
		}
	}
	if end != "" {
		if req.End, err = time.Parse(time.DateOnly, end); err != nil {
			return RenderRequest{}, err
		}
	}
	if req.End.Before(req.Start) {
		return RenderRequest{}, errors.New("end date is before start date")
	}
	return req, nil
}

func param(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrDashboardNotFound), errors.Is(err, ErrWidgetNotFound), errors.Is(err, widget.ErrUnknownWidget):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrDuplicateName):
		status = fiber.StatusConflict
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrReservedName), errors.Is(err, ErrInvalidLayout),
		errors.Is(err, ErrInvalidShareToken), errors.Is(err, widget.ErrInvalidConfig), errors.Is(err, widget.ErrUnknownKind):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
