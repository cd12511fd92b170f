package export

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go-analytics/internal/features/dashboard"
	"go-analytics/internal/features/widget"

	"go.uber.org/zap"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type ExportService interface {
	ExportWidget(ctx context.Context, userID, dashboardName, itemID string, req dashboard.RenderRequest, format Format) (*File, error)
}

type ExportServiceImpl struct {
	DashboardService dashboard.DashboardService
	Logger           *zap.Logger
}

func NewExportService(dashboardService dashboard.DashboardService, logger *zap.Logger) ExportService {
	return &ExportServiceImpl{
		DashboardService: dashboardService,
		Logger:           logger,
	}
}

// ExportWidget renders one item of a dashboard and encodes it as a file.
func (s *ExportServiceImpl) ExportWidget(ctx context.Context, userID, dashboardName, itemID string, req dashboard.RenderRequest, format Format) (*File, error) {
	d, err := s.DashboardService.GetDashboard(ctx, userID, dashboardName)
	if err != nil {
		return nil, err
	}
	var item *widget.Config
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			item = &d.Items[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %q", dashboard.ErrWidgetNotFound, itemID)
	}

	views := s.DashboardService.Render(ctx, []widget.Config{*item}, req)
	table, err := TableOf(views[0])
	if err != nil {
		return nil, err
	}
	data, err := Encode(table, format)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("widget exported",
		zap.String("dashboard", dashboardName),
		zap.String("widget", itemID),
		zap.String("format", string(format)),
		zap.Int("rows", len(table.Rows)),
	)
	return &File{
		Data:        data,
		Filename:    Filename(table.Title, itemID, format),
		ContentType: format.ContentType(),
	}, nil
}

// Filename derives a safe file name from the widget title, falling back to its id.
func Filename(title, id string, format Format) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(title, "_"), "_")
	if base == "" {
		base = id
	}
	return base + "." + string(format)
}
