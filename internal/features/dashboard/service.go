package dashboard

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	common_models "go-analytics/internal/common/models"
	"go-analytics/internal/features/audit"
	"go-analytics/internal/features/chart"
	"go-analytics/internal/features/dataset"
	"go-analytics/internal/features/multilevelpie"
	"go-analytics/internal/features/timeline"
	"go-analytics/internal/features/widget"

	"go.uber.org/zap"
)

// CatalogSource provides the merged widget catalogue.
type CatalogSource interface {
	Catalog(ctx context.Context) (widget.Catalog, error)
}

type DashboardService interface {
	ListDashboards(ctx context.Context, userID string) ([]Dashboard, error)
	GetDashboard(ctx context.Context, userID, name string) (*Dashboard, error)
	NewDraft(ctx context.Context, userID, template string) (*Dashboard, error)
	SaveDashboard(ctx context.Context, userID string, dashboard Dashboard) (*Dashboard, error)
	SaveDraft(ctx context.Context, userID, draftName, newName string) (*Dashboard, error)
	UpdateDashboard(ctx context.Context, userID, name string, items []widget.Config) (*Dashboard, error)
	UpdateWidget(ctx context.Context, userID, name, itemID string, update WidgetUpdate) (*widget.Config, error)
	RenameDashboard(ctx context.Context, userID, oldName, newName string) (*Dashboard, error)
	DeleteDashboard(ctx context.Context, userID, name string) error
	AddWidget(ctx context.Context, userID, name, widgetID string, x, y int) (*widget.Config, error)
	RemoveWidget(ctx context.Context, userID, name, itemID string) error
	SetDefault(ctx context.Context, userID, name string) error
	DefaultDashboard(ctx context.Context, userID string) (*Dashboard, error)
	Layout(ctx context.Context, userID string) (Layout, error)
	SetLayout(ctx context.Context, userID string, layout Layout) error
	ResetDashboards(ctx context.Context, userID string) error
	ShareDashboard(ctx context.Context, userID, name string) (string, error)
	ImportSharedDashboard(ctx context.Context, userID, token, name string) (*Dashboard, error)
	RenderDashboard(ctx context.Context, userID, name string, req RenderRequest) ([]WidgetView, error)
	Render(ctx context.Context, items []widget.Config, req RenderRequest) []WidgetView
}

type DashboardServiceImpl struct {
	Repo         DashboardRepository
	Workspace    *Workspace
	Catalog      CatalogSource
	Datasets     dataset.DatasetService
	Resolver     *multilevelpie.Resolver
	AuditService audit.AuditService
	Logger       *zap.Logger

	// mu serializes read-modify-write cycles on the saved dashboard list.
	mu sync.Mutex
}

func NewDashboardService(
	repo DashboardRepository,
	workspace *Workspace,
	catalog CatalogSource,
	datasets dataset.DatasetService,
	resolver *multilevelpie.Resolver,
	auditService audit.AuditService,
	logger *zap.Logger,
) DashboardService {
	return &DashboardServiceImpl{
		Repo:         repo,
		Workspace:    workspace,
		Catalog:      catalog,
		Datasets:     datasets,
		Resolver:     resolver,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *DashboardServiceImpl) ListDashboards(ctx context.Context, userID string) ([]Dashboard, error) {
	saved, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(saved, s.Workspace.Drafts(userID)...), nil
}

// GetDashboard looks up a saved dashboard, then a draft, then a standard dashboard.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, userID, name string) (*Dashboard, error) {
	saved, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if i := indexOf(saved, name); i >= 0 {
		return &saved[i], nil
	}
	if d, ok := s.Workspace.Get(userID, name); ok {
		return &d, nil
	}

	catalog, err := s.Catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if t, ok := catalog.Template(name); ok {
		items, err := catalog.Instantiate(t)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Name: t.Name, Items: items}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrDashboardNotFound, name)
}

// NewDraft opens an unsaved dashboard, empty or filled from a standard dashboard.
func (s *DashboardServiceImpl) NewDraft(ctx context.Context, userID, template string) (*Dashboard, error) {
	items := []widget.Config{}
	if template != "" {
		catalog, err := s.Catalog.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		t, ok := catalog.Template(template)
		if !ok {
			return nil, fmt.Errorf("%w: template %q", ErrDashboardNotFound, template)
		}
		if items, err = catalog.Instantiate(t); err != nil {
			return nil, err
		}
	}
	d := s.Workspace.Create(userID, Dashboard{Items: items})
	return &d, nil
}

func (s *DashboardServiceImpl) SaveDashboard(ctx context.Context, userID string, dashboard Dashboard) (*Dashboard, error) {
	return s.save(ctx, userID, dashboard, common_models.AuditActionCreate)
}

func (s *DashboardServiceImpl) save(ctx context.Context, userID string, dashboard Dashboard, action common_models.AuditAction) (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	dashboard.Name = strings.TrimSpace(dashboard.Name)
	if err := validateName(dashboard.Name, saved, ""); err != nil {
		return nil, err
	}
	if err := validateItems(dashboard.Items); err != nil {
		return nil, err
	}
	if dashboard.Items == nil {
		dashboard.Items = []widget.Config{}
	}
	dashboard.Draft = false

	if err := s.Repo.SaveAll(ctx, userID, append(saved, dashboard)); err != nil {
		return nil, err
	}
	s.logChange(ctx, action, dashboard.Name, nil, dashboard)
	return &dashboard, nil
}

// SaveDraft persists a draft under a new name and drops it from the workspace.
func (s *DashboardServiceImpl) SaveDraft(ctx context.Context, userID, draftName, newName string) (*Dashboard, error) {
	draft, ok := s.Workspace.Get(userID, draftName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDashboardNotFound, draftName)
	}
	draft.Name = newName
	saved, err := s.SaveDashboard(ctx, userID, draft)
	if err != nil {
		return nil, err
	}
	s.Workspace.Remove(userID, draftName)
	return saved, nil
}

func (s *DashboardServiceImpl) UpdateDashboard(ctx context.Context, userID, name string, items []widget.Config) (*Dashboard, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []widget.Config{}
	}
	return s.mutate(ctx, userID, name, func(d *Dashboard) error {
		d.Items = items
		return nil
	})
}

// UpdateWidget renames, moves, resizes or toggles the chart type of one item.
func (s *DashboardServiceImpl) UpdateWidget(ctx context.Context, userID, name, itemID string, update WidgetUpdate) (*widget.Config, error) {
	var updated widget.Config
	_, err := s.mutate(ctx, userID, name, func(d *Dashboard) error {
		i := itemIndex(d.Items, itemID)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrWidgetNotFound, itemID)
		}
		item := d.Items[i].Clone()
		if update.Title != nil {
			item.Title = *update.Title
		}
		if update.Position != nil {
			item.Position = *update.Position
		}
		if update.ToggleChartType {
			p := item.Chart
			if item.Kind == widget.KindGrid {
				p = item.Grid
			}
			if p == nil {
				return fmt.Errorf("%w: widget %q of type %q has no chart type", widget.ErrInvalidConfig, itemID, item.Kind)
			}
			p.ChartType = chart.Toggle(p.ChartType, p.ChartTypes)
		}
		if err := item.Validate(); err != nil {
			return err
		}
		d.Items[i] = item
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *DashboardServiceImpl) RenameDashboard(ctx context.Context, userID, oldName, newName string) (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexOf(saved, oldName)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrDashboardNotFound, oldName)
	}
	newName = strings.TrimSpace(newName)
	if err := validateName(newName, saved, oldName); err != nil {
		return nil, err
	}

	saved[i].Name = newName
	if err := s.Repo.SaveAll(ctx, userID, saved); err != nil {
		return nil, err
	}
	if def, err := s.Repo.DefaultName(ctx, userID); err == nil && def == oldName {
		if err := s.Repo.SetDefaultName(ctx, userID, newName); err != nil {
			s.Logger.Warn("failed to carry default dashboard over rename", zap.String("userId", userID), zap.Error(err))
		}
	}
	s.logChange(ctx, common_models.AuditActionUpdate, newName, oldName, newName)
	return &saved[i], nil
}

func (s *DashboardServiceImpl) DeleteDashboard(ctx context.Context, userID, name string) error {
	if s.Workspace.Remove(userID, name) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.Repo.List(ctx, userID)
	if err != nil {
		return err
	}
	i := indexOf(saved, name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrDashboardNotFound, name)
	}
	old := saved[i]
	if err := s.Repo.SaveAll(ctx, userID, append(saved[:i:i], saved[i+1:]...)); err != nil {
		return err
	}
	if def, err := s.Repo.DefaultName(ctx, userID); err == nil && def == name {
		if err := s.Repo.SetDefaultName(ctx, userID, ""); err != nil {
			s.Logger.Warn("failed to clear default dashboard", zap.String("userId", userID), zap.Error(err))
		}
	}
	s.logChange(ctx, common_models.AuditActionDelete, name, old, "DELETED")
	return nil
}

// AddWidget instantiates a catalogue widget at the given grid position.
func (s *DashboardServiceImpl) AddWidget(ctx context.Context, userID, name, widgetID string, x, y int) (*widget.Config, error) {
	catalog, err := s.Catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	template, err := catalog.Widget(widgetID)
	if err != nil {
		return nil, err
	}
	item := widget.NewItem(template, x, y)

	if _, err := s.mutate(ctx, userID, name, func(d *Dashboard) error {
		d.Items = append(d.Items, item)
		return nil
	}); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *DashboardServiceImpl) RemoveWidget(ctx context.Context, userID, name, itemID string) error {
	_, err := s.mutate(ctx, userID, name, func(d *Dashboard) error {
		i := itemIndex(d.Items, itemID)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrWidgetNotFound, itemID)
		}
		d.Items = append(d.Items[:i:i], d.Items[i+1:]...)
		return nil
	})
	return err
}

func (s *DashboardServiceImpl) SetDefault(ctx context.Context, userID, name string) error {
	saved, err := s.Repo.List(ctx, userID)
	if err != nil {
		return err
	}
	if indexOf(saved, name) < 0 {
		return fmt.Errorf("%w: %q", ErrDashboardNotFound, name)
	}
	if err := s.Repo.SetDefaultName(ctx, userID, name); err != nil {
		return err
	}
	s.logChange(ctx, common_models.AuditActionDashboard, name, nil, "DEFAULT")
	return nil
}

// DefaultDashboard returns the preferred saved dashboard, else the first saved one, else
// the first standard dashboard.
func (s *DashboardServiceImpl) DefaultDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	saved, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if def, err := s.Repo.DefaultName(ctx, userID); err == nil {
		if i := indexOf(saved, def); i >= 0 {
			return &saved[i], nil
		}
	}
	if len(saved) > 0 {
		return &saved[0], nil
	}

	catalog, err := s.Catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog.Dashboards) == 0 {
		return nil, ErrDashboardNotFound
	}
	t := catalog.Dashboards[0]
	items, err := catalog.Instantiate(t)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Name: t.Name, Items: items}, nil
}

func (s *DashboardServiceImpl) Layout(ctx context.Context, userID string) (Layout, error) {
	return s.Repo.Layout(ctx, userID)
}

func (s *DashboardServiceImpl) SetLayout(ctx context.Context, userID string, layout Layout) error {
	if !layout.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLayout, layout)
	}
	if err := s.Repo.SetLayout(ctx, userID, layout); err != nil {
		return err
	}
	s.logChange(ctx, common_models.AuditActionDashboard, "*", nil, layout)
	return nil
}

func (s *DashboardServiceImpl) ResetDashboards(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.Repo.List(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.Reset(ctx, userID); err != nil {
		return err
	}
	s.logChange(ctx, common_models.AuditActionDelete, "*", old, "RESET")
	return nil
}

type sharedDashboard struct {
	Name  string          `json:"name"`
	Items []widget.Config `json:"items"`
}

// ShareDashboard encodes a dashboard into a token another user can import.
func (s *DashboardServiceImpl) ShareDashboard(ctx context.Context, userID, name string) (string, error) {
	d, err := s.GetDashboard(ctx, userID, name)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(sharedDashboard{Name: d.Name, Items: d.Items})
	if err != nil {
		return "", err
	}
	s.logChange(ctx, common_models.AuditActionShare, d.Name, nil, nil)
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// ImportSharedDashboard saves a shared dashboard, under name when given.
func (s *DashboardServiceImpl) ImportSharedDashboard(ctx context.Context, userID, token, name string) (*Dashboard, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}
	var shared sharedDashboard
	if err := json.Unmarshal(raw, &shared); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}
	if name == "" {
		name = shared.Name
	}
	return s.save(ctx, userID, Dashboard{Name: name, Items: shared.Items}, common_models.AuditActionImport)
}

func (s *DashboardServiceImpl) RenderDashboard(ctx context.Context, userID, name string, req RenderRequest) ([]WidgetView, error) {
	d, err := s.GetDashboard(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, d.Items, req), nil
}

// Render fetches the queries of all items for the current and previous period and shapes
// each item.
func (s *DashboardServiceImpl) Render(ctx context.Context, items []widget.Config, req RenderRequest) []WidgetView {
	mask := req.DateMask
	if mask == "" {
		mask = timeline.MaskDay
	}
	period := dataset.Period{
		Start:        req.Start,
		End:          req.End,
		SelectFilter: req.SelectFilter,
		DateMask:     string(mask),
	}
	data := s.Datasets.FetchPeriods(ctx, period, Queries(items))
	return RenderItems(ctx, s.Resolver, items, data, period, mask)
}

// mutate applies fn to a saved dashboard or a draft and stores the result.
func (s *DashboardServiceImpl) mutate(ctx context.Context, userID, name string, fn func(*Dashboard) error) (*Dashboard, error) {
	if draft, ok := s.Workspace.Get(userID, name); ok {
		draft.Items = cloneItems(draft.Items)
		if err := fn(&draft); err != nil {
			return nil, err
		}
		s.Workspace.Put(userID, draft)
		return &draft, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexOf(saved, name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrDashboardNotFound, name)
	}
	old := saved[i]
	updated := Dashboard{Name: old.Name, Items: cloneItems(old.Items)}
	if err := fn(&updated); err != nil {
		return nil, err
	}
	saved[i] = updated
	if err := s.Repo.SaveAll(ctx, userID, saved); err != nil {
		return nil, err
	}
	s.logChange(ctx, common_models.AuditActionUpdate, name, old, updated)
	return &updated, nil
}

func (s *DashboardServiceImpl) logChange(ctx context.Context, action common_models.AuditAction, name string, before, after interface{}) {
	err := s.AuditService.LogChange(ctx, action, "dashboards", name, map[string]common_models.Change{
		"dashboard": {Old: before, New: after},
	})
	if err != nil {
		s.Logger.Warn("failed to write audit log", zap.String("dashboard", name), zap.Error(err))
	}
}

func validateName(name string, saved []Dashboard, except string) error {
	if name == "" {
		return ErrInvalidName
	}
	if IsDraftName(name) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	for _, d := range saved {
		if d.Name != except && strings.EqualFold(d.Name, name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return nil
}

func validateItems(items []widget.Config) error {
	ids := make(map[string]bool, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if item.ID == "" || ids[item.ID] {
			return fmt.Errorf("%w: item ids must be unique and non-empty, got %q", widget.ErrInvalidConfig, item.ID)
		}
		ids[item.ID] = true
	}
	return nil
}

func indexOf(dashboards []Dashboard, name string) int {
	for i, d := range dashboards {
		if d.Name == name {
			return i
		}
	}
	return -1
}

func itemIndex(items []widget.Config, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []widget.Config) []widget.Config {
	out := make([]widget.Config, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
