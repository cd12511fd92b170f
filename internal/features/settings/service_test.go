package settings

import (
	"context"
	"errors"
	"testing"

	common_models "go-analytics/internal/common/models"
	"go-analytics/internal/features/heatmap"
	"go-analytics/internal/features/widget"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockSettingsRepo struct {
	stored *Settings
}

func (m *mockSettingsRepo) GetByType(ctx context.Context, sType SettingsType) (*Settings, error) {
	if m.stored == nil || m.stored.Type != sType {
		return nil, nil
	}
	return m.stored, nil
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, settings *Settings) error {
	m.stored = settings
	return nil
}

type mockUserRepo struct {
	values map[string]map[string]string
}

func (m *mockUserRepo) Get(ctx context.Context, userID string) (*UserSettings, error) {
	values := map[string]string{}
	for k, v := range m.values[userID] {
		values[k] = v
	}
	return &UserSettings{UserID: userID, Values: values}, nil
}

func (m *mockUserRepo) Patch(ctx context.Context, userID string, values map[string]string) error {
	if m.values == nil {
		m.values = map[string]map[string]string{}
	}
	if m.values[userID] == nil {
		m.values[userID] = map[string]string{}
	}
	for k, v := range values {
		if v == "" {
			delete(m.values[userID], k)
			continue
		}
		m.values[userID][k] = v
	}
	return nil
}

type mockAudit struct {
	calls int
	err   error
}

func (m *mockAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.calls++
	return m.err
}

func (m *mockAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func (m *mockUserRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

func TestCatalogMergesStoredOverride(t *testing.T) {
	repo := &mockSettingsRepo{}
	auditSvc := &mockAudit{}
	svc := NewSettingsService(repo, &mockUserRepo{}, auditSvc, zap.NewNop())
	ctx := context.Background()

	catalog, err := svc.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(catalog.Widgets) != len(widget.Default().Widgets) {
		t.Errorf("expected the built-in catalogue when nothing is stored")
	}

	override := widget.Catalog{Widgets: map[string]widget.Config{
		"appProfileHeatmap": {Kind: widget.KindHeatmap, Query: "Custom", Title: "Custom", Heatmap: &heatmap.Config{Aggregation: "AppProfile"}},
	}}
	if err := svc.UpdateCatalogOverride(ctx, override); err != nil {
		t.Fatalf("UpdateCatalogOverride() error = %v", err)
	}
	if auditSvc.calls != 1 {
		t.Errorf("audit calls = %d, want 1", auditSvc.calls)
	}

	catalog, err = svc.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	w, err := catalog.Widget("appProfileHeatmap")
	if err != nil || w.Query != "Custom" || w.Heatmap == nil {
		t.Errorf("override not applied: %+v, %v", w, err)
	}
}

func TestUpdateCatalogOverrideRejectsInvalidWidgets(t *testing.T) {
	repo := &mockSettingsRepo{}
	svc := NewSettingsService(repo, &mockUserRepo{}, &mockAudit{}, zap.NewNop())

	err := svc.UpdateCatalogOverride(context.Background(), widget.Catalog{Widgets: map[string]widget.Config{
		"broken": {Kind: widget.KindHeatmap, Query: "q"},
	}})
	if !errors.Is(err, widget.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if repo.stored != nil {
		t.Error("invalid override must not be stored")
	}
}

func TestUserValues(t *testing.T) {
	svc := NewSettingsService(&mockSettingsRepo{}, &mockUserRepo{}, &mockAudit{}, zap.NewNop())
	ctx := context.Background()

	if err := svc.PatchUserValues(ctx, "u1", map[string]string{"dashboard-layout": `"fixed"`, "dashboard-default": `"Overview"`}); err != nil {
		t.Fatalf("PatchUserValues() error = %v", err)
	}
	if err := svc.PatchUserValues(ctx, "u1", map[string]string{"dashboard-default": ""}); err != nil {
		t.Fatalf("PatchUserValues() error = %v", err)
	}

	values, err := svc.UserValues(ctx, "u1")
	if err != nil {
		t.Fatalf("UserValues() error = %v", err)
	}
	if len(values) != 1 || values["dashboard-layout"] != `"fixed"` {
		t.Errorf("UserValues() = %v", values)
	}
}

func TestUpdateCatalogOverrideLogsAuditFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := &mockSettingsRepo{}
	svc := NewSettingsService(repo, &mockUserRepo{}, &mockAudit{err: errors.New("audit store down")}, zap.New(core))

	override := widget.Catalog{Widgets: map[string]widget.Config{
		"appProfileHeatmap": {Kind: widget.KindHeatmap, Query: "Custom", Title: "Custom", Heatmap: &heatmap.Config{Aggregation: "AppProfile"}},
	}}
	if err := svc.UpdateCatalogOverride(context.Background(), override); err != nil {
		t.Fatalf("UpdateCatalogOverride() error = %v", err)
	}
	if repo.stored == nil {
		t.Error("override not stored")
	}
	if logs.FilterMessage("failed to write audit log").Len() != 1 {
		t.Errorf("audit failure not logged: %v", logs.All())
	}
}
