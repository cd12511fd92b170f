package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"go-analytics/internal/features/settings"
)

// DashboardRepository persists a user's saved dashboards and dashboard preferences.
type DashboardRepository interface {
	List(ctx context.Context, userID string) ([]Dashboard, error)
	// SaveAll replaces the user's saved dashboards.
	SaveAll(ctx context.Context, userID string, dashboards []Dashboard) error
	DefaultName(ctx context.Context, userID string) (string, error)
	SetDefaultName(ctx context.Context, userID, name string) error
	Layout(ctx context.Context, userID string) (Layout, error)
	SetLayout(ctx context.Context, userID string, layout Layout) error
	// Reset removes the saved dashboards and the default preference.
	Reset(ctx context.Context, userID string) error
}

// DashboardRepositoryImpl stores dashboards as JSON documents in the user settings store.
type DashboardRepositoryImpl struct {
	Store settings.UserSettingsRepository
}

func NewDashboardRepository(store settings.UserSettingsRepository) DashboardRepository {
	return &DashboardRepositoryImpl{Store: store}
}

func (r *DashboardRepositoryImpl) List(ctx context.Context, userID string) ([]Dashboard, error) {
	dashboards := []Dashboard{}
	if err := r.get(ctx, userID, keyDashboards, &dashboards); err != nil {
		return nil, err
	}
	return dashboards, nil
}

func (r *DashboardRepositoryImpl) SaveAll(ctx context.Context, userID string, dashboards []Dashboard) error {
	return r.set(ctx, userID, keyDashboards, dashboards)
}

func (r *DashboardRepositoryImpl) DefaultName(ctx context.Context, userID string) (string, error) {
	var name string
	err := r.get(ctx, userID, keyDefault, &name)
	return name, err
}

func (r *DashboardRepositoryImpl) SetDefaultName(ctx context.Context, userID, name string) error {
	return r.set(ctx, userID, keyDefault, name)
}

func (r *DashboardRepositoryImpl) Layout(ctx context.Context, userID string) (Layout, error) {
	layout := LayoutFixed
	err := r.get(ctx, userID, keyLayout, &layout)
	return layout, err
}

func (r *DashboardRepositoryImpl) SetLayout(ctx context.Context, userID string, layout Layout) error {
	return r.set(ctx, userID, keyLayout, layout)
}

func (r *DashboardRepositoryImpl) Reset(ctx context.Context, userID string) error {
	return r.Store.Patch(ctx, userID, map[string]string{keyDashboards: "", keyDefault: ""})
}

// get decodes the value stored under key into v; v is left untouched when the key is absent.
func (r *DashboardRepositoryImpl) get(ctx context.Context, userID, key string, v any) error {
	us, err := r.Store.Get(ctx, userID)
	if err != nil {
		return err
	}
	raw, ok := us.Values[key]
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode user setting %s: %w", key, err)
	}
	return nil
}

func (r *DashboardRepositoryImpl) set(ctx context.Context, userID, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.Store.Patch(ctx, userID, map[string]string{key: string(raw)})
}
