package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	common_models "go-analytics/internal/common/models"
	"go-analytics/internal/features/audit"
	"go-analytics/internal/features/widget"

	"go.uber.org/zap"
)

type SettingsService interface {
	// CatalogOverride returns the stored overrides, empty when none are stored.
	CatalogOverride(ctx context.Context) (widget.Catalog, error)
	UpdateCatalogOverride(ctx context.Context, override widget.Catalog) error
	// Catalog returns the built-in catalogue merged with the stored overrides.
	Catalog(ctx context.Context) (widget.Catalog, error)

	UserValues(ctx context.Context, userID string) (map[string]string, error)
	PatchUserValues(ctx context.Context, userID string, values map[string]string) error
}

type SettingsServiceImpl struct {
	Repo         SettingsRepository
	UserRepo     UserSettingsRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewSettingsService(repo SettingsRepository, userRepo UserSettingsRepository, auditService audit.AuditService, logger *zap.Logger) SettingsService {
	return &SettingsServiceImpl{
		Repo:         repo,
		UserRepo:     userRepo,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *SettingsServiceImpl) CatalogOverride(ctx context.Context) (widget.Catalog, error) {
	settings, err := s.Repo.GetByType(ctx, SettingsTypeDashboardCatalog)
	if err != nil {
		return widget.Catalog{}, err
	}
	if settings == nil || settings.Catalog == "" {
		return widget.Catalog{Widgets: map[string]widget.Config{}}, nil
	}

	var override widget.Catalog
	if err := json.Unmarshal([]byte(settings.Catalog), &override); err != nil {
		return widget.Catalog{}, fmt.Errorf("decode catalog override: %w", err)
	}
	return override, nil
}

func (s *SettingsServiceImpl) UpdateCatalogOverride(ctx context.Context, override widget.Catalog) error {
	for id, w := range override.Widgets {
		w.ID = id
		if err := w.Validate(); err != nil {
			return err
		}
	}

	raw, err := json.Marshal(override)
	if err != nil {
		return err
	}

	old, err := s.CatalogOverride(ctx)
	if err != nil {
		return err
	}

	err = s.Repo.Upsert(ctx, &Settings{
		Type:      SettingsTypeDashboardCatalog,
		Catalog:   string(raw),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	err = s.AuditService.LogChange(ctx, common_models.AuditActionSettings, "settings", string(SettingsTypeDashboardCatalog), map[string]common_models.Change{
		"catalog": {
			Old: old,
			New: override,
		},
	})
	if err != nil {
		s.Logger.Warn("failed to write audit log", zap.String("settings", string(SettingsTypeDashboardCatalog)), zap.Error(err))
	}
	return nil
}

func (s *SettingsServiceImpl) Catalog(ctx context.Context) (widget.Catalog, error) {
	override, err := s.CatalogOverride(ctx)
	if err != nil {
		return widget.Catalog{}, err
	}
	return widget.Default().Merge(override), nil
}

func (s *SettingsServiceImpl) UserValues(ctx context.Context, userID string) (map[string]string, error) {
	settings, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return settings.Values, nil
}

func (s *SettingsServiceImpl) PatchUserValues(ctx context.Context, userID string, values map[string]string) error {
	return s.UserRepo.Patch(ctx, userID, values)
}
