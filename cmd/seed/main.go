package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"go-analytics/internal/config"
	"go-analytics/internal/database"
	"go-analytics/internal/features/audit"
	"go-analytics/internal/features/dashboard"
	"go-analytics/internal/features/dataset"
	"go-analytics/internal/features/multilevelpie"
	"go-analytics/internal/features/settings"
	"go-analytics/internal/features/widget"
	"go-analytics/internal/logger"
	"go-analytics/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Data path, assuming the command runs from the repository root
const catalogPath = "cmd/seed/data/catalog.json"

// Seed stores the catalogue override and saves every standard dashboard for the seed user
func Seed(
	lc fx.Lifecycle,
	settingsService settings.SettingsService,
	dashboardService dashboard.DashboardService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				userID := os.Getenv("SEED_USER_ID")
				if userID == "" {
					userID = "dev-user-id"
				}
				ctx := utils.WithClaims(context.Background(), &utils.UserClaims{UserID: userID})

				logger.Info("Starting dashboard seeding", zap.String("userId", userID))

				b, err := os.ReadFile(catalogPath)
				switch {
				case errors.Is(err, os.ErrNotExist):
					logger.Info("No catalogue override file, skipping", zap.String("path", catalogPath))
				case err != nil:
					logger.Error("Failed to read catalogue override", zap.Error(err))
					return
				default:
					var override widget.Catalog
					if err := json.Unmarshal(b, &override); err != nil {
						logger.Error("Invalid catalogue override", zap.Error(err))
						return
					}
					if err := settingsService.UpdateCatalogOverride(ctx, override); err != nil {
						logger.Error("Failed to store catalogue override", zap.Error(err))
						return
					}
					logger.Info("Catalogue override stored", zap.Int("widgets", len(override.Widgets)))
				}

				catalog, err := settingsService.Catalog(ctx)
				if err != nil {
					logger.Error("Failed to load catalogue", zap.Error(err))
					return
				}
				for _, t := range catalog.Dashboards {
					draft, err := dashboardService.NewDraft(ctx, userID, t.Name)
					if err != nil {
						logger.Error("Failed to open template", zap.String("dashboard", t.Name), zap.Error(err))
						continue
					}
					_, err = dashboardService.SaveDraft(ctx, userID, draft.Name, t.Name)
					switch {
					case errors.Is(err, dashboard.ErrDuplicateName):
						dashboardService.DeleteDashboard(ctx, userID, draft.Name)
						logger.Info("Dashboard exists, skipping", zap.String("dashboard", t.Name))
					case err != nil:
						logger.Error("Failed to save dashboard", zap.String("dashboard", t.Name), zap.Error(err))
					default:
						logger.Info("Dashboard saved", zap.String("dashboard", t.Name))
					}
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			audit.NewAuditRepository,
			audit.NewAuditService,
			settings.NewSettingsRepository,
			settings.NewUserSettingsRepository,
			settings.NewSettingsService,
			dashboard.NewDashboardRepository,
			dashboard.NewWorkspace,
			dataset.NewHTTPFetcher,
			dataset.NewDatasetService,
			multilevelpie.NewResolver,
			func(s settings.SettingsService) dashboard.CatalogSource { return s },
			dashboard.NewDashboardService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
