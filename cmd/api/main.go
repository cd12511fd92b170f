package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-analytics/internal/common/api"
	"go-analytics/internal/config"
	"go-analytics/internal/database"
	"go-analytics/internal/features/audit"
	"go-analytics/internal/features/dashboard"
	"go-analytics/internal/features/dataset"
	"go-analytics/internal/features/export"
	"go-analytics/internal/features/multilevelpie"
	"go-analytics/internal/features/settings"
	"go-analytics/internal/features/system"
	"go-analytics/internal/logger"
	"go-analytics/internal/middleware"
	"go-analytics/pkg/utils"

	_ "go-analytics/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartRefresher runs the live dashboard refresh for the lifetime of the app.
func StartRefresher(lc fx.Lifecycle, refresher *system.Refresher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return refresher.Start()
		},
		OnStop: func(ctx context.Context) error {
			refresher.Stop()
			return nil
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, auditRepo audit.AuditRepository, userSettingsRepo settings.UserSettingsRepository, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := auditRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure audit indexes", zap.Error(err))
				}
				if err := userSettingsRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure user settings indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// @title           Analytics Dashboard API
// @version         1.0
// @description     Dashboards of stat, chart, timeline, heatmap, grid and multi-level pie widgets over the dataset service.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			audit.NewAuditRepository,
			settings.NewSettingsRepository,
			settings.NewUserSettingsRepository,
			dashboard.NewDashboardRepository,

			// Dataset service and widget shaping
			dataset.NewHTTPFetcher,
			dataset.NewDatasetService,
			multilevelpie.NewResolver,
			dashboard.NewWorkspace,

			audit.NewAuditService,
			settings.NewSettingsService,
			dashboard.NewDashboardService,
			export.NewExportService,

			// Interface Adapters
			func(s settings.SettingsService) dashboard.CatalogSource { return s },

			// Live refresh
			system.NewHub,
			system.NewRefresher,

			// Initialize Controller
			audit.NewAuditController,
			settings.NewSettingsController,
			dashboard.NewDashboardController,
			export.NewExportController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(settings.NewSettingsApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(export.NewExportApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartRefresher,
			InitializeIndexes,
		),
	)

	app.Run()
}
