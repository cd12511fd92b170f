package system

import (
	"context"
	"fmt"
	"time"

	"go-analytics/internal/config"
	"go-analytics/internal/features/dashboard"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentRenders = 4

// Refresher re-renders every subscribed dashboard on the configured schedule and pushes
// the result to the subscribers.
type Refresher struct {
	Hub        *Hub
	Dashboards dashboard.DashboardService
	Config     *config.Config
	Logger     *zap.Logger

	scheduler *cron.Cron
	now       func() time.Time
}

func NewRefresher(hub *Hub, dashboards dashboard.DashboardService, cfg *config.Config, logger *zap.Logger) *Refresher {
	return &Refresher{
		Hub:        hub,
		Dashboards: dashboards,
		Config:     cfg,
		Logger:     logger,
		now:        time.Now,
	}
}

func (r *Refresher) Start() error {
	r.scheduler = cron.New()
	if _, err := r.scheduler.AddFunc(r.Config.RefreshSchedule, func() {
		r.RefreshAll(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", r.Config.RefreshSchedule, err)
	}
	r.scheduler.Start()
	r.Logger.Info("Dashboard refresher started", zap.String("schedule", r.Config.RefreshSchedule))
	return nil
}

func (r *Refresher) Stop() {
	if r.scheduler != nil {
		ctx := r.scheduler.Stop()
		<-ctx.Done()
	}
}

// RefreshAll pushes a fresh render to every subscriber and returns the number of
// successful pushes.
func (r *Refresher) RefreshAll(ctx context.Context) int {
	subs := r.Hub.Snapshot()
	if len(subs) == 0 {
		return 0
	}

	results := make(chan bool, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRenders)
	for client, sub := range subs {
		client, sub := client, sub
		g.Go(func() error {
			err := r.Push(gctx, client, sub)
			if err != nil {
				r.Logger.Warn("Failed to push dashboard update",
					zap.String("dashboard", sub.Dashboard),
					zap.String("userId", sub.UserID),
					zap.Error(err),
				)
			}
			results <- err == nil
			return nil
		})
	}
	g.Wait()
	close(results)

	pushed := 0
	for ok := range results {
		if ok {
			pushed++
		}
	}
	return pushed
}

// Push renders the subscribed dashboard and sends it. Render failures are sent to the
// client as an error message.
func (r *Refresher) Push(ctx context.Context, client Client, sub Subscription) error {
	msg := Message{Dashboard: sub.Dashboard, RenderedAt: r.now()}
	views, err := r.Dashboards.RenderDashboard(ctx, sub.UserID, sub.Dashboard, sub.Request)
	if err != nil {
		msg.Error = err.Error()
	} else {
		msg.Widgets = views
	}
	return r.Hub.Send(client, msg)
}
