package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lendguard/configs"
	"lendguard/internal/delivery/ws"
	"lendguard/internal/domain"
	"lendguard/internal/service"
)

// Scheduler manages the background jobs: the price poll, the periodic
// realtime broadcast and the risk sampling loop.
type Scheduler struct {
	cron       *cron.Cron
	priceFeed  *service.PriceFeedService
	dashboard  *service.DashboardService
	topUps     *service.TopUpService
	assessor   service.RiskAssessor
	hub        *ws.Hub
	demoUserID uuid.UUID
	cfg        *configs.Config
}

// NewScheduler creates a new scheduler
func NewScheduler(
	priceFeed *service.PriceFeedService,
	dashboard *service.DashboardService,
	topUps *service.TopUpService,
	assessor service.RiskAssessor,
	hub *ws.Hub,
	demoUserID uuid.UUID,
	cfg *configs.Config,
) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		priceFeed:  priceFeed,
		dashboard:  dashboard,
		topUps:     topUps,
		assessor:   assessor,
		hub:        hub,
		demoUserID: demoUserID,
		cfg:        cfg,
	}
}

// Start registers and starts all background jobs
func (s *Scheduler) Start() error {
	jobs := []struct {
		name     string
		interval time.Duration
		run      func(ctx context.Context)
	}{
		{"price-refresh", s.cfg.PriceFeed.PollInterval, s.refreshPrice},
		{"realtime-broadcast", s.cfg.Realtime.BroadcastInterval, s.broadcastSnapshot},
		{"risk-sample", s.cfg.Protection.RiskSampleInterval, s.sampleRisk},
	}

	for _, job := range jobs {
		job := job
		spec := fmt.Sprintf("@every %s", job.interval)
		if _, err := s.cron.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			job.run(ctx)
		}); err != nil {
			return fmt.Errorf("failed to register %s job: %w", job.name, err)
		}
		zap.L().Info("Scheduled job registered",
			zap.String("job", job.name),
			zap.Duration("interval", job.interval))
	}

	s.cron.Start()
	zap.L().Info("Scheduler started")
	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.L().Info("Scheduler stopped")
}

func (s *Scheduler) refreshPrice(ctx context.Context) {
	s.priceFeed.Refresh(ctx)
}

func (s *Scheduler) broadcastSnapshot(ctx context.Context) {
	update, err := s.dashboard.Realtime(ctx, s.demoUserID)
	if err != nil {
		zap.L().Warn("Failed to build realtime update", zap.Error(err))
		return
	}
	s.hub.Broadcast(ws.MessagePriceUpdate, update)
}

func (s *Scheduler) sampleRisk(ctx context.Context) {
	signal, err := s.assessor.Assess(ctx)
	if err != nil {
		zap.L().Warn("Risk assessment failed", zap.Error(err))
		return
	}
	if !domain.ElevatedRisk(signal.RiskLevel) {
		return
	}

	zap.L().Info("Elevated risk detected",
		zap.String("risk_level", signal.RiskLevel),
		zap.Float64("confidence", signal.Confidence))

	if _, err := s.topUps.HandleRiskTrigger(ctx, s.demoUserID, signal.RiskLevel); err != nil {
		zap.L().Error("Risk trigger handling failed", zap.Error(err))
	}
}
