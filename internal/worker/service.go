package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vultos-swap/internal/config"
	"github.com/vultos-swap/internal/logger"
	"github.com/vultos-swap/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	otpPurgeInterval = 10 * time.Minute
)

// Service runs the asynq consumer plus periodic maintenance.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the queue worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the consumer until the server shuts down.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.OTPRepo != nil {
		go s.runOTPPurgeLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the consumer down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runOTPPurgeLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.OTPRepo == nil {
		return
	}
	runOnce := func() {
		purged, err := s.consumer.OTPRepo.PurgeExpired(time.Now())
		if err != nil {
			logger.Warnw("worker_otp_purge_failed", "error", err)
			return
		}
		if purged > 0 {
			logger.Infow("worker_otp_purge_done", "purged", purged)
		}
	}
	runOnce()

	ticker := time.NewTicker(otpPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
