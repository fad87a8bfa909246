package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"fermentation_logger/internal/logger"
	"fermentation_logger/internal/models"
)

var (
	ErrSendInFlight    = errors.New("a send is already in flight")
	ErrLoggingDisabled = errors.New("logging is disabled")
)

// LoggingSource returns the active logging configuration.
type LoggingSource interface {
	Logging() models.LoggingConfig
}

// SchedulerService decides when a send is due and triggers at most one at a time.
type SchedulerService struct {
	cfg        LoggingSource
	dispatcher Dispatcher
	log        *logger.Logger

	mu       sync.Mutex
	last     time.Time // zero until the first attempt
	inFlight atomic.Bool
}

func NewSchedulerService(cfg LoggingSource, dispatcher Dispatcher, log *logger.Logger) *SchedulerService {
	if log == nil {
		log = logger.Nop()
	}
	return &SchedulerService{cfg: cfg, dispatcher: dispatcher, log: log}
}

// Tick sends once if logging is enabled and a full period elapsed since the
// last attempt. The attempt time is recorded whatever the outcome, so failures
// are not retried before the next period. Reports whether a send was made.
func (s *SchedulerService) Tick(ctx context.Context, now time.Time) bool {
	cfg := s.cfg.Logging()
	if !cfg.Enabled {
		return false
	}

	s.mu.Lock()
	if !s.last.IsZero() {
		elapsed := now.Sub(s.last)
		if elapsed < 0 {
			// wall clock stepped back; restart the period from here
			s.last = now
			s.mu.Unlock()
			return false
		}
		if elapsed < cfg.Period {
			s.mu.Unlock()
			return false
		}
	}
	s.mu.Unlock()

	if err := s.send(ctx, cfg); err != nil {
		return false
	}

	s.mu.Lock()
	s.last = now
	s.mu.Unlock()
	return true
}

// SendNow performs an immediate attempt outside the period, without moving the schedule.
// A disabled configuration makes no request and returns ErrLoggingDisabled.
func (s *SchedulerService) SendNow(ctx context.Context) (models.DeliveryRecord, error) {
	cfg := s.cfg.Logging()
	if !cfg.Enabled {
		return models.DeliveryRecord{}, ErrLoggingDisabled
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return models.DeliveryRecord{}, ErrSendInFlight
	}
	defer s.inFlight.Store(false)
	return s.dispatcher.SendOnce(ctx, cfg)
}

// send runs one attempt unless another is in flight. Delivery failures are
// already logged and recorded by the dispatcher and do not fail the tick.
func (s *SchedulerService) send(ctx context.Context, cfg models.LoggingConfig) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Debugw("scheduler_send_skipped", "reason", "in_flight")
		return ErrSendInFlight
	}
	defer s.inFlight.Store(false)
	_, _ = s.dispatcher.SendOnce(ctx, cfg)
	return nil
}

// LastAttempt returns the time of the last scheduled attempt, zero if none.
func (s *SchedulerService) LastAttempt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Run ticks at the given interval until ctx is canceled.
func (s *SchedulerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Tick(ctx, now)
		}
	}
}
