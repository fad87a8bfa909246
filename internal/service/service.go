package service

import (
	"context"
	"net/http"
	"time"

	"fermentation_logger/internal/logger"
	"fermentation_logger/internal/metrics"
	"fermentation_logger/internal/models"
	"fermentation_logger/internal/repository"
)

type Authorization interface {
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Monitoring exposes read-only views of the readings and the next payload.
type Monitoring interface {
	GetSnapshot(ctx context.Context) (models.Snapshot, error)
	GetReadings(ctx context.Context) (models.ReadingState, error)
	Preview(ctx context.Context) (PreviewResult, error)
}

// Readings accepts partial reading updates.
type Readings interface {
	Apply(ctx context.Context, u models.ReadingUpdate) (models.ReadingState, error)
}

// DeliveryLog exposes the append-only delivery history.
type DeliveryLog interface {
	List(ctx context.Context, f DeliveryFilter) ([]models.DeliveryRecord, error)
	Last() (models.DeliveryRecord, bool)
}

// Scheduler drives periodic sends. Stop Run via context cancellation.
type Scheduler interface {
	Tick(ctx context.Context, now time.Time) bool
	SendNow(ctx context.Context) (models.DeliveryRecord, error)
	LastAttempt() time.Time
	Run(ctx context.Context, tick time.Duration)
}

// Simulator runs the background chamber model.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Monitoring
	Readings
	DeliveryLog
	Scheduler Scheduler
	Simulator Simulator

	Cache *ReadingCache
}

// Deps carries the non-repository collaborators of NewService.
type Deps struct {
	Logging    LoggingSource
	Operator   Operator
	JWTSecret  string
	TokenTTL   time.Duration
	HTTPClient *http.Client
	Metrics    metrics.Recorder
	Log        *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	cache := NewReadingCache(repos.ReadingRepo)
	history := NewDeliveryLogService(repos.DeliveryRepo)
	dispatcher := NewHTTPDispatcher(deps.HTTPClient, cache, history, deps.Metrics, log.Named("dispatcher"))

	return &Service{
		Authorization: NewAuthService(deps.Operator, deps.JWTSecret, deps.TokenTTL),
		Monitoring:    NewMonitoringService(cache, deps.Logging),
		Readings:      NewReadingsService(cache, log.Named("readings")),
		DeliveryLog:   history,
		Scheduler:     NewSchedulerService(deps.Logging, dispatcher, log.Named("scheduler")),
		Simulator:     NewSimulatorService(cache, log.Named("simulator")),
		Cache:         cache,
	}
}
