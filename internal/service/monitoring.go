package service

import (
	"context"

	"fermentation_logger/internal/models"
)

// PreviewResult is what a send would transmit right now.
type PreviewResult struct {
	Enabled bool   `json:"enabled"`
	Method  string `json:"method"`
	Target  string `json:"target"`
	Service string `json:"service"`
	Payload string `json:"payload"`
	Bytes   int    `json:"bytes"`
}

type MonitoringService struct {
	cache *ReadingCache
	cfg   LoggingSource
}

func NewMonitoringService(cache *ReadingCache, cfg LoggingSource) *MonitoringService {
	return &MonitoringService{cache: cache, cfg: cfg}
}

// GetSnapshot returns the readings as the next send would see them.
func (s *MonitoringService) GetSnapshot(_ context.Context) (models.Snapshot, error) {
	return s.cache.Snapshot(), nil
}

// GetReadings returns the raw stored readings, sentinels included.
func (s *MonitoringService) GetReadings(_ context.Context) (models.ReadingState, error) {
	return s.cache.State(), nil
}

// Preview renders the current snapshot with the active configuration without sending it.
func (s *MonitoringService) Preview(_ context.Context) (PreviewResult, error) {
	cfg := s.cfg.Logging()
	body, err := RenderPayload(cfg, s.cache.Snapshot())
	if err != nil {
		return PreviewResult{}, err
	}
	return PreviewResult{
		Enabled: cfg.Enabled,
		Method:  string(cfg.Method),
		Target:  RequestTarget(cfg, body),
		Service: string(cfg.Service),
		Payload: string(body),
		Bytes:   len(body),
	}, nil
}
