package service

import (
	"context"

	"fermentation_logger/internal/logger"
	"fermentation_logger/internal/models"
)

// ReadingsService accepts reading updates from the API and the MQTT subscriber.
type ReadingsService struct {
	cache *ReadingCache
	log   *logger.Logger
}

func NewReadingsService(cache *ReadingCache, log *logger.Logger) *ReadingsService {
	if log == nil {
		log = logger.Nop()
	}
	return &ReadingsService{cache: cache, log: log}
}

func (s *ReadingsService) Apply(ctx context.Context, u models.ReadingUpdate) (models.ReadingState, error) {
	st, err := s.cache.Apply(ctx, u)
	if err != nil {
		return st, err
	}
	s.log.Debugw("readings_updated", "beer_temp", st.BeerTemp, "gravity", st.Gravity, "last_update", st.LastUpdate)
	return st, nil
}
