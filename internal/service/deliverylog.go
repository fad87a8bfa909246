package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fermentation_logger/internal/models"
	"fermentation_logger/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrInvalidOutcome   = errors.New("invalid outcome filter")
)

// DeliveryFilter narrows the delivery history. Zero values match everything.
type DeliveryFilter struct {
	From    time.Time
	To      time.Time
	Outcome string
}

type DeliveryLogService struct {
	repo repository.DeliveryRepo

	mu      sync.RWMutex
	last    models.DeliveryRecord
	hasLast bool
}

func NewDeliveryLogService(repo repository.DeliveryRepo) *DeliveryLogService {
	return &DeliveryLogService{repo: repo}
}

// Record appends an attempt to the history and remembers it as the latest.
func (s *DeliveryLogService) Record(ctx context.Context, d models.DeliveryRecord) error {
	s.mu.Lock()
	s.last, s.hasLast = d, true
	s.mu.Unlock()
	return s.repo.Append(ctx, d)
}

// Last returns the most recent attempt seen by this process.
func (s *DeliveryLogService) Last() (models.DeliveryRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.hasLast
}

func (s *DeliveryLogService) List(ctx context.Context, f DeliveryFilter) ([]models.DeliveryRecord, error) {
	from, to, outcome, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, from, to, outcome)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeAndValidateFilter(f DeliveryFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	outcome := strings.ToLower(strings.TrimSpace(f.Outcome))
	switch models.DeliveryOutcome(outcome) {
	case "", models.OutcomeDelivered, models.OutcomeRedirect, models.OutcomeUnexpectedStatus,
		models.OutcomeTransportError, models.OutcomeRenderError:
	default:
		return time.Time{}, time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidOutcome, f.Outcome)
	}
	return from, to, outcome, nil
}
