package config

import (
	"sync"

	"fermentation_logger/internal/models"
)

// Store holds the active LoggingConfig and lets a reload swap it safely.
type Store struct {
	mu      sync.RWMutex
	logging models.LoggingConfig
}

func NewStore(lc models.LoggingConfig) *Store {
	return &Store{logging: lc}
}

// Logging returns a copy of the active push settings.
func (s *Store) Logging() models.LoggingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logging
}

// SetLogging replaces the active push settings.
func (s *Store) SetLogging(lc models.LoggingConfig) {
	s.mu.Lock()
	s.logging = lc
	s.mu.Unlock()
}
