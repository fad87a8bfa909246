package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fermentation_logger/internal/models"
	"fermentation_logger/internal/repository"
	"fermentation_logger/internal/validity"
)

var ErrEmptyUpdate = errors.New("reading update changes nothing")

// ReadingCache holds the latest readings in memory and writes them through to
// the reading repository. It is the ValueSource of the running process.
type ReadingCache struct {
	mu sync.RWMutex
	st models.ReadingState

	writeMu sync.Mutex // serializes merge+persist
	repo    repository.ReadingRepo
	now     func() time.Time
}

// NewReadingCache starts with every reading marked unavailable.
func NewReadingCache(repo repository.ReadingRepo) *ReadingCache {
	return &ReadingCache{
		st:   emptyReadings(),
		repo: repo,
		now:  time.Now,
	}
}

func emptyReadings() models.ReadingState {
	return models.ReadingState{
		ID:         1,
		BeerTemp:   validity.InvalidTemp,
		BeerSet:    validity.InvalidTemp,
		FridgeTemp: validity.InvalidTemp,
		FridgeSet:  validity.InvalidTemp,
		RoomTemp:   validity.InvalidTemp,
		Gravity:    validity.InvalidGravity,
		Plato:      validity.InvalidGravity,
		Voltage:    validity.InvalidVoltage,
		AuxTemp:    validity.InvalidTemp,
	}
}

// Restore loads the persisted readings, if any.
func (c *ReadingCache) Restore(ctx context.Context) error {
	st, err := c.repo.Load(ctx)
	if err != nil {
		return err
	}
	if st.ID == 0 {
		return nil
	}
	c.mu.Lock()
	c.st = st
	c.mu.Unlock()
	return nil
}

// Apply merges a partial update and persists the result. The in-memory state
// is updated even when persisting fails; the error is still returned.
func (c *ReadingCache) Apply(ctx context.Context, u models.ReadingUpdate) (models.ReadingState, error) {
	if u.Empty() {
		return c.State(), ErrEmptyUpdate
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	now := c.now().UTC()

	c.mu.Lock()
	st := c.st
	mergeTemp(&st.BeerTemp, u.BeerTemp)
	mergeTemp(&st.BeerSet, u.BeerSet)
	mergeTemp(&st.FridgeTemp, u.FridgeTemp)
	mergeTemp(&st.FridgeSet, u.FridgeSet)
	mergeTemp(&st.RoomTemp, u.RoomTemp)
	merge(&st.Gravity, u.Gravity, validity.InvalidGravity)
	merge(&st.Plato, u.Plato, validity.InvalidGravity)
	if u.Gravity.Set && !u.Gravity.Null && !u.Plato.Set {
		st.Plato = SGToPlato(st.Gravity)
	}
	merge(&st.Voltage, u.Voltage, validity.InvalidVoltage)
	mergeTemp(&st.AuxTemp, u.AuxTemp)
	merge(&st.Tilt, u.Tilt, 0)
	switch {
	case u.LastUpdate != nil:
		st.LastUpdate = *u.LastUpdate
	case u.TouchesHydrometer():
		st.LastUpdate = now.Unix()
	}
	st.ID = 1
	st.UpdatedAt = now
	c.st = st
	c.mu.Unlock()

	if err := c.repo.Save(ctx, st); err != nil {
		return st, fmt.Errorf("persist readings: %w", err)
	}
	return st, nil
}

func merge(dst *float64, v models.OptionalFloat, sentinel float64) {
	switch {
	case !v.Set:
	case v.Null:
		*dst = sentinel
	default:
		*dst = v.Value
	}
}

func mergeTemp(dst *float64, v models.OptionalFloat) {
	merge(dst, v, validity.InvalidTemp)
}

// SGToPlato converts specific gravity to degrees Plato.
func SGToPlato(sg float64) float64 {
	if !validity.IsGravityValid(sg) {
		return validity.InvalidGravity
	}
	return -616.868 + 1111.14*sg - 630.272*sg*sg + 135.997*sg*sg*sg
}

// State returns a copy of the raw readings.
func (c *ReadingCache) State() models.ReadingState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.st
}

// Snapshot builds a snapshot from one consistent copy of the readings.
func (c *ReadingCache) Snapshot() models.Snapshot {
	return BuildSnapshot(stateSource{st: c.State()})
}

func (c *ReadingCache) AllStatus() models.ControllerStatus { return stateSource{st: c.State()}.AllStatus() }
func (c *ReadingCache) Gravity() float64                   { return c.State().Gravity }
func (c *ReadingCache) Plato() float64                     { return c.State().Plato }
func (c *ReadingCache) DeviceVoltage() float64             { return c.State().Voltage }
func (c *ReadingCache) AuxTemp() float64                   { return c.State().AuxTemp }
func (c *ReadingCache) TiltValue() float64                 { return c.State().Tilt }
func (c *ReadingCache) LastUpdate() int64                  { return c.State().LastUpdate }
