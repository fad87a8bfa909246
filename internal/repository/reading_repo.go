package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fermentation_logger/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite {
	return &ReadingSQLite{db: db}
}

const (
	readingStateRowID = 1

	upsertReadingSQL = `
		INSERT INTO reading_state (id, beer_temp, beer_set, fridge_temp, fridge_set, room_temp,
			gravity, plato, voltage, aux_temp, tilt, last_update, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			beer_temp=excluded.beer_temp,
			beer_set=excluded.beer_set,
			fridge_temp=excluded.fridge_temp,
			fridge_set=excluded.fridge_set,
			room_temp=excluded.room_temp,
			gravity=excluded.gravity,
			plato=excluded.plato,
			voltage=excluded.voltage,
			aux_temp=excluded.aux_temp,
			tilt=excluded.tilt,
			last_update=excluded.last_update,
			updated_at=excluded.updated_at
	`

	selectReadingSQL = `
		SELECT id, beer_temp, beer_set, fridge_temp, fridge_set, room_temp,
			gravity, plato, voltage, aux_temp, tilt, last_update, updated_at
		FROM reading_state WHERE id=?
	`
)

// Save upserts the reading_state row (id always 1).
func (r *ReadingSQLite) Save(ctx context.Context, s models.ReadingState) error {
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertReadingSQL,
		readingStateRowID,
		s.BeerTemp,
		s.BeerSet,
		s.FridgeTemp,
		s.FridgeSet,
		s.RoomTemp,
		s.Gravity,
		s.Plato,
		s.Voltage,
		s.AuxTemp,
		s.Tilt,
		s.LastUpdate,
		ts,
	)
	if err != nil {
		return fmt.Errorf("save reading state: %w", err)
	}
	return nil
}

// Load fetches the reading_state row. A zero ID means nothing was stored yet.
func (r *ReadingSQLite) Load(ctx context.Context) (models.ReadingState, error) {
	row := r.db.QueryRowContext(ctx, selectReadingSQL, readingStateRowID)

	var s models.ReadingState
	if err := row.Scan(
		&s.ID,
		&s.BeerTemp,
		&s.BeerSet,
		&s.FridgeTemp,
		&s.FridgeSet,
		&s.RoomTemp,
		&s.Gravity,
		&s.Plato,
		&s.Voltage,
		&s.AuxTemp,
		&s.Tilt,
		&s.LastUpdate,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ReadingState{}, nil
		}
		return models.ReadingState{}, fmt.Errorf("load reading state: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
