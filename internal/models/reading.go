package models

import "time"

// Reading is a single numeric value paired with its validity flag.
type Reading struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// ControllerStatus is what the temperature controller reports in one call.
type ControllerStatus struct {
	BeerTemp   float64
	BeerSet    float64
	FridgeTemp float64
	FridgeSet  float64
	RoomTemp   float64
}

// Snapshot is the set of readings rendered by a single send.
// It is built fresh for every send and never persisted.
type Snapshot struct {
	BeerTemp   Reading `json:"beer_temp"`
	BeerSet    Reading `json:"beer_set"`
	FridgeTemp Reading `json:"fridge_temp"`
	FridgeSet  Reading `json:"fridge_set"`
	RoomTemp   Reading `json:"room_temp"`

	// Gravity and Plato share the validity of the SG reading.
	Gravity Reading `json:"gravity"`
	Plato   Reading `json:"plato"`

	// Voltage gates the auxiliary group: a valid voltage means a hydrometer is reporting.
	Voltage Reading `json:"voltage"`
	AuxTemp Reading `json:"aux_temp"`
	Tilt    Reading `json:"tilt"`

	LastUpdate int64 `json:"last_update"`
}

// AuxPresent reports whether the hydrometer group should be emitted.
func (s Snapshot) AuxPresent() bool {
	return s.Voltage.Valid
}

// ReadingState is the raw, persisted form of the latest readings (single row, id=1).
// Sentinel values mark readings that are not available.
type ReadingState struct {
	ID         int       `json:"id"`
	BeerTemp   float64   `json:"beer_temp"`
	BeerSet    float64   `json:"beer_set"`
	FridgeTemp float64   `json:"fridge_temp"`
	FridgeSet  float64   `json:"fridge_set"`
	RoomTemp   float64   `json:"room_temp"`
	Gravity    float64   `json:"gravity"`
	Plato      float64   `json:"plato"`
	Voltage    float64   `json:"voltage"`
	AuxTemp    float64   `json:"aux_temp"`
	Tilt       float64   `json:"tilt"`
	LastUpdate int64     `json:"last_update"` // seconds since epoch of the last hydrometer report
	UpdatedAt  time.Time `json:"updated_at"`
}
