package models

import (
	"bytes"
	"encoding/json"
)

// OptionalFloat distinguishes an absent JSON field from an explicit null.
type OptionalFloat struct {
	Set   bool    // field present in the document
	Null  bool    // present and null
	Value float64 // meaningful when Set && !Null
}

func (o *OptionalFloat) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// ReadingUpdate is a partial update of the latest readings.
// Absent fields keep their value; null marks the reading unavailable.
type ReadingUpdate struct {
	BeerTemp   OptionalFloat `json:"beerTemp" swaggertype:"number"`
	BeerSet    OptionalFloat `json:"beerSet" swaggertype:"number"`
	FridgeTemp OptionalFloat `json:"fridgeTemp" swaggertype:"number"`
	FridgeSet  OptionalFloat `json:"fridgeSet" swaggertype:"number"`
	RoomTemp   OptionalFloat `json:"roomTemp" swaggertype:"number"`
	Gravity    OptionalFloat `json:"gravity" swaggertype:"number"`
	Plato      OptionalFloat `json:"plato" swaggertype:"number"`
	Voltage    OptionalFloat `json:"voltage" swaggertype:"number"`
	AuxTemp    OptionalFloat `json:"auxTemp" swaggertype:"number"`
	Tilt       OptionalFloat `json:"tilt" swaggertype:"number"`
	LastUpdate *int64        `json:"lastUpdate,omitempty"`
}

// TouchesHydrometer reports whether the update carries any hydrometer field.
func (u ReadingUpdate) TouchesHydrometer() bool {
	return u.Gravity.Set || u.Plato.Set || u.Voltage.Set || u.AuxTemp.Set || u.Tilt.Set
}

// Empty reports whether the update changes nothing.
func (u ReadingUpdate) Empty() bool {
	return !u.TouchesHydrometer() && u.LastUpdate == nil &&
		!u.BeerTemp.Set && !u.BeerSet.Set && !u.FridgeTemp.Set && !u.FridgeSet.Set && !u.RoomTemp.Set
}
