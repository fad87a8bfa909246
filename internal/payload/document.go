package payload

import (
	"encoding/json"
	"fmt"

	"fermentation_logger/internal/models"
)

// document is the NonNullJson shape. Field order is the wire order.
type document struct {
	BeerTemp   *jsonNumber `json:"beerTemp,omitempty"`
	BeerSet    *jsonNumber `json:"beerSet,omitempty"`
	FridgeTemp *jsonNumber `json:"fridgeTemp,omitempty"`
	FridgeSet  *jsonNumber `json:"fridgeSet,omitempty"`
	RoomTemp   *jsonNumber `json:"roomTemp,omitempty"`
	Gravity    *jsonNumber `json:"gravity,omitempty"`
	Plato      *jsonNumber `json:"plato,omitempty"`
	Voltage    *jsonNumber `json:"voltage,omitempty"`
	AuxTemp    *jsonNumber `json:"auxTemp,omitempty"`
	Tilt       *jsonNumber `json:"tilt,omitempty"`
}

func num(v float64) *jsonNumber {
	n := jsonNumber(v)
	return &n
}

func ifValid(r models.Reading) *jsonNumber {
	if !r.Valid {
		return nil
	}
	return num(r.Value)
}

func buildDocument(s models.Snapshot) document {
	doc := document{
		BeerTemp:   ifValid(s.BeerTemp),
		BeerSet:    ifValid(s.BeerSet),
		FridgeTemp: ifValid(s.FridgeTemp),
		FridgeSet:  ifValid(s.FridgeSet),
		RoomTemp:   ifValid(s.RoomTemp),
	}

	// gravity and plato travel together, keyed on the SG reading
	if s.Gravity.Valid {
		doc.Gravity = num(s.Gravity.Value)
		doc.Plato = num(s.Plato.Value)
	}

	if s.AuxPresent() {
		doc.Voltage = num(s.Voltage.Value)
		doc.AuxTemp = ifValid(s.AuxTemp)
		doc.Tilt = num(s.Tilt.Value)
	}
	return doc
}

// RenderJSON encodes the snapshot as a JSON object that omits invalid readings.
// Output larger than capacity fails with ErrBufferOverflow.
func RenderJSON(s models.Snapshot, capacity int) ([]byte, error) {
	if capacity <= 0 {
		capacity = models.MaxPayloadBytes
	}
	encoded, err := json.Marshal(buildDocument(s))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	buf := NewBuffer(capacity)
	if _, err := buf.Write(encoded); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
