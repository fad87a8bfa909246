package payload

import (
	"fmt"
	"strconv"

	"fermentation_logger/internal/models"
)

// directive binds a template verb to a snapshot field.
type directive struct {
	field       string
	precision   int32
	pick        func(models.Snapshot) models.Reading
	alwaysValid bool // render the value even when its validity flag is false
	timestamp   bool // integer rendering of Snapshot.LastUpdate
}

// directives is the complete verb table; '%' itself is handled by the tokenizer.
var directives = map[byte]directive{
	'b': {field: "beerTemp", precision: 1, pick: func(s models.Snapshot) models.Reading { return s.BeerTemp }},
	'B': {field: "beerSet", precision: 1, pick: func(s models.Snapshot) models.Reading { return s.BeerSet }},
	'f': {field: "fridgeTemp", precision: 1, pick: func(s models.Snapshot) models.Reading { return s.FridgeTemp }},
	'F': {field: "fridgeSet", precision: 1, pick: func(s models.Snapshot) models.Reading { return s.FridgeSet }},
	'r': {field: "roomTemp", precision: 1, pick: func(s models.Snapshot) models.Reading { return s.RoomTemp }},
	'g': {field: "gravity", precision: 4, pick: func(s models.Snapshot) models.Reading { return s.Gravity }},
	'p': {field: "plato", precision: 2, pick: func(s models.Snapshot) models.Reading { return s.Plato }},
	'v': {field: "voltage", precision: 1, pick: func(s models.Snapshot) models.Reading { return s.Voltage }},
	'a': {field: "auxTemp", precision: 1, pick: func(s models.Snapshot) models.Reading { return s.AuxTemp }},
	't': {field: "tilt", precision: 2, pick: func(s models.Snapshot) models.Reading { return s.Tilt }, alwaysValid: true},
	'u': {field: "lastUpdate", timestamp: true},
}

// Directives lists the supported verbs with the field each one renders.
func Directives() map[byte]string {
	out := make(map[byte]string, len(directives)+1)
	out['%'] = "literal %"
	for verb, d := range directives {
		out[verb] = d.field
	}
	return out
}

// render produces the text for one directive. Readings that fail their validity
// rule become nullLiteral. A rendered value that is not finite fails with ErrNonFinite.
func (d directive) render(s models.Snapshot, nullLiteral string) (string, error) {
	if d.timestamp {
		return strconv.FormatInt(s.LastUpdate, 10), nil
	}
	r := d.pick(s)
	if !r.Valid && !d.alwaysValid {
		return nullLiteral, nil
	}
	text, err := formatFixed(r.Value, d.precision)
	if err != nil {
		return "", fmt.Errorf("%s: %w", d.field, err)
	}
	return text, nil
}
