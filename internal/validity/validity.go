// Package validity holds the sentinel-range predicates that decide whether a
// reading is a genuine measurement.
package validity

import "math"

// Sentinels written by producers for readings that are not available.
const (
	InvalidTemp    = -250.0
	InvalidGravity = -1.0
	InvalidVoltage = -1.0
)

// Representable temperature range of the controller, in display units.
const (
	MinTemp = -100.0
	MaxTemp = 200.0
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsTempValid reports whether t is inside the representable sensor range.
func IsTempValid(t float64) bool {
	return finite(t) && t >= MinTemp && t <= MaxTemp
}

// IsGravityValid reports whether sg is a usable specific gravity reading.
func IsGravityValid(sg float64) bool {
	return finite(sg) && sg > 0
}

// IsVoltageValid reports whether a hydrometer battery voltage was reported.
func IsVoltageValid(v float64) bool {
	return finite(v) && v > 0
}
