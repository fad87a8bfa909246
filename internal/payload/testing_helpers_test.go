package payload

import "fermentation_logger/internal/models"

// emptySnapshot has every reading invalid.
func emptySnapshot() models.Snapshot {
	return models.Snapshot{}
}

func valid(v float64) models.Reading {
	return models.Reading{Value: v, Valid: true}
}

func invalid(v float64) models.Reading {
	return models.Reading{Value: v, Valid: false}
}
