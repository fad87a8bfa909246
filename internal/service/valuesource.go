package service

import (
	"fermentation_logger/internal/models"
	"fermentation_logger/internal/validity"
)

// ValueSource supplies the raw readings a send renders.
type ValueSource interface {
	AllStatus() models.ControllerStatus
	Gravity() float64
	Plato() float64
	DeviceVoltage() float64
	AuxTemp() float64
	TiltValue() float64
	LastUpdate() int64
}

// SnapshotProvider yields a fresh snapshot for each send.
type SnapshotProvider interface {
	Snapshot() models.Snapshot
}

// BuildSnapshot applies the validity predicates to the raw readings.
func BuildSnapshot(src ValueSource) models.Snapshot {
	st := src.AllStatus()
	sg := src.Gravity()
	gravityValid := validity.IsGravityValid(sg)

	return models.Snapshot{
		BeerTemp:   tempReading(st.BeerTemp),
		BeerSet:    tempReading(st.BeerSet),
		FridgeTemp: tempReading(st.FridgeTemp),
		FridgeSet:  tempReading(st.FridgeSet),
		RoomTemp:   tempReading(st.RoomTemp),

		Gravity: models.Reading{Value: sg, Valid: gravityValid},
		Plato:   models.Reading{Value: src.Plato(), Valid: gravityValid},

		Voltage: models.Reading{Value: src.DeviceVoltage(), Valid: validity.IsVoltageValid(src.DeviceVoltage())},
		AuxTemp: tempReading(src.AuxTemp()),
		Tilt:    models.Reading{Value: src.TiltValue(), Valid: true},

		LastUpdate: src.LastUpdate(),
	}
}

func tempReading(v float64) models.Reading {
	return models.Reading{Value: v, Valid: validity.IsTempValid(v)}
}

// SourceSnapshots adapts any ValueSource to a SnapshotProvider.
type SourceSnapshots struct {
	Source ValueSource
}

func (s SourceSnapshots) Snapshot() models.Snapshot {
	return BuildSnapshot(s.Source)
}

// stateSource reads a frozen copy of the persisted readings.
type stateSource struct {
	st models.ReadingState
}

func (s stateSource) AllStatus() models.ControllerStatus {
	return models.ControllerStatus{
		BeerTemp:   s.st.BeerTemp,
		BeerSet:    s.st.BeerSet,
		FridgeTemp: s.st.FridgeTemp,
		FridgeSet:  s.st.FridgeSet,
		RoomTemp:   s.st.RoomTemp,
	}
}

func (s stateSource) Gravity() float64       { return s.st.Gravity }
func (s stateSource) Plato() float64         { return s.st.Plato }
func (s stateSource) DeviceVoltage() float64 { return s.st.Voltage }
func (s stateSource) AuxTemp() float64       { return s.st.AuxTemp }
func (s stateSource) TiltValue() float64     { return s.st.Tilt }
func (s stateSource) LastUpdate() int64      { return s.st.LastUpdate }
