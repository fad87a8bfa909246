package service

import (
	"context"
	"math"
	"time"

	"fermentation_logger/internal/logger"
	"fermentation_logger/internal/models"
	"fermentation_logger/internal/validity"
)

// ----------- Chamber constants -----------
const (
	RoomC             = 22.0 // room temperature °C
	BeerSetC          = 19.0 // beer setpoint °C
	FridgeSetC        = 18.0 // fridge setpoint °C
	FridgeApproachPS  = 0.02 // fraction of fridge-to-setpoint gap closed per second
	BeerApproachPS    = 0.005
	OriginalGravity   = 1.050
	FinalGravity      = 1.010
	GravityDecayPS    = 2e-5  // fraction of remaining attenuation per second
	FullBatteryV      = 4.1   // hydrometer battery when the run starts
	EmptyBatteryV     = 3.0   // voltage floor
	BatteryDrainVPS   = 1e-6  // volts per second
	TiltAtWater       = 25.0  // hydrometer angle in plain water
	TiltPerGravityPt  = 400.0 // degrees per 1.000 SG
	minSimulatedStepS = 1.0
)

// SimulatorService plays a fermentation chamber into the reading cache.
type SimulatorService struct {
	cache *ReadingCache
	log   *logger.Logger
	last  time.Time
}

func NewSimulatorService(cache *ReadingCache, log *logger.Logger) *SimulatorService {
	if log == nil {
		log = logger.Nop()
	}
	return &SimulatorService{cache: cache, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if _, err := s.Step(ctx, now); err != nil {
				s.log.Errorw("simulator_step_failed", "err", err)
			}
		}
	}
}

// Step advances the chamber to now. The first call seeds a fresh batch.
// Returns false when less than a second passed since the previous step.
func (s *SimulatorService) Step(ctx context.Context, now time.Time) (bool, error) {
	st := s.cache.State()
	if s.last.IsZero() || !validity.IsTempValid(st.BeerTemp) || !validity.IsGravityValid(st.Gravity) {
		s.last = now
		_, err := s.cache.Apply(ctx, seedUpdate(now))
		return err == nil, err
	}

	elapsed := now.Sub(s.last).Seconds()
	if elapsed < minSimulatedStepS {
		return false, nil
	}
	s.last = now

	_, err := s.cache.Apply(ctx, advance(st, elapsed, now))
	return err == nil, err
}

func seedUpdate(now time.Time) models.ReadingUpdate {
	ts := now.Unix()
	return models.ReadingUpdate{
		BeerTemp:   present(RoomC),
		BeerSet:    present(BeerSetC),
		FridgeTemp: present(RoomC),
		FridgeSet:  present(FridgeSetC),
		RoomTemp:   present(RoomC),
		Gravity:    present(OriginalGravity),
		Plato:      present(SGToPlato(OriginalGravity)),
		Voltage:    present(FullBatteryV),
		AuxTemp:    present(RoomC),
		Tilt:       present(tiltFor(OriginalGravity)),
		LastUpdate: &ts,
	}
}

// advance integrates the chamber model over elapsed seconds.
func advance(st models.ReadingState, elapsed float64, now time.Time) models.ReadingUpdate {
	fridge := approach(st.FridgeTemp, st.FridgeSet, FridgeApproachPS, elapsed)
	beer := approach(st.BeerTemp, fridge, BeerApproachPS, elapsed)
	sg := approach(st.Gravity, FinalGravity, GravityDecayPS, elapsed)
	volts := math.Max(st.Voltage-BatteryDrainVPS*elapsed, EmptyBatteryV)
	ts := now.Unix()

	return models.ReadingUpdate{
		BeerTemp:   present(beer),
		FridgeTemp: present(fridge),
		Gravity:    present(sg),
		Plato:      present(SGToPlato(sg)),
		Voltage:    present(volts),
		AuxTemp:    present(beer),
		Tilt:       present(tiltFor(sg)),
		LastUpdate: &ts,
	}
}

// approach moves v toward target, closing rate of the gap per second.
func approach(v, target, rate, elapsed float64) float64 {
	return target + (v-target)*math.Exp(-rate*elapsed)
}

func tiltFor(sg float64) float64 {
	return TiltAtWater + (sg-1.0)*TiltPerGravityPt
}

func present(v float64) models.OptionalFloat {
	return models.OptionalFloat{Set: true, Value: v}
}
