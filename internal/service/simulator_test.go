package service

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestSimulator_FirstStepSeedsBatch(t *testing.T) {
	cache := NewReadingCache(&readingRepoStub{})
	sim := NewSimulatorService(cache, nil)

	now := time.Unix(1700000000, 0)
	changed, err := sim.Step(context.Background(), now)
	if err != nil || !changed {
		t.Fatalf("Step = %v, %v", changed, err)
	}

	snap := cache.Snapshot()
	if !snap.BeerTemp.Valid || !snap.Gravity.Valid || !snap.AuxPresent() {
		t.Fatalf("seeded snapshot incomplete: %+v", snap)
	}
	if snap.Gravity.Value != OriginalGravity || snap.LastUpdate != now.Unix() {
		t.Fatalf("seed gravity/lastUpdate = %v/%d", snap.Gravity.Value, snap.LastUpdate)
	}
}

func TestSimulator_SkipsSubSecondSteps(t *testing.T) {
	repo := &readingRepoStub{}
	sim := NewSimulatorService(NewReadingCache(repo), nil)
	now := time.Now()

	_, _ = sim.Step(context.Background(), now)
	changed, err := sim.Step(context.Background(), now.Add(500*time.Millisecond))
	if err != nil || changed {
		t.Fatalf("sub-second step = %v, %v", changed, err)
	}
	if len(repo.saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(repo.saves))
	}
}

func TestSimulator_ChamberConverges(t *testing.T) {
	cache := NewReadingCache(&readingRepoStub{})
	sim := NewSimulatorService(cache, nil)
	ctx := context.Background()
	t0 := time.Now()

	_, _ = sim.Step(ctx, t0)
	before := cache.State()
	if _, err := sim.Step(ctx, t0.Add(10*time.Minute)); err != nil {
		t.Fatalf("Step: %v", err)
	}
	after := cache.State()

	if !(after.FridgeTemp < before.FridgeTemp && after.FridgeTemp > FridgeSetC) {
		t.Errorf("fridge should move toward setpoint: %v -> %v", before.FridgeTemp, after.FridgeTemp)
	}
	if !(after.BeerTemp < before.BeerTemp) {
		t.Errorf("beer should cool toward fridge: %v -> %v", before.BeerTemp, after.BeerTemp)
	}
	if !(after.Gravity < before.Gravity && after.Gravity > FinalGravity) {
		t.Errorf("gravity should fall toward FG: %v -> %v", before.Gravity, after.Gravity)
	}
	if !(after.Voltage < before.Voltage) {
		t.Errorf("battery should drain: %v -> %v", before.Voltage, after.Voltage)
	}
	if math.Abs(after.Tilt-tiltFor(after.Gravity)) > 1e-9 {
		t.Errorf("tilt out of sync with gravity")
	}
}

func TestApproach(t *testing.T) {
	if got := approach(10, 0, 1, 0); got != 10 {
		t.Errorf("no elapsed time must not move: %v", got)
	}
	if got := approach(10, 0, 1, 100); got > 1e-9 {
		t.Errorf("long run should converge to target: %v", got)
	}
}

func TestSimulator_RunStopsOnCancel(t *testing.T) {
	sim := NewSimulatorService(NewReadingCache(&readingRepoStub{}), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
