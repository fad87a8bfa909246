package service

import (
	"context"
	"sync"
	"time"

	"fermentation_logger/internal/models"
	"fermentation_logger/internal/validity"
)

// ---- Test doubles ----

// readingRepoStub is a minimal stub for repository.ReadingRepo.
type readingRepoStub struct {
	mu       sync.Mutex
	loadResp models.ReadingState
	loadErr  error
	saveErr  error
	saves    []models.ReadingState
}

func (r *readingRepoStub) Save(_ context.Context, st models.ReadingState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, st)
	return r.saveErr
}

func (r *readingRepoStub) Load(context.Context) (models.ReadingState, error) {
	return r.loadResp, r.loadErr
}

// deliveryRepoStub is a minimal stub for repository.DeliveryRepo.
type deliveryRepoStub struct {
	mu      sync.Mutex
	appends []models.DeliveryRecord

	gotFrom, gotTo time.Time
	gotOutcome     string
	listResp       []models.DeliveryRecord
	listErr        error
	listCalls      int
}

func (d *deliveryRepoStub) Append(_ context.Context, rec models.DeliveryRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.appends = append(d.appends, rec)
	return nil
}

func (d *deliveryRepoStub) List(_ context.Context, from, to time.Time, outcome string) ([]models.DeliveryRecord, error) {
	d.listCalls++
	d.gotFrom, d.gotTo, d.gotOutcome = from, to, outcome
	return d.listResp, d.listErr
}

// historyStub records delivery records in memory.
type historyStub struct {
	mu      sync.Mutex
	records []models.DeliveryRecord
}

func (h *historyStub) Record(_ context.Context, d models.DeliveryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, d)
	return nil
}

func (h *historyStub) all() []models.DeliveryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.DeliveryRecord(nil), h.records...)
}

// recorderStub captures metric observations.
type recorderStub struct {
	mu       sync.Mutex
	outcomes []models.DeliveryOutcome
}

func (r *recorderStub) ObserveDelivery(o models.DeliveryOutcome, _ time.Duration, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// staticLogging is a fixed LoggingSource.
type staticLogging struct {
	cfg models.LoggingConfig
}

func (s *staticLogging) Logging() models.LoggingConfig { return s.cfg }

// fixedSource is a ValueSource returning constant raw values.
type fixedSource struct {
	status                                  models.ControllerStatus
	gravity, plato, voltage, auxTemp, tilt float64
	lastUpdate                              int64
}

func (f fixedSource) AllStatus() models.ControllerStatus { return f.status }
func (f fixedSource) Gravity() float64                   { return f.gravity }
func (f fixedSource) Plato() float64                     { return f.plato }
func (f fixedSource) DeviceVoltage() float64             { return f.voltage }
func (f fixedSource) AuxTemp() float64                   { return f.auxTemp }
func (f fixedSource) TiltValue() float64                 { return f.tilt }
func (f fixedSource) LastUpdate() int64                  { return f.lastUpdate }

// unavailableSource reports every reading as a sentinel.
func unavailableSource() fixedSource {
	return fixedSource{
		status: models.ControllerStatus{
			BeerTemp:   validity.InvalidTemp,
			BeerSet:    validity.InvalidTemp,
			FridgeTemp: validity.InvalidTemp,
			FridgeSet:  validity.InvalidTemp,
			RoomTemp:   validity.InvalidTemp,
		},
		gravity: validity.InvalidGravity,
		plato:   validity.InvalidGravity,
		voltage: validity.InvalidVoltage,
		auxTemp: validity.InvalidTemp,
	}
}

// dispatcherStub counts SendOnce calls and can block until released.
type dispatcherStub struct {
	mu      sync.Mutex
	calls   int
	err     error
	started chan struct{}
	release chan struct{}
}

func (d *dispatcherStub) SendOnce(ctx context.Context, _ models.LoggingConfig) (models.DeliveryRecord, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.started != nil {
		d.started <- struct{}{}
	}
	if d.release != nil {
		select {
		case <-d.release:
		case <-ctx.Done():
		}
	}
	return models.DeliveryRecord{Outcome: models.OutcomeDelivered}, d.err
}

func (d *dispatcherStub) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func f64(v float64) models.OptionalFloat { return models.OptionalFloat{Set: true, Value: v} }

var nullReading = models.OptionalFloat{Set: true, Null: true}
