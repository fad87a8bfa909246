package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fermentation_logger/internal/models"
)

func enabledEvery(period time.Duration) *staticLogging {
	return &staticLogging{cfg: models.LoggingConfig{
		Enabled: true, Period: period, URL: "http://h", Method: models.MethodGet,
		Service: models.ServiceFormatString, Format: "b=%b",
	}}
}

func TestTick_DisabledIsNoop(t *testing.T) {
	d := &dispatcherStub{}
	s := NewSchedulerService(&staticLogging{}, d, nil)

	if s.Tick(context.Background(), time.Now()) {
		t.Fatal("disabled scheduler must not send")
	}
	if d.count() != 0 {
		t.Fatalf("dispatcher calls = %d", d.count())
	}
}

func TestTick_FirstTickSendsImmediately(t *testing.T) {
	d := &dispatcherStub{}
	s := NewSchedulerService(enabledEvery(time.Minute), d, nil)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !s.Tick(context.Background(), now) {
		t.Fatal("first tick should send")
	}
	if !s.LastAttempt().Equal(now) {
		t.Fatalf("LastAttempt = %v, want %v", s.LastAttempt(), now)
	}
}

func TestTick_OncePerPeriod(t *testing.T) {
	d := &dispatcherStub{}
	s := NewSchedulerService(enabledEvery(60*time.Second), d, nil)
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Tick(ctx, t0)
	for i := 1; i < 60; i++ {
		if s.Tick(ctx, t0.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("sent %ds after last attempt", i)
		}
	}
	if d.count() != 1 {
		t.Fatalf("calls inside the window = %d, want 1", d.count())
	}

	// repeated ticks exactly at the threshold send once
	at := t0.Add(60 * time.Second)
	for i := 0; i < 5; i++ {
		s.Tick(ctx, at)
	}
	if d.count() != 2 {
		t.Fatalf("calls after threshold = %d, want 2", d.count())
	}
}

func TestTick_FailureStillAdvancesSchedule(t *testing.T) {
	d := &dispatcherStub{err: ErrTransport}
	s := NewSchedulerService(enabledEvery(time.Minute), d, nil)
	ctx := context.Background()
	t0 := time.Now()

	if !s.Tick(ctx, t0) {
		t.Fatal("failed attempt still counts as a send")
	}
	if s.Tick(ctx, t0.Add(10*time.Second)) {
		t.Fatal("no early retry after a failure")
	}
	if d.count() != 1 {
		t.Fatalf("calls = %d, want 1", d.count())
	}
}

func TestTick_LateTicksDelayButNeverBatch(t *testing.T) {
	d := &dispatcherStub{}
	s := NewSchedulerService(enabledEvery(time.Minute), d, nil)
	ctx := context.Background()
	t0 := time.Now()

	s.Tick(ctx, t0)
	s.Tick(ctx, t0.Add(10*time.Minute))
	if d.count() != 2 {
		t.Fatalf("calls = %d, want 2", d.count())
	}
}

func TestTick_ClockSteppedBack(t *testing.T) {
	d := &dispatcherStub{}
	s := NewSchedulerService(enabledEvery(time.Minute), d, nil)
	ctx := context.Background()
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	s.Tick(ctx, t0)
	back := t0.Add(-time.Hour)
	if s.Tick(ctx, back) {
		t.Fatal("must not send when the clock steps back")
	}
	if !s.Tick(ctx, back.Add(time.Minute)) {
		t.Fatal("period should restart from the stepped-back time")
	}
}

func TestSchedulerService_AtMostOneInFlight(t *testing.T) {
	d := &dispatcherStub{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewSchedulerService(enabledEvery(time.Minute), d, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Tick(ctx, time.Now())
	}()
	<-d.started

	if _, err := s.SendNow(ctx); !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("SendNow during a send: err = %v, want ErrSendInFlight", err)
	}
	if s.Tick(ctx, time.Now().Add(time.Hour)) {
		t.Fatal("Tick during a send must not start another")
	}

	close(d.release)
	<-done
	if d.count() != 1 {
		t.Fatalf("calls = %d, want 1", d.count())
	}
}

func TestSchedulerService_SendNowKeepsSchedule(t *testing.T) {
	d := &dispatcherStub{}
	s := NewSchedulerService(enabledEvery(time.Minute), d, nil)

	if _, err := s.SendNow(context.Background()); err != nil {
		t.Fatalf("SendNow: %v", err)
	}
	if !s.LastAttempt().IsZero() {
		t.Fatal("SendNow must not move the schedule")
	}
}

func TestSchedulerService_SendNowDisabled(t *testing.T) {
	d := &dispatcherStub{}
	cfg := enabledEvery(time.Minute)
	cfg.cfg.Enabled = false
	s := NewSchedulerService(cfg, d, nil)

	rec, err := s.SendNow(context.Background())
	if !errors.Is(err, ErrLoggingDisabled) {
		t.Fatalf("SendNow while disabled: err = %v, want ErrLoggingDisabled", err)
	}
	if rec.ID != "" || rec.Outcome != "" {
		t.Fatalf("record = %+v, want empty", rec)
	}
	if d.count() != 0 {
		t.Fatalf("dispatcher calls = %d, want 0", d.count())
	}

	// re-enabling through the store takes effect on the next call
	cfg.cfg.Enabled = true
	if _, err := s.SendNow(context.Background()); err != nil {
		t.Fatalf("SendNow after enabling: %v", err)
	}
	if d.count() != 1 {
		t.Fatalf("dispatcher calls = %d, want 1", d.count())
	}
}

func TestSchedulerService_RunStopsOnCancel(t *testing.T) {
	d := &dispatcherStub{}
	s := NewSchedulerService(enabledEvery(time.Hour), d, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for d.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("Run never ticked")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if d.count() != 1 {
		t.Fatalf("calls = %d, want 1 within an hour period", d.count())
	}
}
