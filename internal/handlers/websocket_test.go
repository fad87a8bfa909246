package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"fermentation_logger/internal/models"
	"fermentation_logger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type feedEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func TestFeedPeriod(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", time.Second},
		{"200ms", 200 * time.Millisecond},
		{"2s", 2 * time.Second},
		{"150", 150 * time.Millisecond},
		{"20s", time.Second},
		{"20000", time.Second},
		{"5ms", time.Second},
		{"-1s", time.Second},
		{"bogus", time.Second},
	}
	for _, tc := range cases {
		if got := feedPeriod(tc.raw); got != tc.want {
			t.Errorf("feedPeriod(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func dialFeed(t *testing.T, s *service.Service, interval string) *websocket.Conn {
	t.Helper()
	r := gin.New()
	h := NewHandler(s, nil, Options{})
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	if interval != "" {
		u.RawQuery = url.Values{"interval": {interval}}.Encode()
	}

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) feedEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env feedEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestFeed_InitialAndPeriodicSnapshots(t *testing.T) {
	mon := &mockMonitoring{snapshot: models.Snapshot{
		BeerTemp: models.Reading{Value: 19.5, Valid: true},
		Gravity:  models.Reading{Value: 1.021, Valid: true},
	}}
	last := &models.DeliveryRecord{ID: "d1", Outcome: models.OutcomeDelivered, StatusCode: 200}
	conn := dialFeed(t, &service.Service{Monitoring: mon, DeliveryLog: &mockDeliveryLog{last: last}}, "20ms")

	env := readEnvelope(t, conn)
	if env.Type != msgSnapshot {
		t.Fatalf("first message type = %q", env.Type)
	}
	var msg wsSnapshot
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if !msg.Snapshot.BeerTemp.Valid || msg.Snapshot.BeerTemp.Value != 19.5 || msg.Snapshot.Gravity.Value != 1.021 {
		t.Fatalf("snapshot = %+v", msg.Snapshot)
	}
	if msg.LastDelivery == nil || msg.LastDelivery.ID != "d1" {
		t.Fatalf("last delivery = %+v", msg.LastDelivery)
	}

	// an unchanged delivery is not announced again
	for i := 0; i < 3; i++ {
		if env := readEnvelope(t, conn); env.Type != msgSnapshot {
			t.Fatalf("tick %d type = %q, want snapshot", i, env.Type)
		}
	}
}

func TestFeed_AnnouncesNewDeliveryOnce(t *testing.T) {
	mon := &mockMonitoring{}
	dl := &mockDeliveryLog{}
	conn := dialFeed(t, &service.Service{Monitoring: mon, DeliveryLog: dl}, "20ms")

	if env := readEnvelope(t, conn); env.Type != msgSnapshot {
		t.Fatalf("first message type = %q", env.Type)
	}
	dl.setLast(models.DeliveryRecord{ID: "d2", Outcome: models.OutcomeRedirect, Location: "http://elsewhere"})

	var (
		deliveries int
		rec        models.DeliveryRecord
	)
	for i := 0; i < 10; i++ {
		env := readEnvelope(t, conn)
		if env.Type == msgDelivery {
			deliveries++
			if err := json.Unmarshal(env.Data, &rec); err != nil {
				t.Fatalf("unmarshal delivery: %v", err)
			}
		}
	}
	if deliveries != 1 {
		t.Fatalf("delivery messages = %d, want 1", deliveries)
	}
	if rec.ID != "d2" || rec.Outcome != models.OutcomeRedirect || rec.Location != "http://elsewhere" {
		t.Fatalf("delivery = %+v", rec)
	}
}

func TestFeed_SnapshotErrorReportsAndCloses(t *testing.T) {
	conn := dialFeed(t, &service.Service{Monitoring: &mockMonitoring{err: errors.New("boom")}}, "")

	env := readEnvelope(t, conn)
	if env.Type != msgError || env.Error != errGetSnapshot {
		t.Fatalf("envelope = %+v, want error", env)
	}

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected closed connection, got %s", raw)
	}
}
