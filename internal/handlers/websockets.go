package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fermentation_logger/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait   = 10 * time.Second
	wsPongWait    = 60 * time.Second
	wsPingPeriod  = wsPongWait * 9 / 10
	wsReadLimit   = 512
	feedInterval  = time.Second
	feedMinPeriod = 20 * time.Millisecond
	feedMaxPeriod = 10 * time.Second

	msgSnapshot = "snapshot"
	msgDelivery = "delivery"
	msgError    = "error"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsSnapshot is the payload of a "snapshot" message.
type wsSnapshot struct {
	Snapshot     models.Snapshot        `json:"snapshot"`
	LastDelivery *models.DeliveryRecord `json:"last_delivery,omitempty"`
}

// The feed is read-only and carries no credentials, so any origin may subscribe.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// snapshotFeed streams readings to one client and announces each new delivery once.
type snapshotFeed struct {
	h        *Handler
	conn     *websocket.Conn
	lastSent string // id of the newest delivery the client has seen
	primed   bool
}

// @Summary      Live feed
// @Description  WebSocket stream of "snapshot" messages every interval (Go duration or milliseconds, 20ms..10s, default 1s) and a "delivery" message per new send attempt.
// @Tags         readings
// @Param        interval  query  string  false  "Push interval"  example(2s)
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := feedPeriod(c.Query("interval"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	closed := make(chan struct{})
	go drain(conn, closed)

	feed := &snapshotFeed{h: h, conn: conn}
	ctx := c.Request.Context()
	if err := feed.push(ctx); err != nil {
		return
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-tick.C:
			if err := feed.push(ctx); err != nil {
				return
			}
		}
	}
}

// feedPeriod reads ?interval as a Go duration or as bare milliseconds.
// Values outside the allowed range fall back to the default.
func feedPeriod(raw string) time.Duration {
	if raw == "" {
		return feedInterval
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		ms, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return feedInterval
		}
		d = time.Duration(ms) * time.Millisecond
	}
	if d < feedMinPeriod || d > feedMaxPeriod {
		return feedInterval
	}
	return d
}

// drain consumes client frames so pongs and close frames are processed.
func drain(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// push sends the current snapshot, followed by a delivery message when an
// attempt happened since the previous push. A snapshot failure is reported
// to the client before the connection closes.
func (f *snapshotFeed) push(ctx context.Context) error {
	snap, err := f.h.services.Monitoring.GetSnapshot(ctx)
	if err != nil {
		if f.h.log != nil {
			f.h.log.Errorw("ws_snapshot_failed", "err", err)
		}
		_ = f.write(wsEnvelope{Type: msgError, Error: errGetSnapshot})
		return err
	}

	msg := wsSnapshot{Snapshot: snap}
	var fresh *models.DeliveryRecord
	if f.h.services.DeliveryLog != nil {
		if last, ok := f.h.services.DeliveryLog.Last(); ok {
			msg.LastDelivery = &last
			if f.primed && last.ID != f.lastSent {
				fresh = &last
			}
			f.lastSent = last.ID
		}
	}
	f.primed = true

	if err := f.write(wsEnvelope{Type: msgSnapshot, Data: msg}); err != nil {
		return err
	}
	if fresh != nil {
		return f.write(wsEnvelope{Type: msgDelivery, Data: fresh})
	}
	return nil
}

func (f *snapshotFeed) write(env wsEnvelope) error {
	_ = f.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := f.conn.WriteJSON(env); err != nil {
		if f.h.log != nil {
			f.h.log.Debugw("ws_write_failed", "type", env.Type, "err", err)
		}
		return err
	}
	return nil
}
