package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fermentation_logger/internal/logger"
	"fermentation_logger/internal/metrics"
	"fermentation_logger/internal/models"
	"fermentation_logger/internal/payload"

	"github.com/google/uuid"
)

const (
	userAgent = "fermentation-logger/1.0"

	// responses are drained for diagnostics only
	maxResponseBody = 4 << 10
)

var (
	ErrEmptyPayload     = errors.New("rendered payload is empty")
	ErrTransport        = errors.New("transport error")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Dispatcher performs one delivery attempt.
type Dispatcher interface {
	SendOnce(ctx context.Context, cfg models.LoggingConfig) (models.DeliveryRecord, error)
}

// DeliveryRecorder stores the outcome of an attempt.
type DeliveryRecorder interface {
	Record(ctx context.Context, d models.DeliveryRecord) error
}

// HTTPDispatcher renders the current snapshot and pushes it to the configured URL.
type HTTPDispatcher struct {
	client   *http.Client
	source   SnapshotProvider
	history  DeliveryRecorder
	recorder metrics.Recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewHTTPDispatcher builds a dispatcher. A nil client gets one that never follows redirects.
func NewHTTPDispatcher(client *http.Client, source SnapshotProvider, history DeliveryRecorder, rec metrics.Recorder, log *logger.Logger) *HTTPDispatcher {
	if client == nil {
		client = &http.Client{}
	}
	// redirects are reported, never followed
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &HTTPDispatcher{
		client:   &c,
		source:   source,
		history:  history,
		recorder: rec,
		log:      log,
		now:      time.Now,
	}
}

// RenderPayload serializes a snapshot with the configured service.
func RenderPayload(cfg models.LoggingConfig, snap models.Snapshot) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	switch cfg.Service {
	case models.ServiceNonNullJSON:
		body, err = payload.RenderJSON(snap, models.MaxPayloadBytes)
	case models.ServiceFormatString:
		body, err = payload.Render(cfg.Format, snap, payload.TemplateOptions{NullLiteral: cfg.EffectiveNullLiteral()})
	default:
		return nil, fmt.Errorf("%w: unknown service %q", payload.ErrInvalidFormat, cfg.Service)
	}
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}
	return body, nil
}

// RequestTarget returns the URL a payload is sent to.
func RequestTarget(cfg models.LoggingConfig, body []byte) string {
	if cfg.Method.HasBody() {
		return cfg.URL
	}
	return cfg.URL + "?" + string(body)
}

// SendOnce performs exactly one attempt and records its outcome. The returned
// error is nil for a 200 response and for a reported (unfollowed) redirect.
func (d *HTTPDispatcher) SendOnce(ctx context.Context, cfg models.LoggingConfig) (models.DeliveryRecord, error) {
	start := d.now()
	rec := models.DeliveryRecord{
		ID:         uuid.NewString(),
		OccurredAt: start.UTC(),
		Method:     string(cfg.Method),
		URL:        cfg.URL,
	}

	body, err := RenderPayload(cfg, d.source.Snapshot())
	if err != nil {
		rec.Outcome = models.OutcomeRenderError
		rec.Error = err.Error()
		d.log.Errorw("payload_render_failed", "service", cfg.Service, "err", err)
		d.finish(ctx, &rec, start)
		return rec, err
	}
	rec.PayloadBytes = len(body)

	status, location, err := d.do(ctx, cfg, body)
	rec.StatusCode = status
	rec.Location = location

	switch {
	case err != nil:
		rec.Outcome = models.OutcomeTransportError
		rec.Error = err.Error()
		d.log.Errorw("delivery_transport_failed", "method", cfg.Method, "url", cfg.URL, "err", err)
	case status == http.StatusOK:
		rec.Outcome = models.OutcomeDelivered
		d.log.Infow("delivery_sent", "method", cfg.Method, "url", cfg.URL, "bytes", len(body))
	case status/100 == 3 && location != "":
		rec.Outcome = models.OutcomeRedirect
		d.log.Warnw("http_redirect", "url", cfg.URL, "status", status, "location", location)
	default:
		rec.Outcome = models.OutcomeUnexpectedStatus
		err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
		rec.Error = err.Error()
		d.log.Warnw("http_unexpected_status", "url", cfg.URL, "status", status)
	}

	d.finish(ctx, &rec, start)
	return rec, err
}

// do issues the request and returns the status code and Location header.
func (d *HTTPDispatcher) do(ctx context.Context, cfg models.LoggingConfig, body []byte) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.EffectiveTimeout())
	defer cancel()

	var reqBody io.Reader
	if cfg.Method.HasBody() {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, string(cfg.Method), cfg.URL, reqBody)
	if err != nil {
		return 0, "", fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	if !cfg.Method.HasBody() {
		appendRawQuery(req.URL, body)
	}
	req.Header.Set("User-Agent", userAgent)
	if cfg.Method.HasBody() {
		req.Header.Set("Content-Type", cfg.EffectiveContentType())
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if readErr != nil {
		d.log.Debugw("response_read_failed", "err", readErr)
	} else {
		d.log.Debugw("response_received", "status", resp.StatusCode, "body", string(respBody))
	}
	return resp.StatusCode, resp.Header.Get("Location"), nil
}

// appendRawQuery sets the query to the payload bytes as rendered, producing the
// same request line as RequestTarget. A '#' in the payload stays in the query.
func appendRawQuery(u *url.URL, body []byte) {
	q := string(body)
	if u.RawQuery != "" || u.ForceQuery {
		q = u.RawQuery + "?" + q
	}
	u.RawQuery = q
	u.ForceQuery = false
}

func (d *HTTPDispatcher) finish(ctx context.Context, rec *models.DeliveryRecord, start time.Time) {
	took := d.now().Sub(start)
	rec.DurationMs = took.Milliseconds()
	d.recorder.ObserveDelivery(rec.Outcome, took, start)
	if d.history == nil {
		return
	}
	// history is written even when the attempt context was cancelled
	if err := d.history.Record(context.WithoutCancel(ctx), *rec); err != nil {
		d.log.Errorw("delivery_record_failed", "id", rec.ID, "err", err)
	}
}
