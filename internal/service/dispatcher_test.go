package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fermentation_logger/internal/models"
	"fermentation_logger/internal/payload"
)

// capturedRequest is what the test server saw.
type capturedRequest struct {
	method      string
	requestURI  string
	body        string
	contentType string
	userAgent   string
}

func newCaptureServer(t *testing.T, status int, header map[string]string) (*httptest.Server, func() []capturedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, capturedRequest{
			method:      r.Method,
			requestURI:  r.RequestURI,
			body:        string(b),
			contentType: r.Header.Get("Content-Type"),
			userAgent:   r.Header.Get("User-Agent"),
		})
		mu.Unlock()
		for k, v := range header {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), seen...)
	}
}

// brewSource has beerTemp 66.0 and fridgeSet 64.0 valid, everything else unavailable.
func brewSource() SnapshotProvider {
	src := unavailableSource()
	src.status.BeerTemp = 66.0
	src.status.FridgeSet = 64.0
	return SourceSnapshots{Source: src}
}

func newTestDispatcher(src SnapshotProvider) (*HTTPDispatcher, *historyStub, *recorderStub) {
	h := &historyStub{}
	r := &recorderStub{}
	return NewHTTPDispatcher(nil, src, h, r, nil), h, r
}

func TestSendOnce_PostJSON_EndToEnd(t *testing.T) {
	srv, seen := newCaptureServer(t, http.StatusOK, nil)
	d, history, rec := newTestDispatcher(brewSource())

	cfg := models.LoggingConfig{
		Enabled: true, Period: time.Minute, URL: srv.URL + "/brew",
		Method: models.MethodPost, Service: models.ServiceNonNullJSON,
	}
	got, err := d.SendOnce(context.Background(), cfg)
	if err != nil {
		t.Fatalf("SendOnce: %v", err)
	}
	if got.Outcome != models.OutcomeDelivered || got.StatusCode != http.StatusOK {
		t.Fatalf("record = %+v", got)
	}

	reqs := seen()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	r := reqs[0]
	if r.method != http.MethodPost || r.requestURI != "/brew" {
		t.Errorf("request line = %s %s", r.method, r.requestURI)
	}
	if r.body != `{"beerTemp":66.0,"fridgeSet":64.0}` {
		t.Errorf("body = %s", r.body)
	}
	if r.contentType != models.DefaultContentType {
		t.Errorf("Content-Type = %q, want default", r.contentType)
	}
	if r.userAgent != userAgent {
		t.Errorf("User-Agent = %q", r.userAgent)
	}

	if h := history.all(); len(h) != 1 || h[0].PayloadBytes != len(r.body) || h[0].ID == "" {
		t.Errorf("history = %+v", h)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != models.OutcomeDelivered {
		t.Errorf("metrics outcomes = %v", rec.outcomes)
	}
}

func TestSendOnce_GetAppendsPayloadUnmodified(t *testing.T) {
	srv, seen := newCaptureServer(t, http.StatusOK, nil)
	d, _, _ := newTestDispatcher(brewSource())

	cfg := models.LoggingConfig{
		URL: srv.URL + "/log", Method: models.MethodGet, Service: models.ServiceFormatString,
		Format: "temp=%b&sg=%g&tilt=%t&x=a,b;c:d",
	}
	if _, err := d.SendOnce(context.Background(), cfg); err != nil {
		t.Fatalf("SendOnce: %v", err)
	}

	reqs := seen()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if want := "/log?temp=66.0&sg=null&tilt=0.00&x=a,b;c:d"; reqs[0].requestURI != want {
		t.Fatalf("request URI = %q, want %q", reqs[0].requestURI, want)
	}
	if reqs[0].contentType != "" || reqs[0].body != "" {
		t.Errorf("GET must not carry a body: %+v", reqs[0])
	}
}

func TestSendOnce_GetKeepsQueryBytesVerbatim(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		format string
		want   string
	}{
		{name: "hash in payload", path: "/log", format: "b=%b#tag", want: "/log?b=66.0#tag"},
		{name: "hash between fields", path: "/log", format: "b=%b#F=%F", want: "/log?b=66.0#F=64.0"},
		{name: "base url with query", path: "/log?key=K", format: "b=%b", want: "/log?key=K?b=66.0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, seen := newCaptureServer(t, http.StatusOK, nil)
			d, _, _ := newTestDispatcher(brewSource())

			cfg := models.LoggingConfig{
				URL: srv.URL + tc.path, Method: models.MethodGet, Service: models.ServiceFormatString,
				Format: tc.format,
			}
			rec, err := d.SendOnce(context.Background(), cfg)
			if err != nil {
				t.Fatalf("SendOnce: %v", err)
			}

			reqs := seen()
			if len(reqs) != 1 {
				t.Fatalf("requests = %d, want 1", len(reqs))
			}
			if reqs[0].requestURI != tc.want {
				t.Fatalf("request URI = %q, want %q", reqs[0].requestURI, tc.want)
			}
			body, _ := RenderPayload(cfg, brewSource().Snapshot())
			if target := RequestTarget(cfg, body); target != srv.URL+tc.want {
				t.Fatalf("RequestTarget = %q, want %q", target, srv.URL+tc.want)
			}
			if rec.PayloadBytes != len(body) {
				t.Fatalf("PayloadBytes = %d, want %d", rec.PayloadBytes, len(body))
			}
		})
	}
}

func TestSendOnce_PutCustomContentTypeAndNullLiteral(t *testing.T) {
	srv, seen := newCaptureServer(t, http.StatusOK, nil)
	d, _, _ := newTestDispatcher(brewSource())

	cfg := models.LoggingConfig{
		URL: srv.URL, Method: models.MethodPut, Service: models.ServiceFormatString,
		Format: "%b|%f", ContentType: "text/plain", NullLiteral: "NaN",
	}
	if _, err := d.SendOnce(context.Background(), cfg); err != nil {
		t.Fatalf("SendOnce: %v", err)
	}
	r := seen()[0]
	if r.method != http.MethodPut || r.contentType != "text/plain" || r.body != "66.0|NaN" {
		t.Fatalf("request = %+v", r)
	}
}

func TestSendOnce_RedirectIsNotFollowed(t *testing.T) {
	target, targetSeen := newCaptureServer(t, http.StatusOK, nil)
	srv, _ := newCaptureServer(t, http.StatusFound, map[string]string{"Location": target.URL + "/moved"})
	d, history, _ := newTestDispatcher(brewSource())

	cfg := models.LoggingConfig{URL: srv.URL, Method: models.MethodPost, Service: models.ServiceNonNullJSON}
	got, err := d.SendOnce(context.Background(), cfg)
	if err != nil {
		t.Fatalf("redirect should not be an error, got %v", err)
	}
	if got.Outcome != models.OutcomeRedirect || got.StatusCode != http.StatusFound || got.Location != target.URL+"/moved" {
		t.Fatalf("record = %+v", got)
	}
	if n := len(targetSeen()); n != 0 {
		t.Fatalf("redirect target was requested %d times", n)
	}
	if h := history.all(); len(h) != 1 || h[0].Outcome != models.OutcomeRedirect {
		t.Fatalf("history = %+v", h)
	}
}

func TestSendOnce_UnexpectedStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"not found", http.StatusNotFound},
		{"no content", http.StatusNoContent},
		{"3xx without location", http.StatusTemporaryRedirect},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newCaptureServer(t, tc.status, nil)
			d, _, rec := newTestDispatcher(brewSource())

			cfg := models.LoggingConfig{URL: srv.URL, Method: models.MethodPost, Service: models.ServiceNonNullJSON}
			got, err := d.SendOnce(context.Background(), cfg)
			if !errors.Is(err, ErrUnexpectedStatus) {
				t.Fatalf("err = %v, want ErrUnexpectedStatus", err)
			}
			if got.Outcome != models.OutcomeUnexpectedStatus || got.StatusCode != tc.status {
				t.Fatalf("record = %+v", got)
			}
			if len(rec.outcomes) != 1 || rec.outcomes[0] != models.OutcomeUnexpectedStatus {
				t.Fatalf("metrics outcomes = %v", rec.outcomes)
			}
		})
	}
}

func TestSendOnce_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	d, history, _ := newTestDispatcher(brewSource())
	cfg := models.LoggingConfig{URL: url, Method: models.MethodGet, Service: models.ServiceFormatString, Format: "b=%b"}

	got, err := d.SendOnce(context.Background(), cfg)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
	if got.Outcome != models.OutcomeTransportError || got.Error == "" {
		t.Fatalf("record = %+v", got)
	}
	if h := history.all(); len(h) != 1 || h[0].Outcome != models.OutcomeTransportError {
		t.Fatalf("history = %+v", h)
	}
}

func TestSendOnce_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	d, _, _ := newTestDispatcher(brewSource())
	cfg := models.LoggingConfig{
		URL: srv.URL, Method: models.MethodPost, Service: models.ServiceNonNullJSON,
		Timeout: 50 * time.Millisecond,
	}

	start := time.Now()
	_, err := d.SendOnce(context.Background(), cfg)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout not enforced, took %v", elapsed)
	}
}

func TestSendOnce_RenderFailuresMakeNoRequest(t *testing.T) {
	cases := []struct {
		name   string
		format string
		want   error
	}{
		{"unknown directive", "b=%q", payload.ErrInvalidFormat},
		{"trailing percent", "b=%b%", payload.ErrInvalidFormat},
		{"empty output", "", ErrEmptyPayload},
		{"overflow", strings.Repeat("x", models.MaxPayloadBytes+1), payload.ErrBufferOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
			}))
			defer srv.Close()

			d, history, rec := newTestDispatcher(brewSource())
			cfg := models.LoggingConfig{URL: srv.URL, Method: models.MethodGet, Service: models.ServiceFormatString, Format: tc.format}

			got, err := d.SendOnce(context.Background(), cfg)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if hits.Load() != 0 {
				t.Fatalf("no request expected after a render failure")
			}
			if got.Outcome != models.OutcomeRenderError {
				t.Fatalf("record = %+v", got)
			}
			if len(history.all()) != 1 || len(rec.outcomes) != 1 {
				t.Fatalf("render failures are still recorded")
			}
		})
	}
}

func TestRenderPayload_UnknownService(t *testing.T) {
	_, err := RenderPayload(models.LoggingConfig{Service: "xml"}, models.Snapshot{})
	if !errors.Is(err, payload.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestRequestTarget(t *testing.T) {
	get := models.LoggingConfig{URL: "http://h/p", Method: models.MethodGet}
	if got := RequestTarget(get, []byte("a=1 b")); got != "http://h/p?a=1 b" {
		t.Errorf("GET target = %q", got)
	}
	post := models.LoggingConfig{URL: "http://h/p", Method: models.MethodPost}
	if got := RequestTarget(post, []byte("a=1")); got != "http://h/p" {
		t.Errorf("POST target = %q", got)
	}
}
