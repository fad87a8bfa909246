package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fermentation_logger/internal/models"
	"fermentation_logger/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseName     string
	parseErr      error

	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseName, m.parseErr
}

type mockMonitoring struct {
	snapshot   models.Snapshot
	readings   models.ReadingState
	preview    service.PreviewResult
	err        error
	previewErr error
}

func (m *mockMonitoring) GetSnapshot(ctx context.Context) (models.Snapshot, error) {
	return m.snapshot, m.err
}
func (m *mockMonitoring) GetReadings(ctx context.Context) (models.ReadingState, error) {
	return m.readings, m.err
}
func (m *mockMonitoring) Preview(ctx context.Context) (service.PreviewResult, error) {
	return m.preview, m.previewErr
}

type mockReadings struct {
	resp    models.ReadingState
	err     error
	last    models.ReadingUpdate
	applied int
}

func (m *mockReadings) Apply(ctx context.Context, u models.ReadingUpdate) (models.ReadingState, error) {
	m.applied++
	m.last = u
	return m.resp, m.err
}

type mockDeliveryLog struct {
	resp       []models.DeliveryRecord
	err        error
	lastFilter service.DeliveryFilter

	mu   sync.Mutex
	last *models.DeliveryRecord
}

func (m *mockDeliveryLog) setLast(rec models.DeliveryRecord) {
	m.mu.Lock()
	m.last = &rec
	m.mu.Unlock()
}

func (m *mockDeliveryLog) List(ctx context.Context, f service.DeliveryFilter) ([]models.DeliveryRecord, error) {
	m.lastFilter = f
	return m.resp, m.err
}
func (m *mockDeliveryLog) Last() (models.DeliveryRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return models.DeliveryRecord{}, false
	}
	return *m.last, true
}

type mockScheduler struct {
	rec       models.DeliveryRecord
	err       error
	sendCalls int
}

func (m *mockScheduler) Tick(ctx context.Context, now time.Time) bool { return false }
func (m *mockScheduler) SendNow(ctx context.Context) (models.DeliveryRecord, error) {
	m.sendCalls++
	return m.rec, m.err
}
func (m *mockScheduler) LastAttempt() time.Time                      { return time.Time{} }
func (m *mockScheduler) Run(ctx context.Context, tick time.Duration) {}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Options{AuthEnabled: true})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// authedService returns a service whose token check accepts any bearer token.
func authedService() *service.Service {
	return &service.Service{Authorization: &mockAuth{parseName: "brewer"}}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
