package handlers

import (
	"context"
	"sync"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/dashboard"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockRecorder struct {
	recorded bool
	err      error

	calls      int
	lastField  models.Field
	lastActive bool
	lastSubj   string
}

func (m *mockRecorder) HandleEvent(_ context.Context, subjectID string, field models.Field, active bool) (bool, error) {
	m.calls++
	m.lastSubj, m.lastField, m.lastActive = subjectID, field, active
	return m.recorded, m.err
}

type mockStatus struct {
	state models.LiveStatus
	err   error
}

func (m *mockStatus) Live(context.Context, string) (models.LiveStatus, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp     []models.ActivityEvent
	err      error
	lastSubj string
}

func (m *mockEventLog) Today(_ context.Context, subjectID string) ([]models.ActivityEvent, error) {
	m.lastSubj = subjectID
	return m.resp, m.err
}

type mockSummaries struct {
	resp models.Summary
	err  error
}

func (m *mockSummaries) Summary(context.Context, string) (models.Summary, error) {
	return m.resp, m.err
}

// mockViews is a ViewSource whose views are pushed by the test.
type mockViews struct {
	mu      sync.Mutex
	current dashboard.View
	subs    []chan dashboard.View
}

func (m *mockViews) View() dashboard.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *mockViews) Watch() (<-chan dashboard.View, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan dashboard.View, 4)
	ch <- m.current
	m.subs = append(m.subs, ch)
	return ch, func() {}
}

func (m *mockViews) push(v dashboard.View) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = v
	for _, ch := range m.subs {
		ch <- v
	}
}

func (m *mockViews) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		close(ch)
	}
	m.subs = nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, hub *Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if hub == nil {
		hub = NewHub(nil)
	}
	return NewHandler(s, hub, nil).InitRoutes()
}
