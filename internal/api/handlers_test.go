package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"vehicle-alert-service/internal/alert"
	"vehicle-alert-service/internal/models"
	"vehicle-alert-service/internal/stream"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeStore struct {
	mu      sync.Mutex
	records []models.Notification
}

func (f *fakeStore) CreateNotification(ctx context.Context, userID, title, message string) (models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := models.Notification{
		ID:        "n-" + userID,
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	f.records = append(f.records, n)
	return n, nil
}

func (f *fakeStore) GetNotificationsByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].UserID == userID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func newTestServer(t *testing.T) (*gin.Engine, *stream.Registry, *fakeStore) {
	t.Helper()
	registry := stream.NewRegistry(time.Hour, testLogger())
	store := &fakeStore{}
	dispatcher := alert.NewDispatcher(registry, store, testLogger())
	h := NewHandler(registry, dispatcher, store, testLogger())
	return NewRouter(h, testLogger()), registry, store
}

func TestSendTestAlert(t *testing.T) {
	router, registry, store := newTestServer(t)

	sub, err := registry.Subscribe("user-1")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	<-sub.Events() // INIT

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/alerts/test/user-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "user-1") {
		t.Errorf("response %q should mention the user", w.Body.String())
	}

	select {
	case ev := <-sub.Events():
		a, ok := ev.Data.(models.Alert)
		if !ok || a.Type != models.TypeTestAlert {
			t.Errorf("delivered event data = %v, want a TEST_ALERT", ev.Data)
		}
	default:
		t.Error("no alert delivered to live subscription")
	}

	if len(store.records) != 1 {
		t.Fatalf("notification writes = %d, want 1", len(store.records))
	}
	if store.records[0].Title != "기타" {
		t.Errorf("stored title = %q, want 기타", store.records[0].Title)
	}
}

func TestUnsubscribeEndpoint(t *testing.T) {
	router, registry, _ := newTestServer(t)

	if _, err := registry.Subscribe("user-1"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/alerts/subscribe/user-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := registry.Count("user-1"); got != 0 {
		t.Errorf("registry count after unsubscribe = %d, want 0", got)
	}
}

func TestCreateNotification(t *testing.T) {
	router, _, store := newTestServer(t)

	body := `{"userId":"user-1","title":"차량 점검","message":"가장 가까운 교체 예정일: 05월 25일"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var n models.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &n); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if n.ID == "" || n.CreatedAt.IsZero() {
		t.Errorf("stored record missing generated fields: %+v", n)
	}
	if len(store.records) != 1 {
		t.Errorf("store writes = %d, want 1", len(store.records))
	}
}

func TestCreateNotificationRejectsBadBody(t *testing.T) {
	router, _, store := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(store.records) != 0 {
		t.Errorf("store writes = %d, want 0", len(store.records))
	}
}

func TestGetNotificationsByUserID(t *testing.T) {
	router, _, store := newTestServer(t)

	_, _ = store.CreateNotification(context.Background(), "user-1", "안전", "first")
	_, _ = store.CreateNotification(context.Background(), "user-1", "차량 점검", "second")
	_, _ = store.CreateNotification(context.Background(), "user-2", "기타", "other")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications/user/user-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var list []models.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("notifications = %d, want 2", len(list))
	}
	if list[0].Message != "second" {
		t.Errorf("first listed message = %q, want newest first", list[0].Message)
	}
}

func TestSubscribeStreamsInitEvent(t *testing.T) {
	router, _, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/alerts/subscribe/user-1", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		router.ServeHTTP(w, req)
	}()

	// Give the handler time to register and flush the INIT event, then
	// disconnect the client.
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscribe handler did not exit on client disconnect")
	}

	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "event:INIT") {
		t.Errorf("stream body %q missing INIT event", body)
	}
	if !strings.Contains(body, "id:INIT-") {
		t.Errorf("stream body %q missing INIT event id", body)
	}
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
