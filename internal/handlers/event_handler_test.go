package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/anvex/concertly/backend/internal/clients"
	"github.com/anvex/concertly/backend/internal/models"
	"github.com/anvex/concertly/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memSavedEventRepo mimics the Mongo repository including the compound
// unique constraint: at most one record per (user, event) pair, enforced
// under the same lock concurrent saves would race on.
type memSavedEventRepo struct {
	mu     sync.Mutex
	events map[string]*models.SavedEvent
	fail   bool
}

func newMemSavedEventRepo() *memSavedEventRepo {
	return &memSavedEventRepo{events: map[string]*models.SavedEvent{}}
}

func (r *memSavedEventRepo) key(userID uint, eventID string) string {
	return fmt.Sprintf("%d|%s", userID, eventID)
}

func (r *memSavedEventRepo) Save(ctx context.Context, userID uint, eventID string, eventData json.RawMessage) (*models.SavedEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, fmt.Errorf("store unreachable")
	}
	if existing, ok := r.events[r.key(userID, eventID)]; ok {
		return existing, nil
	}
	saved := &models.SavedEvent{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		EventID:   eventID,
		EventData: eventData,
	}
	r.events[r.key(userID, eventID)] = saved
	return saved, nil
}

func (r *memSavedEventRepo) Unsave(ctx context.Context, userID uint, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("store unreachable")
	}
	delete(r.events, r.key(userID, eventID))
	return nil
}

func (r *memSavedEventRepo) ListByUser(ctx context.Context, userID uint) ([]models.SavedEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, fmt.Errorf("store unreachable")
	}
	saved := []models.SavedEvent{}
	for _, ev := range r.events {
		if ev.UserID == userID {
			saved = append(saved, *ev)
		}
	}
	return saved, nil
}

func (r *memSavedEventRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asAuthenticated(c echo.Context, userID uint) {
	c.Set("user", &models.JwtCustomClaims{UserID: userID, Email: "user@example.com"})
}

func TestSaveEvent(t *testing.T) {
	repo := newMemSavedEventRepo()
	h := NewEventHandler(repo, nil)

	body := `{"eventId":"evt-42","eventData":{"name":"Show A","date":"2025-06-01"}}`
	c, rec := newTestContext(t, http.MethodPost, "/api/events/save", body)
	asAuthenticated(c, 1)

	if err := h.SaveEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}
	if repo.count() != 1 {
		t.Errorf("expected 1 stored record, got %d", repo.count())
	}
}

func TestSaveEvent_TwiceLeavesOneRecord(t *testing.T) {
	repo := newMemSavedEventRepo()
	h := NewEventHandler(repo, nil)

	body := `{"eventId":"evt-42","eventData":{"name":"Show A"}}`
	var firstID string
	for i := 0; i < 2; i++ {
		c, rec := newTestContext(t, http.MethodPost, "/api/events/save", body)
		asAuthenticated(c, 1)
		if err := h.SaveEvent(c); err != nil {
			t.Fatalf("save %d: unexpected error: %v", i, err)
		}
		if rec.Code != http.StatusCreated {
			t.Errorf("save %d: expected status 201, got %d", i, rec.Code)
		}

		var resp struct {
			SavedEvent models.SavedEvent `json:"savedEvent"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("save %d: failed to decode response: %v", i, err)
		}
		if i == 0 {
			firstID = resp.SavedEvent.ID.Hex()
		} else if resp.SavedEvent.ID.Hex() != firstID {
			t.Errorf("second save returned a different record: %s vs %s", resp.SavedEvent.ID.Hex(), firstID)
		}
	}

	if repo.count() != 1 {
		t.Errorf("expected exactly 1 stored record after double save, got %d", repo.count())
	}
}

func TestSaveEvent_ConcurrentSavesProduceOneRecord(t *testing.T) {
	repo := newMemSavedEventRepo()
	h := NewEventHandler(repo, nil)

	const callers = 10
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := `{"eventId":"evt-42","eventData":{"name":"Show A"}}`
			c, rec := newTestContext(t, http.MethodPost, "/api/events/save", body)
			asAuthenticated(c, 1)
			if err := h.SaveEvent(c); err != nil {
				errs <- err
				return
			}
			if rec.Code != http.StatusCreated {
				errs <- fmt.Errorf("expected 201, got %d", rec.Code)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent save: %v", err)
	}

	if repo.count() != 1 {
		t.Errorf("expected exactly 1 stored record after concurrent saves, got %d", repo.count())
	}
}

func TestSaveEvent_MissingEventID(t *testing.T) {
	repo := newMemSavedEventRepo()
	h := NewEventHandler(repo, nil)

	c, _ := newTestContext(t, http.MethodPost, "/api/events/save", `{"eventData":{"name":"Show A"}}`)
	asAuthenticated(c, 1)

	err := h.SaveEvent(c)
	if err == nil {
		t.Fatal("expected validation error")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected HTTP 400 error, got %v", err)
	}
	if repo.count() != 0 {
		t.Errorf("invalid request must not store anything, got %d records", repo.count())
	}
}

func TestSaveEvent_Unauthenticated(t *testing.T) {
	h := NewEventHandler(newMemSavedEventRepo(), nil)

	c, _ := newTestContext(t, http.MethodPost, "/api/events/save", `{"eventId":"evt-42","eventData":{}}`)

	err := h.SaveEvent(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected HTTP 401 error, got %v", err)
	}
}

func TestSaveEvent_StorageUnavailable(t *testing.T) {
	repo := newMemSavedEventRepo()
	repo.fail = true
	h := NewEventHandler(repo, nil)

	c, rec := newTestContext(t, http.MethodPost, "/api/events/save", `{"eventId":"evt-42","eventData":{}}`)
	asAuthenticated(c, 1)

	if err := h.SaveEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
}

func TestUnsaveEvent_AbsentRecordIsSuccess(t *testing.T) {
	repo := newMemSavedEventRepo()
	h := NewEventHandler(repo, nil)

	c, rec := newTestContext(t, http.MethodDelete, "/api/events/saved/evt-404", "")
	c.SetParamNames("eventId")
	c.SetParamValues("evt-404")
	asAuthenticated(c, 1)

	if err := h.UnsaveEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 for absent record, got %d", rec.Code)
	}
	if repo.count() != 0 {
		t.Errorf("store must remain unchanged, got %d records", repo.count())
	}
}

func TestSaveUnsaveListRoundTrip(t *testing.T) {
	repo := newMemSavedEventRepo()
	h := NewEventHandler(repo, nil)

	// Save
	c, rec := newTestContext(t, http.MethodPost, "/api/events/save", `{"eventId":"evt-42","eventData":{"name":"Show A","date":"2025-06-01"}}`)
	asAuthenticated(c, 1)
	if err := h.SaveEvent(c); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("save: expected 201, got %d", rec.Code)
	}

	// List contains the event
	c, rec = newTestContext(t, http.MethodGet, "/api/events/saved", "")
	asAuthenticated(c, 1)
	if err := h.GetSavedEvents(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	var listResp struct {
		SavedEvents []models.SavedEvent `json:"savedEvents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("list: decode: %v", err)
	}
	if len(listResp.SavedEvents) != 1 || listResp.SavedEvents[0].EventID != "evt-42" {
		t.Fatalf("list: expected one record for evt-42, got %+v", listResp.SavedEvents)
	}

	// Unsave
	c, rec = newTestContext(t, http.MethodDelete, "/api/events/saved/evt-42", "")
	c.SetParamNames("eventId")
	c.SetParamValues("evt-42")
	asAuthenticated(c, 1)
	if err := h.UnsaveEvent(c); err != nil {
		t.Fatalf("unsave: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unsave: expected 200, got %d", rec.Code)
	}

	// List no longer contains the event
	c, rec = newTestContext(t, http.MethodGet, "/api/events/saved", "")
	asAuthenticated(c, 1)
	if err := h.GetSavedEvents(c); err != nil {
		t.Fatalf("second list: %v", err)
	}
	listResp.SavedEvents = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("second list: decode: %v", err)
	}
	if len(listResp.SavedEvents) != 0 {
		t.Errorf("expected no saved events after unsave, got %+v", listResp.SavedEvents)
	}
}

func TestGetSavedEvents_EmptyIsNotAnError(t *testing.T) {
	h := NewEventHandler(newMemSavedEventRepo(), nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/events/saved", "")
	asAuthenticated(c, 7)

	if err := h.GetSavedEvents(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	body := strings.TrimSpace(rec.Body.String())
	if !strings.Contains(body, `"savedEvents":[]`) {
		t.Errorf("expected empty savedEvents array, got %s", body)
	}
}

func TestSearchEvents_MissingCityMakesNoUpstreamCall(t *testing.T) {
	var upstreamCalls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	h := NewEventHandler(newMemSavedEventRepo(), clients.NewTicketmasterClientWithBaseURL("key", upstream.URL))

	c, rec := newTestContext(t, http.MethodGet, "/api/events", "")
	if err := h.SearchEvents(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if upstreamCalls != 0 {
		t.Errorf("expected no upstream call for missing city, got %d", upstreamCalls)
	}
}

func TestSearchEvents_PassesThroughUpstreamRecords(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("city"); got != "Austin" {
			t.Errorf("expected city=Austin, got %q", got)
		}
		if got := r.URL.Query().Get("classificationName"); got != "music" {
			t.Errorf("expected classificationName=music, got %q", got)
		}
		w.Write([]byte(`{"_embedded":{"events":[{"id":"evt-1","name":"Show A"}]}}`))
	}))
	defer upstream.Close()

	h := NewEventHandler(newMemSavedEventRepo(), clients.NewTicketmasterClientWithBaseURL("key", upstream.URL))

	c, rec := newTestContext(t, http.MethodGet, "/api/events?city=Austin", "")
	if err := h.SearchEvents(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Events) != 1 {
		t.Errorf("expected 1 event, got %d", len(resp.Events))
	}
}

func TestSearchEvents_ForwardsUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	h := NewEventHandler(newMemSavedEventRepo(), clients.NewTicketmasterClientWithBaseURL("key", upstream.URL))

	c, rec := newTestContext(t, http.MethodGet, "/api/events?city=Austin", "")
	if err := h.SearchEvents(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected forwarded status 429, got %d", rec.Code)
	}
}

func TestSearchEvents_UnreachableUpstreamIsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused from here on

	h := NewEventHandler(newMemSavedEventRepo(), clients.NewTicketmasterClientWithBaseURL("key", upstream.URL))

	c, rec := newTestContext(t, http.MethodGet, "/api/events?city=Austin", "")
	if err := h.SearchEvents(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", rec.Code)
	}
}
