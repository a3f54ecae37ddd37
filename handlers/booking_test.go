package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salonbook/database/repository/memstore"
	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/services/lock"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()

	store := memstore.New()
	for _, id := range []string{"stylist-a", "stylist-b"} {
		store.PutResource(models.Resource{ID: id, SalonID: "salon-1", Name: id, Active: true})
		if err := store.PutWorkingWindow(models.WorkingWindow{ResourceID: id, DayOfWeek: 1, Start: 540, End: 1020}); err != nil {
			t.Fatalf("seed window: %v", err)
		}
	}
	store.PutService(models.Service{ID: "cut", SalonID: "salon-1", Name: "Haircut", DurationMinutes: 30, Price: models.MustMoney("25.00"), Active: true})

	engine := &booking.DefaultBookingEngine{
		Schedules:    store,
		Catalogue:    store,
		Appointments: store,
		Locker:       lock.NewLocalLocker(),
		Settings:     booking.DefaultSettings(),
		Logger:       zap.NewNop(),
		Clock:        func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) },
	}
	h := NewHandlerBundle(engine)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/availability", h.AvailabilityHandler)
	api.POST("/availability/group", h.GroupAvailabilityHandler)
	api.POST("/bookings", h.CreateBookingHandler)
	api.GET("/bookings/:id", h.GetBookingHandler)
	api.GET("/bookings/code/:code", h.GetBookingByCodeHandler)
	api.POST("/bookings/:id/status", h.UpdateStatusHandler)
	api.POST("/bookings/:id/reschedule", h.RescheduleHandler)
	api.POST("/series/:seriesRef/cancel", h.CancelSeriesHandler)
	r.GET("/health", h.HealthHandler)
	return r, store
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, out
}

func singleBooking(start string) map[string]any {
	return map[string]any{
		"resourceId":   "stylist-a",
		"date":         "2024-06-03",
		"startTime":    start,
		"services":     []map[string]any{{"serviceId": "cut"}},
		"customerInfo": map[string]any{"customerId": "cust-1", "name": "Ada"},
	}
}

func TestCreateAndFetchBooking(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := do(t, r, http.MethodPost, "/api/bookings", singleBooking("10:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	appt := body["appointment"].(map[string]any)
	if appt["startTime"] != "10:00" || appt["endTime"] != "10:30" || appt["status"] != "pending" {
		t.Fatalf("unexpected appointment %v", appt)
	}

	id := appt["id"].(string)
	w, body = do(t, r, http.MethodGet, "/api/bookings/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	code := body["appointment"].(map[string]any)["confirmationCode"].(string)

	w, _ = do(t, r, http.MethodGet, "/api/bookings/code/"+code, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for lookup by code, got %d", w.Code)
	}

	w, body = do(t, r, http.MethodPost, "/api/bookings", singleBooking("10:15"))
	if w.Code != http.StatusConflict || body["errorCode"] != "SLOT_TAKEN" {
		t.Fatalf("expected 409 SLOT_TAKEN, got %d %v", w.Code, body)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	do(t, r, http.MethodPost, "/api/bookings", singleBooking("09:00"))

	w, body := do(t, r, http.MethodPost, "/api/availability", map[string]any{
		"resourceId": "stylist-a",
		"date":       "2024-06-03",
		"serviceIds": []string{"cut"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resources := body["resources"].([]any)
	slots := resources[0].(map[string]any)["availableStartTimes"].([]any)
	if len(slots) != 15 || slots[0] != "09:30" {
		t.Fatalf("unexpected slots %v", slots)
	}

	w, body = do(t, r, http.MethodPost, "/api/availability/group", map[string]any{
		"date": "2024-06-03",
		"groupMembers": []map[string]any{
			{"resourceId": "stylist-a", "serviceIds": []string{"cut"}},
			{"resourceId": "stylist-b", "services": []map[string]any{{"serviceId": "cut"}}},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := body["commonStartTimes"].([]any); got[0] != "09:30" {
		t.Fatalf("unexpected group slots %v", got)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	both := singleBooking("10:00")
	both["recurringSettings"] = map[string]any{"frequency": "weekly", "count": 2}
	both["groupMembers"] = []map[string]any{{"resourceId": "stylist-b", "serviceIds": []string{"cut"}}}
	w, body := do(t, r, http.MethodPost, "/api/bookings", both)
	if w.Code != http.StatusBadRequest || body["errorCode"] != "VALIDATION_ERROR" {
		t.Fatalf("expected 400 VALIDATION_ERROR, got %d %v", w.Code, body)
	}

	w, _ = do(t, r, http.MethodPost, "/api/bookings", singleBooking("25:00"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an invalid time, got %d", w.Code)
	}

	missing := singleBooking("10:00")
	missing["resourceId"] = "stylist-z"
	w, body = do(t, r, http.MethodPost, "/api/bookings", missing)
	if w.Code != http.StatusNotFound || body["errorCode"] != "RESOURCE_NOT_FOUND" {
		t.Fatalf("expected 404 RESOURCE_NOT_FOUND, got %d %v", w.Code, body)
	}

	w, _ = do(t, r, http.MethodGet, "/api/bookings/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRecurringAndGroupBookings(t *testing.T) {
	r, _ := newTestRouter(t)

	series := singleBooking("11:00")
	series["recurringSettings"] = map[string]any{"frequency": "weekly", "count": 3}
	w, body := do(t, r, http.MethodPost, "/api/bookings", series)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(body["created"].([]any)) != 3 || len(body["failed"].([]any)) != 0 || len(body["confirmationCodes"].([]any)) != 3 {
		t.Fatalf("unexpected series result %v", body)
	}

	seriesRef := body["seriesRef"].(string)
	w, body = do(t, r, http.MethodPost, "/api/series/"+seriesRef+"/cancel", map[string]any{"reason": "moving"})
	if w.Code != http.StatusOK || len(body["cancelled"].([]any)) != 3 {
		t.Fatalf("unexpected cancel result %d %v", w.Code, body)
	}

	w, body = do(t, r, http.MethodPost, "/api/bookings", map[string]any{
		"date":      "2024-06-03",
		"startTime": "14:00",
		"customerInfo": map[string]any{"customerId": "cust-2"},
		"groupMembers": []map[string]any{
			{"resourceId": "stylist-a", "serviceIds": []string{"cut"}},
			{"resourceId": "stylist-b", "serviceIds": []string{"cut"}},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if body["startTime"] != "14:00" || len(body["appointments"].([]any)) != 2 {
		t.Fatalf("unexpected group result %v", body)
	}
}

func TestStatusAndReschedule(t *testing.T) {
	r, _ := newTestRouter(t)
	_, body := do(t, r, http.MethodPost, "/api/bookings", singleBooking("10:00"))
	id := body["appointment"].(map[string]any)["id"].(string)

	w, body := do(t, r, http.MethodPost, "/api/bookings/"+id+"/reschedule", map[string]any{"date": "2024-06-03", "startTime": "12:00"})
	if w.Code != http.StatusOK || body["appointment"].(map[string]any)["startTime"] != "12:00" {
		t.Fatalf("unexpected reschedule result %d %v", w.Code, body)
	}

	w, body = do(t, r, http.MethodPost, "/api/bookings/"+id+"/status", map[string]any{"status": "confirmed"})
	if w.Code != http.StatusOK || body["appointment"].(map[string]any)["status"] != "confirmed" {
		t.Fatalf("unexpected status result %d %v", w.Code, body)
	}

	w, body = do(t, r, http.MethodPost, "/api/bookings/"+id+"/status", map[string]any{"status": "completed"})
	if w.Code != http.StatusConflict || body["errorCode"] != "INVALID_TRANSITION" {
		t.Fatalf("expected 409 INVALID_TRANSITION, got %d %v", w.Code, body)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[booking.ErrorCode]int{
		booking.CodeValidation:          http.StatusBadRequest,
		booking.CodeResourceNotFound:    http.StatusNotFound,
		booking.CodeAppointmentNotFound: http.StatusNotFound,
		booking.CodeSlotTaken:           http.StatusConflict,
		booking.CodeNoCommonSlot:        http.StatusConflict,
		booking.CodeInvalidTransition:   http.StatusConflict,
		booking.CodeInternal:            http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := statusFor(code); got != want {
			t.Errorf("%s: expected %d, got %d", code, want, got)
		}
	}
}

func TestHealthInMemoryMode(t *testing.T) {
	r, _ := newTestRouter(t)
	w, body := do(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || body["store"] != "memory" {
		t.Fatalf("expected healthy memory store, got %d %v", w.Code, body)
	}
}
