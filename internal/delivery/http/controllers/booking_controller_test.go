package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/internal/domain"
)

type fakeBookingService struct {
	err      error
	booking  *domain.Booking
	bookings []*domain.Booking

	lastEventID string
	lastEmail   string
}

func (f *fakeBookingService) CreateBooking(_ context.Context, eventID, email string) (*domain.Booking, error) {
	f.lastEventID = eventID
	f.lastEmail = email
	return f.booking, f.err
}

func (f *fakeBookingService) ListEventBookings(_ context.Context, eventID string) ([]*domain.Booking, error) {
	f.lastEventID = eventID
	return f.bookings, f.err
}

func TestBookingController_CreateBooking(t *testing.T) {
	svc := &fakeBookingService{booking: &domain.Booking{
		ID:        "bk-1",
		EventID:   "ev-1",
		Email:     "jane@example.com",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}}
	controller := NewBookingController(testLogger, svc)

	body := `{"event_id":"ev-1","email":"Jane@Example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	controller.CreateBooking(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ev-1", svc.lastEventID)
	assert.Equal(t, "Jane@Example.com", svc.lastEmail)

	data, apiErr := decodeEnvelope(t, rec.Body)
	assert.Nil(t, apiErr)
	var got domain.Booking
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "bk-1", got.ID)
	assert.Equal(t, "jane@example.com", got.Email)
}

func TestBookingController_CreateBooking_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing email", `{"event_id":"ev-1"}`},
		{"missing event_id", `{"email":"jane@example.com"}`},
		{"malformed json", `{"event_id":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeBookingService{}
			controller := NewBookingController(testLogger, svc)

			req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			controller.CreateBooking(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.lastEventID)
		})
	}
}

func TestBookingController_CreateBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		serviceErr  error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"dangling event", domain.ErrEventNotFound, http.StatusBadRequest, "bad_request", "event no longer available"},
		{"bad email", domain.ErrInvalidEmail, http.StatusBadRequest, "bad_request", "invalid email format"},
		{"store down", errors.New("connection refused"), http.StatusInternalServerError, "internal_error", "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewBookingController(testLogger, &fakeBookingService{err: tt.serviceErr})

			body := `{"event_id":"ev-1","email":"jane@example.com"}`
			req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
			rec := httptest.NewRecorder()
			controller.CreateBooking(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			_, apiErr := decodeEnvelope(t, rec.Body)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantCode, apiErr["code"])
			assert.Equal(t, tt.wantMessage, apiErr["message"])
		})
	}
}

func TestBookingController_ListEventBookings(t *testing.T) {
	svc := &fakeBookingService{bookings: []*domain.Booking{
		{ID: "bk-1", EventID: "ev-1", Email: "jane@example.com"},
	}}
	controller := NewBookingController(testLogger, svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/{eventID}/bookings", controller.ListEventBookings)

	req := httptest.NewRequest(http.MethodGet, "/events/ev-1/bookings", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ev-1", svc.lastEventID)
	data, apiErr := decodeEnvelope(t, rec.Body)
	assert.Nil(t, apiErr)
	var got []*domain.Booking
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 1)
}

func TestBookingController_ListEventBookings_EventMissing(t *testing.T) {
	controller := NewBookingController(testLogger, &fakeBookingService{err: domain.ErrNotFound})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/{eventID}/bookings", controller.ListEventBookings)

	req := httptest.NewRequest(http.MethodGet, "/events/ev-404/bookings", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, apiErr := decodeEnvelope(t, rec.Body)
	require.NotNil(t, apiErr)
	assert.Equal(t, "not_found", apiErr["code"])
}
