package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"devevent/internal/delivery/http/controllers"
)

// NewRouter wires all API routes. Method-qualified patterns give automatic
// 405 responses for unsupported methods on registered paths.
func NewRouter(eventController *controllers.EventController, bookingController *controllers.BookingController) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{slug}", eventController.GetEventBySlug)
	mux.HandleFunc("GET /events/{slug}/similar", eventController.ListSimilarEvents)
	mux.HandleFunc("PATCH /events/{eventID}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE /events/{eventID}", eventController.DeleteEvent)

	mux.HandleFunc("POST /bookings", bookingController.CreateBooking)
	mux.HandleFunc("GET /events/{eventID}/bookings", bookingController.ListEventBookings)

	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
