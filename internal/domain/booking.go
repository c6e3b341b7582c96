package domain

import (
	"context"
	"errors"
	"time"
)

// ErrEventNotFound is returned when a booking references an event that does
// not exist at the moment of creation.
var ErrEventNotFound = errors.New("referenced event does not exist")

// Booking represents a booking submission for an event. A booking holds a
// non-owning reference to its event and is immutable once created.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBooking returns a new Booking with the given fields. ID is typically set by the repository on create.
func NewBooking(eventID, email string, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// BookingRepository defines the interface for booking storage
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
	ExistsByEventID(ctx context.Context, eventID string) (bool, error)
}

// BookingService defines the business logic for booking submissions.
type BookingService interface {
	// CreateBooking validates the email, confirms the referenced event
	// exists, and persists the booking.
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
	ListEventBookings(ctx context.Context, eventID string) ([]*Booking, error)
}
