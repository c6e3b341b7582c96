package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for event writes.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSlug is returned when the store rejects a slug that is
	// already taken. This is the backstop for the check-then-act race in
	// slug resolution; the database enforces the unique index.
	ErrDuplicateSlug = errors.New("slug already in use")
	// ErrSlugLimitReached is returned when slug resolution gives up after
	// exhausting its candidate suffixes.
	ErrSlugLimitReached = errors.New("could not find a free slug")
	// ErrEventHasBookings is returned when deleting an event that still has
	// bookings referencing it.
	ErrEventHasBookings = errors.New("event has bookings")
)

// Event represents a listed event as shown in the catalog and detail pages.
// Date holds a canonical YYYY-MM-DD string and Time a canonical 24-hour
// HH:MM string; Slug is unique across all events.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	ImageURL    string    `json:"image_url"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        string    `json:"mode"`
	Audience    string    `json:"audience"`
	Organizer   string    `json:"organizer"`
	Agenda      []string  `json:"agenda"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventUpdate carries a partial update of an event. Nil fields are left
// unchanged; the service only normalizes and validates the fields that are
// actually present.
type EventUpdate struct {
	Title       *string
	Slug        *string
	Description *string
	Overview    *string
	ImageURL    *string
	Venue       *string
	Location    *string
	Date        *string
	Time        *string
	Mode        *string
	Audience    *string
	Organizer   *string
	Agenda      []string
	Tags        []string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	// ListSimilar returns events sharing at least one of the given tags,
	// excluding the event with excludeID, newest first.
	ListSimilar(ctx context.Context, tags []string, excludeID string) ([]*Event, error)
	// SlugExists reports whether any event other than excludeID holds slug.
	// excludeID may be empty on create.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Update(ctx context.Context, id string, upd *EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for the event lifecycle:
// validation, normalization, slug resolution, and persistence.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	ListSimilarEvents(ctx context.Context, slug string) ([]*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
