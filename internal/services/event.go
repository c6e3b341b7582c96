package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"devevent/internal/domain"
)

// maxSlugCandidates caps the uniqueness loop so pathological input cannot
// spin forever against the store.
const maxSlugCandidates = 1000

// createRetries bounds how often a write is retried after the store rejects
// a slug that raced with a concurrent writer.
const createRetries = 3

type eventService struct {
	eventRepo      domain.EventRepository
	bookingRepo    domain.BookingRepository
	tracker        domain.AnalyticsTracker
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	bookingRepo domain.BookingRepository,
	tracker domain.AnalyticsTracker,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		bookingRepo:    bookingRepo,
		tracker:        tracker,
		contextTimeout: timeout,
	}
}

// CreateEvent validates all fields, canonicalizes date and time, derives a
// unique slug from the title, and persists the event. Validation failures
// abort before anything is written.
func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateNewEvent(event); err != nil {
		return err
	}

	date, err := domain.CanonicalDate(event.Date)
	if err != nil {
		return err
	}
	event.Date = date

	timeOfDay, err := domain.CanonicalTime(event.Time)
	if err != nil {
		return err
	}
	event.Time = timeOfDay

	base, err := domain.Slugify(event.Title)
	if err != nil {
		return err
	}

	trimEventFields(event)

	// The resolver loop is the primary defense against slug collisions; the
	// unique index in the store is the arbiter when two writers race past
	// it. A duplicate rejection from the store is retried with a freshly
	// resolved slug.
	for attempt := 0; attempt < createRetries; attempt++ {
		slug, err := s.resolveSlug(ctx, base, "")
		if err != nil {
			return err
		}
		event.Slug = slug

		now := time.Now()
		event.CreatedAt = now
		event.UpdatedAt = now

		err = s.eventRepo.Create(ctx, event)
		if errors.Is(err, domain.ErrDuplicateSlug) {
			continue
		}
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		// Best effort; a failed capture never fails the write.
		_ = s.tracker.Capture(ctx, "event_created", map[string]any{"slug": event.Slug})
		return nil
	}
	return domain.ErrDuplicateSlug
}

// UpdateEvent applies a partial update. Only supplied fields are validated
// and normalized: the slug is recomputed only when the title actually
// changes, date and time only when those fields are supplied.
func (s *eventService) UpdateEvent(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if err := validateUpdate(&upd); err != nil {
		return nil, err
	}

	if upd.Date != nil {
		date, err := domain.CanonicalDate(*upd.Date)
		if err != nil {
			return nil, err
		}
		upd.Date = &date
	}
	if upd.Time != nil {
		timeOfDay, err := domain.CanonicalTime(*upd.Time)
		if err != nil {
			return nil, err
		}
		upd.Time = &timeOfDay
	}

	titleChanged := upd.Title != nil && strings.TrimSpace(*upd.Title) != existing.Title
	var base string
	if titleChanged {
		base, err = domain.Slugify(*upd.Title)
		if err != nil {
			return nil, err
		}
	}

	trimUpdateFields(&upd)

	for attempt := 0; attempt < createRetries; attempt++ {
		if titleChanged {
			slug, err := s.resolveSlug(ctx, base, id)
			if err != nil {
				return nil, err
			}
			upd.Slug = &slug
		}

		updated, err := s.eventRepo.Update(ctx, id, &upd)
		if titleChanged && errors.Is(err, domain.ErrDuplicateSlug) {
			continue
		}
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("update event: %w", err)
		}
		return updated, nil
	}
	return nil, domain.ErrDuplicateSlug
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domain.ErrNotFound
	}
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// ListSimilarEvents returns events sharing at least one tag with the event
// identified by slug, excluding that event itself.
func (s *eventService) ListSimilarEvents(ctx context.Context, slug string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	similar, err := s.eventRepo.ListSimilar(ctx, event.Tags, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list similar events: %w", err)
	}
	if similar == nil {
		similar = []*domain.Event{}
	}
	return similar, nil
}

// DeleteEvent removes an event. Deletion is refused while bookings still
// reference the event.
func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	booked, err := s.bookingRepo.ExistsByEventID(ctx, id)
	if err != nil {
		return fmt.Errorf("check bookings: %w", err)
	}
	if booked {
		return domain.ErrEventHasBookings
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// resolveSlug returns the first candidate not held by another event:
// base, then base-1, base-2, ... The record being written is excluded from
// the comparison so an unchanged title keeps its own slug on update.
func (s *eventService) resolveSlug(ctx context.Context, base, excludeID string) (string, error) {
	candidate := base
	for i := 1; i <= maxSlugCandidates; i++ {
		taken, err := s.eventRepo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", domain.ErrSlugLimitReached
}

// validateNewEvent checks every required field of a new event. Emptiness
// checks run before any derivation so derived fields only ever see
// validated input.
func validateNewEvent(e *domain.Event) error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", e.Title},
		{"description", e.Description},
		{"overview", e.Overview},
		{"image", e.ImageURL},
		{"venue", e.Venue},
		{"location", e.Location},
		{"date", e.Date},
		{"time", e.Time},
		{"mode", e.Mode},
		{"audience", e.Audience},
		{"organizer", e.Organizer},
	}
	for _, f := range fields {
		if err := domain.RequireNonEmpty(f.name, f.value); err != nil {
			return err
		}
	}
	if err := validateStringList("agenda", e.Agenda); err != nil {
		return err
	}
	return validateStringList("tags", e.Tags)
}

func validateUpdate(upd *domain.EventUpdate) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"title", upd.Title},
		{"description", upd.Description},
		{"overview", upd.Overview},
		{"image", upd.ImageURL},
		{"venue", upd.Venue},
		{"location", upd.Location},
		{"date", upd.Date},
		{"time", upd.Time},
		{"mode", upd.Mode},
		{"audience", upd.Audience},
		{"organizer", upd.Organizer},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := domain.RequireNonEmpty(f.name, *f.value); err != nil {
			return err
		}
	}
	if upd.Agenda != nil {
		if err := validateStringList("agenda", upd.Agenda); err != nil {
			return err
		}
	}
	if upd.Tags != nil {
		if err := validateStringList("tags", upd.Tags); err != nil {
			return err
		}
	}
	return nil
}

func validateStringList(field string, items []string) error {
	if len(items) == 0 {
		return &domain.FieldError{Field: field}
	}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return &domain.FieldError{Field: field}
		}
	}
	return nil
}

func trimEventFields(e *domain.Event) {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Overview = strings.TrimSpace(e.Overview)
	e.ImageURL = strings.TrimSpace(e.ImageURL)
	e.Venue = strings.TrimSpace(e.Venue)
	e.Location = strings.TrimSpace(e.Location)
	e.Mode = strings.TrimSpace(e.Mode)
	e.Audience = strings.TrimSpace(e.Audience)
	e.Organizer = strings.TrimSpace(e.Organizer)
	e.Agenda = trimAll(e.Agenda)
	e.Tags = trimAll(e.Tags)
}

func trimUpdateFields(upd *domain.EventUpdate) {
	for _, p := range []*string{
		upd.Title, upd.Description, upd.Overview, upd.ImageURL,
		upd.Venue, upd.Location, upd.Mode, upd.Audience, upd.Organizer,
	} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if upd.Agenda != nil {
		upd.Agenda = trimAll(upd.Agenda)
	}
	if upd.Tags != nil {
		upd.Tags = trimAll(upd.Tags)
	}
}

func trimAll(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.TrimSpace(item)
	}
	return out
}
