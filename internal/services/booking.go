package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devevent/internal/domain"
)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	tracker        domain.AnalyticsTracker
	contextTimeout time.Duration
}

func NewBookingService(bookingRepo domain.BookingRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	tracker domain.AnalyticsTracker,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		tracker:        tracker,
		contextTimeout: timeout,
	}
}

// CreateBooking validates the email, confirms the referenced event exists,
// and persists the booking. The existence check is best-effort: the event
// can be deleted between the check and the insert, so the repository maps
// the store's foreign-key rejection to the same error.
func (s *bookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.RequireNonEmpty("event_id", eventID); err != nil {
		return nil, err
	}
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := time.Now()
	booking := domain.NewBooking(eventID, normalized, now, now)
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	// Confirmation email and analytics capture are best effort; the booking
	// is already committed.
	_ = s.emailService.SendBookingConfirmation(ctx, &domain.BookingConfirmationEmailData{
		Email:      booking.Email,
		EventTitle: event.Title,
		EventDate:  event.Date,
		EventTime:  event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
	})
	_ = s.tracker.Capture(ctx, "booking_created", map[string]any{"event_id": eventID})

	return booking, nil
}

func (s *bookingService) ListEventBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	bookings, err := s.bookingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}
