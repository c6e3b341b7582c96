package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for field normalization.
var (
	// ErrSlugNotDerivable is returned when a title contains no characters a
	// slug could be built from (e.g. punctuation or whitespace only).
	ErrSlugNotDerivable = errors.New("title yields no derivable slug")
	// ErrInvalidDate is returned for dates that are not strict YYYY-MM-DD or
	// do not exist on the calendar.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrInvalidTime is returned for times that are not H:MM/HH:MM with hour
	// 0-23 and minute 0-59.
	ErrInvalidTime = errors.New("invalid time, expected HH:MM in 24-hour format")
	// ErrInvalidEmail is returned for strings that do not look like an email
	// address.
	ErrInvalidEmail = errors.New("invalid email format")
)

// FieldError reports a required field that is missing or blank.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s is required and cannot be empty", e.Field)
}

// RequireNonEmpty returns a *FieldError when value is empty after trimming.
func RequireNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field}
	}
	return nil
}

var (
	nonSlugRunes = regexp.MustCompile(`[^a-z0-9]+`)
	dateShape    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	timeShape    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	emailShape   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Slugify derives a URL-safe slug from a title: lowercase, every run of
// characters outside [a-z0-9] collapsed to a single hyphen, no leading or
// trailing hyphens. Deterministic and idempotent: slugifying a slug returns
// it unchanged.
func Slugify(title string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonSlugRunes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "", ErrSlugNotDerivable
	}
	return s, nil
}

// CanonicalDate validates a strict YYYY-MM-DD date and returns it in
// canonical zero-padded form. The date must exist on the real calendar
// (leap years included), so "2026-02-30" is rejected.
func CanonicalDate(input string) (string, error) {
	s := strings.TrimSpace(input)
	m := dateShape.FindStringSubmatch(s)
	if m == nil {
		return "", ErrInvalidDate
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", ErrInvalidDate
	}
	// time.Parse rejects dates that roll over (Feb 30 etc.).
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", ErrInvalidDate
	}
	return s, nil
}

// CanonicalTime validates a 24-hour H:MM or HH:MM time and returns it
// zero-padded as HH:MM.
func CanonicalTime(input string) (string, error) {
	s := strings.TrimSpace(input)
	m := timeShape.FindStringSubmatch(s)
	if m == nil {
		return "", ErrInvalidTime
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", ErrInvalidTime
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// NormalizeEmail trims and lowercases an email address and checks it against
// a basic address shape.
func NormalizeEmail(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if !emailShape.MatchString(s) {
		return "", ErrInvalidEmail
	}
	return s, nil
}
