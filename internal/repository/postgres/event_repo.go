package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"devevent/internal/domain"

	"github.com/lib/pq"
)

const eventColumns = `id, title, slug, description, overview, image_url, venue, location, "date", "time", mode, audience, organizer, agenda, tags, created_at, updated_at`

type eventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) domain.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO events (title, slug, description, overview, image_url, venue, location, "date", "time", mode, audience, organizer, agenda, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err = conn.QueryRowContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.ImageURL, e.Venue, e.Location,
		e.Date, e.Time, e.Mode, e.Audience, e.Organizer,
		pq.Array(e.Agenda), pq.Array(e.Tags), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id::text = $1`, eventColumns)
	return scanEvent(conn.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM events WHERE slug = $1`, eventColumns)
	return scanEvent(conn.QueryRowContext(ctx, query, slug))
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY created_at DESC`, eventColumns)
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *eventRepository) ListSimilar(ctx context.Context, tags []string, excludeID string) ([]*domain.Event, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE id::text <> $1 AND tags && $2
		ORDER BY created_at DESC
	`, eventColumns)
	rows, err := conn.QueryContext(ctx, query, excludeID, pq.Array(tags))
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *eventRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return false, err
	}
	query := `SELECT EXISTS (SELECT 1 FROM events WHERE slug = $1 AND id::text <> $2)`
	var exists bool
	if err := conn.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, upd *domain.EventUpdate) (*domain.Event, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Slug != nil {
		add("slug", *upd.Slug)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Overview != nil {
		add("overview", *upd.Overview)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.Venue != nil {
		add("venue", *upd.Venue)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Date != nil {
		add(`"date"`, *upd.Date)
	}
	if upd.Time != nil {
		add(`"time"`, *upd.Time)
	}
	if upd.Mode != nil {
		add("mode", *upd.Mode)
	}
	if upd.Audience != nil {
		add("audience", *upd.Audience)
	}
	if upd.Organizer != nil {
		add("organizer", *upd.Organizer)
	}
	if upd.Agenda != nil {
		add("agenda", pq.Array(upd.Agenda))
	}
	if upd.Tags != nil {
		add("tags", pq.Array(upd.Tags))
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id::text = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)

	event, err := scanEvent(conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	result, err := conn.ExecContext(ctx, `DELETE FROM events WHERE id::text = $1`, id)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23503" {
			// bookings still reference this event (ON DELETE RESTRICT)
			return domain.ErrEventHasBookings
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.ImageURL,
		&e.Venue, &e.Location, &e.Date, &e.Time, &e.Mode, &e.Audience,
		&e.Organizer, pq.Array(&e.Agenda), pq.Array(&e.Tags),
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
