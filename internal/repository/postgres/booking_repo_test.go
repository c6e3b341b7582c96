package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"devevent/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		mock       func(mock sqlmock.Sqlmock)
		wantID     string
		wantErr    bool
		isDangling bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bookings`).
					WithArgs("ev-1", "jane@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("bk-uuid-1"))
			},
			wantID: "bk-uuid-1",
		},
		{
			name: "referenced event vanished",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr:    true,
			isDangling: true,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewBookingRepository(NewDBFromConn(db))
			booking := domain.NewBooking("ev-1", "jane@example.com", time.Now(), time.Now())
			err = repo.Create(ctx, booking)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isDangling {
					require.ErrorIs(t, err, domain.ErrEventNotFound)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, booking.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "event_id", "email", "created_at", "updated_at"}).
			AddRow("bk-1", "ev-1", "a@example.com", ts, ts).
			AddRow("bk-2", "ev-1", "b@example.com", ts, ts)
		mock.ExpectQuery(`SELECT id, event_id, email`).
			WithArgs("ev-1").
			WillReturnRows(rows)

		repo := NewBookingRepository(NewDBFromConn(db))
		got, err := repo.ListByEventID(ctx, "ev-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a@example.com", got[0].Email)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, event_id, email`).
			WithArgs("ev-none").
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "email", "created_at", "updated_at"}))

		repo := NewBookingRepository(NewDBFromConn(db))
		got, err := repo.ListByEventID(ctx, "ev-none")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_ExistsByEventID(t *testing.T) {
	ctx := context.Background()

	for _, exists := range []bool{true, false} {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))

		repo := NewBookingRepository(NewDBFromConn(db))
		got, err := repo.ExistsByEventID(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, exists, got)
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}
