package postgres

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Conn_EstablishesOnce(t *testing.T) {
	ctx := context.Background()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()
	mock.ExpectPing()

	var opens int32
	d := &DB{open: func() (*sql.DB, error) {
		atomic.AddInt32(&opens, 1)
		return mockDB, nil
	}}

	// Racing first callers must share one establishment.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := d.Conn(ctx)
			assert.NoError(t, err)
			assert.Same(t, mockDB, conn)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
}

func TestDB_Conn_FailedAttemptIsNotCached(t *testing.T) {
	ctx := context.Background()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()
	mock.ExpectPing()

	dialErr := errors.New("connection refused")
	var calls int32
	d := &DB{open: func() (*sql.DB, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, dialErr
		}
		return mockDB, nil
	}}

	_, err = d.Conn(ctx)
	require.ErrorIs(t, err, dialErr)

	// The failure must not poison the handle; the next call retries.
	conn, err := d.Conn(ctx)
	require.NoError(t, err)
	assert.Same(t, mockDB, conn)
}

func TestDB_Close_Idempotent(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	d := NewDBFromConn(mockDB)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
}
