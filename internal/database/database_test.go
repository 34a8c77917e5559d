package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing_RetriesThenSucceeds(t *testing.T) {
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "sqlmock")
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("starting up"))
	mock.ExpectPing()

	require.NoError(t, Ping(context.Background(), db, 3, time.Millisecond))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing_GivesUp(t *testing.T) {
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "sqlmock")
	defer db.Close()

	down := errors.New("down")
	mock.ExpectPing().WillReturnError(down)
	mock.ExpectPing().WillReturnError(down)

	err = Ping(context.Background(), db, 1, time.Millisecond)
	assert.ErrorIs(t, err, down)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigure_FillsDefaults(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "sqlmock")
	defer db.Close()

	Configure(db, Options{MaxOpen: 2})
	assert.Equal(t, 2, db.Stats().MaxOpenConnections)
}
