// Package database centralises sqlx connection helpers.  The default driver
// is go-sql-driver/mysql, which also works with MariaDB and TiDB.
//
// Public entry points:
//
//	Open(ctx, dsn)                   – conservative pool sizes.
//	OpenWithOptions(ctx, dsn, opts)  – fine-grained control.
//
// Both helpers Ping the database before returning, retrying a few times
// so a database that is still starting does not fail the deploy.  Callers
// should Close() the returned *sqlx.DB when no longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Options tune the pool and the startup ping.
type Options struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	PingRetries int
	PingBackoff time.Duration
}

// DefaultOptions: 15 max open, 5 idle, 30-minute lifetime, three pings
// one second apart.
var DefaultOptions = Options{
	MaxOpen:     15,
	MaxIdle:     5,
	MaxLifetime: 30 * time.Minute,
	PingRetries: 3,
	PingBackoff: time.Second,
}

// Open returns a *sqlx.DB using DefaultOptions.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, DefaultOptions)
}

// OpenWithOptions opens a MySQL pool tuned by o.  parseTime=true must be
// in the DSN for DATETIME columns to scan into time.Time.
func OpenWithOptions(ctx context.Context, dsn string, o Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	Configure(db, o)
	if err := Ping(ctx, db, o.PingRetries, o.PingBackoff); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Configure applies pool limits.  Zero fields keep DefaultOptions values.
func Configure(db *sqlx.DB, o Options) {
	if o.MaxOpen <= 0 {
		o.MaxOpen = DefaultOptions.MaxOpen
	}
	if o.MaxIdle <= 0 {
		o.MaxIdle = DefaultOptions.MaxIdle
	}
	if o.MaxLifetime <= 0 {
		o.MaxLifetime = DefaultOptions.MaxLifetime
	}
	db.SetMaxOpenConns(o.MaxOpen)
	db.SetMaxIdleConns(o.MaxIdle)
	db.SetConnMaxLifetime(o.MaxLifetime)
}

// Ping tries up to retries+1 times, sleeping backoff between attempts.
func Ping(ctx context.Context, db *sqlx.DB, retries int, backoff time.Duration) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("database: ping: %w", err)
}
