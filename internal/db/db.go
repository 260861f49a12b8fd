// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"

	"github.com/codr1/matchday/internal/config"
	dbgen "github.com/codr1/matchday/internal/db/generated"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	defaultBusyTimeout = 5 * time.Second
	defaultTxRetries   = 3
	txRetryBackoff     = 25 * time.Millisecond
)

// ErrTxConflict is returned when a transaction keeps hitting SQLITE_BUSY or
// SQLITE_LOCKED after all retries are spent.
var ErrTxConflict = errors.New("transaction conflict: retries exhausted")

type DB struct {
	*sql.DB
	Queries *dbgen.Queries

	tx        *sql.Tx
	conn      *sql.Conn
	txRetries int
}

// New opens a SQLite database for the given data source name, applies the
// connection pragmas the standings engine relies on, runs embedded migrations
// and returns a DB with generated queries bound to the connection.
func New(dataSourceName string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", ensureDSNOptions(dataSourceName, defaultBusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &DB{
		DB:        sqlDB,
		Queries:   dbgen.New(sqlDB),
		txRetries: defaultTxRetries,
	}, nil
}

// NewFromConfig creates the database directory if needed, opens the configured
// SQLite file and applies migrations.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	if cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	busyTimeout := cfg.Database.BusyTimeout.Duration
	if busyTimeout <= 0 {
		busyTimeout = defaultBusyTimeout
	}
	sqlDB, err := sql.Open("sqlite3", ensureDSNOptions(cfg.Database.Filename, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	txRetries := cfg.Standings.TxRetries
	if txRetries <= 0 {
		txRetries = defaultTxRetries
	}
	return &DB{
		DB:        sqlDB,
		Queries:   dbgen.New(sqlDB),
		txRetries: txRetries,
	}, nil
}

// ensureDSNOptions adds foreign key enforcement, a busy timeout, immediate
// transaction locking and WAL journaling unless the caller already set them.
// Immediate locking makes every write transaction take the writer lock at
// BEGIN, so two folds never interleave their reads and writes.
func ensureDSNOptions(dataSourceName string, busyTimeout time.Duration) string {
	options := []struct {
		key   string
		value string
	}{
		{"_fk", "1"},
		{"_busy_timeout", fmt.Sprintf("%d", busyTimeout.Milliseconds())},
		{"_txlock", "immediate"},
		{"_journal_mode", "WAL"},
	}
	for _, opt := range options {
		if strings.Contains(dataSourceName, opt.key+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(dataSourceName, "?") {
			sep = "&"
		}
		dataSourceName += sep + opt.key + "=" + opt.value
	}
	return dataSourceName
}

// runMigrations applies the embedded SQL migrations from migrationsFS to the
// provided database. A "no change" result is not an error.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance(
		"iofs", source,
		"sqlite3", driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// WithTx creates a new DB instance with the given transaction
func (db *DB) WithTx(tx *sql.Tx) *DB {
	return &DB{
		DB:        db.DB,
		Queries:   dbgen.New(tx),
		tx:        tx,
		txRetries: db.txRetries,
	}
}

// Conn returns the bound transaction, or the pool when there is none. Use it
// for statements that have no generated query.
func (db *DB) Conn() dbgen.DBTX {
	if db.tx != nil {
		return db.tx
	}
	if db.conn != nil {
		return db.conn
	}
	return db.DB
}

// BeginTx starts a transaction
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return tx, nil
}

// RunInTx runs the given function in a transaction
func (db *DB) RunInTx(ctx context.Context, fn func(*DB) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	txDB := db.WithTx(tx)
	if err := fn(txDB); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing: %w", err)
	}

	return nil
}

// RunInTxRetry runs fn in a transaction and retries the whole unit when SQLite
// reports the database as busy or locked. fn must be safe to run again from
// scratch. After the configured number of attempts the last error is wrapped
// in ErrTxConflict.
func (db *DB) RunInTxRetry(ctx context.Context, fn func(*DB) error) error {
	attempts := db.txRetries
	if attempts <= 0 {
		attempts = defaultTxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = db.RunInTx(ctx, fn)
		if lastErr == nil || !IsBusy(lastErr) {
			return lastErr
		}

		log.Ctx(ctx).Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("Transaction hit a busy database, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * txRetryBackoff):
		}
	}
	return fmt.Errorf("%w: %w", ErrTxConflict, lastErr)
}

// RunInReadTx runs fn inside a deferred transaction on a dedicated
// connection, so every query fn makes sees one snapshot without taking the
// writer lock. The driver ignores sql.TxOptions.ReadOnly and the DSN forces
// BEGIN IMMEDIATE on BeginTx, hence the explicit BEGIN DEFERRED. fn must not
// write.
func (db *DB) RunInReadTx(ctx context.Context, fn func(*DB) error) error {
	conn, err := db.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("error acquiring connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN DEFERRED"); err != nil {
		return fmt.Errorf("error beginning read transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
			panic(p)
		}
	}()

	readDB := &DB{
		DB:        db.DB,
		Queries:   dbgen.New(conn),
		conn:      conn,
		txRetries: db.txRetries,
	}
	if err := fn(readDB); err != nil {
		if _, rbErr := conn.ExecContext(context.Background(), "ROLLBACK"); rbErr != nil {
			return fmt.Errorf("error rolling back: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		return fmt.Errorf("error ending read transaction: %w", err)
	}
	return nil
}
