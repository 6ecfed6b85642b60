// Package bunstore implements tracking.Store on the Bun ORM for integrators
// already carrying bun. It targets PostgreSQL via pgdriver/pgdialect but
// uses only dialect-agnostic query building.
//
// Usage:
//
//	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
//	db := bun.NewDB(sqldb, pgdialect.New())
//	s := bunstore.New(db)
//	if err := s.Migrate(ctx); err != nil { ... }
//
// Or let the store own the connection:
//
//	s, err := bunstore.NewFromDSN(ctx, dsn)
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/xraph/outcall/tracking"
)

// Compile-time interface check.
var _ tracking.Store = (*Store)(nil)

// requestModel is the Bun model for one lifecycle row.
type requestModel struct {
	bun.BaseModel `bun:"table:outcall_requests"`

	Path       string    `bun:"path,pk"`
	Method     string    `bun:"method,pk"`
	Event      string    `bun:"event,pk"`
	OccurredAt time.Time `bun:"occurred_at,notnull"`
}

// Store is a Bun ORM implementation of tracking.Store. The caller owns the
// *bun.DB lifecycle; Store never closes it.
type Store struct {
	db     *bun.DB
	logger *slog.Logger
	ownsDB bool
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a new Bun store.
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromDSN opens a PostgreSQL connection for the DSN and wraps it in a
// Store. Unlike New, the Store owns the connection and Close releases it.
func NewFromDSN(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("outcall/bun: connect: %w", err)
	}
	s := New(db, opts...)
	s.ownsDB = true
	return s, nil
}

// DB returns the underlying *bun.DB for advanced usage.
func (s *Store) DB() *bun.DB { return s.db }

// Migrate creates the tracking table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*requestModel)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("outcall/bun: create tracking table: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection when the Store opened it via NewFromDSN.
// For stores built with New the caller owns the *bun.DB and Close is a no-op.
func (s *Store) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// Emit records a lifecycle event, optionally clearing prior history for
// the key in the same transaction.
func (s *Store) Emit(ctx context.Context, key tracking.Key, event tracking.Event, at time.Time, clearHistory bool) error {
	m := &requestModel{
		Path:       key.Path,
		Method:     key.Method,
		Event:      string(event),
		OccurredAt: at.UTC(),
	}

	if !clearHistory {
		_, err := s.db.NewInsert().
			Model(m).
			On("CONFLICT (path, method, event) DO UPDATE").
			Set("occurred_at = EXCLUDED.occurred_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("outcall/bun: emit %s for %s: %w", event, key, err)
		}
		return nil
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*requestModel)(nil)).
			Where("path = ?", key.Path).
			Where("method = ?", key.Method).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(m).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("outcall/bun: emit %s with clear for %s: %w", event, key, err)
	}
	return nil
}

// History loads every row into a State snapshot.
func (s *Store) History(ctx context.Context) (tracking.State, error) {
	var models []requestModel
	err := s.db.NewSelect().Model(&models).Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("outcall/bun: load history: %w", err)
	}

	state := tracking.State{}
	for _, m := range models {
		state.Set(tracking.Key{Path: m.Path, Method: m.Method}, tracking.Event(m.Event), m.OccurredAt)
	}
	return state, nil
}

// Clear drops all history for the key.
func (s *Store) Clear(ctx context.Context, key tracking.Key) error {
	_, err := s.db.NewDelete().
		Model((*requestModel)(nil)).
		Where("path = ?", key.Path).
		Where("method = ?", key.Method).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("outcall/bun: clear %s: %w", key, err)
	}
	return nil
}
