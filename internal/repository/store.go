package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lewtec/realtor/internal/domain"
)

// Tx exposes the repositories bound to one open transaction.
type Tx struct {
	Listings domain.ListingRepository
	Pictures domain.PictureRepository
}

// Store owns the connection pools and hands out units of work. It is safe
// for concurrent use; each WithTx call gets its own transaction.
type Store struct {
	db     *sqlx.DB
	reader *sqlx.DB // read transactions, nil to use db
}

// NewStore creates a Store over db
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// NewStoreWithReader creates a Store that runs read transactions on reader
// and everything else on db. A nil reader is the same as NewStore.
func NewStoreWithReader(db, reader *sqlx.DB) *Store {
	return &Store{db: db, reader: reader}
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	if s.reader != nil {
		return s.reader.PingContext(ctx)
	}
	return nil
}

// WithTx runs fn inside a read-write transaction. The transaction commits
// only when fn returns nil; any error, panic or context cancellation rolls
// it back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	return s.run(ctx, s.db, s.writeOptions(), fn)
}

// WithReadTx runs fn inside a transaction used only for reading, so that
// several queries observe the same committed state.
func (s *Store) WithReadTx(ctx context.Context, fn func(tx *Tx) error) error {
	if s.reader != nil {
		return s.run(ctx, s.reader, nil, fn)
	}
	return s.run(ctx, s.db, s.readOptions(), fn)
}

func (s *Store) run(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, fn func(tx *Tx) error) error {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("while starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{
		Listings: NewListingRepositoryWithTx(tx),
		Pictures: NewPictureRepositoryWithTx(tx),
	}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("while committing transaction: %w", err)
	}
	return nil
}

// SQLite only offers serializable transactions and rejects TxOptions, so
// options are only passed to PostgreSQL.
func (s *Store) writeOptions() *sql.TxOptions {
	if s.db.DriverName() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}
	return nil
}

func (s *Store) readOptions() *sql.TxOptions {
	if s.db.DriverName() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}
