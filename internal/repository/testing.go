package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lewtec/realtor/internal/database"
)

// SetupTestDB creates an in-memory SQLite database with the real schema
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(context.Background(), "sqlite://:memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db.DB, database.SQLite); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database
func CleanupTestDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	if err := db.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}

// MustExec executes a SQL statement and fails the test if it errors
func MustExec(t *testing.T, db *sqlx.DB, query string, args ...interface{}) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), db.Rebind(query), args...)
	if err != nil {
		t.Fatalf("failed to exec query: %v", err)
	}
}

// MustCount runs a COUNT query and fails the test if it errors
func MustCount(t *testing.T, db *sqlx.DB, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.GetContext(context.Background(), &n, db.Rebind(query), args...); err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	return n
}

// CountListings returns how many listings are stored
func CountListings(t *testing.T, db *sqlx.DB) int64 {
	t.Helper()
	return MustCount(t, db, "SELECT COUNT(*) FROM listings")
}

// CountPictures returns how many pictures reference a listing
func CountPictures(t *testing.T, db *sqlx.DB, listingID uuid.UUID) int64 {
	t.Helper()
	return MustCount(t, db, "SELECT COUNT(*) FROM pictures WHERE listing_id = ?", listingID)
}
