package database

import (
	"path/filepath"
	"testing"
)

// TestMigrationsCreateSchema verifies the SQLite migrations produce the
// expected tables and that re-running them is a no-op.
func TestMigrationsCreateSchema(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_migrations.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tables := []string{"users", "families", "family_members", "expenses", "invitations", "categories"}
	for _, table := range tables {
		var name string
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Second run must skip everything already applied.
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Re-running migrations failed: %v", err)
	}
}

// TestExecReturningID verifies insert IDs come back through the dialect layer.
func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_ids.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	first, err := db.ExecReturningID(
		"INSERT INTO users (subject, email, name) VALUES (?, ?, ?)",
		"auth0|one", "one@example.com", "One")
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	if first == 0 {
		t.Error("Expected non-zero ID for first insert")
	}

	second, err := db.ExecReturningID(
		"INSERT INTO users (subject, email, name) VALUES (?, ?, ?)",
		"auth0|two", "two@example.com", "Two")
	if err != nil {
		t.Fatalf("Failed to insert second user: %v", err)
	}
	if second <= first {
		t.Errorf("Expected increasing IDs, got %d then %d", first, second)
	}
}

// TestTransactionRollback verifies the Tx wrapper discards uncommitted writes.
func TestTransactionRollback(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_tx.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec("INSERT INTO users (subject, email, name) VALUES (?, ?, ?)",
		"auth0|ghost", "ghost@example.com", "Ghost"); err != nil {
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE subject = ?", "auth0|ghost").Scan(&count); err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users after rollback, got %d", count)
	}
}
