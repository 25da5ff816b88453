package shared

import (
	"testing"
)

func TestRunMigrations(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	// Applying twice is a no-op.
	if err := RunMigrations(db); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='media_assets'").Scan(&name)
	if err != nil {
		t.Fatalf("media_assets table missing: %v", err)
	}

	var version int
	if err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("failed to read schema_migrations: %v", err)
	}
	if version != 0 {
		t.Errorf("migration version = %d, want 0", version)
	}
}

func TestRollbackMigration(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if err := RollbackMigration(db); err != nil {
		t.Fatalf("RollbackMigration() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='media_assets'").Scan(&count); err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	if count != 0 {
		t.Error("media_assets table still present after rollback")
	}

	if err := RollbackMigration(db); err == nil {
		t.Error("RollbackMigration() expected error with no applied migrations")
	}
}
