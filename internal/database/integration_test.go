package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// newTestDB opens a throwaway SQLite database for integration tests.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})
	return db
}

func TestDatabaseLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	_, err := db.Exec(`CREATE TABLE learners (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	id, err := db.ExecReturningID("INSERT INTO learners (name) VALUES (?)", "Maya")
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	if id != 1 {
		t.Errorf("first insert id = %d, want 1", id)
	}

	var name string
	if err := db.QueryRow("SELECT name FROM learners WHERE id = ?", id).Scan(&name); err != nil {
		t.Fatalf("QueryRow failed: %v", err)
	}
	if name != "Maya" {
		t.Errorf("name = %q, want Maya", name)
	}
}

func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	_, err := db.Exec(`CREATE TABLE learner_progress (
		learner_id INTEGER PRIMARY KEY,
		total_xp INTEGER NOT NULL DEFAULT 0,
		coins INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	// Committed transaction persists both writes together
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec("INSERT INTO learner_progress (learner_id, total_xp, coins) VALUES (?, ?, ?)", 1, 100, 10); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if _, err := tx.Exec("UPDATE learner_progress SET coins = coins - 5 WHERE learner_id = ?", 1); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to update in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var coins int
	if err := db.QueryRow("SELECT coins FROM learner_progress WHERE learner_id = ?", 1).Scan(&coins); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if coins != 5 {
		t.Errorf("coins = %d, want 5", coins)
	}

	// Rolled-back transaction leaves no trace
	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}
	if _, err := tx2.Exec("UPDATE learner_progress SET coins = 0 WHERE learner_id = ?", 1); err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to update in second transaction: %v", err)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	if err := db.QueryRow("SELECT coins FROM learner_progress WHERE learner_id = ?", 1).Scan(&coins); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if coins != 5 {
		t.Errorf("coins after rollback = %d, want 5", coins)
	}
}

func TestConcurrentReads(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	_, err := db.Exec(`CREATE TABLE learners (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO learners (name) VALUES (?)", "Leo"); err != nil {
		t.Fatalf("Failed to create test learner: %v", err)
	}

	done := make(chan error)
	for i := 0; i < 10; i++ {
		go func() {
			var name string
			err := db.QueryRow("SELECT name FROM learners WHERE id = ?", 1).Scan(&name)
			if err == nil && name != "Leo" {
				err = fmt.Errorf("name = %q, want Leo", name)
			}
			done <- err
		}()
	}

	for i := 0; i < 10; i++ {
		if err := <-done; err != nil {
			t.Errorf("Concurrent read failed: %v", err)
		}
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)

	if _, err := db.Exec(`CREATE TABLE owned_items (
		learner_id INTEGER NOT NULL,
		item_id TEXT NOT NULL
	)`); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	wantErr := errors.New("purchase rejected")
	err := db.WithTx(func(tx *Tx) error {
		if _, err := tx.Exec("INSERT INTO owned_items (learner_id, item_id) VALUES (?, ?)", 1, "hat_red"); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("WithTx error = %v, want %v", err, wantErr)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM owned_items").Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 0 {
		t.Errorf("rows after rollback = %d, want 0", count)
	}
}
