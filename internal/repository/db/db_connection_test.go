package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_MigratesOnceAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	first, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if v, err := SchemaVersion(first); err != nil || v != len(migrations) {
		t.Fatalf("version = %d, %v; want %d", v, err, len(migrations))
	}
	if _, err := first.Exec(`INSERT INTO activity_events (id, subject_id, event_type, status, occurred_at)
		VALUES ('e1', '001', 'phone', 'start', '2026-03-02 09:00:00.000000')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := InitDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	var n int
	if err := second.QueryRow(`SELECT COUNT(*) FROM activity_events`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows after reopen = %d, want 1", n)
	}
}

func TestInitDB_RejectsInvalidStatus(t *testing.T) {
	conn, err := InitDB(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	_, err = conn.Exec(`INSERT INTO activity_events (id, subject_id, event_type, status, occurred_at)
		VALUES ('e1', '001', 'phone', 'paused', '2026-03-02 09:00:00.000000')`)
	if err == nil {
		t.Fatalf("expected CHECK constraint violation")
	}
}
