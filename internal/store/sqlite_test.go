package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMarkSeenThenHasSeen(t *testing.T) {
	s := newTestStore(t)

	if err := s.MarkSeen("7:4411"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	seen, err := s.HasSeen("7:4411")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if !seen {
		t.Error("expected HasSeen to return true after MarkSeen")
	}

	seen, err = s.HasSeen("7:9999")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if seen {
		t.Error("expected HasSeen to return false for unknown key")
	}
}

func TestMarkSeenIdempotent(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 2; i++ {
		if err := s.MarkSeen("7:4412"); err != nil {
			t.Fatalf("MarkSeen #%d: %v", i+1, err)
		}
	}
	empty, err := s.IsEmpty()
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if empty {
		t.Error("expected store to be non-empty")
	}
}

func TestIsEmptyOnFreshStore(t *testing.T) {
	s := newTestStore(t)
	empty, err := s.IsEmpty()
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Error("expected fresh store to be empty")
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(
		"INSERT INTO seen_vacancies (vacancy_key, first_seen) VALUES (?, ?)",
		"7:old", time.Now().UTC().Add(-48*time.Hour),
	)
	if err != nil {
		t.Fatalf("inserting old vacancy: %v", err)
	}
	if err := s.MarkSeen("7:fresh"); err != nil {
		t.Fatalf("MarkSeen fresh: %v", err)
	}

	if err := s.Cleanup(24 * time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if seen, _ := s.HasSeen("7:old"); seen {
		t.Error("expected old vacancy to be cleaned up")
	}
	if seen, _ := s.HasSeen("7:fresh"); !seen {
		t.Error("expected fresh vacancy to survive cleanup")
	}
}
