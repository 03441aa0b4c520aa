package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Set(ctx, "settings.theme", []byte("dark"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := s.Get(ctx, "settings.theme")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "dark" {
		t.Errorf("value = %q, want %q", got, "dark")
	}

	// verify the row shape directly
	var value []byte
	err = s.db.QueryRow(`SELECT value FROM kv_entries WHERE key = ?`, "settings.theme").Scan(&value)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if string(value) != "dark" {
		t.Errorf("stored value = %q, want %q", value, "dark")
	}
}

func TestSQLiteStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Set(ctx, "k", []byte("old"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("new"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("value = %q, want %q", got, "new")
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv_entries`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}

func TestSQLiteStore_AbsentKey(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	got, err := s.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != nil {
		t.Errorf("value = %v, want nil", got)
	}

	ok, err := s.Exists(ctx, "missing")
	if err != nil {
		t.Fatalf("Exists() failed: %v", err)
	}
	if ok {
		t.Error("Exists() = true, want false")
	}
}

func TestSQLiteStore_TTLReap(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Set(ctx, "k", []byte("v"), 20*time.Millisecond); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != nil {
		t.Errorf("expired value = %q, want nil", got)
	}

	// the expired row is gone, not just filtered
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv_entries WHERE key = ?`, "k").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("rows = %d, want 0", count)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() of absent key failed: %v", err)
	}

	ok, err := s.Exists(ctx, "k")
	if err != nil {
		t.Fatalf("Exists() failed: %v", err)
	}
	if ok {
		t.Error("Exists() = true after delete, want false")
	}
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("value after reopen = %q, want %q", got, "v")
	}
}
