package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"spreedly-bot/internal/domain/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AppendAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	entries := []model.AuditEntry{
		{RequestID: "r1", Actor: "alice", Command: "show", Type: "gateway", Token: "G1", OK: true, CreatedAt: base},
		{RequestID: "r2", Actor: "bob", Command: "redact", Type: "gateway", Token: "G1", OK: false, Error: "status 422", CreatedAt: base.Add(time.Minute)},
		{RequestID: "r3", Actor: "carol", Command: "list", Type: "gateways", OK: true, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, entry := range entries {
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent() len = %d, want 2", len(recent))
	}

	if recent[0].RequestID != "r3" || recent[1].RequestID != "r2" {
		t.Errorf("order = %s, %s; want r3, r2", recent[0].RequestID, recent[1].RequestID)
	}
	got := recent[1]
	if got.ID != 2 || got.Actor != "bob" || got.OK || got.Error != "status 422" || got.Token != "G1" {
		t.Errorf("entry = %+v", got)
	}
	if !got.CreatedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, base.Add(time.Minute))
	}
}

func TestStore_RecentEmpty(t *testing.T) {
	store := newTestStore(t)

	recent, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Recent() len = %d, want 0", len(recent))
	}
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Append(context.Background(), model.AuditEntry{Command: "help", OK: true}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	recent, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 1 || recent[0].Command != "help" || recent[0].CreatedAt.IsZero() {
		t.Errorf("recent = %+v", recent)
	}
}
