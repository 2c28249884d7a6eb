package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/neighbors/backend/internal/models"
)

func seedBan(t *testing.T, store *MemoryStore, email string, banFreeDate time.Time) {
	t.Helper()
	store.data.Bans = append(store.data.Bans, models.Ban{
		ID:          uuid.New().String(),
		Email:       email,
		BanFreeDate: banFreeDate,
	})
}

func TestBanCheckActive(t *testing.T) {
	store := NewMemoryStore("")
	seedBan(t, store, "bob@example.com", time.Now().Add(10*24*time.Hour+time.Hour))

	svc := NewMemoryBanService(store)
	status, err := svc.Check(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !status.BanUser {
		t.Fatalf("banUser = false for active ban")
	}
	if status.LeftDay != 10 {
		t.Fatalf("leftDay = %d, want 10", status.LeftDay)
	}
}

func TestBanCheckNoRecord(t *testing.T) {
	svc := NewMemoryBanService(NewMemoryStore(""))
	status, err := svc.Check(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.BanUser {
		t.Fatalf("banUser = true with no record")
	}
}

func TestBanCheckExpiredDeletesLazily(t *testing.T) {
	store := NewMemoryStore("")
	seedBan(t, store, "bob@example.com", time.Now().Add(-time.Hour))

	svc := NewMemoryBanService(store)
	status, err := svc.Check(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.BanUser {
		t.Fatalf("banUser = true for expired ban")
	}
	// The stale record is removed on the lookup that observed expiry.
	if len(store.data.Bans) != 0 {
		t.Fatalf("expired ban record survived: %+v", store.data.Bans)
	}

	status, err = svc.Check(context.Background(), "bob@example.com")
	if err != nil || status.BanUser {
		t.Fatalf("second check: status=%+v err=%v", status, err)
	}
}
