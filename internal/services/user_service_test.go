package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neighbors/backend/internal/models"
)

func TestRegisterIdempotentByEmail(t *testing.T) {
	svc := NewMemoryUserService(NewMemoryStore(""))

	first, err := svc.Register(context.Background(), &models.RegisterRequest{Name: "Alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !first.Acknowledged || first.InsertedID == "" {
		t.Fatalf("first register = %+v", first)
	}

	second, err := svc.Register(context.Background(), &models.RegisterRequest{Name: "Alice Again", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("duplicate register: %v", err)
	}
	if second.Acknowledged || second.InsertedID != "" {
		t.Fatalf("duplicate register = %+v, want soft no-op", second)
	}

	users, _ := svc.List(context.Background())
	if len(users) != 1 || users[0].Name != "Alice" {
		t.Fatalf("users = %+v", users)
	}
}

func TestUserInfoMergesPaymentAndPostCount(t *testing.T) {
	store := NewMemoryStore("")
	seedUser(t, store, "Alice", "alice@example.com")
	seedPost(t, store, "alice@example.com", "One", nil, 0, 0, time.Now().UTC())
	seedPost(t, store, "alice@example.com", "Two", nil, 0, 0, time.Now().UTC())

	svc := NewMemoryUserService(store)
	if _, err := svc.RecordPayment(context.Background(), &models.RecordPaymentRequest{
		Email:         "alice@example.com",
		Amount:        25,
		TransactionID: "tx_123",
	}); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	info, err := svc.Info(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.PostCount != 2 {
		t.Fatalf("postCount = %d, want 2", info.PostCount)
	}
	if info.PaymentData == nil || info.PaymentData.TransactionID != "tx_123" {
		t.Fatalf("paymentData = %+v", info.PaymentData)
	}
	if !info.IsMember {
		t.Fatalf("payment did not flip membership")
	}

	if _, err := svc.Info(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user err = %v", err)
	}
}

func TestMakeAdminAndIsAdmin(t *testing.T) {
	store := NewMemoryStore("")
	seedUser(t, store, "Alice", "alice@example.com")
	svc := NewMemoryUserService(store)

	admin, err := svc.IsAdmin(context.Background(), "alice@example.com")
	if err != nil || admin {
		t.Fatalf("before promote: admin=%v err=%v", admin, err)
	}

	if err := svc.MakeAdmin(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("make admin: %v", err)
	}
	admin, err = svc.IsAdmin(context.Background(), "alice@example.com")
	if err != nil || !admin {
		t.Fatalf("after promote: admin=%v err=%v", admin, err)
	}

	if err := svc.MakeAdmin(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("promote missing err = %v", err)
	}
}

func TestRecordPaymentSubscriptionWindow(t *testing.T) {
	store := NewMemoryStore("")
	seedUser(t, store, "Alice", "alice@example.com")
	svc := NewMemoryUserService(store)

	start := time.Now().UTC()
	payment, err := svc.RecordPayment(context.Background(), &models.RecordPaymentRequest{
		Email:         "alice@example.com",
		Amount:        25,
		TransactionID: "tx_456",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	wantEnd := start.AddDate(0, 1, 0)
	if diff := payment.SubscriptionEndDate.Sub(wantEnd); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("subscriptionEndDate = %v, want ~%v", payment.SubscriptionEndDate, wantEnd)
	}
}
