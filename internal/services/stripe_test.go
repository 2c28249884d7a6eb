package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreatePaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test_123" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("amount"); got != "2500" {
			t.Errorf("amount = %q, want 2500 (cents)", got)
		}
		if got := r.PostForm.Get("currency"); got != "usd" {
			t.Errorf("currency = %q", got)
		}
		if got := r.PostForm.Get("payment_method_types[]"); got != "card" {
			t.Errorf("payment_method_types = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret_abc"}`))
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test_123")
	client.Endpoint = srv.URL
	client.HTTPClient = srv.Client()

	secret, err := client.CreatePaymentIntent(context.Background(), 25, "usd")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if secret != "pi_1_secret_abc" {
		t.Fatalf("secret = %q", secret)
	}
}

func TestCreatePaymentIntentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Your card was declined.","type":"card_error"}}`))
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test_123")
	client.Endpoint = srv.URL
	client.HTTPClient = srv.Client()

	if _, err := client.CreatePaymentIntent(context.Background(), 25, "usd"); err == nil {
		t.Fatalf("expected error from API failure")
	}
}

func TestCreatePaymentIntentValidation(t *testing.T) {
	client := NewStripeClient("")
	if _, err := client.CreatePaymentIntent(context.Background(), 25, "usd"); err == nil {
		t.Fatalf("expected error without secret key")
	}

	client = NewStripeClient("sk_test_123")
	if _, err := client.CreatePaymentIntent(context.Background(), 0, "usd"); err == nil {
		t.Fatalf("expected error for non-positive amount")
	}
}
