package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeClient creates payment intents for membership purchases.
type StripeClient struct {
	SecretKey  string
	HTTPClient *http.Client
	Endpoint   string
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		SecretKey: strings.TrimSpace(secretKey),
		Endpoint:  "https://api.stripe.com/v1/payment_intents",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type paymentIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreatePaymentIntent creates a card payment intent for the given amount in
// whole currency units (dollars are converted to cents here) and returns the
// client secret the frontend confirms with.
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if c == nil || c.SecretKey == "" {
		return "", fmt.Errorf("stripe client not configured")
	}
	if amount <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}
	if currency == "" {
		currency = "usd"
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount*100, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var out stripeErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err == nil && out.Error.Message != "" {
			return "", fmt.Errorf("stripe payment intent: %s", out.Error.Message)
		}
		return "", fmt.Errorf("stripe payment intent http %d", resp.StatusCode)
	}

	var out paymentIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ClientSecret == "" {
		return "", fmt.Errorf("stripe payment intent: empty client secret")
	}
	return out.ClientSecret, nil
}
