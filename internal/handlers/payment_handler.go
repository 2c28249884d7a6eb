package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/neighbors/backend/internal/middleware"
	"github.com/neighbors/backend/internal/models"
	"github.com/neighbors/backend/internal/services"
)

type PaymentHandler struct {
	stripe *services.StripeClient
	users  services.UserService
}

func NewPaymentHandler(stripe *services.StripeClient, users services.UserService) *PaymentHandler {
	return &PaymentHandler{stripe: stripe, users: users}
}

// CreateIntent creates a Stripe payment intent for the membership fee and
// returns its client secret for the frontend to confirm.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.Pay <= 0 {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Amount must be positive"))
		return
	}

	secret, err := h.stripe.CreatePaymentIntent(r.Context(), req.Pay, "usd")
	if err != nil {
		log.Printf("[CreateIntent] Stripe error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Failed to create payment intent"))
		return
	}

	writeJSON(w, http.StatusOK, models.PaymentIntentResponse{ClientSecret: secret})
}

// Record stores a completed payment and upgrades the payer to member.
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req models.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.Email == "" {
		req.Email = middleware.GetUserEmail(r.Context())
	}
	if req.Email == "" || req.TransactionID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Email and transaction ID are required"))
		return
	}

	payment, err := h.users.RecordPayment(r.Context(), &req)
	if err != nil {
		log.Printf("[RecordPayment] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to store payment"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(payment))
}
