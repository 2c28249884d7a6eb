package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neighbors/backend/internal/models"
)

type AuthHandler struct {
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthHandler(jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

type tokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IssueToken signs a short-lived access token for the given user payload.
// Identity itself is Firebase's problem; this token only carries the claims
// the API needs per request.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Email is required"))
		return
	}

	claims := jwt.MapClaims{
		"email": req.Email,
		"name":  req.Name,
		"exp":   time.Now().Add(h.jwtExpiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to sign token"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": signed})
}
