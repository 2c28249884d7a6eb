package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/neighbors/backend/internal/middleware"
	"github.com/neighbors/backend/internal/models"
	"github.com/neighbors/backend/internal/services"
)

type UserHandler struct {
	users services.UserService
	bans  services.BanService
}

func NewUserHandler(users services.UserService, bans services.BanService) *UserHandler {
	return &UserHandler{users: users, bans: bans}
}

// Register creates the user document on first sign-in. A repeat registration
// is acknowledged=false, not an error, so the frontend can call this
// unconditionally after every social login.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	result, err := h.users.Register(r.Context(), &req)
	if err != nil {
		log.Printf("[Register] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to register user"))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *UserHandler) Info(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		email = middleware.GetUserEmail(r.Context())
	}

	info, err := h.users.Info(r.Context(), email)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[UserInfo] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load user info"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(info))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list users"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(users))
}

func (h *UserHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Email is required"))
		return
	}

	if err := h.users.MakeAdmin(r.Context(), req.Email); err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to grant admin"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Admin granted"}))
}

// CheckBan is public: the login flow calls it before issuing a session.
func (h *UserHandler) CheckBan(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Email is required"))
		return
	}

	status, err := h.bans.Check(r.Context(), email)
	if err != nil {
		log.Printf("[CheckBan] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to check ban status"))
		return
	}

	writeJSON(w, http.StatusOK, status)
}
