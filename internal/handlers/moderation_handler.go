package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/neighbors/backend/internal/middleware"
	"github.com/neighbors/backend/internal/models"
	"github.com/neighbors/backend/internal/services"
)

type ModerationHandler struct {
	moderation services.ModerationService
}

func NewModerationHandler(moderation services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

// CreateReport flags a comment for the moderators.
func (h *ModerationHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if req.ReporterEmail == "" {
		req.ReporterEmail = middleware.GetUserEmail(r.Context())
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	report, err := h.moderation.CreateReport(r.Context(), &req)
	if err != nil {
		log.Printf("[CreateReport] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to store report"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(report))
}

func (h *ModerationHandler) CheckReport(w http.ResponseWriter, r *http.Request) {
	commentID := r.URL.Query().Get("commentId")
	if commentID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Comment ID is required"))
		return
	}

	exists, err := h.moderation.HasReport(r.Context(), commentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to check report"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"isExist": exists})
}

// Queue serves the fully joined moderator action queue.
func (h *ModerationHandler) Queue(w http.ResponseWriter, r *http.Request) {
	views, err := h.moderation.Queue(r.Context())
	if err != nil {
		log.Printf("[ReportQueue] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load reports"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(views))
}

// ReportAction resolves a report with one of the three moderation actions.
func (h *ModerationHandler) ReportAction(w http.ResponseWriter, r *http.Request) {
	var req models.ReportActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	result, err := h.moderation.Resolve(r.Context(), &req)
	if err != nil {
		switch err {
		case services.ErrUnknownAction:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Unknown moderation action"))
		case services.ErrInvalidID:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Malformed identifier"))
		default:
			log.Printf("[ReportAction] action=%s error=%v", req.Action, err)
			if result != nil {
				// The cascade partially applied before an upstream call
				// failed; expose what was done alongside the failure.
				writeJSON(w, http.StatusBadGateway, models.APIResponse{
					Success: false,
					Data:    result,
					Error:   "Action partially applied: " + err.Error(),
				})
				return
			}
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to resolve report"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}
