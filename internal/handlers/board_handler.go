package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/neighbors/backend/internal/middleware"
	"github.com/neighbors/backend/internal/models"
	"github.com/neighbors/backend/internal/services"
)

type BoardHandler struct {
	board services.BoardService
}

func NewBoardHandler(board services.BoardService) *BoardHandler {
	return &BoardHandler{board: board}
}

func (h *BoardHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	var req models.AddTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	tag, err := h.board.AddTag(r.Context(), &req)
	if err != nil {
		log.Printf("[AddTag] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to store tag"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(tag))
}

func (h *BoardHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.board.ListTags(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load tags"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(tags))
}

func (h *BoardHandler) AddAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req models.AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ann, err := h.board.AddAnnouncement(r.Context(), middleware.GetUserEmail(r.Context()), &req)
	if err != nil {
		log.Printf("[AddAnnouncement] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to store announcement"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(ann))
}

func (h *BoardHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	anns, err := h.board.ListAnnouncements(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load announcements"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(anns))
}
