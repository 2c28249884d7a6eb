package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/neighbors/backend/internal/middleware"
	"github.com/neighbors/backend/internal/models"
	"github.com/neighbors/backend/internal/services"
)

type CommentHandler struct {
	comments services.CommentService
}

func NewCommentHandler(comments services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	if email == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	comment, err := h.comments.Create(r.Context(), email, &req)
	if err != nil {
		log.Printf("[CreateComment] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create comment"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(comment))
}

// ListForPost returns the post's comments with author info and the reported
// flag. Missing posts yield an empty list, not an error.
func (h *CommentHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")
	if postID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Post ID is required"))
		return
	}

	views, err := h.comments.ListForPost(r.Context(), postID)
	if err != nil {
		log.Printf("[ListComments] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list comments"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(views))
}
