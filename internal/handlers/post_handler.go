package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/neighbors/backend/internal/middleware"
	"github.com/neighbors/backend/internal/models"
	"github.com/neighbors/backend/internal/services"
)

type PostHandler struct {
	feed services.FeedService
}

func NewPostHandler(feed services.FeedService) *PostHandler {
	return &PostHandler{feed: feed}
}

// ListFeed serves the paginated feed. ?currentPage=N&search=tag&sort=true
// (sort=true ranks by vote differential instead of recency).
func (h *PostHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("currentPage"))
	if err != nil || page < 0 {
		page = 0
	}
	searchTag := query.Get("search")
	rankByVotes := query.Get("sort") == "true"

	feedPage, err := h.feed.List(r.Context(), page, searchTag, rankByVotes)
	if err != nil {
		log.Printf("[ListFeed] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list posts"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(feedPage))
}

func (h *PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")

	detail, err := h.feed.Detail(r.Context(), postID)
	if err != nil {
		switch err {
		case services.ErrInvalidID:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Malformed post ID"))
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load post"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(detail))
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	if email == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	post, err := h.feed.Create(r.Context(), email, &req)
	if err != nil {
		log.Printf("[CreatePost] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create post"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(post))
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")

	if err := h.feed.Delete(r.Context(), postID); err != nil {
		switch err {
		case services.ErrInvalidID:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Malformed post ID"))
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete post"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Post deleted"}))
}

// ListMine returns the caller's own posts, newest first.
func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	if email == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	posts, err := h.feed.ListByAuthor(r.Context(), email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list posts"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(posts))
}

func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.feed.ListAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list posts"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(posts))
}

func (h *PostHandler) UpdateReaction(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")

	var req models.ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if err := h.feed.UpdateReaction(r.Context(), postID, &req); err != nil {
		switch err {
		case services.ErrInvalidID:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Malformed post ID"))
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update reaction"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Reaction recorded"}))
}

func (h *PostHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.feed.EstimatedStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load stats"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(stats))
}
