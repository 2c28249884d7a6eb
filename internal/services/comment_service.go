package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neighbors/backend/internal/models"
)

// CommentService manages comments and the per-post comment list view.
type CommentService interface {
	Create(ctx context.Context, email string, req *models.CreateCommentRequest) (*models.Comment, error)
	// ListForPost returns the post's comments in creation order, each with
	// the author's display name and a flag for an existing report.
	ListForPost(ctx context.Context, postID string) ([]models.CommentView, error)
}

type MemoryCommentService struct {
	store *MemoryStore
}

func NewMemoryCommentService(store *MemoryStore) *MemoryCommentService {
	return &MemoryCommentService{store: store}
}

func (s *MemoryCommentService) Create(ctx context.Context, email string, req *models.CreateCommentRequest) (*models.Comment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	comment := models.Comment{
		ID:        uuid.New().String(),
		PostID:    req.PostID,
		Email:     email,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	s.store.data.Comments = append(s.store.data.Comments, comment)
	s.store.persist()

	return &comment, nil
}

func (s *MemoryCommentService) ListForPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, c := range s.store.data.Comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}

	return composeCommentViews(comments, s.store.usersByEmail(), s.store.reportedCommentIDs()), nil
}
