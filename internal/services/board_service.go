package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neighbors/backend/internal/models"
)

// BoardService manages the small admin-curated collections: tags and
// announcements. Both are read in full; expected sizes are tiny.
type BoardService interface {
	AddTag(ctx context.Context, req *models.AddTagRequest) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	AddAnnouncement(ctx context.Context, authorEmail string, req *models.AnnouncementRequest) (*models.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
}

type MemoryBoardService struct {
	store *MemoryStore
}

func NewMemoryBoardService(store *MemoryStore) *MemoryBoardService {
	return &MemoryBoardService{store: store}
}

func (s *MemoryBoardService) AddTag(ctx context.Context, req *models.AddTagRequest) (*models.Tag, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tag := models.Tag{ID: uuid.New().String(), Label: req.Label}
	s.store.data.Tags = append(s.store.data.Tags, tag)
	s.store.persist()

	return &tag, nil
}

func (s *MemoryBoardService) ListTags(ctx context.Context) ([]models.Tag, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]models.Tag, len(s.store.data.Tags))
	copy(out, s.store.data.Tags)
	return out, nil
}

func (s *MemoryBoardService) AddAnnouncement(ctx context.Context, authorEmail string, req *models.AnnouncementRequest) (*models.Announcement, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	ann := models.Announcement{
		ID:          uuid.New().String(),
		AuthorEmail: authorEmail,
		Title:       req.Title,
		Description: req.Description,
		PostedAt:    time.Now().UTC(),
	}
	s.store.data.Announcements = append(s.store.data.Announcements, ann)
	s.store.persist()

	return &ann, nil
}

func (s *MemoryBoardService) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]models.Announcement, len(s.store.data.Announcements))
	copy(out, s.store.data.Announcements)
	return out, nil
}
