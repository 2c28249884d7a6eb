package services

import (
	"log"
	"sync"

	"github.com/neighbors/backend/internal/models"
	"github.com/neighbors/backend/internal/storage"
)

// MemoryStore holds every collection in insertion order, optionally snapshot
// to a JSON file. It backs the non-Mongo service implementations; the
// moderation cascade crosses collections, so they share one store.
type MemoryStore struct {
	mu    sync.RWMutex
	data  memorySnapshot
	store *storage.JSONStore
}

type memorySnapshot struct {
	Users         []models.User         `json:"users"`
	Posts         []models.Post         `json:"posts"`
	Comments      []models.Comment      `json:"comments"`
	Reports       []models.Report       `json:"reports"`
	Bans          []models.Ban          `json:"bans"`
	Tags          []models.Tag          `json:"tags"`
	Announcements []models.Announcement `json:"announcements"`
	Payments      []models.Payment      `json:"payments"`
}

// NewMemoryStore creates an empty store. Pass a data dir to persist
// snapshots across restarts; pass "" for a purely in-memory store.
func NewMemoryStore(dataDir string) *MemoryStore {
	s := &MemoryStore{}

	if dataDir != "" {
		js, err := storage.NewJSONStore(dataDir, "community.json")
		if err != nil {
			log.Printf("Warning: failed to initialize JSON store: %v", err)
			return s
		}
		s.store = js
		if err := js.Load(&s.data); err != nil {
			log.Printf("Warning: failed to load persisted data: %v", err)
		}
	}

	return s
}

// persist is called with the write lock held.
func (s *MemoryStore) persist() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(&s.data); err != nil {
		log.Printf("Warning: failed to persist data: %v", err)
	}
}

func (s *MemoryStore) userByEmail(email string) (models.User, bool) {
	for _, u := range s.data.Users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *MemoryStore) usersByEmail() map[string]models.User {
	out := make(map[string]models.User, len(s.data.Users))
	for _, u := range s.data.Users {
		out[u.Email] = u
	}
	return out
}

func (s *MemoryStore) postByID(id string) (models.Post, bool) {
	for _, p := range s.data.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

func (s *MemoryStore) commentCounts() map[string]int {
	out := make(map[string]int)
	for _, c := range s.data.Comments {
		out[c.PostID]++
	}
	return out
}

func (s *MemoryStore) reportedCommentIDs() map[string]bool {
	out := make(map[string]bool, len(s.data.Reports))
	for _, r := range s.data.Reports {
		out[r.CommentID] = true
	}
	return out
}
