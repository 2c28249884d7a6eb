package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neighbors/backend/internal/models"
)

// FeedService serves the ranked post feed and the single-post view.
type FeedService interface {
	// List returns one fixed-size page of the feed. searchTag filters by
	// case-insensitive tag substring; rankByVotes orders by vote
	// differential instead of recency. The total is exact when filtered,
	// an estimate otherwise.
	List(ctx context.Context, page int, searchTag string, rankByVotes bool) (*models.FeedPage, error)
	Detail(ctx context.Context, postID string) (*models.PostDetail, error)
	Create(ctx context.Context, email string, req *models.CreatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, postID string) error
	ListByAuthor(ctx context.Context, email string) ([]models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	UpdateReaction(ctx context.Context, postID string, req *models.ReactionRequest) error
	EstimatedStats(ctx context.Context) ([]models.StatEntry, error)
}

type MemoryFeedService struct {
	store *MemoryStore
}

func NewMemoryFeedService(store *MemoryStore) *MemoryFeedService {
	return &MemoryFeedService{store: store}
}

func (s *MemoryFeedService) List(ctx context.Context, page int, searchTag string, rankByVotes bool) (*models.FeedPage, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	matched := filterByTag(s.store.data.Posts, searchTag)
	total := int64(len(matched))

	ordered := make([]models.Post, len(matched))
	copy(ordered, matched)
	if rankByVotes {
		sortByVoteDifference(ordered)
	} else {
		sortNewestFirst(ordered)
	}

	pageSlice := paginate(ordered, page, feedPageSize)
	posts := composeFeedPosts(pageSlice, s.store.usersByEmail(), s.store.commentCounts())

	return &models.FeedPage{Total: total, Posts: posts}, nil
}

func (s *MemoryFeedService) Detail(ctx context.Context, postID string) (*models.PostDetail, error) {
	if uuid.Validate(postID) != nil {
		return nil, ErrInvalidID
	}

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	post, ok := s.store.postByID(postID)
	if !ok {
		return nil, ErrPostNotFound
	}
	author, ok := s.store.userByEmail(post.Email)
	if !ok {
		return nil, ErrPostNotFound
	}
	return composePostDetail(post, author), nil
}

func (s *MemoryFeedService) Create(ctx context.Context, email string, req *models.CreatePostRequest) (*models.Post, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	post := models.Post{
		ID:          uuid.New().String(),
		Email:       email,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		PostingTime: time.Now().UTC(),
	}
	s.store.data.Posts = append(s.store.data.Posts, post)
	s.store.persist()

	return &post, nil
}

func (s *MemoryFeedService) Delete(ctx context.Context, postID string) error {
	if uuid.Validate(postID) != nil {
		return ErrInvalidID
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, p := range s.store.data.Posts {
		if p.ID == postID {
			s.store.data.Posts = append(s.store.data.Posts[:i], s.store.data.Posts[i+1:]...)
			s.store.persist()
			return nil
		}
	}
	return ErrPostNotFound
}

func (s *MemoryFeedService) ListByAuthor(ctx context.Context, email string) ([]models.Post, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]models.Post, 0)
	for _, p := range s.store.data.Posts {
		if p.Email == email {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryFeedService) ListAll(ctx context.Context) ([]models.Post, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]models.Post, len(s.store.data.Posts))
	copy(out, s.store.data.Posts)
	return out, nil
}

func (s *MemoryFeedService) UpdateReaction(ctx context.Context, postID string, req *models.ReactionRequest) error {
	if uuid.Validate(postID) != nil {
		return ErrInvalidID
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i := range s.store.data.Posts {
		if s.store.data.Posts[i].ID == postID {
			s.store.data.Posts[i].UpVote += req.UpVote
			s.store.data.Posts[i].DownVote += req.DownVote
			s.store.persist()
			return nil
		}
	}
	return ErrPostNotFound
}

func (s *MemoryFeedService) EstimatedStats(ctx context.Context) ([]models.StatEntry, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	return []models.StatEntry{
		{Key: "users", Value: int64(len(s.store.data.Users))},
		{Key: "post", Value: int64(len(s.store.data.Posts))},
		{Key: "comment", Value: int64(len(s.store.data.Comments))},
	}, nil
}
