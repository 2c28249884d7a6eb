package services

import (
	"context"
	"time"

	"github.com/neighbors/backend/internal/models"
)

// BanService answers "is this user currently banned". Expired ban records
// are deleted lazily on lookup, so no background sweep is needed; the cost
// is one extra write on the first read past expiry.
type BanService interface {
	Check(ctx context.Context, email string) (*models.BanStatus, error)
}

// banDaysLeft is floor((banFreeDate - now) / 24h).
func banDaysLeft(banFreeDate, now time.Time) int {
	return int(banFreeDate.Sub(now).Hours() / 24)
}

type MemoryBanService struct {
	store *MemoryStore
}

func NewMemoryBanService(store *MemoryStore) *MemoryBanService {
	return &MemoryBanService{store: store}
}

func (s *MemoryBanService) Check(ctx context.Context, email string) (*models.BanStatus, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, b := range s.store.data.Bans {
		if b.Email != email {
			continue
		}
		if days := banDaysLeft(b.BanFreeDate, time.Now()); days > 0 {
			return &models.BanStatus{BanUser: true, LeftDay: days}, nil
		}
		// Stale record: drop it so the next lookup is a clean miss.
		s.store.data.Bans = append(s.store.data.Bans[:i], s.store.data.Bans[i+1:]...)
		s.store.persist()
		return &models.BanStatus{BanUser: false}, nil
	}
	return &models.BanStatus{BanUser: false}, nil
}
