package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/neighbors/backend/internal/models"
)

// ModerationService is the single entry point for reports and their
// resolution. Resolve runs one of three mutually exclusive actions; any other
// action value fails with ErrUnknownAction.
type ModerationService interface {
	CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error)
	HasReport(ctx context.Context, commentID string) (bool, error)
	// Queue returns every open report fully joined for the moderator view.
	Queue(ctx context.Context) ([]models.ReportView, error)
	Resolve(ctx context.Context, req *models.ReportActionRequest) (*models.ActionResult, error)
}

// A ban lasts one calendar month from the moment of the action.
func banFreeDate(now time.Time) time.Time {
	return now.AddDate(0, 1, 0)
}

type MemoryModerationService struct {
	store    *MemoryStore
	identity IdentityProvider
}

func NewMemoryModerationService(store *MemoryStore, identity IdentityProvider) *MemoryModerationService {
	return &MemoryModerationService{store: store, identity: identity}
}

func (s *MemoryModerationService) CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	report := models.Report{
		ID:            uuid.New().String(),
		CommentID:     req.CommentID,
		PostID:        req.PostID,
		ReporterEmail: req.ReporterEmail,
		ReportedEmail: req.ReportedEmail,
	}
	s.store.data.Reports = append(s.store.data.Reports, report)
	s.store.persist()

	return &report, nil
}

func (s *MemoryModerationService) HasReport(ctx context.Context, commentID string) (bool, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	for _, r := range s.store.data.Reports {
		if r.CommentID == commentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryModerationService) Queue(ctx context.Context) ([]models.ReportView, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	comments := make(map[string]models.Comment, len(s.store.data.Comments))
	for _, c := range s.store.data.Comments {
		comments[c.ID] = c
	}
	posts := make(map[string]models.Post, len(s.store.data.Posts))
	for _, p := range s.store.data.Posts {
		posts[p.ID] = p
	}

	return composeReportViews(s.store.data.Reports, s.store.usersByEmail(), comments, posts), nil
}

func (s *MemoryModerationService) Resolve(ctx context.Context, req *models.ReportActionRequest) (*models.ActionResult, error) {
	switch req.Action {
	case models.ActionBanUser:
		return s.banUser(ctx, req)
	case models.ActionDeleteComment:
		return s.deleteComment(req)
	case models.ActionDeleteReport:
		return s.deleteReport(req)
	default:
		return nil, ErrUnknownAction
	}
}

// banUser runs the cascade: user record, ban record, the accused's comments,
// every report naming them, then the external identity. Sequential with no
// rollback; the result records how far it got.
func (s *MemoryModerationService) banUser(ctx context.Context, req *models.ReportActionRequest) (*models.ActionResult, error) {
	s.store.mu.Lock()

	result := &models.ActionResult{}

	for i, u := range s.store.data.Users {
		if u.ID == req.CommenterID {
			s.store.data.Users = append(s.store.data.Users[:i], s.store.data.Users[i+1:]...)
			result.UserDeleted = 1
			break
		}
	}

	s.store.data.Bans = append(s.store.data.Bans, models.Ban{
		ID:          uuid.New().String(),
		Email:       req.CommenterEmail,
		BanFreeDate: banFreeDate(time.Now().UTC()),
	})
	result.BanStored = true

	kept := s.store.data.Comments[:0]
	for _, c := range s.store.data.Comments {
		if c.Email == req.CommenterEmail {
			result.CommentsDeleted++
			continue
		}
		kept = append(kept, c)
	}
	s.store.data.Comments = kept

	keptReports := s.store.data.Reports[:0]
	for _, r := range s.store.data.Reports {
		if r.ReportedEmail == req.CommenterEmail {
			result.ReportsDeleted++
			continue
		}
		keptReports = append(keptReports, r)
	}
	s.store.data.Reports = keptReports

	s.store.persist()
	s.store.mu.Unlock()

	if s.identity == nil {
		// No identity provider configured: the external account is left
		// alone and the flag stays false.
		return result, nil
	}
	if err := s.deleteIdentity(ctx, req.CommenterEmail); err != nil {
		// Local records are already gone; the external account survives
		// until the next attempt. Surface the failure with the partial
		// result so the caller can see what was applied.
		log.Printf("[moderation] identity delete failed email=%s err=%v", req.CommenterEmail, err)
		return result, fmt.Errorf("identity delete: %w", err)
	}
	result.IdentityDeleted = true

	return result, nil
}

func (s *MemoryModerationService) deleteIdentity(ctx context.Context, email string) error {
	uid, err := s.identity.LookupUID(ctx, email)
	if err != nil {
		return err
	}
	return s.identity.DeleteUser(ctx, uid)
}

func (s *MemoryModerationService) deleteComment(req *models.ReportActionRequest) (*models.ActionResult, error) {
	if uuid.Validate(req.CommentID) != nil || uuid.Validate(req.ReportID) != nil {
		return nil, ErrInvalidID
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	result := &models.ActionResult{}
	for i, c := range s.store.data.Comments {
		if c.ID == req.CommentID {
			s.store.data.Comments = append(s.store.data.Comments[:i], s.store.data.Comments[i+1:]...)
			result.CommentsDeleted = 1
			break
		}
	}
	for i, r := range s.store.data.Reports {
		if r.ID == req.ReportID {
			s.store.data.Reports = append(s.store.data.Reports[:i], s.store.data.Reports[i+1:]...)
			result.ReportsDeleted = 1
			break
		}
	}
	s.store.persist()

	return result, nil
}

func (s *MemoryModerationService) deleteReport(req *models.ReportActionRequest) (*models.ActionResult, error) {
	if uuid.Validate(req.ReportID) != nil {
		return nil, ErrInvalidID
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	result := &models.ActionResult{}
	for i, r := range s.store.data.Reports {
		if r.ID == req.ReportID {
			s.store.data.Reports = append(s.store.data.Reports[:i], s.store.data.Reports[i+1:]...)
			result.ReportsDeleted = 1
			break
		}
	}
	s.store.persist()

	return result, nil
}
