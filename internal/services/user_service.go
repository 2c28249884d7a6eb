package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neighbors/backend/internal/models"
)

// UserService manages user documents and the membership payment flow.
type UserService interface {
	// Register is idempotent by email: a second registration for the same
	// address is a soft no-op (acknowledged=false), not an error.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error)
	Info(ctx context.Context, email string) (*models.UserInfo, error)
	List(ctx context.Context) ([]models.User, error)
	MakeAdmin(ctx context.Context, email string) error
	IsAdmin(ctx context.Context, email string) (bool, error)
	RecordPayment(ctx context.Context, req *models.RecordPaymentRequest) (*models.Payment, error)
}

type MemoryUserService struct {
	store *MemoryStore
}

func NewMemoryUserService(store *MemoryStore) *MemoryUserService {
	return &MemoryUserService{store: store}
}

// Register checks for an existing email before inserting. The check and the
// insert are two independent steps here just as they are against Mongo, so
// two concurrent registrations for the same address can race; the in-memory
// store's single lock happens to close that window, the Mongo backend's
// does not.
func (s *MemoryUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.userByEmail(req.Email); exists {
		return &models.RegisterResult{Acknowledged: false}, nil
	}

	user := models.User{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Email: req.Email,
	}
	s.store.data.Users = append(s.store.data.Users, user)
	s.store.persist()

	return &models.RegisterResult{Acknowledged: true, InsertedID: user.ID}, nil
}

func (s *MemoryUserService) Info(ctx context.Context, email string) (*models.UserInfo, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	user, ok := s.store.userByEmail(email)
	if !ok {
		return nil, ErrUserNotFound
	}

	info := &models.UserInfo{User: user}
	for i := range s.store.data.Payments {
		if s.store.data.Payments[i].Email == email {
			p := s.store.data.Payments[i]
			info.PaymentData = &p
			break
		}
	}
	for _, p := range s.store.data.Posts {
		if p.Email == email {
			info.PostCount++
		}
	}
	return info, nil
}

func (s *MemoryUserService) List(ctx context.Context) ([]models.User, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	out := make([]models.User, len(s.store.data.Users))
	copy(out, s.store.data.Users)
	return out, nil
}

func (s *MemoryUserService) MakeAdmin(ctx context.Context, email string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i := range s.store.data.Users {
		if s.store.data.Users[i].Email == email {
			s.store.data.Users[i].IsAdmin = true
			s.store.persist()
			return nil
		}
	}
	return ErrUserNotFound
}

func (s *MemoryUserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	user, ok := s.store.userByEmail(email)
	if !ok {
		return false, ErrUserNotFound
	}
	return user.IsAdmin, nil
}

// RecordPayment stores the payment document with a one-month subscription
// window and flips the user's membership flag. Two writes, no transaction.
func (s *MemoryUserService) RecordPayment(ctx context.Context, req *models.RecordPaymentRequest) (*models.Payment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	payment := models.Payment{
		ID:                  uuid.New().String(),
		Email:               req.Email,
		Amount:              req.Amount,
		TransactionID:       req.TransactionID,
		SubscriptionEndDate: time.Now().UTC().AddDate(0, 1, 0),
	}
	s.store.data.Payments = append(s.store.data.Payments, payment)

	for i := range s.store.data.Users {
		if s.store.data.Users[i].Email == req.Email {
			s.store.data.Users[i].IsMember = true
			break
		}
	}
	s.store.persist()

	return &payment, nil
}
