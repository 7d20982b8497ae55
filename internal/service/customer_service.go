package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "cardealer/internal/errors"
	"cardealer/internal/model"
	"cardealer/internal/repository"
)

// CustomerSummary is a customer row enriched with their completed purchase
// count for the admin views.
type CustomerSummary struct {
	ID            uint       `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	PurchaseCount int64      `json:"purchase_count"`
}

// CustomerService exposes the admin-only customer views.
type CustomerService interface {
	List(ctx context.Context, page, pageSize int) ([]CustomerSummary, int64, error)
	Get(ctx context.Context, id uint) (*CustomerSummary, error)
}

type customerService struct {
	userRepo repository.UserRepository
	saleRepo repository.SaleRepository
}

// NewCustomerService creates a new customer service.
func NewCustomerService(userRepo repository.UserRepository, saleRepo repository.SaleRepository) CustomerService {
	return &customerService{userRepo: userRepo, saleRepo: saleRepo}
}

func (s *customerService) List(ctx context.Context, page, pageSize int) ([]CustomerSummary, int64, error) {
	users, total, err := s.userRepo.ListCustomers(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}

	summaries := make([]CustomerSummary, 0, len(users))
	for i := range users {
		summary, err := s.summarize(ctx, &users[i])
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, total, nil
}

func (s *customerService) Get(ctx context.Context, id uint) (*CustomerSummary, error) {
	user, err := s.userRepo.FindCustomerByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return s.summarize(ctx, user)
}

func (s *customerService) summarize(ctx context.Context, user *model.User) (*CustomerSummary, error) {
	count, err := s.saleRepo.CountByCustomerAndStatus(ctx, user.ID, model.SaleStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("count purchases: %w", err)
	}
	return &CustomerSummary{
		ID:            user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		Phone:         user.Phone,
		Active:        user.Active,
		CreatedAt:     user.CreatedAt,
		LastLoginAt:   user.LastLoginAt,
		PurchaseCount: count,
	}, nil
}
