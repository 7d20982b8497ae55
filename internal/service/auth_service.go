package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cardealer/internal/auth"
	apperrors "cardealer/internal/errors"
	"cardealer/internal/model"
	"cardealer/internal/repository"
)

const bcryptCost = 10

// AuthResult carries the issued token and the identity it was minted for.
type AuthResult struct {
	Token     string
	Email     string
	FullName  string
	Role      model.UserRole
	ExpiresAt time.Time
}

// AuthService implements the two-phase register and login flows. Each flow
// splits into an initiate step that issues an OTP and a confirm step that
// consumes it before performing the guarded action.
type AuthService interface {
	RegisterInitiate(ctx context.Context, firstName, lastName, email, password, phone string) error
	RegisterConfirm(ctx context.Context, email, code string) (*AuthResult, error)
	LoginInitiate(ctx context.Context, email, password string) error
	LoginConfirm(ctx context.Context, email, code string) (*AuthResult, error)
}

type authService struct {
	userRepo     repository.UserRepository
	otpService   OtpService
	pendingStore auth.PendingStoreInterface
	jwtService   *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	otpService OtpService,
	pendingStore auth.PendingStoreInterface,
	jwtService *auth.JWTService,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		otpService:   otpService,
		pendingStore: pendingStore,
		jwtService:   jwtService,
	}
}

// RegisterInitiate checks the email is free, stashes the submitted profile
// until the confirm step and issues a registration OTP.
func (s *authService) RegisterInitiate(ctx context.Context, firstName, lastName, email, password, phone string) error {
	email = strings.ToLower(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return apperrors.ErrEmailTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	pending := &auth.PendingRegistration{
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		PasswordHash: string(hash),
	}
	if err := s.pendingStore.Put(ctx, email, pending, OtpExpiry); err != nil {
		return fmt.Errorf("stash registration: %w", err)
	}

	if _, err := s.otpService.Generate(ctx, email, model.OtpPurposeRegistration); err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	return nil
}

// RegisterConfirm consumes the registration OTP, creates the account from the
// stashed profile and issues a token.
func (s *authService) RegisterConfirm(ctx context.Context, email, code string) (*AuthResult, error) {
	email = strings.ToLower(email)

	ok, err := s.otpService.Validate(ctx, email, code, model.OtpPurposeRegistration)
	if err != nil {
		return nil, fmt.Errorf("validate otp: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidOtp
	}

	pending, err := s.pendingStore.Get(ctx, email)
	if err != nil {
		return nil, apperrors.ErrRegistrationExpired
	}

	user := &model.User{
		FirstName:    pending.FirstName,
		LastName:     pending.LastName,
		Email:        email,
		PasswordHash: pending.PasswordHash,
		Phone:        pending.Phone,
		Role:         model.RoleCustomer,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	_ = s.pendingStore.Delete(ctx, email)

	return s.issue(user)
}

// LoginInitiate verifies credentials and issues a login OTP. Absent,
// inactive and wrong-password cases all surface the same error.
func (s *authService) LoginInitiate(ctx context.Context, email, password string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrInvalidCredentials
		}
		return fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		return apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	if _, err := s.otpService.Generate(ctx, user.Email, model.OtpPurposeLogin); err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	return nil
}

// LoginConfirm consumes the login OTP, stamps the login time and issues a token.
func (s *authService) LoginConfirm(ctx context.Context, email, code string) (*AuthResult, error) {
	ok, err := s.otpService.Validate(ctx, email, code, model.OtpPurposeLogin)
	if err != nil {
		return nil, fmt.Errorf("validate otp: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidOtp
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("stamp last login: %w", err)
	}

	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwtService.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		Token:     token,
		Email:     user.Email,
		FullName:  user.FullName(),
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, nil
}
