package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"

	"cardealer/internal/model"
	"cardealer/internal/notify"
	"cardealer/internal/repository"
)

// OtpExpiry is the validity window of a generated code.
const OtpExpiry = 10 * time.Minute

var otpCodeSpace = big.NewInt(1000000)

// OtpService generates, validates, invalidates and reaps one-time codes
// scoped by (email, purpose).
type OtpService interface {
	// Generate supersedes any prior unused code for the scope, persists a
	// fresh 6-digit code valid for OtpExpiry and hands it to the notifier.
	// The returned code is for internal callers only; API responses must
	// only acknowledge that a code was sent.
	Generate(ctx context.Context, email string, purpose model.OtpPurpose) (string, error)
	// Validate consumes the code on match. Each code validates successfully
	// at most once; replays and expired or wrong-purpose codes fail.
	Validate(ctx context.Context, email, code string, purpose model.OtpPurpose) (bool, error)
	// Invalidate marks all unused codes for the scope as used.
	Invalidate(ctx context.Context, email string, purpose model.OtpPurpose) error
	// CleanupExpired permanently deletes codes past expiry, used or not.
	CleanupExpired(ctx context.Context) (int64, error)
}

type otpService struct {
	otpRepo  repository.OtpRepository
	notifier notify.Notifier
}

// NewOtpService creates a new OTP service.
func NewOtpService(otpRepo repository.OtpRepository, notifier notify.Notifier) OtpService {
	return &otpService{otpRepo: otpRepo, notifier: notifier}
}

func (s *otpService) Generate(ctx context.Context, email string, purpose model.OtpPurpose) (string, error) {
	email = strings.ToLower(email)
	now := time.Now().UTC()

	// At most one active code per (email, purpose): supersede before insert.
	if err := s.otpRepo.InvalidateScope(ctx, email, purpose, now); err != nil {
		return "", fmt.Errorf("invalidate prior codes: %w", err)
	}

	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("draw code: %w", err)
	}

	otp := &model.OtpCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(OtpExpiry),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}

	// Delivery is best-effort; the initiate call succeeds regardless.
	if err := s.notifier.Deliver(ctx, email, purpose, code, otp.ExpiresAt); err != nil {
		log.Printf("otp delivery failed for %s (%s): %v", email, purpose, err)
	}

	return code, nil
}

func (s *otpService) Validate(ctx context.Context, email, code string, purpose model.OtpPurpose) (bool, error) {
	now := time.Now().UTC()

	otp, err := s.otpRepo.FindActive(ctx, email, code, purpose, now)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("look up code: %w", err)
	}

	// The guarded update is what makes each code single-use: of two
	// concurrent validations only one flips the used flag.
	consumed, err := s.otpRepo.MarkUsed(ctx, otp.ID, now)
	if err != nil {
		return false, fmt.Errorf("consume code: %w", err)
	}
	return consumed, nil
}

func (s *otpService) Invalidate(ctx context.Context, email string, purpose model.OtpPurpose) error {
	return s.otpRepo.InvalidateScope(ctx, email, purpose, time.Now().UTC())
}

func (s *otpService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.otpRepo.DeleteExpired(ctx, time.Now().UTC())
}

// randomCode draws a 6-digit numeric code uniformly from [000000, 999999].
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpCodeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
