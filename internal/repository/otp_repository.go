package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"cardealer/internal/model"
)

// OtpRepository defines OTP persistence operations. Emails are compared
// lowercased, matching the user repository.
type OtpRepository interface {
	Create(ctx context.Context, code *model.OtpCode) error
	// FindActive returns the unused, unexpired code matching the scope and
	// exact code value. Expiry comparison is strict: expires_at > now.
	FindActive(ctx context.Context, email, code string, purpose model.OtpPurpose, now time.Time) (*model.OtpCode, error)
	// MarkUsed consumes a code. The update is guarded on used = false so two
	// concurrent validations of the same code cannot both succeed; it reports
	// whether this call performed the consumption.
	MarkUsed(ctx context.Context, id uint, usedAt time.Time) (bool, error)
	// InvalidateScope marks every unused code for (email, purpose) as used,
	// regardless of expiry.
	InvalidateScope(ctx context.Context, email string, purpose model.OtpPurpose, usedAt time.Time) error
	// DeleteExpired hard-deletes all codes past expiry, used or not.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type otpRepository struct {
	db *gorm.DB
}

// NewOtpRepository creates a new OTP repository.
func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, code *model.OtpCode) error {
	code.Email = strings.ToLower(code.Email)
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *otpRepository) FindActive(ctx context.Context, email, code string, purpose model.OtpPurpose, now time.Time) (*model.OtpCode, error) {
	var otp model.OtpCode
	if err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND purpose = ? AND used = ? AND expires_at > ?",
			strings.ToLower(email), code, purpose, false, now).
		First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uint, usedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.OtpCode{}).
		Where("id = ? AND used = ?", id, false).
		Updates(map[string]interface{}{"used": true, "used_at": usedAt})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *otpRepository) InvalidateScope(ctx context.Context, email string, purpose model.OtpPurpose, usedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.OtpCode{}).
		Where("email = ? AND purpose = ? AND used = ?", strings.ToLower(email), purpose, false).
		Updates(map[string]interface{}{"used": true, "used_at": usedAt}).Error
}

func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.OtpCode{})
	return res.RowsAffected, res.Error
}
