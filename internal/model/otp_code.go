package model

import "time"

// OtpPurpose binds a one-time code to a single guarded action so a code
// issued for one flow cannot be replayed against another.
type OtpPurpose string

const (
	OtpPurposeRegistration    OtpPurpose = "registration"
	OtpPurposeLogin           OtpPurpose = "login"
	OtpPurposePurchaseRequest OtpPurpose = "purchase_request"
	OtpPurposeUpdateVehicle   OtpPurpose = "update_vehicle"
)

// OtpCode is a time-boxed single-use code scoped by (email, purpose). At most
// one unused, unexpired code exists per scope: generation marks prior unused
// codes as used rather than relying on a uniqueness constraint.
type OtpCode struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Email     string     `json:"email" gorm:"size:150;not null;index:idx_otp_scope"`
	Code      string     `json:"-" gorm:"size:6;not null;index:idx_otp_scope"`
	Purpose   OtpPurpose `json:"purpose" gorm:"type:varchar(30);not null;index:idx_otp_scope"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null;index"`
	Used      bool       `json:"used" gorm:"default:false"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}
