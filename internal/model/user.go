package model

import "time"

// UserRole distinguishes customers from dealership staff.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User represents a registered account. Emails are stored lowercased and are
// unique across all users.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	FirstName    string     `json:"first_name" gorm:"size:100;not null"`
	LastName     string     `json:"last_name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Phone        string     `json:"phone,omitempty" gorm:"size:20"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'customer';index"`
	Active       bool       `json:"active" gorm:"default:true;index"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// Relations
	Sales []Sale `json:"sales,omitempty" gorm:"foreignKey:CustomerID"`
}

// FullName joins first and last name for token claims and responses.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
