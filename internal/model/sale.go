package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus represents the lifecycle state of a purchase request.
type SaleStatus string

const (
	SaleStatusRequested SaleStatus = "requested"
	SaleStatusApproved  SaleStatus = "approved"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Valid reports whether s is one of the known sale statuses.
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusRequested, SaleStatusApproved, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// Sale represents a customer purchase request for a vehicle. SalePrice is a
// snapshot of the vehicle price at request time. Sales are never deleted.
type Sale struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	VehicleID   uint            `json:"vehicle_id" gorm:"not null;index"`
	CustomerID  uint            `json:"customer_id" gorm:"not null;index"`
	SalePrice   decimal.Decimal `json:"sale_price" gorm:"type:decimal(18,2);not null"`
	Status      SaleStatus      `json:"status" gorm:"type:varchar(20);not null;default:'requested';index"`
	RequestedAt time.Time       `json:"requested_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Notes       string          `json:"notes,omitempty" gorm:"size:500"`

	// Relations
	Vehicle  Vehicle `json:"-" gorm:"foreignKey:VehicleID;constraint:OnDelete:RESTRICT"`
	Customer User    `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
}
