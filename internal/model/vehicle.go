package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleStatus represents the availability state of a vehicle.
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusReserved    VehicleStatus = "reserved"
	VehicleStatusSold        VehicleStatus = "sold"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

// Valid reports whether s is one of the known vehicle statuses.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusReserved, VehicleStatusSold, VehicleStatusMaintenance:
		return true
	}
	return false
}

// Vehicle represents a listed vehicle in the dealership inventory.
type Vehicle struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Make         string          `json:"make" gorm:"size:100;not null;index"`
	Model        string          `json:"model" gorm:"size:100;not null;index"`
	Year         int             `json:"year" gorm:"not null"`
	Color        string          `json:"color" gorm:"size:100"`
	VIN          string          `json:"vin" gorm:"column:vin;uniqueIndex;size:20;not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	Mileage      int             `json:"mileage" gorm:"not null"`
	FuelType     string          `json:"fuel_type" gorm:"size:20"`
	Transmission string          `json:"transmission" gorm:"size:20"`
	Description  string          `json:"description" gorm:"size:1000"`
	Status       VehicleStatus   `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`

	// Relations
	Sales []Sale `json:"-" gorm:"foreignKey:VehicleID"`
}
