package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cardealer/internal/model"
)

// VehicleFilter narrows vehicle listings. String filters match substrings
// case-insensitively; nil bounds are ignored.
type VehicleFilter struct {
	Make         string
	Model        string
	Color        string
	FuelType     string
	Transmission string
	MinYear      *int
	MaxYear      *int
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Status       *model.VehicleStatus
	Page         int
	PageSize     int
}

// VehicleRepository defines vehicle persistence operations.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	Update(ctx context.Context, vehicle *model.Vehicle) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Vehicle, error)
	// FindByIDForUpdate takes a row-level lock so a concurrent purchase
	// cannot observe a stale available status.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Vehicle, error)
	VINExists(ctx context.Context, vin string, excludeID uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, status model.VehicleStatus) error
	List(ctx context.Context, filter VehicleFilter) ([]model.Vehicle, int64, error)
}

type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository.
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *vehicleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Vehicle{}, id).Error
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uint) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) VINExists(ctx context.Context, vin string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Vehicle{}).Where("vin = ?", vin)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *vehicleRepository) UpdateStatus(ctx context.Context, id uint, status model.VehicleStatus) error {
	return r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *vehicleRepository) List(ctx context.Context, filter VehicleFilter) ([]model.Vehicle, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Vehicle{})

	if filter.Make != "" {
		q = q.Where("LOWER(make) LIKE ?", like(filter.Make))
	}
	if filter.Model != "" {
		q = q.Where("LOWER(model) LIKE ?", like(filter.Model))
	}
	if filter.Color != "" {
		q = q.Where("LOWER(color) LIKE ?", like(filter.Color))
	}
	if filter.FuelType != "" {
		q = q.Where("LOWER(fuel_type) LIKE ?", like(filter.FuelType))
	}
	if filter.Transmission != "" {
		q = q.Where("LOWER(transmission) LIKE ?", like(filter.Transmission))
	}
	if filter.MinYear != nil {
		q = q.Where("year >= ?", *filter.MinYear)
	}
	if filter.MaxYear != nil {
		q = q.Where("year <= ?", *filter.MaxYear)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vehicles []model.Vehicle
	if err := q.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

func like(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
