package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cardealer/internal/model"
)

// SaleRepository defines sale persistence operations. Sales are never deleted.
type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	Update(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	// FindByIDForUpdate takes a row-level lock so concurrent processing steps
	// on the same sale are serialized.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Sale, error)
	// FindByIDWithRefs preloads the vehicle and customer rows.
	FindByIDWithRefs(ctx context.Context, id uint) (*model.Sale, error)
	HasRequested(ctx context.Context, vehicleID, customerID uint) (bool, error)
	ExistsForVehicle(ctx context.Context, vehicleID uint) (bool, error)
	CountByCustomerAndStatus(ctx context.Context, customerID uint, status model.SaleStatus) (int64, error)
	ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]model.Sale, int64, error)
	ListAll(ctx context.Context, status *model.SaleStatus, page, pageSize int) ([]model.Sale, int64, error)
	// WithTransaction runs fn inside one database transaction; the sale and
	// vehicle repositories handed to fn are bound to that transaction so the
	// reserve-and-create sequence commits or rolls back as one unit.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, sales SaleRepository, vehicles VehicleRepository) error) error
}

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository.
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) Update(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.WithContext(ctx).First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByIDWithRefs(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Customer").
		First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) HasRequested(ctx context.Context, vehicleID, customerID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("vehicle_id = ? AND customer_id = ? AND status = ?",
			vehicleID, customerID, model.SaleStatusRequested).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *saleRepository) ExistsForVehicle(ctx context.Context, vehicleID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("vehicle_id = ?", vehicleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *saleRepository) CountByCustomerAndStatus(ctx context.Context, customerID uint, status model.SaleStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("customer_id = ? AND status = ?", customerID, status).
		Count(&count).Error
	return count, err
}

func (r *saleRepository) ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]model.Sale, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("customer_id = ?", customerID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []model.Sale
	if err := base.
		Preload("Vehicle").
		Preload("Customer").
		Order("requested_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *saleRepository) ListAll(ctx context.Context, status *model.SaleStatus, page, pageSize int) ([]model.Sale, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Sale{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []model.Sale
	if err := base.
		Preload("Vehicle").
		Preload("Customer").
		Order("requested_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *saleRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, sales SaleRepository, vehicles VehicleRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &saleRepository{db: tx}, &vehicleRepository{db: tx})
	})
}
