package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cardealer/internal/cache"
	apperrors "cardealer/internal/errors"
	"cardealer/internal/model"
	"cardealer/internal/repository"
)

// SaleService handles the purchase-request workflow. The confirm step runs
// its read-check-write sequence inside one transaction with a row lock on the
// vehicle, so two concurrent confirmations of the same vehicle cannot both
// reserve it.
type SaleService interface {
	PurchaseInitiate(ctx context.Context, vehicleID uint, requesterEmail string) error
	PurchaseConfirm(ctx context.Context, vehicleID, customerID uint, email, code, notes string) (*model.Sale, error)
	ProcessSale(ctx context.Context, saleID uint, newStatus model.SaleStatus, notes string) (*model.Sale, error)
	ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]model.Sale, int64, error)
	ListAll(ctx context.Context, status *model.SaleStatus, page, pageSize int) ([]model.Sale, int64, error)
}

type saleService struct {
	saleRepo    repository.SaleRepository
	vehicleRepo repository.VehicleRepository
	otpService  OtpService
	cache       *cache.Client
}

// NewSaleService creates a new sale service.
func NewSaleService(
	saleRepo repository.SaleRepository,
	vehicleRepo repository.VehicleRepository,
	otpService OtpService,
	cache *cache.Client,
) SaleService {
	return &saleService{
		saleRepo:    saleRepo,
		vehicleRepo: vehicleRepo,
		otpService:  otpService,
		cache:       cache,
	}
}

// PurchaseInitiate checks the vehicle is purchasable and issues a purchase
// OTP to the requester.
func (s *saleService) PurchaseInitiate(ctx context.Context, vehicleID uint, requesterEmail string) error {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrVehicleNotFound
		}
		return fmt.Errorf("find vehicle: %w", err)
	}
	if vehicle.Status != model.VehicleStatusAvailable {
		return apperrors.ErrVehicleNotAvailable
	}

	if _, err := s.otpService.Generate(ctx, requesterEmail, model.OtpPurposePurchaseRequest); err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	return nil
}

// PurchaseConfirm consumes the purchase OTP, then atomically re-checks the
// vehicle, creates the sale with a price snapshot and reserves the vehicle.
func (s *saleService) PurchaseConfirm(ctx context.Context, vehicleID, customerID uint, email, code, notes string) (*model.Sale, error) {
	ok, err := s.otpService.Validate(ctx, email, code, model.OtpPurposePurchaseRequest)
	if err != nil {
		return nil, fmt.Errorf("validate otp: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidOtp
	}

	var sale *model.Sale
	err = s.saleRepo.WithTransaction(ctx, func(ctx context.Context, sales repository.SaleRepository, vehicles repository.VehicleRepository) error {
		// Time has passed since initiate: lock the row and re-check.
		vehicle, err := vehicles.FindByIDForUpdate(ctx, vehicleID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrVehicleNotFound
			}
			return fmt.Errorf("lock vehicle: %w", err)
		}
		if vehicle.Status != model.VehicleStatusAvailable {
			return apperrors.ErrVehicleNotAvailable
		}

		pending, err := sales.HasRequested(ctx, vehicleID, customerID)
		if err != nil {
			return fmt.Errorf("check pending request: %w", err)
		}
		if pending {
			return apperrors.ErrDuplicateRequest
		}

		sale = &model.Sale{
			VehicleID:   vehicleID,
			CustomerID:  customerID,
			SalePrice:   vehicle.Price,
			Status:      model.SaleStatusRequested,
			RequestedAt: time.Now().UTC(),
			Notes:       notes,
		}
		if err := sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := vehicles.UpdateStatus(ctx, vehicleID, model.VehicleStatusReserved); err != nil {
			return fmt.Errorf("reserve vehicle: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, vehicleCacheKey(vehicleID))

	return s.saleRepo.FindByIDWithRefs(ctx, sale.ID)
}

// ProcessSale applies one admin processing step to a requested sale.
// Completed marks the vehicle sold and stamps completion; cancelled releases
// the vehicle; any other target only updates status and notes. Completed and
// cancelled sales are terminal.
func (s *saleService) ProcessSale(ctx context.Context, saleID uint, newStatus model.SaleStatus, notes string) (*model.Sale, error) {
	if !newStatus.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	err := s.saleRepo.WithTransaction(ctx, func(ctx context.Context, sales repository.SaleRepository, vehicles repository.VehicleRepository) error {
		// Lock the sale row so two admins cannot both observe Requested.
		sale, err := sales.FindByIDForUpdate(ctx, saleID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrSaleNotFound
			}
			return fmt.Errorf("find sale: %w", err)
		}
		if sale.Status != model.SaleStatusRequested {
			return apperrors.ErrSaleNotProcessable
		}

		sale.Status = newStatus
		sale.Notes = notes

		switch newStatus {
		case model.SaleStatusCompleted:
			now := time.Now().UTC()
			sale.CompletedAt = &now
			if err := vehicles.UpdateStatus(ctx, sale.VehicleID, model.VehicleStatusSold); err != nil {
				return fmt.Errorf("mark vehicle sold: %w", err)
			}
		case model.SaleStatusCancelled:
			if err := vehicles.UpdateStatus(ctx, sale.VehicleID, model.VehicleStatusAvailable); err != nil {
				return fmt.Errorf("release vehicle: %w", err)
			}
		}

		if err := sales.Update(ctx, sale); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindByIDWithRefs(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("reload sale: %w", err)
	}
	_ = s.cache.Delete(ctx, vehicleCacheKey(sale.VehicleID))
	return sale, nil
}

// ListByCustomer returns the customer's own purchase history, newest first.
func (s *saleService) ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]model.Sale, int64, error) {
	return s.saleRepo.ListByCustomer(ctx, customerID, page, pageSize)
}

// ListAll returns all sales with an optional status filter. Admin only.
func (s *saleService) ListAll(ctx context.Context, status *model.SaleStatus, page, pageSize int) ([]model.Sale, int64, error) {
	return s.saleRepo.ListAll(ctx, status, page, pageSize)
}
