package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cardealer/internal/cache"
	apperrors "cardealer/internal/errors"
	"cardealer/internal/model"
	"cardealer/internal/repository"
)

const vehicleCacheTTL = 5 * time.Minute

// VehicleInput carries the full set of descriptive vehicle fields. Update
// replaces all of them, mirroring the create payload.
type VehicleInput struct {
	Make         string
	Model        string
	Year         int
	Color        string
	VIN          string
	Price        decimal.Decimal
	Mileage      int
	FuelType     string
	Transmission string
	Description  string
	Status       model.VehicleStatus
}

// VehicleService handles inventory operations. Updates are OTP-gated:
// UpdateInitiate issues a code to the acting admin, UpdateConfirm consumes it
// before touching the row.
type VehicleService interface {
	List(ctx context.Context, filter repository.VehicleFilter, isAdmin bool) ([]model.Vehicle, int64, error)
	Get(ctx context.Context, id uint, isAdmin bool) (*model.Vehicle, error)
	Create(ctx context.Context, input VehicleInput) (*model.Vehicle, error)
	UpdateInitiate(ctx context.Context, id uint, adminEmail string) error
	UpdateConfirm(ctx context.Context, id uint, adminEmail, code string, input VehicleInput) (*model.Vehicle, error)
	Delete(ctx context.Context, id uint) error
}

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	saleRepo    repository.SaleRepository
	otpService  OtpService
	cache       *cache.Client
}

// NewVehicleService creates a new vehicle service.
func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	saleRepo repository.SaleRepository,
	otpService OtpService,
	cache *cache.Client,
) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		saleRepo:    saleRepo,
		otpService:  otpService,
		cache:       cache,
	}
}

func vehicleCacheKey(id uint) string {
	return fmt.Sprintf("vehicle:%d", id)
}

// List returns a filtered page of vehicles. Non-admin callers only ever see
// available vehicles, whatever status filter they pass.
func (s *vehicleService) List(ctx context.Context, filter repository.VehicleFilter, isAdmin bool) ([]model.Vehicle, int64, error) {
	if !isAdmin {
		available := model.VehicleStatusAvailable
		filter.Status = &available
	}
	return s.vehicleRepo.List(ctx, filter)
}

// Get returns one vehicle. Non-available vehicles read as not found for
// non-admin callers.
func (s *vehicleService) Get(ctx context.Context, id uint, isAdmin bool) (*model.Vehicle, error) {
	vehicle, err := s.getCached(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && vehicle.Status != model.VehicleStatusAvailable {
		return nil, apperrors.ErrVehicleNotFound
	}
	return vehicle, nil
}

func (s *vehicleService) getCached(ctx context.Context, id uint) (*model.Vehicle, error) {
	if data, _ := s.cache.Get(ctx, vehicleCacheKey(id)); data != nil {
		var cached model.Vehicle
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}

	if payload, err := json.Marshal(vehicle); err == nil {
		_ = s.cache.Set(ctx, vehicleCacheKey(id), payload, vehicleCacheTTL)
	}
	return vehicle, nil
}

// Create lists a new vehicle as available. Not OTP-gated.
func (s *vehicleService) Create(ctx context.Context, input VehicleInput) (*model.Vehicle, error) {
	taken, err := s.vehicleRepo.VINExists(ctx, input.VIN, 0)
	if err != nil {
		return nil, fmt.Errorf("check vin: %w", err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateVIN
	}

	vehicle := &model.Vehicle{
		Make:         input.Make,
		Model:        input.Model,
		Year:         input.Year,
		Color:        input.Color,
		VIN:          input.VIN,
		Price:        input.Price,
		Mileage:      input.Mileage,
		FuelType:     input.FuelType,
		Transmission: input.Transmission,
		Description:  input.Description,
		Status:       model.VehicleStatusAvailable,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return vehicle, nil
}

// UpdateInitiate re-validates existence and issues an update OTP to the
// acting admin.
func (s *vehicleService) UpdateInitiate(ctx context.Context, id uint, adminEmail string) error {
	if _, err := s.vehicleRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrVehicleNotFound
		}
		return fmt.Errorf("find vehicle: %w", err)
	}

	if _, err := s.otpService.Generate(ctx, adminEmail, model.OtpPurposeUpdateVehicle); err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	return nil
}

// UpdateConfirm consumes the update OTP, re-checks VIN uniqueness if the VIN
// changed and applies the full field set.
func (s *vehicleService) UpdateConfirm(ctx context.Context, id uint, adminEmail, code string, input VehicleInput) (*model.Vehicle, error) {
	ok, err := s.otpService.Validate(ctx, adminEmail, code, model.OtpPurposeUpdateVehicle)
	if err != nil {
		return nil, fmt.Errorf("validate otp: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidOtp
	}

	if !input.Status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}

	if vehicle.VIN != input.VIN {
		taken, err := s.vehicleRepo.VINExists(ctx, input.VIN, id)
		if err != nil {
			return nil, fmt.Errorf("check vin: %w", err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateVIN
		}
	}

	now := time.Now().UTC()
	vehicle.Make = input.Make
	vehicle.Model = input.Model
	vehicle.Year = input.Year
	vehicle.Color = input.Color
	vehicle.VIN = input.VIN
	vehicle.Price = input.Price
	vehicle.Mileage = input.Mileage
	vehicle.FuelType = input.FuelType
	vehicle.Transmission = input.Transmission
	vehicle.Description = input.Description
	vehicle.Status = input.Status
	vehicle.UpdatedAt = &now

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	_ = s.cache.Delete(ctx, vehicleCacheKey(id))

	return vehicle, nil
}

// Delete removes a vehicle unless any sale record references it, whatever
// the sale status.
func (s *vehicleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.vehicleRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrVehicleNotFound
		}
		return fmt.Errorf("find vehicle: %w", err)
	}

	hasSales, err := s.saleRepo.ExistsForVehicle(ctx, id)
	if err != nil {
		return fmt.Errorf("check sales: %w", err)
	}
	if hasSales {
		return apperrors.ErrVehicleHasSales
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	_ = s.cache.Delete(ctx, vehicleCacheKey(id))
	return nil
}
