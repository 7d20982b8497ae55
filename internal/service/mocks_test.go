package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"cardealer/internal/auth"
	"cardealer/internal/model"
	"cardealer/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindCustomerByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ListCustomers(ctx context.Context, page, pageSize int) ([]model.User, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id uint) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) VINExists(ctx context.Context, vin string, excludeID uint) (bool, error) {
	args := m.Called(ctx, vin, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVehicleRepository) UpdateStatus(ctx context.Context, id uint, status model.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockVehicleRepository) List(ctx context.Context, filter repository.VehicleFilter) ([]model.Vehicle, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Vehicle), args.Get(1).(int64), args.Error(2)
}

// MockSaleRepository is a mock implementation of SaleRepository. Its
// WithTransaction runs the callback against the mock itself and TxVehicles,
// so transactional paths exercise the same expectations as direct calls.
type MockSaleRepository struct {
	mock.Mock
	TxVehicles repository.VehicleRepository
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *model.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Update(ctx context.Context, sale *model.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDWithRefs(ctx context.Context, id uint) (*model.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleRepository) HasRequested(ctx context.Context, vehicleID, customerID uint) (bool, error) {
	args := m.Called(ctx, vehicleID, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRepository) ExistsForVehicle(ctx context.Context, vehicleID uint) (bool, error) {
	args := m.Called(ctx, vehicleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRepository) CountByCustomerAndStatus(ctx context.Context, customerID uint, status model.SaleStatus) (int64, error) {
	args := m.Called(ctx, customerID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) ListByCustomer(ctx context.Context, customerID uint, page, pageSize int) ([]model.Sale, int64, error) {
	args := m.Called(ctx, customerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Sale), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleRepository) ListAll(ctx context.Context, status *model.SaleStatus, page, pageSize int) ([]model.Sale, int64, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Sale), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, sales repository.SaleRepository, vehicles repository.VehicleRepository) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m, m.TxVehicles)
}

// MockOtpRepository is a mock implementation of OtpRepository.
type MockOtpRepository struct {
	mock.Mock
}

func (m *MockOtpRepository) Create(ctx context.Context, code *model.OtpCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockOtpRepository) FindActive(ctx context.Context, email, code string, purpose model.OtpPurpose, now time.Time) (*model.OtpCode, error) {
	args := m.Called(ctx, email, code, purpose, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OtpCode), args.Error(1)
}

func (m *MockOtpRepository) MarkUsed(ctx context.Context, id uint, usedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, usedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockOtpRepository) InvalidateScope(ctx context.Context, email string, purpose model.OtpPurpose, usedAt time.Time) error {
	args := m.Called(ctx, email, purpose, usedAt)
	return args.Error(0)
}

func (m *MockOtpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockOtpService is a mock implementation of OtpService.
type MockOtpService struct {
	mock.Mock
}

func (m *MockOtpService) Generate(ctx context.Context, email string, purpose model.OtpPurpose) (string, error) {
	args := m.Called(ctx, email, purpose)
	return args.String(0), args.Error(1)
}

func (m *MockOtpService) Validate(ctx context.Context, email, code string, purpose model.OtpPurpose) (bool, error) {
	args := m.Called(ctx, email, code, purpose)
	return args.Bool(0), args.Error(1)
}

func (m *MockOtpService) Invalidate(ctx context.Context, email string, purpose model.OtpPurpose) error {
	args := m.Called(ctx, email, purpose)
	return args.Error(0)
}

func (m *MockOtpService) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPendingStore is a mock implementation of auth.PendingStoreInterface.
type MockPendingStore struct {
	mock.Mock
}

func (m *MockPendingStore) Put(ctx context.Context, email string, pending *auth.PendingRegistration, ttl time.Duration) error {
	args := m.Called(ctx, email, pending, ttl)
	return args.Error(0)
}

func (m *MockPendingStore) Get(ctx context.Context, email string) (*auth.PendingRegistration, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.PendingRegistration), args.Error(1)
}

func (m *MockPendingStore) Delete(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Deliver(ctx context.Context, email string, purpose model.OtpPurpose, code string, expiresAt time.Time) error {
	args := m.Called(ctx, email, purpose, code, expiresAt)
	return args.Error(0)
}
