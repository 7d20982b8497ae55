package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "cardealer/internal/errors"
	"cardealer/internal/model"
	"cardealer/internal/repository"
)

func testVehicleInput() VehicleInput {
	return VehicleInput{
		Make:         "Toyota",
		Model:        "Camry",
		Year:         2022,
		Color:        "White",
		VIN:          "1234567890ABCDEF1",
		Price:        decimal.NewFromInt(28500),
		Mileage:      15000,
		FuelType:     "Gasoline",
		Transmission: "Automatic",
		Description:  "Reliable sedan",
		Status:       model.VehicleStatusAvailable,
	}
}

func TestVehicleService_List(t *testing.T) {
	tests := []struct {
		name       string
		isAdmin    bool
		filter     repository.VehicleFilter
		wantStatus *model.VehicleStatus
	}{
		{
			name:    "customers only ever see available vehicles",
			isAdmin: false,
			filter:  repository.VehicleFilter{Page: 1, PageSize: 10},
			wantStatus: func() *model.VehicleStatus {
				s := model.VehicleStatusAvailable
				return &s
			}(),
		},
		{
			name:    "customer status filter is overridden",
			isAdmin: false,
			filter: repository.VehicleFilter{
				Status: func() *model.VehicleStatus {
					s := model.VehicleStatusSold
					return &s
				}(),
				Page:     1,
				PageSize: 10,
			},
			wantStatus: func() *model.VehicleStatus {
				s := model.VehicleStatusAvailable
				return &s
			}(),
		},
		{
			name:       "admins see all statuses",
			isAdmin:    true,
			filter:     repository.VehicleFilter{Page: 1, PageSize: 10},
			wantStatus: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockVehicles := new(MockVehicleRepository)
			mockVehicles.On("List", mock.Anything, mock.MatchedBy(func(f repository.VehicleFilter) bool {
				if tt.wantStatus == nil {
					return f.Status == nil
				}
				return f.Status != nil && *f.Status == *tt.wantStatus
			})).Return([]model.Vehicle{}, int64(0), nil)

			svc := NewVehicleService(mockVehicles, new(MockSaleRepository), new(MockOtpService), nil)
			_, _, err := svc.List(context.Background(), tt.filter, tt.isAdmin)

			assert.NoError(t, err)
			mockVehicles.AssertExpectations(t)
		})
	}
}

func TestVehicleService_Get(t *testing.T) {
	tests := []struct {
		name          string
		isAdmin       bool
		setupMock     func(*MockVehicleRepository)
		expectedError error
	}{
		{
			name:    "reserved vehicle reads as not found for customers",
			isAdmin: false,
			setupMock: func(vehicles *MockVehicleRepository) {
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(&model.Vehicle{
					ID:     1,
					Status: model.VehicleStatusReserved,
				}, nil)
			},
			expectedError: apperrors.ErrVehicleNotFound,
		},
		{
			name:    "reserved vehicle is visible to admins",
			isAdmin: true,
			setupMock: func(vehicles *MockVehicleRepository) {
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(&model.Vehicle{
					ID:     1,
					Status: model.VehicleStatusReserved,
				}, nil)
			},
		},
		{
			name:    "missing vehicle reads as not found",
			isAdmin: true,
			setupMock: func(vehicles *MockVehicleRepository) {
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrVehicleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockVehicles := new(MockVehicleRepository)
			tt.setupMock(mockVehicles)

			svc := NewVehicleService(mockVehicles, new(MockSaleRepository), new(MockOtpService), nil)
			vehicle, err := svc.Get(context.Background(), 1, tt.isAdmin)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, vehicle)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, vehicle)
			}

			mockVehicles.AssertExpectations(t)
		})
	}
}

func TestVehicleService_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockVehicleRepository)
		expectedError error
	}{
		{
			name: "new vehicle is listed as available",
			setupMock: func(vehicles *MockVehicleRepository) {
				vehicles.On("VINExists", mock.Anything, "1234567890ABCDEF1", uint(0)).Return(false, nil)
				vehicles.On("Create", mock.Anything, mock.MatchedBy(func(v *model.Vehicle) bool {
					return v.Status == model.VehicleStatusAvailable
				})).Return(nil)
			},
		},
		{
			name: "duplicate vin is rejected",
			setupMock: func(vehicles *MockVehicleRepository) {
				vehicles.On("VINExists", mock.Anything, "1234567890ABCDEF1", uint(0)).Return(true, nil)
			},
			expectedError: apperrors.ErrDuplicateVIN,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockVehicles := new(MockVehicleRepository)
			tt.setupMock(mockVehicles)

			svc := NewVehicleService(mockVehicles, new(MockSaleRepository), new(MockOtpService), nil)
			vehicle, err := svc.Create(context.Background(), testVehicleInput())

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, vehicle)
				mockVehicles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, vehicle)
				assert.Equal(t, model.VehicleStatusAvailable, vehicle.Status)
			}

			mockVehicles.AssertExpectations(t)
		})
	}
}

func TestVehicleService_UpdateConfirm(t *testing.T) {
	existing := func() *model.Vehicle {
		return &model.Vehicle{
			ID:     1,
			Make:   "Toyota",
			Model:  "Camry",
			VIN:    "1234567890ABCDEF1",
			Price:  decimal.NewFromInt(28500),
			Status: model.VehicleStatusAvailable,
		}
	}

	tests := []struct {
		name          string
		input         func() VehicleInput
		setupMock     func(*MockVehicleRepository, *MockOtpService)
		expectedError error
	}{
		{
			name:  "valid otp applies the full field set",
			input: testVehicleInput,
			setupMock: func(vehicles *MockVehicleRepository, otps *MockOtpService) {
				otps.On("Validate", mock.Anything, "admin@example.com", "123456", model.OtpPurposeUpdateVehicle).Return(true, nil)
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(existing(), nil)
				vehicles.On("Update", mock.Anything, mock.MatchedBy(func(v *model.Vehicle) bool {
					return v.UpdatedAt != nil
				})).Return(nil)
			},
		},
		{
			name:  "wrong otp touches nothing",
			input: testVehicleInput,
			setupMock: func(vehicles *MockVehicleRepository, otps *MockOtpService) {
				otps.On("Validate", mock.Anything, "admin@example.com", "123456", model.OtpPurposeUpdateVehicle).Return(false, nil)
			},
			expectedError: apperrors.ErrInvalidOtp,
		},
		{
			name: "unknown status is rejected",
			input: func() VehicleInput {
				in := testVehicleInput()
				in.Status = model.VehicleStatus("totaled")
				return in
			},
			setupMock: func(vehicles *MockVehicleRepository, otps *MockOtpService) {
				otps.On("Validate", mock.Anything, "admin@example.com", "123456", model.OtpPurposeUpdateVehicle).Return(true, nil)
			},
			expectedError: apperrors.ErrInvalidStatus,
		},
		{
			name: "changing vin to another vehicle's vin is rejected",
			input: func() VehicleInput {
				in := testVehicleInput()
				in.VIN = "1234567890ABCDEF2"
				return in
			},
			setupMock: func(vehicles *MockVehicleRepository, otps *MockOtpService) {
				otps.On("Validate", mock.Anything, "admin@example.com", "123456", model.OtpPurposeUpdateVehicle).Return(true, nil)
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(existing(), nil)
				vehicles.On("VINExists", mock.Anything, "1234567890ABCDEF2", uint(1)).Return(true, nil)
			},
			expectedError: apperrors.ErrDuplicateVIN,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockVehicles := new(MockVehicleRepository)
			mockOtps := new(MockOtpService)
			tt.setupMock(mockVehicles, mockOtps)

			svc := NewVehicleService(mockVehicles, new(MockSaleRepository), mockOtps, nil)
			vehicle, err := svc.UpdateConfirm(context.Background(), 1, "admin@example.com", "123456", tt.input())

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, vehicle)
				mockVehicles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, vehicle)
			}

			mockVehicles.AssertExpectations(t)
			mockOtps.AssertExpectations(t)
		})
	}
}

func TestVehicleService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockVehicleRepository, *MockSaleRepository)
		expectedError error
	}{
		{
			name: "vehicle without sale records is deleted",
			setupMock: func(vehicles *MockVehicleRepository, sales *MockSaleRepository) {
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(&model.Vehicle{ID: 1}, nil)
				sales.On("ExistsForVehicle", mock.Anything, uint(1)).Return(false, nil)
				vehicles.On("Delete", mock.Anything, uint(1)).Return(nil)
			},
		},
		{
			name: "vehicle with sale records is kept",
			setupMock: func(vehicles *MockVehicleRepository, sales *MockSaleRepository) {
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(&model.Vehicle{ID: 1}, nil)
				sales.On("ExistsForVehicle", mock.Anything, uint(1)).Return(true, nil)
			},
			expectedError: apperrors.ErrVehicleHasSales,
		},
		{
			name: "missing vehicle is rejected",
			setupMock: func(vehicles *MockVehicleRepository, sales *MockSaleRepository) {
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrVehicleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockVehicles := new(MockVehicleRepository)
			mockSales := new(MockSaleRepository)
			tt.setupMock(mockVehicles, mockSales)

			svc := NewVehicleService(mockVehicles, mockSales, new(MockOtpService), nil)
			err := svc.Delete(context.Background(), 1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockVehicles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}

			mockVehicles.AssertExpectations(t)
			mockSales.AssertExpectations(t)
		})
	}
}
