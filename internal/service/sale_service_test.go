package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "cardealer/internal/errors"
	"cardealer/internal/model"
)

func TestSaleService_PurchaseInitiate(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockVehicleRepository, *MockOtpService)
		expectedError error
	}{
		{
			name: "available vehicle issues a purchase otp",
			setupMock: func(vehicles *MockVehicleRepository, otps *MockOtpService) {
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(&model.Vehicle{
					ID:     1,
					Status: model.VehicleStatusAvailable,
				}, nil)
				otps.On("Generate", mock.Anything, "buyer@example.com", model.OtpPurposePurchaseRequest).Return("123456", nil)
			},
		},
		{
			name: "missing vehicle is rejected",
			setupMock: func(vehicles *MockVehicleRepository, otps *MockOtpService) {
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrVehicleNotFound,
		},
		{
			name: "reserved vehicle is rejected before any otp is sent",
			setupMock: func(vehicles *MockVehicleRepository, otps *MockOtpService) {
				vehicles.On("FindByID", mock.Anything, uint(1)).Return(&model.Vehicle{
					ID:     1,
					Status: model.VehicleStatusReserved,
				}, nil)
			},
			expectedError: apperrors.ErrVehicleNotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockVehicles := new(MockVehicleRepository)
			mockOtps := new(MockOtpService)
			tt.setupMock(mockVehicles, mockOtps)

			svc := NewSaleService(new(MockSaleRepository), mockVehicles, mockOtps, nil)
			err := svc.PurchaseInitiate(context.Background(), 1, "buyer@example.com")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockOtps.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}

			mockVehicles.AssertExpectations(t)
			mockOtps.AssertExpectations(t)
		})
	}
}

func TestSaleService_PurchaseConfirm(t *testing.T) {
	price := decimal.NewFromInt(28500)

	tests := []struct {
		name          string
		setupMock     func(*MockSaleRepository, *MockVehicleRepository, *MockOtpService)
		expectedError error
	}{
		{
			name: "creates the sale with a price snapshot and reserves the vehicle",
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository, otps *MockOtpService) {
				otps.On("Validate", mock.Anything, "buyer@example.com", "123456", model.OtpPurposePurchaseRequest).Return(true, nil)
				sales.On("WithTransaction", mock.Anything).Return(nil)
				vehicles.On("FindByIDForUpdate", mock.Anything, uint(1)).Return(&model.Vehicle{
					ID:     1,
					Price:  price,
					Status: model.VehicleStatusAvailable,
				}, nil)
				sales.On("HasRequested", mock.Anything, uint(1), uint(2)).Return(false, nil)
				sales.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Sale) bool {
					return s.Status == model.SaleStatusRequested && s.SalePrice.Equal(price)
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*model.Sale).ID = 7
				}).Return(nil)
				vehicles.On("UpdateStatus", mock.Anything, uint(1), model.VehicleStatusReserved).Return(nil)
				sales.On("FindByIDWithRefs", mock.Anything, uint(7)).Return(&model.Sale{
					ID:         7,
					VehicleID:  1,
					CustomerID: 2,
					SalePrice:  price,
					Status:     model.SaleStatusRequested,
				}, nil)
			},
		},
		{
			name: "wrong otp creates nothing",
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository, otps *MockOtpService) {
				otps.On("Validate", mock.Anything, "buyer@example.com", "123456", model.OtpPurposePurchaseRequest).Return(false, nil)
			},
			expectedError: apperrors.ErrInvalidOtp,
		},
		{
			name: "vehicle reserved since initiate is rejected under the lock",
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository, otps *MockOtpService) {
				otps.On("Validate", mock.Anything, "buyer@example.com", "123456", model.OtpPurposePurchaseRequest).Return(true, nil)
				sales.On("WithTransaction", mock.Anything).Return(nil)
				vehicles.On("FindByIDForUpdate", mock.Anything, uint(1)).Return(&model.Vehicle{
					ID:     1,
					Status: model.VehicleStatusReserved,
				}, nil)
			},
			expectedError: apperrors.ErrVehicleNotAvailable,
		},
		{
			name: "second pending request for the same vehicle is rejected",
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository, otps *MockOtpService) {
				otps.On("Validate", mock.Anything, "buyer@example.com", "123456", model.OtpPurposePurchaseRequest).Return(true, nil)
				sales.On("WithTransaction", mock.Anything).Return(nil)
				vehicles.On("FindByIDForUpdate", mock.Anything, uint(1)).Return(&model.Vehicle{
					ID:     1,
					Price:  price,
					Status: model.VehicleStatusAvailable,
				}, nil)
				sales.On("HasRequested", mock.Anything, uint(1), uint(2)).Return(true, nil)
			},
			expectedError: apperrors.ErrDuplicateRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSales := new(MockSaleRepository)
			mockVehicles := new(MockVehicleRepository)
			mockSales.TxVehicles = mockVehicles
			mockOtps := new(MockOtpService)
			tt.setupMock(mockSales, mockVehicles, mockOtps)

			svc := NewSaleService(mockSales, mockVehicles, mockOtps, nil)
			sale, err := svc.PurchaseConfirm(context.Background(), 1, 2, "buyer@example.com", "123456", "call me")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, sale)
				mockSales.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, sale)
				assert.Equal(t, uint(7), sale.ID)
				assert.True(t, sale.SalePrice.Equal(price))
				assert.Equal(t, model.SaleStatusRequested, sale.Status)
			}

			mockSales.AssertExpectations(t)
			mockVehicles.AssertExpectations(t)
			mockOtps.AssertExpectations(t)
		})
	}
}

func TestSaleService_ProcessSale(t *testing.T) {
	requestedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	requestedSale := func() *model.Sale {
		return &model.Sale{
			ID:          7,
			VehicleID:   1,
			CustomerID:  2,
			Status:      model.SaleStatusRequested,
			RequestedAt: requestedAt,
		}
	}

	tests := []struct {
		name          string
		newStatus     model.SaleStatus
		setupMock     func(*MockSaleRepository, *MockVehicleRepository)
		expectedError error
	}{
		{
			name:      "completed stamps completion and marks the vehicle sold",
			newStatus: model.SaleStatusCompleted,
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository) {
				sales.On("WithTransaction", mock.Anything).Return(nil)
				sales.On("FindByIDForUpdate", mock.Anything, uint(7)).Return(requestedSale(), nil)
				vehicles.On("UpdateStatus", mock.Anything, uint(1), model.VehicleStatusSold).Return(nil)
				sales.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Sale) bool {
					return s.Status == model.SaleStatusCompleted && s.CompletedAt != nil
				})).Return(nil)
				sales.On("FindByIDWithRefs", mock.Anything, uint(7)).Return(&model.Sale{
					ID:        7,
					VehicleID: 1,
					Status:    model.SaleStatusCompleted,
				}, nil)
			},
		},
		{
			name:      "cancelled releases the vehicle",
			newStatus: model.SaleStatusCancelled,
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository) {
				sales.On("WithTransaction", mock.Anything).Return(nil)
				sales.On("FindByIDForUpdate", mock.Anything, uint(7)).Return(requestedSale(), nil)
				vehicles.On("UpdateStatus", mock.Anything, uint(1), model.VehicleStatusAvailable).Return(nil)
				sales.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Sale) bool {
					return s.Status == model.SaleStatusCancelled && s.CompletedAt == nil
				})).Return(nil)
				sales.On("FindByIDWithRefs", mock.Anything, uint(7)).Return(&model.Sale{
					ID:        7,
					VehicleID: 1,
					Status:    model.SaleStatusCancelled,
				}, nil)
			},
		},
		{
			name:      "approved leaves the vehicle reserved",
			newStatus: model.SaleStatusApproved,
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository) {
				sales.On("WithTransaction", mock.Anything).Return(nil)
				sales.On("FindByIDForUpdate", mock.Anything, uint(7)).Return(requestedSale(), nil)
				sales.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Sale) bool {
					return s.Status == model.SaleStatusApproved
				})).Return(nil)
				sales.On("FindByIDWithRefs", mock.Anything, uint(7)).Return(&model.Sale{
					ID:        7,
					VehicleID: 1,
					Status:    model.SaleStatusApproved,
				}, nil)
			},
		},
		{
			name:      "completed sales are terminal",
			newStatus: model.SaleStatusCancelled,
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository) {
				sales.On("WithTransaction", mock.Anything).Return(nil)
				sales.On("FindByIDForUpdate", mock.Anything, uint(7)).Return(&model.Sale{
					ID:        7,
					VehicleID: 1,
					Status:    model.SaleStatusCompleted,
				}, nil)
			},
			expectedError: apperrors.ErrSaleNotProcessable,
		},
		{
			name:      "unknown target status is rejected",
			newStatus: model.SaleStatus("shipped"),
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository) {},
			expectedError: apperrors.ErrInvalidStatus,
		},
		{
			name:      "missing sale is rejected",
			newStatus: model.SaleStatusCompleted,
			setupMock: func(sales *MockSaleRepository, vehicles *MockVehicleRepository) {
				sales.On("WithTransaction", mock.Anything).Return(nil)
				sales.On("FindByIDForUpdate", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrSaleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSales := new(MockSaleRepository)
			mockVehicles := new(MockVehicleRepository)
			mockSales.TxVehicles = mockVehicles
			tt.setupMock(mockSales, mockVehicles)

			svc := NewSaleService(mockSales, mockVehicles, new(MockOtpService), nil)
			sale, err := svc.ProcessSale(context.Background(), 7, tt.newStatus, "processed")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, sale)
				mockSales.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, sale)
				assert.Equal(t, tt.newStatus, sale.Status)
			}

			mockSales.AssertExpectations(t)
			mockVehicles.AssertExpectations(t)
		})
	}
}
