package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailTaken is returned when registering an already registered email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned on bad email/password combinations.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOtp is returned when an OTP is wrong, expired or already used.
	ErrInvalidOtp = errors.New("invalid or expired OTP")
	// ErrRegistrationExpired is returned when the pending registration payload
	// is no longer available at confirm time.
	ErrRegistrationExpired = errors.New("registration session expired, please register again")
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrCustomerNotFound is returned when a customer lookup misses.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrVehicleNotFound is returned when a vehicle lookup misses.
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrSaleNotFound is returned when a sale lookup misses.
	ErrSaleNotFound = errors.New("sale not found")
	// ErrDuplicateVIN is returned when a VIN is already listed.
	ErrDuplicateVIN = errors.New("vehicle with this VIN already exists")
	// ErrVehicleNotAvailable is returned when a purchase targets a vehicle
	// that is not in the available state.
	ErrVehicleNotAvailable = errors.New("vehicle is not available for purchase")
	// ErrDuplicateRequest is returned when a customer already has a pending
	// request for the vehicle.
	ErrDuplicateRequest = errors.New("you already have a pending request for this vehicle")
	// ErrVehicleHasSales is returned when deleting a vehicle with sale records.
	ErrVehicleHasSales = errors.New("cannot delete vehicle with existing sales records")
	// ErrSaleNotProcessable is returned when a sale is not in the requested
	// state. Completed and cancelled sales are terminal.
	ErrSaleNotProcessable = errors.New("sale cannot be processed in its current status")
	// ErrInvalidStatus is returned when a status value is not a known enum member.
	ErrInvalidStatus = errors.New("invalid status value")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unexpected errors map to
// a generic internal response so raw diagnostics never reach the caller.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidOtp):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_OTP")
	case errors.Is(err, ErrRegistrationExpired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "REGISTRATION_EXPIRED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrCustomerNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CUSTOMER_NOT_FOUND")
	case errors.Is(err, ErrVehicleNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "VEHICLE_NOT_FOUND")
	case errors.Is(err, ErrSaleNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SALE_NOT_FOUND")
	case errors.Is(err, ErrDuplicateVIN):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_VIN")
	case errors.Is(err, ErrVehicleNotAvailable):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VEHICLE_NOT_AVAILABLE")
	case errors.Is(err, ErrDuplicateRequest):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_REQUEST")
	case errors.Is(err, ErrVehicleHasSales):
		return NewHTTPError(http.StatusConflict, err.Error(), "VEHICLE_HAS_SALES")
	case errors.Is(err, ErrSaleNotProcessable):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SALE_NOT_PROCESSABLE")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
