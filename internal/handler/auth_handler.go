package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"cardealer/internal/errors"
	"cardealer/internal/model"
	"cardealer/internal/service"
)

// AuthHandler handles the two-phase registration and login endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest starts a registration.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=150"`
	Password  string `json:"password" validate:"required,min=6,max=100"`
	Phone     string `json:"phone" validate:"max=20"`
}

// LoginRequest starts a login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyOtpRequest confirms a pending registration or login.
type VerifyOtpRequest struct {
	Email   string `json:"email" validate:"required,email"`
	OtpCode string `json:"otp_code" validate:"required,len=6"`
}

// OtpSentResponse acknowledges that a code was sent. The code itself never
// appears in an API response.
type OtpSentResponse struct {
	Message     string `json:"message"`
	RequiresOtp bool   `json:"requires_otp"`
}

// AuthResponse carries the issued bearer token.
type AuthResponse struct {
	Token     string         `json:"token"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Role      model.UserRole `json:"role"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Register godoc
// @Summary Initiate registration (sends OTP)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Failure 500 {object} Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("validation failed", err.Error()))
	}

	err := h.authService.RegisterInitiate(c.Request().Context(),
		req.FirstName, req.LastName, req.Email, req.Password, req.Phone)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Registration initiated successfully", OtpSentResponse{
		Message:     "OTP sent to your email. Please verify to complete registration.",
		RequiresOtp: true,
	}))
}

// VerifyRegistration godoc
// @Summary Confirm registration with OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOtpRequest true "Email and OTP code"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Router /auth/verify-registration [post]
func (h *AuthHandler) VerifyRegistration(c echo.Context) error {
	var req VerifyOtpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("validation failed", err.Error()))
	}

	result, err := h.authService.RegisterConfirm(c.Request().Context(), req.Email, req.OtpCode)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Registration completed successfully", authResponse(result)))
}

// Login godoc
// @Summary Initiate login (sends OTP)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 500 {object} Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("validation failed", err.Error()))
	}

	if err := h.authService.LoginInitiate(c.Request().Context(), req.Email, req.Password); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Login initiated successfully", OtpSentResponse{
		Message:     "OTP sent to your email. Please verify to complete login.",
		RequiresOtp: true,
	}))
}

// VerifyLogin godoc
// @Summary Confirm login with OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOtpRequest true "Email and OTP code"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Router /auth/verify-login [post]
func (h *AuthHandler) VerifyLogin(c echo.Context) error {
	var req VerifyOtpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("validation failed", err.Error()))
	}

	result, err := h.authService.LoginConfirm(c.Request().Context(), req.Email, req.OtpCode)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Login successful", authResponse(result)))
}

func authResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     result.Token,
		Email:     result.Email,
		FullName:  result.FullName,
		Role:      result.Role,
		ExpiresAt: result.ExpiresAt,
	}
}

// writeError maps a service error onto the response envelope. Unexpected
// errors are logged with context and surface as a generic internal failure.
func writeError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(httpErr.StatusCode, fail(httpErr.Message))
}
