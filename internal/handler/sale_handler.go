package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cardealer/internal/model"
	"cardealer/internal/service"
)

// SaleHandler handles purchase-request endpoints.
type SaleHandler struct {
	saleService service.SaleService
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// PurchaseInitiateRequest starts a purchase request.
type PurchaseInitiateRequest struct {
	VehicleID uint `json:"vehicle_id" validate:"required"`
}

// PurchaseConfirmRequest completes a purchase request with the OTP.
type PurchaseConfirmRequest struct {
	VehicleID uint   `json:"vehicle_id" validate:"required"`
	OtpCode   string `json:"otp_code" validate:"required,len=6"`
	Notes     string `json:"notes" validate:"max=500"`
}

// ProcessSaleRequest applies an admin processing step to a sale.
type ProcessSaleRequest struct {
	SaleID uint             `json:"sale_id" validate:"required"`
	Status model.SaleStatus `json:"status" validate:"required"`
	Notes  string           `json:"notes" validate:"max=500"`
}

// SaleResponse is a sale row joined with customer and vehicle display names.
type SaleResponse struct {
	ID               uint             `json:"id"`
	VehicleID        uint             `json:"vehicle_id"`
	CustomerID       uint             `json:"customer_id"`
	CustomerName     string           `json:"customer_name"`
	VehicleMakeModel string           `json:"vehicle_make_model"`
	SalePrice        decimal.Decimal  `json:"sale_price"`
	Status           model.SaleStatus `json:"status"`
	RequestedAt      time.Time        `json:"requested_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// InitiatePurchase godoc
// @Summary Initiate a purchase request (sends OTP)
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PurchaseInitiateRequest true "Vehicle to purchase"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /sales/initiate-purchase [post]
func (h *SaleHandler) InitiatePurchase(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	var req PurchaseInitiateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("validation failed", err.Error()))
	}

	if err := h.saleService.PurchaseInitiate(c.Request().Context(), req.VehicleID, claims.Email); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Purchase initiated successfully", OtpSentResponse{
		Message:     "OTP sent to your email. Use it to complete the purchase request.",
		RequiresOtp: true,
	}))
}

// ConfirmPurchase godoc
// @Summary Create a purchase request with OTP verification
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PurchaseConfirmRequest true "Purchase data with OTP"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /sales/purchase [post]
func (h *SaleHandler) ConfirmPurchase(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	var req PurchaseConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("validation failed", err.Error()))
	}

	sale, err := h.saleService.PurchaseConfirm(c.Request().Context(),
		req.VehicleID, claims.UserID, claims.Email, req.OtpCode, req.Notes)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Purchase request created successfully", saleResponse(sale)))
}

// MyPurchases godoc
// @Summary Purchase history of the current user
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /sales/my-purchases [get]
func (h *SaleHandler) MyPurchases(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	page, pageSize := parsePaging(c)

	sales, total, err := h.saleService.ListByCustomer(c.Request().Context(), claims.UserID, page, pageSize)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Purchase history retrieved successfully",
		NewPagedResponse(saleResponses(sales), page, pageSize, total)))
}

// ListAll godoc
// @Summary List all sales (admin)
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /sales [get]
func (h *SaleHandler) ListAll(c echo.Context) error {
	page, pageSize := parsePaging(c)

	var status *model.SaleStatus
	if v := c.QueryParam("status"); v != "" {
		s := model.SaleStatus(v)
		if !s.Valid() {
			return c.JSON(http.StatusBadRequest, fail("invalid status"))
		}
		status = &s
	}

	sales, total, err := h.saleService.ListAll(c.Request().Context(), status, page, pageSize)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Sales retrieved successfully",
		NewPagedResponse(saleResponses(sales), page, pageSize, total)))
}

// Process godoc
// @Summary Process a requested sale (admin)
// @Description Completed marks the vehicle sold; cancelled releases it.
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProcessSaleRequest true "Processing step"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /sales/process [post]
func (h *SaleHandler) Process(c echo.Context) error {
	var req ProcessSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("validation failed", err.Error()))
	}

	sale, err := h.saleService.ProcessSale(c.Request().Context(), req.SaleID, req.Status, req.Notes)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Sale processed successfully", saleResponse(sale)))
}

func saleResponse(sale *model.Sale) SaleResponse {
	return SaleResponse{
		ID:               sale.ID,
		VehicleID:        sale.VehicleID,
		CustomerID:       sale.CustomerID,
		CustomerName:     sale.Customer.FullName(),
		VehicleMakeModel: sale.Vehicle.Make + " " + sale.Vehicle.Model,
		SalePrice:        sale.SalePrice,
		Status:           sale.Status,
		RequestedAt:      sale.RequestedAt,
		CompletedAt:      sale.CompletedAt,
		Notes:            sale.Notes,
	}
}

func saleResponses(sales []model.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, saleResponse(&sales[i]))
	}
	return out
}
