package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cardealer/internal/model"
	"cardealer/internal/repository"
	"cardealer/internal/service"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// VehicleHandler handles inventory endpoints.
type VehicleHandler struct {
	vehicleService service.VehicleService
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(vehicleService service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// VehicleCreateRequest lists a new vehicle.
type VehicleCreateRequest struct {
	Make         string          `json:"make" validate:"required,max=100"`
	Model        string          `json:"model" validate:"required,max=100"`
	Year         int             `json:"year" validate:"required,gte=1900,lte=2100"`
	Color        string          `json:"color" validate:"max=100"`
	VIN          string          `json:"vin" validate:"required,max=20"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	Mileage      int             `json:"mileage" validate:"gte=0"`
	FuelType     string          `json:"fuel_type" validate:"max=20"`
	Transmission string          `json:"transmission" validate:"max=20"`
	Description  string          `json:"description" validate:"max=1000"`
}

// VehicleUpdateRequest replaces all vehicle fields; the OTP issued by the
// initiate-update step rides along.
type VehicleUpdateRequest struct {
	VehicleCreateRequest
	Status  model.VehicleStatus `json:"status" validate:"required"`
	OtpCode string              `json:"otp_code" validate:"required,len=6"`
}

// List godoc
// @Summary List vehicles with filters and paging
// @Description Non-admin callers only see available vehicles.
// @Tags vehicles
// @Produce json
// @Security BearerAuth
// @Param make query string false "Make substring"
// @Param model query string false "Model substring"
// @Param color query string false "Color substring"
// @Param fuel_type query string false "Fuel type substring"
// @Param transmission query string false "Transmission substring"
// @Param min_year query int false "Minimum year"
// @Param max_year query int false "Maximum year"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param status query string false "Status (admin only)"
// @Param page query int false "Page" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /vehicles [get]
func (h *VehicleHandler) List(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	filter, err := parseVehicleFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fail(err.Error()))
	}

	vehicles, total, err := h.vehicleService.List(c.Request().Context(), filter, isAdmin(claims))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Vehicles retrieved successfully",
		NewPagedResponse(vehicles, filter.Page, filter.PageSize, total)))
}

// Get godoc
// @Summary Get vehicle by id
// @Tags vehicles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) Get(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid vehicle id"))
	}

	vehicle, err := h.vehicleService.Get(c.Request().Context(), id, isAdmin(claims))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ok("Vehicle retrieved successfully", vehicle))
}

// Create godoc
// @Summary Add a vehicle (admin)
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VehicleCreateRequest true "Vehicle data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /vehicles [post]
func (h *VehicleHandler) Create(c echo.Context) error {
	var req VehicleCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("validation failed", err.Error()))
	}

	vehicle, err := h.vehicleService.Create(c.Request().Context(), vehicleInput(req, model.VehicleStatusAvailable))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, ok("Vehicle added successfully", vehicle))
}

// InitiateUpdate godoc
// @Summary Initiate a vehicle update (admin, sends OTP)
// @Tags vehicles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /vehicles/{id}/initiate-update [post]
func (h *VehicleHandler) InitiateUpdate(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid vehicle id"))
	}

	if err := h.vehicleService.UpdateInitiate(c.Request().Context(), id, claims.Email); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Update initiated successfully", OtpSentResponse{
		Message:     "OTP sent to your email. Use it to complete the vehicle update.",
		RequiresOtp: true,
	}))
}

// Update godoc
// @Summary Update a vehicle with OTP verification (admin)
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Param request body VehicleUpdateRequest true "Vehicle data with OTP"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /vehicles/{id} [put]
func (h *VehicleHandler) Update(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid vehicle id"))
	}

	var req VehicleUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fail("validation failed", err.Error()))
	}

	vehicle, err := h.vehicleService.UpdateConfirm(c.Request().Context(), id, claims.Email, req.OtpCode,
		vehicleInput(req.VehicleCreateRequest, req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ok("Vehicle updated successfully", vehicle))
}

// Delete godoc
// @Summary Delete a vehicle (admin)
// @Description Fails if any sale record references the vehicle.
// @Tags vehicles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /vehicles/{id} [delete]
func (h *VehicleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid vehicle id"))
	}

	if err := h.vehicleService.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ok("Vehicle deleted successfully", nil))
}

func vehicleInput(req VehicleCreateRequest, status model.VehicleStatus) service.VehicleInput {
	return service.VehicleInput{
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Color:        req.Color,
		VIN:          req.VIN,
		Price:        req.Price,
		Mileage:      req.Mileage,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Description:  req.Description,
		Status:       status,
	}
}

func parseVehicleFilter(c echo.Context) (repository.VehicleFilter, error) {
	filter := repository.VehicleFilter{
		Make:         c.QueryParam("make"),
		Model:        c.QueryParam("model"),
		Color:        c.QueryParam("color"),
		FuelType:     c.QueryParam("fuel_type"),
		Transmission: c.QueryParam("transmission"),
	}

	if v := c.QueryParam("min_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("invalid min_year")
		}
		filter.MinYear = &year
	}
	if v := c.QueryParam("max_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("invalid max_year")
		}
		filter.MaxYear = &year
	}
	if v := c.QueryParam("min_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errors.New("invalid min_price")
		}
		filter.MinPrice = &price
	}
	if v := c.QueryParam("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errors.New("invalid max_price")
		}
		filter.MaxPrice = &price
	}
	if v := c.QueryParam("status"); v != "" {
		status := model.VehicleStatus(v)
		if !status.Valid() {
			return filter, errors.New("invalid status")
		}
		filter.Status = &status
	}

	filter.Page, filter.PageSize = parsePaging(c)
	return filter, nil
}

func parsePaging(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && v > 0 && v <= maxPageSize {
		pageSize = v
	}
	return page, pageSize
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
