package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cardealer/internal/service"
)

// CustomerHandler handles the admin-only customer views.
type CustomerHandler struct {
	customerService service.CustomerService
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List godoc
// @Summary List customers (admin)
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	page, pageSize := parsePaging(c)

	customers, total, err := h.customerService.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ok("Customers retrieved successfully",
		NewPagedResponse(customers, page, pageSize, total)))
}

// Get godoc
// @Summary Get customer by id (admin)
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid customer id"))
	}

	customer, err := h.customerService.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ok("Customer retrieved successfully", customer))
}
