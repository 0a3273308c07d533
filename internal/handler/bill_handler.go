package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BillHandler handles recurring bill HTTP requests
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// CreateBillRequest represents the create bill request body. Amount is the
// positive charge of the bill.
type CreateBillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	DueDay   int32  `json:"dueDay"`
}

// BillsResponse combines the bill list with the period summary
type BillsResponse struct {
	Bills   []*domain.BillWithStatus `json:"bills"`
	Summary *domain.BillsSummary     `json:"summary"`
}

// CreateBill godoc
// @Summary Create a recurring bill
// @Description Create a recurring bill template. Templates never affect the balance until paid.
// @Tags recurring-bills
// @Accept json
// @Produce json
// @Param request body CreateBillRequest true "Bill creation request"
// @Success 201 {object} domain.Bill
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /recurring-bills [post]
func (h *BillHandler) CreateBill(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	var req CreateBillRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	bill, err := h.billService.CreateBill(c.Request().Context(), userID, service.CreateBillInput{
		Name:     req.Name,
		Category: domain.Category(req.Category),
		Amount:   amount,
		DueDay:   req.DueDay,
	})
	if err != nil {
		return billErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, bill)
}

// GetBills godoc
// @Summary List recurring bills
// @Description List recurring bills with their payment status for the current period, plus the period summary
// @Tags recurring-bills
// @Produce json
// @Param search query string false "Case-insensitive name substring"
// @Param sort query string false "Sort option" Enums(latest, oldest, a_to_z, z_to_a, highest, lowest)
// @Success 200 {object} BillsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /recurring-bills [get]
func (h *BillHandler) GetBills(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	filters := &domain.BillFilters{Search: c.QueryParam("search")}
	if sort := c.QueryParam("sort"); sort != "" {
		filters.Sort = domain.SortOption(sort)
	}

	bills, err := h.billService.ListBills(c.Request().Context(), userID, filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSort) {
			return NewValidationError(c, "Invalid sort option", []ValidationError{
				{Field: "sort", Message: "Must be one of: latest, oldest, a_to_z, z_to_a, highest, lowest"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list bills")
		return NewInternalError(c, "Failed to list bills")
	}

	summary, err := h.billService.Summary(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to summarize bills")
		return NewInternalError(c, "Failed to summarize bills")
	}

	return c.JSON(http.StatusOK, BillsResponse{Bills: bills, Summary: summary})
}

// PayBill godoc
// @Summary Pay a recurring bill
// @Description Pay a bill for the current period. Paying twice in one period returns a conflict.
// @Tags recurring-bills
// @Produce json
// @Param id path int true "Bill ID"
// @Success 200 {object} service.PayResult
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /recurring-bills/{id}/pay [post]
func (h *BillHandler) PayBill(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return NewValidationError(c, "Invalid bill ID", nil)
	}

	result, err := h.billService.Pay(c.Request().Context(), userID, int32(id))
	if err != nil {
		return billErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// billErrorResponse maps service errors to problem responses
func billErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Unknown category"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrAmountTooLarge):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount exceeds the supported maximum"},
		})
	case errors.Is(err, domain.ErrInvalidDueDay):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dueDay", Message: "Due day must be between 1 and 31"},
		})
	case errors.Is(err, domain.ErrAlreadyPaid):
		return NewConflictError(c, "This bill is already paid for the current period")
	case errors.Is(err, domain.ErrBillNotFound):
		return NewNotFoundError(c, "Bill not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return NewNotFoundError(c, "User not found")
	case errors.Is(err, domain.ErrTransferFailed):
		return NewInternalError(c, "The payment could not be completed consistently")
	case errors.Is(err, domain.ErrStoreUnavailable):
		return NewUnavailableError(c)
	default:
		log.Error().Err(err).Msg("Bill operation failed")
		return NewInternalError(c, "Bill operation failed")
	}
}
