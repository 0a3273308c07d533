package handler

import (
	"errors"
	"net/http"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the create and update budget request body
type BudgetRequest struct {
	Category string `json:"category"`
	Maximum  string `json:"maximum"`
	Theme    string `json:"theme"`
}

// CreateBudget godoc
// @Summary Create a budget
// @Description Create a spending budget for a category. One budget per category.
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body BudgetRequest true "Budget creation request"
// @Success 201 {object} domain.Budget
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	input, err := h.bindBudgetInput(c)
	if err != nil {
		return err
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), userID, *input)
	if err != nil {
		return budgetErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, budget)
}

// GetBudgets godoc
// @Summary List budgets
// @Description List all budgets with spent, remaining and latest transactions per category
// @Tags budgets
// @Produce json
// @Success 200 {object} domain.BudgetsOverview
// @Failure 401 {object} ProblemDetails
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	overview, err := h.budgetService.Overview(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build budgets overview")
		return NewInternalError(c, "Failed to build budgets overview")
	}

	return c.JSON(http.StatusOK, overview)
}

// UpdateBudget godoc
// @Summary Update a budget
// @Description Update a budget's category, maximum or theme
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path int true "Budget ID"
// @Param request body BudgetRequest true "Budget update request"
// @Success 200 {object} domain.Budget
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	input, err := h.bindBudgetInput(c)
	if err != nil {
		return err
	}

	budget, err := h.budgetService.UpdateBudget(c.Request().Context(), userID, id, *input)
	if err != nil {
		return budgetErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, budget)
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Description Delete a budget. Transactions in its category are not affected.
// @Tags budgets
// @Param id path int true "Budget ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), userID, id); err != nil {
		return budgetErrorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *BudgetHandler) bindBudgetInput(c echo.Context) (*service.CreateBudgetInput, error) {
	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewValidationError(c, "Invalid request body", nil)
	}

	maximum, err := decimal.NewFromString(req.Maximum)
	if err != nil {
		return nil, NewValidationError(c, "Invalid maximum", []ValidationError{
			{Field: "maximum", Message: "Must be a valid decimal number"},
		})
	}

	return &service.CreateBudgetInput{
		Category: domain.Category(req.Category),
		Maximum:  maximum,
		Theme:    domain.Theme(req.Theme),
	}, nil
}

// budgetErrorResponse maps service errors to problem responses
func budgetErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Unknown category"},
		})
	case errors.Is(err, domain.ErrInvalidTheme):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "theme", Message: "Unknown theme"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "maximum", Message: "Maximum must be positive"},
		})
	case errors.Is(err, domain.ErrBudgetExists):
		return NewConflictError(c, "A budget already exists for this category")
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		return NewUnavailableError(c)
	default:
		log.Error().Err(err).Msg("Budget operation failed")
		return NewInternalError(c, "Budget operation failed")
	}
}
