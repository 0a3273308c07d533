package handler

import (
	"context"
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

// IdempotencyKeyHeader lets clients retry money movements safely
const IdempotencyKeyHeader = "Idempotency-Key"

// PotHandler handles pot-related HTTP requests
type PotHandler struct {
	potService *service.PotService
}

// NewPotHandler creates a new PotHandler
func NewPotHandler(potService *service.PotService) *PotHandler {
	return &PotHandler{potService: potService}
}

// CreatePotRequest represents the create pot request body
type CreatePotRequest struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Theme  string `json:"theme"`
}

// UpdatePotRequest represents the update pot request body
type UpdatePotRequest struct {
	Name   *string `json:"name,omitempty"`
	Target *string `json:"target,omitempty"`
	Theme  *string `json:"theme,omitempty"`
}

// PotTransferRequest represents a deposit or withdraw request body
type PotTransferRequest struct {
	Amount string `json:"amount"`
}

// CreatePot godoc
// @Summary Create a pot
// @Description Create a savings pot with a zero starting total
// @Tags pots
// @Accept json
// @Produce json
// @Param request body CreatePotRequest true "Pot creation request"
// @Success 201 {object} domain.Pot
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /pots [post]
func (h *PotHandler) CreatePot(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	var req CreatePotRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	target, err := decimal.NewFromString(req.Target)
	if err != nil {
		return NewValidationError(c, "Invalid target", []ValidationError{
			{Field: "target", Message: "Must be a valid decimal number"},
		})
	}

	pot, err := h.potService.CreatePot(c.Request().Context(), userID, service.CreatePotInput{
		Name:   req.Name,
		Target: target,
		Theme:  domain.Theme(req.Theme),
	})
	if err != nil {
		return potErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, pot)
}

// GetPots godoc
// @Summary List pots
// @Description List all pots for the current user
// @Tags pots
// @Produce json
// @Success 200 {array} domain.Pot
// @Failure 401 {object} ProblemDetails
// @Router /pots [get]
func (h *PotHandler) GetPots(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	pots, err := h.potService.GetPots(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list pots")
		return NewInternalError(c, "Failed to list pots")
	}

	return c.JSON(http.StatusOK, pots)
}

// UpdatePot godoc
// @Summary Update a pot
// @Description Update pot name, target or theme. The total can only change through deposits and withdrawals.
// @Tags pots
// @Accept json
// @Produce json
// @Param id path int true "Pot ID"
// @Param request body UpdatePotRequest true "Pot update request"
// @Success 200 {object} domain.Pot
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /pots/{id} [put]
func (h *PotHandler) UpdatePot(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid pot ID", nil)
	}

	var req UpdatePotRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdatePotInput{Name: req.Name}

	if req.Target != nil {
		target, err := decimal.NewFromString(*req.Target)
		if err != nil {
			return NewValidationError(c, "Invalid target", []ValidationError{
				{Field: "target", Message: "Must be a valid decimal number"},
			})
		}
		input.Target = &target
	}

	if req.Theme != nil {
		theme := domain.Theme(*req.Theme)
		input.Theme = &theme
	}

	pot, err := h.potService.UpdatePot(c.Request().Context(), userID, id, input)
	if err != nil {
		return potErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, pot)
}

// DeletePot godoc
// @Summary Delete a pot
// @Description Delete a pot and return its saved total to the main balance
// @Tags pots
// @Produce json
// @Param id path int true "Pot ID"
// @Success 200 {object} service.DeletePotResult
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /pots/{id} [delete]
func (h *PotHandler) DeletePot(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid pot ID", nil)
	}

	result, err := h.potService.DeletePot(c.Request().Context(), userID, id)
	if err != nil {
		return potErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// Deposit godoc
// @Summary Deposit into a pot
// @Description Move money from the main balance into a pot. Supports the Idempotency-Key header for safe retries.
// @Tags pots
// @Accept json
// @Produce json
// @Param id path int true "Pot ID"
// @Param Idempotency-Key header string false "Client-chosen key for safe retries"
// @Param request body PotTransferRequest true "Transfer request"
// @Success 200 {object} service.TransferResult
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /pots/{id}/deposit [post]
func (h *PotHandler) Deposit(c echo.Context) error {
	return h.transfer(c, h.potService.Deposit)
}

// Withdraw godoc
// @Summary Withdraw from a pot
// @Description Move money from a pot back to the main balance. Supports the Idempotency-Key header for safe retries.
// @Tags pots
// @Accept json
// @Produce json
// @Param id path int true "Pot ID"
// @Param Idempotency-Key header string false "Client-chosen key for safe retries"
// @Param request body PotTransferRequest true "Transfer request"
// @Success 200 {object} service.TransferResult
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 422 {object} ProblemDetails
// @Router /pots/{id}/withdraw [post]
func (h *PotHandler) Withdraw(c echo.Context) error {
	return h.transfer(c, h.potService.Withdraw)
}

type transferFunc func(ctx context.Context, userID uuid.UUID, potID int32, amount decimal.Decimal, idempotencyKey *string) (*service.TransferResult, error)

func (h *PotHandler) transfer(c echo.Context, move transferFunc) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid pot ID", nil)
	}

	var req PotTransferRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var idempotencyKey *string
	if key := c.Request().Header.Get(IdempotencyKeyHeader); key != "" {
		idempotencyKey = &key
	}

	result, err := move(c.Request().Context(), userID, id, amount, idempotencyKey)
	if err != nil {
		return potErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// potErrorResponse maps service errors to problem responses
func potErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidTheme):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "theme", Message: "Unknown theme"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrAmountTooLarge):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount exceeds the supported maximum"},
		})
	case errors.Is(err, domain.ErrInsufficientPotFunds):
		return NewUnprocessableError(c, "The pot does not hold enough funds")
	case errors.Is(err, domain.ErrDuplicateRequest):
		return NewConflictError(c, "This idempotency key was already used by a conflicting request")
	case errors.Is(err, domain.ErrPotNotFound):
		return NewNotFoundError(c, "Pot not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return NewNotFoundError(c, "User not found")
	case errors.Is(err, domain.ErrTransferFailed):
		return NewInternalError(c, "The transfer could not be completed consistently")
	case errors.Is(err, domain.ErrStoreUnavailable):
		return NewUnavailableError(c)
	default:
		log.Error().Err(err).Msg("Pot operation failed")
		return NewInternalError(c, "Pot operation failed")
	}
}
