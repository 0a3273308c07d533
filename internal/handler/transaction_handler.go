package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Amount    string  `json:"amount"`
	Date      *string `json:"date,omitempty"`
	Recurring bool    `json:"recurring"`
}

// CreateTransactionResponse wraps a created transaction with the balance it
// produced
type CreateTransactionResponse struct {
	Transaction *domain.Transaction `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"newBalance"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record an income (positive amount) or expense (negative amount) and apply it to the balance
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} CreateTransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var transactionDate *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		transactionDate = &parsed
	}

	input := service.CreateTransactionInput{
		Name:            req.Name,
		Category:        domain.Category(req.Category),
		Amount:          amount,
		TransactionDate: transactionDate,
		Recurring:       req.Recurring,
	}

	transaction, newBalance, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, input)
	if err != nil {
		return transactionErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, CreateTransactionResponse{
		Transaction: transaction,
		NewBalance:  newBalance,
	})
}

// GetTransactions godoc
// @Summary List transactions
// @Description List transactions with search, category filter, sorting and pagination
// @Tags transactions
// @Produce json
// @Param search query string false "Case-insensitive name substring"
// @Param category query string false "Category filter"
// @Param sort query string false "Sort option" Enums(latest, oldest, a_to_z, z_to_a, highest, lowest)
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} domain.PaginatedTransactions
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	filters := &domain.TransactionFilters{
		Search: c.QueryParam("search"),
	}

	if sort := c.QueryParam("sort"); sort != "" {
		filters.Sort = domain.SortOption(sort)
	}

	if category := c.QueryParam("category"); category != "" {
		cat := domain.Category(category)
		filters.Category = &cat
	}

	if page := c.QueryParam("page"); page != "" {
		parsed, err := strconv.ParseInt(page, 10, 32)
		if err != nil || parsed < 1 {
			return NewValidationError(c, "Invalid page", []ValidationError{
				{Field: "page", Message: "Must be a positive integer"},
			})
		}
		filters.Page = int32(parsed)
	}

	if pageSize := c.QueryParam("pageSize"); pageSize != "" {
		parsed, err := strconv.ParseInt(pageSize, 10, 32)
		if err != nil || parsed < 1 {
			return NewValidationError(c, "Invalid pageSize", []ValidationError{
				{Field: "pageSize", Message: "Must be a positive integer"},
			})
		}
		filters.PageSize = int32(parsed)
	}

	result, err := h.transactionService.GetTransactions(c.Request().Context(), userID, filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSort) {
			return NewValidationError(c, "Invalid sort option", []ValidationError{
				{Field: "sort", Message: "Must be one of: latest, oldest, a_to_z, z_to_a, highest, lowest"},
			})
		}
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, "Invalid category", []ValidationError{
				{Field: "category", Message: "Unknown category"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	return c.JSON(http.StatusOK, result)
}

// DeleteTransactionResponse carries the balance after a reversal
type DeleteTransactionResponse struct {
	NewBalance decimal.Decimal `json:"newBalance"`
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Delete a transaction and reverse its effect on the balance
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} DeleteTransactionResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Identity required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	newBalance, err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, id)
	if err != nil {
		return transactionErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, DeleteTransactionResponse{NewBalance: newBalance})
}

// transactionErrorResponse maps service errors to problem responses
func transactionErrorResponse(c echo.Context, err error) error {
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
			{Field: "amount", Message: "Amount must be non-zero"},
		})
	case errors.Is(err, domain.ErrAmountTooLarge):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount exceeds the supported maximum"},
		})
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return NewNotFoundError(c, "User not found")
	case errors.Is(err, domain.ErrTransferFailed):
		return NewInternalError(c, "The operation could not be completed consistently")
	case errors.Is(err, domain.ErrStoreUnavailable):
		return NewUnavailableError(c)
	default:
		log.Error().Err(err).Msg("Transaction operation failed")
		return NewInternalError(c, "Transaction operation failed")
	}
}

// parseIDParam parses the :id path parameter
func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return int32(id), nil
}
