package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrPotNotFound          = errors.New("pot not found")
	ErrBudgetNotFound       = errors.New("budget not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrBillNotFound         = errors.New("recurring bill not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum")
	ErrInsufficientPotFunds = errors.New("insufficient pot funds")
	ErrAlreadyPaid          = errors.New("bill already paid this period")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidTheme         = errors.New("invalid theme")
	ErrInvalidSort          = errors.New("invalid sort option")
	ErrInvalidDueDay        = errors.New("invalid due day")
	ErrBudgetExists         = errors.New("budget already exists for category")
	ErrTransferFailed       = errors.New("transfer failed and could not be compensated")
	ErrDuplicateRequest     = errors.New("duplicate request")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
)

// Validation constants
const (
	MaxNameLength = 255
)
