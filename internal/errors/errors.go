// Package errors provides the application error taxonomy. All service-layer
// errors surface as an AppError so that responses stay consistent and never
// leak internal detail: a storage failure reaches the client as an opaque
// internal error, and a resource owned by another user is indistinguishable
// from one that does not exist.
package errors

import "net/http"

// AppError is a structured application error with a stable code, a
// user-facing message, an HTTP status, and an optional wrapped internal
// error that is logged but never serialized.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for errors.Is/As chains.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel carrying internal as the wrapped cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// ErrQuotaExceeded is returned when a plan limit blocks a creation. Services
// attach a resource-specific upgrade prompt via WithMessage.
var ErrQuotaExceeded = &AppError{Code: "QUOTA_EXCEEDED", Message: "Plan limit reached. Upgrade to unlock more.", StatusCode: http.StatusForbidden}

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Resource errors. Absent and not-owned both map to the same code so the
// response never confirms the existence of another user's resource.
var (
	ErrPortfolioNotFound   = &AppError{Code: "PORTFOLIO_NOT_FOUND", Message: "Portfolio not found", StatusCode: http.StatusNotFound}
	ErrInvestmentNotFound  = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "Investment not found", StatusCode: http.StatusNotFound}
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrLoanNotFound        = &AppError{Code: "LOAN_NOT_FOUND", Message: "Loan not found", StatusCode: http.StatusNotFound}
	ErrGoalNotFound        = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
)

// Portfolio errors.
var (
	ErrDefaultPortfolio = &AppError{Code: "DEFAULT_PORTFOLIO", Message: "The default portfolio cannot be deleted", StatusCode: http.StatusBadRequest}
)
