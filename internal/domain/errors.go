package domain

import "errors"

// Sentinel errors shared across repository implementations and services.
// Handlers map these onto HTTP status codes.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrPositionNotFound     = errors.New("loan position not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrUnsupportedCurrency  = errors.New("unsupported currency")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
	ErrRepayExceedsDebt     = errors.New("repayment exceeds borrowed amount")
	ErrMissingPositionName  = errors.New("position name is required")
	ErrNoSample             = errors.New("no price sample")
)
