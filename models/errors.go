package models

import "errors"

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrEmailTaken       = errors.New("email address already registered")

	ErrInvalidBetAmount    = errors.New("invalid bet amount")
	ErrInvalidOdds         = errors.New("odds out of allowed range")
	ErrInvalidBetType      = errors.New("invalid bet type")
	ErrInvalidBetStatus    = errors.New("invalid bet status")
	ErrInvalidSystemType   = errors.New("invalid system type")
	ErrBetAlreadySettled   = errors.New("bet is already settled")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNegativeBalance     = errors.New("balance cannot be negative")

	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrTransactionNotPending    = errors.New("transaction is not pending")

	ErrInvalidPaymentMethodType = errors.New("invalid payment method type")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")

	ErrRecordNotFound = errors.New("record not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
)
