package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrOrganisationNotFound = errors.New("organisation not found")
	ErrHouseNotFound        = errors.New("house not found")
	ErrResidentNotFound     = errors.New("resident not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrContractNotFound     = errors.New("funding contract not found")
	ErrAutomationNotFound   = errors.New("automation not found")
	ErrInvalidTimezone      = errors.New("invalid timezone")
)
