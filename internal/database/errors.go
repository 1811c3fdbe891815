package database

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound     = errors.New("user holdings not found")
	ErrAssetNotFound       = errors.New("asset not found in user holdings")
	ErrInstitutionNotFound = errors.New("institution not found")
	ErrInstitutionExists   = errors.New("institution already registered")
)

// InsufficientFundsError reports a value-denominated sufficiency failure,
// carrying the figures the client needs to correct the request.
type InsufficientFundsError struct {
	AssetSymbol string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient holdings for %s: available %s, requested %s",
		e.AssetSymbol, e.Available.String(), e.Requested.String())
}
