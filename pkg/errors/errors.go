// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Screening errors
var (
	ErrPartyNameRequired  = errors.New("party name is required")
	ErrShipperRequired    = errors.New("shipper party is required")
	ErrConsigneeRequired  = errors.New("consignee party is required")
	ErrGatewayUnavailable = errors.New("screening list gateway unavailable")
	ErrMissingAPIKey      = errors.New("screening list api key not configured")
	ErrMalformedResponse  = errors.New("malformed screening list response")
)

// Customs errors
var (
	ErrTariffLookupFailed = errors.New("tariff classification lookup failed")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
