package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to one of these so callers can use errors.Is.
var (
	// ErrValidation indicates a malformed filter context or request (caller's fault).
	ErrValidation = errors.New("validation failed")

	// ErrNormalization indicates a raw supplier record could not be mapped to an Offer.
	ErrNormalization = errors.New("offer normalization failed")

	// ErrCurrencyMismatch indicates an offer amount cannot be compared to the context currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrConfiguration indicates an unknown pipeline profile or stage wiring.
	ErrConfiguration = errors.New("invalid pipeline configuration")

	// ErrInvalidOffer indicates an offer that no stage can reason about
	// (no currency, negative amount, no itineraries). It aborts the pipeline run.
	ErrInvalidOffer = errors.New("incommensurable offer")
)

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NormalizationError identifies a raw offer that could not be normalized and the
// field path that caused it.
type NormalizationError struct {
	Provider Provider
	OfferID  string
	Path     string
	Reason   string
}

// NewNormalizationError creates a NormalizationError for the given field path.
func NewNormalizationError(provider Provider, offerID, path, reason string) *NormalizationError {
	return &NormalizationError{
		Provider: provider,
		OfferID:  offerID,
		Path:     path,
		Reason:   reason,
	}
}

// Error implements the error interface.
func (e *NormalizationError) Error() string {
	id := e.OfferID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("normalize %s offer %s: %s: %s", e.Provider, id, e.Path, e.Reason)
}

// Unwrap returns ErrNormalization.
func (e *NormalizationError) Unwrap() error {
	return ErrNormalization
}

// CurrencyMismatchError is recorded when an offer is priced in a currency other than
// the one the search budget is expressed in.
type CurrencyMismatchError struct {
	OfferID         string
	OfferCurrency   string
	ContextCurrency string
}

// Error implements the error interface.
func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("offer %s priced in %s, budget in %s", e.OfferID, e.OfferCurrency, e.ContextCurrency)
}

// Unwrap returns ErrCurrencyMismatch.
func (e *CurrencyMismatchError) Unwrap() error {
	return ErrCurrencyMismatch
}

// ConfigurationError is returned for an unknown profile name.
type ConfigurationError struct {
	Profile string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("profile %q: %s", e.Profile, e.Message)
}

// Unwrap returns ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// WrapInvalidOffer wraps ErrInvalidOffer with formatted context.
func WrapInvalidOffer(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidOffer, fmt.Sprintf(format, args...))
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNormalization checks if the error is a normalization error.
func IsNormalization(err error) bool {
	return errors.Is(err, ErrNormalization)
}

// IsCurrencyMismatch checks if the error is a currency mismatch error.
func IsCurrencyMismatch(err error) bool {
	return errors.Is(err, ErrCurrencyMismatch)
}

// IsConfiguration checks if the error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsInvalidOffer checks if the error aborted a pipeline run on incommensurable input.
func IsInvalidOffer(err error) bool {
	return errors.Is(err, ErrInvalidOffer)
}
