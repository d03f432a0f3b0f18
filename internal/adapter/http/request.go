// Package http provides the HTTP host for the offer filtering engine.
// It handles request parsing, structural validation, response formatting, and error mapping.
package http

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// FilterOffersRequest represents the request body for POST /api/v1/offers/filter.
type FilterOffersRequest struct {
	// Profile is the filter profile name; empty selects the configured default
	Profile string `json:"profile,omitempty"`

	// Context is the search the offers are filtered against
	Context *domain.FilterParams `json:"context"`

	// Batches groups raw offers by the supplier that produced them
	Batches []BatchDTO `json:"batches"`
}

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate checks the envelope shape. Field-level checks of the search context and of
// each raw offer belong to the engine and are not repeated here.
func (r *FilterOffersRequest) Validate() error {
	errs := &ValidationErrors{}

	if r.Context == nil {
		errs.Add("context", "context is required")
	}

	if r.Batches == nil {
		errs.Add("batches", "batches is required")
	}

	for i, b := range r.Batches {
		field := fmt.Sprintf("batches[%d]", i)
		if strings.TrimSpace(b.Provider) == "" {
			errs.Add(field+".provider", "provider is required")
		}
		for j, raw := range b.Offers {
			trimmed := bytes.TrimSpace(raw)
			if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
				errs.Add(fmt.Sprintf("%s.offers[%d]", field, j), "offer must not be null")
			}
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
