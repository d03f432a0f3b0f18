package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/flight-search/flight-offer-engine/internal/adapter/http/middleware"
	"github.com/flight-search/flight-offer-engine/internal/adapter/http/response"
	"github.com/flight-search/flight-offer-engine/internal/domain"
	"github.com/flight-search/flight-offer-engine/internal/usecase"
)

// APIVersion is the version of the HTTP API, reported by /health and the API docs.
const APIVersion = "1.0.0"

// OfferHandler handles HTTP requests for offer filtering endpoints.
type OfferHandler struct {
	useCase        usecase.OfferSearchUseCase
	defaultProfile domain.Profile
}

// NewOfferHandler creates a new OfferHandler. defaultProfile is used for requests
// that do not name a profile.
func NewOfferHandler(uc usecase.OfferSearchUseCase, defaultProfile domain.Profile) *OfferHandler {
	return &OfferHandler{
		useCase:        uc,
		defaultProfile: defaultProfile,
	}
}

// FilterOffers handles POST /api/v1/offers/filter
//
// @Summary Filter supplier offers
// @Description Normalize raw supplier offers and run them through a filter profile
// @Tags offers
// @Accept json
// @Produce json
// @Param request body FilterOffersRequest true "Filter context and raw offer batches"
// @Success 200 {object} usecase.FilterResult
// @Failure 400 {object} response.ErrorDetail "Validation error or unknown profile"
// @Failure 422 {object} response.ErrorDetail "Offers cannot be compared"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/offers/filter [post]
func (h *OfferHandler) FilterOffers(c echo.Context) error {
	var req FilterOffersRequest

	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	result, err := h.useCase.Filter(c.Request().Context(), ToFilterRequest(&req, h.defaultProfile))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.FilterResults(c, result)
}

// handleValidationError handles envelope validation errors and returns a 400 response.
func (h *OfferHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps engine errors to HTTP responses.
func (h *OfferHandler) handleError(c echo.Context, err error) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return response.ValidationError(c, map[string]string{validationErr.Field: validationErr.Message})
	}

	var configErr *domain.ConfigurationError
	if errors.As(err, &configErr) {
		return response.InvalidProfile(c, configErr.Profile)
	}

	if errors.Is(err, domain.ErrInvalidOffer) {
		return response.InvalidOffer(c, err.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return response.GatewayTimeout(c)
	}

	if errors.Is(err, context.Canceled) {
		return response.RequestCancelled(c)
	}

	middleware.LoggerFrom(c).Error().Err(err).Msg("filter failed")
	return response.InternalServerError(c)
}

// Health handles GET /health
//
// @Summary Health check
// @Description Report service status and the filter profile definitions version
// @Tags operations
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (h *OfferHandler) Health(c echo.Context) error {
	return response.Health(c, APIVersion, usecase.ProfileVersion)
}
