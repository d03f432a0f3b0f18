package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by filter parameters.
const DateLayout = "2006-01-02"

// FilterParams is the raw, unvalidated description of a search as handed over by a host.
type FilterParams struct {
	// Origin is the IATA code of the departure airport (e.g., "JFK")
	Origin string `json:"originLocationCode" validate:"required,iata"`

	// Destination is the IATA code of the arrival airport (e.g., "LHR")
	Destination string `json:"destinationLocationCode" validate:"required,iata,nefield=Origin"`

	// DepartureDate is the outbound date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate" validate:"required,datetime=2006-01-02"`

	// ReturnDate is the inbound date in YYYY-MM-DD format; empty for one-way searches
	ReturnDate string `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// Passengers is the number of travellers prices are scaled for
	Passengers int `json:"passengers" validate:"gte=1,lte=9"`

	// Budget is the ceiling for TotalPriceWithCarryOn, in Currency
	Budget decimal.Decimal `json:"budget"`

	// Currency is the ISO 4217 code of Budget
	Currency string `json:"currency" validate:"required,iso4217"`

	// NonstopRequired restricts results to offers without intermediate stops
	NonstopRequired bool `json:"nonstopRequired"`
}

// FilterContext is the validated, immutable snapshot of a search. Build it with
// NewFilterContext; it is safe to share between goroutines.
type FilterContext struct {
	origin          string
	destination     string
	departureDate   time.Time
	returnDate      time.Time
	hasReturn       bool
	passengers      int
	budget          decimal.Decimal
	currency        string
	nonstopRequired bool
}

var iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// paramsValidator is built once; validator.Validate is safe for concurrent use.
var paramsValidator = newParamsValidator()

func newParamsValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("iata", func(fl validator.FieldLevel) bool {
		return iataPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// NewFilterContext validates params and returns the immutable context.
// Any failure is a *ValidationError naming the first offending field.
func NewFilterContext(p FilterParams) (*FilterContext, error) {
	if err := paramsValidator.Struct(p); err != nil {
		return nil, toValidationError(err)
	}

	if !p.Budget.IsPositive() {
		return nil, NewValidationError("budget", "budget must be greater than zero")
	}

	departure, err := time.Parse(DateLayout, p.DepartureDate)
	if err != nil {
		return nil, NewValidationError("departureDate", "departureDate is not a valid date")
	}

	fc := &FilterContext{
		origin:          p.Origin,
		destination:     p.Destination,
		departureDate:   departure,
		passengers:      p.Passengers,
		budget:          p.Budget,
		currency:        p.Currency,
		nonstopRequired: p.NonstopRequired,
	}

	if p.ReturnDate != "" {
		ret, err := time.Parse(DateLayout, p.ReturnDate)
		if err != nil {
			return nil, NewValidationError("returnDate", "returnDate is not a valid date")
		}
		if ret.Before(departure) {
			return nil, NewValidationError("returnDate", "returnDate must not be before departureDate")
		}
		fc.returnDate = ret
		fc.hasReturn = true
	}

	return fc, nil
}

// toValidationError maps the first validator failure to a domain ValidationError.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError("context", err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = field + " is required"
	case "iata":
		msg = field + " must be a valid 3-letter uppercase IATA code"
	case "nefield":
		msg = "originLocationCode and destinationLocationCode must be different"
	case "datetime":
		msg = field + " must be in YYYY-MM-DD format"
	case "gte":
		msg = field + " must be at least " + fe.Param()
	case "lte":
		msg = field + " cannot exceed " + fe.Param()
	case "iso4217":
		msg = field + " must be an ISO 4217 currency code"
	default:
		msg = fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
	return NewValidationError(field, msg)
}

// Origin returns the departure airport code.
func (c *FilterContext) Origin() string { return c.origin }

// Destination returns the arrival airport code.
func (c *FilterContext) Destination() string { return c.destination }

// DepartureDate returns the outbound calendar date (UTC midnight).
func (c *FilterContext) DepartureDate() time.Time { return c.departureDate }

// ReturnDate returns the inbound calendar date and whether one was requested.
func (c *FilterContext) ReturnDate() (time.Time, bool) { return c.returnDate, c.hasReturn }

// HasReturnDate reports whether the search asked for an inbound leg.
func (c *FilterContext) HasReturnDate() bool { return c.hasReturn }

// Passengers returns the traveller count.
func (c *FilterContext) Passengers() int { return c.passengers }

// Budget returns the price ceiling.
func (c *FilterContext) Budget() decimal.Decimal { return c.budget }

// Currency returns the ISO 4217 code all comparisons use.
func (c *FilterContext) Currency() string { return c.currency }

// NonstopRequired reports whether only offers without stops are eligible.
func (c *FilterContext) NonstopRequired() bool { return c.nonstopRequired }

// Params returns the context in its input form, for echoing back to callers.
func (c *FilterContext) Params() FilterParams {
	p := FilterParams{
		Origin:          c.origin,
		Destination:     c.destination,
		DepartureDate:   c.departureDate.Format(DateLayout),
		Passengers:      c.passengers,
		Budget:          c.budget,
		Currency:        c.currency,
		NonstopRequired: c.nonstopRequired,
	}
	if c.hasReturn {
		p.ReturnDate = c.returnDate.Format(DateLayout)
	}
	return p
}
