// Package normalize holds the helpers every provider adapter shares: money parsing,
// ISO 8601 durations, carry-on detection and the carry-on pricing formula.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// carryOnPattern matches supplier wording for a cabin bag ancillary.
var carryOnPattern = regexp.MustCompile(`(?i)carry[ _-]?on(?:[ _-]?bag)?|cabin[ _-]?bag`)

// isoDurationPattern matches durations like "PT2H10M", "PT02H26M" or "P1DT2H".
var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// IsCarryOn reports whether a supplier baggage type or service description refers to
// a carry-on bag.
func IsCarryOn(s string) bool {
	return carryOnPattern.MatchString(s)
}

// ParseAmount parses a supplier money string. Empty, non-numeric and negative values
// are rejected; price fields never default to zero.
func ParseAmount(value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return decimal.Decimal{}, fmt.Errorf("missing amount")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", value)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative amount %q", value)
	}
	return d, nil
}

// ParseISODuration parses the ISO 8601 duration subset suppliers use for flight times.
func ParseISODuration(value string) (time.Duration, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", value)
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO 8601 duration %q", value)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}

// CarryOnPricing is the carry-on determination an adapter extracted from a raw offer.
type CarryOnPricing struct {
	Included bool
	Fee      decimal.NullDecimal
	Scope    domain.FeeScope
}

// TotalWithCarryOn applies the comparable-price formula:
//
//	included          -> base
//	fee, per passenger -> base + fee × passengers
//	fee, per offer     -> base + fee
//	no fee            -> base
func TotalWithCarryOn(base decimal.Decimal, c CarryOnPricing, passengers int) decimal.Decimal {
	if c.Included || !c.Fee.Valid {
		return base
	}
	if c.Scope == domain.FeeScopePerOffer {
		return base.Add(c.Fee.Decimal)
	}
	return base.Add(c.Fee.Decimal.Mul(decimal.NewFromInt(int64(passengers))))
}

// Apply freezes the carry-on fields and comparable price onto o.
func Apply(o *domain.Offer, c CarryOnPricing, passengers int) {
	o.CarryOnIncluded = c.Included
	if !c.Included && c.Fee.Valid {
		o.CarryOnFee = c.Fee
		o.CarryOnFeeScope = c.Scope
	}
	o.TotalPriceWithCarryOn = TotalWithCarryOn(o.TotalBasePrice, c, passengers)
}

// Recover converts a panic raised while normalizing one record into a
// NormalizationError. Use as: defer normalize.Recover(provider, &offerID, &err).
func Recover(provider domain.Provider, offerID *string, err *error) {
	if r := recover(); r != nil {
		*err = domain.NewNormalizationError(provider, *offerID, "$", fmt.Sprintf("panic: %v", r))
	}
}
