package domain

import "strings"

// Profile names a fixed, ordered set of filter stages.
type Profile string

// Known profiles.
const (
	// ProfileStandard is the search profile: trip shape, nonstop, budget.
	ProfileStandard Profile = "standard"

	// ProfileAutobook adds dedup and ranking so callers can take the head as the best offer.
	ProfileAutobook Profile = "autobook"

	// ProfileFlexible allows one stop and ranks the survivors.
	ProfileFlexible Profile = "flexible"
)

// Profiles lists every known profile in a stable order.
func Profiles() []Profile {
	return []Profile{ProfileStandard, ProfileAutobook, ProfileFlexible}
}

// IsValid checks if the profile is one of the known values.
func (p Profile) IsValid() bool {
	switch p {
	case ProfileStandard, ProfileAutobook, ProfileFlexible:
		return true
	default:
		return false
	}
}

// ParseProfile converts a string to a Profile. Unlike sort options, unknown or empty
// names never fall back to a default; they return a *ConfigurationError.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", &ConfigurationError{Profile: s, Message: "unknown profile"}
	}
	return p, nil
}
