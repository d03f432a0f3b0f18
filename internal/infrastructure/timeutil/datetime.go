package timeutil

import (
	"fmt"
	"time"
)

// supplierLayouts are tried in order. Suppliers send local wall-clock times, with or
// without an offset and with or without seconds.
var supplierLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseSupplierDateTime parses an ISO 8601 datetime as sent by flight suppliers.
// Values without an offset are read as UTC wall-clock time so that comparisons between
// offers departing the same airport stay consistent.
func ParseSupplierDateTime(value string) (time.Time, error) {
	for _, layout := range supplierLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse datetime %q", value)
}
