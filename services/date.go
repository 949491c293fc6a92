package services

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire and form format of date-only fields
const DateLayout = "2006-01-02"

// ParseDate parses a date string in the HTML5 date input format (YYYY-MM-DD)
func ParseDate(dateStr string) (time.Time, error) {
	parsedTime, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// parseDateField parses a date that already passed validation
func parseDateField(dateStr string) datatypes.Date {
	t, _ := ParseDate(dateStr)
	return datatypes.Date(t)
}

// FormatDate renders a date-only field as YYYY-MM-DD
func FormatDate(d datatypes.Date) string {
	t := time.Time(d)
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatOptionalDate renders an optional date-only field, empty when unset
func FormatOptionalDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return FormatDate(*d)
}
