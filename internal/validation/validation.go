package validation

import (
	"regexp"
	"strings"
	"time"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func RequiredDate(field string, value time.Time, v Violations) {
	if value.IsZero() {
		v[field] = "required"
	}
}

func NonNegativePence(field string, val *int64, v Violations) {
	if val != nil && *val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// Royal Mail postcode format, plus the BFPO and GIR 0AA special cases.
var postcodeRe = regexp.MustCompile(`^([A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}|BFPO\s?\d{1,4}|GIR\s?0AA)$`)

// UKPostcode validates the postcode format. Empty values pass: the
// field itself is optional, only its shape is checked.
func UKPostcode(field, value string, v Violations) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return
	}
	if !postcodeRe.MatchString(trimmed) {
		v[field] = "invalid_postcode"
	}
}

// FormatPostcode normalizes a postcode to upper case with the single
// canonical space before the three-character inward code,
// e.g. "sw1a1aa" becomes "SW1A 1AA". Call only on validated input.
func FormatPostcode(value string) string {
	compact := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(value)), " ", "")
	if len(compact) > 3 {
		return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
	}
	return compact
}
