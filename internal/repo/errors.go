package repo

import (
	"errors"
	"sort"
	"strings"

	"sweepcrm/internal/validation"
)

// ErrNotFound is returned when a row, or a required parent row, does
// not exist. Update/Delete report a missing target as zero rows changed
// instead.
var ErrNotFound = errors.New("record not found")

// ValidationError carries per-field violations for a rejected write.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// ConstraintError wraps a store-level constraint violation (foreign key
// or uniqueness). The surrounding transaction has already rolled back.
type ConstraintError struct {
	Err error
}

func (e *ConstraintError) Error() string { return "constraint violated: " + e.Err.Error() }
func (e *ConstraintError) Unwrap() error { return e.Err }

// translate maps raw store errors to the repository taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "constraint") || strings.Contains(msg, "duplicate") {
		return &ConstraintError{Err: err}
	}
	return err
}
