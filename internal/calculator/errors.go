package calculator

import (
	"errors"
	"fmt"
	"time"
)

// ConfigurationError reports input that can never produce a result:
// an empty universe or pair list, a malformed pair, a unit outside the
// universe, misaligned series, or a window outside the available dates.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ComputationError reports a price that cannot produce a finite return.
type ComputationError struct {
	Pair   string
	Index  int
	Date   time.Time
	Price  float64
	Reason string // empty means the price itself is not positive and finite
}

func (e *ComputationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "non-positive price"
	}
	return fmt.Sprintf("computation error: pair %s at index %d (%s): %s, price %g",
		e.Pair, e.Index, e.Date.Format("2006-01-02"), reason, e.Price)
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsComputationError reports whether err wraps a *ComputationError.
func IsComputationError(err error) bool {
	var ce *ComputationError
	return errors.As(err, &ce)
}
