// Package money validates monetary amounts submitted to the API.
//
// Amounts are integer minor units (paise). The server never converts major
// units to minor units: a fractional value is rejected outright instead of
// being multiplied by 100, so unit conversion stays on the client.
package money

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Error values double as user-facing messages in the 400 response body.
var (
	ErrRequired   = errors.New("Amount is required")
	ErrNotANumber = errors.New("Amount must be a valid number")
	ErrNegative   = errors.New("Amount must be non-negative")
	ErrFractional = errors.New("Amount must be provided in paise (integer). For ₹50.50, send 5050")
)

// Normalize validates a raw JSON amount field and returns the non-negative
// integer minor-unit value. Numeric strings are accepted ("5050" behaves
// like 5050); anything fractional, negative or non-numeric is an error.
func Normalize(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, ErrRequired
	}

	// A quoted value is coerced the way the client would expect: "5050" is
	// fine, "abc" is not.
	if strings.HasPrefix(s, `"`) {
		var q string
		if err := json.Unmarshal(raw, &q); err != nil {
			return 0, ErrNotANumber
		}
		s = strings.TrimSpace(q)
		if s == "" {
			return 0, ErrRequired
		}
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 {
			return 0, ErrNegative
		}
		return v, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	if f < 0 {
		return 0, ErrNegative
	}
	if f >= math.MaxInt64 {
		return 0, ErrNotANumber
	}
	if f != math.Trunc(f) {
		return 0, ErrFractional
	}
	// Integer-valued floats like 50.0 are still whole minor units.
	return int64(f), nil
}
