// Package money converts course prices between major units (dollars) entered
// by instructors and the integer minor units (cents) stored on courses.
package money

import (
	"errors"
	"math"
	"strconv"
)

// MaxMajor caps a single course price.
const MaxMajor = 1_000_000

var (
	ErrNegative = errors.New("price must not be negative")
	ErrTooLarge = errors.New("price is too large")
	ErrInvalid  = errors.New("price is not a number")
)

// ToMinor converts a major-unit amount to minor units, rounding half away from zero.
func ToMinor(major float64) (int64, error) {
	if math.IsNaN(major) || math.IsInf(major, 0) {
		return 0, ErrInvalid
	}
	if major < 0 {
		return 0, ErrNegative
	}
	if major > MaxMajor {
		return 0, ErrTooLarge
	}
	return int64(math.Round(major * 100)), nil
}

func FromMinor(minor int64) float64 {
	return float64(minor) / 100
}

// Format renders minor units as a major amount with exactly two decimals.
// Integer arithmetic keeps the rendering exact.
func Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	cents := minor % 100
	s := strconv.FormatInt(cents, 10)
	if cents < 10 {
		s = "0" + s
	}
	return sign + strconv.FormatInt(minor/100, 10) + "." + s
}
