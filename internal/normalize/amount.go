package normalize

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a money value with two fractional digits, stored as an integer
// number of minor units (kopecks). The zero value is 0.00, NaN() is the
// "not-a-number" sentinel used whenever a value could not be parsed.
type Amount struct {
	minor int64
	valid bool
}

func NaN() Amount {
	return Amount{}
}

func FromMinor(minor int64) Amount {
	return Amount{minor: minor, valid: true}
}

// FromFloat rounds to the nearest minor unit, NaN and infinities become NaN().
func FromFloat(value float64) Amount {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NaN()
	}
	return FromMinor(int64(math.Round(value * 100)))
}

func (a Amount) IsNaN() bool {
	return !a.valid
}

func (a Amount) Float64() float64 {
	if !a.valid {
		return math.NaN()
	}
	return float64(a.minor) / 100
}

// Scale multiplies the amount by a factor, rounding to the nearest minor unit.
func (a Amount) Scale(factor float64) Amount {
	if !a.valid || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return NaN()
	}
	return FromMinor(int64(math.Round(float64(a.minor) * factor)))
}

func (a Amount) Equal(other Amount) bool {
	if !a.valid || !other.valid {
		return a.valid == other.valid
	}
	return a.minor == other.minor
}

func (a Amount) String() string {
	if !a.valid {
		return "NaN"
	}
	sign := ""
	minor := a.minor
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// Value stores NaN as NULL and everything else as a decimal string, which both
// NUMERIC columns in postgres and NUMERIC affinity in sqlite accept.
func (a Amount) Value() (driver.Value, error) {
	if !a.valid {
		return nil, nil
	}
	return a.String(), nil
}

func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = NaN()
	case int64:
		*a = FromMinor(v * 100)
	case float64:
		*a = FromFloat(v)
	case []byte:
		return a.scanString(string(v))
	case string:
		return a.scanString(v)
	default:
		return fmt.Errorf("scan amount: unsupported type %T", src)
	}
	return nil
}

func (a *Amount) scanString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		*a = NaN()
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	*a = FromFloat(f)
	return nil
}
