// Package odds converts between fractional, decimal and American price
// representations. Conversions used for display are best-effort: malformed
// input comes back unchanged instead of erroring, so one unparsable price
// never breaks a rendered market.
package odds

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedPrice is returned when a price string cannot be parsed in any
// supported representation.
var ErrMalformedPrice = fmt.Errorf("malformed price")

// FractionalToDecimal converts "5/2" style odds to decimal (3.5).
func FractionalToDecimal(frac string) (float64, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(frac), "/")
	if !ok {
		return 0, fmt.Errorf("%w: %q is not fractional", ErrMalformedPrice, frac)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPrice, frac)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPrice, frac)
	}
	return n/d + 1, nil
}

// DecimalToAmerican converts decimal odds to an American-format integer.
// Decimal 2.50 -> +150, decimal 1.50 -> -200.
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 || math.IsInf(decimal, 0) || math.IsNaN(decimal) {
		return 0, fmt.Errorf("%w: decimal %v out of range", ErrMalformedPrice, decimal)
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// AmericanToDecimal converts an American price to decimal odds.
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: american odds cannot be 0", ErrMalformedPrice)
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// ParseAmerican parses a source price string in any supported representation
// and returns it as an American-format integer. Accepts American ("+130",
// "-150"), decimal ("2.50") and fractional ("3/2") inputs.
func ParseAmerican(price string) (int, error) {
	s := strings.TrimSpace(price)
	if s == "" {
		return 0, fmt.Errorf("%w: empty price", ErrMalformedPrice)
	}
	if strings.Contains(s, "/") {
		dec, err := FractionalToDecimal(s)
		if err != nil {
			return 0, err
		}
		return DecimalToAmerican(dec)
	}
	// American prices carry an explicit sign and a magnitude of at least 100.
	if s[0] == '+' || s[0] == '-' {
		if v, err := strconv.Atoi(s); err == nil {
			if v == 0 || (v > -100 && v < 100) {
				return 0, fmt.Errorf("%w: %q", ErrMalformedPrice, price)
			}
			return v, nil
		}
	}
	dec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPrice, price)
	}
	return DecimalToAmerican(dec)
}

// FormatAmerican renders an American price with the conventional leading
// sign ("+150", "-200").
func FormatAmerican(american int) string {
	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}

// ToAmericanDisplay converts a price string in decimal or fractional form to
// its American display form. Malformed input is returned unchanged; this is
// a display conversion and never fails.
func ToAmericanDisplay(price string) string {
	am, err := ParseAmerican(price)
	if err != nil {
		return price
	}
	return FormatAmerican(am)
}
