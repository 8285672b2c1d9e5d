// Package units provides numeric coercion, unit conversion, and range validation
// for shoe specification fields.
package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Physical and commercial bounds. Values outside are discarded, never clamped.
const (
	MinHeight = 10.0
	MaxHeight = 60.0
	MinDrop   = 0.0
	MaxDrop   = 20.0
	MinWeight = 100.0
	MaxWeight = 600.0
	MinPrice  = 40.0
	MaxPrice  = 500.0

	gramsPerOunce = 28.3495
)

// usdRates converts one unit of the currency into USD.
var usdRates = map[string]float64{
	"USD": 1.0,
	"EUR": 1.08,
	"GBP": 1.27,
	"CAD": 0.74,
	"AUD": 0.66,
	"JPY": 0.0067,
}

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

var numberPattern = regexp.MustCompile(`-?\d+(?:[.,]\d+)*`)

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseNumber extracts the first number from s. It accepts thousands separators
// ("1,234.5") and a decimal comma ("8,9").
func ParseNumber(s string) (float64, bool) {
	raw := numberPattern.FindString(s)
	if raw == "" {
		return 0, false
	}

	hasComma := strings.Contains(raw, ",")
	hasDot := strings.Contains(raw, ".")
	switch {
	case hasComma && hasDot:
		raw = strings.ReplaceAll(raw, ",", "")
	case hasComma:
		parts := strings.Split(raw, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			raw = parts[0] + "." + parts[1]
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Coerce converts a decoded JSON value into a float.
func Coerce(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		return ParseNumber(n)
	default:
		return 0, false
	}
}

// OuncesToGrams converts ounces to whole grams.
func OuncesToGrams(oz float64) float64 {
	return math.Round(oz * gramsPerOunce)
}

// ToUSD converts an amount in the given ISO currency to USD.
func ToUSD(amount float64, currency string) (float64, bool) {
	rate, ok := usdRates[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		return 0, false
	}
	return Round2(amount * rate), true
}

// CurrencyForSymbol maps a currency symbol to its ISO code.
func CurrencyForSymbol(symbol string) (string, bool) {
	code, ok := currencySymbols[symbol]
	return code, ok
}

func inRange(field string, v, lo, hi float64) (*float64, string) {
	if math.IsNaN(v) || v < lo || v > hi {
		return nil, fmt.Sprintf("%s %.2f outside [%g, %g]", field, v, lo, hi)
	}
	r := Round2(v)
	return &r, ""
}

// Height validates a heel or forefoot stack height in millimetres.
func Height(field string, v float64) (*float64, string) {
	return inRange(field, v, MinHeight, MaxHeight)
}

// Drop validates a heel-to-toe drop in millimetres.
func Drop(v float64) (*float64, string) {
	return inRange("drop", v, MinDrop, MaxDrop)
}

// Weight validates a weight in grams.
func Weight(v float64) (*float64, string) {
	return inRange("weight", v, MinWeight, MaxWeight)
}

// Price validates a price in USD.
func Price(v float64) (*float64, string) {
	return inRange("price", v, MinPrice, MaxPrice)
}

// ComputeDrop derives heel minus forefoot, or nil when the result is out of range.
func ComputeDrop(heel, forefoot *float64) *float64 {
	if heel == nil || forefoot == nil {
		return nil
	}
	d, _ := Drop(Round2(*heel - *forefoot))
	return d
}
