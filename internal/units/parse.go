package units

import (
	"regexp"
	"strings"
)

var (
	// "8.9 ounces (252 grams)" - the grams in parentheses win.
	ouncesWithGramsPattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?:[.,]\d+)?)\s*(?:oz|ounces?)\.?\s*\(\s*(\d{2,3}(?:[.,]\d+)?)\s*(?:g|gr|grams?|grammes?)\.?\s*\)`)
	gramsPattern           = regexp.MustCompile(`(?i)\b(\d{2,3}(?:[.,]\d+)?)\s*(?:g|gr|grams?|grammes?|gramos|gramm)\b`)
	ouncesPattern          = regexp.MustCompile(`(?i)\b(\d{1,2}(?:[.,]\d+)?)\s*(?:oz|ounces?|onzas)\b`)

	symbolPricePattern = regexp.MustCompile(`([$€£])\s?(\d{2,3}(?:[.,]\d{2})?)\b`)
	codePricePattern   = regexp.MustCompile(`(?i)\b(\d{2,3}(?:[.,]\d{2})?)\s*(USD|EUR|GBP|CAD|AUD|dollars|euros|pounds)\b`)
	bareNumberPattern  = regexp.MustCompile(`^\s*\d+(?:[.,]\d+)?\s*$`)
)

var currencyWords = map[string]string{
	"dollars": "USD",
	"euros":   "EUR",
	"pounds":  "GBP",
}

// ParseWeight finds the first plausible weight in text and returns it in grams.
// Ounces followed by grams in parentheses are preferred, then grams, then ounces.
// A bare number is read as grams.
func ParseWeight(text string) (float64, bool) {
	for _, m := range ouncesWithGramsPattern.FindAllStringSubmatch(text, -1) {
		if g, ok := ParseNumber(m[2]); ok && g >= MinWeight && g <= MaxWeight {
			return g, true
		}
	}
	for _, m := range gramsPattern.FindAllStringSubmatch(text, -1) {
		if g, ok := ParseNumber(m[1]); ok && g >= MinWeight && g <= MaxWeight {
			return g, true
		}
	}
	for _, m := range ouncesPattern.FindAllStringSubmatch(text, -1) {
		if oz, ok := ParseNumber(m[1]); ok {
			g := OuncesToGrams(oz)
			if g >= MinWeight && g <= MaxWeight {
				return g, true
			}
		}
	}
	if bareNumberPattern.MatchString(text) {
		return ParseNumber(text)
	}
	return 0, false
}

// ParsePrice finds the first plausible price in text and returns it in USD.
// A bare number is read as USD.
func ParsePrice(text string) (float64, bool) {
	for _, m := range symbolPricePattern.FindAllStringSubmatch(text, -1) {
		code, _ := CurrencyForSymbol(m[1])
		if usd, ok := priceInUSD(m[2], code); ok {
			return usd, true
		}
	}
	for _, m := range codePricePattern.FindAllStringSubmatch(text, -1) {
		code := strings.ToUpper(m[2])
		if word, ok := currencyWords[strings.ToLower(m[2])]; ok {
			code = word
		}
		if usd, ok := priceInUSD(m[1], code); ok {
			return usd, true
		}
	}
	if bareNumberPattern.MatchString(text) {
		return ParseNumber(text)
	}
	return 0, false
}

func priceInUSD(amount, code string) (float64, bool) {
	v, ok := ParseNumber(amount)
	if !ok {
		return 0, false
	}
	usd, ok := ToUSD(v, code)
	if !ok || usd < MinPrice || usd > MaxPrice {
		return 0, false
	}
	return usd, true
}

// ParseBool interprets a decoded JSON value as a boolean.
func ParseBool(v any) *bool {
	switch b := v.(type) {
	case bool:
		return &b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "1":
			t := true
			return &t
		case "false", "no", "n", "0":
			f := false
			return &f
		}
	}
	return nil
}

var breathabilitySynonyms = map[string]string{
	"low":       "low",
	"poor":      "low",
	"limited":   "low",
	"medium":    "medium",
	"moderate":  "medium",
	"average":   "medium",
	"good":      "medium",
	"high":      "high",
	"excellent": "high",
	"very high": "high",
	"great":     "high",
}

var cushioningSynonyms = map[string]string{
	"firm":       "firm",
	"responsive": "firm",
	"minimal":    "firm",
	"low":        "firm",
	"balanced":   "balanced",
	"moderate":   "balanced",
	"medium":     "balanced",
	"max":        "max",
	"maximal":    "max",
	"maximum":    "max",
	"plush":      "max",
	"soft":       "max",
	"high":       "max",
}

var surfaceSynonyms = map[string]string{
	"road":     "road",
	"pavement": "road",
	"asphalt":  "road",
	"track":    "road",
	"trail":    "trail",
	"off-road": "trail",
	"mountain": "trail",
}

var widthSynonyms = map[string]string{
	"narrow":     "narrow",
	"slim":       "narrow",
	"standard":   "standard",
	"regular":    "standard",
	"normal":     "standard",
	"medium":     "standard",
	"wide":       "wide",
	"extra wide": "wide",
	"roomy":      "wide",
}

func lookupEnum(table map[string]string, s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}
	v, ok := table[key]
	return v, ok
}

// Breathability maps a free-form value to low, medium or high.
func Breathability(s string) (string, bool) { return lookupEnum(breathabilitySynonyms, s) }

// Cushioning maps a free-form value to firm, balanced or max.
func Cushioning(s string) (string, bool) { return lookupEnum(cushioningSynonyms, s) }

// Surface maps a free-form value to road or trail.
func Surface(s string) (string, bool) { return lookupEnum(surfaceSynonyms, s) }

// Width maps a free-form value to narrow, standard or wide.
func Width(s string) (string, bool) { return lookupEnum(widthSynonyms, s) }
