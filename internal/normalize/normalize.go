// Package normalize canonicalises spec records before they leave the engine
// and derives the model_key used as their persistent identity.
package normalize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/shoespec/internal/catalog"
	"github.com/jonathan/shoespec/internal/types"
	"github.com/jonathan/shoespec/internal/units"
)

// ModelKey returns the normalized "brand model" identity: lowercase, diacritics
// stripped, punctuation removed and whitespace collapsed. Equal pairs map to the
// same key regardless of casing or punctuation.
func ModelKey(brand, model string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.ToLower(brand+" "+model))
	if err != nil {
		s = strings.ToLower(brand + " " + model)
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\'' || r == '’':
			return -1
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		default:
			return ' '
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Normalizer canonicalises brand and model spelling and re-checks field ranges.
type Normalizer struct {
	catalog *catalog.Catalog
}

// New creates a Normalizer. A nil catalog uses the embedded default.
func New(cat *catalog.Catalog) *Normalizer {
	if cat == nil {
		cat = catalog.MustDefault()
	}
	return &Normalizer{catalog: cat}
}

// Record returns a normalized copy of rec and a warning for every field it had
// to discard. The input is not modified.
func (n *Normalizer) Record(rec types.SpecRecord) (types.SpecRecord, []string) {
	out := rec.Clone()
	var warnings []string
	warn := func(w string) {
		if w != "" {
			warnings = append(warnings, w)
		}
	}

	out.BrandName, _ = n.catalog.CanonicalBrand(rec.BrandName)
	out.Model = n.Model(out.BrandName, rec.Model)

	out.HeelHeight = recheck(out.HeelHeight, func(v float64) (*float64, string) { return units.Height("heel_height", v) }, warn)
	out.ForefootHeight = recheck(out.ForefootHeight, func(v float64) (*float64, string) { return units.Height("forefoot_height", v) }, warn)
	out.Drop = recheck(out.Drop, units.Drop, warn)
	out.Weight = recheck(out.Weight, units.Weight, warn)
	out.Price = recheck(out.Price, units.Price, warn)

	out.UpperBreathability = enum("upper_breathability", out.UpperBreathability, units.Breathability, warn)
	out.CushioningType = enum("cushioning_type", out.CushioningType, units.Cushioning, warn)
	out.SurfaceType = enum("surface_type", out.SurfaceType, units.Surface, warn)
	out.FootWidth = enum("foot_width", out.FootWidth, units.Width, warn)

	out.PrimaryUse = strings.ToLower(collapse(out.PrimaryUse))
	out.AdditionalFeatures = collapse(out.AdditionalFeatures)

	return out, warnings
}

// Model cleans a model name for a canonical brand: the brand prefix is removed,
// whitespace collapsed, known series casing restored and all-lowercase words
// capitalised.
func (n *Normalizer) Model(brand, model string) string {
	model = collapse(model)
	model = n.stripBrandPrefix(brand, model)

	if series, consumed, ok := n.catalog.MatchSeriesPrefix(brand, model); ok {
		model = series + model[consumed:]
	}

	words := strings.Fields(model)
	for i, w := range words {
		if w == strings.ToLower(w) && !strings.ContainsAny(w[:1], "0123456789") {
			r := []rune(w)
			r[0] = unicode.ToUpper(r[0])
			words[i] = string(r)
		}
	}
	return strings.Join(words, " ")
}

func (n *Normalizer) stripBrandPrefix(brand, model string) string {
	lower := strings.ToLower(model)
	for _, b := range n.catalog.Brands() {
		if b.Name != brand {
			continue
		}
		names := append([]string{b.Name}, b.Aliases...)
		// longest first so "Hoka One One" wins over "Hoka"
		sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
		for _, name := range names {
			prefix := strings.ToLower(name) + " "
			if strings.HasPrefix(lower, prefix) && len(model) > len(prefix) {
				return strings.TrimSpace(model[len(prefix):])
			}
		}
	}
	return model
}

func recheck(v *float64, check func(float64) (*float64, string), warn func(string)) *float64 {
	if v == nil {
		return nil
	}
	out, w := check(*v)
	warn(w)
	return out
}

func enum(field, value string, lookup func(string) (string, bool), warn func(string)) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	canonical, ok := lookup(value)
	if !ok {
		warn(field + " " + strings.TrimSpace(value) + " not recognised")
		return ""
	}
	return canonical
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
