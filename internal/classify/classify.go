// Package classify derives the extraction scenario from an article title.
package classify

import (
	"regexp"
	"strings"

	"github.com/jonathan/shoespec/internal/catalog"
	"github.com/jonathan/shoespec/internal/types"
)

// Confidence levels per decision path.
const (
	confidenceSeriesLookup = 0.9
	confidencePattern      = 0.8
	confidenceBrandLeading = 0.95
	confidenceBrandOnly    = 0.9
	confidenceBrandLoose   = 0.85
	confidenceGeneral      = 0.8
)

var (
	versionPattern  = regexp.MustCompile(`^\s+(v?\d+(?:\.\d+)?|\d{2,4}v\d{1,2})\b`)
	shoeWordPattern = regexp.MustCompile(`(?i)\b(?:shoes?|sneakers?|trainers?)\b`)

	// <model-words> <version-number>
	modelVersionPattern = regexp.MustCompile(`^\s+((?:[A-Za-z][\w-]*\s+){0,3}?[A-Za-z][\w-]*)\s+(v?\d+(?:\.\d+)?|\d{2,4}v\d{1,2})\b`)
	// a word, or a model number such as "1080v13"
	modelWordPattern = regexp.MustCompile(`^(?:[A-Za-z][\w-]*|\d{2,4}v\d{1,2})$`)
)

// Classifier inspects titles using the catalog taxonomy.
type Classifier struct {
	catalog *catalog.Catalog
}

// New creates a Classifier. A nil catalog uses the embedded default.
func New(cat *catalog.Catalog) *Classifier {
	if cat == nil {
		cat = catalog.MustDefault()
	}
	return &Classifier{catalog: cat}
}

// Classify returns the Title Analysis for a title. It never fails; titles that
// match nothing degrade to the general scenario.
func (c *Classifier) Classify(title string) types.TitleAnalysis {
	t := strings.Join(strings.Fields(title), " ")
	if t == "" {
		return general()
	}

	if _, ok := c.catalog.NonProductClass(t); ok && !shoeWordPattern.MatchString(t) {
		return types.TitleAnalysis{Scenario: types.ScenarioIrrelevant, Confidence: 0}
	}

	if a, ok := c.matchSeries(t); ok {
		return a
	}
	if a, ok := c.matchPattern(t); ok {
		return a
	}
	if a, ok := c.matchBrandRoundup(t); ok {
		return a
	}
	return general()
}

func general() types.TitleAnalysis {
	return types.TitleAnalysis{Scenario: types.ScenarioGeneral, Confidence: confidenceGeneral}
}

// matchSeries looks up known series names; the owning brand follows from the catalog.
func (c *Classifier) matchSeries(t string) (types.TitleAnalysis, bool) {
	for _, m := range c.catalog.FindSeries(t) {
		version := ""
		if v := versionPattern.FindStringSubmatch(t[m.End:]); v != nil {
			version = v[1]
		}
		if c.catalog.IsAmbiguousSeries(m.Series) && version == "" && !c.brandPrecedes(t[:m.Start], m.Brand) {
			continue
		}
		model := m.Series
		if version != "" {
			model += " " + version
		}
		return types.TitleAnalysis{
			Scenario:   types.ScenarioSpecific,
			Brand:      m.Brand,
			Model:      model,
			Confidence: confidenceSeriesLookup,
		}, true
	}
	return types.TitleAnalysis{}, false
}

func (c *Classifier) brandPrecedes(prefix, brand string) bool {
	prefix = strings.TrimRight(prefix, " ")
	mentions := c.catalog.FindBrands(prefix)
	if len(mentions) == 0 {
		return false
	}
	last := mentions[len(mentions)-1]
	return last.End == len(prefix) && last.Brand == brand
}

// matchPattern recognises "<brand> <model-words> <version>" and
// "<brand> <model-words> <review keyword>" for models missing from the catalog.
func (c *Classifier) matchPattern(t string) (types.TitleAnalysis, bool) {
	for _, bm := range c.catalog.FindBrands(t) {
		rest := t[bm.End:]

		if m := modelVersionPattern.FindStringSubmatch(rest); m != nil {
			if c.plausibleModelWords(m[1]) {
				return specificPattern(bm.Brand, m[1]+" "+m[2]), true
			}
		}

		idx := c.catalog.ReviewKeywordIndex(rest)
		if idx <= 0 {
			continue
		}
		words := strings.TrimSpace(rest[:idx])
		words = strings.TrimRight(words, ":-– ")
		if words != "" && len(strings.Fields(words)) <= 3 && c.plausibleModelWords(words) {
			return specificPattern(bm.Brand, words), true
		}
	}
	return types.TitleAnalysis{}, false
}

func specificPattern(brand, model string) types.TitleAnalysis {
	return types.TitleAnalysis{
		Scenario:   types.ScenarioSpecific,
		Brand:      brand,
		Model:      strings.Join(strings.Fields(model), " "),
		Confidence: confidencePattern,
	}
}

// plausibleModelWords rejects generic vocabulary ("Running Shoes") posing as a model.
func (c *Classifier) plausibleModelWords(words string) bool {
	fields := strings.Fields(words)
	if len(fields) == 0 {
		return false
	}
	for _, w := range fields {
		if !modelWordPattern.MatchString(w) || c.catalog.IsGenericWord(w) {
			return false
		}
	}
	return true
}

// matchBrandRoundup recognises a single brand framed as best/top/roundup.
func (c *Classifier) matchBrandRoundup(t string) (types.TitleAnalysis, bool) {
	if !c.catalog.HasRoundupKeyword(t) {
		return types.TitleAnalysis{}, false
	}
	mentions := c.catalog.FindBrands(t)
	if len(mentions) == 0 {
		return types.TitleAnalysis{}, false
	}
	brand := mentions[0].Brand
	for _, m := range mentions[1:] {
		if m.Brand != brand {
			// several brands: a roundup, not a brand page
			return types.TitleAnalysis{}, false
		}
	}

	confidence := confidenceBrandOnly
	lead := strings.ToLower(strings.TrimSpace(t[:mentions[0].Start]))
	switch {
	case strings.HasSuffix(lead, "best") || strings.HasSuffix(lead, "top"):
		confidence = confidenceBrandLeading
	case mentions[0].Start > len(t)/2:
		confidence = confidenceBrandLoose
	}

	return types.TitleAnalysis{
		Scenario:   types.ScenarioBrandOnly,
		Brand:      brand,
		Confidence: confidence,
	}, true
}
