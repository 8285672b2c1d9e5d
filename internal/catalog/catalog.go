// Package catalog holds the brand and model-series taxonomy used to recognise
// shoe mentions. The data lives in an embedded JSON table so it can be extended
// without touching control flow.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
)

//go:embed catalog.json
var defaultData []byte

// Brand is one manufacturer entry of the catalog.
type Brand struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Series  []string `json:"series"`
	// Ambiguous brands collide with common words ("On"); the bare name only counts
	// when followed directly by one of the brand's series.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

type data struct {
	Brands          []Brand             `json:"brands"`
	AmbiguousSeries []string            `json:"ambiguous_series"`
	GenericWords    []string            `json:"generic_words"`
	ReviewKeywords  []string            `json:"review_keywords"`
	RoundupKeywords []string            `json:"roundup_keywords"`
	NonProduct      map[string][]string `json:"non_product"`
}

type seriesEntry struct {
	name  string
	brand string
}

// Catalog is an immutable, indexed view of the taxonomy. It is safe for concurrent use.
type Catalog struct {
	brands []Brand
	// keyed by lowercased name, alias or series
	brandByName map[string]*Brand
	series      map[string]seriesEntry
	ambiguous   map[string]bool
	generic     map[string]bool
	nonProduct  map[string]*regexp.Regexp
	nonProdKeys []string

	brandPattern   *regexp.Regexp
	seriesPattern  *regexp.Regexp
	reviewPattern  *regexp.Regexp
	roundupPattern *regexp.Regexp
}

// Mention is an occurrence of a brand or series in text. Offsets are byte offsets.
type Mention struct {
	Brand  string
	Series string
	Text   string
	Start  int
	End    int
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsing it on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(defaultData)
	})
	return defaultCat, defaultErr
}

// MustDefault returns the embedded catalog and panics if it cannot be parsed.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load catalog: %v", err))
	}
	return c
}

// Load parses a catalog JSON document and builds its indexes.
func Load(raw []byte) (*Catalog, error) {
	var d data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(d.Brands) == 0 {
		return nil, fmt.Errorf("catalog has no brands")
	}

	c := &Catalog{
		brands:      d.Brands,
		brandByName: make(map[string]*Brand),
		series:      make(map[string]seriesEntry),
		ambiguous:   toSet(d.AmbiguousSeries),
		generic:     toSet(d.GenericWords),
		nonProduct:  make(map[string]*regexp.Regexp),
	}

	var brandTerms, seriesTerms []string
	for i := range c.brands {
		b := &c.brands[i]
		for _, name := range append([]string{b.Name}, b.Aliases...) {
			key := strings.ToLower(name)
			if _, exists := c.brandByName[key]; !exists {
				c.brandByName[key] = b
				brandTerms = append(brandTerms, name)
			}
		}
		for _, s := range b.Series {
			key := strings.ToLower(s)
			if _, exists := c.series[key]; !exists {
				c.series[key] = seriesEntry{name: s, brand: b.Name}
				seriesTerms = append(seriesTerms, s)
			}
		}
	}

	var err error
	if c.brandPattern, err = alternation(brandTerms); err != nil {
		return nil, err
	}
	if c.seriesPattern, err = alternation(seriesTerms); err != nil {
		return nil, err
	}
	if c.reviewPattern, err = alternation(d.ReviewKeywords); err != nil {
		return nil, err
	}
	if c.roundupPattern, err = alternation(d.RoundupKeywords); err != nil {
		return nil, err
	}
	for class, words := range d.NonProduct {
		re, err := alternation(words)
		if err != nil {
			return nil, err
		}
		c.nonProduct[class] = re
		c.nonProdKeys = append(c.nonProdKeys, class)
	}
	sort.Strings(c.nonProdKeys)

	return c, nil
}

// alternation builds a case-insensitive, word-bounded regex matching any term,
// trying longer terms first so "Hoka One One" wins over "Hoka".
func alternation(terms []string) (*regexp.Regexp, error) {
	if len(terms) == 0 {
		return regexp.MustCompile(`[^\s\S]`), nil
	}
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog pattern: %w", err)
	}
	return re, nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// Brands returns the brand entries in catalog order.
func (c *Catalog) Brands() []Brand {
	return c.brands
}

// CanonicalBrand maps a brand spelling or alias to its canonical name.
// Unknown brands are returned title-cased when they arrive all upper or all lower case.
func (c *Catalog) CanonicalBrand(s string) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if b, ok := c.brandByName[strings.ToLower(s)]; ok {
		return b.Name, true
	}
	if s == strings.ToUpper(s) || s == strings.ToLower(s) {
		return titleCase(s), false
	}
	return s, false
}

// FindBrands returns every brand mention in text, in order of appearance.
func (c *Catalog) FindBrands(text string) []Mention {
	var mentions []Mention
	for _, loc := range c.brandPattern.FindAllStringIndex(text, -1) {
		matched := text[loc[0]:loc[1]]
		b := c.brandByName[strings.ToLower(matched)]
		if b == nil {
			continue
		}
		if b.Ambiguous && strings.EqualFold(matched, b.Name) {
			if matched != b.Name {
				continue
			}
			if _, _, ok := c.MatchSeriesPrefix(b.Name, text[loc[1]:]); !ok {
				continue
			}
		}
		mentions = append(mentions, Mention{Brand: b.Name, Text: matched, Start: loc[0], End: loc[1]})
	}
	return mentions
}

// FindSeries returns every known series mention in text, in order of appearance.
func (c *Catalog) FindSeries(text string) []Mention {
	var mentions []Mention
	for _, loc := range c.seriesPattern.FindAllStringIndex(text, -1) {
		matched := text[loc[0]:loc[1]]
		entry, ok := c.series[strings.ToLower(matched)]
		if !ok {
			continue
		}
		mentions = append(mentions, Mention{Brand: entry.brand, Series: entry.name, Text: matched, Start: loc[0], End: loc[1]})
	}
	return mentions
}

// MatchSeriesPrefix reports whether text (after leading spaces) starts with a series
// of the given brand. It returns the canonical series and the number of bytes consumed.
func (c *Catalog) MatchSeriesPrefix(brand, text string) (string, int, bool) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	offset := len(text) - len(trimmed)
	loc := c.seriesPattern.FindStringIndex(trimmed)
	if loc == nil || loc[0] != 0 {
		return "", 0, false
	}
	entry, ok := c.series[strings.ToLower(trimmed[:loc[1]])]
	if !ok || !strings.EqualFold(entry.brand, brand) {
		return "", 0, false
	}
	return entry.name, offset + loc[1], true
}

// BrandForSeries returns the brand owning the series.
func (c *Catalog) BrandForSeries(series string) (string, bool) {
	entry, ok := c.series[strings.ToLower(strings.TrimSpace(series))]
	return entry.brand, ok
}

// SeriesCasing returns the canonical spelling of a series.
func (c *Catalog) SeriesCasing(series string) (string, bool) {
	entry, ok := c.series[strings.ToLower(strings.TrimSpace(series))]
	return entry.name, ok
}

// IsKnownSeries reports whether a model string contains a known series name.
func (c *Catalog) IsKnownSeries(model string) bool {
	return c.seriesPattern.MatchString(model)
}

// IsAmbiguousSeries reports whether a series name doubles as a common word.
func (c *Catalog) IsAmbiguousSeries(series string) bool {
	return c.ambiguous[strings.ToLower(series)]
}

// IsGenericWord reports whether a word is generic article vocabulary rather than a model name.
func (c *Catalog) IsGenericWord(word string) bool {
	return c.generic[strings.ToLower(strings.Trim(word, ".,:;!?()'\""))]
}

// NonProductClass returns the non-product keyword class (apparel, electronics,
// accessories) matched by text.
func (c *Catalog) NonProductClass(text string) (string, bool) {
	for _, class := range c.nonProdKeys {
		if c.nonProduct[class].MatchString(text) {
			return class, true
		}
	}
	return "", false
}

// HasReviewKeyword reports whether text contains review framing.
func (c *Catalog) HasReviewKeyword(text string) bool {
	return c.reviewPattern.MatchString(text)
}

// HasRoundupKeyword reports whether text contains best/top/roundup framing.
func (c *Catalog) HasRoundupKeyword(text string) bool {
	return c.roundupPattern.MatchString(text)
}

// ReviewKeywordIndex returns the byte offset of the first review keyword, or -1.
func (c *Catalog) ReviewKeywordIndex(text string) int {
	loc := c.reviewPattern.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
