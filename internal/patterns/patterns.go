// Package patterns extracts spec candidates from article bodies with
// deterministic regular-expression rules.
package patterns

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/shoespec/internal/catalog"
	"github.com/jonathan/shoespec/internal/types"
	"github.com/jonathan/shoespec/internal/units"
)

// Context window around an inline brand mention, in bytes.
const (
	leadWindow  = 100
	trailWindow = 300

	maxModelTokens = 4
)

var (
	// "## Best Road Running Shoes: Nike Pegasus 41 ($140)"
	headingPattern    = regexp.MustCompile(`(?m)^[ \t]*(?:#{1,6}[ \t]*)?(?:\*\*)?(?:Best|Road|Trail)\b[^:\n]{0,80}:[ \t]*([^\n]+?)[ \t]*$`)
	headingPriceParen = regexp.MustCompile(`\(\s*([$€£]?\s?\d{2,3}(?:[.,]\d{2})?)\s*\)\s*$`)

	tokenPattern  = regexp.MustCompile(`^\s+(\S+)`)
	versionToken  = regexp.MustCompile(`^v?\d+(?:\.\d+)?$`)
	versionSuffix = regexp.MustCompile(`^\s+(v?\d+(?:\.\d+)?|\d{2,4}v\d{1,2})\b`)
	// "1080v13", "880v14": a model number that names a shoe on its own
	modelNumberToken = regexp.MustCompile(`^\d{2,4}v\d{1,2}$`)
	variantSuffix    = regexp.MustCompile(`^\s+(GTX|Gore-Tex|Trail|Max|Elite|Pro|Plus|Wide)\b`)
	sentenceBreaks   = ".!?\n"
)

// Extractor finds brand/model mentions and the specs written around them.
type Extractor struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// New creates an Extractor. A nil catalog uses the embedded default and a nil
// logger discards output.
func New(cat *catalog.Catalog, logger *zap.Logger) *Extractor {
	if cat == nil {
		cat = catalog.MustDefault()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{catalog: cat, logger: logger}
}

// Extract returns the accepted candidates of body, tagged as regex-sourced.
// Headed roundups are read section by section; everything else falls back to
// inline brand mentions.
func (e *Extractor) Extract(body string) []types.Candidate {
	cands := e.extractHeadings(body)
	if len(cands) == 0 {
		cands = e.extractInline(body)
	}
	cands = mergeOverlapping(cands)
	for i := range cands {
		cands[i].Source = types.SourceRegex
		cands[i].Richness = types.ComputeRichness(&cands[i].Record)
	}
	return cands
}

// productHeading is a heading line that names a brand and model.
type productHeading struct {
	start, end   int
	text         string
	brand, model string
	price        *float64
}

func (e *Extractor) extractHeadings(body string) []types.Candidate {
	var headings []productHeading
	for _, loc := range headingPattern.FindAllStringSubmatchIndex(body, -1) {
		heading := strings.TrimSpace(strings.Trim(body[loc[2]:loc[3]], "*"))

		var price *float64
		if m := headingPriceParen.FindStringSubmatchIndex(heading); m != nil {
			if usd, ok := units.ParsePrice(heading[m[2]:m[3]]); ok {
				price, _ = units.Price(usd)
			}
			heading = strings.TrimSpace(heading[:m[0]])
		}

		// "Trail grip: superb" matches the shape but names no shoe
		brand, model, ok := e.headingModel(heading)
		if !ok {
			continue
		}
		headings = append(headings, productHeading{start: loc[0], end: loc[1], text: heading, brand: brand, model: model, price: price})
	}

	var out []types.Candidate
	for i, h := range headings {
		blockEnd := len(body)
		if i+1 < len(headings) {
			blockEnd = headings[i+1].start
		}
		rec := extractFields(h.text+"\n"+body[h.end:blockEnd], h.price)
		rec.BrandName = h.brand
		rec.Model = h.model
		if e.accept(rec) {
			out = append(out, types.Candidate{Record: rec})
		}
	}
	return out
}

// headingModel reads "<Brand> <Model>" or a bare known series from a heading.
func (e *Extractor) headingModel(heading string) (string, string, bool) {
	if mentions := e.catalog.FindBrands(heading); len(mentions) > 0 && mentions[0].Start == 0 {
		model, _, ok := e.parseModel(mentions[0].Brand, heading[mentions[0].End:])
		return mentions[0].Brand, model, ok
	}
	if series := e.catalog.FindSeries(heading); len(series) > 0 && series[0].Start == 0 {
		model, _, ok := e.parseModel(series[0].Brand, heading)
		return series[0].Brand, model, ok
	}
	return "", "", false
}

type inlineMention struct {
	catalog.Mention
	model    string
	modelEnd int
}

func (e *Extractor) extractInline(body string) []types.Candidate {
	var mentions []inlineMention
	for _, m := range e.catalog.FindBrands(body) {
		im := inlineMention{Mention: m, modelEnd: m.End}
		if model, n, ok := e.parseModel(m.Brand, body[m.End:]); ok {
			im.model = model
			im.modelEnd = m.End + n
		}
		mentions = append(mentions, im)
	}

	var out []types.Candidate
	for i, m := range mentions {
		if m.model == "" {
			continue
		}
		start, end := e.window(body, mentions, i)
		rec := extractFields(body[start:end], nil)
		rec.BrandName = m.Brand
		rec.Model = m.model
		if e.accept(rec) {
			out = append(out, types.Candidate{Record: rec})
		}
	}
	return out
}

// window returns the description block of mentions[i]: up to leadWindow bytes
// of the same sentence before it and trailWindow bytes after its model, clipped
// at neighbouring mentions of other shoes.
func (e *Extractor) window(body string, mentions []inlineMention, i int) (int, int) {
	m := mentions[i]

	start := m.Start - leadWindow
	for j := i - 1; j >= 0; j-- {
		if boundary(mentions[j], m) {
			start = max(start, mentions[j].modelEnd)
			break
		}
	}
	start = runeStart(body, max(start, 0))
	if k := strings.LastIndexAny(body[start:m.Start], sentenceBreaks); k >= 0 {
		start += k + 1
	}

	end := m.modelEnd + trailWindow
	for j := i + 1; j < len(mentions); j++ {
		if boundary(mentions[j], m) {
			end = min(end, mentions[j].Start)
			break
		}
	}
	end = runeStart(body, min(end, len(body)))
	return start, end
}

// boundary reports whether other ends the block of m: a different brand or
// another named model.
func boundary(other, m inlineMention) bool {
	return other.Brand != m.Brand || other.model != ""
}

func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// parseModel reads the model that directly follows a brand mention: a catalog
// series with optional version, or up to maxModelTokens capitalised tokens
// ending in a version number. It returns the model and the bytes consumed.
func (e *Extractor) parseModel(brand, rest string) (string, int, bool) {
	offset := 0
	for _, p := range []string{"'s", "’s"} {
		if strings.HasPrefix(rest, p) {
			offset = len(p)
			rest = rest[offset:]
			break
		}
	}

	if series, n, ok := e.catalog.MatchSeriesPrefix(brand, rest); ok {
		model := series
		for _, suffix := range []*regexp.Regexp{versionSuffix, variantSuffix} {
			if m := suffix.FindStringSubmatchIndex(rest[n:]); m != nil {
				model += " " + rest[n+m[2]:n+m[3]]
				n += m[1]
			}
		}
		return model, offset + n, true
	}

	var tokens []string
	pos := 0
	for len(tokens) < maxModelTokens {
		loc := tokenPattern.FindStringSubmatchIndex(rest[pos:])
		if loc == nil {
			break
		}
		raw := rest[pos+loc[2] : pos+loc[3]]
		clean := strings.TrimRight(raw, `.,;:!?)"'`)
		if clean == "" || !leadsUpperOrDigit(clean) {
			break
		}
		tokens = append(tokens, clean)
		pos += loc[2] + len(clean)
		if modelNumberToken.MatchString(clean) {
			if len(tokens) > 1 && e.catalog.IsGenericWord(tokens[0]) {
				return "", 0, false
			}
			return strings.Join(tokens, " "), offset + pos, true
		}
		if versionToken.MatchString(clean) {
			if len(tokens) < 2 || e.catalog.IsGenericWord(tokens[0]) {
				return "", 0, false
			}
			return strings.Join(tokens, " "), offset + pos, true
		}
		if clean != raw {
			break
		}
	}
	return "", 0, false
}

func leadsUpperOrDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}

// accept applies the candidate gates: a height or drop, a use or surface, and
// a model that carries a version digit or names a known series.
func (e *Extractor) accept(rec types.SpecRecord) bool {
	switch {
	case rec.HeelHeight == nil && rec.Drop == nil:
		e.logger.Debug("rejecting candidate without height or drop",
			zap.String("brand", rec.BrandName), zap.String("model", rec.Model))
		return false
	case rec.PrimaryUse == "" && rec.SurfaceType == "":
		e.logger.Debug("rejecting candidate without use or surface",
			zap.String("brand", rec.BrandName), zap.String("model", rec.Model))
		return false
	case !strings.ContainsAny(rec.Model, "0123456789") && !e.catalog.IsKnownSeries(rec.Model):
		e.logger.Debug("rejecting implausible model",
			zap.String("brand", rec.BrandName), zap.String("model", rec.Model))
		return false
	}
	return true
}
