package patterns

import (
	"regexp"
	"strings"

	"github.com/jonathan/shoespec/internal/types"
	"github.com/jonathan/shoespec/internal/units"
)

const (
	mmUnit  = `\s*(?:mm|millimet(?:er|re)s?|mil[ií]metros|millimetri)`
	stackNo = `(\d{2}(?:[.,]\d+)?)`
	dropNo  = `(\d{1,2}(?:[.,]\d+)?)`

	heelWords     = `(?:heel|talón|talon|ferse|tallone)`
	forefootWords = `(?:forefoot|fore-foot|front|toe|antepié|antepie|vorfuß|vorfuss|avampiede|avant-pied)`
	linkWords     = `(?:of|is|:|=|at|measures|de|di|von|du)`
)

var (
	// "32mm heel height", "32 mm at the heel"
	heelAfterPattern = regexp.MustCompile(`(?i)\b` + stackNo + mmUnit + `\s+(?:of\s+)?(?:stack\s+)?(?:(?:at|in)\s+the\s+)?` + heelWords + `\b`)
	// "heel height of 32mm", "heel: 32 mm", "talón de 32 mm"
	heelBeforePattern = regexp.MustCompile(`(?i)\b` + heelWords + `(?:\s+(?:stack\s+)?(?:height|stack))?\s*` + linkWords + `?\s*` + stackNo + mmUnit)

	forefootAfterPattern  = regexp.MustCompile(`(?i)\b` + stackNo + mmUnit + `\s+(?:of\s+)?(?:stack\s+)?(?:(?:at|in|under)\s+the\s+)?` + forefootWords + `\b`)
	forefootBeforePattern = regexp.MustCompile(`(?i)\b` + forefootWords + `(?:\s+(?:stack\s+)?(?:height|stack))?\s*` + linkWords + `?\s*` + stackNo + mmUnit)

	// "39-31 millimeters", "32mm/24mm"
	stackRangePattern = regexp.MustCompile(`(?i)\b` + stackNo + `\s*(?:mm)?\s*[-–—/]\s*` + stackNo + mmUnit + `\b`)
	stackPattern      = regexp.MustCompile(`(?i)\bstack(?:\s+height)?\s*` + linkWords + `?\s*` + stackNo + mmUnit)

	zeroDropPattern   = regexp.MustCompile(`(?i)\bzero[\s-]drop\b|\b0\s*mm\s+(?:heel[\s-]to[\s-]toe\s+)?(?:drop|offset)\b`)
	dropAfterPattern  = regexp.MustCompile(`(?i)\b` + dropNo + mmUnit + `\s*(?:heel[\s-]to[\s-]toe\s+|heel\s+)?(?:drop|offset)\b`)
	dropBeforePattern = regexp.MustCompile(`(?i)\b(?:drop|offset)\s*` + linkWords + `?\s*` + dropNo + mmUnit)

	// a heel mention that is really the start of "heel-to-toe" or "heel drop"
	heelToToeSuffix = regexp.MustCompile(`(?i)^(?:[\s-]*to[\s-]*toe|\s+drop|\s+offset)`)
	dropNearby      = regexp.MustCompile(`(?i)^\s*(?:heel[\s-]to[\s-]toe\s+)?(?:drop|offset)`)

	trailPattern = regexp.MustCompile(`(?i)\b(?:trail|trails|off-road|mountain|technical terrain|singletrack|fell)\b`)
	roadPattern  = regexp.MustCompile(`(?i)\b(?:road|roads|pavement|asphalt|tarmac|street)\b`)

	waterproofPattern = regexp.MustCompile(`(?i)\b(not\s+|no\s+|non[\s-]?)?(?:waterproof|water[\s-]resistant|gore-?tex|gtx)\b`)
	carbonPattern     = regexp.MustCompile(`(?i)\bcarbon(?:[\s-]fib(?:er|re))?[\s-]plate[ds]?\b|\bplated with carbon\b`)
)

// useRefinements are checked in order once a road context (or none) is established.
var useRefinements = []struct {
	pattern *regexp.Regexp
	use     string
}{
	{regexp.MustCompile(`(?i)\b(?:racing|racer|race day|race|marathon|super shoe)\b`), "racing"},
	{regexp.MustCompile(`(?i)\b(?:tempo|uptempo|speed work|speedwork|intervals)\b`), "tempo"},
	{regexp.MustCompile(`(?i)\b(?:daily trainer|daily training|everyday|daily miles|workhorse)\b`), "daily training"},
	{regexp.MustCompile(`(?i)\b(?:recovery|easy runs?|easy days?)\b`), "recovery"},
}

// extractFields applies the field rules to a description block. headingPrice, when
// set, comes from the heading and takes precedence over prices in the block.
func extractFields(text string, headingPrice *float64) types.SpecRecord {
	var r types.SpecRecord

	r.HeelHeight = firstHeight(text, "heel_height", heelAfterPattern, heelBeforePattern)
	r.ForefootHeight = firstHeight(text, "forefoot_height", forefootAfterPattern, forefootBeforePattern)
	if r.HeelHeight == nil || r.ForefootHeight == nil {
		if heel, fore, ok := stackRange(text); ok {
			if r.HeelHeight == nil {
				r.HeelHeight = heel
			}
			if r.ForefootHeight == nil {
				r.ForefootHeight = fore
			}
		}
	}
	if r.HeelHeight == nil {
		if m := stackPattern.FindStringSubmatch(text); m != nil {
			r.HeelHeight = parseHeight("heel_height", m[1])
		}
	}

	r.Drop = extractDrop(text)
	if r.Drop == nil {
		r.Drop = units.ComputeDrop(r.HeelHeight, r.ForefootHeight)
	}

	if g, ok := units.ParseWeight(text); ok {
		r.Weight, _ = units.Weight(g)
	}

	if headingPrice != nil {
		r.Price = headingPrice
	} else if usd, ok := units.ParsePrice(text); ok {
		r.Price, _ = units.Price(usd)
	}

	r.SurfaceType, r.PrimaryUse = classifyUse(text)
	r.Waterproof = extractWaterproof(text)
	if carbonPattern.MatchString(text) {
		r.CarbonPlate = types.Bool(true)
	}

	return r
}

func parseHeight(field, raw string) *float64 {
	v, ok := units.ParseNumber(raw)
	if !ok {
		return nil
	}
	h, _ := units.Height(field, v)
	return h
}

// firstHeight returns the first valid height matched by any pattern, skipping
// heel mentions that belong to "heel-to-toe drop" phrasing.
func firstHeight(text, field string, patterns ...*regexp.Regexp) *float64 {
	for _, p := range patterns {
		for _, loc := range p.FindAllStringSubmatchIndex(text, -1) {
			if heelToToeSuffix.MatchString(text[loc[1]:]) {
				continue
			}
			if h := parseHeight(field, text[loc[2]:loc[3]]); h != nil {
				return h
			}
		}
	}
	return nil
}

// stackRange reads "H-F millimeters" as heel then forefoot.
func stackRange(text string) (*float64, *float64, bool) {
	for _, loc := range stackRangePattern.FindAllStringSubmatchIndex(text, -1) {
		if dropNearby.MatchString(text[loc[1]:]) {
			continue
		}
		heel := parseHeight("heel_height", text[loc[2]:loc[3]])
		fore := parseHeight("forefoot_height", text[loc[4]:loc[5]])
		if heel == nil || fore == nil {
			continue
		}
		if *heel < *fore {
			heel, fore = fore, heel
		}
		return heel, fore, true
	}
	return nil, nil, false
}

func extractDrop(text string) *float64 {
	if zeroDropPattern.MatchString(text) {
		return types.Float(0)
	}
	for _, p := range []*regexp.Regexp{dropAfterPattern, dropBeforePattern} {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			v, ok := units.ParseNumber(m[1])
			if !ok {
				continue
			}
			if d, _ := units.Drop(v); d != nil {
				return d
			}
		}
	}
	return nil
}

// classifyUse buckets the block: trail beats road, road is refined by tempo,
// daily or recovery vocabulary.
func classifyUse(text string) (surface, use string) {
	if trailPattern.MatchString(text) {
		return types.SurfaceTrail, "trail running"
	}
	refined := ""
	for _, r := range useRefinements {
		if r.pattern.MatchString(text) {
			refined = r.use
			break
		}
	}
	if roadPattern.MatchString(text) {
		if refined == "" {
			refined = "road running"
		}
		return types.SurfaceRoad, refined
	}
	if refined != "" {
		return types.SurfaceRoad, refined
	}
	return "", ""
}

// extractWaterproof is positive on any unnegated mention, negative when every
// mention is negated, and unknown otherwise.
func extractWaterproof(text string) *bool {
	matches := waterproofPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	for _, m := range matches {
		if strings.TrimSpace(m[1]) == "" {
			return types.Bool(true)
		}
	}
	return types.Bool(false)
}
