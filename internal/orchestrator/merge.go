package orchestrator

import (
	"strings"

	"github.com/jonathan/shoespec/internal/normalize"
	"github.com/jonathan/shoespec/internal/types"
)

// filterCandidates keeps the candidates matching the title's expectation.
// General articles are never filtered. Specific and brand-only articles keep
// only their brand (and, for specific, their model) even if nothing remains.
func filterCandidates(cands []types.Candidate, analysis types.TitleAnalysis) []types.Candidate {
	if analysis.Scenario == types.ScenarioGeneral || analysis.Brand == "" {
		return cands
	}
	var out []types.Candidate
	for _, c := range cands {
		if !strings.EqualFold(strings.TrimSpace(c.Record.BrandName), analysis.Brand) {
			continue
		}
		if analysis.Scenario == types.ScenarioSpecific && !modelMatches(c.Record.BrandName, c.Record.Model, analysis.Model) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// modelMatches compares models on whole normalized words: "Clifton 9" matches
// "Clifton 9 GTX" and "Clifton", but "Clifton 9" does not match "Clifton 10".
func modelMatches(brand, model, expected string) bool {
	if expected == "" {
		return true
	}
	got := " " + normalize.ModelKey("", stripBrand(brand, model)) + " "
	want := " " + normalize.ModelKey("", expected) + " "
	if strings.TrimSpace(got) == "" || strings.TrimSpace(want) == "" {
		return false
	}
	return strings.Contains(got, want) || strings.Contains(want, got)
}

func stripBrand(brand, model string) string {
	if brand != "" && len(model) > len(brand) && strings.EqualFold(model[:len(brand)], brand) {
		return model[len(brand):]
	}
	return model
}

// HybridMerge combines pattern candidates (primary) with generative ones
// (secondary) for the same case-insensitive brand and model. Numeric fields
// always come from primary; booleans and categorical text are filled from
// secondary only where primary left them unset. Unmatched secondary candidates
// are ignored. Neither input is modified.
func HybridMerge(primary, secondary []types.Candidate) []types.Candidate {
	out := make([]types.Candidate, 0, len(primary))
	for _, p := range primary {
		merged := p
		merged.Record = p.Record.Clone()
		for _, s := range secondary {
			if sameProduct(p.Record, s.Record) {
				types.FillBooleans(&merged.Record, s.Record)
				types.FillText(&merged.Record, s.Record)
				break
			}
		}
		merged.Richness = types.ComputeRichness(&merged.Record)
		out = append(out, merged)
	}
	return out
}

func sameProduct(a, b types.SpecRecord) bool {
	return strings.EqualFold(strings.TrimSpace(a.BrandName), strings.TrimSpace(b.BrandName)) &&
		normalize.ModelKey("", stripBrand(a.BrandName, a.Model)) == normalize.ModelKey("", stripBrand(b.BrandName, b.Model))
}
