package types

import "time"

// Scenario is the title-derived extraction mode.
type Scenario string

// Scenario values
const (
	ScenarioSpecific   Scenario = "specific"
	ScenarioBrandOnly  Scenario = "brand-only"
	ScenarioGeneral    Scenario = "general"
	ScenarioIrrelevant Scenario = "irrelevant"
)

// TitleAnalysis is the classification of an article title.
type TitleAnalysis struct {
	Scenario   Scenario `json:"scenario"`
	Brand      string   `json:"brand,omitempty"`
	Model      string   `json:"model,omitempty"`
	Confidence float64  `json:"confidence"`
}

// Source identifies which extractor produced a candidate.
type Source string

// Source values
const (
	SourceRegex Source = "regex"
	SourceLLM   Source = "llm"
)

// Candidate is a pre-validation record plus provenance.
type Candidate struct {
	Record   SpecRecord `json:"record"`
	Source   Source     `json:"source"`
	Richness int        `json:"richness,omitempty"`
}

// ComputeRichness counts informative fields: numeric and boolean fields weigh 2,
// non-empty text fields weigh 1. Brand and model are not counted.
func ComputeRichness(r *SpecRecord) int {
	score := 0
	for _, f := range []*float64{r.HeelHeight, r.ForefootHeight, r.Drop, r.Weight, r.Price} {
		if f != nil {
			score += 2
		}
	}
	for _, b := range []*bool{r.CarbonPlate, r.Waterproof} {
		if b != nil {
			score += 2
		}
	}
	for _, s := range []string{r.UpperBreathability, r.PrimaryUse, r.CushioningType, r.SurfaceType, r.FootWidth, r.AdditionalFeatures} {
		if s != "" {
			score++
		}
	}
	return score
}

// CoverageReport summarises how much of the schema the records of one article fill.
type CoverageReport struct {
	TotalSneakers   int            `json:"totalSneakers"`
	AverageCoverage float64        `json:"averageCoverage"`
	FieldCoverage   map[string]int `json:"fieldCoverage"`
}

// Article is a raw article supplied by the content source.
type Article struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Date       *time.Time `json:"date,omitempty"`
	SourceLink string     `json:"source_link,omitempty"`
}
