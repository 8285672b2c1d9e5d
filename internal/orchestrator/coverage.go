package orchestrator

import (
	"github.com/jonathan/shoespec/internal/types"
	"github.com/jonathan/shoespec/internal/units"
)

// CoverageFields is the output schema scored by Coverage, in report order.
var CoverageFields = []string{
	"brand_name", "model",
	"heel_height", "forefoot_height", "drop", "weight", "price",
	"upper_breathability", "carbon_plate", "waterproof", "primary_use",
	"cushioning_type", "surface_type", "foot_width", "additional_features",
}

// Coverage counts filled fields per schema field and averages the per-record
// fill percentage, rounded to two decimals.
func Coverage(records []types.SpecRecord) types.CoverageReport {
	report := types.CoverageReport{
		TotalSneakers: len(records),
		FieldCoverage: make(map[string]int, len(CoverageFields)),
	}
	for _, f := range CoverageFields {
		report.FieldCoverage[f] = 0
	}
	if len(records) == 0 {
		return report
	}

	total := 0.0
	for i := range records {
		filled := 0
		for field, ok := range filledFields(&records[i]) {
			if ok {
				report.FieldCoverage[field]++
				filled++
			}
		}
		total += float64(filled) / float64(len(CoverageFields)) * 100
	}
	report.AverageCoverage = units.Round2(total / float64(len(records)))
	return report
}

func filledFields(r *types.SpecRecord) map[string]bool {
	return map[string]bool{
		"brand_name":          r.BrandName != "",
		"model":               r.Model != "",
		"heel_height":         r.HeelHeight != nil,
		"forefoot_height":     r.ForefootHeight != nil,
		"drop":                r.Drop != nil,
		"weight":              r.Weight != nil,
		"price":               r.Price != nil,
		"upper_breathability": r.UpperBreathability != "",
		"carbon_plate":        r.CarbonPlate != nil,
		"waterproof":          r.Waterproof != nil,
		"primary_use":         r.PrimaryUse != "",
		"cushioning_type":     r.CushioningType != "",
		"surface_type":        r.SurfaceType != "",
		"foot_width":          r.FootWidth != "",
		"additional_features": r.AdditionalFeatures != "",
	}
}
