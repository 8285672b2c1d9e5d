package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/shoespec/internal/orchestrator"
	"github.com/jonathan/shoespec/internal/types"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	res := orchestrator.Result{
		ArticleID: "a-42",
		Analysis:  types.TitleAnalysis{Scenario: types.ScenarioSpecific, Brand: "Hoka", Model: "Clifton 9"},
		State:     orchestrator.StateCompleted,
		Fallback:  orchestrator.FallbackHybrid,
		Records: []types.SpecRecord{
			{
				BrandName:      "Hoka",
				Model:          "Clifton 9",
				HeelHeight:     types.Float(32),
				ForefootHeight: types.Float(24),
				Drop:           types.Float(8),
				Price:          types.Float(145),
				SurfaceType:    types.SurfaceRoad,
				CarbonPlate:    types.Bool(false),
			},
		},
		Warnings: []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7"},
	}

	p.PrintResult(res)
	output := buf.String()

	assert.Contains(t, output, "ARTICLE a-42")
	assert.Contains(t, output, "Scenario: specific (Hoka Clifton 9)")
	assert.Contains(t, output, "Fallback: hybrid")
	assert.Contains(t, output, "#1  Hoka Clifton 9")
	assert.Contains(t, output, "stack 32/24 mm, drop 8 mm, $145")
	assert.Contains(t, output, "road")
	assert.NotContains(t, output, "carbon plate")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintResult_Failed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(orchestrator.Result{
		ArticleID: "a-1",
		Analysis:  types.TitleAnalysis{Scenario: types.ScenarioGeneral},
		State:     orchestrator.StateFailed,
		Fallback:  orchestrator.FallbackNone,
		Reason:    "fallback extraction failed: rate limited",
	})
	output := buf.String()

	assert.Contains(t, output, "State:    failed")
	assert.Contains(t, output, "Reason:   fallback extraction failed")
}

func TestPrintCoverage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCoverage(types.CoverageReport{
		TotalSneakers:   2,
		AverageCoverage: 63.33,
		FieldCoverage:   map[string]int{"brand_name": 2, "model": 2, "price": 1},
	})
	output := buf.String()

	assert.Contains(t, output, "COVERAGE")
	assert.Contains(t, output, "63.33%")
	assert.Contains(t, output, "2/2")
	assert.Contains(t, output, "0/2")
}

func TestPrintCoverage_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCoverage(types.CoverageReport{})

	assert.Empty(t, buf.String())
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary(RunTotals{Articles: 10, Completed: 9, Failed: 1, Records: 14, DryRun: true})
	output := buf.String()

	assert.Contains(t, output, "RUN SUMMARY")
	assert.Contains(t, output, "Failed:    1")
	assert.Contains(t, output, "Dry run")
}

func TestPrintBox_LongLinesTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
	assert.Contains(t, buf.String(), "...")
}
