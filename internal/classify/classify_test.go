package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/shoespec/internal/types"
)

func TestClassify(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name       string
		title      string
		scenario   types.Scenario
		brand      string
		model      string
		confidence float64
	}{
		{
			name:       "series lookup with version",
			title:      "Hoka Clifton 9 Review",
			scenario:   types.ScenarioSpecific,
			brand:      "Hoka",
			model:      "Clifton 9",
			confidence: 0.9,
		},
		{
			name:       "series lookup without brand in title",
			title:      "Tested: the Speedgoat 5 on muddy trails",
			scenario:   types.ScenarioSpecific,
			brand:      "Hoka",
			model:      "Speedgoat 5",
			confidence: 0.9,
		},
		{
			name:       "series lookup without version",
			title:      "Asics Megablast Performance Review",
			scenario:   types.ScenarioSpecific,
			brand:      "Asics",
			model:      "Megablast",
			confidence: 0.9,
		},
		{
			name:       "ambiguous series with brand",
			title:      "Saucony Guide Review: Stable and Smooth",
			scenario:   types.ScenarioSpecific,
			brand:      "Saucony",
			model:      "Guide",
			confidence: 0.9,
		},
		{
			name:       "pattern with version number",
			title:      "Nike Zoom Whatever 3 Review",
			scenario:   types.ScenarioSpecific,
			brand:      "Nike",
			model:      "Zoom Whatever 3",
			confidence: 0.8,
		},
		{
			name:       "pattern with review keyword",
			title:      "Puma Nitro Elite Review",
			scenario:   types.ScenarioSpecific,
			brand:      "Puma",
			model:      "Nitro Elite",
			confidence: 0.8,
		},
		{
			name:       "model number",
			title:      "New Balance 1080v13 Review",
			scenario:   types.ScenarioSpecific,
			brand:      "New Balance",
			model:      "1080v13",
			confidence: 0.8,
		},
		{
			name:       "series with model number",
			title:      "New Balance Fresh Foam X 1080v13 Review",
			scenario:   types.ScenarioSpecific,
			brand:      "New Balance",
			model:      "Fresh Foam X 1080v13",
			confidence: 0.9,
		},
		{
			name:       "brand roundup leading",
			title:      "Best Nike Running Shoes 2024",
			scenario:   types.ScenarioBrandOnly,
			brand:      "Nike",
			confidence: 0.95,
		},
		{
			name:       "brand roundup all caps alias",
			title:      "Our Favorite HOKA Shoes for Every Runner",
			scenario:   types.ScenarioBrandOnly,
			brand:      "Hoka",
			confidence: 0.9,
		},
		{
			name:       "general roundup",
			title:      "Best Running Shoes for Beginners",
			scenario:   types.ScenarioGeneral,
			confidence: 0.8,
		},
		{
			name:       "ambiguous series alone is general",
			title:      "The Best Running Shoes Guide",
			scenario:   types.ScenarioGeneral,
			confidence: 0.8,
		},
		{
			name:       "multiple brands is general",
			title:      "Best Shoes: Nike vs Adidas",
			scenario:   types.ScenarioGeneral,
			confidence: 0.8,
		},
		{
			name:       "apparel is irrelevant",
			title:      "The Best Running Shorts of 2024",
			scenario:   types.ScenarioIrrelevant,
			confidence: 0,
		},
		{
			name:       "electronics is irrelevant",
			title:      "Garmin GPS Watch Review",
			scenario:   types.ScenarioIrrelevant,
			confidence: 0,
		},
		{
			name:       "empty title",
			title:      "   ",
			scenario:   types.ScenarioGeneral,
			confidence: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.title)
			assert.Equal(t, tt.scenario, got.Scenario)
			assert.Equal(t, tt.brand, got.Brand)
			assert.Equal(t, tt.model, got.Model)
			assert.InDelta(t, tt.confidence, got.Confidence, 0.001)
		})
	}
}
