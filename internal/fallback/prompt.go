package fallback

import (
	"fmt"

	"github.com/jonathan/shoespec/internal/llm"
	"github.com/jonathan/shoespec/internal/prompts"
	"github.com/jonathan/shoespec/internal/types"
)

const (
	promptFile = "fallback.json"

	// MaxBodyChars bounds the article text sent to the provider.
	MaxBodyChars = 12000
)

// SpecSchema is the output shape requested from the model.
func SpecSchema() llm.ExtractionSchema {
	return llm.ExtractionSchema{
		Name: "SpecRecord",
		Fields: []llm.SchemaField{
			{Name: "brand_name", Type: "string", Description: "manufacturer", Required: true},
			{Name: "model", Type: "string", Description: "model name with version number", Required: true},
			{Name: "heel_height", Type: "number|null", Description: "mm"},
			{Name: "forefoot_height", Type: "number|null", Description: "mm"},
			{Name: "drop", Type: "number|null", Description: "mm"},
			{Name: "weight", Type: "number|null", Description: "grams"},
			{Name: "price", Type: "number|null", Description: "USD"},
			{Name: "upper_breathability", Type: `"low"|"medium"|"high"|null`},
			{Name: "carbon_plate", Type: "boolean|null"},
			{Name: "waterproof", Type: "boolean|null"},
			{Name: "primary_use", Type: "string|null"},
			{Name: "cushioning_type", Type: `"firm"|"balanced"|"max"|null`},
			{Name: "surface_type", Type: `"road"|"trail"|null`},
			{Name: "foot_width", Type: `"narrow"|"standard"|"wide"|null`},
			{Name: "additional_features", Type: "string|null"},
		},
	}
}

// BuildRequest assembles the scenario-specific instruction set for an article.
func BuildRequest(title, body string, analysis types.TitleAnalysis) (llm.Request, error) {
	system, err := prompts.Get(promptFile, "system")
	if err != nil {
		return llm.Request{}, err
	}
	var fewShot []llm.Example
	if err := prompts.Decode(promptFile, "few-shot", &fewShot); err != nil {
		return llm.Request{}, err
	}

	key := "user-general"
	switch analysis.Scenario {
	case types.ScenarioSpecific:
		if analysis.Brand != "" && analysis.Model != "" {
			key = "user-specific"
		} else if analysis.Brand != "" {
			key = "user-brand-only"
		}
	case types.ScenarioBrandOnly:
		if analysis.Brand != "" {
			key = "user-brand-only"
		}
	}
	user, err := prompts.Get(promptFile, key)
	if err != nil {
		return llm.Request{}, fmt.Errorf("failed to build user prompt: %w", err)
	}

	return llm.Request{
		SystemPrompt: prompts.Format(system, map[string]string{"Format": SpecSchema().ArrayFormat()}),
		FewShot:      fewShot,
		UserPrompt: prompts.Format(user, map[string]string{
			"Title": title,
			"Brand": analysis.Brand,
			"Model": analysis.Model,
			"Body":  truncate(body, MaxBodyChars),
		}),
	}, nil
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
