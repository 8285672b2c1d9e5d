// Package fallback asks the language model for spec records when the pattern
// extractor finds too little, and re-validates everything it answers.
package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/shoespec/internal/catalog"
	"github.com/jonathan/shoespec/internal/llm"
	"github.com/jonathan/shoespec/internal/schemas"
	"github.com/jonathan/shoespec/internal/types"
	"github.com/jonathan/shoespec/internal/units"
)

// Generator produces a JSON answer for an instruction set. *llm.Gateway
// implements it.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Extractor is the generative fallback extractor.
type Extractor struct {
	gen     Generator
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// New creates an Extractor. A nil catalog uses the embedded default and a nil
// logger discards output.
func New(gen Generator, cat *catalog.Catalog, logger *zap.Logger) *Extractor {
	if cat == nil {
		cat = catalog.MustDefault()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{gen: gen, catalog: cat, logger: logger}
}

// Extract asks the model for the records of an article. A malformed answer
// yields no records and a nil error; only a failed provider call (after the
// gateway's retries) is returned as an error. The returned warnings describe
// discarded fields and records.
func (e *Extractor) Extract(ctx context.Context, body, title string, analysis types.TitleAnalysis) ([]types.SpecRecord, []string, error) {
	if e.gen == nil {
		return nil, nil, llm.ErrNoClient
	}

	req, err := BuildRequest(title, body, analysis)
	if err != nil {
		return nil, nil, err
	}

	raw, err := e.gen.Generate(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	items, err := decodePayload(raw)
	if err != nil {
		e.logger.Warn("discarding malformed fallback response", zap.Error(err))
		return nil, []string{err.Error()}, nil
	}

	var (
		records  []types.SpecRecord
		warnings []string
	)
	for i, item := range items {
		if err := schemas.ValidateSpecRecord(string(item)); err != nil {
			e.logger.Debug("fallback item deviates from schema", zap.Int("item", i), zap.Error(err))
		}

		rec, ws, err := e.toRecord(item)
		for _, w := range ws {
			warnings = append(warnings, fmt.Sprintf("item %d: %s", i, w))
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		if rec.BrandName == "" || rec.Model == "" {
			warnings = append(warnings, fmt.Sprintf("item %d: missing brand or model", i))
			continue
		}
		if !rec.HasCharacteristics() {
			warnings = append(warnings, fmt.Sprintf("item %d: %s has no characteristics", i, rec.Key()))
			continue
		}
		records = append(records, rec)
	}

	e.logger.Debug("fallback extraction finished",
		zap.Int("items", len(items)),
		zap.Int("records", len(records)),
		zap.Int("warnings", len(warnings)))
	return records, warnings, nil
}

// toRecord converts one response object, re-validating every field the same
// way the pattern extractor does. Invalid values become null with a warning.
func (e *Extractor) toRecord(item json.RawMessage) (types.SpecRecord, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(item, &m); err != nil {
		return types.SpecRecord{}, nil, &ParseError{Message: "invalid record object", Cause: err}
	}

	var warnings []string
	warn := func(w string) {
		if w != "" {
			warnings = append(warnings, w)
		}
	}

	var rec types.SpecRecord
	if brand := text(m, "brand_name", "brand"); brand != "" {
		rec.BrandName, _ = e.catalog.CanonicalBrand(brand)
	}
	rec.Model = text(m, "model", "model_name", "name")

	rec.HeelHeight = number(m, "heel_height", warn, func(v float64) (*float64, string) { return units.Height("heel_height", v) })
	rec.ForefootHeight = number(m, "forefoot_height", warn, func(v float64) (*float64, string) { return units.Height("forefoot_height", v) })
	rec.Drop = number(m, "drop", warn, units.Drop)
	rec.Weight = weight(m, warn)
	rec.Price = price(m, warn)

	rec.CarbonPlate = units.ParseBool(m["carbon_plate"])
	rec.Waterproof = units.ParseBool(m["waterproof"])

	rec.UpperBreathability = category(m, "upper_breathability", units.Breathability, warn)
	rec.CushioningType = category(m, "cushioning_type", units.Cushioning, warn)
	rec.SurfaceType = category(m, "surface_type", units.Surface, warn)
	rec.FootWidth = category(m, "foot_width", units.Width, warn)
	rec.PrimaryUse = text(m, "primary_use")
	rec.AdditionalFeatures = text(m, "additional_features")

	return rec, warnings, nil
}

// text returns the first non-empty string under any of keys.
func text(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.Join(strings.Fields(s), " "); s != "" && !strings.EqualFold(s, "null") {
				return s
			}
		}
	}
	return ""
}

func number(m map[string]any, key string, warn func(string), check func(float64) (*float64, string)) *float64 {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil
	}
	v, ok := units.Coerce(raw)
	if !ok {
		warn(fmt.Sprintf("%s %v is not a number", key, raw))
		return nil
	}
	out, w := check(v)
	warn(w)
	return out
}

// weight accepts grams, or a string with an explicit unit such as "8.9 oz".
func weight(m map[string]any, warn func(string)) *float64 {
	if s, ok := m["weight"].(string); ok {
		g, ok := units.ParseWeight(s)
		if !ok {
			warn(fmt.Sprintf("weight %q not understood", s))
			return nil
		}
		out, w := units.Weight(g)
		warn(w)
		return out
	}
	return number(m, "weight", warn, units.Weight)
}

// price accepts USD, or a string with a currency such as "€120".
func price(m map[string]any, warn func(string)) *float64 {
	if s, ok := m["price"].(string); ok {
		usd, ok := units.ParsePrice(s)
		if !ok {
			warn(fmt.Sprintf("price %q not understood", s))
			return nil
		}
		out, w := units.Price(usd)
		warn(w)
		return out
	}
	return number(m, "price", warn, units.Price)
}

func category(m map[string]any, key string, lookup func(string) (string, bool), warn func(string)) string {
	s := text(m, key)
	if s == "" {
		return ""
	}
	v, ok := lookup(s)
	if !ok {
		warn(fmt.Sprintf("%s %q not recognised", key, s))
		return ""
	}
	return v
}
