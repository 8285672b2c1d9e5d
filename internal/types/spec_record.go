// Package types provides type definitions for structured data used throughout the shoespec system.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// SpecRecord is a structured product specification extracted from an article.
// Numeric and boolean fields are nil when unknown; categorical text fields are empty.
type SpecRecord struct {
	BrandName          string   `json:"brand_name" validate:"required,min=2,max=30"`
	Model              string   `json:"model" validate:"required,min=2,max=50"`
	HeelHeight         *float64 `json:"heel_height"`     // mm
	ForefootHeight     *float64 `json:"forefoot_height"` // mm
	Drop               *float64 `json:"drop"`            // mm
	Weight             *float64 `json:"weight"`          // grams
	Price              *float64 `json:"price"`           // USD
	UpperBreathability string   `json:"upper_breathability,omitempty"`
	CarbonPlate        *bool    `json:"carbon_plate"`
	Waterproof         *bool    `json:"waterproof"`
	PrimaryUse         string   `json:"primary_use,omitempty"`
	CushioningType     string   `json:"cushioning_type,omitempty"`
	SurfaceType        string   `json:"surface_type,omitempty"`
	FootWidth          string   `json:"foot_width,omitempty"`
	AdditionalFeatures string   `json:"additional_features,omitempty"`
}

// Enumerated values for categorical fields.
const (
	BreathabilityLow    = "low"
	BreathabilityMedium = "medium"
	BreathabilityHigh   = "high"

	CushioningFirm     = "firm"
	CushioningBalanced = "balanced"
	CushioningMax      = "max"

	SurfaceRoad  = "road"
	SurfaceTrail = "trail"

	WidthNarrow   = "narrow"
	WidthStandard = "standard"
	WidthWide     = "wide"
)

var recordValidator = validator.New()

// Validate checks that the record carries a usable brand and model.
func (r *SpecRecord) Validate() error {
	return recordValidator.Struct(r)
}

// Key returns the case-insensitive "brand:model" identity used for deduplication.
func (r *SpecRecord) Key() string {
	return strings.ToLower(strings.TrimSpace(r.BrandName)) + ":" + strings.ToLower(strings.TrimSpace(r.Model))
}

// HasCharacteristics reports whether anything beyond brand and model is known.
func (r *SpecRecord) HasCharacteristics() bool {
	return r.HeelHeight != nil || r.ForefootHeight != nil || r.Drop != nil ||
		r.Weight != nil || r.Price != nil || r.CarbonPlate != nil || r.Waterproof != nil ||
		r.UpperBreathability != "" || r.PrimaryUse != "" || r.CushioningType != "" ||
		r.SurfaceType != "" || r.FootWidth != "" || r.AdditionalFeatures != ""
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
