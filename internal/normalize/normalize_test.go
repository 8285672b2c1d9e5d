package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/shoespec/internal/types"
)

func TestModelKey(t *testing.T) {
	tests := []struct {
		brand    string
		model    string
		expected string
	}{
		{"Hoka", "Clifton 9", "hoka clifton 9"},
		{"HOKA", "  clifton   9 ", "hoka clifton 9"},
		{"Asics", "Gel-Kayano 31", "asics gel kayano 31"},
		{"Asics", "GEL KAYANO 31", "asics gel kayano 31"},
		{"Saucony", "Endorphin Pro 4!", "saucony endorphin pro 4"},
		{"Salomon", "Génesis", "salomon genesis"},
		{"Brooks", "Ghost's 16", "brooks ghosts 16"},
	}

	for _, tt := range tests {
		t.Run(tt.brand+" "+tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, ModelKey(tt.brand, tt.model))
		})
	}
}

func TestModelKey_Deterministic(t *testing.T) {
	assert.Equal(t, ModelKey("New Balance", "Fresh Foam X 1080v13"), ModelKey("new balance", "fresh-foam x 1080v13"))
}

func TestNormalizer_Model(t *testing.T) {
	n := New(nil)

	tests := []struct {
		name     string
		brand    string
		model    string
		expected string
	}{
		{"brand prefix removed", "Hoka", "Hoka Clifton 9", "Clifton 9"},
		{"alias prefix removed", "Hoka", "HOKA ONE ONE Bondi 8", "Bondi 8"},
		{"series casing restored", "Asics", "gel-kayano 31", "Gel-Kayano 31"},
		{"lowercase words capitalised", "Nike", "zoom whatever 3", "Zoom Whatever 3"},
		{"mixed case kept", "Nike", "ZoomX  Streakfly", "ZoomX Streakfly"},
		{"model equal to brand kept", "Hoka", "Hoka", "Hoka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Model(tt.brand, tt.model))
		})
	}
}

func TestNormalizer_Record(t *testing.T) {
	n := New(nil)
	in := types.SpecRecord{
		BrandName:          "HOKA",
		Model:              "hoka clifton 9",
		HeelHeight:         types.Float(32.456),
		ForefootHeight:     types.Float(70),
		Weight:             types.Float(252),
		Price:              types.Float(20),
		UpperBreathability: "Excellent",
		CushioningType:     "cloud-like",
		SurfaceType:        "Road",
		PrimaryUse:         "  Daily   Training ",
	}

	out, warnings := n.Record(in)

	assert.Equal(t, "Hoka", out.BrandName)
	assert.Equal(t, "Clifton 9", out.Model)
	require.NotNil(t, out.HeelHeight)
	assert.Equal(t, 32.46, *out.HeelHeight)
	assert.Nil(t, out.ForefootHeight)
	assert.Nil(t, out.Price)
	require.NotNil(t, out.Weight)
	assert.Equal(t, "high", out.UpperBreathability)
	assert.Empty(t, out.CushioningType)
	assert.Equal(t, "road", out.SurfaceType)
	assert.Equal(t, "daily training", out.PrimaryUse)
	assert.Len(t, warnings, 3)

	// input untouched
	assert.Equal(t, "HOKA", in.BrandName)
	require.NotNil(t, in.ForefootHeight)
	assert.Equal(t, 70.0, *in.ForefootHeight)
}
