package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/shoespec/internal/types"
)

func TestExtract_InlineSingleShoe(t *testing.T) {
	e := New(nil, nil)
	body := "The Hoka Clifton 9 is a daily trainer built for the road. It has a 32mm heel height " +
		"and a 24mm forefoot, for an 8mm drop. It weighs 8.9 ounces (252 grams) and costs $145."

	cands := e.Extract(body)
	require.Len(t, cands, 1)

	c := cands[0]
	assert.Equal(t, types.SourceRegex, c.Source)
	assert.Equal(t, "Hoka", c.Record.BrandName)
	assert.Equal(t, "Clifton 9", c.Record.Model)
	require.NotNil(t, c.Record.HeelHeight)
	assert.Equal(t, 32.0, *c.Record.HeelHeight)
	require.NotNil(t, c.Record.ForefootHeight)
	assert.Equal(t, 24.0, *c.Record.ForefootHeight)
	require.NotNil(t, c.Record.Drop)
	assert.Equal(t, 8.0, *c.Record.Drop)
	require.NotNil(t, c.Record.Weight)
	assert.Equal(t, 252.0, *c.Record.Weight)
	require.NotNil(t, c.Record.Price)
	assert.Equal(t, 145.0, *c.Record.Price)
	assert.Equal(t, types.SurfaceRoad, c.Record.SurfaceType)
	assert.Equal(t, "daily training", c.Record.PrimaryUse)
	assert.Equal(t, 12, c.Richness)
}

func TestExtract_InlineSeveralBrands(t *testing.T) {
	e := New(nil, nil)
	body := "The Adidas Adizero Boston 12 is a tempo shoe for the road with a 36mm heel and a 6mm drop.\n\n" +
		"The Nike Pegasus 41 is a daily trainer on the road: heel height of 37mm, forefoot height of 27mm.\n\n" +
		"The Brooks Cascadia 18 is built for rocky trail runs with a 34mm heel and a 6mm drop."

	cands := e.Extract(body)
	require.Len(t, cands, 3)

	assert.Equal(t, "Adidas", cands[0].Record.BrandName)
	assert.Equal(t, "Adizero Boston 12", cands[0].Record.Model)
	assert.Equal(t, "tempo", cands[0].Record.PrimaryUse)
	require.NotNil(t, cands[0].Record.Drop)
	assert.Equal(t, 6.0, *cands[0].Record.Drop)

	assert.Equal(t, "Nike", cands[1].Record.BrandName)
	assert.Equal(t, "Pegasus 41", cands[1].Record.Model)
	require.NotNil(t, cands[1].Record.Drop)
	assert.Equal(t, 10.0, *cands[1].Record.Drop, "drop is derived from heel and forefoot")
	assert.Equal(t, "daily training", cands[1].Record.PrimaryUse)

	assert.Equal(t, "Brooks", cands[2].Record.BrandName)
	assert.Equal(t, "Cascadia 18", cands[2].Record.Model)
	assert.Equal(t, types.SurfaceTrail, cands[2].Record.SurfaceType)
	assert.Equal(t, "trail running", cands[2].Record.PrimaryUse)
}

func TestExtract_Gates(t *testing.T) {
	e := New(nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"no specs at all", "Nike makes a lot of shoes. The Nike Pegasus 40 is comfortable."},
		{"no use or surface", "The Hoka Clifton 9 has a 32mm heel."},
		{"no height or drop", "The Hoka Clifton 9 is a great road shoe for $145."},
		{"generic model words", "Nike Running 2 is a road shoe with a 30mm heel."},
		{"bare brand", "Brooks is a road brand and its shoes have a 10mm drop."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, e.Extract(tt.body))
		})
	}
}

func TestExtract_FreeFormModel(t *testing.T) {
	e := New(nil, nil)

	cands := e.Extract("The Nike Zoom Whatever 3 is a road shoe with a 33mm heel.")
	require.Len(t, cands, 1)
	assert.Equal(t, "Zoom Whatever 3", cands[0].Record.Model)
}

func TestExtract_MergesOverlappingModels(t *testing.T) {
	e := New(nil, nil)
	body := "The Nike Pegasus is a road shoe with a 10mm drop. Runners love it.\n\n" +
		"The Nike Pegasus 40 has a 37mm heel and costs $130 for road miles."

	cands := e.Extract(body)
	require.Len(t, cands, 1)

	rec := cands[0].Record
	assert.Equal(t, "Pegasus 40", rec.Model)
	require.NotNil(t, rec.HeelHeight)
	assert.Equal(t, 37.0, *rec.HeelHeight)
	require.NotNil(t, rec.Drop)
	assert.Equal(t, 10.0, *rec.Drop)
	require.NotNil(t, rec.Price)
	assert.Equal(t, 130.0, *rec.Price)
}

func TestExtract_Headings(t *testing.T) {
	e := New(nil, nil)
	body := "## Best Road Running Shoes: Nike Pegasus 41 ($140)\n" +
		"A daily trainer for road miles with a 37mm heel and 10mm drop, priced at $150 in some stores.\n\n" +
		"## Best Trail Running Shoes: Hoka Speedgoat 6 GTX\n" +
		"Grippy trail shoe with a 40mm heel, 5mm drop and waterproof upper. It costs $165.\n"

	cands := e.Extract(body)
	require.Len(t, cands, 2)

	nike := cands[0].Record
	assert.Equal(t, "Nike", nike.BrandName)
	assert.Equal(t, "Pegasus 41", nike.Model)
	require.NotNil(t, nike.Price)
	assert.Equal(t, 140.0, *nike.Price, "heading price wins over prices in the block")
	assert.Equal(t, types.SurfaceRoad, nike.SurfaceType)

	hoka := cands[1].Record
	assert.Equal(t, "Hoka", hoka.BrandName)
	assert.Equal(t, "Speedgoat 6 GTX", hoka.Model)
	assert.Equal(t, types.SurfaceTrail, hoka.SurfaceType)
	require.NotNil(t, hoka.Waterproof)
	assert.True(t, *hoka.Waterproof)
	require.NotNil(t, hoka.Price)
	assert.Equal(t, 165.0, *hoka.Price)
}

func TestExtract_HeadingShapedLineInsideBlock(t *testing.T) {
	e := New(nil, nil)
	body := "## Best Trail Running Shoes: Hoka Speedgoat 6 ($155)\n" +
		"Trail grip: superb on rocks.\n" +
		"It has a 38mm heel and a 4mm drop for technical trail runs.\n\n" +
		"## Best Road Running Shoes: Nike Pegasus 41 ($140)\n" +
		"A daily trainer for road miles with a 37mm heel and 10mm drop.\n"

	cands := e.Extract(body)
	require.Len(t, cands, 2)

	hoka := cands[0].Record
	assert.Equal(t, "Hoka", hoka.BrandName)
	assert.Equal(t, "Speedgoat 6", hoka.Model)
	require.NotNil(t, hoka.HeelHeight)
	assert.Equal(t, 38.0, *hoka.HeelHeight)
	require.NotNil(t, hoka.Drop)
	assert.Equal(t, 4.0, *hoka.Drop)
	require.NotNil(t, hoka.Price)
	assert.Equal(t, 155.0, *hoka.Price)

	assert.Equal(t, "Pegasus 41", cands[1].Record.Model)
}

func TestExtract_ModelNumbers(t *testing.T) {
	e := New(nil, nil)
	body := "The New Balance 1080v13 is a road shoe with a 38mm heel and 6mm drop. " +
		"The New Balance FuelCell SC Elite v4 is a carbon-plated road racer with a 40mm heel."

	cands := e.Extract(body)
	require.Len(t, cands, 2)

	assert.Equal(t, "New Balance", cands[0].Record.BrandName)
	assert.Equal(t, "1080v13", cands[0].Record.Model)
	require.NotNil(t, cands[0].Record.HeelHeight)
	assert.Equal(t, 38.0, *cands[0].Record.HeelHeight)
	require.NotNil(t, cands[0].Record.Drop)
	assert.Equal(t, 6.0, *cands[0].Record.Drop)

	assert.Equal(t, "FuelCell SC Elite v4", cands[1].Record.Model)
}

func TestExtract_HeadingsWithoutModelsFallBackToInline(t *testing.T) {
	e := New(nil, nil)
	body := "## Best Value: plenty of options\n" +
		"The Hoka Clifton 9 is a road shoe with a 32mm heel."

	cands := e.Extract(body)
	require.Len(t, cands, 1)
	assert.Equal(t, "Clifton 9", cands[0].Record.Model)
}

func TestExtractFields(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, r types.SpecRecord)
	}{
		{
			name: "stack range",
			text: "Stack heights are 39-31 mm.",
			check: func(t *testing.T, r types.SpecRecord) {
				require.NotNil(t, r.HeelHeight)
				require.NotNil(t, r.ForefootHeight)
				require.NotNil(t, r.Drop)
				assert.Equal(t, 39.0, *r.HeelHeight)
				assert.Equal(t, 31.0, *r.ForefootHeight)
				assert.Equal(t, 8.0, *r.Drop)
			},
		},
		{
			name: "heel-to-toe drop is not a heel height",
			text: "A 10mm heel-to-toe drop.",
			check: func(t *testing.T, r types.SpecRecord) {
				assert.Nil(t, r.HeelHeight)
				require.NotNil(t, r.Drop)
				assert.Equal(t, 10.0, *r.Drop)
			},
		},
		{
			name: "zero drop",
			text: "A zero-drop platform with a 29mm heel.",
			check: func(t *testing.T, r types.SpecRecord) {
				require.NotNil(t, r.Drop)
				assert.Equal(t, 0.0, *r.Drop)
			},
		},
		{
			name: "drop before number",
			text: "Drop: 6 mm",
			check: func(t *testing.T, r types.SpecRecord) {
				require.NotNil(t, r.Drop)
				assert.Equal(t, 6.0, *r.Drop)
			},
		},
		{
			name: "negated waterproofing",
			text: "It is not waterproof.",
			check: func(t *testing.T, r types.SpecRecord) {
				require.NotNil(t, r.Waterproof)
				assert.False(t, *r.Waterproof)
			},
		},
		{
			name: "gore-tex upper",
			text: "It has a Gore-Tex upper.",
			check: func(t *testing.T, r types.SpecRecord) {
				require.NotNil(t, r.Waterproof)
				assert.True(t, *r.Waterproof)
			},
		},
		{
			name: "carbon plate",
			text: "A carbon-plated racer for race day.",
			check: func(t *testing.T, r types.SpecRecord) {
				require.NotNil(t, r.CarbonPlate)
				assert.True(t, *r.CarbonPlate)
				assert.Equal(t, "racing", r.PrimaryUse)
				assert.Equal(t, types.SurfaceRoad, r.SurfaceType)
			},
		},
		{
			name: "out of range height is dropped",
			text: "A 75mm heel.",
			check: func(t *testing.T, r types.SpecRecord) {
				assert.Nil(t, r.HeelHeight)
			},
		},
		{
			name: "nothing known",
			text: "A comfortable shoe.",
			check: func(t *testing.T, r types.SpecRecord) {
				assert.Nil(t, r.Waterproof)
				assert.Nil(t, r.CarbonPlate)
				assert.Empty(t, r.SurfaceType)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, extractFields(tt.text, nil))
		})
	}
}

func TestMergeOverlapping(t *testing.T) {
	cands := []types.Candidate{
		{Record: types.SpecRecord{BrandName: "Nike", Model: "Pegasus", Drop: types.Float(10)}},
		{Record: types.SpecRecord{BrandName: "Brooks", Model: "Ghost 15"}},
		{Record: types.SpecRecord{BrandName: "nike", Model: "Pegasus 40", HeelHeight: types.Float(37)}},
		{Record: types.SpecRecord{BrandName: "Nike", Model: "Pegasus Trail 4 GTX"}},
		{Record: types.SpecRecord{BrandName: "Brooks", Model: "Ghost 1", Price: types.Float(90)}},
	}

	out := mergeOverlapping(cands)
	require.Len(t, out, 4)
	assert.Equal(t, "Pegasus 40", out[0].Record.Model)
	require.NotNil(t, out[0].Record.Drop)
	assert.Equal(t, 10.0, *out[0].Record.Drop)
	assert.Equal(t, "Ghost 15", out[1].Record.Model)
	assert.Equal(t, "Pegasus Trail 4 GTX", out[2].Record.Model, "suffix too long to be the same shoe")
	assert.Equal(t, "Ghost 1", out[3].Record.Model, "a version prefix is a different shoe")
	assert.Nil(t, out[1].Record.Price)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Pegasus", "Pegasus 40", true},
		{"pegasus 40", "Pegasus 40", true},
		{"Pegasus 4", "Pegasus 40", false},
		{"Ghost 15", "Ghost 1", false},
		{"Ghost", "Ghosting 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			a := types.SpecRecord{BrandName: "Nike", Model: tt.a}
			b := types.SpecRecord{BrandName: "nike", Model: tt.b}
			assert.Equal(t, tt.want, overlaps(a, b))
			assert.Equal(t, tt.want, overlaps(b, a))
		})
	}
}
