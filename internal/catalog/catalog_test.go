package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Brands())

	again := MustDefault()
	assert.Same(t, c, again)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]byte("{not json"))
	assert.Error(t, err)

	_, err = Load([]byte(`{"brands": []}`))
	assert.Error(t, err)
}

func TestCanonicalBrand(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		input    string
		expected string
		known    bool
	}{
		{"HOKA", "Hoka", true},
		{"hoka one one", "Hoka", true},
		{"ASICS", "Asics", true},
		{"adidas", "Adidas", true},
		{"new  balance", "New Balance", true},
		{"ACME", "Acme", false},
		{"KangaROOS", "KangaROOS", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, known := c.CanonicalBrand(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestFindBrands(t *testing.T) {
	c := MustDefault()

	mentions := c.FindBrands("Compared with the Nike Pegasus 40 and the HOKA Clifton 9, the Brooks Ghost 15 is firmer.")
	require.Len(t, mentions, 3)
	assert.Equal(t, "Nike", mentions[0].Brand)
	assert.Equal(t, "Hoka", mentions[1].Brand)
	assert.Equal(t, "HOKA", mentions[1].Text)
	assert.Equal(t, "Brooks", mentions[2].Brand)
	assert.Less(t, mentions[0].Start, mentions[1].Start)
}

func TestFindBrands_AmbiguousBrand(t *testing.T) {
	c := MustDefault()

	assert.Empty(t, c.FindBrands("Run on the road and then on trails."))
	assert.Empty(t, c.FindBrands("On the other hand, it is comfortable."))

	mentions := c.FindBrands("The On Cloudmonster 2 is bouncy.")
	require.Len(t, mentions, 1)
	assert.Equal(t, "On", mentions[0].Brand)

	mentions = c.FindBrands("On Running makes light shoes.")
	require.Len(t, mentions, 1)
	assert.Equal(t, "On", mentions[0].Brand)
}

func TestFindSeries(t *testing.T) {
	c := MustDefault()

	mentions := c.FindSeries("hoka clifton 9 vs adizero boston 12")
	require.Len(t, mentions, 2)
	assert.Equal(t, "Clifton", mentions[0].Series)
	assert.Equal(t, "Hoka", mentions[0].Brand)
	assert.Equal(t, "Adizero Boston", mentions[1].Series)
	assert.Equal(t, "Adidas", mentions[1].Brand)
}

func TestMatchSeriesPrefix(t *testing.T) {
	c := MustDefault()

	series, n, ok := c.MatchSeriesPrefix("Asics", " Megablast is great")
	require.True(t, ok)
	assert.Equal(t, "Megablast", series)
	assert.Equal(t, len(" Megablast"), n)

	_, _, ok = c.MatchSeriesPrefix("Nike", " Megablast is great")
	assert.False(t, ok, "series belongs to another brand")

	_, _, ok = c.MatchSeriesPrefix("Asics", " has a Megablast")
	assert.False(t, ok, "series must start the text")
}

func TestSeriesHelpers(t *testing.T) {
	c := MustDefault()

	brand, ok := c.BrandForSeries("speedgoat")
	assert.True(t, ok)
	assert.Equal(t, "Hoka", brand)

	casing, ok := c.SeriesCasing("gel-kayano")
	assert.True(t, ok)
	assert.Equal(t, "Gel-Kayano", casing)

	assert.True(t, c.IsKnownSeries("Megablast"))
	assert.True(t, c.IsKnownSeries("Fresh Foam X 1080"))
	assert.False(t, c.IsKnownSeries("Comfortable"))

	assert.True(t, c.IsAmbiguousSeries("Guide"))
	assert.False(t, c.IsAmbiguousSeries("Clifton"))

	assert.True(t, c.IsGenericWord("Shoes"))
	assert.True(t, c.IsGenericWord("running,"))
	assert.False(t, c.IsGenericWord("Clifton"))
}

func TestKeywordClasses(t *testing.T) {
	c := MustDefault()

	class, ok := c.NonProductClass("The Best Running Shorts of 2024")
	assert.True(t, ok)
	assert.Equal(t, "apparel", class)

	class, ok = c.NonProductClass("Garmin GPS Watch Review")
	assert.True(t, ok)
	assert.Equal(t, "electronics", class)

	_, ok = c.NonProductClass("Hoka Clifton 9 Review")
	assert.False(t, ok)

	assert.True(t, c.HasReviewKeyword("Hoka Clifton 9 Review"))
	assert.True(t, c.HasRoundupKeyword("Best Nike Running Shoes"))
	assert.False(t, c.HasRoundupKeyword("Hoka Clifton 9 Review"))
	assert.Equal(t, 15, c.ReviewKeywordIndex("Hoka Clifton 9 Review"))
}
