package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "  ## Best Road Running Shoes: Nike Pegasus 41 ($140)\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "## Best Road Running Shoes: Nike Pegasus 41 ($140)\n")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Heel: 32 mm\n- Forefoot: 24 mm\n* Weight: 252 g"
	result := CleanText(input)

	assert.Contains(t, result, "- Heel: 32 mm")
	assert.Contains(t, result, "- Forefoot: 24 mm")
	assert.Contains(t, result, "* Weight: 252 g")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "A   32mm\theel height"
	result := CleanText(input)

	assert.Equal(t, "A 32mm heel height", result)
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	result := CleanText(input)

	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	assert.NotContains(t, result, "\r")
	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Empty(t, CleanText(""))
	assert.Empty(t, CleanText("   \n  \n  "))
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Talón de 32 mm, 🚀 and €130"
	result := CleanText(input)

	assert.Equal(t, input, result)
}

func TestCleanArticle_HTML(t *testing.T) {
	html := `<!DOCTYPE html>
<html><body>
<nav><a href="/">Home</a> Best deals</nav>
<article>
  <h2>Best Road Running Shoes: Nike Pegasus 41 ($140)</h2>
  <p>A daily trainer for road miles with a
     37mm heel and 10mm drop.</p>
  <ul><li>Weight: 9.3 oz</li><li>Surface: road</li></ul>
</article>
<footer>Subscribe to our newsletter</footer>
</body></html>`

	result := CleanArticle(html)

	assert.Contains(t, result, "## Best Road Running Shoes: Nike Pegasus 41 ($140)\n")
	assert.Contains(t, result, "A daily trainer for road miles with a 37mm heel and 10mm drop.")
	assert.Contains(t, result, "- Weight: 9.3 oz")
	assert.NotContains(t, result, "Best deals")
	assert.NotContains(t, result, "newsletter")
	assert.NotContains(t, result, "<")
}

func TestCleanArticle_PlainTextUntouched(t *testing.T) {
	input := "The Hoka Clifton 9 weighs < 9 oz and has a 32mm heel."
	assert.Equal(t, input, CleanArticle(input))
}

func TestHTMLToText_NoBlocks(t *testing.T) {
	text, err := HTMLToText("<div>Nike Pegasus 41 <span>road</span></div>")
	require.NoError(t, err)
	assert.Contains(t, text, "Nike Pegasus 41")
	assert.Contains(t, text, "road")
}

func TestReadArticleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clifton-review.txt")
	require.NoError(t, os.WriteFile(path, []byte("The Hoka Clifton 9 is a road shoe."), 0644))

	a, err := ReadArticleFile(path, "", "https://example.com/clifton")
	require.NoError(t, err)
	assert.Equal(t, "clifton-review", a.Title)
	assert.Equal(t, "https://example.com/clifton", a.SourceLink)
	assert.Contains(t, a.Content, "Clifton 9")
	assert.Len(t, a.ID, len("file-")+12)
	require.NotNil(t, a.Date)

	again, err := ReadArticleFile(path, "Hoka Clifton 9 Review", "")
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID, "same content yields the same id")
	assert.Equal(t, "Hoka Clifton 9 Review", again.Title)
}

func TestReadArticleFile_NotFound(t *testing.T) {
	_, err := ReadArticleFile("/nonexistent/article.txt", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestContentHash(t *testing.T) {
	assert.Len(t, ContentHash("a"), 64)
	assert.Equal(t, ContentHash("a"), ContentHash("a"))
	assert.NotEqual(t, ContentHash("a"), ContentHash("b"))
}
