// Package ingestion turns raw article content into the plain text the
// extractors read: HTML is flattened to one block per line and whitespace is
// normalized while headings and list items keep their own lines.
package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/shoespec/internal/types"
)

var (
	spaceRun       = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLineRun   = regexp.MustCompile(`\n\n\n+`)
	htmlTagSniffer = regexp.MustCompile(`(?i)<(?:html|body|article|div|p|h[1-6]|ul|ol|li|br|span|section)\b[^>]*>`)
)

// CleanText normalizes line endings and whitespace while preserving structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a line and collapses inner whitespace. Headings and bullets
// lose their indentation.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	return spaceRun.ReplaceAllString(trimmed, " ")
}

// LooksLikeHTML reports whether content carries block-level markup.
func LooksLikeHTML(content string) bool {
	return htmlTagSniffer.MatchString(content)
}

// CleanArticle returns the extractable text of an article body, flattening
// HTML first when the body contains markup. Unparseable markup is treated as
// plain text.
func CleanArticle(content string) string {
	if LooksLikeHTML(content) {
		if text, err := HTMLToText(content); err == nil {
			return CleanText(text)
		}
	}
	return CleanText(content)
}

// ReadArticleFile loads a local article body as an Article. The ID is derived
// from the content hash, so the same file always yields the same ID.
func ReadArticleFile(path, title, sourceLink string) (types.Article, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Article{}, fmt.Errorf("file not found: %w", err)
		}
		return types.Article{}, fmt.Errorf("failed to read file: %w", err)
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	now := time.Now().UTC()
	return types.Article{
		ID:         "file-" + ContentHash(string(content))[:12],
		Title:      title,
		Content:    string(content),
		Date:       &now,
		SourceLink: sourceLink,
	}, nil
}

// ContentHash returns the SHA-256 hex digest of content.
func ContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
