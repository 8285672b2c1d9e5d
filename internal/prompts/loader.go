// Package prompts loads the LLM prompt templates embedded with the binary.
// Each JSON file maps keys to either a string template or a structured value
// such as a list of few-shot examples.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	cache   = make(map[string]map[string]json.RawMessage)
	cacheMu sync.RWMutex
)

// Get retrieves a string prompt by filename (e.g. "fallback.json") and key.
func Get(filename, key string) (string, error) {
	var prompt string
	if err := Decode(filename, key, &prompt); err != nil {
		return "", err
	}
	return prompt, nil
}

// MustGet is Get for prompts required at initialization time; it panics on error.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Decode unmarshals the value stored under key into v.
func Decode(filename, key string, v any) error {
	entries, err := loadFile(filename)
	if err != nil {
		return err
	}
	raw, exists := entries[key]
	if !exists {
		return fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode prompt %q in %s: %w", key, filename, err)
	}
	return nil
}

// Format replaces {{.Key}} placeholders with values from data. Unknown
// placeholders are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the keys of a prompt file in sorted order.
func List(filename string) ([]string, error) {
	entries, err := loadFile(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// ClearCache drops parsed files. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]json.RawMessage)
	cacheMu.Unlock()
}

func loadFile(filename string) (map[string]json.RawMessage, error) {
	cacheMu.RLock()
	entries, exists := cache[filename]
	cacheMu.RUnlock()
	if exists {
		return entries, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = entries
	cacheMu.Unlock()
	return entries, nil
}
