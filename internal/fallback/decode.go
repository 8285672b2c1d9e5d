package fallback

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/jonathan/shoespec/internal/llm"
)

// wrapperKeys are the object keys a record array may hide under, in lookup order.
var wrapperKeys = []string{"items", "sneakers", "models"}

// decodePayload turns a provider response into one raw JSON object per record.
// Accepted shapes, tried in order:
//  1. a top-level array of records
//  2. an object holding the array under "items", "sneakers" or "models"
//  3. an object with a singular "model" key: either a nested record object, or
//     a model name string, in which case the object itself is the record
//
// Slightly broken JSON is repaired first. An empty array is a valid answer.
func decodePayload(raw string) ([]json.RawMessage, error) {
	text := llm.CleanJSONBlock(raw)
	if text == "" {
		return nil, &ParseError{Message: "empty response"}
	}
	if !json.Valid([]byte(text)) {
		repaired, err := jsonrepair.JSONRepair(text)
		if err != nil {
			return nil, &ParseError{Message: "response is not JSON", Cause: err}
		}
		text = repaired
	}

	switch firstByte(json.RawMessage(text)) {
	case '[':
		return decodeArray(json.RawMessage(text))
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return nil, &ParseError{Message: "invalid response object", Cause: err}
		}
		for _, key := range wrapperKeys {
			if inner, ok := obj[key]; ok && isArray(inner) {
				return decodeArray(inner)
			}
		}
		if single, ok := obj["model"]; ok {
			switch firstByte(single) {
			case '{':
				return []json.RawMessage{single}, nil
			case '"':
				return []json.RawMessage{json.RawMessage(text)}, nil
			}
		}
		return nil, &ParseError{Message: "response object holds no records"}
	default:
		return nil, &ParseError{Message: "response is neither an array nor an object"}
	}
}

func decodeArray(raw json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ParseError{Message: "invalid record array", Cause: err}
	}
	out := items[:0]
	for _, item := range items {
		if firstByte(item) == '{' {
			out = append(out, item)
		}
	}
	return out, nil
}

func isArray(raw json.RawMessage) bool {
	return firstByte(raw) == '['
}

func firstByte(raw json.RawMessage) byte {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return 0
	}
	return s[0]
}
