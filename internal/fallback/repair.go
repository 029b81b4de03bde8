package fallback

import (
	"encoding/json"
	"regexp"
	"strings"

	pickschema "github.com/Ducky705/Live-Pick-Scraper/schema"
)

var fenceRe = regexp.MustCompile("(?i)```(?:json)?")

// repairResponse recovers pick objects from a model response: the first
// balanced array when it parses, otherwise every balanced object that parses
// on its own.
func repairResponse(content string) ([]any, error) {
	text := strings.TrimSpace(fenceRe.ReplaceAllString(content, ""))
	if text == "" {
		return nil, ErrParse
	}

	if start := strings.IndexByte(text, '['); start >= 0 {
		if end := matchingClose(text, start); end > start {
			if value, err := pickschema.DecodeJSON([]byte(text[start : end+1])); err == nil {
				if items, ok := value.([]any); ok {
					return items, nil
				}
			}
		}
	}

	var items []any
	found := false
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end := matchingClose(text, i)
		if end < 0 {
			// cut off; inner objects may still be whole
			continue
		}
		value, err := pickschema.DecodeJSON([]byte(text[i : end+1]))
		if err != nil {
			continue
		}
		obj, ok := value.(map[string]any)
		if !ok {
			continue
		}
		found = true
		// {"picks":[...]} wrappers
		if nested, ok := obj["picks"].([]any); ok {
			items = append(items, nested...)
		} else {
			items = append(items, obj)
		}
		i = end
	}
	if !found {
		return nil, ErrParse
	}
	return items, nil
}

// matchingClose returns the index of the bracket closing text[open], skipping
// string literals, or -1.
func matchingClose(text string, open int) int {
	opener := text[open]
	closer := byte(']')
	if opener == '{' {
		closer = '}'
	}
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func encodeJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
