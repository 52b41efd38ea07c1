package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON isolates the JSON object containing key from free-form prose.
// Models wrap their verdict in markdown more often than not, so a fenced
// ```json block containing the key wins; bare brace matching around the key
// is the fallback.
//
// Returns (nil, nil) when key never appears in text. A block that contains
// key but cannot be parsed returns a non-nil error.
func ExtractJSON(text string, key string) (map[string]interface{}, error) {
	if !strings.Contains(text, key) {
		return nil, nil
	}

	for _, block := range fencedJSONBlocks(text) {
		if !strings.Contains(block, key) {
			continue
		}
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimSpace(block)), &obj); err != nil {
			return nil, fmt.Errorf("json in code block: %w", err)
		}
		return obj, nil
	}

	return braceMatchedObject(text, key)
}

// fencedJSONBlocks returns the contents of every ```json fence in text, in
// order. Unterminated fences are ignored.
func fencedJSONBlocks(text string) []string {
	const open = "```json"
	const close = "```"

	var blocks []string
	for {
		start := strings.Index(text, open)
		if start == -1 {
			return blocks
		}
		text = text[start+len(open):]
		if len(text) > 0 && text[0] == '\n' {
			text = text[1:]
		}

		end := strings.Index(text, close)
		if end == -1 {
			return blocks
		}
		blocks = append(blocks, text[:end])
		text = text[end+len(close):]
	}
}

// braceMatchedObject carves the object containing (or immediately
// following) key out of bare prose. The '{' preceding the key is tried
// first; models that print the key as a heading before the object make the
// forward scan necessary.
func braceMatchedObject(text string, key string) (map[string]interface{}, error) {
	keyIdx := strings.Index(text, key)
	if keyIdx == -1 {
		return nil, nil
	}

	if open := strings.LastIndex(text[:keyIdx], "{"); open >= 0 {
		if span, ok := objectSpan(text[open:]); ok && strings.Contains(span, key) {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(span), &obj); err == nil {
				return obj, nil
			}
		}
	}

	open := strings.Index(text[keyIdx:], "{")
	if open == -1 {
		return nil, nil
	}
	span, ok := objectSpan(text[keyIdx+open:])
	if !ok {
		return nil, fmt.Errorf("unmatched braces after key %q", key)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, fmt.Errorf("brace-matched json: %w", err)
	}
	return obj, nil
}

// objectSpan returns the prefix of s that forms a complete JSON object,
// assuming s starts at its opening '{'. String literals (with escapes) are
// skipped, and square-bracket depth is tracked separately so a stray ']'
// inside malformed input cannot close the object early.
func objectSpan(s string) (string, bool) {
	if len(s) == 0 || s[0] != '{' {
		return "", false
	}

	braces, brackets := 0, 0
	inString := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			braces++
		case '}':
			braces--
			if braces == 0 && brackets == 0 {
				return s[:i+1], true
			}
		case '[':
			brackets++
		case ']':
			brackets--
		}
	}

	return "", false
}
