// Package parser extracts the model's text and structured verdicts from
// claude CLI output for the retcon CLI.
package parser

import (
	"encoding/json"
	"strings"
)

// streamEvent is the subset of a stream-json line that carries text.
type streamEvent struct {
	Type    string `json:"type"`
	Result  string `json:"result"`
	Message struct {
		Content []contentBlock `json:"content"`
	} `json:"message"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ParseStreamJSON extracts the model's text output from a stream-json
// transcript. Each line is one JSON event. Text blocks from assistant
// events are concatenated in order; when a transcript carries no
// assistant text at all, the final result event's text is used instead.
// Malformed lines and non-text content blocks are skipped.
func ParseStreamJSON(input string) string {
	var assistant strings.Builder
	var result string

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}

		switch event.Type {
		case "assistant":
			for _, block := range event.Message.Content {
				if block.Type == "text" && block.Text != "" {
					assistant.WriteString(block.Text)
				}
			}
		case "result":
			result = event.Result
		}
	}

	if assistant.Len() > 0 {
		return assistant.String()
	}
	return result
}
