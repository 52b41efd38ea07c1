package parser

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// TurnResultKey anchors the verdict block the model must emit at the end of
// every turn.
const TurnResultKey = "RETCON_RESULT"

// TurnResult is the model's verdict for one turn. Status is one of
// "success", "stuck", or "done"; a stuck verdict must carry a reason.
type TurnResult struct {
	Status string `json:"status" validate:"required,oneof=success stuck done"`
	Reason string `json:"reason" validate:"required_if=Status stuck"`
}

var turnValidate = validator.New()

// ParseTurnResult finds and validates the RETCON_RESULT block in the model's
// text. Both the keyed wrapper form {"RETCON_RESULT": {...}} and a bare
// {"status": ..., "reason": ...} object following the key are accepted.
//
// Returns (nil, nil) when no block is present at all; the caller decides
// whether that is fatal. A block that is present but malformed, or that
// fails schema validation, returns a non-nil error.
func ParseTurnResult(text string) (*TurnResult, error) {
	obj, err := ExtractJSON(text, TurnResultKey)
	if err != nil {
		return nil, fmt.Errorf("%s block: %w", TurnResultKey, err)
	}
	if obj == nil {
		return nil, nil
	}

	inner, ok := obj[TurnResultKey].(map[string]interface{})
	if !ok {
		inner = obj
	}

	raw, err := json.Marshal(inner)
	if err != nil {
		return nil, fmt.Errorf("%s block: %w", TurnResultKey, err)
	}
	result := &TurnResult{}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, fmt.Errorf("%s block: %w", TurnResultKey, err)
	}

	if err := turnValidate.Struct(result); err != nil {
		return nil, fmt.Errorf("invalid %s block: %w", TurnResultKey, err)
	}
	return result, nil
}
