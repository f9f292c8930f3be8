package intelligence

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/llm"
)

// ErrUnparseable indicates neither the text nor a native function call
// could be turned into a response.
var ErrUnparseable = errors.New("model output unparseable")

// rawReply is the lenient shape of the model's JSON. Fields are decoded
// loosely so one malformed field does not discard the whole reply.
type rawReply struct {
	Text       any             `json:"text"`
	Action     json.RawMessage `json:"action"`
	Confidence any             `json:"confidence"`
}

// parseReply turns raw model output into an unsanitized response. It tries
// the first JSON object in the text, then a native function call.
func parseReply(out *llm.GenerateResponse) (domain.AIResponse, error) {
	if out == nil {
		return domain.AIResponse{}, ErrUnparseable
	}

	var textErr error
	if strings.TrimSpace(out.Text) != "" {
		reply, err := llm.ExtractJSON[rawReply](out.Text, nil)
		if err == nil {
			return reply.toResponse(), nil
		}
		textErr = err
	}

	if out.FunctionCall != nil && out.FunctionCall.Name != "" {
		return fromFunctionCall(out.FunctionCall), nil
	}

	if textErr != nil {
		return domain.AIResponse{}, fmt.Errorf("%w: %v", ErrUnparseable, textErr)
	}
	return domain.AIResponse{}, fmt.Errorf("%w: empty output", ErrUnparseable)
}

func (r rawReply) toResponse() domain.AIResponse {
	text, _ := r.Text.(string)
	return domain.AIResponse{
		Text:       text,
		Action:     decodeAction(r.Action),
		Confidence: decodeConfidence(r.Confidence),
	}
}

// decodeAction accepts {"type": "...", "params": {...}} and treats anything
// else (null, strings, arrays) as no action.
func decodeAction(raw json.RawMessage) *domain.ActionRef {
	if len(raw) == 0 {
		return nil
	}
	var a struct {
		Type   string         `json:"type"`
		Params map[string]any `json:"params"`
	}
	if err := json.Unmarshal(raw, &a); err != nil || a.Type == "" {
		return nil
	}
	if a.Params == nil {
		a.Params = map[string]any{}
	}
	return &domain.ActionRef{Type: domain.ActionType(a.Type), Params: a.Params}
}

// decodeConfidence returns a value in [0,1], DefaultConfidence when absent
// or unreadable.
func decodeConfidence(v any) float64 {
	var f float64
	switch c := v.(type) {
	case float64:
		f = c
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return DefaultConfidence
		}
		f = parsed
	default:
		return DefaultConfidence
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultConfidence
	}
	return math.Max(0, math.Min(1, f))
}

// fromFunctionCall synthesizes a response from a native call. An optional
// "text" argument becomes the reply text; the rest become params.
func fromFunctionCall(fc *llm.FunctionCall) domain.AIResponse {
	params := make(map[string]any, len(fc.Args))
	var text string
	for k, v := range fc.Args {
		if k == "text" {
			text, _ = v.(string)
			continue
		}
		params[k] = v
	}
	return domain.AIResponse{
		Text:       text,
		Action:     &domain.ActionRef{Type: domain.ActionType(fc.Name), Params: params},
		Confidence: DefaultConfidence,
	}
}
