package provider

import (
	"encoding/json"
	"strings"
)

// DefaultAction is the no-op action substituted when a reply carries no
// action list of its own.
const DefaultAction = "stop"

// DialogueResult is the parsed outcome of one dialogue turn.
type DialogueResult struct {
	// Actions is the ordered list of action identifiers to perform.
	// Never empty: defaults to [DefaultAction].
	Actions []string `json:"actions"`

	// Answer is the text to speak. May be empty.
	Answer string `json:"answer"`
}

// ParseReply converts a raw assistant reply into a DialogueResult.
//
// Replies are expected to be a JSON object {"actions": [...], "answer":
// "..."} but models routinely wrap the object in prose or code fences, or
// answer in plain text. The parse is strict: the outermost JSON object is
// extracted and unmarshalled, and any failure degrades deterministically
// to {Actions: [DefaultAction], Answer: raw}. Reply text is never
// evaluated or executed.
func ParseReply(raw string) *DialogueResult {
	trimmed := strings.TrimSpace(raw)

	if obj, ok := extractObject(trimmed); ok {
		var result DialogueResult
		if err := json.Unmarshal([]byte(obj), &result); err == nil {
			if len(result.Actions) == 0 {
				result.Actions = []string{DefaultAction}
			}
			return &result
		}
	}

	return &DialogueResult{
		Actions: []string{DefaultAction},
		Answer:  trimmed,
	}
}

// extractObject returns the outermost {...} span of s, if any.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
