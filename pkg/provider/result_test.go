package provider

import (
	"reflect"
	"testing"
)

func TestParseReplyStructured(t *testing.T) {
	raw := `{"actions": ["sit", "wag_tail"], "answer": "sure thing"}`

	res := ParseReply(raw)
	if !reflect.DeepEqual(res.Actions, []string{"sit", "wag_tail"}) {
		t.Errorf("actions = %v", res.Actions)
	}
	if res.Answer != "sure thing" {
		t.Errorf("answer = %q", res.Answer)
	}
}

func TestParseReplySurroundingText(t *testing.T) {
	raw := "Here is my response:\n```json\n{\"actions\": [\"bark\"], \"answer\": \"woof\"}\n```\nDone."

	res := ParseReply(raw)
	if !reflect.DeepEqual(res.Actions, []string{"bark"}) {
		t.Errorf("actions = %v", res.Actions)
	}
	if res.Answer != "woof" {
		t.Errorf("answer = %q", res.Answer)
	}
}

func TestParseReplyPlainText(t *testing.T) {
	res := ParseReply("  I am just a sentence, no JSON here.  ")
	if !reflect.DeepEqual(res.Actions, []string{DefaultAction}) {
		t.Errorf("actions = %v, want fallback", res.Actions)
	}
	if res.Answer != "I am just a sentence, no JSON here." {
		t.Errorf("answer = %q", res.Answer)
	}
}

func TestParseReplyMalformedJSON(t *testing.T) {
	raw := `{"actions": ["sit",], "answer": "oops"`

	res := ParseReply(raw)
	if !reflect.DeepEqual(res.Actions, []string{DefaultAction}) {
		t.Errorf("actions = %v, want fallback", res.Actions)
	}
	if res.Answer != raw {
		t.Errorf("answer = %q, want raw reply", res.Answer)
	}
}

func TestParseReplyEmptyActions(t *testing.T) {
	res := ParseReply(`{"actions": [], "answer": "nothing to do"}`)
	if !reflect.DeepEqual(res.Actions, []string{DefaultAction}) {
		t.Errorf("actions = %v, want default", res.Actions)
	}
	if res.Answer != "nothing to do" {
		t.Errorf("answer = %q", res.Answer)
	}
}

func TestParseReplyEmptyString(t *testing.T) {
	res := ParseReply("")
	if !reflect.DeepEqual(res.Actions, []string{DefaultAction}) {
		t.Errorf("actions = %v", res.Actions)
	}
	if res.Answer != "" {
		t.Errorf("answer = %q", res.Answer)
	}
}
