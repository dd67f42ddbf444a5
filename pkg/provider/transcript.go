package provider

// transcript is the locally-owned conversation history of a chat provider.
// It grows by append only and is never reordered or pruned. Each provider
// instance owns exactly one transcript for its lifetime; access is
// single-goroutine by the ownership contract, so no locking here.
type transcript struct {
	msgs []Message
}

func (t *transcript) seed(msgs []Message) {
	t.msgs = append([]Message(nil), msgs...)
}

func (t *transcript) append(m Message) {
	t.msgs = append(t.msgs, m)
}

// rollback truncates the transcript to n messages. Used to unwind a user
// message when its request failed, so a failed turn leaves no trace.
func (t *transcript) rollback(n int) {
	if n >= 0 && n <= len(t.msgs) {
		t.msgs = t.msgs[:n]
	}
}

func (t *transcript) len() int {
	return len(t.msgs)
}

func (t *transcript) snapshot() []Message {
	return append([]Message(nil), t.msgs...)
}
