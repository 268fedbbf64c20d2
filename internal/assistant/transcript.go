package assistant

import "sync"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Entry struct {
	Role Role
	Text string
}

// Transcript is the in-memory conversation of one client session.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

func (t *Transcript) Append(role Role, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{Role: role, Text: text})
}

// Entries returns a copy in insertion order.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}
