package conversation

// Role identifies the speaker of a turn.
type Role string

const (
	RoleUser    Role = "user"
	RolePersona Role = "persona"
)

// Turn is a single utterance in a conversation. Immutable once appended.
type Turn struct {
	Role  Role   `json:"role"`
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// History is an append-only, strictly chronological sequence of turns.
// The zero value is ready to use.
type History struct {
	turns []Turn
}

// Append records a new turn at the end of the history.
func (h *History) Append(role Role, text string) Turn {
	turn := Turn{Role: role, Text: text, Index: len(h.turns)}
	h.turns = append(h.turns, turn)
	return turn
}

// Window returns the last n turns in chronological order, or the full
// history when it holds fewer than n turns.
func (h *History) Window(n int) []Turn {
	if n < 0 {
		n = 0
	}
	start := len(h.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(h.turns)-start)
	copy(out, h.turns[start:])
	return out
}

// Len reports the number of recorded turns.
func (h *History) Len() int {
	return len(h.turns)
}
