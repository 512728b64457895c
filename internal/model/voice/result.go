package voice

import "time"

// TurnResult is the outcome of one end-to-end voice exchange. Audio may be
// empty when synthesis failed after the reply text was produced; the text is
// still a valid result in that case.
type TurnResult struct {
	SessionID  string    `json:"sessionId"`
	Transcript string    `json:"transcript"`
	ReplyText  string    `json:"replyText"`
	Audio      []byte    `json:"-"`
	Format     string    `json:"format,omitempty"`
	AudioError string    `json:"audioError,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HasAudio reports whether synthesis produced a playable clip.
func (r *TurnResult) HasAudio() bool {
	return len(r.Audio) > 0
}
