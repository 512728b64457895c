package dialogue

import (
	"strings"

	"github.com/luvv-ai/backend/internal/model/conversation"
	"github.com/luvv-ai/backend/internal/model/persona"
)

// TraitTracker records which persona facts a generated reply has disclosed.
// It sits behind an interface so the detection strategy can be swapped
// without touching the orchestrator.
type TraitTracker interface {
	Record(p persona.Persona, text string, disclosed *conversation.DisclosedTraits)
}

// KeywordTracker detects disclosures with a case-insensitive substring match
// against the persona's fact keywords. Idempotent: re-scanning the same text
// never duplicates entries.
type KeywordTracker struct{}

// NewKeywordTracker returns the default keyword-based tracker.
func NewKeywordTracker() *KeywordTracker {
	return &KeywordTracker{}
}

// Record adds the fact description for every keyword present in text that is
// not already in the disclosed set.
func (k *KeywordTracker) Record(p persona.Persona, text string, disclosed *conversation.DisclosedTraits) {
	lowered := strings.ToLower(text)
	for _, fact := range p.Facts {
		if strings.Contains(lowered, strings.ToLower(fact.Keyword)) {
			disclosed.Add(fact.Description)
		}
	}
}
