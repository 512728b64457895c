package dialogue

import (
	"strings"

	"github.com/luvv-ai/backend/internal/model/conversation"
	"github.com/luvv-ai/backend/internal/model/persona"
)

// HistoryWindow is the number of recent turns presented to the generation
// model.
const HistoryWindow = 16

// BuildPrompt assembles the full generation prompt: the fixed persona
// description, a suppression clause when facts have already been disclosed,
// the rolling history window as "{label}: {text}" lines, and the new user
// turn line. Pure function of its inputs.
func BuildPrompt(p persona.Persona, window []conversation.Turn, disclosed []string, userText string) string {
	var b strings.Builder
	b.WriteString(p.Description)

	if len(disclosed) > 0 {
		b.WriteString(" ")
		b.WriteString(p.Name)
		b.WriteString(" should not talk about ")
		b.WriteString(strings.Join(disclosed, ", "))
		b.WriteString(" again in this conversation unless specifically asked.")
	}

	b.WriteString("\n\n")
	for _, turn := range window {
		b.WriteString(speakerLabel(p, turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}

	b.WriteString(p.UserLabel)
	b.WriteString(": ")
	b.WriteString(userText)

	return b.String()
}

func speakerLabel(p persona.Persona, role conversation.Role) string {
	if role == conversation.RolePersona {
		return p.Name
	}
	return p.UserLabel
}

// sanitizeReply strips the persona-name label artifact the fine-tuned model
// tends to emit ("Love:") and surrounding whitespace.
func sanitizeReply(raw, personaName string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, personaName+":", ""))
}
