package dialogue_test

import (
	"strings"
	"testing"

	"github.com/luvv-ai/backend/internal/model/conversation"
	"github.com/luvv-ai/backend/internal/model/persona"
	"github.com/luvv-ai/backend/internal/service/dialogue"
)

func lovePersona(t *testing.T) persona.Persona {
	t.Helper()
	store := persona.NewMemoryStore(persona.Seed())
	p, ok := store.FindByID("love")
	if !ok {
		t.Fatal("love persona missing from seed")
	}
	return p
}

func TestBuildPromptWithoutDisclosures(t *testing.T) {
	p := lovePersona(t)

	prompt := dialogue.BuildPrompt(p, nil, nil, "hello")

	if !strings.HasPrefix(prompt, p.Description) {
		t.Fatal("prompt should start with the persona description")
	}
	if strings.Contains(prompt, "should not talk about") {
		t.Fatal("empty disclosed set must not produce a suppression clause")
	}
	if !strings.HasSuffix(prompt, "Friend: hello") {
		t.Fatalf("prompt should end with the new user line, got tail %q", prompt[len(prompt)-30:])
	}
}

func TestBuildPromptSuppressionClause(t *testing.T) {
	p := lovePersona(t)
	disclosed := []string{"being 29", "going to amusement parks"}

	prompt := dialogue.BuildPrompt(p, nil, disclosed, "hi")

	clause := "Love should not talk about being 29, going to amusement parks again in this conversation unless specifically asked."
	if !strings.Contains(prompt, clause) {
		t.Fatalf("missing suppression clause, got:\n%s", prompt)
	}
	if strings.Count(prompt, "should not talk about") != 1 {
		t.Fatal("expected exactly one suppression clause")
	}
}

func TestBuildPromptSerializesWindow(t *testing.T) {
	p := lovePersona(t)
	window := []conversation.Turn{
		{Role: conversation.RoleUser, Text: "hello", Index: 0},
		{Role: conversation.RolePersona, Text: "hi there!", Index: 1},
	}

	prompt := dialogue.BuildPrompt(p, window, nil, "how are you?")

	wantLines := "Friend: hello\nLove: hi there!\nFriend: how are you?"
	if !strings.Contains(prompt, wantLines) {
		t.Fatalf("history window not serialized as expected:\n%s", prompt)
	}
}
