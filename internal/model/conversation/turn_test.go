package conversation_test

import (
	"fmt"
	"testing"

	"github.com/luvv-ai/backend/internal/model/conversation"
)

func TestHistoryWindowReturnsLastTurns(t *testing.T) {
	h := &conversation.History{}
	for i := 0; i < 20; i++ {
		h.Append(conversation.RoleUser, fmt.Sprintf("turn-%d", i))
	}

	window := h.Window(16)
	if len(window) != 16 {
		t.Fatalf("expected 16 turns, got %d", len(window))
	}
	if window[0].Text != "turn-4" {
		t.Fatalf("expected window to start at turn-4, got %s", window[0].Text)
	}
	if window[15].Text != "turn-19" {
		t.Fatalf("expected window to end at turn-19, got %s", window[15].Text)
	}

	for i := 1; i < len(window); i++ {
		if window[i].Index != window[i-1].Index+1 {
			t.Fatalf("window out of order at position %d", i)
		}
	}
}

func TestHistoryWindowShorterThanN(t *testing.T) {
	h := &conversation.History{}
	h.Append(conversation.RoleUser, "hello")
	h.Append(conversation.RolePersona, "hi")

	window := h.Window(16)
	if len(window) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(window))
	}
	if window[0].Role != conversation.RoleUser || window[1].Role != conversation.RolePersona {
		t.Fatalf("unexpected roles: %v %v", window[0].Role, window[1].Role)
	}
}

func TestHistoryWindowEmpty(t *testing.T) {
	h := &conversation.History{}
	if got := h.Window(16); len(got) != 0 {
		t.Fatalf("expected empty window, got %d turns", len(got))
	}
}

func TestHistoryAppendAssignsSequentialIndexes(t *testing.T) {
	h := &conversation.History{}
	first := h.Append(conversation.RoleUser, "a")
	second := h.Append(conversation.RolePersona, "b")

	if first.Index != 0 || second.Index != 1 {
		t.Fatalf("unexpected indexes: %d %d", first.Index, second.Index)
	}
	if h.Len() != 2 {
		t.Fatalf("expected length 2, got %d", h.Len())
	}
}

func TestDisclosedTraitsGrowMonotonically(t *testing.T) {
	d := conversation.NewDisclosedTraits()

	if !d.Add("being 29") {
		t.Fatal("first add should report true")
	}
	if d.Add("being 29") {
		t.Fatal("duplicate add should report false")
	}
	d.Add("being a pet groomer")

	facts := d.List()
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(facts))
	}
	if facts[0] != "being 29" || facts[1] != "being a pet groomer" {
		t.Fatalf("insertion order not preserved: %v", facts)
	}
	if !d.Contains("being 29") {
		t.Fatal("expected Contains to report recorded fact")
	}
}
