package transcribe_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/luvv-ai/backend/internal/service/transcribe"
)

func writeFakeCLI(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-whisper")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake cli: %v", err)
	}
	return path
}

func TestWhisperCLITranscribe(t *testing.T) {
	cli := writeFakeCLI(t, `printf ' hello there \n'`)

	w := transcribe.NewWhisperCLI(cli, "model.bin", "en")
	text, err := w.Transcribe(context.Background(), "clip.wav")
	if err != nil {
		t.Fatalf("Transcribe err: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("expected trimmed transcript, got %q", text)
	}
}

func TestWhisperCLIFailure(t *testing.T) {
	cli := writeFakeCLI(t, `echo 'model load failed' >&2; exit 1`)

	w := transcribe.NewWhisperCLI(cli, "model.bin", "en")
	_, err := w.Transcribe(context.Background(), "clip.wav")
	if !errors.Is(err, transcribe.ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
}

func TestWhisperCLIMissingBinary(t *testing.T) {
	w := transcribe.NewWhisperCLI("/nonexistent/whisper-cli", "model.bin", "en")
	_, err := w.Transcribe(context.Background(), "clip.wav")
	if !errors.Is(err, transcribe.ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
}
