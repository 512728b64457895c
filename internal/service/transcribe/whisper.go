package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrTranscription marks a failed speech-to-text attempt. Wrapped errors
// carry the engine detail; callers classify with errors.Is.
var ErrTranscription = errors.New("transcription failed")

// Transcriber converts a recorded audio clip into text. The call is
// synchronous and fatal to the turn on failure.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// WhisperCLI shells out to a local whisper.cpp binary. The transcript is
// read from stdout; engine logging goes to stderr.
type WhisperCLI struct {
	binary    string
	modelPath string
	language  string
}

// NewWhisperCLI builds a transcriber around the given whisper.cpp binary and
// ggml model file.
func NewWhisperCLI(binary, modelPath, language string) *WhisperCLI {
	return &WhisperCLI{binary: binary, modelPath: modelPath, language: language}
}

// Transcribe runs the CLI against the clip and returns the trimmed text.
// An empty transcript is a valid result for silent audio.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	args := []string{"-m", w.modelPath, "-f", audioPath, "--no-timestamps"}
	if w.language != "" {
		args = append(args, "-l", w.language)
	}

	cmd := exec.CommandContext(ctx, w.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("%w: %s", ErrTranscription, detail)
	}

	return strings.TrimSpace(stdout.String()), nil
}
