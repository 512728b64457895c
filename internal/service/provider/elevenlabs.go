package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/luvv-ai/backend/internal/model/persona"
)

const (
	elevenLabsProvider = "elevenlabs"
	elevenLabsBaseURL  = "https://api.elevenlabs.io"

	// maxErrorBody bounds how much of a failure response is carried into
	// the error message.
	maxErrorBody = 2048
)

// SynthesisRequest carries one reply text to the text-to-speech provider.
type SynthesisRequest struct {
	Text       string
	Credential string
	Voice      persona.Voice
}

// SpeechClient converts reply text into an audio clip. Single attempt, no
// retries; the audio is a transient byte stream, never persisted here.
type SpeechClient interface {
	Synthesize(ctx context.Context, req SynthesisRequest) ([]byte, error)
}

// ElevenLabsSynthesizer calls the ElevenLabs single-shot synthesis endpoint
// with a per-request key.
type ElevenLabsSynthesizer struct {
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsSynthesizer returns a synthesizer against the public API.
func NewElevenLabsSynthesizer() *ElevenLabsSynthesizer {
	return &ElevenLabsSynthesizer{
		baseURL:    elevenLabsBaseURL,
		httpClient: &http.Client{},
	}
}

// NewElevenLabsSynthesizerWithBaseURL overrides the endpoint, used in tests.
func NewElevenLabsSynthesizerWithBaseURL(baseURL string) *ElevenLabsSynthesizer {
	return &ElevenLabsSynthesizer{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type elevenLabsPayload struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize posts the text and returns the MP3 byte stream.
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, req SynthesisRequest) ([]byte, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return nil, MissingCredential(elevenLabsProvider)
	}

	payload := elevenLabsPayload{
		Text:    req.Text,
		ModelID: req.Voice.ModelID,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       req.Voice.Stability,
			SimilarityBoost: req.Voice.SimilarityBoost,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal synthesis payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?optimize_streaming_latency=4", s.baseURL, req.Voice.VoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", req.Credential)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{
			Kind:     KindUnavailable,
			Provider: elevenLabsProvider,
			Message:  err.Error(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{
			Kind:     classifyStatus(resp.StatusCode),
			Provider: elevenLabsProvider,
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(string(detail)),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:     KindUnavailable,
			Provider: elevenLabsProvider,
			Message:  fmt.Sprintf("read audio stream: %v", err),
		}
	}

	return audio, nil
}
