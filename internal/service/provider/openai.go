package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const openAIProvider = "openai"

// GenerationRequest carries one prompt to the text-generation provider along
// with the session-scoped credential that authenticates it.
type GenerationRequest struct {
	Prompt      string
	Credential  string
	Model       string
	Temperature float32
}

// GenerationClient produces a persona reply for a fully assembled prompt.
// Implementations perform a single attempt; retry policy belongs to callers.
type GenerationClient interface {
	Complete(ctx context.Context, req GenerationRequest) (string, error)
}

// OpenAIGenerator calls the OpenAI chat completion API with a per-request
// key. A fresh client is built per call because the key belongs to the
// session owner, not the service.
type OpenAIGenerator struct {
	baseURL string
}

// NewOpenAIGenerator returns a generator against the public OpenAI endpoint.
func NewOpenAIGenerator() *OpenAIGenerator {
	return &OpenAIGenerator{}
}

// NewOpenAIGeneratorWithBaseURL overrides the API endpoint, used in tests.
func NewOpenAIGeneratorWithBaseURL(baseURL string) *OpenAIGenerator {
	return &OpenAIGenerator{baseURL: baseURL}
}

// Complete runs one chat completion and returns the raw model output.
func (g *OpenAIGenerator) Complete(ctx context.Context, req GenerationRequest) (string, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return "", MissingCredential(openAIProvider)
	}

	cfg := openai.DefaultConfig(req.Credential)
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &Error{
			Kind:     KindRejected,
			Provider: openAIProvider,
			Message:  "completion returned no choices",
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// mapOpenAIError converts go-openai failures into the closed error taxonomy.
func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Kind:     classifyStatus(apiErr.HTTPStatusCode),
			Provider: openAIProvider,
			Status:   apiErr.HTTPStatusCode,
			Message:  apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{
			Kind:     classifyStatus(reqErr.HTTPStatusCode),
			Provider: openAIProvider,
			Status:   reqErr.HTTPStatusCode,
			Message:  reqErr.Error(),
		}
	}

	// Anything without a provider status is a transport-level failure.
	return &Error{
		Kind:     KindUnavailable,
		Provider: openAIProvider,
		Message:  err.Error(),
	}
}
